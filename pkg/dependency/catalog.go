package dependency

import "fmt"

// BoostVersion is pinned independently of the stage dependencies because the
// boost build is parameterized by the Python prefix and runs in the main
// stage.
const BoostVersion = "1.78.0"

// StageDependencies returns the dependencies that each build in their own
// isolated stage and are later incorporated into the main stage. Order
// matters: it is the order stages appear in the plan and the order the built
// trees are installed into the consumer.
func StageDependencies() []InstallStep {
	return []InstallStep{
		// Most debian-distributed protobuf versions are both old and not
		// built with -fPIC.
		NewSourceStep(Spec{
			Name:    "protobuf",
			Version: "3.19.2",
			URL:     "https://github.com/protocolbuffers/protobuf/releases/download/v{version}/protobuf-cpp-{version}.tar.gz",
		}),
		// The debian zlib packages aren't built with -fPIC either; this
		// installation overwrites the dpkg-installed zlib.
		NewSourceStep(Spec{
			Name:    "zlib",
			Version: "1.2.13",
			URL:     "https://zlib.net/zlib-{version}.tar.gz",
		}),
		NewSourceStep(Spec{
			Name:    "curl",
			Version: "7.61.0",
			URL:     "https://github.com/curl/curl/releases/download/curl-{version_underscore}/curl-{version}.tar.gz",
		}),
		NewSourceStep(Spec{
			Name:    "zstd",
			Version: "1.3.7",
			URL:     "https://github.com/facebook/zstd/releases/download/v{version}/zstd-{version}.tar.gz",
		}, WithConfigure("true")),
		NewSourceStep(Spec{
			Name:    "snappy",
			Version: "1.1.3",
			URL:     "https://github.com/google/snappy/releases/download/{version}/snappy-{version}.tar.gz",
		}),
		// The system patchelf is afflicted by pypa/auditwheel#103. Versions
		// past 0.12 need c++17's <optional>, which the older toolchain lacks,
		// so this version will do for now.
		NewSourceStep(Spec{
			Name:    "patchelf",
			Version: "0.12",
			URL:     "https://github.com/NixOS/patchelf/archive/refs/tags/{version}.tar.gz",
		}, WithConfigure("./bootstrap.sh && ./configure")),
		// Installed from source because cmake's FindGtest has trouble
		// locating the dpkg-installed version.
		NewSourceStep(Spec{
			Name:    "gtest",
			Version: "1.10.0",
			URL:     "https://github.com/google/googletest/archive/refs/tags/release-{version}.tar.gz",
		}, WithConfigure("cmake .")),
	}
}

// NewBoostStep builds boost.python against the interpreter at
// PythonInstallPrefix. It runs inline in the main stage, after the Python
// step.
func NewBoostStep() InstallStep {
	spec := Spec{
		Name:    "boost",
		Version: BoostVersion,
		URL:     "https://boostorg.jfrog.io/artifactory/main/release/{version}/source/boost_{version_underscore}.tar.gz",
	}
	return NewSourceStep(spec,
		BuildInline(),
		WithRecipe(
			Download(spec.ResolvedURL()),
			fmt.Sprintf("./bootstrap.sh --with-libraries=python,regex --with-python=python3 --with-python-root=%s", PythonInstallPrefix),
			`./b2 cxxflags="${CXXFLAGS}" -d0 -q -j $(nproc) address-model=64 link=static threading=multi variant=release install`,
			"rm -rf $(pwd)",
		),
	)
}
