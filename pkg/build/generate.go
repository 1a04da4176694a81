package build

import (
	"fmt"
	"iter"

	"github.com/zbentley/pulsar/pkg/dependency"
	"github.com/zbentley/pulsar/pkg/dockerfile"
	"github.com/zbentley/pulsar/pkg/target"
)

const (
	// BaseStageName is the shared toolchain stage every dependency stage
	// builds on top of.
	BaseStageName = "pulsar_build_common"
	// MainStageName is the consuming stage: Python and boost build here and
	// every dependency's scratch tree is incorporated into it.
	MainStageName = "pulsar_build_main"

	buildRoot = "/pulsar/build"
	sourceDir = buildRoot + "/pulsar-client-cpp"
)

// GeneratePlan renders the complete multi-stage Dockerfile for one matrix
// target: a common toolchain stage, one isolated stage per dependency, and a
// main stage that builds the interpreter and boost, pulls every dependency
// in, then compiles the client and packages the wheel.
func GeneratePlan(t *target.Target, opts ...dockerfile.AssemblerOption) (string, error) {
	asm := dockerfile.NewAssembler(opts...)
	deps := dependency.StageDependencies()

	if err := baseStage(asm, t); err != nil {
		return "", err
	}

	for _, dep := range deps {
		if dep.Inline() {
			continue
		}
		if err := asm.StartStage(dep.Spec().StageName(), BaseStageName); err != nil {
			return "", err
		}
		if err := appendSeq(asm, dep.BuildPhase()); err != nil {
			return "", err
		}
	}

	if err := mainStage(asm, t, deps); err != nil {
		return "", err
	}

	return asm.Plan().Render(), nil
}

func baseStage(asm *dockerfile.Assembler, t *target.Target) error {
	if err := asm.StartStage(BaseStageName, t.BuilderOS); err != nil {
		return err
	}
	return asm.AppendAll(
		dockerfile.MustRun(
			`echo 'exec ls -lah "$@"' > /usr/local/bin/ll`,
			"chmod +x /usr/local/bin/ll",
			"mkdir -p /pulsar/scratch",
			"mkdir -p "+buildRoot,
		),
		dependency.AptInstall(
			"build-essential",
			"wget",
			"libtool",
			"openssl",
			"libssl-dev",
			"autoconf", // patchelf's build needs it
			"xz-utils",
		),
		// Curl is already present on some distributions; Python isn't on
		// most Debians, but may be on others. Both get rebuilt from source.
		dependency.AptUninstall("curl", "python", "python3", "zlib1g-dev"),
		dockerfile.MustRun("rm -rf /usr/lib/python* /usr/local/lib/python* /usr/local/bin/python*"),
		dockerfile.MustRun("wget -c https://cmake.org/files/v3.22/cmake-3.22.6-linux-$(arch).tar.gz -O - | tar -xzC /usr/local --strip-components=1"),
	)
}

func mainStage(asm *dockerfile.Assembler, t *target.Target, deps []dependency.InstallStep) error {
	if err := asm.StartStage(MainStageName, BaseStageName); err != nil {
		return err
	}

	python := dependency.NewPythonStep(t.PythonVersion)
	if err := appendSeq(asm, python.BuildPhase()); err != nil {
		return err
	}
	if err := asm.Append(dockerfile.Env{Name: "PATH", Value: dependency.PythonInstallPrefix + "/bin:$PATH"}); err != nil {
		return err
	}
	if err := appendSeq(asm, dependency.NewBoostStep().BuildPhase()); err != nil {
		return err
	}

	for _, dep := range deps {
		if err := asm.Append(dockerfile.Raw("\n# Incorporate build " + dep.Spec().StageName())); err != nil {
			return err
		}
		if err := appendSeq(asm, dep.IncorporatePhase()); err != nil {
			return err
		}
	}

	asm.FinishStages()
	return packageWheel(asm, t)
}

// packageWheel emits the consumer-facing trailer: bootstrap pip, copy the
// source tree, compile the client libraries and package/verify the wheel.
func packageWheel(asm *dockerfile.Assembler, t *target.Target) error {
	python := dependency.PythonInstallPrefix + "/bin/python3"
	return asm.AppendAll(
		dockerfile.MustRun(
			python+" -m ensurepip --upgrade",
			python+" -m pip install --upgrade pip",
			python+" -m pip install --upgrade pip six grpcio-tools==1.44.0 certifi auditwheel==5.1.2 setuptools wheel",
			python+" -m pip cache purge",
		),
		dockerfile.Copy{Src: "./", Dest: buildRoot},
		dockerfile.Raw("WORKDIR "+sourceDir),
		dockerfile.Env{Name: "CXXFLAGS", Value: ""},
		dockerfile.Env{Name: "CFLAGS", Value: ""},
		dockerfile.Env{Name: "USE_FULL_POM_NAME", Value: "True"},
		dockerfile.MustRun(
			"find . -name CMakeCache.txt | xargs -r rm -rf",
			"find . -name CMakeFiles | xargs -r rm -rf",
			`find . -name \*.egg-info | xargs -r rm -rf`,
			"rm -rf python/wheelhouse python/build python/dist",
			"cmake . -DLINK_STATIC=ON -DBUILD_TESTS=ON",
			"make clean",
			"make pulsarShared pulsarStatic _pulsar -j$(nproc)",
		),
		dockerfile.Raw("WORKDIR "+sourceDir+"/python"),
		dockerfile.MustRun(
			python+" setup.py bdist_wheel",
			fmt.Sprintf("%s -m auditwheel --verbose repair --plat %s_$(arch) dist/pulsar_client*.whl", python, t.WheelPlatform),
			python+" -m pip install wheelhouse/*.whl",
			"cd /",
			python+` -c "import pulsar"`,
			// Works, and works in the presence of grpcio-tools.
			python+` -c "import logging; from grpc_tools.protoc import main as protoc; import pulsar;"`,
		),
	)
}

func appendSeq(asm *dockerfile.Assembler, seq iter.Seq[dockerfile.Instruction]) error {
	for inst := range seq {
		if err := asm.Append(inst); err != nil {
			return err
		}
	}
	return nil
}
