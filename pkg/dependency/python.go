package dependency

import (
	"fmt"
	"iter"

	"github.com/zbentley/pulsar/pkg/dockerfile"
)

// PythonInstallPrefix is where the CPython interpreter lands. The boost and
// wheel-packaging steps reference it, so it is fixed rather than derived.
const PythonInstallPrefix = "/usr/local/python3"

// pyenvURL points at pyenv's python-build plugin, which does the actual
// download-and-compile of CPython.
const pyenvURL = "github.com/pyenv/pyenv/archive/refs/heads/master.tar.gz"

// pythonBuildPackages are the -dev headers python-build needs to compile a
// fully featured interpreter.
var pythonBuildPackages = []string{
	"libbz2-dev", "libreadline-dev", "libsqlite3-dev", "libncursesw5-dev", "libxml2-dev",
	"libxmlsec1-dev", "libffi-dev", "liblzma-dev", "zlib1g",
	"zlib1g-dev",
}

// pythonPurgePackages are purged after the interpreter build so the final
// image does not carry header packages only the build needed.
var pythonPurgePackages = []string{
	"bzip2-doc",
	"icu-devtools",
	"libbz2-dev",
	"libffi-dev",
	"libgcrypt20-dev",
	"libglib2.0-0",
	"libglib2.0-data",
	"libgmp-dev",
	"libgmpxx4ldbl",
	"libgnutls-dane0",
	"libgnutls-openssl27",
	"libgnutls28-dev",
	"libgnutlsxx28",
	"libgpg-error-dev",
	"libidn11-dev",
	"liblzma-dev",
	"libncursesw5-dev",
	"libnspr4",
	"libnspr4-dev",
	"libnss3",
	"libnss3-dev",
	"libp11-kit-dev",
	"libreadline-dev",
	"libsqlite3-dev",
	"libtasn1-6-dev",
	"libtasn1-doc",
	"libtinfo-dev",
	"libxml2",
	"libxml2-dev",
	"libxmlsec1",
	"libxmlsec1-dev",
	"libxmlsec1-gcrypt",
	"libxmlsec1-gnutls",
	"libxmlsec1-nss",
	"libxmlsec1-openssl",
	"libxslt1-dev",
	"libxslt1.1",
	"nettle-dev",
	"pkg-config",
	"sgml-base",
	"shared-mime-info",
	"xdg-user-dirs",
	"xml-core",
}

// PythonStep builds a CPython interpreter via pyenv's python-build. It is a
// language-runtime step: package-manager setup and teardown bracket the
// build, and a guard refuses to clobber an existing installation at the
// target prefix.
type PythonStep struct {
	spec Spec
}

func NewPythonStep(pythonVersion string) *PythonStep {
	return &PythonStep{
		spec: Spec{Name: "python", Version: pythonVersion, URL: pyenvURL},
	}
}

func (s *PythonStep) Spec() Spec {
	return s.spec
}

// Inline is true: the interpreter is built directly in the consuming stage so
// later steps (boost, wheel packaging) can link against it without a copy.
func (s *PythonStep) Inline() bool {
	return true
}

func (s *PythonStep) BuildPhase() iter.Seq[dockerfile.Instruction] {
	pre := compilerFlags()
	pre = append(pre,
		dockerfile.Env{Name: "CONFIGURE_OPTS", Value: "--enable-shared"},
		AptInstall(pythonBuildPackages...),
		dockerfile.MustRun("test ! -d "+PythonInstallPrefix),
	)
	recipe := []string{
		Download(s.spec.ResolvedURL()),
		fmt.Sprintf("./plugins/python-build/bin/python-build %s %s || cat /tmp/python-build* 1>&2 | grep nonex", s.spec.Version, PythonInstallPrefix),
		// Pre-3.8 interpreters install their headers under include/python3.Xm.
		fmt.Sprintf("if [ -e %[1]s/include/python3.7m ]; then ln -s %[1]s/include/python3.7m/ %[1]s/include/python3.7; fi", PythonInstallPrefix),
		"rm -rf $(pwd)",
	}
	post := []dockerfile.Instruction{
		AptUninstall(pythonPurgePackages...),
	}
	return buildPhase(s.spec, pre, recipe, post)
}

// IncorporatePhase is the degenerate inline case: the interpreter installed
// itself into PythonInstallPrefix during the build, so nothing is emitted.
func (s *PythonStep) IncorporatePhase() iter.Seq[dockerfile.Instruction] {
	return incorporatePhase(s.spec, true, nil)
}
