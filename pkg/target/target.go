// Package target resolves a (Python version, CPU architecture) pair into the
// full configuration a wheel build needs: builder OS, manylinux platform tag
// and a stable build identifier.
package target

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

var ErrUnsupportedArchitecture = errors.New("unsupported architecture")

// SupportedArchitectures lists the CPU architectures wheels are built for.
var SupportedArchitectures = []string{"arm64", "amd64"}

// opensslCutoff is the Python version that first requires openssl 1.1.1.
// That release is only present on Debian 10, which in turn links a newer
// libc, so the manylinux tag gets bumped alongside the builder OS.
var opensslCutoff = goversion.Must(goversion.NewVersion("3.10"))

// Target is one matrix entry: a Python version and architecture plus the
// configuration derived from them. Immutable once resolved.
type Target struct {
	PythonVersion string
	Arch          string
	BuilderOS     string
	WheelPlatform string
}

// Resolve derives a Target. The version comparison is semantic (component-wise
// numeric): "3.10" is newer than "3.9", which a string comparison gets wrong.
func Resolve(pythonVersion, arch string) (*Target, error) {
	if !slices.Contains(SupportedArchitectures, arch) {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedArchitecture, arch, strings.Join(SupportedArchitectures, ", "))
	}
	version, err := goversion.NewVersion(pythonVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid python version %q: %w", pythonVersion, err)
	}

	t := &Target{PythonVersion: pythonVersion, Arch: arch}
	if version.GreaterThanOrEqual(opensslCutoff) {
		t.BuilderOS = "debian:10"
		t.WheelPlatform = "manylinux_2_27"
	} else {
		t.BuilderOS = "debian:9"
		t.WheelPlatform = "manylinux_2_24"
	}
	return t, nil
}

// ContainerName is the unique identifier for this target's image and
// extraction container.
func (t *Target) ContainerName() string {
	return strings.Join([]string{"pulsar_python_client_build", t.PythonVersion, t.Arch}, "_")
}

func (t *Target) String() string {
	return fmt.Sprintf("python %s on %s to generate a %s %s wheel", t.PythonVersion, t.BuilderOS, t.Arch, t.WheelPlatform)
}
