package dependency

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zbentley/pulsar/pkg/dockerfile"
)

func render(insts []dockerfile.Instruction) []string {
	lines := make([]string, len(insts))
	for i, inst := range insts {
		lines[i] = inst.String()
	}
	return lines
}

func TestSpecURLExpansion(t *testing.T) {
	spec := Spec{
		Name:    "curl",
		Version: "7.61.0",
		URL:     "https://github.com/curl/curl/releases/download/curl-{version_underscore}/curl-{version}.tar.gz",
	}
	require.Equal(t, "https://github.com/curl/curl/releases/download/curl-7_61_0/curl-7.61.0.tar.gz", spec.ResolvedURL())
	require.Equal(t, "pulsar_build_curl", spec.StageName())
}

func TestSourceStepBuildPhase(t *testing.T) {
	step := NewSourceStep(Spec{
		Name:    "zlib",
		Version: "1.2.13",
		URL:     "https://zlib.net/zlib-{version}.tar.gz",
	})
	lines := render(slices.Collect(step.BuildPhase()))

	require.Len(t, lines, 3)
	assert.Equal(t, `ENV CFLAGS="-fPIC -O3"`, lines[0])
	assert.Equal(t, `ENV CXXFLAGS="-fPIC -O3"`, lines[1])

	run := lines[2]
	// One RUN covering workdir creation, download, configure, compile and
	// linker cache refresh, in that order.
	order := []string{
		"mkdir -p /pulsar/scratch",
		"cd /pulsar/scratch",
		"wget -c https://zlib.net/zlib-1.2.13.tar.gz",
		"test -e configure && ./configure || true",
		"make -j$(nproc)",
		"ldconfig",
	}
	last := -1
	for _, fragment := range order {
		idx := strings.Index(run, fragment)
		require.Greater(t, idx, last, "fragment %q out of order", fragment)
		last = idx
	}
}

func TestSourceStepCustomConfigure(t *testing.T) {
	step := NewSourceStep(Spec{Name: "patchelf", Version: "0.12", URL: "https://example.com/{version}.tar.gz"},
		WithConfigure("./bootstrap.sh && ./configure"))
	lines := render(slices.Collect(step.BuildPhase()))
	require.Contains(t, lines[2], "./bootstrap.sh && ./configure")
}

func TestSourceStepIncorporatePhase(t *testing.T) {
	step := NewSourceStep(Spec{Name: "snappy", Version: "1.1.3", URL: "https://example.com/{version}.tar.gz"})
	lines := render(slices.Collect(step.IncorporatePhase()))

	require.Len(t, lines, 3)
	assert.Equal(t, "RUN mkdir -p /pulsar/scratch", lines[0])
	assert.Equal(t, "COPY --from=pulsar_build_snappy /pulsar/scratch /pulsar/scratch/", lines[1])
	assert.Contains(t, lines[2], "make install")
	assert.Contains(t, lines[2], "rm -rf /pulsar/scratch")
}

func TestInlineStepIncorporateDegeneratesToLocalInstall(t *testing.T) {
	step := NewSourceStep(Spec{Name: "inline", Version: "1.0", URL: "https://example.com/{version}.tar.gz"}, BuildInline())
	require.True(t, step.Inline())

	lines := render(slices.Collect(step.IncorporatePhase()))
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "make install")
	require.NotContains(t, lines[0], "COPY")
}

func TestBuildPhaseIsConsumedLazily(t *testing.T) {
	step := NewSourceStep(Spec{Name: "zstd", Version: "1.3.7", URL: "https://example.com/{version}.tar.gz"})

	var collected []dockerfile.Instruction
	for inst := range step.BuildPhase() {
		collected = append(collected, inst)
		break
	}
	require.Len(t, collected, 1)
}

func TestPythonStepGuardsExistingInstallation(t *testing.T) {
	step := NewPythonStep("3.8.16")
	lines := render(slices.Collect(step.BuildPhase()))

	guarded := false
	for _, line := range lines {
		if strings.Contains(line, "test ! -d /usr/local/python3") {
			guarded = true
		}
	}
	require.True(t, guarded, "python build must refuse to overwrite an existing installation")
}

func TestPythonStepBracketsBuildWithPackages(t *testing.T) {
	step := NewPythonStep("3.7.16")
	lines := render(slices.Collect(step.BuildPhase()))
	joined := strings.Join(lines, "\n")

	installIdx := strings.Index(joined, "apt install")
	buildIdx := strings.Index(joined, "python-build 3.7.16 /usr/local/python3")
	purgeIdx := strings.Index(joined, "apt purge")
	require.Greater(t, buildIdx, installIdx, "headers must install before the interpreter build")
	require.Greater(t, purgeIdx, buildIdx, "headers must purge after the interpreter build")
}

func TestPythonStepIncorporateIsEmpty(t *testing.T) {
	step := NewPythonStep("3.8.16")
	require.Empty(t, slices.Collect(step.IncorporatePhase()))
}

func TestBoostStepTargetsPythonPrefix(t *testing.T) {
	step := NewBoostStep()
	require.True(t, step.Inline())

	lines := render(slices.Collect(step.BuildPhase()))
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "boost_1_78_0.tar.gz")
	assert.Contains(t, joined, "--with-python-root=/usr/local/python3")
	assert.Contains(t, joined, "./b2")
}

func TestStageDependencyNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, dep := range StageDependencies() {
		name := dep.Spec().StageName()
		require.False(t, seen[name], "duplicate stage name %q", name)
		seen[name] = true
	}
}
