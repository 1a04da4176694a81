package dockerfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunJoinsFragmentsInOrder(t *testing.T) {
	run, err := NewRun("apt update", "apt install -y wget", "rm -rf /var/lib/apt/lists/*")
	require.NoError(t, err)

	require.Equal(t, "RUN apt update && \\\n    apt install -y wget && \\\n    rm -rf /var/lib/apt/lists/*", run.String())
}

func TestRunSingleFragment(t *testing.T) {
	run, err := NewRun("ldconfig")
	require.NoError(t, err)
	require.Equal(t, "RUN ldconfig", run.String())
}

func TestRunRequiresFragments(t *testing.T) {
	_, err := NewRun()
	require.ErrorIs(t, err, ErrInvalidInstruction)
}

func TestMustRunPanicsOnEmpty(t *testing.T) {
	require.Panics(t, func() {
		MustRun()
	})
}

func TestRunIsImmutable(t *testing.T) {
	fragments := []string{"echo one", "echo two"}
	run, err := NewRun(fragments...)
	require.NoError(t, err)

	rendered := run.String()
	fragments[0] = "echo mutated"
	require.Equal(t, rendered, run.String())
}

func TestEnvQuoting(t *testing.T) {
	for _, tt := range []struct {
		name     string
		value    string
		expected string
	}{
		{"bare", "-fPIC -O3", `ENV CFLAGS="-fPIC -O3"`},
		{"double quoted", `"-fPIC -O3"`, `ENV CFLAGS="-fPIC -O3"`},
		{"single quoted", `'-fPIC -O3'`, `ENV CFLAGS="-fPIC -O3"`},
		{"empty", "", `ENV CFLAGS=""`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Env{Name: "CFLAGS", Value: tt.value}.String())
		})
	}
}

func TestEnvQuoteStrippingIsIdempotent(t *testing.T) {
	once := Env{Name: "K", Value: `"value"`}.String()
	twice := Env{Name: "K", Value: stripQuotes(`"value"`)}.String()
	require.Equal(t, once, twice)
}

func TestArgRendersLikeEnv(t *testing.T) {
	require.Equal(t, `ARG PY_VERSION="3.8.16"`, Arg{Name: "PY_VERSION", Value: `"3.8.16"`}.String())
}

func TestCopyNormalizesDestination(t *testing.T) {
	assert.Equal(t, "COPY /pulsar/scratch /pulsar/scratch/", Copy{Src: "/pulsar/scratch", Dest: "/pulsar/scratch"}.String())
	assert.Equal(t, "COPY /pulsar/scratch /pulsar/scratch/", Copy{Src: "/pulsar/scratch", Dest: "/pulsar/scratch/"}.String())
}

func TestCopyFromStage(t *testing.T) {
	copyInst := Copy{Src: "/pulsar/scratch", Dest: "/pulsar/scratch", From: "pulsar_build_zlib"}
	require.Equal(t, "COPY --from=pulsar_build_zlib /pulsar/scratch /pulsar/scratch/", copyInst.String())
}
