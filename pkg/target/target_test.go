package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveVersionThresholdIsNumeric(t *testing.T) {
	// "3.10.0" < "3.9.0" lexicographically; a string comparison picks the
	// wrong builder OS for both of these.
	older, err := Resolve("3.9.0", "amd64")
	require.NoError(t, err)
	assert.Equal(t, "debian:9", older.BuilderOS)
	assert.Equal(t, "manylinux_2_24", older.WheelPlatform)

	newer, err := Resolve("3.10.0", "amd64")
	require.NoError(t, err)
	assert.Equal(t, "debian:10", newer.BuilderOS)
	assert.Equal(t, "manylinux_2_27", newer.WheelPlatform)
}

func TestResolveCutoffIsInclusive(t *testing.T) {
	at, err := Resolve("3.10", "arm64")
	require.NoError(t, err)
	require.Equal(t, "debian:10", at.BuilderOS)
}

func TestResolveRejectsUnsupportedArchitecture(t *testing.T) {
	_, err := Resolve("3.8.16", "s390x")
	require.ErrorIs(t, err, ErrUnsupportedArchitecture)
	require.Contains(t, err.Error(), "s390x")
}

func TestResolveRejectsGarbageVersion(t *testing.T) {
	_, err := Resolve("not-a-version", "amd64")
	require.Error(t, err)
}

func TestContainerName(t *testing.T) {
	tgt, err := Resolve("3.7.16", "arm64")
	require.NoError(t, err)
	require.Equal(t, "pulsar_python_client_build_3.7.16_arm64", tgt.ContainerName())
}

func TestString(t *testing.T) {
	tgt, err := Resolve("3.8.16", "amd64")
	require.NoError(t, err)
	require.Equal(t, "python 3.8.16 on debian:9 to generate a amd64 manylinux_2_24 wheel", tgt.String())
}
