// Package docker drives the external container build engine. The core hands
// it a rendered build plan per matrix target; everything else (BuildKit
// invocation, artifact extraction) happens here.
package docker

import "context"

// Command is the build-and-extract collaborator consumed by the build
// orchestrator. Implementations must be safe to retry per target; the
// orchestrator itself never retries.
type Command interface {
	// Ping verifies the build engine is reachable before the matrix starts.
	Ping(ctx context.Context) error
	// BuildAndExtract realizes one rendered build plan: builds the image for
	// the given platform architecture, then copies the produced wheelhouse
	// out of a container into outputDir. It returns the artifact location.
	BuildAndExtract(ctx context.Context, plan string, containerName string, arch string, contextDir string, outputDir string) (string, error)
}
