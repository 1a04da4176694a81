// Package build enumerates the wheel build matrix and drives one docker build
// per target, sequentially, collecting per-target failures instead of
// aborting the run.
package build

import (
	"context"
	"fmt"
	"strings"

	"github.com/zbentley/pulsar/pkg/docker"
	"github.com/zbentley/pulsar/pkg/target"
	"github.com/zbentley/pulsar/pkg/util/console"
)

// Options parameterizes one matrix run.
type Options struct {
	PythonVersions []string
	Architectures  []string
	// NativeArch is scheduled first so local builds give fast feedback
	// before the slower emulated cross-architecture ones start.
	NativeArch string
	ContextDir string
	OutputDir  string
}

// TargetFailure is one failed matrix target with its underlying cause.
type TargetFailure struct {
	Target *target.Target
	Err    error
}

// MatrixError reports every target that failed during a matrix run.
type MatrixError struct {
	Failures []TargetFailure
}

func (e *MatrixError) Error() string {
	lines := make([]string, 0, len(e.Failures)+1)
	lines = append(lines, fmt.Sprintf("%d build target(s) failed:", len(e.Failures)))
	for _, f := range e.Failures {
		lines = append(lines, fmt.Sprintf("  %s: %s", f.Target.ContainerName(), f.Err))
	}
	return strings.Join(lines, "\n")
}

// EnumerateTargets resolves the full cartesian product of versions and
// architectures, with every native-architecture target ordered before the
// cross-architecture ones. Resolution errors abort enumeration; nothing is
// built from a partially resolved matrix.
func EnumerateTargets(versions []string, architectures []string, nativeArch string) ([]*target.Target, error) {
	ordered := make([]string, 0, len(architectures))
	for _, arch := range architectures {
		if arch == nativeArch {
			ordered = append(ordered, arch)
		}
	}
	for _, arch := range architectures {
		if arch != nativeArch {
			ordered = append(ordered, arch)
		}
	}

	targets := make([]*target.Target, 0, len(versions)*len(ordered))
	for _, arch := range ordered {
		for _, version := range versions {
			t, err := target.Resolve(version, arch)
			if err != nil {
				return nil, err
			}
			targets = append(targets, t)
		}
	}
	return targets, nil
}

// Run builds every matrix target in order. Builds are strictly sequential:
// the buildx layer cache and the output directory are shared, unsynchronized
// resources, so concurrent targets would race. A failed target is recorded
// and the matrix continues; the returned error, if any, is a *MatrixError
// listing every failure.
func Run(ctx context.Context, dockerCommand docker.Command, opts Options) error {
	targets, err := EnumerateTargets(opts.PythonVersions, opts.Architectures, opts.NativeArch)
	if err != nil {
		return err
	}
	if err := dockerCommand.Ping(ctx); err != nil {
		return fmt.Errorf("docker is not usable: %w", err)
	}

	var failures []TargetFailure
	for _, t := range targets {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		console.Infof("About to build: %s", t)

		plan, err := GeneratePlan(t)
		if err != nil {
			// Plan construction errors are precondition violations, not
			// build flakes; halt immediately with full context.
			return fmt.Errorf("generating plan for %s: %w", t.ContainerName(), err)
		}

		artifacts, err := dockerCommand.BuildAndExtract(ctx, plan, t.ContainerName(), t.Arch, opts.ContextDir, opts.OutputDir)
		if err != nil {
			console.Errorf("Build failed: %s: %s", t, err)
			failures = append(failures, TargetFailure{Target: t, Err: err})
			continue
		}
		console.Infof("Successfully built: %s (wheels in %s)", t, artifacts)
	}

	if len(failures) > 0 {
		return &MatrixError{Failures: failures}
	}
	return nil
}
