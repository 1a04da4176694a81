package dependency

import (
	"iter"

	"github.com/zbentley/pulsar/pkg/dockerfile"
)

// InstallStep is the two-phase install lifecycle of one dependency.
//
// BuildPhase compiles the dependency from scratch inside its own stage;
// IncorporatePhase copies the built scratch tree into a consuming stage and
// installs it there. IncorporatePhase may only be rendered into a plan that
// already contains the stage produced by BuildPhase; the plan generator is
// responsible for that ordering.
//
// Both phases are lazy single-use sequences, consumed exactly once while the
// plan is assembled.
type InstallStep interface {
	Spec() Spec
	// Inline reports that the step builds directly inside the consuming
	// stage, with no isolated stage of its own.
	Inline() bool
	BuildPhase() iter.Seq[dockerfile.Instruction]
	IncorporatePhase() iter.Seq[dockerfile.Instruction]
}

// compilerFlags are applied before every dependency build. Everything is
// statically linked into a shared object in the end, so -fPIC throughout.
func compilerFlags() []dockerfile.Instruction {
	return []dockerfile.Instruction{
		dockerfile.Env{Name: "CFLAGS", Value: "-fPIC -O3"},
		dockerfile.Env{Name: "CXXFLAGS", Value: "-fPIC -O3"},
	}
}

// buildPhase emits pre-build bindings, then a single RUN that creates the
// scratch workdir and executes the build recipe, then post-build cleanup.
// The trailing ldconfig refreshes the dynamic-linker cache for anything the
// recipe installed.
func buildPhase(s Spec, pre []dockerfile.Instruction, recipe []string, post []dockerfile.Instruction) iter.Seq[dockerfile.Instruction] {
	return func(yield func(dockerfile.Instruction) bool) {
		for _, inst := range pre {
			if !yield(inst) {
				return
			}
		}
		fragments := append([]string{"mkdir -p " + s.workdir(), "cd " + s.workdir()}, recipe...)
		fragments = append(fragments, "ldconfig")
		if !yield(dockerfile.MustRun(fragments...)) {
			return
		}
		for _, inst := range post {
			if !yield(inst) {
				return
			}
		}
	}
}

// incorporatePhase recreates the scratch workdir in the consuming stage,
// copies the built tree across from the step's own stage, and runs the local
// install commands. Inline steps skip the copy since they built in place.
func incorporatePhase(s Spec, inline bool, localInstall []string) iter.Seq[dockerfile.Instruction] {
	return func(yield func(dockerfile.Instruction) bool) {
		if !inline {
			if !yield(dockerfile.MustRun("mkdir -p " + s.workdir())) {
				return
			}
			if !yield(dockerfile.Copy{Src: s.workdir(), Dest: s.workdir(), From: s.StageName()}) {
				return
			}
		}
		if len(localInstall) > 0 {
			if !yield(dockerfile.MustRun(localInstall...)) {
				return
			}
		}
	}
}

// defaultConfigure handles tarballs that ship a configure script as well as
// ones that build with a bare Makefile.
const defaultConfigure = "test -e configure && ./configure || true"

// SourceStep compiles a dependency from a release tarball with the standard
// download / configure / make / make install sequence.
type SourceStep struct {
	spec      Spec
	configure string
	recipe    []string
	inline    bool
}

// SourceOption configures a SourceStep.
type SourceOption func(*SourceStep)

// WithConfigure replaces the default configure fragment.
func WithConfigure(fragment string) SourceOption {
	return func(s *SourceStep) {
		s.configure = fragment
	}
}

// WithRecipe replaces the entire default build recipe with custom shell
// fragments. The download is not implied; include it in the recipe.
func WithRecipe(fragments ...string) SourceOption {
	return func(s *SourceStep) {
		s.recipe = fragments
	}
}

// BuildInline makes the step build directly in the consuming stage instead of
// an isolated one.
func BuildInline() SourceOption {
	return func(s *SourceStep) {
		s.inline = true
	}
}

func NewSourceStep(spec Spec, opts ...SourceOption) *SourceStep {
	step := &SourceStep{spec: spec, configure: defaultConfigure}
	for _, opt := range opts {
		opt(step)
	}
	return step
}

func (s *SourceStep) Spec() Spec {
	return s.spec
}

func (s *SourceStep) Inline() bool {
	return s.inline
}

func (s *SourceStep) BuildPhase() iter.Seq[dockerfile.Instruction] {
	recipe := s.recipe
	if recipe == nil {
		recipe = []string{
			Download(s.spec.ResolvedURL()),
			s.configure,
			"make -j$(nproc)",
		}
	}
	return buildPhase(s.spec, compilerFlags(), recipe, nil)
}

func (s *SourceStep) IncorporatePhase() iter.Seq[dockerfile.Instruction] {
	return incorporatePhase(s.spec, s.inline, []string{
		"cd " + s.spec.workdir(),
		"make install",
		"rm -rf " + s.spec.workdir(),
		"ldconfig",
	})
}
