package dockerfile

import (
	"fmt"
	"strings"
)

// stageBanner separates stages in the rendered output. Purely cosmetic, but
// part of the deterministic output contract.
var stageBanner = strings.Repeat("#", 120)

// Stage is a named instruction sequence built on a declared base. An empty
// Base means the stage continues the previous stage's filesystem and renders
// no FROM header.
type Stage struct {
	Name         string
	Base         string
	Instructions []Instruction
}

// BuildPlan is an ordered list of stages plus trailing instructions appended
// after the last stage.
type BuildPlan struct {
	stages  []*Stage
	trailer []Instruction
}

// Render serializes the plan. Identical plans render to byte-identical text.
func (p *BuildPlan) Render() string {
	var b strings.Builder
	for i, stage := range p.stages {
		if i > 0 {
			b.WriteString("\n")
			b.WriteString(stageBanner)
			b.WriteString("\n")
		}
		if stage.Base != "" {
			fmt.Fprintf(&b, "FROM %s AS %s\n", stage.Base, stage.Name)
		}
		for _, inst := range stage.Instructions {
			b.WriteString(inst.String())
			b.WriteString("\n")
		}
	}
	for _, inst := range p.trailer {
		b.WriteString(inst.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Assembler folds stages and trailing instructions into a BuildPlan while
// enforcing naming invariants: no two stages may declare the same name, and a
// cross-stage COPY may only reference a stage declared earlier in the plan.
// An Assembler is single-use; build one plan and discard it.
type Assembler struct {
	strictNames bool
	declared    map[string]bool
	plan        *BuildPlan
	current     *Stage
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithStrictNameUniqueness toggles the duplicate-stage-name check. It is on
// by default; later revisions of the original build tooling dropped the check
// without explanation, so it is kept behind an explicit switch instead.
func WithStrictNameUniqueness(strict bool) AssemblerOption {
	return func(a *Assembler) {
		a.strictNames = strict
	}
}

func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		strictNames: true,
		declared:    map[string]bool{},
		plan:        &BuildPlan{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// StartStage declares a new stage. An empty base continues the previous
// stage's filesystem.
func (a *Assembler) StartStage(name, base string) error {
	if a.strictNames && a.declared[name] {
		return fmt.Errorf("%w: %q", ErrDuplicateStageName, name)
	}
	a.declared[name] = true
	a.current = &Stage{Name: name, Base: base}
	a.plan.stages = append(a.plan.stages, a.current)
	return nil
}

// Append adds an instruction to the current stage, or to the plan trailer if
// no stage has been started yet. Cross-stage copies are validated against the
// set of stages declared so far.
func (a *Assembler) Append(inst Instruction) error {
	if copyInst, ok := inst.(Copy); ok && copyInst.From != "" {
		if !a.declared[copyInst.From] {
			return fmt.Errorf("%w: %q", ErrUnknownStageReference, copyInst.From)
		}
	}
	if a.current == nil {
		a.plan.trailer = append(a.plan.trailer, inst)
		return nil
	}
	a.current.Instructions = append(a.current.Instructions, inst)
	return nil
}

// AppendAll appends instructions in order, stopping at the first error.
func (a *Assembler) AppendAll(insts ...Instruction) error {
	for _, inst := range insts {
		if err := a.Append(inst); err != nil {
			return err
		}
	}
	return nil
}

// FinishStages closes the current stage; subsequent Append calls go to the
// plan trailer.
func (a *Assembler) FinishStages() {
	a.current = nil
}

// Plan returns the assembled plan.
func (a *Assembler) Plan() *BuildPlan {
	return a.plan
}
