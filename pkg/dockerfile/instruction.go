// Package dockerfile models Dockerfile instructions and multi-stage build
// plans as immutable values with deterministic rendering. The rendered text is
// hashed by BuildKit's layer cache, so rendering the same plan twice must
// produce byte-identical output.
package dockerfile

import (
	"fmt"
	"strings"
)

// Instruction is a single logical line of a Dockerfile.
type Instruction interface {
	fmt.Stringer
}

// runSeparator chains fragments so that any failing fragment aborts the rest.
const runSeparator = " && \\\n    "

// Run executes one or more shell fragments in a single layer. Fragments are
// joined with `&&` so the layer fails fast, and with line continuations so the
// rendered Dockerfile stays readable.
type Run struct {
	fragments []string
}

// NewRun returns a Run over the given shell fragments, in order. At least one
// fragment is required.
func NewRun(fragments ...string) (Run, error) {
	if len(fragments) == 0 {
		return Run{}, fmt.Errorf("%w: RUN requires at least one shell fragment", ErrInvalidInstruction)
	}
	return Run{fragments: append([]string{}, fragments...)}, nil
}

// MustRun is like NewRun but panics on error. Intended for static instruction
// tables where the fragment count is known at compile time.
func MustRun(fragments ...string) Run {
	run, err := NewRun(fragments...)
	if err != nil {
		panic(err)
	}
	return run
}

func (r Run) String() string {
	return "RUN " + strings.Join(r.fragments, runSeparator)
}

// Env sets an environment variable visible at build and run time.
type Env struct {
	Name  string
	Value string
}

func (e Env) String() string {
	return fmt.Sprintf("ENV %s=%q", e.Name, stripQuotes(e.Value))
}

// Arg declares a build argument. It renders exactly like Env apart from the
// keyword; the difference is which build lifecycle phase may read it.
type Arg struct {
	Name  string
	Value string
}

func (a Arg) String() string {
	return fmt.Sprintf("ARG %s=%q", a.Name, stripQuotes(a.Value))
}

// Copy copies Src into the Dest directory. When From is set, the source is
// another stage's filesystem rather than the build context.
type Copy struct {
	Src  string
	Dest string
	From string
}

func (c Copy) String() string {
	payload := fmt.Sprintf("%s %s/", c.Src, strings.TrimRight(c.Dest, "/"))
	if c.From != "" {
		payload = fmt.Sprintf("--from=%s %s", c.From, payload)
	}
	return "COPY " + payload
}

// Raw is a verbatim Dockerfile line, used for comments and the occasional
// instruction the model does not cover (WORKDIR and friends).
type Raw string

func (r Raw) String() string {
	return string(r)
}

// stripQuotes removes surrounding double then single quotes so that values
// arriving pre-quoted are not double-quoted on render.
func stripQuotes(v string) string {
	return strings.Trim(strings.Trim(v, `"`), `'`)
}
