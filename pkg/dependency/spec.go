// Package dependency describes how each third-party dependency of the Pulsar
// C++ client is compiled in an isolated image stage and later incorporated
// into the consuming build stage.
package dependency

import "strings"

// DefaultWorkdir is the scratch directory a dependency is built in. The same
// path is recreated in the consuming stage and the built tree copied across.
const DefaultWorkdir = "/pulsar/scratch"

// stagePrefix namespaces the image stages derived from dependency names.
const stagePrefix = "pulsar_build_"

// Spec identifies one dependency: a name (which derives the stage name), a
// pinned version, and a download URL template. The template may contain
// {version} and {version_underscore} placeholders; the latter substitutes
// underscores for dots, which boost's archive naming needs.
type Spec struct {
	Name    string
	Version string
	URL     string
	Workdir string
}

// ResolvedURL expands the URL template placeholders with the pinned version.
func (s Spec) ResolvedURL() string {
	url := strings.ReplaceAll(s.URL, "{version}", s.Version)
	return strings.ReplaceAll(url, "{version_underscore}", strings.ReplaceAll(s.Version, ".", "_"))
}

// StageName derives the image stage this dependency builds in.
func (s Spec) StageName() string {
	return stagePrefix + s.Name
}

func (s Spec) workdir() string {
	if s.Workdir == "" {
		return DefaultWorkdir
	}
	return s.Workdir
}
