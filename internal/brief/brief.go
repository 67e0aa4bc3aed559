// Package brief parses project brief documents into structured content.
// Parsing is a pure function of the input text: identical text always yields
// identical content, and briefs may be parsed concurrently.
package brief

// Brief types, in conventional execution order.
const (
	TypeSetup      = "setup"
	TypeFeature    = "feature"
	TypeDeployment = "deployment"
)

// Types lists the known brief types in conventional order.
var Types = []string{TypeSetup, TypeFeature, TypeDeployment}

// TypeOrder returns the conventional position of a brief type
// (setup < feature < deployment), or -1 for unknown types.
func TypeOrder(briefType string) int {
	for i, t := range Types {
		if t == briefType {
			return i
		}
	}
	return -1
}

// ParsedTask is a task extracted from a brief, prior to global ID assignment.
// It exists only within one generation run.
type ParsedTask struct {
	Title       string
	Description string
	Section     string // the section header the task was found under
	Order       int    // zero-based document order within the brief
	Priority    string

	// LocalDeps holds 1-based positions of same-brief tasks referenced by
	// "depends on task N" phrases, resolved to global IDs during assignment.
	LocalDeps []int

	// BriefRefs holds names or types of other briefs referenced by the task
	// text, resolved by the dependency mapper.
	BriefRefs []string
}

// Content is the parsed form of one brief document.
type Content struct {
	Type  string
	Title string
	Tasks []ParsedTask

	// Sections maps lowercased section headers to their raw bodies, kept for
	// heuristics and error messages.
	Sections map[string]string

	// Refs holds brief names/types listed in a "Dependencies from Other
	// Briefs" section, applying to the brief as a whole.
	Refs []string

	// Seq is the brief's position among the briefs processed in this run,
	// assigned by the caller in file-processing order.
	Seq int

	// Warnings records recoverable issues hit while parsing, such as
	// malformed task lines that were skipped.
	Warnings []string
}
