package brief

// Grammar describes the section structure of one brief type. Detection and
// validation are table-driven: adding a brief type means adding a row here,
// not touching the parser.
type Grammar struct {
	Type string

	// Required sections must all be present (lowercased header names).
	// They are also what detection keys on.
	Required []string

	// Optional sections are recognized but not enforced. Unknown sections
	// are tolerated; the advisory template check reports them.
	Optional []string

	// TaskSections maps task-list section headers to the default priority
	// of tasks found under them.
	TaskSections map[string]string
}

// DefaultGrammars returns the built-in grammar table.
func DefaultGrammars() []Grammar {
	return []Grammar{
		{
			Type:     TypeSetup,
			Required: []string{"core setup tasks"},
			Optional: []string{
				"problem statement",
				"setup scope",
				"technical requirements",
				"optional setup tasks",
				"dependencies from other briefs",
				"success criteria",
			},
			TaskSections: map[string]string{
				"core setup tasks":     "high",
				"optional setup tasks": "medium",
			},
		},
		{
			Type:     TypeFeature,
			Required: []string{"core feature tasks"},
			Optional: []string{
				"problem statement",
				"target users",
				"must-have implementation",
				"nice-to-have enhancements",
				"dependencies from other briefs",
				"success criteria",
			},
			TaskSections: map[string]string{
				"core feature tasks":        "high",
				"must-have implementation":  "high",
				"nice-to-have enhancements": "medium",
			},
		},
		{
			Type:     TypeDeployment,
			Required: []string{"core deployment tasks"},
			Optional: []string{
				"deployment goal",
				"target environment",
				"must-have for release",
				"quality improvements",
				"dependencies from other briefs",
				"success criteria",
			},
			TaskSections: map[string]string{
				"core deployment tasks": "high",
				"must-have for release": "high",
				"quality improvements":  "medium",
			},
		},
	}
}

// grammarFor returns the grammar row for a brief type, or nil.
func grammarFor(grammars []Grammar, briefType string) *Grammar {
	for i := range grammars {
		if grammars[i].Type == briefType {
			return &grammars[i]
		}
	}
	return nil
}
