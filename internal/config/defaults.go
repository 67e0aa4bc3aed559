package config

const (
	// DefaultBriefsDir is the default briefs subdirectory name.
	DefaultBriefsDir = "briefs"
	// DefaultTasksFile is the default tasks output file name.
	DefaultTasksFile = "tasks.json"
	// DefaultSummaryFile is the default generation summary file name.
	DefaultSummaryFile = "summary.json"
	// DefaultTaskFilesDir is the default per-task markdown files directory.
	DefaultTaskFilesDir = "tasks"

	// ConfigFileName is the name of the config file within the project directory.
	ConfigFileName = "parsinator.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 1
)
