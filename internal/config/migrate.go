package config

import (
	"fmt"

	"github.com/parsinator/parsinator/internal/depmap"
)

// migrate upgrades a loaded config to CurrentVersion in place.
// Each version step is applied in order so older projects keep working
// after upgrades without manual edits.
func migrate(c *Config) error {
	if c.Version > CurrentVersion {
		return fmt.Errorf("%w: config version %d is newer than this binary supports (%d)",
			ErrInvalid, c.Version, CurrentVersion)
	}

	// Version 0 (pre-versioning): fill in fields that did not exist yet.
	if c.Version == 0 {
		if c.Heuristics.Threshold == 0 && c.Heuristics.TypeBonus == 0 && c.Heuristics.SeqBonus == 0 {
			c.Heuristics = depmap.DefaultWeights()
		}
		if c.TasksFile == "" {
			c.TasksFile = DefaultTasksFile
		}
		c.Version = 1
	}

	return nil
}
