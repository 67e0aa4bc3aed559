// Package config handles project configuration for brief processing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/parsinator/parsinator/internal/clierr"
	"github.com/parsinator/parsinator/internal/depmap"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no parsinator project found (run 'parsinator init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents a parsinator project configuration.
type Config struct {
	Version      int            `yaml:"version"`
	Project      ProjectConfig  `yaml:"project"`
	BriefsDir    string         `yaml:"briefs_dir"`
	TasksFile    string         `yaml:"tasks_file"`
	SummaryFile  string         `yaml:"summary_file,omitempty"`
	TaskFilesDir string         `yaml:"task_files_dir,omitempty"`
	Heuristics   depmap.Weights `yaml:"heuristics"`

	// dir is the absolute path to the project directory (not serialized).
	dir string `yaml:"-"`
}

// ProjectConfig holds project metadata.
type ProjectConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Dir returns the absolute path to the project directory.
func (c *Config) Dir() string { return c.dir }

// SetDir sets the project directory path on the config.
func (c *Config) SetDir(dir string) { c.dir = dir }

// BriefsPath returns the absolute path to the briefs directory.
func (c *Config) BriefsPath() string { return filepath.Join(c.dir, c.BriefsDir) }

// TasksPath returns the absolute path to the tasks file.
func (c *Config) TasksPath() string { return filepath.Join(c.dir, c.TasksFile) }

// SummaryPath returns the absolute path to the generation summary file,
// or "" when summary output is disabled.
func (c *Config) SummaryPath() string {
	if c.SummaryFile == "" {
		return ""
	}
	return filepath.Join(c.dir, c.SummaryFile)
}

// TaskFilesPath returns the absolute path to the per-task files directory,
// or "" when task-file output is disabled.
func (c *Config) TaskFilesPath() string {
	if c.TaskFilesDir == "" {
		return ""
	}
	return filepath.Join(c.dir, c.TaskFilesDir)
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string { return filepath.Join(c.dir, ConfigFileName) }

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:      CurrentVersion,
		Project:      ProjectConfig{Name: name},
		BriefsDir:    DefaultBriefsDir,
		TasksFile:    DefaultTasksFile,
		SummaryFile:  DefaultSummaryFile,
		TaskFilesDir: DefaultTaskFilesDir,
		Heuristics:   depmap.DefaultWeights(),
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Project.Name == "" {
		return fmt.Errorf("%w: project.name is required", ErrInvalid)
	}
	if c.BriefsDir == "" {
		return fmt.Errorf("%w: briefs_dir is required", ErrInvalid)
	}
	if c.TasksFile == "" {
		return fmt.Errorf("%w: tasks_file is required", ErrInvalid)
	}
	if c.Heuristics.Threshold < 0 || c.Heuristics.Threshold > 1 {
		return fmt.Errorf("%w: heuristics.threshold must be between 0 and 1", ErrInvalid)
	}
	if c.Heuristics.TypeBonus < 0 || c.Heuristics.SeqBonus < 0 {
		return fmt.Errorf("%w: heuristic bonuses must be >= 0", ErrInvalid)
	}
	return nil
}

// Init creates a new parsinator project in the given directory.
// It creates the project directory, briefs subdirectory, and config file.
func Init(dir, name string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	if _, err := os.Stat(filepath.Join(absDir, ConfigFileName)); err == nil {
		return nil, clierr.Newf(clierr.ProjectExists,
			"a parsinator project already exists in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)

	if err := os.MkdirAll(cfg.BriefsPath(), dirMode); err != nil {
		return nil, fmt.Errorf("creating briefs directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given project directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	// Migrate old config versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a directory containing
// parsinator.yml. Returns the absolute path to the project directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.ProjectNotFound,
				"no parsinator project found (run 'parsinator init' to create one)")
		}
		dir = parent
	}
}
