// Package store persists task collections and locates brief files.
// It is the only package that touches the filesystem on behalf of the
// generation pipeline; the pipeline itself is pure and in-memory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parsinator/parsinator/internal/clierr"
	"github.com/parsinator/parsinator/internal/task"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// ErrNotFound is returned when no tasks file exists at the given path.
var ErrNotFound = errors.New("tasks file not found")

// tasksFile is the persisted envelope. The "master" wrapper keeps the format
// round-trip compatible across additive runs.
type tasksFile struct {
	Master master `json:"master"`
}

type master struct {
	Tasks    []*task.Task  `json:"tasks"`
	Metadata task.Metadata `json:"metadata"`
}

// LoadCollection reads a persisted collection from path. A structurally
// invalid file (bad JSON, duplicate IDs, invalid fields) is a
// TASK_GENERATION_ERROR: additive runs must abort rather than merge
// partially.
func LoadCollection(path string) (*task.Collection, error) {
	data, err := os.ReadFile(path) //nolint:gosec // tasks path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading tasks file: %w", err)
	}

	var tf tasksFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, clierr.Newf(clierr.TaskGenerationError,
			"tasks file %s is not valid JSON: %v", path, err)
	}

	c := task.NewCollection()
	c.Meta = tf.Master.Metadata
	for _, t := range tf.Master.Tasks {
		if t.Dependencies == nil {
			t.Dependencies = []int{}
		}
		if err := c.Add(t); err != nil {
			return nil, clierr.Newf(clierr.TaskGenerationError,
				"tasks file %s is invalid: %v", path, err).
				WithDetails(map[string]any{"path": path, "cause": err.Error()})
		}
	}
	return c, nil
}

// SaveCollection writes the collection to path in the round-trip envelope.
func SaveCollection(path string, c *task.Collection) error {
	tasks := c.Tasks()
	if tasks == nil {
		tasks = []*task.Task{}
	}
	for _, t := range tasks {
		if t.Dependencies == nil {
			t.Dependencies = []int{}
		}
	}

	tf := tasksFile{Master: master{Tasks: tasks, Metadata: c.Meta}}
	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling tasks file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("creating tasks directory: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), fileMode)
}

// SaveSummary writes a generation summary as JSON next to the tasks file.
func SaveSummary(path string, summary any) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("creating summary directory: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), fileMode)
}

// FindBriefFiles lists the markdown files in dir, sorted by name. The sort
// fixes the run's file-processing order, which in turn fixes ID assignment.
func FindBriefFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, clierr.Newf(clierr.BriefNotFound, "cannot read briefs directory %s: %v", dir, err).
			WithDetails(map[string]any{"dir": dir})
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, clierr.Newf(clierr.BriefNotFound, "no brief files found in %s", dir).
			WithDetails(map[string]any{"dir": dir})
	}
	return files, nil
}

// ReadBrief reads one brief file as UTF-8 text.
func ReadBrief(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // brief path from trusted source
	if err != nil {
		return "", clierr.Newf(clierr.BriefNotFound, "cannot read brief %s: %v", path, err).
			WithDetails(map[string]any{"path": path})
	}
	return string(data), nil
}

// WriteTaskFiles renders one markdown file per task into dir.
// Files for tasks that no longer exist are left alone; generation is
// additive and never deletes.
func WriteTaskFiles(dir string, c *task.Collection) error {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("creating task-files directory: %w", err)
	}
	for _, t := range c.Tasks() {
		path := filepath.Join(dir, task.Filename(t.ID, t.Title))
		if err := task.Write(path, t); err != nil {
			return fmt.Errorf("writing task file for #%d: %w", t.ID, err)
		}
	}
	return nil
}
