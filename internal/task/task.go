// Package task defines the task data model and the generated task collection.
package task

import (
	"github.com/parsinator/parsinator/internal/clierr"
)

// Priority levels, ordered from most to least urgent.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Status values a task moves through after generation.
const (
	StatusTodo       = "to-do"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

// Priorities lists the valid priority values in order.
var Priorities = []string{PriorityHigh, PriorityMedium, PriorityLow}

// Statuses lists the valid status values in order.
var Statuses = []string{StatusTodo, StatusInProgress, StatusDone}

// Task represents a single generated task. After creation only Status and
// Dependencies may change, and only until the generation run finalizes.
type Task struct {
	ID           int    `yaml:"id" json:"id"`
	Title        string `yaml:"title" json:"title"`
	Description  string `yaml:"description" json:"description"`
	Priority     string `yaml:"priority" json:"priority"`
	Dependencies []int  `yaml:"dependencies" json:"dependencies"`
	Status       string `yaml:"status" json:"status"`
	BriefType    string `yaml:"brief_type,omitempty" json:"brief_type,omitempty"`

	// File is the path to the rendered task file, if one was written (not serialized).
	File string `yaml:"-" json:"-"`
}

// Validate checks the task's field invariants.
func (t *Task) Validate() error {
	if t.ID <= 0 {
		return clierr.Newf(clierr.InvalidTaskID, "task ID must be positive, got %d", t.ID).
			WithDetails(map[string]any{"id": t.ID})
	}
	if t.Title == "" {
		return clierr.Newf(clierr.InvalidInput, "task #%d has an empty title", t.ID).
			WithDetails(map[string]any{"id": t.ID, "field": "title"})
	}
	if t.Description == "" {
		return clierr.Newf(clierr.InvalidInput, "task #%d has an empty description", t.ID).
			WithDetails(map[string]any{"id": t.ID, "field": "description"})
	}
	if !contains(Priorities, t.Priority) {
		return clierr.Newf(clierr.InvalidInput, "task #%d has invalid priority %q", t.ID, t.Priority).
			WithDetails(map[string]any{"id": t.ID, "priority": t.Priority, "allowed": Priorities})
	}
	if !contains(Statuses, t.Status) {
		return clierr.Newf(clierr.InvalidInput, "task #%d has invalid status %q", t.ID, t.Status).
			WithDetails(map[string]any{"id": t.ID, "status": t.Status, "allowed": Statuses})
	}
	for _, dep := range t.Dependencies {
		if dep == t.ID {
			return clierr.Newf(clierr.SelfReference, "task cannot depend on itself (ID %d)", t.ID).
				WithDetails(map[string]any{"id": t.ID})
		}
	}
	return nil
}

// AddDependency appends a dependency ID if not already present.
func (t *Task) AddDependency(id int) {
	for _, dep := range t.Dependencies {
		if dep == id {
			return
		}
	}
	t.Dependencies = append(t.Dependencies, id)
}

// RemoveDependency removes a dependency ID if present.
func (t *Task) RemoveDependency(id int) {
	for i, dep := range t.Dependencies {
		if dep == id {
			t.Dependencies = append(t.Dependencies[:i], t.Dependencies[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.Dependencies = append([]int(nil), t.Dependencies...)
	return &c
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
