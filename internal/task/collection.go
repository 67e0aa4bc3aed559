package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/parsinator/parsinator/internal/clierr"
	"github.com/parsinator/parsinator/internal/graph"
)

// Metadata holds collection-level descriptive fields. It has no lifecycle of
// its own; it is created and persisted with its collection.
type Metadata struct {
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
	Description string    `json:"description"`
}

// Collection is an insertion-ordered set of tasks. Insertion order equals ID
// order for generated collections. The collection owns its tasks exclusively.
type Collection struct {
	tasks []*Task
	byID  map[int]*Task
	Meta  Metadata
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{byID: make(map[int]*Task)}
}

// Add appends a task after checking its field invariants and ID uniqueness.
// Dependency references are not checked here; they may point at tasks added
// later in the same run. Validate checks the complete collection.
func (c *Collection) Add(t *Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, exists := c.byID[t.ID]; exists {
		return clierr.Newf(clierr.TaskGenerationError, "duplicate task ID %d", t.ID).
			WithDetails(map[string]any{"id": t.ID})
	}
	c.tasks = append(c.tasks, t)
	c.byID[t.ID] = t
	return nil
}

// Get returns the task with the given ID, or nil.
func (c *Collection) Get(id int) *Task {
	return c.byID[id]
}

// Tasks returns the tasks in insertion order. The slice is shared; callers
// must not reorder it.
func (c *Collection) Tasks() []*Task {
	return c.tasks
}

// Len returns the number of tasks.
func (c *Collection) Len() int {
	return len(c.tasks)
}

// MaxID returns the highest task ID, or 0 for an empty collection.
func (c *Collection) MaxID() int {
	maxID := 0
	for _, t := range c.tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID
}

// Clone returns a deep copy of the collection. Additive runs work on a clone
// so a failed run never mutates previously persisted state.
func (c *Collection) Clone() *Collection {
	out := NewCollection()
	out.Meta = c.Meta
	for _, t := range c.tasks {
		clone := t.Clone()
		out.tasks = append(out.tasks, clone)
		out.byID[clone.ID] = clone
	}
	return out
}

// Validate re-checks the collection-wide invariants: per-task field validity,
// unique positive IDs, no dangling dependency references, and an acyclic
// dependency graph.
func (c *Collection) Validate() error {
	seen := make(map[int]bool, len(c.tasks))
	ids := make([]int, 0, len(c.tasks))
	for _, t := range c.tasks {
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.ID] {
			return clierr.Newf(clierr.TaskGenerationError, "duplicate task ID %d", t.ID).
				WithDetails(map[string]any{"id": t.ID})
		}
		seen[t.ID] = true
		ids = append(ids, t.ID)
	}

	for _, t := range c.tasks {
		for _, dep := range t.Dependencies {
			if !seen[dep] {
				return clierr.Newf(clierr.DependencyNotFound,
					"task #%d depends on non-existent task #%d", t.ID, dep).
					WithDetails(map[string]any{"id": t.ID, "dependency": dep})
			}
		}
	}

	g := graph.New(ids)
	for _, t := range c.tasks {
		for _, dep := range t.Dependencies {
			g.AddEdge(t.ID, dep)
		}
	}
	if _, ok := g.TopoOrder(); !ok {
		cycle := g.FindCycle()
		return CycleError(cycle)
	}
	return nil
}

// CycleError builds a DependencyError naming the task IDs on a cycle path.
func CycleError(cycle []int) *clierr.Error {
	parts := make([]string, len(cycle))
	for i, id := range cycle {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	return clierr.Newf(clierr.DependencyCycle,
		"dependency cycle detected: %s", strings.Join(parts, " -> ")).
		WithDetails(map[string]any{"cycle": cycle})
}
