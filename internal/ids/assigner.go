// Package ids assigns global task IDs for one generation run.
//
// The next-available-ID counter is run-scoped state owned by the Assigner,
// never process-wide, so repeated runs in a long-lived process stay
// deterministic and independently testable.
package ids

import (
	"github.com/parsinator/parsinator/internal/brief"
	"github.com/parsinator/parsinator/internal/clierr"
	"github.com/parsinator/parsinator/internal/task"
)

// Assignment is the result of ID assignment for one run.
type Assignment struct {
	// Collection holds the existing tasks (copied through unchanged) plus
	// all newly created tasks. Additive runs operate on a deep copy; the
	// caller's existing collection is never mutated.
	Collection *task.Collection

	// NewTasks are the tasks created this run, in ID order.
	NewTasks []*task.Task

	// ByBrief maps a brief's run sequence index to its new tasks in order.
	ByBrief map[int][]*task.Task

	// NextID is the counter value after assignment, returned with the
	// result so callers can thread it through repeated invocations.
	NextID int
}

// Assigner hands out unique, monotonically increasing task IDs.
type Assigner struct {
	next int
}

// NewAssigner creates an Assigner seeded from an existing collection.
// IDs start strictly above the highest existing ID, or at 1 when existing
// is nil. A structurally invalid existing collection aborts the run with a
// TASK_GENERATION_ERROR; partial merges are never attempted.
func NewAssigner(existing *task.Collection) (*Assigner, error) {
	if existing == nil {
		return &Assigner{next: 1}, nil
	}
	if err := existing.Validate(); err != nil {
		return nil, clierr.Newf(clierr.TaskGenerationError,
			"existing task collection is invalid: %v", err).
			WithDetails(map[string]any{"cause": err.Error()})
	}
	return &Assigner{next: existing.MaxID() + 1}, nil
}

// Next returns the next available ID without consuming it.
func (a *Assigner) Next() int { return a.next }

// Assign creates a Task for every ParsedTask, consuming IDs in document
// order across the briefs in run order. Same-brief positional dependency
// references are resolved to global IDs here; a reference to a position
// that does not exist in the brief is a fatal DEPENDENCY_ERROR.
func (a *Assigner) Assign(briefs []*brief.Content, existing *task.Collection) (*Assignment, error) {
	collection := task.NewCollection()
	if existing != nil {
		collection = existing.Clone()
	}

	out := &Assignment{
		Collection: collection,
		ByBrief:    make(map[int][]*task.Task, len(briefs)),
	}

	// First pass: create tasks and record each brief's local-position map.
	localID := make(map[int]map[int]int, len(briefs))
	for _, b := range briefs {
		positions := make(map[int]int, len(b.Tasks))
		for i := range b.Tasks {
			pt := &b.Tasks[i]
			t := &task.Task{
				ID:          a.next,
				Title:       pt.Title,
				Description: pt.Description,
				Priority:    pt.Priority,
				Status:      task.StatusTodo,
				BriefType:   b.Type,
			}
			if err := collection.Add(t); err != nil {
				return nil, err
			}
			a.next++

			positions[pt.Order+1] = t.ID // positions are 1-based
			out.NewTasks = append(out.NewTasks, t)
			out.ByBrief[b.Seq] = append(out.ByBrief[b.Seq], t)
		}
		localID[b.Seq] = positions
	}

	// Second pass: resolve positional references now that every position
	// in every brief has a global ID.
	for _, b := range briefs {
		for i := range b.Tasks {
			pt := &b.Tasks[i]
			t := collection.Get(localID[b.Seq][pt.Order+1])
			for _, pos := range pt.LocalDeps {
				gid, ok := localID[b.Seq][pos]
				if !ok {
					return nil, clierr.Newf(clierr.DependencyNotFound,
						"brief %q task %q depends on task %d, but the brief has only %d tasks",
						b.Title, pt.Title, pos, len(b.Tasks)).
						WithDetails(map[string]any{
							"brief":    b.Title,
							"task":     t.ID,
							"position": pos,
						})
				}
				if gid == t.ID {
					return nil, clierr.Newf(clierr.SelfReference,
						"brief %q task %q depends on its own position %d", b.Title, pt.Title, pos).
						WithDetails(map[string]any{"brief": b.Title, "task": t.ID})
				}
				t.AddDependency(gid)
			}
		}
	}

	out.NextID = a.next
	return out, nil
}
