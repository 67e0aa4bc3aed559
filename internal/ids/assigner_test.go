package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsinator/parsinator/internal/brief"
	"github.com/parsinator/parsinator/internal/clierr"
	"github.com/parsinator/parsinator/internal/task"
)

func briefWith(seq int, briefType, title string, tasks ...brief.ParsedTask) *brief.Content {
	for i := range tasks {
		tasks[i].Order = i
		if tasks[i].Priority == "" {
			tasks[i].Priority = task.PriorityHigh
		}
		if tasks[i].Description == "" {
			tasks[i].Description = "does " + tasks[i].Title
		}
	}
	return &brief.Content{Type: briefType, Title: title, Tasks: tasks, Seq: seq}
}

func existingCollection(t *testing.T, ids ...int) *task.Collection {
	t.Helper()
	c := task.NewCollection()
	for _, id := range ids {
		require.NoError(t, c.Add(&task.Task{
			ID:          id,
			Title:       "existing",
			Description: "from a prior run",
			Priority:    task.PriorityMedium,
			Status:      task.StatusDone,
		}))
	}
	return c
}

func TestAssignFreshRunStartsAtOne(t *testing.T) {
	a, err := NewAssigner(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Next())

	briefs := []*brief.Content{
		briefWith(0, brief.TypeSetup, "Setup",
			brief.ParsedTask{Title: "A"}, brief.ParsedTask{Title: "B"}),
		briefWith(1, brief.TypeFeature, "Feature",
			brief.ParsedTask{Title: "C"}),
	}

	asg, err := a.Assign(briefs, nil)
	require.NoError(t, err)

	require.Len(t, asg.NewTasks, 3)
	assert.Equal(t, 1, asg.NewTasks[0].ID)
	assert.Equal(t, 2, asg.NewTasks[1].ID)
	assert.Equal(t, 3, asg.NewTasks[2].ID)
	assert.Equal(t, 4, asg.NextID)

	// Every new task starts in to-do and carries its brief type.
	for _, tk := range asg.NewTasks {
		assert.Equal(t, task.StatusTodo, tk.Status)
	}
	assert.Equal(t, brief.TypeSetup, asg.NewTasks[0].BriefType)
	assert.Equal(t, brief.TypeFeature, asg.NewTasks[2].BriefType)
}

func TestAssignAdditiveContinuesSequence(t *testing.T) {
	existing := existingCollection(t, 1, 2, 5)

	a, err := NewAssigner(existing)
	require.NoError(t, err)
	assert.Equal(t, 6, a.Next())

	briefs := []*brief.Content{
		briefWith(0, brief.TypeDeployment, "Deploy", brief.ParsedTask{Title: "Ship"}),
	}
	asg, err := a.Assign(briefs, existing)
	require.NoError(t, err)

	require.Len(t, asg.NewTasks, 1)
	assert.Equal(t, 6, asg.NewTasks[0].ID)
	assert.Equal(t, 4, asg.Collection.Len())

	// Existing tasks are copied, not shared: the caller's collection is untouched.
	asg.Collection.Get(1).Status = task.StatusInProgress
	assert.Equal(t, task.StatusDone, existing.Get(1).Status)
}

func TestNewAssignerRejectsInvalidExisting(t *testing.T) {
	existing := existingCollection(t, 1)
	existing.Get(1).Dependencies = []int{42} // dangling

	_, err := NewAssigner(existing)
	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.TaskGenerationError, cliErr.Code)
}

func TestAssignResolvesLocalDeps(t *testing.T) {
	briefs := []*brief.Content{
		briefWith(0, brief.TypeSetup, "Setup",
			brief.ParsedTask{Title: "A"},
			brief.ParsedTask{Title: "B", LocalDeps: []int{1}}),
		briefWith(1, brief.TypeFeature, "Feature",
			brief.ParsedTask{Title: "C", LocalDeps: []int{1}}),
	}

	a, err := NewAssigner(nil)
	require.NoError(t, err)
	asg, err := a.Assign(briefs, nil)
	require.NoError(t, err)

	// "task 1" resolves within each brief, not globally.
	assert.Equal(t, []int{1}, asg.Collection.Get(2).Dependencies)
	assert.Equal(t, []int{3}, asg.Collection.Get(4).Dependencies)
}

func TestAssignRejectsOutOfRangePosition(t *testing.T) {
	briefs := []*brief.Content{
		briefWith(0, brief.TypeSetup, "Setup",
			brief.ParsedTask{Title: "A", LocalDeps: []int{5}}),
	}

	a, err := NewAssigner(nil)
	require.NoError(t, err)
	_, err = a.Assign(briefs, nil)

	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.DependencyNotFound, cliErr.Code)
	assert.Contains(t, cliErr.Message, "only 1 tasks")
}

func TestAssignRejectsSelfPosition(t *testing.T) {
	briefs := []*brief.Content{
		briefWith(0, brief.TypeSetup, "Setup",
			brief.ParsedTask{Title: "A"},
			brief.ParsedTask{Title: "B", LocalDeps: []int{2}}),
	}

	a, err := NewAssigner(nil)
	require.NoError(t, err)
	_, err = a.Assign(briefs, nil)

	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.SelfReference, cliErr.Code)
}

func TestAssignByBriefGrouping(t *testing.T) {
	briefs := []*brief.Content{
		briefWith(0, brief.TypeSetup, "Setup", brief.ParsedTask{Title: "A"}),
		briefWith(1, brief.TypeFeature, "Feature",
			brief.ParsedTask{Title: "B"}, brief.ParsedTask{Title: "C"}),
	}

	a, err := NewAssigner(nil)
	require.NoError(t, err)
	asg, err := a.Assign(briefs, nil)
	require.NoError(t, err)

	require.Len(t, asg.ByBrief[0], 1)
	require.Len(t, asg.ByBrief[1], 2)
	assert.Equal(t, 2, asg.ByBrief[1][0].ID)
	assert.Equal(t, 3, asg.ByBrief[1][1].ID)
}
