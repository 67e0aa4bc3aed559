package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsinator/parsinator/internal/clierr"
)

func collectionOf(t *testing.T, tasks ...*Task) *Collection {
	t.Helper()
	c := NewCollection()
	for _, tk := range tasks {
		require.NoError(t, c.Add(tk))
	}
	return c
}

func TestAddRejectsDuplicateID(t *testing.T) {
	c := collectionOf(t, validTask(1))

	err := c.Add(validTask(1))
	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.TaskGenerationError, cliErr.Code)
	assert.Equal(t, 1, c.Len())
}

func TestAddAllowsForwardReferences(t *testing.T) {
	// A task may depend on an ID added later in the same run.
	first := validTask(1)
	first.Dependencies = []int{2}
	c := collectionOf(t, first, validTask(2))

	assert.NoError(t, c.Validate())
}

func TestMaxID(t *testing.T) {
	assert.Equal(t, 0, NewCollection().MaxID())

	c := collectionOf(t, validTask(3), validTask(7), validTask(5))
	assert.Equal(t, 7, c.MaxID())
}

func TestValidateDanglingDependency(t *testing.T) {
	tk := validTask(1)
	tk.Dependencies = []int{42}
	c := collectionOf(t, tk)

	err := c.Validate()
	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.DependencyNotFound, cliErr.Code)
	assert.Contains(t, cliErr.Message, "#42")
}

func TestValidateCycle(t *testing.T) {
	a, b := validTask(1), validTask(2)
	a.Dependencies = []int{2}
	b.Dependencies = []int{1}
	c := collectionOf(t, a, b)

	err := c.Validate()
	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.DependencyCycle, cliErr.Code)
	assert.Equal(t, "dependency cycle detected: #1 -> #2 -> #1", cliErr.Message)
	assert.Equal(t, []int{1, 2, 1}, cliErr.Details["cycle"])
}

func TestCloneIsolation(t *testing.T) {
	tk := validTask(1)
	tk.Dependencies = []int{}
	c := collectionOf(t, tk)
	c.Meta.Description = "original"

	clone := c.Clone()
	clone.Get(1).AddDependency(99)
	require.NoError(t, clone.Add(validTask(2)))
	clone.Meta.Description = "changed"

	assert.Empty(t, c.Get(1).Dependencies)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "original", c.Meta.Description)
}
