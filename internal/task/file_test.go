package task

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, Filename(7, "Configure CI"))

	original := &Task{
		ID:           7,
		Title:        "Configure CI",
		Description:  "Set up the pipeline with lint and test stages.",
		Priority:     PriorityMedium,
		Dependencies: []int{1, 3},
		Status:       StatusTodo,
		BriefType:    "setup",
	}
	require.NoError(t, Write(path, original))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, original.ID, got.ID)
	assert.Equal(t, original.Title, got.Title)
	assert.Equal(t, original.Description, got.Description)
	assert.Equal(t, original.Priority, got.Priority)
	assert.Equal(t, original.Dependencies, got.Dependencies)
	assert.Equal(t, original.Status, got.Status)
	assert.Equal(t, original.BriefType, got.BriefType)
	assert.Equal(t, path, got.File)
}

func TestWriteBodyListsDependencies(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "001-x.md")

	tk := validTask(1)
	tk.Dependencies = []int{2, 5}
	require.NoError(t, Write(path, tk))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# Set up database")
	assert.Contains(t, content, "## Dependencies")
	assert.Contains(t, content, "- task #2")
	assert.Contains(t, content, "- task #5")
}

func TestReadRejectsMissingFrontmatter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.md")
	require.NoError(t, os.WriteFile(path, []byte("# just markdown\n"), 0o600))

	_, err := Read(path)
	assert.ErrorContains(t, err, "frontmatter")
}

func TestFindByID(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(filepath.Join(dir, Filename(3, "Three")), &Task{
		ID: 3, Title: "Three", Description: "d", Priority: PriorityLow, Status: StatusTodo,
	}))
	require.NoError(t, Write(filepath.Join(dir, Filename(30, "Thirty")), &Task{
		ID: 30, Title: "Thirty", Description: "d", Priority: PriorityLow, Status: StatusTodo,
	}))

	path, err := FindByID(dir, 3)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "003-three.md"), path)

	_, err = FindByID(dir, 99)
	assert.ErrorContains(t, err, "task not found")
}
