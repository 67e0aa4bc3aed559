package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsinator/parsinator/internal/clierr"
	"github.com/parsinator/parsinator/internal/task"
)

func sampleCollection(t *testing.T) *task.Collection {
	t.Helper()
	c := task.NewCollection()
	c.Meta = task.Metadata{
		Created:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Updated:     time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC),
		Description: "Generated from setup brief: Web App",
	}
	require.NoError(t, c.Add(&task.Task{
		ID: 1, Title: "Initialize Repository", Description: "Create the repo.",
		Priority: task.PriorityHigh, Status: task.StatusTodo, BriefType: "setup",
	}))
	require.NoError(t, c.Add(&task.Task{
		ID: 2, Title: "Configure Database", Description: "Install postgres.",
		Priority: task.PriorityHigh, Status: task.StatusTodo, BriefType: "setup",
		Dependencies: []int{1},
	}))
	return c
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	original := sampleCollection(t)
	require.NoError(t, SaveCollection(path, original))

	got, err := LoadCollection(path)
	require.NoError(t, err)

	assert.Equal(t, original.Meta, got.Meta)
	require.Equal(t, original.Len(), got.Len())
	assert.Equal(t, original.Get(1).Title, got.Get(1).Title)
	assert.Equal(t, []int{1}, got.Get(2).Dependencies)
	assert.Equal(t, []int{}, got.Get(1).Dependencies)
}

func TestSaveUsesMasterEnvelope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, SaveCollection(path, sampleCollection(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &envelope))
	require.Contains(t, envelope, "master")

	var master struct {
		Tasks    []json.RawMessage `json:"tasks"`
		Metadata json.RawMessage   `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(envelope["master"], &master))
	assert.Len(t, master.Tasks, 2)
	assert.NotNil(t, master.Metadata)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadCollection(filepath.Join(t.TempDir(), "tasks.json"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadCollection(path)
	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.TaskGenerationError, cliErr.Code)
}

func TestLoadDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	payload := `{"master":{"tasks":[
		{"id":1,"title":"a","description":"d","priority":"high","dependencies":[],"status":"to-do"},
		{"id":1,"title":"b","description":"d","priority":"high","dependencies":[],"status":"to-do"}
	],"metadata":{"created":"2025-06-01T12:00:00Z","updated":"2025-06-01T12:00:00Z","description":""}}}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	_, err := LoadCollection(path)
	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.TaskGenerationError, cliErr.Code)
}

func TestFindBriefFilesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"02-feature.md", "01-setup.md", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	files, err := FindBriefFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "01-setup.md"), files[0])
	assert.Equal(t, filepath.Join(dir, "02-feature.md"), files[1])
}

func TestFindBriefFilesEmptyDir(t *testing.T) {
	_, err := FindBriefFiles(t.TempDir())
	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.BriefNotFound, cliErr.Code)
}

func TestWriteTaskFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tasks")
	c := sampleCollection(t)
	require.NoError(t, WriteTaskFiles(dir, c))

	got, err := task.Read(filepath.Join(dir, "002-configure-database.md"))
	require.NoError(t, err)
	assert.Equal(t, 2, got.ID)
	assert.Equal(t, []int{1}, got.Dependencies)
}
