package generate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsinator/parsinator/internal/clierr"
	"github.com/parsinator/parsinator/internal/depmap"
	"github.com/parsinator/parsinator/internal/task"
)

const setupText = `# Web App Setup Brief

## Core Setup Tasks

1. **Initialize Repository**: Create the git repo and scaffolding.
2. **Configure Database**: Install postgres and create the schema. Depends on task 1.
`

const featureText = `# Search Feature Brief

## Core Feature Tasks

1. **Build Search Index**: Index documents into the postgres schema.
2. **Search API**: Expose a search endpoint over the index.
`

const deployText = `# Deployment Brief

## Core Deployment Tasks

1. **Release Pipeline**: Automate the deployment of the search endpoint.
`

func testClock() func() time.Time {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

func TestRunFreshProject(t *testing.T) {
	g := New(depmap.DefaultWeights())
	g.SetNow(testClock())

	inputs := []Input{
		{Name: "01-setup.md", Text: setupText},
		{Name: "02-feature.md", Text: featureText},
	}
	c, summary, err := g.Run(inputs, nil)
	require.NoError(t, err)
	assert.Equal(t, StageDone, g.Stage())

	// IDs follow document order across briefs in file order.
	require.Equal(t, 4, c.Len())
	assert.Equal(t, "Initialize Repository", c.Get(1).Title)
	assert.Equal(t, "Configure Database", c.Get(2).Title)
	assert.Equal(t, "Build Search Index", c.Get(3).Title)
	assert.Equal(t, "Search API", c.Get(4).Title)

	// Same-brief positional reference resolved to a global ID.
	assert.Equal(t, []int{1}, c.Get(2).Dependencies)

	assert.Equal(t, 2, summary.BriefCount)
	assert.Equal(t, 4, summary.TaskCount)
	assert.Equal(t, 4, summary.NewTaskCount)

	// Fresh run stamps creation metadata with the injected clock.
	assert.Equal(t, testClock()(), c.Meta.Created)
	assert.Equal(t, testClock()(), c.Meta.Updated)
	assert.Contains(t, c.Meta.Description, "2 briefs")

	assert.NoError(t, c.Validate())
}

func TestRunAdditive(t *testing.T) {
	g := New(depmap.DefaultWeights())
	g.SetNow(testClock())

	existing, _, err := g.Run([]Input{
		{Name: "01-setup.md", Text: setupText},
		{Name: "02-feature.md", Text: featureText},
	}, nil)
	require.NoError(t, err)
	existing.Get(1).Status = task.StatusDone

	later := time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)
	g.SetNow(func() time.Time { return later })

	c, summary, err := g.Run([]Input{
		{Name: "03-deploy.md", Text: deployText},
	}, existing)
	require.NoError(t, err)

	// Existing tasks keep IDs, titles, and statuses; the new task continues
	// the sequence.
	require.Equal(t, 5, c.Len())
	assert.Equal(t, "Initialize Repository", c.Get(1).Title)
	assert.Equal(t, task.StatusDone, c.Get(1).Status)
	assert.Equal(t, "Release Pipeline", c.Get(5).Title)
	assert.Equal(t, task.StatusTodo, c.Get(5).Status)

	assert.Equal(t, 1, summary.NewTaskCount)
	assert.Equal(t, 5, summary.TaskCount)

	// Created is preserved from the first run; Updated reflects this one.
	assert.Equal(t, testClock()(), c.Meta.Created)
	assert.Equal(t, later, c.Meta.Updated)

	// The input collection is never mutated by the run.
	assert.Equal(t, 4, existing.Len())
}

func TestRunFailsAtomically(t *testing.T) {
	badBrief := `# Broken Brief

## Core Setup Tasks

1. **Only Task**: A task that depends on task 9.
`
	g := New(depmap.DefaultWeights())
	existing, _, err := g.Run([]Input{{Name: "01-setup.md", Text: setupText}}, nil)
	require.NoError(t, err)

	c, summary, err := g.Run([]Input{{Name: "02-broken.md", Text: badBrief}}, existing)
	require.Error(t, err)
	assert.Nil(t, c)
	assert.Nil(t, summary)
	assert.Equal(t, StageFailed, g.Stage())

	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.DependencyNotFound, cliErr.Code)

	// The existing collection is untouched by the failed run.
	assert.Equal(t, 2, existing.Len())
	assert.NoError(t, existing.Validate())
}

func TestRunParseErrorNamesInput(t *testing.T) {
	g := New(depmap.DefaultWeights())
	_, _, err := g.Run([]Input{
		{Name: "01-setup.md", Text: setupText},
		{Name: "02-vague.md", Text: "# Vague\n\n## Thoughts\n\nnone\n"},
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "02-vague.md")

	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.AmbiguousBrief, cliErr.Code)
}

func TestRunTypeHint(t *testing.T) {
	g := New(depmap.DefaultWeights())
	_, _, err := g.Run([]Input{
		{Name: "01-setup.md", Text: setupText, TypeHint: "feature"},
	}, nil)
	require.Error(t, err)

	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.MissingSection, cliErr.Code)
}

func TestRunDeterministic(t *testing.T) {
	run := func() (*task.Collection, *Summary) {
		g := New(depmap.DefaultWeights())
		g.SetNow(testClock())
		c, s, err := g.Run([]Input{
			{Name: "01-setup.md", Text: setupText},
			{Name: "02-feature.md", Text: featureText},
			{Name: "03-deploy.md", Text: deployText},
		}, nil)
		require.NoError(t, err)
		return c, s
	}

	firstC, firstS := run()
	for range 5 {
		c, s := run()
		assert.Equal(t, firstC.Tasks(), c.Tasks())
		assert.Equal(t, firstS, s)
	}
}

func TestRunCollectsWarnings(t *testing.T) {
	text := `# Brief

## Core Setup Tasks

1. **Good Task**: A well-formed line.
2. malformed numbered line
`
	g := New(depmap.DefaultWeights())
	_, summary, err := g.Run([]Input{{Name: "01.md", Text: text}}, nil)
	require.NoError(t, err)
	require.Len(t, summary.Warnings, 1)
	assert.Contains(t, summary.Warnings[0], "malformed task line")
}
