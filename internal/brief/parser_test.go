package brief

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsinator/parsinator/internal/clierr"
)

const setupBrief = `# Web App Setup Brief

## Problem Statement

We need a working development environment before feature work starts.

## Core Setup Tasks

1. **Initialize Repository**: Create the git repo and project scaffolding.
2. **Configure Database**: Install postgres and create the schema. Depends on task 1.

## Optional Setup Tasks

1. **Editor Config**: Add optional editorconfig and lint settings.
`

const featureBrief = `# Search Feature Brief

## Core Feature Tasks

1. **Build Search Index**: Index documents into the database schema. Depends on the setup brief.
2. **Search API**: Expose a search endpoint over the index.

## Nice-to-Have Enhancements

1. **Fuzzy Matching**: Optional fuzzy matching for typos.
`

func TestParseDetectsSetup(t *testing.T) {
	c, err := NewParser().Parse(setupBrief)
	require.NoError(t, err)

	assert.Equal(t, TypeSetup, c.Type)
	assert.Equal(t, "Web App Setup", c.Title)
	require.Len(t, c.Tasks, 3)

	assert.Equal(t, "Initialize Repository", c.Tasks[0].Title)
	assert.Equal(t, "Create the git repo and project scaffolding.", c.Tasks[0].Description)
	assert.Equal(t, "Core Setup Tasks", c.Tasks[0].Section)
	assert.Equal(t, 0, c.Tasks[0].Order)

	// Document order continues across sections.
	assert.Equal(t, "Editor Config", c.Tasks[2].Title)
	assert.Equal(t, 2, c.Tasks[2].Order)
}

func TestParsePriorities(t *testing.T) {
	c, err := NewParser().Parse(setupBrief)
	require.NoError(t, err)

	// Core section default is high.
	assert.Equal(t, "high", c.Tasks[0].Priority)
	assert.Equal(t, "high", c.Tasks[1].Priority)
	// "optional" keyword pushes the task to low despite the medium section default.
	assert.Equal(t, "low", c.Tasks[2].Priority)
}

func TestParseKeywordPriorityOverride(t *testing.T) {
	text := `# Brief

## Core Feature Tasks

1. **Something Small**: A nice-to-have addition to the listing page.
`
	c, err := NewParser().Parse(text)
	require.NoError(t, err)
	require.Len(t, c.Tasks, 1)
	assert.Equal(t, "low", c.Tasks[0].Priority)
}

func TestParseLocalDeps(t *testing.T) {
	c, err := NewParser().Parse(setupBrief)
	require.NoError(t, err)

	assert.Empty(t, c.Tasks[0].LocalDeps)
	assert.Equal(t, []int{1}, c.Tasks[1].LocalDeps)
}

func TestParseTaskBriefRefs(t *testing.T) {
	c, err := NewParser().Parse(featureBrief)
	require.NoError(t, err)

	require.Len(t, c.Tasks, 3)
	assert.Equal(t, []string{"setup"}, c.Tasks[0].BriefRefs)
	assert.Empty(t, c.Tasks[1].BriefRefs)
}

func TestParseBriefLevelRefs(t *testing.T) {
	text := `# Deploy Brief

## Core Deployment Tasks

1. **Ship It**: Push the release to production.

## Dependencies from Other Briefs

- Setup brief
- The Search Feature
`
	c, err := NewParser().Parse(text)
	require.NoError(t, err)
	assert.Equal(t, TypeDeployment, c.Type)
	assert.Equal(t, []string{"setup", "the search feature"}, c.Refs)
}

func TestParseNoTypeMatches(t *testing.T) {
	_, err := NewParser().Parse("# Nothing\n\n## Random Section\n\ntext\n")
	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.AmbiguousBrief, cliErr.Code)
}

func TestParseMultipleTypesMatch(t *testing.T) {
	text := `# Confusing Brief

## Core Setup Tasks

1. **A**: a task.

## Core Feature Tasks

1. **B**: another task.
`
	_, err := NewParser().Parse(text)
	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.AmbiguousBrief, cliErr.Code)
	assert.Contains(t, cliErr.Message, "setup")
	assert.Contains(t, cliErr.Message, "feature")
}

func TestParseTypedMissingSection(t *testing.T) {
	_, err := NewParser().ParseTyped(setupBrief, TypeFeature)
	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.MissingSection, cliErr.Code)
	assert.Contains(t, cliErr.Message, "core feature tasks")
}

func TestParseTypedUnknownType(t *testing.T) {
	_, err := NewParser().ParseTyped(setupBrief, "research")
	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.InvalidBriefType, cliErr.Code)
}

func TestParseTypedHintResolvesAmbiguity(t *testing.T) {
	text := `# Combined Brief

## Core Setup Tasks

1. **A**: a task.

## Core Feature Tasks

1. **B**: another task.
`
	c, err := NewParser().ParseTyped(text, TypeFeature)
	require.NoError(t, err)
	assert.Equal(t, TypeFeature, c.Type)
}

func TestParseMalformedTaskLineWarns(t *testing.T) {
	text := `# Brief

## Core Setup Tasks

1. **Good Task**: A well-formed line.
2. plain numbered line without a bold title
`
	c, err := NewParser().Parse(text)
	require.NoError(t, err)
	require.Len(t, c.Tasks, 1)
	require.Len(t, c.Warnings, 1)
	assert.Contains(t, c.Warnings[0], "malformed task line")
}

func TestParseUntitledBrief(t *testing.T) {
	text := "## Core Setup Tasks\n\n1. **A**: a task.\n"
	c, err := NewParser().Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "Untitled Brief", c.Title)
}

func TestParseDeterministic(t *testing.T) {
	first, err := NewParser().Parse(featureBrief)
	require.NoError(t, err)
	for range 5 {
		again, err := NewParser().Parse(featureBrief)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Web App Setup Brief", "Web App Setup"},
		{"Search Brief Template", "Search"},
		{"Project: Phase One", "Project - Phase One"},
		{"Plain Title", "Plain Title"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, cleanTitle(tc.in))
	}
}
