package brief

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findingMessages(findings []Finding, severity string) []string {
	var out []string
	for _, f := range findings {
		if f.Severity == severity {
			out = append(out, f.Message)
		}
	}
	return out
}

func TestCheckTemplateCleanBrief(t *testing.T) {
	text := `# Setup Brief

## Problem Statement

Some context.

## Core Setup Tasks

1. **A**: a task.
`
	findings := NewParser().CheckTemplate(text, TypeSetup)
	assert.Empty(t, findings)
}

func TestCheckTemplateMissingRequiredSection(t *testing.T) {
	text := `# Setup Brief

## Problem Statement

Some context.
`
	findings := NewParser().CheckTemplate(text, TypeSetup)
	errs := findingMessages(findings, SeverityError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `"core setup tasks"`)
}

func TestCheckTemplateUnknownSectionWarns(t *testing.T) {
	text := `# Setup Brief

## Core Setup Tasks

1. **A**: a task.

## Budget Estimate

Not part of the template.
`
	findings := NewParser().CheckTemplate(text, TypeSetup)
	warnings := findingMessages(findings, SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `"Budget Estimate"`)
}

func TestCheckTemplateNoTasksWarns(t *testing.T) {
	text := `# Setup Brief

## Core Setup Tasks

nothing numbered here
`
	findings := NewParser().CheckTemplate(text, TypeSetup)
	warnings := findingMessages(findings, SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no task items")
}

func TestCheckTemplateMissingTitle(t *testing.T) {
	text := "## Core Setup Tasks\n\n1. **A**: a task.\n"
	findings := NewParser().CheckTemplate(text, "")
	errs := findingMessages(findings, SeverityError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "no top-level title")
}

func TestCheckTemplateAutoDetectsType(t *testing.T) {
	text := `# Deploy Brief

## Core Deployment Tasks

1. **Ship**: push the release.
`
	findings := NewParser().CheckTemplate(text, "")
	assert.Empty(t, findings)
}
