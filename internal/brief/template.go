package brief

import (
	"fmt"
	"strings"
)

// Finding severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Finding is one advisory observation about a brief's conformance to its
// type's template. Findings never fail a run; the parser's own structural
// checks are authoritative.
type Finding struct {
	Severity string `json:"severity"` // SeverityError or SeverityWarning
	Message  string `json:"message"`
}

// CheckTemplate inspects brief text against the grammar for the given type
// (or the detected type when briefType is empty) and reports findings.
func (p *Parser) CheckTemplate(text, briefType string) []Finding {
	doc := scanDocument(text)
	var findings []Finding

	if doc.title == "" {
		findings = append(findings, Finding{
			Severity: SeverityError,
			Message:  "brief has no top-level title (# heading)",
		})
	}

	g := grammarFor(p.grammars, briefType)
	if g == nil {
		detected, err := p.resolveType(doc, "")
		if err != nil {
			findings = append(findings, Finding{Severity: SeverityError, Message: err.Error()})
			return findings
		}
		g = detected
	}

	for _, req := range g.Required {
		if !doc.has(req) {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s brief is missing required section %q", g.Type, req),
			})
		}
	}

	known := make(map[string]bool, len(g.Required)+len(g.Optional))
	for _, s := range g.Required {
		known[s] = true
	}
	for _, s := range g.Optional {
		known[s] = true
	}
	for _, sec := range doc.sections {
		if !known[sec.key] {
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("section %q is not part of the %s brief template", sec.name, g.Type),
			})
		}
	}

	taskCount := 0
	for _, sec := range doc.sections {
		if _, ok := g.TaskSections[sec.key]; !ok {
			continue
		}
		for _, line := range strings.Split(sec.body, "\n") {
			if taskItemRe.MatchString(strings.TrimSpace(line)) {
				taskCount++
			}
		}
	}
	if taskCount == 0 {
		findings = append(findings, Finding{
			Severity: SeverityWarning,
			Message:  "no task items found (expected numbered `N. **Title**: Description` lines)",
		})
	}

	return findings
}
