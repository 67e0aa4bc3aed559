package brief

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/parsinator/parsinator/internal/clierr"
)

// Line patterns. Task items must carry a bold title: `N. **Title**: Description`.
var (
	titleRe    = regexp.MustCompile(`^#\s+(.+?)\s*$`)
	sectionRe  = regexp.MustCompile(`^#{2,3}\s+(.+?)\s*$`)
	taskItemRe = regexp.MustCompile(`^\d+\.\s+\*\*(.+?)\*\*:\s*(.+)$`)
	numberedRe = regexp.MustCompile(`^\d+\.\s+`)
	bulletRe   = regexp.MustCompile(`^[-*]\s+(.+)$`)

	localDepRe = regexp.MustCompile(`(?i)depends on task (\d+)`)
	briefRefRe = regexp.MustCompile(`(?i)depends on (?:the )?([\w][\w -]*?) brief`)

	titleNoiseRe = regexp.MustCompile(`(?i)\s*brief\s*(template)?\s*$`)
)

// Priority keyword lists, applied on top of the section default.
// Taken from the task texts these briefs conventionally contain.
var (
	highPriorityWords = []string{
		"critical", "essential", "foundation", "core", "must-have", "required",
		"infrastructure", "framework", "fundamental",
	}
	lowPriorityWords = []string{
		"optional", "nice-to-have", "enhancement", "optimization",
		"polish", "extra", "bonus", "future",
	}
)

// Parser converts raw brief text into Content using a grammar table.
// The zero value is not usable; call NewParser.
type Parser struct {
	grammars []Grammar
}

// NewParser creates a Parser with the default grammar table.
func NewParser() *Parser {
	return &Parser{grammars: DefaultGrammars()}
}

// Parse parses a brief, detecting its type from the section grammar.
// Detection fails with an AMBIGUOUS_BRIEF_TYPE error when no type matches.
func (p *Parser) Parse(text string) (*Content, error) {
	return p.parse(text, "")
}

// ParseTyped parses a brief against an explicit type hint. The text is
// validated against that type's required sections; the first missing section
// is named in the error.
func (p *Parser) ParseTyped(text, hint string) (*Content, error) {
	if grammarFor(p.grammars, hint) == nil {
		return nil, clierr.Newf(clierr.InvalidBriefType, "unknown brief type %q", hint).
			WithDetails(map[string]any{"type": hint, "known": Types})
	}
	return p.parse(text, hint)
}

func (p *Parser) parse(text, hint string) (*Content, error) {
	doc := scanDocument(text)

	g, err := p.resolveType(doc, hint)
	if err != nil {
		return nil, err
	}

	c := &Content{
		Type:     g.Type,
		Title:    doc.title,
		Sections: doc.bodies(),
	}
	if c.Title == "" {
		c.Title = "Untitled Brief"
	}

	p.extractTasks(c, doc, g)
	c.Refs = extractBriefRefs(c.Sections["dependencies from other briefs"])

	return c, nil
}

// resolveType picks the grammar for the document. With a hint, the document
// must satisfy that grammar's required sections; without one, exactly the
// types whose required sections are all present are candidates.
func (p *Parser) resolveType(doc *document, hint string) (*Grammar, error) {
	if hint != "" {
		g := grammarFor(p.grammars, hint)
		for _, req := range g.Required {
			if !doc.has(req) {
				return nil, clierr.Newf(clierr.MissingSection,
					"%s brief is missing required section %q", hint, req).
					WithDetails(map[string]any{"type": hint, "section": req})
			}
		}
		return g, nil
	}

	var matches []*Grammar
	for i := range p.grammars {
		g := &p.grammars[i]
		ok := true
		for _, req := range g.Required {
			if !doc.has(req) {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, g)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, clierr.New(clierr.AmbiguousBrief,
			"cannot detect brief type: no recognized task section found "+
				"(expected one of: Core Setup Tasks, Core Feature Tasks, Core Deployment Tasks)")
	default:
		types := make([]string, len(matches))
		for i, g := range matches {
			types[i] = g.Type
		}
		return nil, clierr.Newf(clierr.AmbiguousBrief,
			"cannot detect brief type: sections match multiple types (%s)",
			strings.Join(types, ", ")).
			WithDetails(map[string]any{"candidates": types})
	}
}

// extractTasks walks the document's task sections in document order and
// collects numbered task items. Numbered lines that do not match the bold
// title pattern are skipped with a warning rather than aborting the brief.
func (p *Parser) extractTasks(c *Content, doc *document, g *Grammar) {
	order := 0
	for _, sec := range doc.sections {
		basePriority, isTaskSection := g.TaskSections[sec.key]
		if !isTaskSection {
			continue
		}
		for _, line := range strings.Split(sec.body, "\n") {
			line = strings.TrimSpace(line)
			m := taskItemRe.FindStringSubmatch(line)
			if m == nil {
				if numberedRe.MatchString(line) {
					c.Warnings = append(c.Warnings, fmt.Sprintf(
						"%s brief, section %q: skipping malformed task line %q", g.Type, sec.name, line))
				}
				continue
			}

			title := strings.TrimSpace(m[1])
			desc := strings.TrimSpace(m[2])
			c.Tasks = append(c.Tasks, ParsedTask{
				Title:       title,
				Description: desc,
				Section:     sec.name,
				Order:       order,
				Priority:    adjustPriority(title, desc, basePriority),
				LocalDeps:   extractLocalDeps(desc),
				BriefRefs:   extractTaskBriefRefs(desc),
			})
			order++
		}
	}
}

// adjustPriority bumps the section default up or down based on task wording.
func adjustPriority(title, desc, base string) string {
	combined := strings.ToLower(title + " " + desc)
	for _, w := range highPriorityWords {
		if strings.Contains(combined, w) {
			return "high"
		}
	}
	for _, w := range lowPriorityWords {
		if strings.Contains(combined, w) {
			return "low"
		}
	}
	return base
}

// extractLocalDeps captures 1-based same-brief positions from
// "depends on task N" phrases.
func extractLocalDeps(text string) []int {
	var deps []int
	for _, m := range localDepRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			continue
		}
		deps = append(deps, n)
	}
	return deps
}

// extractTaskBriefRefs captures other-brief references such as
// "depends on the setup brief" from a task line.
func extractTaskBriefRefs(text string) []string {
	var refs []string
	for _, m := range briefRefRe.FindAllStringSubmatch(text, -1) {
		refs = append(refs, strings.ToLower(strings.TrimSpace(m[1])))
	}
	return refs
}

// extractBriefRefs reads the bullet list of a "Dependencies from Other
// Briefs" section. Each bullet names one brief (by type or title).
func extractBriefRefs(body string) []string {
	if body == "" {
		return nil
	}
	var refs []string
	for _, line := range strings.Split(body, "\n") {
		m := bulletRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		ref := strings.ToLower(strings.TrimSpace(m[1]))
		ref = strings.TrimSuffix(ref, " brief")
		refs = append(refs, ref)
	}
	return refs
}

// document is the line-level scan of one brief: its title and ordered sections.
type document struct {
	title    string
	sections []section
}

type section struct {
	name string // header as written
	key  string // lowercased header
	body string
}

func (d *document) has(key string) bool {
	for _, s := range d.sections {
		if s.key == key {
			return true
		}
	}
	return false
}

func (d *document) bodies() map[string]string {
	m := make(map[string]string, len(d.sections))
	for _, s := range d.sections {
		m[s.key] = s.body
	}
	return m
}

// scanDocument splits brief text into a title and H2/H3 sections.
// Content before the first section header belongs to no section.
func scanDocument(text string) *document {
	doc := &document{}
	var cur *section
	var body []string

	flush := func() {
		if cur != nil {
			cur.body = strings.TrimSpace(strings.Join(body, "\n"))
			doc.sections = append(doc.sections, *cur)
		}
		cur = nil
		body = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if doc.title == "" {
			if m := titleRe.FindStringSubmatch(trimmed); m != nil {
				doc.title = cleanTitle(m[1])
				continue
			}
		}

		if m := sectionRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			name := strings.TrimSpace(m[1])
			cur = &section{name: name, key: strings.ToLower(name)}
			continue
		}

		if cur != nil {
			body = append(body, line)
		}
	}
	flush()

	return doc
}

// cleanTitle strips template boilerplate from a brief title.
func cleanTitle(title string) string {
	title = titleNoiseRe.ReplaceAllString(title, "")
	title = strings.ReplaceAll(title, ":", " -")
	return strings.TrimSpace(title)
}
