// Package generate orchestrates the brief-to-task pipeline:
// parsing, ID assignment, dependency mapping, and final validation.
package generate

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/parsinator/parsinator/internal/brief"
	"github.com/parsinator/parsinator/internal/depmap"
	"github.com/parsinator/parsinator/internal/ids"
	"github.com/parsinator/parsinator/internal/task"
)

// Stage identifies where the pipeline currently is. A failed run ends in
// StageFailed and must restart from StageInit; no partial collection is
// ever exposed.
type Stage string

// Pipeline stages, in execution order.
const (
	StageInit              Stage = "INIT"
	StageParsing           Stage = "PARSING"
	StageIDAssignment      Stage = "ID_ASSIGNMENT"
	StageDependencyMapping Stage = "DEPENDENCY_MAPPING"
	StageValidation        Stage = "VALIDATION"
	StageDone              Stage = "DONE"
	StageFailed            Stage = "FAILED"
)

// Input is one brief document queued for a run, in file-processing order.
type Input struct {
	// Name identifies the brief in warnings and errors (usually a filename).
	Name string
	// Text is the raw UTF-8 markdown of the brief.
	Text string
	// TypeHint optionally forces the brief type instead of auto-detection.
	TypeHint string
}

// Summary reports what a successful run did.
type Summary struct {
	BriefCount            int                 `json:"brief_count"`
	TaskCount             int                 `json:"task_count"`
	NewTaskCount          int                 `json:"new_task_count"`
	Warnings              []string            `json:"warnings"`
	SuggestedDependencies []depmap.Suggestion `json:"suggested_dependencies"`
}

// Generator runs the pipeline. Each call to Run builds fresh working state
// (graph, counters), so one Generator is safely reusable across invocations
// in a long-lived process.
type Generator struct {
	parser  *brief.Parser
	weights depmap.Weights
	stage   Stage
	now     func() time.Time // clock for collection metadata; defaults to time.Now
}

// New creates a Generator with the given heuristic weights.
func New(w depmap.Weights) *Generator {
	return &Generator{
		parser:  brief.NewParser(),
		weights: w,
		stage:   StageInit,
		now:     time.Now,
	}
}

// SetNow overrides the clock used for collection metadata (for testing).
func (g *Generator) SetNow(fn func() time.Time) { g.now = fn }

// Stage returns the stage the last run reached.
func (g *Generator) Stage() Stage { return g.stage }

// Run executes the full pipeline over the given briefs, merging into the
// existing collection when one is supplied. On any error the run fails
// atomically: the returned collection and summary are nil and the existing
// collection is untouched.
func (g *Generator) Run(inputs []Input, existing *task.Collection) (*task.Collection, *Summary, error) {
	g.stage = StageInit
	summary := &Summary{BriefCount: len(inputs)}

	g.stage = StageParsing
	briefs, err := g.parseAll(inputs)
	if err != nil {
		g.stage = StageFailed
		return nil, nil, err
	}
	for _, b := range briefs {
		summary.Warnings = append(summary.Warnings, b.Warnings...)
	}

	g.stage = StageIDAssignment
	assigner, err := ids.NewAssigner(existing)
	if err != nil {
		g.stage = StageFailed
		return nil, nil, err
	}
	asg, err := assigner.Assign(briefs, existing)
	if err != nil {
		g.stage = StageFailed
		return nil, nil, err
	}

	g.stage = StageDependencyMapping
	mapped, err := depmap.NewMapper(g.weights).Map(briefs, asg)
	if err != nil {
		g.stage = StageFailed
		return nil, nil, err
	}
	summary.Warnings = append(summary.Warnings, mapped.Warnings...)
	summary.SuggestedDependencies = mapped.Suggestions

	// Earlier stages enforce the invariants themselves; re-checking the
	// complete collection here guards against composition bugs.
	g.stage = StageValidation
	if err := asg.Collection.Validate(); err != nil {
		g.stage = StageFailed
		return nil, nil, err
	}

	now := g.now()
	if existing == nil {
		asg.Collection.Meta.Created = now
		asg.Collection.Meta.Description = describeRun(briefs)
	}
	asg.Collection.Meta.Updated = now

	summary.TaskCount = asg.Collection.Len()
	summary.NewTaskCount = len(asg.NewTasks)

	g.stage = StageDone
	return asg.Collection, summary, nil
}

// parseAll parses every input brief. Parsing is a pure function of the brief
// text, so briefs are parsed concurrently; results keep input order and each
// brief's Seq is its position in that order.
func (g *Generator) parseAll(inputs []Input) ([]*brief.Content, error) {
	briefs := make([]*brief.Content, len(inputs))
	errs := make([]error, len(inputs))

	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in Input) {
			defer wg.Done()
			var c *brief.Content
			var err error
			if in.TypeHint != "" {
				c, err = g.parser.ParseTyped(in.Text, in.TypeHint)
			} else {
				c, err = g.parser.Parse(in.Text)
			}
			if err != nil {
				errs[i] = fmt.Errorf("parsing %s: %w", in.Name, err)
				return
			}
			c.Seq = i
			briefs[i] = c
		}(i, in)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return briefs, nil
}

// describeRun builds the collection description for a fresh run.
func describeRun(briefs []*brief.Content) string {
	if len(briefs) == 1 {
		return fmt.Sprintf("Generated from %s brief: %s", briefs[0].Type, briefs[0].Title)
	}
	seen := make(map[string]bool)
	var types []string
	for _, b := range briefs {
		if !seen[b.Type] {
			seen[b.Type] = true
			types = append(types, b.Type)
		}
	}
	return fmt.Sprintf("Generated from %d briefs (%s)", len(briefs), strings.Join(types, ", "))
}
