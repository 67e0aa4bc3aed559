// Package depmap resolves explicit dependency references and suggests
// cross-brief dependencies from content similarity.
package depmap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/parsinator/parsinator/internal/brief"
	"github.com/parsinator/parsinator/internal/graph"
	"github.com/parsinator/parsinator/internal/ids"
	"github.com/parsinator/parsinator/internal/task"
)

// Weights tunes the content-similarity heuristic. The heuristic is
// approximate by nature; keeping its knobs here (and in the project config)
// makes suggestion behavior auditable and testable.
type Weights struct {
	// Threshold is the minimum score for a suggestion to be accepted.
	Threshold float64 `yaml:"threshold" json:"threshold"`
	// TypeBonus is added when the candidate's brief type is conventionally
	// earlier (setup < feature < deployment).
	TypeBonus float64 `yaml:"type_bonus" json:"type_bonus"`
	// SeqBonus is added when the candidate's brief sequence index is lower.
	SeqBonus float64 `yaml:"seq_bonus" json:"seq_bonus"`
}

// DefaultWeights returns the default heuristic weights.
func DefaultWeights() Weights {
	return Weights{Threshold: 0.5, TypeBonus: 0.15, SeqBonus: 0.1}
}

// Suggestion is one scored cross-brief dependency candidate. Every candidate
// considered appears in the report, accepted or not; rejections are dropped
// from the graph but never from the report.
type Suggestion struct {
	From     int     `json:"from"`
	To       int     `json:"to"`
	Score    float64 `json:"score"`
	Accepted bool    `json:"accepted"`
	Reason   string  `json:"reason"`
}

// Result holds the mapper's output: the suggestion report and any
// recoverable warnings. Accepted edges have already been applied to the
// assignment's tasks.
type Result struct {
	Suggestions []Suggestion
	Warnings    []string
}

// Mapper applies explicit references and suggests cross-brief dependencies.
type Mapper struct {
	weights Weights
}

// NewMapper creates a Mapper with the given weights.
func NewMapper(w Weights) *Mapper {
	return &Mapper{weights: w}
}

// candidate pairs a task with its brief grouping for scoring. Existing tasks
// from prior runs carry seq -1: they are always earlier than this run's
// briefs and are valid dependency targets, never sources.
type candidate struct {
	task *task.Task
	seq  int
}

// Map runs the three mapper stages in order: explicit references, similarity
// suggestions, and cycle validation. It mutates the assignment's new tasks
// (their Dependencies sets) and returns the full suggestion report.
func (m *Mapper) Map(briefs []*brief.Content, asg *ids.Assignment) (*Result, error) {
	res := &Result{}

	m.applyBriefRefs(briefs, asg, res)

	// Snapshot explicit edges before suggesting: a cycle formed entirely of
	// explicit edges is always fatal, never auto-resolved.
	explicit := snapshotEdges(asg.Collection)

	m.suggest(briefs, asg, res)

	if err := m.resolveCycles(asg.Collection, explicit, res); err != nil {
		return nil, err
	}

	// Dangling references are impossible by construction at this point, but
	// a full re-check is cheap and guards against composition bugs upstream.
	if err := asg.Collection.Validate(); err != nil {
		return nil, err
	}

	return res, nil
}

// applyBriefRefs resolves brief-name references to concrete task edges:
// a reference from brief B to brief A makes B's tasks that carry the
// reference (or B's first task, for brief-level references) depend on A's
// last task. References that match no brief in this run are warnings.
func (m *Mapper) applyBriefRefs(briefs []*brief.Content, asg *ids.Assignment, res *Result) {
	for _, b := range briefs {
		ownTasks := asg.ByBrief[b.Seq]
		if len(ownTasks) == 0 {
			continue
		}

		for _, ref := range b.Refs {
			target := lastTaskOfBrief(briefs, asg, ref, b.Seq)
			if target == nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf(
					"brief %q references unknown brief %q; reference ignored", b.Title, ref))
				continue
			}
			ownTasks[0].AddDependency(target.ID)
		}

		for i := range b.Tasks {
			pt := &b.Tasks[i]
			for _, ref := range pt.BriefRefs {
				target := lastTaskOfBrief(briefs, asg, ref, b.Seq)
				if target == nil {
					res.Warnings = append(res.Warnings, fmt.Sprintf(
						"brief %q task %q references unknown brief %q; reference ignored",
						b.Title, pt.Title, ref))
					continue
				}
				if i < len(ownTasks) {
					ownTasks[i].AddDependency(target.ID)
				}
			}
		}
	}
}

// lastTaskOfBrief finds the last task of the brief matching ref by type or
// title substring, skipping the referencing brief itself.
func lastTaskOfBrief(briefs []*brief.Content, asg *ids.Assignment, ref string, selfSeq int) *task.Task {
	ref = strings.ToLower(ref)
	for _, b := range briefs {
		if b.Seq == selfSeq {
			continue
		}
		if b.Type != ref && !strings.Contains(strings.ToLower(b.Title), ref) {
			continue
		}
		tasks := asg.ByBrief[b.Seq]
		if len(tasks) == 0 {
			return nil
		}
		return tasks[len(tasks)-1]
	}
	return nil
}

// suggest scores every cross-brief task pair with keyword overlap and
// records each candidate in the report. Enumeration order is deterministic:
// sources in ID order, targets in ID order.
func (m *Mapper) suggest(briefs []*brief.Content, asg *ids.Assignment, res *Result) {
	seqByBriefTask := make(map[int]int) // task ID -> brief seq
	for seq, tasks := range asg.ByBrief {
		for _, t := range tasks {
			seqByBriefTask[t.ID] = seq
		}
	}

	newIDs := make(map[int]bool, len(asg.NewTasks))
	for _, t := range asg.NewTasks {
		newIDs[t.ID] = true
	}

	// Candidate targets: every task in the collection. Existing tasks get
	// seq -1 so they always count as earlier than this run's briefs.
	targets := make([]candidate, 0, asg.Collection.Len())
	for _, t := range asg.Collection.Tasks() {
		seq := -1
		if newIDs[t.ID] {
			seq = seqByBriefTask[t.ID]
		}
		targets = append(targets, candidate{task: t, seq: seq})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].task.ID < targets[j].task.ID })

	kw := make(map[int]map[string]struct{}, len(targets))
	for _, c := range targets {
		kw[c.task.ID] = keywords(c.task.Title + " " + c.task.Description)
	}

	for _, from := range asg.NewTasks {
		fromSeq := seqByBriefTask[from.ID]
		for _, to := range targets {
			if to.task.ID == from.ID || to.seq == fromSeq {
				continue // same task or same brief
			}

			base := overlapCoefficient(kw[from.ID], kw[to.task.ID])
			if base == 0 {
				continue // no shared keywords, not a candidate
			}

			score := base
			if earlierType(to.task.BriefType, from.BriefType) {
				score += m.weights.TypeBonus
			}
			if to.seq < fromSeq {
				score += m.weights.SeqBonus
			}
			if score > 1 {
				score = 1
			}

			s := Suggestion{From: from.ID, To: to.task.ID, Score: score}
			switch {
			case to.seq > fromSeq:
				s.Reason = "rejected: would point at a later brief"
			case score < m.weights.Threshold:
				s.Reason = fmt.Sprintf("rejected: score below threshold %.2f", m.weights.Threshold)
			case hasDependency(from, to.task.ID):
				s.Reason = "rejected: already an explicit dependency"
			default:
				s.Accepted = true
				s.Reason = fmt.Sprintf("keyword overlap with earlier brief (score %.2f)", score)
				from.AddDependency(to.task.ID)
			}
			res.Suggestions = append(res.Suggestions, s)
		}
	}
}

// resolveCycles validates the complete graph. When a cycle contains at least
// one accepted suggested edge, the most recently suggested edge in the cycle
// is removed and validation retried. A cycle of only explicit edges is fatal.
func (m *Mapper) resolveCycles(c *task.Collection, explicit map[[2]int]bool, res *Result) error {
	for {
		taskIDs := make([]int, 0, c.Len())
		for _, t := range c.Tasks() {
			taskIDs = append(taskIDs, t.ID)
		}
		g := graph.New(taskIDs)
		for _, t := range c.Tasks() {
			for _, dep := range t.Dependencies {
				g.AddEdge(t.ID, dep)
			}
		}
		if _, ok := g.TopoOrder(); ok {
			return nil
		}

		cycle := g.FindCycle()
		idx := m.newestSuggestedEdge(cycle, explicit, res)
		if idx < 0 {
			return task.CycleError(cycle)
		}

		s := &res.Suggestions[idx]
		c.Get(s.From).RemoveDependency(s.To)
		s.Accepted = false
		s.Reason = "rejected: removed to break a dependency cycle"
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"removed suggested dependency #%d -> #%d to break a cycle", s.From, s.To))
	}
}

// newestSuggestedEdge returns the report index of the most recently
// suggested accepted edge appearing in the cycle, or -1 when the cycle is
// made of explicit edges only.
func (m *Mapper) newestSuggestedEdge(cycle []int, explicit map[[2]int]bool, res *Result) int {
	best := -1
	for i := 0; i+1 < len(cycle); i++ {
		edge := [2]int{cycle[i], cycle[i+1]}
		if explicit[edge] {
			continue
		}
		for idx := len(res.Suggestions) - 1; idx > best; idx-- {
			s := res.Suggestions[idx]
			if s.Accepted && s.From == edge[0] && s.To == edge[1] {
				best = idx
				break
			}
		}
	}
	return best
}

// snapshotEdges records every dependency edge currently in the collection.
func snapshotEdges(c *task.Collection) map[[2]int]bool {
	edges := make(map[[2]int]bool)
	for _, t := range c.Tasks() {
		for _, dep := range t.Dependencies {
			edges[[2]int{t.ID, dep}] = true
		}
	}
	return edges
}

// earlierType reports whether type a is conventionally earlier than type b.
func earlierType(a, b string) bool {
	oa, ob := brief.TypeOrder(a), brief.TypeOrder(b)
	return oa >= 0 && ob >= 0 && oa < ob
}

// hasDependency reports whether t already depends on id.
func hasDependency(t *task.Task, id int) bool {
	for _, dep := range t.Dependencies {
		if dep == id {
			return true
		}
	}
	return false
}
