// Package milestone evaluates roadmap objectives against the artifact graph,
// the activity record and the user profile.
package milestone

import (
	"fmt"

	"github.com/siherrmann/worldgraph/core/graph"
	"github.com/siherrmann/worldgraph/core/worldstats"
	"github.com/siherrmann/worldgraph/model"
)

const (
	detailFuturePhase     = "Planned for a future phase."
	detailNotInstrumented = "Progress for this objective is not yet instrumented."

	xpThreshold = 50
)

// Context is the read-only input of an evaluation.
// AllArtifacts may hold artifacts of other projects for cross-project relations.
type Context struct {
	Project      model.Project
	Artifacts    []*model.Artifact
	AllArtifacts []*model.Artifact
	Profile      model.Profile
	Activity     model.ProjectActivity
}

type result struct {
	status model.ObjectiveStatus
	detail string
}

type evaluatorFunc func(e *evaluation) result

var evaluators = map[model.Metric]evaluatorFunc{
	model.MetricGraphCore:        graphCore,
	model.MetricViewEngagement:   viewEngagement,
	model.MetricCsvFlows:         csvFlows,
	model.MetricGithubImport:     githubImport,
	model.MetricRichEditors:      richEditors,
	model.MetricProgressionLoops: progressionLoops,
	model.MetricPublishing:       publishing,
	model.MetricReleaseNotes:     releaseNotes,
	model.MetricSearchFilters:    searchFilters,
	model.MetricMagicSystems:     magicSystems,
	model.MetricWorldAge:         worldAge,
	model.MetricFactionConflicts: factionConflicts,
	model.MetricNpcMemory:        npcMemory,
	model.MetricPluginAPI:        futurePhase,
	model.MetricThemingOffline:   futurePhase,
}

// evaluation holds the per-call derived state shared by evaluators.
type evaluation struct {
	ctx       Context
	snap      *graph.Snapshot
	artifacts []*model.Artifact
	stats     *worldstats.Summary
}

func newEvaluation(ctx Context) *evaluation {
	snap := graph.NewSnapshot(ctx.Artifacts).WithExternal(ctx.AllArtifacts)
	return &evaluation{
		ctx:       ctx,
		snap:      snap,
		artifacts: snap.Artifacts(),
	}
}

func (e *evaluation) summary() worldstats.Summary {
	if e.stats == nil {
		s := worldstats.Summarize(e.snap)
		e.stats = &s
	}
	return *e.stats
}

func (e *evaluation) countType(types ...model.ArtifactType) int {
	n := 0
	for _, a := range e.artifacts {
		for _, t := range types {
			if a.Type == t {
				n++
				break
			}
		}
	}
	return n
}

// Evaluate scores every objective of every milestone. It never modifies its inputs.
func Evaluate(milestones []model.Milestone, ctx Context) []model.MilestoneProgressOverview {
	e := newEvaluation(ctx)

	overviews := make([]model.MilestoneProgressOverview, 0, len(milestones))
	for _, m := range milestones {
		overview := model.MilestoneProgressOverview{
			Milestone:  m,
			Objectives: make([]model.ObjectiveProgress, 0, len(m.Objectives)),
		}
		for _, objective := range m.Objectives {
			r := e.objective(objective)
			if r.status == model.ObjectiveComplete {
				overview.CompletedCount++
			}
			overview.Objectives = append(overview.Objectives, model.ObjectiveProgress{
				Objective: objective,
				Status:    r.status,
				Detail:    r.detail,
			})
		}
		overview.Completion = Completion(overview.CompletedCount, len(m.Objectives))
		overviews = append(overviews, overview)
	}
	return overviews
}

// EvaluateObjective scores a single objective.
func EvaluateObjective(objective model.Objective, ctx Context) model.ObjectiveProgress {
	e := newEvaluation(ctx)
	r := e.objective(objective)
	return model.ObjectiveProgress{Objective: objective, Status: r.status, Detail: r.detail}
}

func (e *evaluation) objective(objective model.Objective) result {
	evaluator, ok := evaluators[objective.Metric]
	if !ok {
		return result{model.ObjectiveNotStarted, detailNotInstrumented}
	}
	return evaluator(e)
}

// Completion is completed/total, 0 for an empty milestone.
func Completion(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	ratio := float64(completed) / float64(total)
	if ratio > 1 {
		return 1
	}
	if ratio < 0 {
		return 0
	}
	return ratio
}

func check(ok bool) string {
	if ok {
		return "✓"
	}
	return "—"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// tiered maps met booleans to a status: none is not started, all is complete.
func tiered(met ...bool) (model.ObjectiveStatus, int) {
	n := 0
	for _, ok := range met {
		if ok {
			n++
		}
	}
	switch n {
	case 0:
		return model.ObjectiveNotStarted, n
	case len(met):
		return model.ObjectiveComplete, n
	}
	return model.ObjectiveInProgress, n
}
