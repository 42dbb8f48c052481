package worldgraph

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/siherrmann/worldgraph/core/activity"
	"github.com/siherrmann/worldgraph/core/arc"
	"github.com/siherrmann/worldgraph/core/graph"
	"github.com/siherrmann/worldgraph/core/milestone"
	"github.com/siherrmann/worldgraph/core/worldstats"
	"github.com/siherrmann/worldgraph/database"
	"github.com/siherrmann/worldgraph/helper"
	"github.com/siherrmann/worldgraph/model"
	loadSql "github.com/siherrmann/worldgraph/sql"
	"github.com/siherrmann/worldgraph/workspace"
)

// allArtifactsPageSize bounds each page when loading artifacts of other projects.
const allArtifactsPageSize = 500

// Worldgraph ties the relation engine, the scoring engines and a store together
// around one active project.
type Worldgraph struct {
	DB         *helper.Database // nil when backed by a workspace file
	Artifacts  *database.ArtifactsDBHandler
	Activities *database.ActivitiesDBHandler
	Workspace  *workspace.FileStore // nil when backed by a database
	Engine     *graph.Engine
	Tracker    *activity.Tracker
	Roadmap    []model.Milestone
	Scorer     *arc.Scorer
	// Active project
	mu      sync.Mutex
	project *model.Project
	profile model.Profile
	snap    *graph.Snapshot
	// Logging
	log *slog.Logger
}

// NewWorldgraph creates a database backed Worldgraph with all handlers initialized.
func NewWorldgraph(config *helper.DatabaseConfiguration) (*Worldgraph, error) {
	logger := helper.NewLogger(os.Stdout, slog.LevelInfo)

	db := helper.NewDatabase("worldgraph", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	artifacts, err := database.NewArtifactsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create artifacts handler", err)
	}

	activities, err := database.NewActivitiesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create activities handler", err)
	}

	return &Worldgraph{
		DB:         db,
		Artifacts:  artifacts,
		Activities: activities,
		Engine:     graph.NewEngine(artifacts, logger),
		Tracker:    activity.NewTracker(activities, logger),
		Roadmap:    milestone.DefaultRoadmap(),
		Scorer:     arc.NewScorer(arc.DefaultStages(), arc.DefaultWeights()),
		log:        logger,
	}, nil
}

// NewWorkspaceWorldgraph creates a Worldgraph over a workspace file and
// activates its project. A nil logger logs to stdout.
func NewWorkspaceWorldgraph(store *workspace.FileStore, logger *slog.Logger) *Worldgraph {
	if logger == nil {
		logger = helper.NewLogger(os.Stdout, slog.LevelInfo)
	}

	w := &Worldgraph{
		Workspace: store,
		Engine:    graph.NewEngine(store, logger),
		Tracker:   activity.NewTracker(store, logger),
		Roadmap:   milestone.DefaultRoadmap(),
		Scorer:    arc.NewScorer(arc.DefaultStages(), arc.DefaultWeights()),
		log:       logger,
	}

	project := store.Project()
	w.activate(&project, store.Artifacts(), nil, store.Activity(), store.Profile())
	return w
}

// Close closes the database connection
func (w *Worldgraph) Close() error {
	if w.DB != nil {
		return w.DB.Close()
	}
	return nil
}

// LoadProject makes projectID the active project. Artifacts of other projects
// are loaded as well so cross-project relations resolve.
func (w *Worldgraph) LoadProject(ctx context.Context, projectID string) error {
	if w.Workspace != nil {
		project := w.Workspace.Project()
		if project.ID != projectID {
			return helper.NewError("load project", fmt.Errorf("project %s is not stored in this workspace", projectID))
		}
		w.activate(&project, w.Workspace.Artifacts(), nil, w.Workspace.Activity(), w.Workspace.Profile())
		return nil
	}

	project, err := w.Artifacts.SelectProject(ctx, projectID)
	if err != nil {
		return helper.NewError("select project", err)
	}

	artifacts, err := w.Artifacts.SelectArtifactsByProject(ctx, projectID)
	if err != nil {
		return helper.NewError("select project artifacts", err)
	}

	external, err := w.selectExternalArtifacts(ctx, projectID)
	if err != nil {
		return helper.NewError("select external artifacts", err)
	}

	record, err := w.Activities.SelectActivity(ctx, projectID)
	if err != nil {
		return helper.NewError("select activity", err)
	}

	w.mu.Lock()
	profile := w.profile
	w.mu.Unlock()

	w.activate(project, artifacts, external, *record, profile)
	return nil
}

func (w *Worldgraph) selectExternalArtifacts(ctx context.Context, projectID string) ([]*model.Artifact, error) {
	var external []*model.Artifact
	var last *model.Artifact
	for {
		page, err := w.Artifacts.SelectAllArtifacts(ctx, last, allArtifactsPageSize)
		if err != nil {
			return nil, err
		}

		for _, a := range page {
			if a.ProjectID != projectID {
				external = append(external, a)
			}
		}
		if len(page) < allArtifactsPageSize {
			return external, nil
		}
		last = page[len(page)-1]
	}
}

func (w *Worldgraph) activate(project *model.Project, artifacts, external []*model.Artifact, record model.ProjectActivity, profile model.Profile) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.project = project
	w.profile = profile
	w.snap = graph.NewSnapshot(artifacts).WithExternal(external)
	w.Tracker.Switch(project.ID, record)

	w.log.Info("Loaded project", slog.String("project_id", project.ID), slog.Int("artifacts", w.snap.Len()))
}

// current returns the active project snapshot. Callers must hold w.mu.
func (w *Worldgraph) current() (*graph.Snapshot, error) {
	if w.snap == nil {
		return nil, helper.NewError("active project", fmt.Errorf("no project loaded, use LoadProject() first"))
	}
	return w.snap, nil
}

// Project returns the active project, or nil.
func (w *Worldgraph) Project() *model.Project {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.project == nil {
		return nil
	}
	p := *w.project
	return &p
}

// ProjectArtifacts returns the artifacts of the active project.
func (w *Worldgraph) ProjectArtifacts() []*model.Artifact {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.snap == nil {
		return nil
	}
	return w.snap.Artifacts()
}

// Artifact resolves id in the active project or, failing that, in other projects.
func (w *Worldgraph) Artifact(id string) (*model.Artifact, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.snap == nil {
		return nil, false
	}
	return w.snap.Resolve(id)
}

// SetProfile replaces the profile used for scoring.
func (w *Worldgraph) SetProfile(ctx context.Context, profile model.Profile) error {
	if w.Workspace != nil {
		if err := w.Workspace.UpdateProfile(ctx, profile); err != nil {
			return helper.NewError("update profile", err)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.profile = profile
	return nil
}

// CreateArtifact inserts an artifact into the active project.
func (w *Worldgraph) CreateArtifact(ctx context.Context, artifact *model.Artifact) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap, err := w.current()
	if err != nil {
		return err
	}

	artifact.ProjectID = w.project.ID
	if w.Workspace != nil {
		err = w.Workspace.InsertArtifact(ctx, artifact)
	} else {
		err = w.Artifacts.InsertArtifact(ctx, artifact)
	}
	if err != nil {
		return helper.NewError("insert artifact", err)
	}

	snap.Put(artifact.Clone())
	w.log.Info("Created artifact", slog.String("artifact_id", artifact.ID), slog.String("type", string(artifact.Type)))
	return nil
}

// AddRelation links fromID to toID and maintains the reciprocal edge.
func (w *Worldgraph) AddRelation(ctx context.Context, fromID, toID, kind string, opts ...graph.RelationOption) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap, err := w.current()
	if err != nil {
		return err
	}
	return w.Engine.AddRelation(ctx, snap, fromID, toID, kind, opts...)
}

// RemoveRelation removes the relation at index from fromID and its reciprocal.
func (w *Worldgraph) RemoveRelation(ctx context.Context, fromID string, index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap, err := w.current()
	if err != nil {
		return err
	}
	return w.Engine.RemoveRelation(ctx, snap, fromID, index)
}

// DeleteArtifact deletes id and scrubs every relation pointing at it.
// Artifacts of other projects referencing id are scrubbed too when the
// database backend is used. Ids outside the active project are left alone.
func (w *Worldgraph) DeleteArtifact(ctx context.Context, id string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap, err := w.current()
	if err != nil {
		return 0, err
	}
	if _, ok := snap.Local(id); !ok {
		return 0, nil
	}

	scrubbed, err := w.Engine.DeleteArtifact(ctx, snap, id)
	if err != nil {
		return scrubbed, err
	}
	if w.Artifacts == nil {
		return scrubbed, nil
	}

	referencing, err := w.Artifacts.SelectArtifactsReferencing(ctx, id)
	if err != nil {
		return scrubbed, helper.NewError("select referencing artifacts", err)
	}
	if len(referencing) == 0 {
		return scrubbed, nil
	}
	outside := graph.NewSnapshot(referencing)
	more, err := w.Engine.ScrubReferences(ctx, outside, id)
	if err != nil {
		return scrubbed + more, helper.NewError("scrub external references", err)
	}
	snap.WithExternal(outside.Artifacts())
	return scrubbed + more, nil
}

// Traverse walks relations breadth first from id.
func (w *Worldgraph) Traverse(id string, maxHops int, kinds ...string) []*graph.TraversalResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.snap == nil {
		return nil
	}
	return graph.BFS(w.snap, id, maxHops, kinds)
}

// TraverseDepthFirst walks relations depth first from id, following each branch before its siblings.
func (w *Worldgraph) TraverseDepthFirst(id string, maxHops int, kinds ...string) []*graph.TraversalResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.snap == nil {
		return nil
	}
	return graph.DFS(w.snap, id, maxHops, kinds)
}

// Backlinks lists the relations of the active project pointing at id.
func (w *Worldgraph) Backlinks(id string) []graph.Backlink {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.snap == nil {
		return nil
	}
	return graph.Backlinks(w.snap, id)
}

// MarkActivity records that a feature was used in the active project.
func (w *Worldgraph) MarkActivity(ctx context.Context, flag model.ActivityFlag) (bool, error) {
	return w.Tracker.Mark(ctx, flag)
}

// MilestoneProgress evaluates the roadmap against the active project.
func (w *Worldgraph) MilestoneProgress() ([]model.MilestoneProgressOverview, error) {
	ctx, err := w.milestoneContext()
	if err != nil {
		return nil, err
	}
	return milestone.Evaluate(w.Roadmap, ctx), nil
}

func (w *Worldgraph) milestoneContext() (milestone.Context, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap, err := w.current()
	if err != nil {
		return milestone.Context{}, err
	}

	var external []*model.Artifact
	for _, a := range snap.Artifacts() {
		for _, rel := range a.Relations {
			if snap.IsExternal(rel.ToID) {
				target, _ := snap.Resolve(rel.ToID)
				external = append(external, target)
			}
		}
	}

	return milestone.Context{
		Project:      *w.project,
		Artifacts:    snap.Artifacts(),
		AllArtifacts: external,
		Profile:      w.profile,
		Activity:     w.Tracker.Snapshot(),
	}, nil
}

// CharacterArcs scores every character of the active project.
func (w *Worldgraph) CharacterArcs() ([]model.CharacterArc, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap, err := w.current()
	if err != nil {
		return nil, err
	}
	return w.Scorer.Evaluate(snap.Artifacts(), snap), nil
}

// Readiness summarizes the character arcs of the active project.
func (w *Worldgraph) Readiness() (arc.ReadinessSummary, error) {
	arcs, err := w.CharacterArcs()
	if err != nil {
		return arc.ReadinessSummary{}, err
	}
	return arc.Readiness(arcs), nil
}

// WorldStats summarizes world-building depth of the active project.
func (w *Worldgraph) WorldStats() (worldstats.Summary, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap, err := w.current()
	if err != nil {
		return worldstats.Summary{}, err
	}
	return worldstats.Summarize(snap), nil
}
