// Package activity owns the per-project record of exercised features.
package activity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/siherrmann/worldgraph/helper"
	"github.com/siherrmann/worldgraph/model"
)

// Recorder persists activity flags of a project.
type Recorder interface {
	MarkActivity(ctx context.Context, projectID string, flag model.ActivityFlag) (*model.ProjectActivity, error)
}

// Tracker holds the activity record of the current project. Flags only flip
// to true and the record is reset when the project changes.
type Tracker struct {
	mu        sync.Mutex
	projectID string
	activity  model.ProjectActivity
	recorder  Recorder
	log       *slog.Logger
}

// NewTracker creates a tracker with no active project. recorder may be nil.
func NewTracker(recorder Recorder, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		recorder: recorder,
		log:      logger,
	}
}

// Switch makes projectID current and replaces the record with initial,
// usually the activity loaded from a store.
func (t *Tracker) Switch(projectID string, initial model.ProjectActivity) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.projectID = projectID
	t.activity = initial
	t.log.Debug("Switched activity project", slog.String("project_id", projectID))
}

// Clear drops the current project and its record.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.projectID = ""
	t.activity = model.ProjectActivity{}
}

// ProjectID returns the current project, or "" when none is active.
func (t *Tracker) ProjectID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.projectID
}

// Snapshot returns a copy of the current record.
func (t *Tracker) Snapshot() model.ProjectActivity {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activity
}

// Mark sets flag on the current record. It reports whether the record changed.
// Setting an already set flag or marking without an active project is a no-op.
func (t *Tracker) Mark(ctx context.Context, flag model.ActivityFlag) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.projectID == "" || t.activity.Has(flag) {
		return false, nil
	}
	updated, ok := t.activity.With(flag)
	if !ok {
		return false, helper.NewError("mark activity", &UnknownFlagError{Flag: flag})
	}

	if t.recorder != nil {
		if _, err := t.recorder.MarkActivity(ctx, t.projectID, flag); err != nil {
			return false, helper.NewError("record activity", err)
		}
	}
	t.activity = updated

	t.log.Debug("Marked activity", slog.String("project_id", t.projectID), slog.String("flag", string(flag)))
	return true, nil
}

// UnknownFlagError is returned for flags outside the activity record.
type UnknownFlagError struct {
	Flag model.ActivityFlag
}

func (e *UnknownFlagError) Error() string {
	return "unknown activity flag " + string(e.Flag)
}
