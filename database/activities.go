package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/siherrmann/worldgraph/helper"
	"github.com/siherrmann/worldgraph/model"
	loader "github.com/siherrmann/worldgraph/sql"
)

// ActivitiesDBHandlerFunctions defines the interface for Activities database operations.
type ActivitiesDBHandlerFunctions interface {
	SelectActivity(ctx context.Context, projectID string) (*model.ProjectActivity, error)
	MarkActivity(ctx context.Context, projectID string, flag model.ActivityFlag) (*model.ProjectActivity, error)
	ResetActivity(ctx context.Context, projectID string) error
}

// ActivitiesDBHandler persists the per-project activity record.
// It implements activity.Recorder.
type ActivitiesDBHandler struct {
	db *helper.Database
}

// NewActivitiesDBHandler creates a new activities database handler.
// If force is true, it will reload the SQL functions even if they already exist.
func NewActivitiesDBHandler(db *helper.Database, force bool) (*ActivitiesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	activitiesDbHandler := &ActivitiesDBHandler{
		db: db,
	}

	err := loader.LoadActivitiesSql(activitiesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load activities sql", err)
	}

	err = activitiesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ActivitiesDBHandler")

	return activitiesDbHandler, nil
}

// CreateTable creates the 'activities' table if it does not exist.
func (h *ActivitiesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_activities();`)
	if err != nil {
		log.Panicf("error initializing activities table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table activities")

	return nil
}

// SelectActivity retrieves the activity of a project. Projects without a
// record yield an empty activity.
func (h *ActivitiesDBHandler) SelectActivity(ctx context.Context, projectID string) (*model.ProjectActivity, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_activity($1)`,
		projectID,
	)

	activity, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.ProjectActivity{}, nil
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return activity, nil
}

// MarkActivity sets a flag of a project. Flags are never cleared.
func (h *ActivitiesDBHandler) MarkActivity(ctx context.Context, projectID string, flag model.ActivityFlag) (*model.ProjectActivity, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM mark_activity($1, $2)`,
		projectID,
		string(flag),
	)

	activity, err := scanActivity(row)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return activity, nil
}

// ResetActivity removes the activity record of a project.
func (h *ActivitiesDBHandler) ResetActivity(ctx context.Context, projectID string) error {
	_, err := h.db.Instance.ExecContext(
		ctx,
		`SELECT reset_activity($1)`,
		projectID,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

func scanActivity(row rowScanner) (*model.ProjectActivity, error) {
	activity := &model.ProjectActivity{}
	err := row.Scan(
		&activity.ViewedGraph,
		&activity.ViewedKanban,
		&activity.ImportedCsv,
		&activity.ExportedData,
		&activity.PublishedSite,
		&activity.GeneratedReleaseNotes,
		&activity.GithubImported,
		&activity.UsedSearch,
		&activity.UsedFilters,
	)
	if err != nil {
		return nil, err
	}
	return activity, nil
}
