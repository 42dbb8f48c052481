package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/siherrmann/worldgraph/helper"
	"github.com/siherrmann/worldgraph/model"
	loader "github.com/siherrmann/worldgraph/sql"
)

// ArtifactsDBHandlerFunctions defines the interface for Artifacts database operations.
type ArtifactsDBHandlerFunctions interface {
	InsertProject(ctx context.Context, project *model.Project) error
	SelectProject(ctx context.Context, id string) (*model.Project, error)
	InsertArtifact(ctx context.Context, artifact *model.Artifact) error
	SelectArtifact(ctx context.Context, id string) (*model.Artifact, error)
	SelectArtifactsByProject(ctx context.Context, projectID string) ([]*model.Artifact, error)
	SelectAllArtifacts(ctx context.Context, after *model.Artifact, limit int) ([]*model.Artifact, error)
	SelectArtifactsReferencing(ctx context.Context, id string) ([]*model.Artifact, error)
	UpdateArtifact(ctx context.Context, id string, patch model.ArtifactPatch) (*model.Artifact, error)
	DeleteArtifact(ctx context.Context, id string) error
}

// ArtifactsDBHandler handles project and artifact database operations.
// It implements graph.Store.
type ArtifactsDBHandler struct {
	db *helper.Database
}

type rowScanner interface {
	Scan(dest ...any) error
}

// NewArtifactsDBHandler creates a new artifacts database handler.
// It loads the artifact SQL functions and creates the tables.
// If force is true, it will reload the SQL functions even if they already exist.
func NewArtifactsDBHandler(db *helper.Database, force bool) (*ArtifactsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	artifactsDbHandler := &ArtifactsDBHandler{
		db: db,
	}

	err := loader.LoadArtifactsSql(artifactsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load artifacts sql", err)
	}

	err = artifactsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ArtifactsDBHandler")

	return artifactsDbHandler, nil
}

// CreateTable creates the 'projects' and 'artifacts' tables with their indexes.
// Existing tables are left as they are.
func (h *ArtifactsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_artifacts();`)
	if err != nil {
		log.Panicf("error initializing artifacts table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table artifacts")

	return nil
}

// InsertProject inserts a project or updates its title and summary.
// A missing id is generated by the database.
func (h *ArtifactsDBHandler) InsertProject(ctx context.Context, project *model.Project) error {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_project($1, $2, $3)`,
		project.ID,
		project.Title,
		project.Summary,
	)

	err := row.Scan(
		&project.ID,
		&project.Title,
		&project.Summary,
		&project.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectProject retrieves a project by id.
func (h *ArtifactsDBHandler) SelectProject(ctx context.Context, id string) (*model.Project, error) {
	project := &model.Project{}
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_project($1)`,
		id,
	)

	err := row.Scan(
		&project.ID,
		&project.Title,
		&project.Summary,
		&project.CreatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return project, nil
}

// InsertArtifact inserts a new artifact. A missing id is generated by the database.
func (h *ArtifactsDBHandler) InsertArtifact(ctx context.Context, artifact *model.Artifact) error {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_artifact($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		artifact.ID,
		artifact.ProjectID,
		string(artifact.Type),
		artifact.Title,
		artifact.Summary,
		artifact.Status,
		pq.Array(model.NormalizeTags(artifact.Tags)),
		artifact.Relations,
		artifact.Data,
	)

	err := scanArtifact(row, artifact)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectArtifact retrieves an artifact by id.
func (h *ArtifactsDBHandler) SelectArtifact(ctx context.Context, id string) (*model.Artifact, error) {
	artifact := &model.Artifact{}
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_artifact($1)`,
		id,
	)

	err := scanArtifact(row, artifact)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return artifact, nil
}

// SelectArtifactsByProject retrieves all artifacts of a project in creation order.
func (h *ArtifactsDBHandler) SelectArtifactsByProject(ctx context.Context, projectID string) ([]*model.Artifact, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_artifacts_by_project($1)`,
		projectID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	return scanArtifacts(rows)
}

// SelectAllArtifacts retrieves artifacts of every project ordered by creation
// time and id. Pass the last artifact of the previous page as after, or nil
// for the first page.
func (h *ArtifactsDBHandler) SelectAllArtifacts(ctx context.Context, after *model.Artifact, limit int) ([]*model.Artifact, error) {
	var lastCreatedAt *time.Time
	var lastID *string
	if after != nil {
		lastCreatedAt = &after.CreatedAt
		lastID = &after.ID
	}

	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_all_artifacts($1, $2, $3)`,
		lastCreatedAt,
		lastID,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	return scanArtifacts(rows)
}

// SelectArtifactsReferencing retrieves every artifact with a relation pointing at id.
func (h *ArtifactsDBHandler) SelectArtifactsReferencing(ctx context.Context, id string) ([]*model.Artifact, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_artifacts_referencing($1)`,
		id,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	return scanArtifacts(rows)
}

// UpdateArtifact applies a partial update. Unknown ids return (nil, nil).
func (h *ArtifactsDBHandler) UpdateArtifact(ctx context.Context, id string, patch model.ArtifactPatch) (*model.Artifact, error) {
	var tags, relations, data any
	if patch.Tags != nil {
		tags = pq.Array(model.NormalizeTags(patch.Tags))
	}
	if patch.Relations != nil {
		relations = patch.Relations
	}
	if patch.Data != nil {
		data = patch.Data
	}

	artifact := &model.Artifact{}
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM update_artifact($1, $2, $3, $4, $5, $6, $7)`,
		id,
		patch.Title,
		patch.Summary,
		patch.Status,
		tags,
		relations,
		data,
	)

	err := scanArtifact(row, artifact)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return artifact, nil
}

// DeleteArtifact deletes an artifact by id. Relations pointing at it are left
// for the graph engine to scrub.
func (h *ArtifactsDBHandler) DeleteArtifact(ctx context.Context, id string) error {
	_, err := h.db.Instance.ExecContext(
		ctx,
		`SELECT delete_artifact($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

func scanArtifact(row rowScanner, artifact *model.Artifact) error {
	var tags pq.StringArray
	err := row.Scan(
		&artifact.ID,
		&artifact.ProjectID,
		&artifact.Type,
		&artifact.Title,
		&artifact.Summary,
		&artifact.Status,
		&tags,
		&artifact.Relations,
		&artifact.Data,
		&artifact.CreatedAt,
		&artifact.UpdatedAt,
	)
	if err != nil {
		return err
	}
	artifact.Tags = []string(tags)
	return nil
}

func scanArtifacts(rows *sql.Rows) ([]*model.Artifact, error) {
	defer rows.Close()

	artifacts := []*model.Artifact{}
	for rows.Next() {
		artifact := &model.Artifact{}
		err := scanArtifact(rows, artifact)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		artifacts = append(artifacts, artifact)
	}

	err := rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return artifacts, nil
}
