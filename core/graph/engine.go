package graph

import (
	"context"
	"log/slog"

	"github.com/siherrmann/worldgraph/helper"
	"github.com/siherrmann/worldgraph/model"
)

// Store persists artifact updates. UpdateArtifact may return a nil artifact
// with a nil error when the write completes asynchronously or the id is unknown
// to the store; the engine then applies the patch to the snapshot itself.
type Store interface {
	UpdateArtifact(ctx context.Context, id string, patch model.ArtifactPatch) (*model.Artifact, error)
	DeleteArtifact(ctx context.Context, id string) error
}

// Engine keeps relation lists consistent and reciprocal.
// Unknown ids are never errors: every operation on a missing artifact is a no-op.
type Engine struct {
	store Store
	log   *slog.Logger
}

// NewEngine creates a relation engine writing through store.
func NewEngine(store Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store: store,
		log:   logger,
	}
}

type relationOptions struct {
	variantID string
}

// RelationOption configures AddRelation.
type RelationOption func(*relationOptions)

// WithVariant scopes the relation to a sub-entity of the target.
// Variant-scoped relations get no reciprocal edge.
func WithVariant(variantID string) RelationOption {
	return func(o *relationOptions) {
		o.variantID = variantID
	}
}

// AddRelation adds or re-kinds the edge fromID -> toID and its reciprocal.
// At most two store updates are issued, and only for lists that changed.
func (e *Engine) AddRelation(ctx context.Context, snap *Snapshot, fromID, toID, kind string, opts ...RelationOption) error {
	options := relationOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	source, ok := snap.Resolve(fromID)
	if !ok {
		e.log.Debug("Skipped relation from unknown artifact", slog.String("from_id", fromID))
		return nil
	}
	if _, ok := snap.Resolve(toID); !ok {
		e.log.Debug("Skipped relation to unknown artifact", slog.String("to_id", toID))
		return nil
	}

	kind = model.NormalizeRelationKind(kind)
	if kind == "" {
		kind = model.RelationKindRelatesTo
	}
	reciprocalKind := Reciprocate(kind)

	relations, changed := upsertRelation(source.Relations, model.Relation{
		ToID:      toID,
		Kind:      kind,
		VariantID: options.variantID,
	})
	if changed {
		if err := e.persist(ctx, snap, source, relations); err != nil {
			return helper.NewError("update source relations", err)
		}
	}

	// Variant and self relations have no reciprocal.
	if options.variantID != "" || fromID == toID {
		return nil
	}

	target, ok := snap.Resolve(toID)
	if !ok {
		return nil
	}
	relations, changed = upsertRelation(target.Relations, model.Relation{
		ToID: fromID,
		Kind: reciprocalKind,
	})
	if changed {
		if err := e.persist(ctx, snap, target, relations); err != nil {
			return helper.NewError("update target relations", err)
		}
	}

	return nil
}

// RemoveRelation removes the relation at index from fromID and every edge on
// the former target that points back at fromID.
func (e *Engine) RemoveRelation(ctx context.Context, snap *Snapshot, fromID string, index int) error {
	source, ok := snap.Resolve(fromID)
	if !ok || index < 0 || index >= len(source.Relations) {
		e.log.Debug("Skipped removing unknown relation", slog.String("from_id", fromID), slog.Int("index", index))
		return nil
	}

	removed := source.Relations[index]
	relations := make(model.Relations, 0, len(source.Relations)-1)
	relations = append(relations, source.Relations[:index]...)
	relations = append(relations, source.Relations[index+1:]...)
	if err := e.persist(ctx, snap, source, relations); err != nil {
		return helper.NewError("update source relations", err)
	}

	target, ok := snap.Resolve(removed.ToID)
	if !ok {
		return nil
	}
	relations = withoutTarget(target.Relations, fromID)
	if len(relations) != len(target.Relations) {
		if err := e.persist(ctx, snap, target, relations); err != nil {
			return helper.NewError("update target relations", err)
		}
	}

	return nil
}

// DeleteArtifact deletes id through the store and scrubs every relation
// pointing at it. It returns the number of artifacts that were scrubbed.
// Ids that are not part of the project are a no-op.
func (e *Engine) DeleteArtifact(ctx context.Context, snap *Snapshot, id string) (int, error) {
	if _, ok := snap.Local(id); !ok {
		e.log.Debug("Skipped deleting artifact outside the project", slog.String("artifact_id", id))
		return 0, nil
	}
	if err := e.store.DeleteArtifact(ctx, id); err != nil {
		return 0, helper.NewError("delete artifact", err)
	}
	snap.Remove(id)

	scrubbed, err := e.ScrubReferences(ctx, snap, id)
	if err != nil {
		return scrubbed, helper.NewError("scrub references", err)
	}

	e.log.Info("Deleted artifact", slog.String("artifact_id", id), slog.Int("scrubbed", scrubbed))
	return scrubbed, nil
}

// ScrubReferences removes relations pointing at id from all project artifacts.
func (e *Engine) ScrubReferences(ctx context.Context, snap *Snapshot, id string) (int, error) {
	scrubbed := 0
	for _, a := range snap.Artifacts() {
		relations := withoutTarget(a.Relations, id)
		if len(relations) == len(a.Relations) {
			continue
		}
		if err := e.persist(ctx, snap, a, relations); err != nil {
			return scrubbed, err
		}
		scrubbed++
	}
	return scrubbed, nil
}

func (e *Engine) persist(ctx context.Context, snap *Snapshot, current *model.Artifact, relations model.Relations) error {
	patch := model.ArtifactPatch{Relations: relations}

	updated, err := e.store.UpdateArtifact(ctx, current.ID, patch)
	if err != nil {
		return err
	}
	if updated == nil {
		updated = current.Apply(patch)
	}
	snap.Refresh(updated)

	e.log.Debug("Persisted relations", slog.String("artifact_id", current.ID), slog.Int("relations", len(relations)))
	return nil
}

// upsertRelation returns rels with rel keyed on (ToID, VariantID). An existing
// entry keeps its position and only changes kind. rels is never modified.
func upsertRelation(rels model.Relations, rel model.Relation) (model.Relations, bool) {
	if i := rels.IndexOf(rel.ToID, rel.VariantID); i >= 0 {
		if rels[i].Kind == rel.Kind {
			return rels, false
		}
		out := rels.Clone()
		out[i].Kind = rel.Kind
		return out, true
	}

	out := make(model.Relations, len(rels), len(rels)+1)
	copy(out, rels)
	return append(out, rel), true
}

func withoutTarget(rels model.Relations, toID string) model.Relations {
	out := make(model.Relations, 0, len(rels))
	for _, rel := range rels {
		if rel.ToID != toID {
			out = append(out, rel)
		}
	}
	return out
}
