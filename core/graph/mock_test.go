package graph

import (
	"context"

	"github.com/siherrmann/worldgraph/model"
)

// MockStore is an in-memory Store recording every write.
type MockStore struct {
	artifacts map[string]*model.Artifact
	updates   []string
	deletes   []string
	err       error
	async     bool // return nil artifacts like a fire-and-forget store
}

func NewMockStore(artifacts ...*model.Artifact) *MockStore {
	m := &MockStore{artifacts: make(map[string]*model.Artifact)}
	for _, a := range artifacts {
		m.artifacts[a.ID] = a
	}
	return m
}

func (m *MockStore) UpdateArtifact(ctx context.Context, id string, patch model.ArtifactPatch) (*model.Artifact, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.updates = append(m.updates, id)
	current, ok := m.artifacts[id]
	if !ok {
		return nil, nil
	}
	updated := current.Apply(patch)
	m.artifacts[id] = updated
	if m.async {
		return nil, nil
	}
	return updated, nil
}

func (m *MockStore) DeleteArtifact(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deletes = append(m.deletes, id)
	delete(m.artifacts, id)
	return nil
}

func artifact(id string, t model.ArtifactType, rels ...model.Relation) *model.Artifact {
	return &model.Artifact{
		ID:        id,
		ProjectID: "p1",
		Type:      t,
		Title:     id,
		Relations: rels,
	}
}

// fixture returns a snapshot, a store and an engine sharing the same artifacts.
func fixture(artifacts ...*model.Artifact) (*Snapshot, *MockStore, *Engine) {
	store := NewMockStore(artifacts...)
	return NewSnapshot(artifacts), store, NewEngine(store, nil)
}

func relationsOf(snap *Snapshot, id string) model.Relations {
	a, ok := snap.Resolve(id)
	if !ok {
		return nil
	}
	return a.Relations
}
