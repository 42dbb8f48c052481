package graph

import (
	"sort"

	"github.com/siherrmann/worldgraph/model"
)

// Lookup resolves artifact ids. A miss is reported with false, never an error.
type Lookup interface {
	Resolve(id string) (*model.Artifact, bool)
}

// Snapshot is a by-id index over the artifacts of the current project, with an
// optional fallback over artifacts of other projects for cross-project edges.
// It is owned by a single caller. Put and Remove swap entries but never modify
// the artifacts they hold.
type Snapshot struct {
	order    []string
	byID     map[string]*model.Artifact
	external map[string]*model.Artifact
}

// NewSnapshot indexes the project's artifacts. Later duplicates of an id replace
// earlier ones but keep the first position.
func NewSnapshot(artifacts []*model.Artifact) *Snapshot {
	s := &Snapshot{
		byID:     make(map[string]*model.Artifact, len(artifacts)),
		external: map[string]*model.Artifact{},
	}
	for _, a := range artifacts {
		s.Put(a)
	}
	return s
}

// WithExternal registers artifacts of other projects for cross-project resolution.
// Artifacts already part of the snapshot are ignored.
func (s *Snapshot) WithExternal(artifacts []*model.Artifact) *Snapshot {
	for _, a := range artifacts {
		if a == nil || a.ID == "" {
			continue
		}
		if _, ok := s.byID[a.ID]; ok {
			continue
		}
		s.external[a.ID] = a
	}
	return s
}

// Resolve looks up id in the project first and then in the external artifacts.
func (s *Snapshot) Resolve(id string) (*model.Artifact, bool) {
	if a, ok := s.byID[id]; ok {
		return a, true
	}
	a, ok := s.external[id]
	return a, ok
}

// Local looks up id in the project artifacts only.
func (s *Snapshot) Local(id string) (*model.Artifact, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// ResolveRelation resolves the target of rel, tolerating dangling ids.
func (s *Snapshot) ResolveRelation(rel model.Relation) (*model.Artifact, bool) {
	return s.Resolve(rel.ToID)
}

// IsExternal reports whether id resolves to an artifact outside the project.
func (s *Snapshot) IsExternal(id string) bool {
	_, local := s.byID[id]
	_, ext := s.external[id]
	return !local && ext
}

// Put inserts or replaces an artifact.
func (s *Snapshot) Put(a *model.Artifact) {
	if a == nil || a.ID == "" {
		return
	}
	if _, ok := s.byID[a.ID]; !ok {
		s.order = append(s.order, a.ID)
	}
	s.byID[a.ID] = a
	delete(s.external, a.ID)
}

// Refresh replaces a stored artifact in place, keeping external artifacts external.
func (s *Snapshot) Refresh(a *model.Artifact) {
	if a == nil || a.ID == "" {
		return
	}
	if s.IsExternal(a.ID) {
		s.external[a.ID] = a
		return
	}
	s.Put(a)
}

// Remove drops an artifact, local or external. Relations pointing at it are left dangling.
func (s *Snapshot) Remove(id string) {
	delete(s.external, id)
	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of project artifacts.
func (s *Snapshot) Len() int {
	return len(s.order)
}

// Artifacts returns the project artifacts in insertion order.
func (s *Snapshot) Artifacts() []*model.Artifact {
	out := make([]*model.Artifact, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// ByType returns the project artifacts of the given type, sorted by title.
func (s *Snapshot) ByType(t model.ArtifactType) []*model.Artifact {
	var out []*model.Artifact
	for _, id := range s.order {
		if a := s.byID[id]; a.Type == t {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}
