package graph

import "github.com/siherrmann/worldgraph/model"

// reciprocals holds the kinds whose inverse is not the kind itself.
// Symmetric kinds are listed mapping to themselves for documentation.
var reciprocals = map[string]string{
	model.RelationKindParentOf:  model.RelationKindChildOf,
	model.RelationKindChildOf:   model.RelationKindParentOf,
	model.RelationKindSiblingOf: model.RelationKindSiblingOf,
	model.RelationKindPartnerOf: model.RelationKindPartnerOf,
	model.RelationKindMarriedTo: model.RelationKindMarriedTo,
	model.RelationKindSpouseOf:  model.RelationKindSpouseOf,
}

// Reciprocate returns the kind of the inverse edge. Kinds without an entry
// are mirrored unchanged, so APPEARS_IN reciprocates as APPEARS_IN.
func Reciprocate(kind string) string {
	kind = model.NormalizeRelationKind(kind)
	if r, ok := reciprocals[kind]; ok {
		return r
	}
	return kind
}
