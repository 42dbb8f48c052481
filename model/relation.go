package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"

	"github.com/siherrmann/worldgraph/helper"
)

// Common relation kinds. Any normalized string is a valid kind.
const (
	RelationKindRelatesTo = "RELATES_TO"
	RelationKindParentOf  = "PARENT_OF"
	RelationKindChildOf   = "CHILD_OF"
	RelationKindSiblingOf = "SIBLING_OF"
	RelationKindPartnerOf = "PARTNER_OF"
	RelationKindMarriedTo = "MARRIED_TO"
	RelationKindSpouseOf  = "SPOUSE_OF"
	RelationKindAppearsIn = "APPEARS_IN"
	RelationKindMemberOf  = "MEMBER_OF"
	RelationKindLocatedIn = "LOCATED_IN"
)

// Relation is a directed, typed edge to another artifact. VariantID scopes the
// edge to a sub-entity of the target.
type Relation struct {
	ToID      string `json:"to_id" yaml:"to_id"`
	Kind      string `json:"kind" yaml:"kind"`
	VariantID string `json:"variant_id,omitempty" yaml:"variant_id,omitempty"`
}

// NormalizeRelationKind upper-cases and trims a relation kind.
func NormalizeRelationKind(kind string) string {
	return strings.ToUpper(strings.TrimSpace(kind))
}

// Relations is an ordered relation list stored as JSONB.
type Relations []Relation

// Clone returns a copy backed by a new array. A nil list clones to an empty one.
func (r Relations) Clone() Relations {
	c := make(Relations, len(r))
	copy(c, r)
	return c
}

// IndexOf returns the position of the entry keyed by (toID, variantID), or -1.
func (r Relations) IndexOf(toID, variantID string) int {
	for i, rel := range r {
		if rel.ToID == toID && rel.VariantID == variantID {
			return i
		}
	}
	return -1
}

// Value implements the driver.Valuer interface for database storage
func (r Relations) Value() (driver.Value, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r)
}

// Scan implements the sql.Scanner interface for database retrieval
func (r *Relations) Scan(value interface{}) error {
	if value == nil {
		*r = Relations{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		s, isString := value.(string)
		if !isString {
			return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
		}
		b = []byte(s)
	}

	return json.Unmarshal(b, r)
}
