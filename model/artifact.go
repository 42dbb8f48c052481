package model

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ArtifactType is the closed set of artifact kinds a project can hold.
type ArtifactType string

const (
	ArtifactTypeConlang        ArtifactType = "Conlang"
	ArtifactTypeStory          ArtifactType = "Story"
	ArtifactTypeNovel          ArtifactType = "Novel"
	ArtifactTypeChapter        ArtifactType = "Chapter"
	ArtifactTypeScene          ArtifactType = "Scene"
	ArtifactTypeCharacter      ArtifactType = "Character"
	ArtifactTypeWiki           ArtifactType = "Wiki"
	ArtifactTypeLocation       ArtifactType = "Location"
	ArtifactTypeFaction        ArtifactType = "Faction"
	ArtifactTypeMagicSystem    ArtifactType = "MagicSystem"
	ArtifactTypeRulebook       ArtifactType = "Rulebook"
	ArtifactTypeTask           ArtifactType = "Task"
	ArtifactTypeTimeline       ArtifactType = "Timeline"
	ArtifactTypeRepository     ArtifactType = "Repository"
	ArtifactTypeIssue          ArtifactType = "Issue"
	ArtifactTypeRelease        ArtifactType = "Release"
	ArtifactTypeGameModule     ArtifactType = "GameModule"
	ArtifactTypeItem           ArtifactType = "Item"
	ArtifactTypeProductCatalog ArtifactType = "ProductCatalog"
	ArtifactTypeMemory         ArtifactType = "Memory"
)

// ArtifactTypes lists every known artifact type.
var ArtifactTypes = []ArtifactType{
	ArtifactTypeConlang,
	ArtifactTypeStory,
	ArtifactTypeNovel,
	ArtifactTypeChapter,
	ArtifactTypeScene,
	ArtifactTypeCharacter,
	ArtifactTypeWiki,
	ArtifactTypeLocation,
	ArtifactTypeFaction,
	ArtifactTypeMagicSystem,
	ArtifactTypeRulebook,
	ArtifactTypeTask,
	ArtifactTypeTimeline,
	ArtifactTypeRepository,
	ArtifactTypeIssue,
	ArtifactTypeRelease,
	ArtifactTypeGameModule,
	ArtifactTypeItem,
	ArtifactTypeProductCatalog,
	ArtifactTypeMemory,
}

// ParseArtifactType matches s case-insensitively against the known types.
func ParseArtifactType(s string) (ArtifactType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range ArtifactTypes {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

// IsNarrative reports whether the type holds story prose (stories, novels, chapters, scenes).
func (t ArtifactType) IsNarrative() bool {
	switch t {
	case ArtifactTypeStory, ArtifactTypeNovel, ArtifactTypeChapter, ArtifactTypeScene:
		return true
	}
	return false
}

// IsQuest reports whether the type is a task-like artifact (tasks and game modules).
func (t ArtifactType) IsQuest() bool {
	return t == ArtifactTypeTask || t == ArtifactTypeGameModule
}

// Artifact is a typed, user-authored node of a project's knowledge graph.
type Artifact struct {
	ID        string       `json:"id" yaml:"id"`
	ProjectID string       `json:"project_id" yaml:"project_id"`
	Type      ArtifactType `json:"type" yaml:"type"`
	Title     string       `json:"title" yaml:"title"`
	Summary   string       `json:"summary,omitempty" yaml:"summary,omitempty"`
	Status    string       `json:"status,omitempty" yaml:"status,omitempty"`
	Tags      []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Relations Relations    `json:"relations,omitempty" yaml:"relations,omitempty"`
	Data      Metadata     `json:"data,omitempty" yaml:"data,omitempty"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" yaml:"updated_at"`
}

// Clone returns a copy that shares no slices with a.
// Data is copied one level deep.
func (a *Artifact) Clone() *Artifact {
	if a == nil {
		return nil
	}
	c := *a
	if a.Tags != nil {
		c.Tags = append([]string(nil), a.Tags...)
	}
	if a.Relations != nil {
		c.Relations = a.Relations.Clone()
	}
	if a.Data != nil {
		c.Data = make(Metadata, len(a.Data))
		for k, v := range a.Data {
			c.Data[k] = v
		}
	}
	return &c
}

// StatusLabel returns the status normalized for display, e.g. "in_progress" -> "In Progress".
func (a *Artifact) StatusLabel() string {
	return NormalizeStatus(a.Status)
}

// NormalizeStatus trims s, turns separators into spaces and title-cases the words.
func NormalizeStatus(s string) string {
	s = strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ToLower(s))
}

// NormalizeTags drops blank tags and case-insensitive duplicates, keeping the first spelling.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}

// ArtifactPatch is a partial update. Nil fields are left untouched; pass an
// empty non-nil slice or map to clear a collection.
type ArtifactPatch struct {
	Title     *string   `json:"title,omitempty"`
	Summary   *string   `json:"summary,omitempty"`
	Status    *string   `json:"status,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Relations Relations `json:"relations,omitempty"`
	Data      Metadata  `json:"data,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ArtifactPatch) IsEmpty() bool {
	return p.Title == nil && p.Summary == nil && p.Status == nil &&
		p.Tags == nil && p.Relations == nil && p.Data == nil
}

// Apply returns a new artifact with the patch applied. a is not modified.
func (a *Artifact) Apply(p ArtifactPatch) *Artifact {
	c := a.Clone()
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Summary != nil {
		c.Summary = *p.Summary
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Tags != nil {
		c.Tags = NormalizeTags(p.Tags)
	}
	if p.Relations != nil {
		c.Relations = p.Relations.Clone()
	}
	if p.Data != nil {
		c.Data = make(Metadata, len(p.Data))
		for k, v := range p.Data {
			c.Data[k] = v
		}
	}
	return c
}
