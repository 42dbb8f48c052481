package model

import (
	"strconv"
	"strings"
)

// Payload is the typed view of an artifact's Data, tagged by artifact type.
type Payload interface {
	ArtifactType() ArtifactType
}

// DecodePayload sanitizes a.Data into the payload type matching a.Type.
// Malformed fields are coerced to their zero value, it never fails.
func DecodePayload(a *Artifact) Payload {
	if a == nil {
		return RawData{}
	}
	switch a.Type {
	case ArtifactTypeCharacter:
		return DecodeCharacterData(a.Data)
	case ArtifactTypeTimeline:
		return DecodeTimelineData(a.Data)
	case ArtifactTypeTask:
		return DecodeTaskData(a.Data)
	case ArtifactTypeMagicSystem:
		return DecodeMagicSystemData(a.Data)
	case ArtifactTypeFaction:
		return DecodeFactionData(a.Data)
	case ArtifactTypeLocation:
		return DecodeLocationData(a.Data)
	}
	return RawData{Type: a.Type, Data: a.Data}
}

// RawData is the payload of types without a dedicated shape.
type RawData struct {
	Type ArtifactType
	Data Metadata
}

func (d RawData) ArtifactType() ArtifactType { return d.Type }

// CharacterTrait is a single documented trait of a character.
type CharacterTrait struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// CharacterData is the payload of Character artifacts.
type CharacterData struct {
	Bio    string           `json:"bio" yaml:"bio"`
	Traits []CharacterTrait `json:"traits" yaml:"traits"`
}

func (CharacterData) ArtifactType() ArtifactType { return ArtifactTypeCharacter }

// DecodeCharacterData reads bio and traits. Traits may be objects or plain strings.
// Every non-nil entry is a trait, blank ones included.
func DecodeCharacterData(data Metadata) CharacterData {
	out := CharacterData{Bio: data.String("bio")}
	for i, item := range data.List("traits") {
		if item == nil {
			continue
		}
		trait := CharacterTrait{}
		if m := coerceMap(item); m != nil {
			trait.ID = coerceString(m["id"])
			trait.Name = coerceString(m["name"])
			trait.Description = coerceString(m["description"])
		} else {
			trait.Name = coerceString(item)
		}
		if trait.ID == "" {
			trait.ID = "trait-" + strconv.Itoa(i)
		}
		out.Traits = append(out.Traits, trait)
	}
	return out
}

// TimelineEvent is a dated beat on a timeline.
type TimelineEvent struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Date        string `json:"date" yaml:"date"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// TimelineData is the payload of Timeline artifacts.
type TimelineData struct {
	Events []TimelineEvent `json:"events" yaml:"events"`
}

func (TimelineData) ArtifactType() ArtifactType { return ArtifactTypeTimeline }

// DecodeTimelineData reads the event list, skipping non-object entries.
func DecodeTimelineData(data Metadata) TimelineData {
	out := TimelineData{}
	for _, item := range data.List("events") {
		m := coerceMap(item)
		if m == nil {
			continue
		}
		out.Events = append(out.Events, TimelineEvent{
			ID:          coerceString(m["id"]),
			Title:       coerceString(m["title"]),
			Date:        coerceString(m["date"]),
			Description: coerceString(m["description"]),
		})
	}
	return out
}

// TaskState is the workflow state of a Task artifact.
type TaskState string

const (
	TaskStateTodo       TaskState = "Todo"
	TaskStateInProgress TaskState = "In Progress"
	TaskStateDone       TaskState = "Done"
)

// TaskData is the payload of Task artifacts.
type TaskData struct {
	State    TaskState `json:"state" yaml:"state"`
	Assignee string    `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Due      string    `json:"due,omitempty" yaml:"due,omitempty"`
}

func (TaskData) ArtifactType() ArtifactType { return ArtifactTypeTask }

// DecodeTaskData reads the task state. Unknown states fall back to Todo.
func DecodeTaskData(data Metadata) TaskData {
	out := TaskData{
		State:    TaskStateTodo,
		Assignee: data.String("assignee"),
		Due:      data.String("due"),
	}
	switch strings.ToLower(strings.TrimSpace(data.String("state"))) {
	case "done":
		out.State = TaskStateDone
	case "in progress", "in_progress", "in-progress":
		out.State = TaskStateInProgress
	}
	return out
}

// MagicStability rates how safe a principle is to wield.
type MagicStability string

const (
	MagicStabilityStable    MagicStability = "stable"
	MagicStabilityVolatile  MagicStability = "volatile"
	MagicStabilityForbidden MagicStability = "forbidden"
)

// MagicPrinciple is one rule of a magic system.
type MagicPrinciple struct {
	ID          string         `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	Focus       string         `json:"focus,omitempty" yaml:"focus,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Stability   MagicStability `json:"stability" yaml:"stability"`
}

// MagicElement is a source, ritual or taboo of a magic system.
type MagicElement struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// MagicSystemData is the payload of MagicSystem artifacts (codices).
type MagicSystemData struct {
	Principles []MagicPrinciple `json:"principles" yaml:"principles"`
	Sources    []MagicElement   `json:"sources" yaml:"sources"`
	Rituals    []MagicElement   `json:"rituals" yaml:"rituals"`
	Taboos     []MagicElement   `json:"taboos" yaml:"taboos"`
}

func (MagicSystemData) ArtifactType() ArtifactType { return ArtifactTypeMagicSystem }

// DecodeMagicSystemData reads principles and elements. Unknown stabilities become stable.
func DecodeMagicSystemData(data Metadata) MagicSystemData {
	out := MagicSystemData{}
	for _, item := range data.List("principles") {
		m := coerceMap(item)
		if m == nil {
			continue
		}
		p := MagicPrinciple{
			ID:          coerceString(m["id"]),
			Title:       coerceString(m["title"]),
			Focus:       coerceString(m["focus"]),
			Description: coerceString(m["description"]),
			Stability:   MagicStabilityStable,
		}
		switch MagicStability(strings.ToLower(coerceString(m["stability"]))) {
		case MagicStabilityVolatile:
			p.Stability = MagicStabilityVolatile
		case MagicStabilityForbidden:
			p.Stability = MagicStabilityForbidden
		}
		out.Principles = append(out.Principles, p)
	}
	out.Sources = decodeMagicElements(data.List("sources"))
	out.Rituals = decodeMagicElements(data.List("rituals"))
	out.Taboos = decodeMagicElements(data.List("taboos"))
	return out
}

func decodeMagicElements(items []interface{}) []MagicElement {
	var out []MagicElement
	for _, item := range items {
		if m := coerceMap(item); m != nil {
			out = append(out, MagicElement{
				ID:          coerceString(m["id"]),
				Title:       coerceString(m["title"]),
				Description: coerceString(m["description"]),
			})
			continue
		}
		if s := strings.TrimSpace(coerceString(item)); s != "" {
			out = append(out, MagicElement{Title: s})
		}
	}
	return out
}

// FactionData is the payload of Faction artifacts.
type FactionData struct {
	Ideology  string `json:"ideology,omitempty" yaml:"ideology,omitempty"`
	Leader    string `json:"leader,omitempty" yaml:"leader,omitempty"`
	Territory string `json:"territory,omitempty" yaml:"territory,omitempty"`
}

func (FactionData) ArtifactType() ArtifactType { return ArtifactTypeFaction }

func DecodeFactionData(data Metadata) FactionData {
	return FactionData{
		Ideology:  data.String("ideology"),
		Leader:    data.String("leader"),
		Territory: data.String("territory"),
	}
}

// LocationData is the payload of Location artifacts.
type LocationData struct {
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Features    []string `json:"features,omitempty" yaml:"features,omitempty"`
}

func (LocationData) ArtifactType() ArtifactType { return ArtifactTypeLocation }

func DecodeLocationData(data Metadata) LocationData {
	return LocationData{
		Description: data.String("description"),
		Features:    coerceStrings(data["features"]),
	}
}
