// Package worldstats summarizes world-building depth of a project graph:
// magic codices, timeline age, faction ties and anchored characters.
package worldstats

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/siherrmann/worldgraph/core/graph"
	"github.com/siherrmann/worldgraph/model"
)

// Summary bundles every world statistic of a project.
type Summary struct {
	Codex     CodexStats
	WorldAge  WorldAgeStats
	Factions  FactionStats
	NPCMemory NPCMemoryStats
}

// CodexStats describes the MagicSystem artifacts.
type CodexStats struct {
	Codices     int
	Annotated   int
	Principles  int
	Constraints int // volatile or forbidden principles plus taboos
}

// WorldAgeStats describes the dated events of all timelines.
type WorldAgeStats struct {
	Timelines    int
	Events       int
	DatedEvents  int
	EarliestYear int
	LatestYear   int
	SpanYears    int
}

// FactionStats describes how connected the factions are.
type FactionStats struct {
	Factions       int
	Linked         int
	CrossRelations int
}

// NPCMemoryStats describes how grounded the characters are.
type NPCMemoryStats struct {
	Actors   int
	Anchored int
	Bridges  int
}

// Summarize computes all statistics over the project artifacts of snap.
func Summarize(snap *graph.Snapshot) Summary {
	return Summary{
		Codex:     Codex(snap),
		WorldAge:  WorldAge(snap),
		Factions:  Factions(snap),
		NPCMemory: NPCMemory(snap),
	}
}

// Codex counts codices and their constraints. A codex is annotated when it has
// at least one principle and either a summary or a described principle.
func Codex(snap *graph.Snapshot) CodexStats {
	stats := CodexStats{}
	for _, a := range snap.ByType(model.ArtifactTypeMagicSystem) {
		stats.Codices++
		data := model.DecodeMagicSystemData(a.Data)

		described := false
		for _, p := range data.Principles {
			if strings.TrimSpace(p.Description) != "" {
				described = true
			}
			if p.Stability == model.MagicStabilityVolatile || p.Stability == model.MagicStabilityForbidden {
				stats.Constraints++
			}
		}
		stats.Constraints += len(data.Taboos)
		stats.Principles += len(data.Principles)

		if len(data.Principles) > 0 && (strings.TrimSpace(a.Summary) != "" || described) {
			stats.Annotated++
		}
	}
	return stats
}

var yearPattern = regexp.MustCompile(`\d+`)

// ParseYear reads the year out of a free-text date: the integer with the most
// digits, the later one on a tie, so "3rd Age, 1200" is 1200 and "2023-05-01"
// is 2023. A leading minus or a trailing BCE or BC marks the year as negative.
// The second result is false when no year is found.
func ParseYear(date string) (int, bool) {
	var start, end int
	for _, loc := range yearPattern.FindAllStringIndex(date, -1) {
		if loc[1]-loc[0] >= end-start {
			start, end = loc[0], loc[1]
		}
	}
	if end == 0 {
		return 0, false
	}
	year, err := strconv.Atoi(date[start:end])
	if err != nil {
		return 0, false
	}
	// A minus counts as a sign only at the start of a word, not inside 2023-05-01.
	if start > 0 && date[start-1] == '-' && (start == 1 || unicode.IsSpace(rune(date[start-2]))) {
		year = -year
	}

	fields := strings.Fields(strings.ToUpper(strings.NewReplacer(".", "", ",", " ").Replace(date)))
	if len(fields) > 0 {
		last := fields[len(fields)-1]
		if last == "BCE" || last == "BC" || strings.HasSuffix(last, "BCE") || strings.HasSuffix(last, "BC") {
			if year > 0 {
				year = -year
			}
		}
	}
	return year, true
}

// WorldAge collects the dated events of every timeline and the span they cover.
func WorldAge(snap *graph.Snapshot) WorldAgeStats {
	stats := WorldAgeStats{}
	for _, a := range snap.ByType(model.ArtifactTypeTimeline) {
		stats.Timelines++
		for _, event := range model.DecodeTimelineData(a.Data).Events {
			stats.Events++
			year, ok := ParseYear(event.Date)
			if !ok {
				continue
			}
			if stats.DatedEvents == 0 || year < stats.EarliestYear {
				stats.EarliestYear = year
			}
			if stats.DatedEvents == 0 || year > stats.LatestYear {
				stats.LatestYear = year
			}
			stats.DatedEvents++
		}
	}
	stats.SpanYears = stats.LatestYear - stats.EarliestYear
	return stats
}

// Factions counts factions with at least one resolvable relation in either
// direction and the relations running from one faction to another.
func Factions(snap *graph.Snapshot) FactionStats {
	stats := FactionStats{}
	for _, faction := range snap.ByType(model.ArtifactTypeFaction) {
		stats.Factions++

		linked := len(graph.Neighbors(snap, faction.ID)) > 0 || len(graph.Backlinks(snap, faction.ID)) > 0
		if linked {
			stats.Linked++
		}

		for _, rel := range faction.Relations {
			target, ok := snap.ResolveRelation(rel)
			if ok && target.ID != faction.ID && target.Type == model.ArtifactTypeFaction {
				stats.CrossRelations++
			}
		}
	}
	return stats
}

// NPCMemory counts characters anchored to a location and to a faction or
// timeline, plus relations bridging into other projects.
func NPCMemory(snap *graph.Snapshot) NPCMemoryStats {
	stats := NPCMemoryStats{}
	for _, actor := range snap.ByType(model.ArtifactTypeCharacter) {
		stats.Actors++

		linked := linkedTypes(snap, actor.ID)
		if linked[model.ArtifactTypeLocation] && (linked[model.ArtifactTypeFaction] || linked[model.ArtifactTypeTimeline]) {
			stats.Anchored++
		}
	}

	for _, a := range snap.Artifacts() {
		for _, rel := range a.Relations {
			target, ok := snap.ResolveRelation(rel)
			if ok && target.ProjectID != a.ProjectID {
				stats.Bridges++
			}
		}
	}
	return stats
}

func linkedTypes(snap *graph.Snapshot, id string) map[model.ArtifactType]bool {
	types := map[model.ArtifactType]bool{}
	for _, n := range graph.Neighbors(snap, id) {
		types[n.Type] = true
	}
	for _, link := range graph.Backlinks(snap, id) {
		types[link.From.Type] = true
	}
	return types
}
