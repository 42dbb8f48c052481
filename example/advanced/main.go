package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/siherrmann/worldgraph"
	"github.com/siherrmann/worldgraph/helper"
	"github.com/siherrmann/worldgraph/model"
	"github.com/siherrmann/worldgraph/workspace"
)

func main() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "worldgraph-example")
	if err != nil {
		log.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	store, err := workspace.Create(filepath.Join(dir, workspace.DefaultFileName), "Ashen Reaches")
	if err != nil {
		log.Fatalf("Failed to create workspace: %v", err)
	}
	w := worldgraph.NewWorkspaceWorldgraph(store, helper.NewLogger(os.Stdout, slog.LevelWarn))

	codex := &model.Artifact{
		Type:    model.ArtifactTypeMagicSystem,
		Title:   "Emberlore",
		Summary: "Fire magic fuelled by memories.",
		Data: model.Metadata{
			"principles": []interface{}{
				map[string]interface{}{"title": "Kindling", "stability": "stable"},
				map[string]interface{}{"title": "Wildfire", "stability": "volatile"},
			},
			"taboos": []interface{}{"Burning a name"},
		},
	}
	timeline := &model.Artifact{
		Type:  model.ArtifactTypeTimeline,
		Title: "Age of Ash",
		Data: model.Metadata{
			"events": []interface{}{
				map[string]interface{}{"title": "First Flame", "date": "1200 BCE"},
				map[string]interface{}{"title": "The Quenching", "date": "Year 340"},
			},
		},
	}
	wardens := &model.Artifact{Type: model.ArtifactTypeFaction, Title: "Ash Wardens"}
	cinders := &model.Artifact{Type: model.ArtifactTypeFaction, Title: "Cinder Court"}
	kael := &model.Artifact{
		Type:    model.ArtifactTypeCharacter,
		Title:   "Kael",
		Status:  "in revision",
		Summary: "A warden who forgets a little more with every spell.",
		Data: model.Metadata{
			"bio":    "Born in the ash fields, Kael trained as a warden and learned to trade memories for flame.",
			"traits": []interface{}{"stubborn", "loyal"},
		},
	}
	for _, a := range []*model.Artifact{codex, timeline, wardens, cinders, kael} {
		if err := w.CreateArtifact(ctx, a); err != nil {
			log.Fatalf("Failed to create artifact: %v", err)
		}
	}

	relations := []struct{ from, to, kind string }{
		{kael.ID, wardens.ID, model.RelationKindMemberOf},
		{kael.ID, timeline.ID, model.RelationKindAppearsIn},
		{kael.ID, codex.ID, "WIELDS"},
		{wardens.ID, cinders.ID, "RIVAL_OF"},
	}
	for _, r := range relations {
		if err := w.AddRelation(ctx, r.from, r.to, r.kind); err != nil {
			log.Fatalf("Failed to add relation: %v", err)
		}
	}

	for _, flag := range []model.ActivityFlag{model.ActivityViewedGraph, model.ActivityImportedCsv} {
		if _, err := w.MarkActivity(ctx, flag); err != nil {
			log.Fatalf("Failed to mark activity: %v", err)
		}
	}

	stats, err := w.WorldStats()
	if err != nil {
		log.Fatalf("Failed to summarize world: %v", err)
	}
	fmt.Printf("Codices: %d (%d constraints)\n", stats.Codex.Codices, stats.Codex.Constraints)
	fmt.Printf("World age: %d years across %d dated events\n", stats.WorldAge.SpanYears, stats.WorldAge.DatedEvents)
	fmt.Printf("Factions: %d linked, %d cross relations\n", stats.Factions.Linked, stats.Factions.CrossRelations)

	readiness, err := w.Readiness()
	if err != nil {
		log.Fatalf("Failed to score arcs: %v", err)
	}
	fmt.Printf("\nCast of %d, average arc score %.2f\n", readiness.Characters, readiness.AverageScore)

	overview, err := w.MilestoneProgress()
	if err != nil {
		log.Fatalf("Failed to evaluate milestones: %v", err)
	}
	for _, m := range overview {
		fmt.Printf("\n%s (%.0f%%)\n", m.Milestone.Title, m.Completion*100)
		for _, o := range m.Objectives {
			fmt.Printf("  %-12s %s\n", o.Status, o.Detail)
		}
	}

	fmt.Printf("\nWorkspace written to %s\n", store.Path())
}
