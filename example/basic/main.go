package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/siherrmann/worldgraph"
	"github.com/siherrmann/worldgraph/helper"
	"github.com/siherrmann/worldgraph/model"
)

func main() {
	ctx := context.Background()

	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(ctx)

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	w, err := worldgraph.NewWorldgraph(dbConfig)
	if err != nil {
		log.Fatalf("Failed to create worldgraph: %v", err)
	}
	defer w.Close()

	project := &model.Project{ID: uuid.NewString(), Title: "The Shattered Coast"}
	if err := w.Artifacts.InsertProject(ctx, project); err != nil {
		log.Fatalf("Failed to insert project: %v", err)
	}
	if err := w.LoadProject(ctx, project.ID); err != nil {
		log.Fatalf("Failed to load project: %v", err)
	}

	queen := &model.Artifact{Type: model.ArtifactTypeCharacter, Title: "Queen Maren", Status: "draft", Summary: "Ruler of the coast who bargains with the tides."}
	heir := &model.Artifact{Type: model.ArtifactTypeCharacter, Title: "Prince Ilan"}
	saga := &model.Artifact{Type: model.ArtifactTypeStory, Title: "The Drowned Crown"}
	for _, a := range []*model.Artifact{queen, heir, saga} {
		if err := w.CreateArtifact(ctx, a); err != nil {
			log.Fatalf("Failed to create artifact: %v", err)
		}
	}

	// Reciprocal relations are written automatically
	if err := w.AddRelation(ctx, queen.ID, heir.ID, model.RelationKindParentOf); err != nil {
		log.Fatalf("Failed to add relation: %v", err)
	}
	if err := w.AddRelation(ctx, queen.ID, saga.ID, model.RelationKindAppearsIn); err != nil {
		log.Fatalf("Failed to add relation: %v", err)
	}

	stored, err := w.Artifacts.SelectArtifact(ctx, heir.ID)
	if err != nil {
		log.Fatalf("Failed to select artifact: %v", err)
	}
	fmt.Printf("%s relations:\n", stored.Title)
	for _, rel := range stored.Relations {
		fmt.Printf("  %s -> %s\n", rel.Kind, rel.ToID)
	}

	fmt.Println("\nTraversal from", queen.Title)
	for _, result := range w.Traverse(queen.ID, 2) {
		fmt.Printf("  %d hops: %s\n", result.Distance, result.Artifact.Title)
	}

	arcs, err := w.CharacterArcs()
	if err != nil {
		log.Fatalf("Failed to score arcs: %v", err)
	}
	fmt.Println("\nCharacter arcs:")
	for _, arc := range arcs {
		fmt.Printf("  %s: %.2f (%s, %d%%)\n", arc.Title, arc.Score, arc.Stage.Label, arc.ProgressPercent)
	}

	overview, err := w.MilestoneProgress()
	if err != nil {
		log.Fatalf("Failed to evaluate milestones: %v", err)
	}
	fmt.Println("\nMilestones:")
	for _, m := range overview {
		fmt.Printf("  %s: %d/%d objectives (%.0f%%)\n", m.Milestone.Title, m.CompletedCount, len(m.Objectives), m.Completion*100)
	}
}
