package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/siherrmann/worldgraph/core/graph"
	"github.com/siherrmann/worldgraph/model"
	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	var status, summary string
	var tags []string

	cmd := &cobra.Command{
		Use:   "add <type> <title>",
		Short: "Create an artifact, e.g. add Character \"Aria Vale\"",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			artifactType, ok := model.ParseArtifactType(args[0])
			if !ok {
				return fmt.Errorf("unknown artifact type %q", args[0])
			}

			artifact := &model.Artifact{
				Type:    artifactType,
				Title:   args[1],
				Status:  status,
				Summary: summary,
				Tags:    tags,
			}
			if err := a.graph.CreateArtifact(cmd.Context(), artifact); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %q (%s)\n", artifact.Type, artifact.Title, artifact.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Free-text status, e.g. draft")
	cmd.Flags().StringVar(&summary, "summary", "", "Short summary")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag, repeatable")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var typeFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the artifacts of the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter model.ArtifactType
			if typeFilter != "" {
				t, ok := model.ParseArtifactType(typeFilter)
				if !ok {
					return fmt.Errorf("unknown artifact type %q", typeFilter)
				}
				filter = t
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tTITLE\tSTATUS\tRELATIONS")
			for _, artifact := range a.graph.ProjectArtifacts() {
				if filter != "" && artifact.Type != filter {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", shortID(artifact.ID), artifact.Type, artifact.Title, artifact.StatusLabel(), len(artifact.Relations))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&typeFilter, "type", "t", "", "Only list artifacts of this type")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <artifact>",
		Short: "Show an artifact with its relations and backlinks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			artifact, err := a.resolve(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %q\n", artifact.Type, artifact.Title)
			fmt.Fprintf(out, "  ID: %s\n", artifact.ID)
			if artifact.Status != "" {
				fmt.Fprintf(out, "  Status: %s\n", artifact.StatusLabel())
			}
			if len(artifact.Tags) > 0 {
				fmt.Fprintf(out, "  Tags: %s\n", strings.Join(artifact.Tags, ", "))
			}

			fmt.Fprintln(out, "\nRelations:")
			for i, rel := range artifact.Relations {
				fmt.Fprintf(out, "  [%d] %s -> %s\n", i, rel.Kind, a.describe(rel.ToID, rel.VariantID))
			}

			fmt.Fprintln(out, "\nBacklinks:")
			for _, link := range a.graph.Backlinks(artifact.ID) {
				fmt.Fprintf(out, "  %s <- %s\n", link.Relation.Kind, link.From.Title)
			}
			return nil
		},
	}
}

// describe renders a relation target, marking dangling and external ids.
func (a *app) describe(id, variantID string) string {
	target, ok := a.graph.Artifact(id)
	label := shortID(id) + " (missing)"
	if ok {
		label = target.Title
		if target.ProjectID != a.graph.Project().ID {
			label += " (other project)"
		}
	}
	if variantID != "" {
		label += " #" + variantID
	}
	return label
}

func newRelateCmd(a *app) *cobra.Command {
	var variant string

	cmd := &cobra.Command{
		Use:   "relate <from> <to> [kind]",
		Short: "Link two artifacts, the reciprocal relation is added automatically",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			to, err := a.resolve(args[1])
			if err != nil {
				return err
			}
			kind := ""
			if len(args) == 3 {
				kind = args[2]
			}

			var opts []graph.RelationOption
			if variant != "" {
				opts = append(opts, graph.WithVariant(variant))
			}
			if err := a.graph.AddRelation(cmd.Context(), from.ID, to.ID, kind, opts...); err != nil {
				return err
			}

			kind = model.NormalizeRelationKind(kind)
			if kind == "" {
				kind = model.RelationKindRelatesTo
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -[%s]-> %s\n", from.Title, kind, to.Title)
			if variant == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -[%s]-> %s\n", to.Title, graph.Reciprocate(kind), from.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "", "Scope the relation to a variant of the target, no reciprocal is added")
	return cmd
}

func newUnrelateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unrelate <from> <index>",
		Short: "Remove a relation by its index as shown by show",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid relation index %q: %w", args[1], err)
			}
			if index < 0 || index >= len(from.Relations) {
				return fmt.Errorf("%s has no relation at index %d", from.Title, index)
			}

			removed := from.Relations[index]
			if err := a.graph.RemoveRelation(cmd.Context(), from.ID, index); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s -> %s\n", removed.Kind, a.describe(removed.ToID, removed.VariantID))
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <artifact>",
		Short: "Delete an artifact and every relation pointing at it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			artifact, err := a.resolve(args[0])
			if err != nil {
				return err
			}

			scrubbed, err := a.graph.DeleteArtifact(cmd.Context(), artifact.ID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q, cleaned relations on %d artifacts\n", artifact.Title, scrubbed)
			return nil
		},
	}
}

func newTraverseCmd(a *app) *cobra.Command {
	var hops int
	var kinds []string
	var depthFirst bool

	cmd := &cobra.Command{
		Use:   "traverse <artifact>",
		Short: "Walk relations breadth or depth first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			artifact, err := a.resolve(args[0])
			if err != nil {
				return err
			}

			walk := a.graph.Traverse
			if depthFirst {
				walk = a.graph.TraverseDepthFirst
			}

			for _, result := range walk(artifact.ID, hops, kinds...) {
				indent := strings.Repeat("  ", result.Distance)
				if result.Kind == "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", indent, result.Artifact.Title)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s (%s)\n", indent, result.Artifact.Title, result.Kind)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&hops, "hops", 2, "Maximum number of hops")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "Only follow these relation kinds")
	cmd.Flags().BoolVar(&depthFirst, "depth-first", false, "Follow each branch to the end before its siblings")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
