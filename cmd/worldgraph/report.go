package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/siherrmann/worldgraph/model"
	"github.com/spf13/cobra"
)

var statusColors = map[model.ObjectiveStatus]*color.Color{
	model.ObjectiveComplete:   color.New(color.FgGreen),
	model.ObjectiveInProgress: color.New(color.FgYellow),
	model.ObjectiveNotStarted: color.New(color.FgHiBlack),
}

var statusMarks = map[model.ObjectiveStatus]string{
	model.ObjectiveComplete:   "[x]",
	model.ObjectiveInProgress: "[~]",
	model.ObjectiveNotStarted: "[ ]",
}

func newMilestonesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "milestones",
		Short: "Show roadmap progress of the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overview, err := a.graph.MilestoneProgress()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, m := range overview {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s (%s) %d/%d %3.0f%%\n", m.Milestone.Title, m.Milestone.Timeline, m.CompletedCount, len(m.Objectives), m.Completion*100)
				for _, o := range m.Objectives {
					mark := statusColors[o.Status].Sprint(statusMarks[o.Status])
					fmt.Fprintf(out, "  %s %s\n", mark, o.Objective.Description)
					fmt.Fprintf(out, "      %s\n", o.Detail)
				}
			}
			return nil
		},
	}
}

func newArcsCmd(a *app) *cobra.Command {
	var showSuggestions bool

	cmd := &cobra.Command{
		Use:   "arcs",
		Short: "Score the character arcs of the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			arcs, err := a.graph.CharacterArcs()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CHARACTER\tSCORE\tSTAGE\tPROGRESS\tNEXT")
			for _, c := range arcs {
				next := "-"
				if c.NextStage != nil {
					next = c.NextStage.Label
				}
				fmt.Fprintf(tw, "%s\t%.2f\t%s\t%d%%\t%s\n", c.Title, c.Score, c.Stage.Label, c.ProgressPercent, next)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if showSuggestions {
				for _, c := range arcs {
					if len(c.Suggestions) == 0 {
						continue
					}
					fmt.Fprintf(out, "\n%s:\n", c.Title)
					for _, s := range c.Suggestions {
						fmt.Fprintf(out, "  - %s\n", s)
					}
				}
			}

			readiness, err := a.graph.Readiness()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nCharacters: %d · Average score: %.2f · At climax: %.0f%%\n", readiness.Characters, readiness.AverageScore, readiness.ClimaxShare*100)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showSuggestions, "suggestions", "s", false, "Print suggestions per character")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize magic systems, timelines, factions and characters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.graph.WorldStats()
			if err != nil {
				return err
			}

			lines := []string{
				fmt.Sprintf("Codex:      %d codices, %d annotated, %d principles, %d constraints", stats.Codex.Codices, stats.Codex.Annotated, stats.Codex.Principles, stats.Codex.Constraints),
				fmt.Sprintf("World age:  %d timelines, %d/%d events dated, span %d years", stats.WorldAge.Timelines, stats.WorldAge.DatedEvents, stats.WorldAge.Events, stats.WorldAge.SpanYears),
				fmt.Sprintf("Factions:   %d factions, %d linked, %d cross relations", stats.Factions.Factions, stats.Factions.Linked, stats.Factions.CrossRelations),
				fmt.Sprintf("Characters: %d actors, %d anchored, %d bridges", stats.NPCMemory.Actors, stats.NPCMemory.Anchored, stats.NPCMemory.Bridges),
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
			return nil
		},
	}
}
