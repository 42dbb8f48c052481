package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/siherrmann/worldgraph"
	"github.com/siherrmann/worldgraph/helper"
	"github.com/siherrmann/worldgraph/model"
	"github.com/siherrmann/worldgraph/workspace"
	"github.com/spf13/cobra"
)

var version = "dev"

// workspaceEnv overrides the default workspace path.
const workspaceEnv = "WORLDGRAPH_WORKSPACE"

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by all commands of one invocation.
type app struct {
	verbose       bool
	workspacePath string
	logOut        io.Writer
	graph         *worldgraph.Worldgraph
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	a := &app{logOut: logOut}

	rootCmd := &cobra.Command{
		Use:          "worldgraph",
		Short:        "Relation graph and progress scoring for worldbuilding projects",
		Long:         "worldgraph keeps the artifacts of a worldbuilding project in a workspace file, maintains reciprocal relations between them and scores milestones and character arcs.",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip workspace loading for init and version
			if cmd.Name() == "init" || cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}

			store, err := workspace.Open(a.path())
			if err != nil {
				return fmt.Errorf("opening workspace: %w", err)
			}
			a.graph = worldgraph.NewWorkspaceWorldgraph(store, a.logger())
			return nil
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&a.workspacePath, "workspace", "w", "", "Path to the workspace file or directory (env "+workspaceEnv+")")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newInitCmd(a))
	rootCmd.AddCommand(newAddCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newShowCmd(a))
	rootCmd.AddCommand(newRelateCmd(a))
	rootCmd.AddCommand(newUnrelateCmd(a))
	rootCmd.AddCommand(newDeleteCmd(a))
	rootCmd.AddCommand(newTraverseCmd(a))
	rootCmd.AddCommand(newMarkCmd(a))
	rootCmd.AddCommand(newMilestonesCmd(a))
	rootCmd.AddCommand(newArcsCmd(a))
	rootCmd.AddCommand(newStatsCmd(a))

	return rootCmd
}

func (a *app) path() string {
	if a.workspacePath != "" {
		return a.workspacePath
	}
	if env := os.Getenv(workspaceEnv); env != "" {
		return env
	}
	return workspace.DefaultFileName
}

func (a *app) logger() *slog.Logger {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	return helper.NewLogger(a.logOut, level)
}

// resolve finds an artifact by id, unique id prefix or case-insensitive title.
func (a *app) resolve(ref string) (*model.Artifact, error) {
	if artifact, ok := a.graph.Artifact(ref); ok {
		return artifact, nil
	}

	var matches []*model.Artifact
	for _, artifact := range a.graph.ProjectArtifacts() {
		if strings.HasPrefix(artifact.ID, ref) || strings.EqualFold(artifact.Title, ref) {
			matches = append(matches, artifact)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no artifact matches %q", ref)
	case 1:
		return matches[0], nil
	}
	return nil, fmt.Errorf("%q matches %d artifacts, use a longer id", ref, len(matches))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "worldgraph", version)
		},
	}
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init [title]",
		Short: "Create a new workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := "Untitled World"
			if len(args) == 1 {
				title = args[0]
			}

			store, err := workspace.Create(a.path(), title)
			if err != nil {
				return err
			}

			project := store.Project()
			fmt.Fprintf(cmd.OutOrStdout(), "Created workspace: %s\n", store.Path())
			fmt.Fprintf(cmd.OutOrStdout(), "Project: %s (%s)\n", project.Title, project.ID)
			return nil
		},
	}
}

func newMarkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mark <flag>",
		Short: "Record that a feature was used, e.g. viewed_graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flag, ok := model.ParseActivityFlag(args[0])
			if !ok {
				names := make([]string, 0, len(model.ActivityFlags))
				for _, f := range model.ActivityFlags {
					names = append(names, string(f))
				}
				return fmt.Errorf("unknown activity %q, expected one of %s", args[0], strings.Join(names, ", "))
			}

			changed, err := a.graph.MarkActivity(cmd.Context(), flag)
			if err != nil {
				return err
			}
			if changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %s\n", flag)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Already marked %s\n", flag)
			}
			return nil
		},
	}
}
