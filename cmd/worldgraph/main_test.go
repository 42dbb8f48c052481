package main

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/siherrmann/worldgraph/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCmd(io.Discard)
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--workspace", path}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, path string, args ...string) string {
	t.Helper()
	out, err := run(t, path, args...)
	require.NoError(t, err, "Expected %v to succeed", args)
	return out
}

func newWorkspace(t *testing.T) string {
	path := filepath.Join(t.TempDir(), workspace.DefaultFileName)
	mustRun(t, path, "init", "Aeloria")
	return path
}

func TestInitCmd(t *testing.T) {
	t.Run("Creates a workspace once", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), workspace.DefaultFileName)

		out := mustRun(t, path, "init", "Aeloria")
		assert.Contains(t, out, "Project: Aeloria")

		_, err := run(t, path, "init")
		assert.Error(t, err, "Expected init to refuse overwriting a workspace")
	})

	t.Run("Workspace path falls back to the environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "env.yaml")
		t.Setenv(workspaceEnv, path)

		a := &app{}
		assert.Equal(t, path, a.path())
		a.workspacePath = "flag.yaml"
		assert.Equal(t, "flag.yaml", a.path())
	})

	t.Run("Missing workspace fails", func(t *testing.T) {
		_, err := run(t, filepath.Join(t.TempDir(), "missing.yaml"), "list")
		assert.Error(t, err)
	})
}

func TestArtifactCmds(t *testing.T) {
	t.Run("Add, relate and show", func(t *testing.T) {
		path := newWorkspace(t)

		mustRun(t, path, "add", "character", "Aria", "--status", "draft")
		mustRun(t, path, "add", "Character", "Bran")

		out := mustRun(t, path, "relate", "aria", "bran", "parent_of")
		assert.Contains(t, out, "Aria -[PARENT_OF]-> Bran")
		assert.Contains(t, out, "Bran -[CHILD_OF]-> Aria")

		out = mustRun(t, path, "show", "Bran")
		assert.Contains(t, out, "[0] CHILD_OF -> Aria")
		assert.Contains(t, out, "PARENT_OF <- Aria")

		out = mustRun(t, path, "list", "--type", "character")
		assert.Equal(t, 3, strings.Count(out, "\n"), "Expected a header and two rows")
	})

	t.Run("Unknown type is rejected", func(t *testing.T) {
		path := newWorkspace(t)
		_, err := run(t, path, "add", "Spaceship", "Nova")
		assert.Error(t, err)
	})

	t.Run("Variant relations have no reciprocal", func(t *testing.T) {
		path := newWorkspace(t)
		mustRun(t, path, "add", "Character", "Mage")
		mustRun(t, path, "add", "MagicSystem", "Runes")

		out := mustRun(t, path, "relate", "Mage", "Runes", "wields", "--variant", "fire")
		assert.NotContains(t, out, "Runes -[")

		out = mustRun(t, path, "show", "Mage")
		assert.Contains(t, out, "WIELDS -> Runes #fire")
	})

	t.Run("Unrelate and delete clean up both sides", func(t *testing.T) {
		path := newWorkspace(t)
		mustRun(t, path, "add", "Faction", "Guild")
		mustRun(t, path, "add", "Faction", "Crown")
		mustRun(t, path, "add", "Location", "Harbor")
		mustRun(t, path, "relate", "Guild", "Crown", "rivals")
		mustRun(t, path, "relate", "Guild", "Harbor")

		_, err := run(t, path, "unrelate", "Guild", "5")
		assert.Error(t, err)

		out := mustRun(t, path, "unrelate", "Guild", "0")
		assert.Contains(t, out, "Removed RIVALS -> Crown")
		assert.NotContains(t, mustRun(t, path, "show", "Crown"), "RIVALS")

		out = mustRun(t, path, "delete", "Harbor")
		assert.Contains(t, out, "cleaned relations on 1 artifacts")
		assert.NotContains(t, mustRun(t, path, "show", "Guild"), "Harbor")
	})

	t.Run("Traverse prints hops", func(t *testing.T) {
		path := newWorkspace(t)
		mustRun(t, path, "add", "Story", "Saga")
		mustRun(t, path, "add", "Chapter", "Dawn")
		mustRun(t, path, "relate", "Saga", "Dawn", "parent_of")

		out := mustRun(t, path, "traverse", "Saga", "--hops", "1")
		assert.Equal(t, "Saga\n  Dawn (PARENT_OF)\n", out)
	})

	t.Run("Traverse depth first prints branches in order", func(t *testing.T) {
		path := newWorkspace(t)
		mustRun(t, path, "add", "Story", "Saga")
		mustRun(t, path, "add", "Chapter", "Dawn")
		mustRun(t, path, "add", "Chapter", "Dusk")
		mustRun(t, path, "add", "Scene", "Ambush")
		mustRun(t, path, "relate", "Saga", "Dawn", "parent_of")
		mustRun(t, path, "relate", "Saga", "Dusk", "parent_of")
		mustRun(t, path, "relate", "Dawn", "Ambush", "parent_of")

		out := mustRun(t, path, "traverse", "Saga", "--depth-first")
		assert.Equal(t, "Saga\n  Dawn (PARENT_OF)\n    Ambush (PARENT_OF)\n  Dusk (PARENT_OF)\n", out)

		out = mustRun(t, path, "traverse", "Saga")
		assert.Equal(t, "Saga\n  Dawn (PARENT_OF)\n  Dusk (PARENT_OF)\n    Ambush (PARENT_OF)\n", out)
	})
}

func TestReportCmds(t *testing.T) {
	t.Run("Mark updates milestones", func(t *testing.T) {
		path := newWorkspace(t)

		out := mustRun(t, path, "mark", "imported-csv")
		assert.Contains(t, out, "Marked imported_csv")
		out = mustRun(t, path, "mark", "imported_csv")
		assert.Contains(t, out, "Already marked")

		_, err := run(t, path, "mark", "teleported")
		assert.Error(t, err)

		out = mustRun(t, path, "milestones")
		assert.Contains(t, out, "Import ✓ · Export —")
	})

	t.Run("Arcs lists characters with readiness", func(t *testing.T) {
		path := newWorkspace(t)
		mustRun(t, path, "add", "Character", "Aria", "--status", "final")

		out := mustRun(t, path, "arcs", "--suggestions")
		assert.Contains(t, out, "Aria")
		assert.Contains(t, out, "3.50")
		assert.Contains(t, out, "Rising Stakes")
		assert.Contains(t, out, "Characters: 1")
	})

	t.Run("Stats summarizes the world", func(t *testing.T) {
		path := newWorkspace(t)
		mustRun(t, path, "add", "Faction", "Guild")

		out := mustRun(t, path, "stats")
		assert.Contains(t, out, "Factions:   1 factions, 0 linked")
	})
}
