package graph

import (
	"context"
	"testing"

	"github.com/siherrmann/worldgraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRelation(t *testing.T) {
	ctx := context.Background()

	t.Run("Parent relation creates a child reciprocal", func(t *testing.T) {
		snap, store, engine := fixture(
			artifact("a1", model.ArtifactTypeCharacter),
			artifact("a2", model.ArtifactTypeCharacter),
		)

		err := engine.AddRelation(ctx, snap, "a1", "a2", "PARENT_OF")
		require.NoError(t, err)

		assert.Equal(t, model.Relations{{ToID: "a2", Kind: "PARENT_OF"}}, relationsOf(snap, "a1"))
		assert.Equal(t, model.Relations{{ToID: "a1", Kind: "CHILD_OF"}}, relationsOf(snap, "a2"))
		assert.Equal(t, []string{"a1", "a2"}, store.updates)
	})

	t.Run("Self relation keeps its kind and is idempotent", func(t *testing.T) {
		snap, store, engine := fixture(artifact("a1", model.ArtifactTypeCharacter))

		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "a1", "PARENT_OF"))
		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "a1", "PARENT_OF"))

		assert.Equal(t, model.Relations{{ToID: "a1", Kind: "PARENT_OF"}}, relationsOf(snap, "a1"))
		assert.Equal(t, []string{"a1"}, store.updates, "Expected a single write for a repeated self relation")
	})

	t.Run("Cross project target stays external", func(t *testing.T) {
		local := artifact("a1", model.ArtifactTypeCharacter)
		other := artifact("x1", model.ArtifactTypeLocation)
		other.ProjectID = "p2"
		store := NewMockStore(local, other)
		snap := NewSnapshot([]*model.Artifact{local}).WithExternal([]*model.Artifact{other})
		engine := NewEngine(store, nil)

		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "x1", "LOCATED_IN"))

		assert.Equal(t, model.Relations{{ToID: "a1", Kind: Reciprocate("LOCATED_IN")}}, relationsOf(snap, "x1"))
		assert.True(t, snap.IsExternal("x1"))
		assert.Equal(t, 1, snap.Len())
	})

	t.Run("Kind is normalized before storing", func(t *testing.T) {
		snap, _, engine := fixture(
			artifact("a1", model.ArtifactTypeCharacter),
			artifact("a2", model.ArtifactTypeScene),
		)

		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "a2", "  appears_in "))

		assert.Equal(t, "APPEARS_IN", relationsOf(snap, "a1")[0].Kind)
		assert.Equal(t, "APPEARS_IN", relationsOf(snap, "a2")[0].Kind, "Expected unlisted kinds to mirror unchanged")
	})

	t.Run("Blank kind falls back to RELATES_TO", func(t *testing.T) {
		snap, _, engine := fixture(
			artifact("a1", model.ArtifactTypeWiki),
			artifact("a2", model.ArtifactTypeWiki),
		)

		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "a2", " "))

		assert.Equal(t, model.RelationKindRelatesTo, relationsOf(snap, "a1")[0].Kind)
	})

	t.Run("Calling twice persists only once", func(t *testing.T) {
		snap, store, engine := fixture(
			artifact("a1", model.ArtifactTypeWiki),
			artifact("a2", model.ArtifactTypeWiki),
		)

		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "a2", "RELATES_TO"))
		first1, first2 := relationsOf(snap, "a1"), relationsOf(snap, "a2")
		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "a2", "RELATES_TO"))

		assert.Equal(t, first1, relationsOf(snap, "a1"))
		assert.Equal(t, first2, relationsOf(snap, "a2"))
		assert.Len(t, store.updates, 2, "Expected the second call to issue no writes")
	})

	t.Run("Different kind replaces the entry in place", func(t *testing.T) {
		snap, _, engine := fixture(
			artifact("a1", model.ArtifactTypeCharacter,
				model.Relation{ToID: "x", Kind: "RELATES_TO"},
				model.Relation{ToID: "a2", Kind: "RELATES_TO"},
				model.Relation{ToID: "y", Kind: "RELATES_TO"},
			),
			artifact("a2", model.ArtifactTypeCharacter, model.Relation{ToID: "a1", Kind: "RELATES_TO"}),
		)

		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "a2", "parent_of"))

		rels := relationsOf(snap, "a1")
		require.Len(t, rels, 3)
		assert.Equal(t, model.Relation{ToID: "a2", Kind: "PARENT_OF"}, rels[1])
		assert.Equal(t, model.Relations{{ToID: "a1", Kind: "CHILD_OF"}}, relationsOf(snap, "a2"))
	})

	t.Run("Symmetric kinds mirror themselves", func(t *testing.T) {
		for _, kind := range []string{"SIBLING_OF", "PARTNER_OF", "MARRIED_TO", "SPOUSE_OF"} {
			snap, _, engine := fixture(
				artifact("a1", model.ArtifactTypeCharacter),
				artifact("a2", model.ArtifactTypeCharacter),
			)
			require.NoError(t, engine.AddRelation(ctx, snap, "a1", "a2", kind))
			assert.Equal(t, kind, relationsOf(snap, "a2")[0].Kind)
		}
	})

	t.Run("Variant relations have no reciprocal", func(t *testing.T) {
		snap, store, engine := fixture(
			artifact("a1", model.ArtifactTypeCharacter),
			artifact("cat", model.ArtifactTypeProductCatalog),
		)

		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "cat", "OWNS", WithVariant("blue")))
		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "cat", "OWNS", WithVariant("red")))

		assert.Equal(t, model.Relations{
			{ToID: "cat", Kind: "OWNS", VariantID: "blue"},
			{ToID: "cat", Kind: "OWNS", VariantID: "red"},
		}, relationsOf(snap, "a1"))
		assert.Empty(t, relationsOf(snap, "cat"))
		assert.Equal(t, []string{"a1", "a1"}, store.updates)
	})

	t.Run("Variant and plain relations to the same target coexist", func(t *testing.T) {
		snap, _, engine := fixture(
			artifact("a1", model.ArtifactTypeCharacter),
			artifact("cat", model.ArtifactTypeProductCatalog),
		)

		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "cat", "OWNS", WithVariant("blue")))
		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "cat", "RELATES_TO"))

		assert.Len(t, relationsOf(snap, "a1"), 2)
		assert.Equal(t, model.Relations{{ToID: "a1", Kind: "RELATES_TO"}}, relationsOf(snap, "cat"))
	})

	t.Run("Unknown ids are a silent no-op", func(t *testing.T) {
		snap, store, engine := fixture(artifact("a1", model.ArtifactTypeCharacter))

		assert.NoError(t, engine.AddRelation(ctx, snap, "a1", "ghost", "RELATES_TO"))
		assert.NoError(t, engine.AddRelation(ctx, snap, "ghost", "a1", "RELATES_TO"))

		assert.Empty(t, relationsOf(snap, "a1"))
		assert.Empty(t, store.updates)
	})

	t.Run("Input artifacts are never mutated", func(t *testing.T) {
		a1 := artifact("a1", model.ArtifactTypeCharacter, model.Relation{ToID: "a2", Kind: "RELATES_TO"})
		a2 := artifact("a2", model.ArtifactTypeCharacter)
		snap, _, engine := fixture(a1, a2)

		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "a2", "PARENT_OF"))

		assert.Equal(t, "RELATES_TO", a1.Relations[0].Kind)
		assert.Empty(t, a2.Relations)
	})

	t.Run("Async store results are applied to the snapshot", func(t *testing.T) {
		snap, store, engine := fixture(
			artifact("a1", model.ArtifactTypeCharacter),
			artifact("a2", model.ArtifactTypeCharacter),
		)
		store.async = true

		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "a2", "PARENT_OF"))
		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "a2", "PARENT_OF"))

		assert.Len(t, relationsOf(snap, "a1"), 1)
		assert.Len(t, store.updates, 2)
	})

	t.Run("Store errors are returned", func(t *testing.T) {
		snap, store, engine := fixture(
			artifact("a1", model.ArtifactTypeCharacter),
			artifact("a2", model.ArtifactTypeCharacter),
		)
		store.err = assert.AnError

		err := engine.AddRelation(ctx, snap, "a1", "a2", "PARENT_OF")
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Empty(t, relationsOf(snap, "a1"))
	})
}

func TestRemoveRelation(t *testing.T) {
	ctx := context.Background()

	t.Run("Removes the edge and its reciprocal", func(t *testing.T) {
		snap, _, engine := fixture(
			artifact("a1", model.ArtifactTypeCharacter),
			artifact("a2", model.ArtifactTypeCharacter),
		)
		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "a2", "PARENT_OF"))

		require.NoError(t, engine.RemoveRelation(ctx, snap, "a1", 0))

		assert.Empty(t, relationsOf(snap, "a1"))
		assert.Empty(t, relationsOf(snap, "a2"))
		assert.NotNil(t, relationsOf(snap, "a1"), "Expected an empty, non-nil relation list")
	})

	t.Run("Removes every back edge on the target", func(t *testing.T) {
		snap, store, engine := fixture(
			artifact("a1", model.ArtifactTypeCharacter, model.Relation{ToID: "a2", Kind: "RELATES_TO"}),
			artifact("a2", model.ArtifactTypeProductCatalog,
				model.Relation{ToID: "a1", Kind: "RELATES_TO"},
				model.Relation{ToID: "z", Kind: "RELATES_TO"},
				model.Relation{ToID: "a1", Kind: "OWNS", VariantID: "v"},
			),
		)

		require.NoError(t, engine.RemoveRelation(ctx, snap, "a1", 0))

		assert.Equal(t, model.Relations{{ToID: "z", Kind: "RELATES_TO"}}, relationsOf(snap, "a2"))
		assert.Equal(t, []string{"a1", "a2"}, store.updates)
	})

	t.Run("Target without back edges is not persisted", func(t *testing.T) {
		snap, store, engine := fixture(
			artifact("a1", model.ArtifactTypeCharacter, model.Relation{ToID: "a2", Kind: "OWNS", VariantID: "v"}),
			artifact("a2", model.ArtifactTypeProductCatalog),
		)

		require.NoError(t, engine.RemoveRelation(ctx, snap, "a1", 0))

		assert.Equal(t, []string{"a1"}, store.updates)
	})

	t.Run("Dangling target is tolerated", func(t *testing.T) {
		snap, store, engine := fixture(
			artifact("a1", model.ArtifactTypeCharacter, model.Relation{ToID: "deleted", Kind: "RELATES_TO"}),
		)

		require.NoError(t, engine.RemoveRelation(ctx, snap, "a1", 0))

		assert.Empty(t, relationsOf(snap, "a1"))
		assert.Equal(t, []string{"a1"}, store.updates)
	})

	t.Run("Removing an already removed index is a no-op", func(t *testing.T) {
		snap, store, engine := fixture(
			artifact("a1", model.ArtifactTypeCharacter),
			artifact("a2", model.ArtifactTypeCharacter),
		)
		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "a2", "PARENT_OF"))
		require.NoError(t, engine.RemoveRelation(ctx, snap, "a1", 0))
		writes := len(store.updates)
		before1, before2 := relationsOf(snap, "a1"), relationsOf(snap, "a2")

		assert.NotPanics(t, func() {
			assert.NoError(t, engine.RemoveRelation(ctx, snap, "a1", 0))
			assert.NoError(t, engine.RemoveRelation(ctx, snap, "a1", -1))
			assert.NoError(t, engine.RemoveRelation(ctx, snap, "ghost", 0))
		})

		assert.Len(t, store.updates, writes)
		assert.Equal(t, before1, relationsOf(snap, "a1"))
		assert.Equal(t, before2, relationsOf(snap, "a2"))
	})
}

func TestDeleteArtifact(t *testing.T) {
	ctx := context.Background()

	t.Run("Deleting scrubs every reference", func(t *testing.T) {
		snap, store, engine := fixture(
			artifact("a1", model.ArtifactTypeCharacter),
			artifact("a2", model.ArtifactTypeCharacter),
			artifact("a3", model.ArtifactTypeLocation, model.Relation{ToID: "a4", Kind: "RELATES_TO"}),
		)
		require.NoError(t, engine.AddRelation(ctx, snap, "a1", "a2", "PARENT_OF"))
		require.NoError(t, engine.AddRelation(ctx, snap, "a3", "a2", "RELATES_TO"))

		scrubbed, err := engine.DeleteArtifact(ctx, snap, "a2")
		require.NoError(t, err)

		assert.Equal(t, 2, scrubbed)
		assert.Equal(t, []string{"a2"}, store.deletes)
		_, ok := snap.Resolve("a2")
		assert.False(t, ok)
		assert.Empty(t, relationsOf(snap, "a1"))
		assert.Equal(t, model.Relations{{ToID: "a4", Kind: "RELATES_TO"}}, relationsOf(snap, "a3"))
	})

	t.Run("Artifacts outside the project are not deleted", func(t *testing.T) {
		local := artifact("a1", model.ArtifactTypeCharacter, model.Relation{ToID: "x1", Kind: "RELATES_TO"})
		other := artifact("x1", model.ArtifactTypeLocation)
		other.ProjectID = "p2"
		store := NewMockStore(local, other)
		snap := NewSnapshot([]*model.Artifact{local}).WithExternal([]*model.Artifact{other})
		engine := NewEngine(store, nil)

		scrubbed, err := engine.DeleteArtifact(ctx, snap, "x1")
		require.NoError(t, err)

		assert.Equal(t, 0, scrubbed)
		assert.Empty(t, store.deletes)
		assert.True(t, snap.IsExternal("x1"))
		assert.Len(t, relationsOf(snap, "a1"), 1)

		scrubbed, err = engine.DeleteArtifact(ctx, snap, "ghost")
		require.NoError(t, err)
		assert.Equal(t, 0, scrubbed)
		assert.Empty(t, store.deletes)
	})

	t.Run("Store failure aborts before scrubbing", func(t *testing.T) {
		snap, store, engine := fixture(
			artifact("a1", model.ArtifactTypeCharacter, model.Relation{ToID: "a2", Kind: "RELATES_TO"}),
			artifact("a2", model.ArtifactTypeCharacter),
		)
		store.err = assert.AnError

		_, err := engine.DeleteArtifact(ctx, snap, "a2")
		require.Error(t, err)
		assert.Len(t, relationsOf(snap, "a1"), 1)
	})
}

func TestReciprocityInvariant(t *testing.T) {
	ctx := context.Background()
	kinds := []string{"RELATES_TO", "PARENT_OF", "CHILD_OF", "SIBLING_OF", "APPEARS_IN", "member_of", "SPOUSE_OF"}

	snap, _, engine := fixture(
		artifact("a", model.ArtifactTypeCharacter),
		artifact("b", model.ArtifactTypeCharacter),
		artifact("c", model.ArtifactTypeFaction),
	)

	for _, kind := range kinds {
		for _, pair := range [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}} {
			require.NoError(t, engine.AddRelation(ctx, snap, pair[0], pair[1], kind))

			target := relationsOf(snap, pair[1])
			i := target.IndexOf(pair[0], "")
			require.GreaterOrEqual(t, i, 0, "Expected reciprocal on %s for %s", pair[1], kind)
			assert.Equal(t, Reciprocate(kind), target[i].Kind)
		}
	}
}
