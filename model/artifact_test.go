package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArtifactType(t *testing.T) {
	t.Run("Matches case-insensitively", func(t *testing.T) {
		at, ok := ParseArtifactType("  magicsystem ")
		require.True(t, ok)
		assert.Equal(t, ArtifactTypeMagicSystem, at)
	})

	t.Run("Rejects unknown types", func(t *testing.T) {
		_, ok := ParseArtifactType("Spaceship")
		assert.False(t, ok)
	})
}

func TestArtifactTypeGroups(t *testing.T) {
	for _, at := range []ArtifactType{ArtifactTypeStory, ArtifactTypeNovel, ArtifactTypeChapter, ArtifactTypeScene} {
		assert.True(t, at.IsNarrative(), "Expected %s to be narrative", at)
	}
	assert.False(t, ArtifactTypeCharacter.IsNarrative())
	assert.False(t, ArtifactTypeTimeline.IsNarrative())

	assert.True(t, ArtifactTypeTask.IsQuest())
	assert.True(t, ArtifactTypeGameModule.IsQuest())
	assert.False(t, ArtifactTypeScene.IsQuest())
}

func TestArtifactClone(t *testing.T) {
	original := &Artifact{
		ID:        "a1",
		Tags:      []string{"hero"},
		Relations: Relations{{ToID: "a2", Kind: RelationKindRelatesTo}},
		Data:      Metadata{"bio": "x"},
	}

	clone := original.Clone()
	clone.Tags[0] = "villain"
	clone.Relations[0].Kind = RelationKindParentOf
	clone.Data["bio"] = "y"

	assert.Equal(t, "hero", original.Tags[0])
	assert.Equal(t, RelationKindRelatesTo, original.Relations[0].Kind)
	assert.Equal(t, "x", original.Data["bio"])

	var missing *Artifact
	assert.Nil(t, missing.Clone())
}

func TestArtifactApply(t *testing.T) {
	original := &Artifact{
		ID:        "a1",
		Title:     "Mira",
		Status:    "draft",
		Tags:      []string{"hero"},
		Relations: Relations{{ToID: "a2", Kind: RelationKindRelatesTo}},
	}

	t.Run("Apply returns a new artifact and leaves the original untouched", func(t *testing.T) {
		title := "Mira Vale"
		updated := original.Apply(ArtifactPatch{
			Title:     &title,
			Tags:      []string{"Hero", "hero", " ", "pilot"},
			Relations: Relations{},
		})

		assert.Equal(t, "Mira Vale", updated.Title)
		assert.Equal(t, []string{"Hero", "pilot"}, updated.Tags)
		assert.Empty(t, updated.Relations)
		assert.NotNil(t, updated.Relations, "Expected cleared relations to be an empty list")
		assert.Equal(t, "draft", updated.Status)

		assert.Equal(t, "Mira", original.Title)
		assert.Len(t, original.Relations, 1)
	})

	t.Run("Empty patch", func(t *testing.T) {
		assert.True(t, ArtifactPatch{}.IsEmpty())
		assert.False(t, ArtifactPatch{Relations: Relations{}}.IsEmpty())
	})
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, "In Progress", NormalizeStatus("in_progress"))
	assert.Equal(t, "Final Draft", NormalizeStatus("  FINAL-draft "))
	assert.Equal(t, "", NormalizeStatus("   "))
	assert.Equal(t, "Idea", (&Artifact{Status: "idea"}).StatusLabel())
}
