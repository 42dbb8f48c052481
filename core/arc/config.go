package arc

import "github.com/siherrmann/worldgraph/model"

// Weights configures how arc inputs contribute to the score.
type Weights struct {
	Trait         float64
	BioWordsPer   float64 // words per point of biography
	BioMax        float64
	SummaryPer    float64 // words per point of summary
	SummaryMax    float64
	NarrativeLink float64
	TimelineLink  float64
	QuestLink     float64
}

// DefaultWeights returns the standard arc weights.
func DefaultWeights() Weights {
	return Weights{
		Trait:         1.25,
		BioWordsPer:   80,
		BioMax:        3,
		SummaryPer:    60,
		SummaryMax:    2,
		NarrativeLink: 1.8,
		TimelineLink:  1.5,
		QuestLink:     0.75,
	}
}

// DefaultStages returns the stage table ordered by ascending threshold.
func DefaultStages() []model.ArcStage {
	return []model.ArcStage{
		{
			ID:             model.ArcStageSpark,
			Label:          "Spark",
			MinScore:       0,
			Recommendation: "Outline the character's core desire and the first scene that tests it.",
		},
		{
			ID:             model.ArcStageRising,
			Label:          "Rising Stakes",
			MinScore:       3.5,
			Recommendation: "Raise the stakes by tying the character to a conflict in a new scene.",
		},
		{
			ID:             model.ArcStageCrisis,
			Label:          "Crisis",
			MinScore:       7,
			Recommendation: "Stage the crisis: force a choice that costs the character something real.",
		},
		{
			ID:             model.ArcStageTransformation,
			Label:          "Transformation",
			MinScore:       10.5,
			Recommendation: "Show how the crisis changed them through actions in later chapters.",
		},
		{
			ID:             model.ArcStageLegacy,
			Label:          "Legacy",
			MinScore:       14,
			Recommendation: "Capture the character's legacy and how the world remembers them.",
		},
	}
}

// statusTerms maps status keywords to score terms, first match wins.
var statusTerms = []struct {
	keywords []string
	score    float64
}{
	{[]string{"final", "complete", "publish"}, 3.5},
	{[]string{"revise", "edit", "polish"}, 2.75},
	{[]string{"progress", "draft"}, 2},
	{[]string{"idea", "concept"}, 1},
}

const (
	statusOtherScore = 1.25
	statusEmptyScore = 0.5

	maxSuggestions = 3
)

const (
	suggestNarrative = "Link the character to more scenes or chapters to show them in action."
	suggestTimeline  = "Anchor a timeline beat so the arc has a place in history."
	suggestTraits    = "Document at least three traits to sharpen their voice."
	suggestBio       = "Expand the biography with formative events and motives."
	suggestSummary   = "Refresh the summary so collaborators grasp the arc at a glance."
)
