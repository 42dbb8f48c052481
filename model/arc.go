package model

// ArcStageID identifies a character arc stage.
type ArcStageID string

const (
	ArcStageSpark          ArcStageID = "spark"
	ArcStageRising         ArcStageID = "rising"
	ArcStageCrisis         ArcStageID = "crisis"
	ArcStageTransformation ArcStageID = "transformation"
	ArcStageLegacy         ArcStageID = "legacy"
)

// ArcStage is one threshold of the arc stage table.
type ArcStage struct {
	ID             ArcStageID `json:"id"`
	Label          string     `json:"label"`
	MinScore       float64    `json:"min_score"`
	Recommendation string     `json:"recommendation"`
}

// ArcMetrics are the raw inputs of an arc score.
type ArcMetrics struct {
	TraitCount       int `json:"trait_count"`
	BioWordCount     int `json:"bio_word_count"`
	SummaryWordCount int `json:"summary_word_count"`
	NarrativeLinks   int `json:"narrative_links"`
	TimelineLinks    int `json:"timeline_links"`
	QuestLinks       int `json:"quest_links"`
}

// CharacterArc is the derived arc state of one Character artifact.
type CharacterArc struct {
	ArtifactID      string     `json:"artifact_id"`
	Title           string     `json:"title"`
	Status          string     `json:"status"`
	Score           float64    `json:"score"`
	Stage           ArcStage   `json:"stage"`
	NextStage       *ArcStage  `json:"next_stage,omitempty"`
	ProgressRatio   float64    `json:"progress_ratio"`
	ProgressPercent int        `json:"progress_percent"`
	Metrics         ArcMetrics `json:"metrics"`
	Suggestions     []string   `json:"suggestions"`
}
