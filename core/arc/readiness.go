package arc

import (
	"math"

	"github.com/siherrmann/worldgraph/model"
)

// ReadinessSummary aggregates the arcs of a cast.
type ReadinessSummary struct {
	Characters   int                      `json:"characters"`
	AverageScore float64                  `json:"average_score"`
	StageCounts  map[model.ArcStageID]int `json:"stage_counts"`
	ClimaxShare  float64                  `json:"climax_share"` // share at Crisis or beyond
}

var climaxStages = map[model.ArcStageID]bool{
	model.ArcStageCrisis:         true,
	model.ArcStageTransformation: true,
	model.ArcStageLegacy:         true,
}

// Readiness summarizes how far the cast has progressed.
func Readiness(arcs []model.CharacterArc) ReadinessSummary {
	summary := ReadinessSummary{
		Characters:  len(arcs),
		StageCounts: map[model.ArcStageID]int{},
	}
	if len(arcs) == 0 {
		return summary
	}

	total := 0.0
	climax := 0
	for _, a := range arcs {
		total += a.Score
		summary.StageCounts[a.Stage.ID]++
		if climaxStages[a.Stage.ID] {
			climax++
		}
	}
	summary.AverageScore = math.Round(total/float64(len(arcs))*100) / 100
	summary.ClimaxShare = float64(climax) / float64(len(arcs))
	return summary
}
