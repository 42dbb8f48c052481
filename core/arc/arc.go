// Package arc scores the narrative progress of Character artifacts and maps
// scores onto arc stages.
package arc

import (
	"math"
	"sort"
	"strings"

	"github.com/siherrmann/worldgraph/core/graph"
	"github.com/siherrmann/worldgraph/helper"
	"github.com/siherrmann/worldgraph/model"
)

// Scorer evaluates character arcs with a fixed stage table and weights.
type Scorer struct {
	stages  []model.ArcStage
	weights Weights
}

// NewScorer creates a scorer. Stages are sorted by threshold; an empty table
// falls back to DefaultStages.
func NewScorer(stages []model.ArcStage, weights Weights) *Scorer {
	if len(stages) == 0 {
		stages = DefaultStages()
	}
	sorted := make([]model.ArcStage, len(stages))
	copy(sorted, stages)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinScore < sorted[j].MinScore })

	return &Scorer{stages: sorted, weights: weights}
}

// Evaluate scores every Character artifact with the default table and weights.
func Evaluate(artifacts []*model.Artifact, lookup graph.Lookup) []model.CharacterArc {
	return NewScorer(DefaultStages(), DefaultWeights()).Evaluate(artifacts, lookup)
}

// Evaluate scores every Character artifact, sorted by score descending.
// Ties are ordered by title and id. Relations are resolved through lookup.
func (s *Scorer) Evaluate(artifacts []*model.Artifact, lookup graph.Lookup) []model.CharacterArc {
	arcs := []model.CharacterArc{}
	for _, a := range artifacts {
		if a == nil || a.Type != model.ArtifactTypeCharacter {
			continue
		}
		arcs = append(arcs, s.Character(a, lookup))
	}

	sort.SliceStable(arcs, func(i, j int) bool {
		if arcs[i].Score != arcs[j].Score {
			return arcs[i].Score > arcs[j].Score
		}
		if arcs[i].Title != arcs[j].Title {
			return arcs[i].Title < arcs[j].Title
		}
		return arcs[i].ArtifactID < arcs[j].ArtifactID
	})
	return arcs
}

// Character scores a single character.
func (s *Scorer) Character(a *model.Artifact, lookup graph.Lookup) model.CharacterArc {
	metrics := Measure(a, lookup)
	score := s.Score(a.Status, metrics)
	stage, next := s.Stage(score)

	ratio := 1.0
	if next != nil {
		span := next.MinScore - stage.MinScore
		if span == 0 {
			span = 1
		}
		ratio = clamp((score-stage.MinScore)/span, 0, 1)
	}

	return model.CharacterArc{
		ArtifactID:      a.ID,
		Title:           a.Title,
		Status:          a.Status,
		Score:           score,
		Stage:           stage,
		NextStage:       next,
		ProgressRatio:   ratio,
		ProgressPercent: int(math.Round(ratio * 100)),
		Metrics:         metrics,
		Suggestions:     suggestions(stage, metrics),
	}
}

// Measure collects the arc inputs of a character. Malformed payloads count as empty.
func Measure(a *model.Artifact, lookup graph.Lookup) model.ArcMetrics {
	data := model.DecodeCharacterData(a.Data)
	metrics := model.ArcMetrics{
		TraitCount:       len(data.Traits),
		BioWordCount:     helper.WordCount(data.Bio),
		SummaryWordCount: helper.WordCount(a.Summary),
	}

	for _, rel := range a.Relations {
		target, ok := lookup.Resolve(rel.ToID)
		if !ok {
			continue
		}
		switch {
		case target.Type.IsNarrative():
			metrics.NarrativeLinks++
		case target.Type == model.ArtifactTypeTimeline:
			metrics.TimelineLinks++
		case target.Type.IsQuest():
			metrics.QuestLinks++
		}
	}
	return metrics
}

// Score combines the status term with the weighted metrics, rounded to 2 decimals.
func (s *Scorer) Score(status string, m model.ArcMetrics) float64 {
	w := s.weights
	score := StatusScore(status) +
		float64(m.TraitCount)*w.Trait +
		capped(float64(m.BioWordCount), w.BioWordsPer, w.BioMax) +
		capped(float64(m.SummaryWordCount), w.SummaryPer, w.SummaryMax) +
		float64(m.NarrativeLinks)*w.NarrativeLink +
		float64(m.TimelineLinks)*w.TimelineLink +
		float64(m.QuestLinks)*w.QuestLink
	return math.Round(score*100) / 100
}

// StatusScore maps a free-text status to its score term by keyword.
func StatusScore(status string) float64 {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized == "" {
		return statusEmptyScore
	}
	for _, term := range statusTerms {
		if helper.ContainsAny(normalized, term.keywords...) {
			return term.score
		}
	}
	return statusOtherScore
}

// Stage resolves the highest stage whose threshold is reached and the one after it.
// The first stage is the fallback for scores below every threshold.
func (s *Scorer) Stage(score float64) (model.ArcStage, *model.ArcStage) {
	index := 0
	for i := len(s.stages) - 1; i >= 0; i-- {
		if s.stages[i].MinScore <= score {
			index = i
			break
		}
	}

	var next *model.ArcStage
	if index+1 < len(s.stages) {
		n := s.stages[index+1]
		next = &n
	}
	return s.stages[index], next
}

func suggestions(stage model.ArcStage, m model.ArcMetrics) []string {
	candidates := []string{stage.Recommendation}
	if m.NarrativeLinks < 2 {
		candidates = append(candidates, suggestNarrative)
	}
	if m.TimelineLinks == 0 {
		candidates = append(candidates, suggestTimeline)
	}
	if m.TraitCount < 3 {
		candidates = append(candidates, suggestTraits)
	}
	if m.BioWordCount < 120 {
		candidates = append(candidates, suggestBio)
	}
	if m.SummaryWordCount < 40 {
		candidates = append(candidates, suggestSummary)
	}

	seen := map[string]bool{}
	out := make([]string, 0, maxSuggestions)
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func capped(words, per, limit float64) float64 {
	if per <= 0 {
		return 0
	}
	return math.Min(limit, words/per)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
