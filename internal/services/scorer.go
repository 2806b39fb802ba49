package services

import (
	"context"
	"errors"
	"math"

	"alfredoptarigan/resume-evaluator/internal/llm"
	"alfredoptarigan/resume-evaluator/internal/logger"
	"alfredoptarigan/resume-evaluator/internal/models"
)

var scoreShape = MustShape("score", map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"total", "breakdown"},
	"properties": map[string]interface{}{
		"total": map[string]interface{}{"type": "number"},
		"breakdown": map[string]interface{}{
			"type":     "object",
			"required": []interface{}{models.CategoryContent, models.CategoryStructure, models.CategoryATS, models.CategoryTailoring},
			"properties": map[string]interface{}{
				models.CategoryContent:   map[string]interface{}{"type": "number"},
				models.CategoryStructure: map[string]interface{}{"type": "number"},
				models.CategoryATS:       map[string]interface{}{"type": "number"},
				models.CategoryTailoring: map[string]interface{}{"type": "number"},
			},
		},
	},
})

const (
	// hardFailureScore replaces replies that could not be obtained or parsed.
	hardFailureScore = 0
	// shapeMismatchScore replaces JSON replies with missing or mistyped fields.
	shapeMismatchScore = 50
)

type Scorer struct {
	chain
}

func NewScorer(client llm.Client, temperature float32, maxTokens int32, log logger.Logger) *Scorer {
	return &Scorer{chain: newChain("scorer", client, temperature, maxTokens, log)}
}

// Score never fails. Replies that are missing or unparseable score 0
// everywhere, replies with the wrong shape score 50 everywhere. Fractional
// values are rounded, out of range values are kept.
func (s *Scorer) Score(ctx context.Context, resume, jobDescription string) models.ScoreResult {
	var raw struct {
		Total     float64            `json:"total"`
		Breakdown map[string]float64 `json:"breakdown"`
	}

	err := s.run(ctx, s.prompts.BuildScorePrompt(resume, jobDescription), scoreShape, &raw)
	if err != nil {
		s.recordFallback(err)
		if errors.Is(err, ErrOutputShapeMismatch) {
			return models.UniformScore(shapeMismatchScore)
		}
		return models.UniformScore(hardFailureScore)
	}

	result := models.ScoreResult{
		Total:     roundScore(raw.Total),
		Breakdown: make(map[string]int, len(models.ScoreCategories)),
	}
	for _, c := range models.ScoreCategories {
		result.Breakdown[c] = roundScore(raw.Breakdown[c])
	}
	return result
}

// roundScore rounds to the nearest integer. Values beyond the int range
// saturate instead of wrapping.
func roundScore(v float64) int {
	r := math.Round(v)
	switch {
	case r >= float64(math.MaxInt):
		return math.MaxInt
	case r <= float64(math.MinInt):
		return math.MinInt
	}
	return int(r)
}
