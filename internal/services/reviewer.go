package services

import (
	"context"
	"errors"

	"alfredoptarigan/resume-evaluator/internal/llm"
	"alfredoptarigan/resume-evaluator/internal/logger"
	"alfredoptarigan/resume-evaluator/internal/models"
)

// GenericReviewMessage is the review returned when the reply has the
// wrong shape.
const GenericReviewMessage = "A detailed review could not be generated for this resume. Compare your skills and experience against the job description and highlight the most relevant ones."

var reviewShape = MustShape("review", map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"review"},
	"properties": map[string]interface{}{
		"review": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
	},
})

type Reviewer struct {
	chain
}

func NewReviewer(client llm.Client, temperature float32, maxTokens int32, log logger.Logger) *Reviewer {
	return &Reviewer{chain: newChain("reviewer", client, temperature, maxTokens, log)}
}

// Review never fails. A missing or unparseable reply yields an empty
// review, a reply with the wrong shape yields GenericReviewMessage.
func (r *Reviewer) Review(ctx context.Context, resume, jobDescription string, score models.ScoreResult) models.ReviewResult {
	var result models.ReviewResult

	err := r.run(ctx, r.prompts.BuildReviewPrompt(resume, jobDescription, score), reviewShape, &result)
	if err != nil {
		r.recordFallback(err)
		if errors.Is(err, ErrOutputShapeMismatch) {
			return models.ReviewResult{Review: []string{GenericReviewMessage}}
		}
		return models.ReviewResult{Review: []string{}}
	}

	if result.Review == nil {
		result.Review = []string{}
	}
	return result
}
