package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"alfredoptarigan/resume-evaluator/internal/llm"
	"alfredoptarigan/resume-evaluator/internal/logger"
	"alfredoptarigan/resume-evaluator/internal/models"
)

// InterviewItemCount is how many questions, and how many feedback points,
// a successful reply contains.
const InterviewItemCount = 3

var (
	questionsShape = MustShape("questions", tripleOf("q"))
	feedbackShape  = MustShape("feedback", tripleOf("a"))
)

// tripleOf describes an array of exactly three {key: string} objects.
func tripleOf(key string) map[string]interface{} {
	return map[string]interface{}{
		"type":     "array",
		"minItems": InterviewItemCount,
		"maxItems": InterviewItemCount,
		"items": map[string]interface{}{
			"type":     "object",
			"required": []interface{}{key},
			"properties": map[string]interface{}{
				key: map[string]interface{}{"type": "string", "minLength": 1},
			},
		},
	}
}

type QuestionGenerator struct {
	chain
}

func NewQuestionGenerator(client llm.Client, temperature float32, maxTokens int32, log logger.Logger) *QuestionGenerator {
	return &QuestionGenerator{chain: newChain("question_generator", client, temperature, maxTokens, log)}
}

// Generate returns exactly three questions in the order the model gave
// them. On a bad reply it returns whatever questions could be salvaged,
// possibly none, together with the error.
func (g *QuestionGenerator) Generate(ctx context.Context, jobDescription string) ([]models.Question, error) {
	var questions []models.Question

	err := g.run(ctx, g.prompts.BuildQuestionsPrompt(jobDescription), questionsShape, &questions)
	if err != nil {
		g.recordFallback(err)
		return salvage(err, func(raw string) []models.Question {
			var partial []models.Question
			_ = json.Unmarshal([]byte(raw), &partial)
			return nonEmpty(partial, func(q models.Question) string { return q.Q })
		}), fmt.Errorf("question generation failed: %w", err)
	}
	return questions, nil
}

type AnswerGrader struct {
	chain
}

func NewAnswerGrader(client llm.Client, temperature float32, maxTokens int32, log logger.Logger) *AnswerGrader {
	return &AnswerGrader{chain: newChain("answer_grader", client, temperature, maxTokens, log)}
}

// Grade returns three feedback points: what was good, what is missing and
// what to improve. Bad replies are handled as in QuestionGenerator.Generate.
func (g *AnswerGrader) Grade(ctx context.Context, question, answer string) ([]models.Feedback, error) {
	var feedback []models.Feedback

	err := g.run(ctx, g.prompts.BuildGradeAnswerPrompt(question, answer), feedbackShape, &feedback)
	if err != nil {
		g.recordFallback(err)
		return salvage(err, func(raw string) []models.Feedback {
			var partial []models.Feedback
			_ = json.Unmarshal([]byte(raw), &partial)
			return nonEmpty(partial, func(f models.Feedback) string { return f.A })
		}), fmt.Errorf("answer grading failed: %w", err)
	}
	return feedback, nil
}

// salvage re-reads the rejected reply for shape mismatches only; other
// failures have nothing worth keeping.
func salvage[T any](err error, parse func(raw string) []T) []T {
	var mismatch *shapeMismatch
	if !errors.As(err, &mismatch) {
		return []T{}
	}
	items := parse(mismatch.raw)
	if len(items) > InterviewItemCount {
		items = items[:InterviewItemCount]
	}
	return items
}

func nonEmpty[T any](items []T, text func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(text(it)) != "" {
			out = append(out, it)
		}
	}
	return out
}
