package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-evaluator/internal/llm"
	"alfredoptarigan/resume-evaluator/internal/llm/llmtest"
	"alfredoptarigan/resume-evaluator/internal/logger"
	"alfredoptarigan/resume-evaluator/internal/models"
)

func TestScorer_Score(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  models.ScoreResult
	}{
		{
			name:  "well formed",
			reply: `{"total": 78, "breakdown": {"Content": 80, "Structure": 70, "ATS": 85, "Tailoring": 75}}`,
			want: models.ScoreResult{Total: 78, Breakdown: map[string]int{
				"Content": 80, "Structure": 70, "ATS": 85, "Tailoring": 75,
			}},
		},
		{
			name:  "fenced and fractional",
			reply: "Here you go:\n```json\n{\"total\": 71.6, \"breakdown\": {\"Content\": 70.4, \"Structure\": 70.5, \"ATS\": 69, \"Tailoring\": 77}}\n```",
			want: models.ScoreResult{Total: 72, Breakdown: map[string]int{
				"Content": 70, "Structure": 71, "ATS": 69, "Tailoring": 77,
			}},
		},
		{
			name:  "out of range passes through",
			reply: `{"total": 120, "breakdown": {"Content": -5, "Structure": 100, "ATS": 100, "Tailoring": 100}}`,
			want: models.ScoreResult{Total: 120, Breakdown: map[string]int{
				"Content": -5, "Structure": 100, "ATS": 100, "Tailoring": 100,
			}},
		},
		{
			name:  "beyond int range saturates",
			reply: `{"total": 1e20, "breakdown": {"Content": -1e20, "Structure": 100, "ATS": 100, "Tailoring": 100}}`,
			want: models.ScoreResult{Total: math.MaxInt, Breakdown: map[string]int{
				"Content": math.MinInt, "Structure": 100, "ATS": 100, "Tailoring": 100,
			}},
		},
		{
			name:  "not JSON",
			reply: "I think this resume is pretty good, maybe a 75.",
			want:  models.UniformScore(0),
		},
		{
			name: "LLM failure",
			err:  llm.ErrTransport,
			want: models.UniformScore(0),
		},
		{
			name:  "missing total",
			reply: `{"breakdown": {"Content": 80, "Structure": 70, "ATS": 85, "Tailoring": 75}}`,
			want:  models.UniformScore(50),
		},
		{
			name:  "missing category",
			reply: `{"total": 60, "breakdown": {"Content": 80}}`,
			want:  models.UniformScore(50),
		},
		{
			name:  "total is a string",
			reply: `{"total": "eighty", "breakdown": {"Content": 80, "Structure": 70, "ATS": 85, "Tailoring": 75}}`,
			want:  models.UniformScore(50),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := llmtest.New(llmtest.Step{Reply: &llm.Reply{Content: tt.reply}, Err: tt.err})
			scorer := NewScorer(client, 0.8, 512, logger.NewTestLogger(t))

			got := scorer.Score(context.Background(), "# Jane Doe", "Go engineer")

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScorer_PromptCarriesInputs(t *testing.T) {
	client := llmtest.Text(`{}`)
	NewScorer(client, 0.8, 512, logger.NewNoOpLogger()).Score(context.Background(), "RESUME-MARKER", "JD-MARKER")

	calls := client.Calls()
	require.Len(t, calls, 1)
	prompt := calls[0].Messages[0].Content
	assert.Contains(t, prompt, "RESUME-MARKER")
	assert.Contains(t, prompt, "JD-MARKER")
	assert.Equal(t, float32(0.8), *calls[0].Options.Temperature)
}
