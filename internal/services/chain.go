package services

import (
	"context"
	"time"

	"alfredoptarigan/resume-evaluator/internal/llm"
	"alfredoptarigan/resume-evaluator/internal/logger"
	"alfredoptarigan/resume-evaluator/internal/metrics"
)

// chain is the shared plumbing of the evaluation chains: one prompt, one
// completion, one shaped decode.
type chain struct {
	name    string
	client  llm.Client
	prompts *PromptBuilder
	opts    llm.Options
	log     logger.Logger
}

func newChain(name string, client llm.Client, temperature float32, maxTokens int32, log logger.Logger) chain {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return chain{
		name:    name,
		client:  client,
		prompts: NewPromptBuilder(),
		opts:    llm.Options{Temperature: llm.Temperature(temperature), MaxOutputTokens: maxTokens},
		log:     log.With(map[string]interface{}{"chain": name}),
	}
}

// run completes prompt and decodes the reply into target.
func (c chain) run(ctx context.Context, prompt string, shape Shape, target interface{}) error {
	start := time.Now()
	reply, err := llm.CompleteText(ctx, c.client, prompt, c.opts)
	if err != nil {
		return err
	}

	c.log.Debug("LLM reply received", map[string]interface{}{
		"prompt_chars": len(prompt),
		"reply_chars":  len(reply),
		"duration_ms":  time.Since(start).Milliseconds(),
	})

	return shape.Decode(reply, target)
}

func (c chain) recordFallback(err error) {
	kind := failureKind(err)
	metrics.ChainFallbacks.WithLabelValues(c.name, kind).Inc()
	c.log.Warn("Using fallback result", map[string]interface{}{
		"kind":  kind,
		"error": err,
	})
}
