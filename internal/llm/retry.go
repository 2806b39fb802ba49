package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"alfredoptarigan/resume-evaluator/internal/logger"
	"alfredoptarigan/resume-evaluator/internal/metrics"
)

// RetryingClient retries failed completions a bounded number of times.
// Errors that survive every attempt are wrapped with ErrTransport.
type RetryingClient struct {
	next       Client
	provider   string
	maxRetries int
	delay      time.Duration
	log        logger.Logger
}

func NewRetryingClient(next Client, provider string, maxRetries int, delay time.Duration, log logger.Logger) *RetryingClient {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &RetryingClient{
		next:       next,
		provider:   provider,
		maxRetries: maxRetries,
		delay:      delay,
		log:        log,
	}
}

func (r *RetryingClient) Complete(ctx context.Context, messages []Message, tools []ToolSpec, opts Options) (*Reply, error) {
	ctx, span := otel.Tracer("llm").Start(ctx, "llm.Complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", r.provider),
		attribute.Int("llm.messages", len(messages)),
		attribute.Int("llm.tools", len(tools)),
	)

	attempts := r.maxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		start := time.Now()
		reply, err := r.next.Complete(ctx, messages, tools, opts)
		metrics.LLMRequestDuration.WithLabelValues(r.provider).Observe(time.Since(start).Seconds())

		if err == nil {
			metrics.LLMRequests.WithLabelValues(r.provider, "success").Inc()
			span.SetAttributes(attribute.Int("llm.attempts", attempt))
			return reply, nil
		}

		metrics.LLMRequests.WithLabelValues(r.provider, "error").Inc()
		lastErr = err

		if !retryable(err) || attempt == attempts {
			break
		}

		r.log.Warn("LLM completion failed, retrying", map[string]interface{}{
			"provider": r.provider,
			"attempt":  attempt,
			"error":    err,
		})

		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return nil, r.fail(span, ctx.Err())
		}
	}

	return nil, r.fail(span, lastErr)
}

func (r *RetryingClient) fail(span trace.Span, lastErr error) error {
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())
	return fmt.Errorf("%w: %s: %w", ErrTransport, r.provider, lastErr)
}

// retryable is false for cancellation and for requests the provider
// rejected; only transient failures are attempted again.
func retryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrRejected):
		return false
	}
	return true
}
