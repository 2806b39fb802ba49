package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"alfredoptarigan/resume-evaluator/internal/llm"
	"alfredoptarigan/resume-evaluator/internal/logger"
	"alfredoptarigan/resume-evaluator/internal/metrics"
)

const structuringSystemPrompt = `You are a resume parser for an Applicant Tracking System.
Rewrite the resume you are given as structured markdown with these sections:
- Name
- Contact
- Summary
- Experience
- Education
- Skills

Keep every fact from the resume and do not invent new ones.
If recognising people, organisations, dates or locations would help, call the enhance_with_entities tool with the resume text before answering.`

// StructuringAgent turns raw resume text into a structured markdown resume.
type StructuringAgent interface {
	StructureFile(ctx context.Context, filePath string) (string, error)
	Structure(ctx context.Context, resumeText string) (string, error)
}

type structuringAgent struct {
	client      llm.Client
	extractor   TextExtractor
	registry    *ToolRegistry
	temperature float32
	maxTokens   int32
	log         logger.Logger
}

func NewStructuringAgent(client llm.Client, extractor TextExtractor, registry *ToolRegistry, temperature float32, maxTokens int32, log logger.Logger) StructuringAgent {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &structuringAgent{
		client:      client,
		extractor:   extractor,
		registry:    registry,
		temperature: temperature,
		maxTokens:   maxTokens,
		log:         log,
	}
}

// StructureFile extracts the file and structures its text. Extraction
// errors are returned unchanged.
func (a *structuringAgent) StructureFile(ctx context.Context, filePath string) (string, error) {
	text, err := a.extractor.Extract(filePath)
	if err != nil {
		return "", err
	}
	return a.Structure(ctx, text)
}

// Structure runs at most two completions. Tools are offered on the first
// one only; if the model calls none, its reply is the result.
func (a *structuringAgent) Structure(ctx context.Context, resumeText string) (string, error) {
	ctx, span := otel.Tracer("services").Start(ctx, "StructuringAgent.Structure")
	defer span.End()

	start := time.Now()
	opts := llm.Options{Temperature: llm.Temperature(a.temperature), MaxOutputTokens: a.maxTokens}
	conversation := []llm.Message{
		llm.SystemMessage(structuringSystemPrompt),
		llm.UserMessage("Resume:\n" + resumeText),
	}

	first, err := a.client.Complete(ctx, conversation, a.registry.Specs(), opts)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("resume structuring failed: %w", err)
	}

	span.SetAttributes(attribute.Int("agent.tool_calls", len(first.ToolCalls)))
	if len(first.ToolCalls) == 0 {
		a.log.Info("Resume structured", map[string]interface{}{
			"llm_calls":   1,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return first.Content, nil
	}

	results, err := a.runTools(first.ToolCalls)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	conversation = append(conversation, llm.Message{
		Role:      llm.RoleAssistant,
		Content:   first.Content,
		ToolCalls: first.ToolCalls,
	})
	conversation = append(conversation, results...)

	final, err := a.client.Complete(ctx, conversation, nil, opts)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("resume structuring failed after tool calls: %w", err)
	}

	a.log.Info("Resume structured", map[string]interface{}{
		"llm_calls":   2,
		"tool_calls":  len(first.ToolCalls),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return final.Content, nil
}

// runTools executes calls in request order. A failing tool becomes an
// error string in its result; an unregistered tool aborts the request.
func (a *structuringAgent) runTools(calls []llm.ToolCall) ([]llm.Message, error) {
	results := make([]llm.Message, 0, len(calls))

	for _, call := range calls {
		tool, err := a.registry.Lookup(call.Name)
		if err != nil {
			metrics.ToolInvocations.WithLabelValues("unknown", "rejected").Inc()
			a.log.Error("Model requested an unregistered tool", map[string]interface{}{
				"tool":    call.Name,
				"call_id": call.ID,
			})
			return nil, err
		}

		output, err := runTool(tool, call)
		outcome := "success"
		if err != nil {
			outcome = "error"
			output = fmt.Sprintf("Error: %v", err)
			a.log.Warn("Tool execution failed", map[string]interface{}{
				"tool":    call.Name,
				"call_id": call.ID,
				"error":   err,
			})
		} else {
			a.log.Debug("Tool executed", map[string]interface{}{
				"tool":    call.Name,
				"call_id": call.ID,
			})
		}
		metrics.ToolInvocations.WithLabelValues(call.Name, outcome).Inc()

		results = append(results, llm.Message{
			Role:       llm.RoleTool,
			Content:    output,
			ToolCallID: call.ID,
			ToolName:   call.Name,
		})
	}

	return results, nil
}

// runTool executes one call. Malformed arguments and panics inside the
// tool are returned as errors.
func runTool(tool Tool, call llm.ToolCall) (output string, err error) {
	if call.ArgsErr != nil {
		return "", fmt.Errorf("malformed arguments: %w", call.ArgsErr)
	}

	defer func() {
		if r := recover(); r != nil {
			output, err = "", fmt.Errorf("tool %s panicked: %v", call.Name, r)
		}
	}()
	return tool.Run(call.Args)
}
