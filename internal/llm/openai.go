package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
)

// GroqBaseURL is the OpenAI-compatible endpoint served by Groq.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client    *openai.Client
	modelName string
}

func NewOpenAIClient(apiKey, baseURL, modelName string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client:    openai.NewClientWithConfig(cfg),
		modelName: modelName,
	}
}

func (o *OpenAIClient) Complete(ctx context.Context, messages []Message, tools []ToolSpec, opts Options) (*Reply, error) {
	req := openai.ChatCompletionRequest{
		Model:     o.modelName,
		Messages:  make([]openai.ChatCompletionMessage, 0, len(messages)),
		MaxTokens: int(opts.MaxOutputTokens),
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
		// A zero temperature is dropped by omitempty and the provider
		// default applies instead.
		if req.Temperature == 0 {
			req.Temperature = math.SmallestNonzeroFloat32
		}
	}

	for _, m := range messages {
		msg, err := toOpenAIMessage(m)
		if err != nil {
			return nil, err
		}
		req.Messages = append(req.Messages, msg)
	}
	for _, t := range tools {
		req.Tools = append(req.Tools, openai.Tool{
			Type:     openai.ToolTypeFunction,
			Function: toOpenAIFunction(t),
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if isRejectedOpenAI(err) {
			return nil, fmt.Errorf("%w: chat completion failed: %w", ErrRejected, err)
		}
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in chat completion response")
	}

	out := resp.Choices[0].Message
	reply := &Reply{Content: out.Content}
	for _, tc := range out.ToolCalls {
		call := ToolCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: map[string]any{},
		}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &call.Args); err != nil {
				call.Args = map[string]any{}
				call.RawArgs = tc.Function.Arguments
				call.ArgsErr = err
			}
		}
		reply.ToolCalls = append(reply.ToolCalls, call)
	}
	return reply, nil
}

func isRejectedOpenAI(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return rejectedStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return rejectedStatus(reqErr.HTTPStatusCode)
	}
	return false
}

func toOpenAIMessage(m Message) (openai.ChatCompletionMessage, error) {
	switch m.Role {
	case RoleSystem:
		return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: m.Content}, nil
	case RoleUser:
		return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: m.Content}, nil
	case RoleTool:
		return openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    m.Content,
			Name:       m.ToolName,
			ToolCallID: m.ToolCallID,
		}, nil
	case RoleAssistant:
		msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: m.Content}
		for _, tc := range m.ToolCalls {
			args := tc.RawArgs
			if tc.ArgsErr == nil {
				b, err := json.Marshal(tc.Args)
				if err != nil {
					return msg, fmt.Errorf("encode arguments for %s: %w", tc.Name, err)
				}
				args = string(b)
			}
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: args,
				},
			})
		}
		return msg, nil
	}
	return openai.ChatCompletionMessage{}, fmt.Errorf("unsupported message role %q", m.Role)
}

func toOpenAIFunction(t ToolSpec) *openai.FunctionDefinition {
	properties := make(map[string]any, len(t.Params))
	required := []string{}
	for _, p := range t.Params {
		properties[p.Name] = map[string]any{
			"type":        "string",
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return &openai.FunctionDefinition{
		Name:        t.Name,
		Description: t.Description,
		Parameters: map[string]any{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
