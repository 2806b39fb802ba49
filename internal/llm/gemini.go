package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Complete implements Client.
func (g *GeminiClient) Complete(ctx context.Context, messages []Message, tools []ToolSpec, opts Options) (*Reply, error) {
	system, contents := toGeminiContents(messages)

	config := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       opts.Temperature,
		MaxOutputTokens:   opts.MaxOutputTokens,
	}
	if len(tools) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: toGeminiDeclarations(tools)}}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && rejectedStatus(apiErr.Code) {
			return nil, fmt.Errorf("%w: failed to generate content: %w", ErrRejected, err)
		}
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response generated (empty candidates)")
	}

	return fromGeminiContent(resp.Candidates[0].Content), nil
}

// toGeminiContents folds system messages into the system instruction and
// groups consecutive tool results into a single user turn.
func toGeminiContents(messages []Message) (*genai.Content, []*genai.Content) {
	var systemParts []*genai.Part
	var contents []*genai.Content

	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			systemParts = append(systemParts, &genai.Part{Text: m.Content})

		case RoleUser:
			contents = append(contents, &genai.Content{
				Role:  string(genai.RoleUser),
				Parts: []*genai.Part{{Text: m.Content}},
			})

		case RoleAssistant:
			var parts []*genai.Part
			if m.Content != "" {
				parts = append(parts, &genai.Part{Text: m.Content})
			}
			for _, tc := range m.ToolCalls {
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   tc.ID,
					Name: tc.Name,
					Args: tc.Args,
				}})
			}
			contents = append(contents, &genai.Content{Role: string(genai.RoleModel), Parts: parts})

		case RoleTool:
			part := &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       m.ToolCallID,
				Name:     m.ToolName,
				Response: map[string]any{"output": m.Content},
			}}
			last := len(contents) - 1
			if last >= 0 && contents[last].Role == string(genai.RoleUser) && isFunctionResponseTurn(contents[last]) {
				contents[last].Parts = append(contents[last].Parts, part)
				continue
			}
			contents = append(contents, &genai.Content{Role: string(genai.RoleUser), Parts: []*genai.Part{part}})
		}
	}

	var system *genai.Content
	if len(systemParts) > 0 {
		system = &genai.Content{Parts: systemParts}
	}
	return system, contents
}

func isFunctionResponseTurn(c *genai.Content) bool {
	return len(c.Parts) > 0 && c.Parts[0].FunctionResponse != nil
}

func toGeminiDeclarations(tools []ToolSpec) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		schema := &genai.Schema{
			Type:       genai.TypeObject,
			Properties: make(map[string]*genai.Schema, len(t.Params)),
		}
		for _, p := range t.Params {
			schema.Properties[p.Name] = &genai.Schema{Type: genai.TypeString, Description: p.Description}
			if p.Required {
				schema.Required = append(schema.Required, p.Name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  schema,
		})
	}
	return decls
}

// fromGeminiContent collects text and function calls. The Gemini API may
// omit call ids, so positional ids are assigned to keep results correlated.
func fromGeminiContent(content *genai.Content) *Reply {
	var text strings.Builder
	reply := &Reply{}

	for _, part := range content.Parts {
		if part == nil {
			continue
		}
		if part.FunctionCall != nil {
			id := part.FunctionCall.ID
			if id == "" {
				id = fmt.Sprintf("call_%d", len(reply.ToolCalls))
			}
			reply.ToolCalls = append(reply.ToolCalls, ToolCall{
				ID:   id,
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
			continue
		}
		if part.Text != "" && !part.Thought {
			text.WriteString(part.Text)
		}
	}

	reply.Content = text.String()
	return reply
}
