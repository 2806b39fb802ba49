package llm

import (
	"context"
	"errors"
)

var (
	// ErrTransport marks a provider or network failure that survived every retry.
	ErrTransport = errors.New("llm transport failure")
	// ErrRejected marks a request the provider refused outright. Sending it
	// again would fail the same way.
	ErrRejected = errors.New("llm request rejected")
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a tool invocation requested by the model. ID is the
// correlation id that must be echoed back on the matching tool result.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any

	// RawArgs and ArgsErr are set when the provider sent arguments that
	// could not be decoded. Args is empty in that case.
	RawArgs string
	ArgsErr error
}

type Message struct {
	Role    Role
	Content string

	// Set on assistant messages that requested tools.
	ToolCalls []ToolCall

	// Set on tool messages.
	ToolCallID string
	ToolName   string
}

// ToolParam describes one string argument of a tool.
type ToolParam struct {
	Name        string
	Description string
	Required    bool
}

type ToolSpec struct {
	Name        string
	Description string
	Params      []ToolParam
}

type Reply struct {
	Content   string
	ToolCalls []ToolCall
}

// Options tune a single completion. Zero values leave the provider default.
type Options struct {
	Temperature     *float32
	MaxOutputTokens int32
}

// Client submits a conversation, optionally advertising tools, and returns
// the model's next message.
type Client interface {
	Complete(ctx context.Context, messages []Message, tools []ToolSpec, opts Options) (*Reply, error)
}

func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Temperature returns a pointer for Options.Temperature.
func Temperature(t float32) *float32 {
	return &t
}

// CompleteText is the single-turn helper used by prompt chains.
func CompleteText(ctx context.Context, c Client, prompt string, opts Options) (string, error) {
	reply, err := c.Complete(ctx, []Message{UserMessage(prompt)}, nil, opts)
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}

// rejectedStatus reports whether an HTTP status means the request itself is
// at fault. Timeouts and rate limits are worth retrying.
func rejectedStatus(code int) bool {
	return code >= 400 && code < 500 && code != 408 && code != 429
}
