package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-evaluator/internal/logger"
)

// chatServer answers every request with status and body and records the
// decoded request bodies.
type chatServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []map[string]any
}

func newChatServer(t *testing.T, status int, body string) *chatServer {
	t.Helper()
	cs := &chatServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(raw, &req))

		cs.mu.Lock()
		cs.requests = append(cs.requests, req)
		cs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(cs.Close)
	return cs
}

func (cs *chatServer) Requests() []map[string]any {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]map[string]any(nil), cs.requests...)
}

func completionBody(message string) string {
	return `{"id":"x","object":"chat.completion","created":0,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":` + message + `}]}`
}

func TestToOpenAIMessage_AssistantToolCalls(t *testing.T) {
	msg, err := toOpenAIMessage(Message{
		Role: RoleAssistant,
		ToolCalls: []ToolCall{
			{ID: "abc", Name: "extract_text_from_docx", Args: map[string]any{"file_path": "cv.docx"}},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, openai.ChatMessageRoleAssistant, msg.Role)
	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, "abc", msg.ToolCalls[0].ID)
	assert.JSONEq(t, `{"file_path":"cv.docx"}`, msg.ToolCalls[0].Function.Arguments)
}

func TestToOpenAIMessage_ToolResult(t *testing.T) {
	msg, err := toOpenAIMessage(Message{Role: RoleTool, ToolCallID: "abc", ToolName: "x", Content: "out"})

	require.NoError(t, err)
	assert.Equal(t, openai.ChatMessageRoleTool, msg.Role)
	assert.Equal(t, "abc", msg.ToolCallID)
	assert.Equal(t, "out", msg.Content)
}

func TestToOpenAIMessage_UnknownRole(t *testing.T) {
	_, err := toOpenAIMessage(Message{Role: "narrator"})
	assert.Error(t, err)
}

func TestToOpenAIFunction(t *testing.T) {
	fn := toOpenAIFunction(ToolSpec{
		Name:        "enhance_with_entities",
		Description: "tag entities",
		Params:      []ToolParam{{Name: "text", Description: "raw text", Required: true}},
	})

	params, ok := fn.Parameters.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "object", params["type"])
	assert.Equal(t, []string{"text"}, params["required"])
}

func TestOpenAIClient_SendsZeroTemperature(t *testing.T) {
	srv := newChatServer(t, http.StatusOK, completionBody(`{"role":"assistant","content":"ok"}`))
	client := NewOpenAIClient("key", srv.URL, "m")

	reply, err := client.Complete(context.Background(), []Message{UserMessage("hi")}, nil, Options{Temperature: Temperature(0)})

	require.NoError(t, err)
	assert.Equal(t, "ok", reply.Content)
	requests := srv.Requests()
	require.Len(t, requests, 1)
	temp, ok := requests[0]["temperature"]
	require.True(t, ok, "temperature must be sent even when it is zero")
	assert.InDelta(t, 0, temp, 1e-9)
}

func TestOpenAIClient_MalformedToolArgumentsAreKept(t *testing.T) {
	msg := `{"role":"assistant","content":"","tool_calls":[{"id":"c1","type":"function","function":{"name":"enhance_with_entities","arguments":"{\"text\": \"Jane"}}]}`
	srv := newChatServer(t, http.StatusOK, completionBody(msg))
	client := NewRetryingClient(NewOpenAIClient("key", srv.URL, "m"), "groq", 2, 0, logger.NewTestLogger(t))

	reply, err := client.Complete(context.Background(), []Message{UserMessage("hi")}, nil, Options{})

	require.NoError(t, err)
	assert.Len(t, srv.Requests(), 1)
	require.Len(t, reply.ToolCalls, 1)
	call := reply.ToolCalls[0]
	assert.Equal(t, "c1", call.ID)
	assert.Equal(t, `{"text": "Jane`, call.RawArgs)
	assert.Error(t, call.ArgsErr)
	assert.Empty(t, call.Args)

	echoed, err := toOpenAIMessage(Message{Role: RoleAssistant, ToolCalls: reply.ToolCalls})
	require.NoError(t, err)
	assert.Equal(t, `{"text": "Jane`, echoed.ToolCalls[0].Function.Arguments)
}

func TestOpenAIClient_RejectedRequestIsNotRetried(t *testing.T) {
	srv := newChatServer(t, http.StatusBadRequest, `{"error":{"message":"invalid model","type":"invalid_request_error"}}`)
	client := NewRetryingClient(NewOpenAIClient("key", srv.URL, "m"), "groq", 2, 0, logger.NewTestLogger(t))

	_, err := client.Complete(context.Background(), []Message{UserMessage("hi")}, nil, Options{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRejected)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Len(t, srv.Requests(), 1)
}

func TestOpenAIClient_ServerErrorIsRetried(t *testing.T) {
	srv := newChatServer(t, http.StatusServiceUnavailable, `{"error":{"message":"overloaded","type":"server_error"}}`)
	client := NewRetryingClient(NewOpenAIClient("key", srv.URL, "m"), "groq", 2, 0, logger.NewTestLogger(t))

	_, err := client.Complete(context.Background(), []Message{UserMessage("hi")}, nil, Options{})

	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrRejected)
	assert.Len(t, srv.Requests(), 3)
}
