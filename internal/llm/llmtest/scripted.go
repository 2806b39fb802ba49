// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"alfredoptarigan/resume-evaluator/internal/llm"
)

// Step is one scripted response. Err takes precedence over Reply.
type Step struct {
	Reply *llm.Reply
	Err   error
}

// Call records what a Complete invocation received.
type Call struct {
	Messages []llm.Message
	Tools    []llm.ToolSpec
	Options  llm.Options
}

// ScriptedClient replays steps in order and records every call.
type ScriptedClient struct {
	mu    sync.Mutex
	steps []Step
	calls []Call
}

func New(steps ...Step) *ScriptedClient {
	return &ScriptedClient{steps: steps}
}

// Text returns a client that answers each call with the given contents in order.
func Text(contents ...string) *ScriptedClient {
	steps := make([]Step, 0, len(contents))
	for _, c := range contents {
		steps = append(steps, Step{Reply: &llm.Reply{Content: c}})
	}
	return New(steps...)
}

func Failing(err error) *ScriptedClient {
	return New(Step{Err: err})
}

func (s *ScriptedClient) Complete(_ context.Context, messages []llm.Message, tools []llm.ToolSpec, opts llm.Options) (*llm.Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]llm.Message, len(messages))
	copy(msgs, messages)
	s.calls = append(s.calls, Call{Messages: msgs, Tools: tools, Options: opts})

	if len(s.steps) == 0 {
		return nil, fmt.Errorf("llmtest: unexpected call %d", len(s.calls))
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	if step.Err != nil {
		return nil, step.Err
	}
	return step.Reply, nil
}

func (s *ScriptedClient) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}
