// Package agent runs a single instruction-following agent with tools.
//
// An agent is a model, an instruction, and a tool set. Run drives the
// completion loop: while the model answers with tool calls, the calls are
// executed and their results appended to the conversation; the first plain
// text answer is the agent's final output.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/finbrief/finbrief/internal/llm"
	"github.com/finbrief/finbrief/internal/tools"
)

// DefaultMaxTurns bounds the tool-call loop when no limit is configured.
const DefaultMaxTurns = 6

// Agent is one specialized team member
type Agent struct {
	// Name identifies the agent in logs and member summaries
	Name string

	// Role is the one-line description of what this agent contributes
	Role string

	// Instructions is the system prompt
	Instructions string

	// Provider executes completions
	Provider llm.Provider

	// Model overrides the provider's configured model when non-empty
	Model string

	// Tools the agent may call
	Tools []tools.Tool

	// MaxTurns bounds the completion loop (0 uses DefaultMaxTurns)
	MaxTurns int
}

// Run executes the agent on one input and returns its final text output.
func (a *Agent) Run(ctx context.Context, input string) (string, error) {
	if a.Provider == nil {
		return "", fmt.Errorf("agent %s: no provider configured", a.Name)
	}

	maxTurns := a.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	messages := []llm.Message{{Role: llm.RoleUser, Content: input}}
	specs := tools.Specs(a.Tools)

	for turn := 0; turn < maxTurns; turn++ {
		resp, err := a.Provider.Complete(ctx, llm.CompletionRequest{
			System:   a.Instructions,
			Messages: messages,
			Tools:    specs,
			Model:    a.Model,
		})
		if err != nil {
			return "", fmt.Errorf("agent %s: %w", a.Name, err)
		}

		if len(resp.Message.ToolCalls) == 0 {
			return resp.Message.Content, nil
		}

		messages = append(messages, resp.Message)
		for _, call := range resp.Message.ToolCalls {
			messages = append(messages, a.execute(ctx, call))
		}
	}

	return "", fmt.Errorf("agent %s: exceeded %d turns without a final answer", a.Name, maxTurns)
}

// execute runs one tool call. Tool failures are reported back to the model
// as the call result so it can recover or answer without the tool.
func (a *Agent) execute(ctx context.Context, call llm.ToolCall) llm.Message {
	msg := llm.Message{Role: llm.RoleTool, ToolCallID: call.ID}

	tool := tools.ByName(a.Tools, call.Name)
	if tool == nil {
		msg.Content = fmt.Sprintf(`{"error": "unknown tool %q"}`, call.Name)
		return msg
	}

	out, err := tool.Call(ctx, json.RawMessage(call.Arguments))
	if err != nil {
		msg.Content = fmt.Sprintf(`{"error": %q}`, err.Error())
		return msg
	}
	msg.Content = out
	return msg
}
