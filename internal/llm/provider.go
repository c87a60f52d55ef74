package llm

import (
	"context"
	"encoding/json"
)

// Provider defines the interface for chat-completion providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete runs one chat completion, optionally offering tools
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Message roles, mirroring the chat-completion wire format
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one turn of a conversation
type Message struct {
	Role    string
	Content string

	// ToolCalls is set on assistant messages that request tool execution
	ToolCalls []ToolCall

	// ToolCallID links a tool-role message to the call it answers
	ToolCallID string
}

// ToolCall is a model-issued request to execute one tool
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON arguments as emitted by the model
}

// ToolSpec describes a callable tool offered to the model
type ToolSpec struct {
	Name        string
	Description string
	Parameters  json.RawMessage // JSON schema of the arguments object
}

// CompletionRequest contains the input for one completion
type CompletionRequest struct {
	// System is the agent's instruction text
	System string

	// Messages is the conversation so far (user, assistant, tool turns)
	Messages []Message

	// Tools the model may call; empty means plain text completion
	Tools []ToolSpec

	// Model overrides the configured model when non-empty
	Model string

	// MaxTokens limits the response length (0 uses the configured default)
	MaxTokens int

	// Temperature overrides the configured default when non-nil
	Temperature *float32
}

// CompletionResponse contains the model's reply
type CompletionResponse struct {
	// Message is the assistant turn: final text or tool calls
	Message Message

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "gemini", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g. Ollama, compatible proxies)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// Temperature default for completions
	Temperature float32

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		Model:       "",
		Timeout:     60,
		MaxTokens:   2000,
		Temperature: 0.3,
	}
}
