// Package tools implements the callable capabilities offered to agents:
// web search and market data. Each tool declares a JSON-schema parameter
// object and returns its result as a JSON string for the model to consume.
package tools

import (
	"context"
	"encoding/json"

	"github.com/finbrief/finbrief/internal/llm"
)

// Tool is one callable capability
type Tool interface {
	// Name is the function name advertised to the model
	Name() string

	// Description tells the model when to call this tool
	Description() string

	// Parameters is the JSON schema of the arguments object
	Parameters() json.RawMessage

	// Call executes the tool with model-provided arguments
	Call(ctx context.Context, args json.RawMessage) (string, error)
}

// Specs converts tools to the provider-level tool specifications
func Specs(ts []Tool) []llm.ToolSpec {
	specs := make([]llm.ToolSpec, 0, len(ts))
	for _, t := range ts {
		specs = append(specs, llm.ToolSpec{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return specs
}

// ByName finds a tool in the slice, or nil
func ByName(ts []Tool, name string) Tool {
	for _, t := range ts {
		if t.Name() == name {
			return t
		}
	}
	return nil
}
