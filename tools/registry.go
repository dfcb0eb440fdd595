package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/petasbytes/stock-agent/console"
)

// Registry holds the tool set exposed to the model. Registration order is
// the order Specs reports, identical on every call.
type Registry struct {
	defs []ToolDefinition
}

func NewRegistry(defs ...ToolDefinition) (*Registry, error) {
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("tool with empty name")
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("duplicate tool name %q", def.Name)
		}
		seen[def.Name] = true
	}
	return &Registry{defs: append([]ToolDefinition(nil), defs...)}, nil
}

// Specs returns the tool definitions in registration order.
func (r *Registry) Specs() []ToolDefinition {
	out := make([]ToolDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Dispatch runs the named tool. An unknown name is not an error: the
// caller gets (nil, nil), the same as a tool that found nothing.
func (r *Registry) Dispatch(ctx context.Context, name string, input json.RawMessage) (*string, error) {
	for i := range r.defs {
		if r.defs[i].Name == name {
			return r.defs[i].Function(ctx, input)
		}
	}
	return nil, nil
}

// DefaultTools returns the stock tool set wired for the agent.
func DefaultTools(data MarketData, out *console.Console) []ToolDefinition {
	return []ToolDefinition{
		NewGetStockPrice(data, out),
		NewGetCompanyCEO(data, out),
		NewFindTickerSymbol(data, out),
		NewAskUser(out),
	}
}
