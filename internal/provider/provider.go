// Package provider adapts model SDKs to the neutral client interface the
// agent loop consumes.
package provider

import (
	"context"
	"fmt"

	"github.com/petasbytes/stock-agent/memory"
	"github.com/petasbytes/stock-agent/tools"
)

// Request is one model call: the system prompt, the full transcript so far,
// and every tool the model may invoke.
type Request struct {
	System   string
	Messages []memory.Message
	Tools    []tools.ToolDefinition
}

// Response is the model's reply. Empty ToolCalls means a terminal answer.
type Response struct {
	Content   string
	ToolCalls []memory.ToolCall
}

// Client is implemented by each model SDK adapter.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Provider names accepted by New.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Options describes how to reach a model provider. Zero fields fall back
// to the provider's defaults.
type Options struct {
	Provider  string
	Model     string
	BaseURL   string
	APIKeyEnv string
}

func New(opts Options) (Client, error) {
	switch opts.Provider {
	case "", ProviderOpenAI:
		return newOpenAIFromOptions(opts)
	case ProviderAnthropic:
		return newAnthropicFromOptions(opts), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", opts.Provider)
	}
}
