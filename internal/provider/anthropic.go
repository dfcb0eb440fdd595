package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/petasbytes/stock-agent/memory"
	"github.com/petasbytes/stock-agent/tools"
)

const DefaultAnthropicModel = anthropic.ModelClaude3_7SonnetLatest

// Replies here are a sentence or two; no need for a large completion cap.
const anthropicMaxTokens = 1024

// Anthropic speaks the Messages API tool-use dialect.
type Anthropic struct {
	client *anthropic.Client
	model  anthropic.Model
}

// NewAnthropic wraps an already-built SDK client.
func NewAnthropic(client *anthropic.Client, model anthropic.Model) *Anthropic {
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &Anthropic{client: client, model: model}
}

func newAnthropicFromOptions(opts Options) *Anthropic {
	// The SDK resolves ANTHROPIC_API_KEY from the env on its own; only an
	// explicit override needs wiring.
	var ropts []option.RequestOption
	if opts.BaseURL != "" {
		ropts = append(ropts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.APIKeyEnv != "" {
		if key := os.Getenv(opts.APIKeyEnv); key != "" {
			ropts = append(ropts, option.WithAPIKey(key))
		}
	}
	c := anthropic.NewClient(ropts...)
	return NewAnthropic(&c, anthropic.Model(opts.Model))
}

func (p *Anthropic) Complete(ctx context.Context, req Request) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: int64(anthropicMaxTokens),
		Messages:  buildAnthropicMessages(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if len(req.Tools) > 0 {
		params.Tools = buildAnthropicTools(req.Tools)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("messages create: %w", err)
	}

	resp := &Response{}
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			if resp.Content == "" {
				resp.Content = v.Text
			}
		case anthropic.ToolUseBlock:
			resp.ToolCalls = append(resp.ToolCalls, memory.ToolCall{
				ID:        v.ID,
				Name:      v.Name,
				Arguments: v.JSON.Input.Raw(),
			})
		}
	}
	return resp, nil
}

func buildAnthropicMessages(msgs []memory.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case memory.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case memory.RoleAssistant:
			if len(m.ToolCalls) == 0 {
				out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
				continue
			}
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.ToolCalls))
			for _, tc := range m.ToolCalls {
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    tc.ID,
						Name:  tc.Name,
						Input: json.RawMessage(tc.Arguments),
					},
				})
			}
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		case memory.RoleTool:
			// Tool results travel on the user role in the Messages API.
			out = append(out, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(m.ToolCallID, m.Content, false),
			))
		}
	}
	return out
}

func buildAnthropicTools(defs []tools.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		var schema anthropic.ToolInputSchemaParam
		if def.InputSchema != nil {
			schema.Properties = def.InputSchema.Properties
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        def.Name,
			Description: anthropic.String(def.Description),
			InputSchema: schema,
		}})
	}
	return out
}
