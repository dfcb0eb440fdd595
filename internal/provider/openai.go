package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/petasbytes/stock-agent/memory"
	"github.com/petasbytes/stock-agent/tools"
)

// Defaults matching the reference deployment: an OpenAI-compatible router
// fronting a Kimi instruct model.
const (
	DefaultOpenAIModel   = "moonshotai/Kimi-K2-Instruct-0905"
	DefaultOpenAIBaseURL = "https://router.huggingface.co/v1"
	DefaultOpenAIKeyEnv  = "OPENAI_API_KEY"
)

// OpenAI speaks the Chat Completions tool-calling dialect.
type OpenAI struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAI wraps an already-built SDK client. Tests inject a client with a
// fake transport here.
func NewOpenAI(client openai.Client, model string) *OpenAI {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{client: client, model: openai.ChatModel(model)}
}

func newOpenAIFromOptions(opts Options) (*OpenAI, error) {
	keyEnv := opts.APIKeyEnv
	if keyEnv == "" {
		keyEnv = DefaultOpenAIKeyEnv
	}
	apiKey := os.Getenv(keyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required: set %s", keyEnv)
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return NewOpenAI(client, opts.Model), nil
}

// Complete sends one chat-completion round with the full tool set and the
// tool choice left to the model.
func (p *OpenAI) Complete(ctx context.Context, req Request) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model:    p.model,
		Messages: buildOpenAIMessages(req),
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: openai.String("auto"),
		},
	}
	if len(req.Tools) > 0 {
		ts, err := buildOpenAITools(req.Tools)
		if err != nil {
			return nil, err
		}
		params.Tools = ts
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: response has no choices")
	}

	msg := completion.Choices[0].Message
	resp := &Response{Content: msg.Content}
	for _, call := range msg.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, memory.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return resp, nil
}

func buildOpenAIMessages(req Request) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		out = append(out, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case memory.RoleUser:
			out = append(out, openai.UserMessage(m.Content))
		case memory.RoleAssistant:
			if len(m.ToolCalls) == 0 {
				out = append(out, openai.AssistantMessage(m.Content))
				continue
			}
			calls := make([]openai.ChatCompletionMessageToolCallParam, 0, len(m.ToolCalls))
			for _, tc := range m.ToolCalls {
				calls = append(calls, openai.ChatCompletionMessageToolCallParam{
					ID: tc.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				})
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{ToolCalls: calls},
			})
		case memory.RoleTool:
			out = append(out, openai.ToolMessage(m.Content, m.ToolCallID))
		}
	}
	return out
}

func buildOpenAITools(defs []tools.ToolDefinition) ([]openai.ChatCompletionToolParam, error) {
	out := make([]openai.ChatCompletionToolParam, 0, len(defs))
	for _, def := range defs {
		params, err := schemaToParameters(def.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", def.Name, err)
		}
		out = append(out, openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  params,
			},
		})
	}
	return out, nil
}

// schemaToParameters flattens a reflected schema into the loose map the
// OpenAI SDK expects.
func schemaToParameters(schema *jsonschema.Schema) (shared.FunctionParameters, error) {
	if schema == nil {
		return shared.FunctionParameters{"type": "object"}, nil
	}
	b, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return shared.FunctionParameters(m), nil
}
