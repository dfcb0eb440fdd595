package provider_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/petasbytes/stock-agent/internal/provider"
	"github.com/petasbytes/stock-agent/memory"
	"github.com/petasbytes/stock-agent/tools"
)

type capture struct {
	method string
	url    string
	body   []byte
}

type fakeTransport struct {
	respStatus int
	respBody   []byte
	captured   *capture
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var b []byte
	if req.Body != nil {
		b, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}
	if f.captured != nil {
		f.captured.method = req.Method
		f.captured.url = req.URL.String()
		f.captured.body = b
	}
	resp := &http.Response{
		StatusCode: f.respStatus,
		Body:       io.NopCloser(bytes.NewReader(f.respBody)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func newOpenAIWithTransport(rt http.RoundTripper) *provider.OpenAI {
	client := openai.NewClient(
		option.WithHTTPClient(&http.Client{Transport: rt}),
		option.WithAPIKey("test-key"),
	)
	return provider.NewOpenAI(client, "")
}

type priceArgs struct {
	TickerSymbol string `json:"ticker_symbol" jsonschema_description:"The stock ticker symbol"`
}

func priceToolDef() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_stock_price",
		Description: "Fetches the current stock price for the given ticker symbol",
		InputSchema: tools.GenerateSchema[priceArgs](),
	}
}

const openAITerminalBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "moonshotai/Kimi-K2-Instruct-0905",
  "choices": [{"index": 0, "finish_reason": "stop",
    "message": {"role": "assistant", "content": "Apple is trading at 150.00 USD."}}]
}`

const openAIToolCallBody = `{
  "id": "chatcmpl-2",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "moonshotai/Kimi-K2-Instruct-0905",
  "choices": [{"index": 0, "finish_reason": "tool_calls",
    "message": {"role": "assistant", "content": null,
      "tool_calls": [{"id": "call_abc", "type": "function",
        "function": {"name": "get_stock_price", "arguments": "{\"ticker_symbol\":\"AAPL\"}"}}]}}]
}`

func TestOpenAI_Complete_SendsSystemHistoryToolsAndAutoChoice(t *testing.T) {
	capReq := &capture{}
	p := newOpenAIWithTransport(&fakeTransport{respStatus: 200, respBody: []byte(openAITerminalBody), captured: capReq})

	req := provider.Request{
		System: "You are a helpful stock information assistant.",
		Messages: []memory.Message{
			memory.UserMessage("What is Apple trading at?"),
			memory.AssistantToolCall(memory.ToolCall{ID: "call_1", Name: "get_stock_price", Arguments: `{"ticker_symbol":"AAPL"}`}),
			memory.ToolResult("call_1", "get_stock_price", "150.00 USD"),
		},
		Tools: []tools.ToolDefinition{priceToolDef()},
	}

	resp, err := p.Complete(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.Content != "Apple is trading at 150.00 USD." {
		t.Fatalf("content: %q", resp.Content)
	}
	if len(resp.ToolCalls) != 0 {
		t.Fatalf("unexpected tool calls: %+v", resp.ToolCalls)
	}

	var rb struct {
		Model    string `json:"model"`
		Messages []struct {
			Role       string `json:"role"`
			Content    any    `json:"content"`
			ToolCallID string `json:"tool_call_id"`
			ToolCalls  []struct {
				ID       string `json:"id"`
				Type     string `json:"type"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"messages"`
		Tools []struct {
			Type     string `json:"type"`
			Function struct {
				Name        string         `json:"name"`
				Description string         `json:"description"`
				Parameters  map[string]any `json:"parameters"`
			} `json:"function"`
		} `json:"tools"`
		ToolChoice any `json:"tool_choice"`
	}
	if err := json.Unmarshal(capReq.body, &rb); err != nil {
		t.Fatalf("unmarshal body: %v\nbody=%s", err, capReq.body)
	}

	if rb.Model != provider.DefaultOpenAIModel {
		t.Fatalf("model: %q", rb.Model)
	}
	if len(rb.Messages) != 4 {
		t.Fatalf("message count: got %d want 4\nbody=%s", len(rb.Messages), capReq.body)
	}
	if rb.Messages[0].Role != "system" {
		t.Fatalf("messages[0]: %+v", rb.Messages[0])
	}
	if rb.Messages[1].Role != "user" || rb.Messages[1].Content != "What is Apple trading at?" {
		t.Fatalf("messages[1]: %+v", rb.Messages[1])
	}
	inv := rb.Messages[2]
	if inv.Role != "assistant" || len(inv.ToolCalls) != 1 {
		t.Fatalf("messages[2]: %+v", inv)
	}
	if inv.Content != nil {
		t.Fatalf("invocation message must carry no content, got %v", inv.Content)
	}
	call := inv.ToolCalls[0]
	if call.ID != "call_1" || call.Type != "function" || call.Function.Name != "get_stock_price" || call.Function.Arguments != `{"ticker_symbol":"AAPL"}` {
		t.Fatalf("tool call on wire: %+v", call)
	}
	res := rb.Messages[3]
	if res.Role != "tool" || res.ToolCallID != "call_1" || res.Content != "150.00 USD" {
		t.Fatalf("messages[3]: %+v", res)
	}

	if len(rb.Tools) != 1 || rb.Tools[0].Type != "function" {
		t.Fatalf("tools on wire: %+v", rb.Tools)
	}
	fn := rb.Tools[0].Function
	if fn.Name != "get_stock_price" || fn.Description == "" {
		t.Fatalf("tool function: %+v", fn)
	}
	if fn.Parameters["type"] != "object" {
		t.Fatalf("parameters type: %v", fn.Parameters["type"])
	}
	props, ok := fn.Parameters["properties"].(map[string]any)
	if !ok || props["ticker_symbol"] == nil {
		t.Fatalf("parameters properties: %v", fn.Parameters["properties"])
	}

	if choice, ok := rb.ToolChoice.(string); !ok || choice != "auto" {
		t.Fatalf("tool_choice: %v", rb.ToolChoice)
	}
}

func TestOpenAI_Complete_ParsesToolCall(t *testing.T) {
	p := newOpenAIWithTransport(&fakeTransport{respStatus: 200, respBody: []byte(openAIToolCallBody)})

	resp, err := p.Complete(context.Background(), provider.Request{
		Messages: []memory.Message{memory.UserMessage("price of AAPL?")},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.Content != "" {
		t.Fatalf("content should be empty on a tool-call turn, got %q", resp.Content)
	}
	if len(resp.ToolCalls) != 1 {
		t.Fatalf("tool calls: %+v", resp.ToolCalls)
	}
	tc := resp.ToolCalls[0]
	if tc.ID != "call_abc" || tc.Name != "get_stock_price" || tc.Arguments != `{"ticker_symbol":"AAPL"}` {
		t.Fatalf("tool call: %+v", tc)
	}
}

func TestOpenAI_Complete_NoChoices_ReturnsError(t *testing.T) {
	body := `{"id": "chatcmpl-3", "object": "chat.completion", "created": 1700000000, "model": "m", "choices": []}`
	p := newOpenAIWithTransport(&fakeTransport{respStatus: 200, respBody: []byte(body)})

	if _, err := p.Complete(context.Background(), provider.Request{
		Messages: []memory.Message{memory.UserMessage("hi")},
	}); err == nil {
		t.Fatal("expected error for response without choices")
	}
}

func TestOpenAI_Complete_APIError_ReturnsError(t *testing.T) {
	body := `{"error": {"message": "model not found", "type": "invalid_request_error"}}`
	p := newOpenAIWithTransport(&fakeTransport{respStatus: 400, respBody: []byte(body)})

	if _, err := p.Complete(context.Background(), provider.Request{
		Messages: []memory.Message{memory.UserMessage("hi")},
	}); err == nil {
		t.Fatal("expected error for API failure")
	}
}
