package memory_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/petasbytes/stock-agent/memory"
)

func TestConstructors_Shapes(t *testing.T) {
	u := memory.UserMessage("hi")
	if u.Role != memory.RoleUser || u.Content != "hi" {
		t.Fatalf("user message: %+v", u)
	}

	a := memory.AssistantMessage("hello")
	if a.Role != memory.RoleAssistant || a.Content != "hello" || len(a.ToolCalls) != 0 {
		t.Fatalf("assistant message: %+v", a)
	}

	call := memory.ToolCall{ID: "call_1", Name: "get_stock_price", Arguments: `{"ticker_symbol":"AAPL"}`}
	inv := memory.AssistantToolCall(call)
	if inv.Role != memory.RoleAssistant {
		t.Fatalf("invocation role: %q", inv.Role)
	}
	if inv.Content != "" {
		t.Fatalf("invocation content should be empty, got %q", inv.Content)
	}
	if len(inv.ToolCalls) != 1 || inv.ToolCalls[0] != call {
		t.Fatalf("invocation calls: %+v", inv.ToolCalls)
	}

	res := memory.ToolResult("call_1", "get_stock_price", "150.00 USD")
	if res.Role != memory.RoleTool || res.ToolCallID != "call_1" || res.ToolName != "get_stock_price" || res.Content != "150.00 USD" {
		t.Fatalf("tool result: %+v", res)
	}
}

func TestConversation_AppendOrder(t *testing.T) {
	conv := memory.NewConversation()
	if conv.Len() != 0 {
		t.Fatalf("new conversation not empty: %d", conv.Len())
	}

	call := memory.ToolCall{ID: "call_1", Name: "get_stock_price", Arguments: `{"ticker_symbol":"AAPL"}`}
	want := []memory.Message{
		memory.UserMessage("What is Apple trading at?"),
		memory.AssistantToolCall(call),
		memory.ToolResult("call_1", "get_stock_price", "150.00 USD"),
		memory.AssistantMessage("Apple is trading at 150.00 USD."),
	}
	for _, m := range want {
		conv.Append(m)
	}

	if conv.Len() != len(want) {
		t.Fatalf("len: got %d want %d", conv.Len(), len(want))
	}
	if diff := cmp.Diff(want, conv.Messages()); diff != "" {
		t.Fatalf("transcript mismatch (-want +got):\n%s", diff)
	}
}

func TestConversation_MessagesReturnsCopy(t *testing.T) {
	conv := memory.NewConversation()
	conv.Append(memory.UserMessage("hi"))

	got := conv.Messages()
	got[0].Content = "mutated"

	if conv.Messages()[0].Content != "hi" {
		t.Fatal("mutating the returned slice leaked into the conversation")
	}
}
