package tools_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/petasbytes/stock-agent/console"
	"github.com/petasbytes/stock-agent/tools"
)

func noopTool(name string) tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        name,
		Description: "test tool",
		Function: func(_ context.Context, _ json.RawMessage) (*string, error) {
			s := "ok:" + name
			return &s, nil
		},
	}
}

func TestRegistry_SpecsKeepRegistrationOrder(t *testing.T) {
	reg, err := tools.NewRegistry(noopTool("alpha"), noopTool("beta"), noopTool("gamma"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	want := []string{"alpha", "beta", "gamma"}
	for call := 0; call < 3; call++ {
		specs := reg.Specs()
		if len(specs) != len(want) {
			t.Fatalf("call %d: %d specs", call, len(specs))
		}
		for i, w := range want {
			if specs[i].Name != w {
				t.Fatalf("call %d: specs[%d] = %q want %q", call, i, specs[i].Name, w)
			}
		}
		// Callers get a copy; scribbling on it must not change the registry.
		specs[0].Name = "mutated"
	}
}

func TestRegistry_DuplicateName_Rejected(t *testing.T) {
	if _, err := tools.NewRegistry(noopTool("dup"), noopTool("dup")); err == nil {
		t.Fatal("expected error for duplicate tool name")
	}
}

func TestRegistry_DispatchKnown(t *testing.T) {
	reg, err := tools.NewRegistry(noopTool("alpha"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	res, err := reg.Dispatch(context.Background(), "alpha", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res == nil || *res != "ok:alpha" {
		t.Fatalf("result: got %v", res)
	}
}

func TestRegistry_DispatchUnknown_NoResultNoError(t *testing.T) {
	reg, err := tools.NewRegistry(noopTool("alpha"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	res, err := reg.Dispatch(context.Background(), "no_such_tool", json.RawMessage(`{"x":1}`))
	if err != nil {
		t.Fatalf("unknown tool must not error, got: %v", err)
	}
	if res != nil {
		t.Fatalf("unknown tool must have no result, got %q", *res)
	}
}

func TestDefaultTools_NamesOrderAndSchemas(t *testing.T) {
	defs := tools.DefaultTools(&stubMarket{}, console.New())

	want := []struct {
		name     string
		required string
	}{
		{"get_stock_price", "ticker_symbol"},
		{"get_company_ceo", "ticker_symbol"},
		{"find_ticker_symbol", "company_name"},
		{"ask_user_for_clarification", "question_to_user"},
	}
	if len(defs) != len(want) {
		t.Fatalf("tool count: got %d want %d", len(defs), len(want))
	}
	for i, w := range want {
		if defs[i].Name != w.name {
			t.Fatalf("defs[%d] = %q want %q", i, defs[i].Name, w.name)
		}
		if defs[i].Description == "" {
			t.Fatalf("%s: empty description", w.name)
		}
		schema := defs[i].InputSchema
		if schema == nil {
			t.Fatalf("%s: nil input schema", w.name)
		}
		foundRequired := false
		for _, r := range schema.Required {
			if r == w.required {
				foundRequired = true
			}
		}
		if !foundRequired {
			t.Fatalf("%s: schema does not require %q (required: %v)", w.name, w.required, schema.Required)
		}
	}
}
