package tools

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Tool names as advertised to the model.
const (
	NameGetStockPrice    = "get_stock_price"
	NameGetCompanyCEO    = "get_company_ceo"
	NameFindTickerSymbol = "find_ticker_symbol"
	NameAskUser          = "ask_user_for_clarification"
)

// ToolFunc executes one tool invocation against its raw JSON arguments.
// A nil result with nil error means the tool ran but found nothing; the
// loop renders that as "No result found". A non-nil error marks the
// invocation itself as unusable and fails the whole query.
type ToolFunc func(ctx context.Context, input json.RawMessage) (*string, error)

// ToolDefinition couples a tool's wire schema with its implementation.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Function    ToolFunc
}

// MarketData is the slice of market lookups the stock tools need.
// Implementations report "the source answered but has nothing" as
// market.ErrNoData so the tools can stay quiet about it.
type MarketData interface {
	Quote(ctx context.Context, symbol string) (price float64, currency string, err error)
	CEO(ctx context.Context, symbol string) (string, error)
	ResolveTicker(ctx context.Context, companyName string) (string, error)
}

// GenerateSchema derives the JSON input schema for T from its struct tags.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(&v)
}
