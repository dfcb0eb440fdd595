package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/petasbytes/stock-agent/console"
	"github.com/petasbytes/stock-agent/internal/market"
)

// GetCompanyCEOInput defines the input schema for the get_company_ceo tool.
type GetCompanyCEOInput struct {
	TickerSymbol string `json:"ticker_symbol" jsonschema_description:"The stock ticker symbol"`
}

var GetCompanyCEOInputSchema = GenerateSchema[GetCompanyCEOInput]()

// NewGetCompanyCEO returns the get_company_ceo tool bound to data and out.
func NewGetCompanyCEO(data MarketData, out *console.Console) ToolDefinition {
	return ToolDefinition{
		Name:        NameGetCompanyCEO,
		Description: "Fetches the name of the CEO for the company associated with the ticker symbol",
		InputSchema: GetCompanyCEOInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (*string, error) {
			var in GetCompanyCEOInput
			if err := json.Unmarshal(input, &in); err != nil {
				return nil, err
			}
			if in.TickerSymbol == "" {
				return nil, fmt.Errorf("ticker_symbol is required")
			}
			name, err := data.CEO(ctx, in.TickerSymbol)
			if errors.Is(err, market.ErrNoData) {
				return nil, nil
			}
			if err != nil {
				out.Printf("Error fetching CEO info: %v", err)
				return nil, nil
			}
			return &name, nil
		},
	}
}
