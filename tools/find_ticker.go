package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/petasbytes/stock-agent/console"
	"github.com/petasbytes/stock-agent/internal/market"
)

// FindTickerSymbolInput defines the input schema for the find_ticker_symbol tool.
type FindTickerSymbolInput struct {
	CompanyName string `json:"company_name" jsonschema_description:"The name of the company"`
}

var FindTickerSymbolInputSchema = GenerateSchema[FindTickerSymbolInput]()

// NewFindTickerSymbol returns the find_ticker_symbol tool bound to data and out.
func NewFindTickerSymbol(data MarketData, out *console.Console) ToolDefinition {
	return ToolDefinition{
		Name:        NameFindTickerSymbol,
		Description: "Tries to identify the stock ticker symbol for a given company name",
		InputSchema: FindTickerSymbolInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (*string, error) {
			var in FindTickerSymbolInput
			if err := json.Unmarshal(input, &in); err != nil {
				return nil, err
			}
			if in.CompanyName == "" {
				return nil, fmt.Errorf("company_name is required")
			}
			symbol, err := data.ResolveTicker(ctx, in.CompanyName)
			if errors.Is(err, market.ErrNoData) {
				return nil, nil
			}
			if err != nil {
				out.Printf("Error searching for ticker: %v", err)
				return nil, nil
			}
			return &symbol, nil
		},
	}
}
