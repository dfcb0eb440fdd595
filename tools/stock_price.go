package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/petasbytes/stock-agent/console"
	"github.com/petasbytes/stock-agent/internal/market"
)

// GetStockPriceInput defines the input schema for the get_stock_price tool.
type GetStockPriceInput struct {
	TickerSymbol string `json:"ticker_symbol" jsonschema_description:"The stock ticker symbol (e.g., 'AAPL', 'MSFT')"`
}

var GetStockPriceInputSchema = GenerateSchema[GetStockPriceInput]()

// NewGetStockPrice returns the get_stock_price tool bound to data and out.
// Lookup failures become a diagnostic line on out and an empty result; a
// symbol the source simply has no price for stays silent.
func NewGetStockPrice(data MarketData, out *console.Console) ToolDefinition {
	return ToolDefinition{
		Name:        NameGetStockPrice,
		Description: "Fetches the current stock price for the given ticker symbol",
		InputSchema: GetStockPriceInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (*string, error) {
			var in GetStockPriceInput
			if err := json.Unmarshal(input, &in); err != nil {
				return nil, err
			}
			if in.TickerSymbol == "" {
				return nil, fmt.Errorf("ticker_symbol is required")
			}
			price, currency, err := data.Quote(ctx, in.TickerSymbol)
			if errors.Is(err, market.ErrNoData) {
				return nil, nil
			}
			if err != nil {
				out.Printf("Error fetching stock price: %v", err)
				return nil, nil
			}
			s := fmt.Sprintf("%.2f %s", price, currency)
			return &s, nil
		},
	}
}
