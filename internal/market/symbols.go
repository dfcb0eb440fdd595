package market

import (
	"fmt"
	"strings"
)

const maxSymbolLen = 12

// NormalizeSymbol trims and uppercases a ticker symbol and checks it
// against the ticker charset before it is spliced into a request path.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", fmt.Errorf("empty ticker symbol")
	}
	if len(s) > maxSymbolLen {
		return "", fmt.Errorf("ticker symbol too long: %q", symbol)
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '-' || r == '^' || r == '=':
		default:
			return "", fmt.Errorf("invalid ticker symbol: %q", symbol)
		}
	}
	return s, nil
}
