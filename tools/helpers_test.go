package tools_test

import (
	"context"
	"sync"
)

// stubMarket implements tools.MarketData with per-call hooks.
type stubMarket struct {
	quote  func(ctx context.Context, symbol string) (float64, string, error)
	ceo    func(ctx context.Context, symbol string) (string, error)
	ticker func(ctx context.Context, companyName string) (string, error)
}

func (s *stubMarket) Quote(ctx context.Context, symbol string) (float64, string, error) {
	return s.quote(ctx, symbol)
}

func (s *stubMarket) CEO(ctx context.Context, symbol string) (string, error) {
	return s.ceo(ctx, symbol)
}

func (s *stubMarket) ResolveTicker(ctx context.Context, companyName string) (string, error) {
	return s.ticker(ctx, companyName)
}

// sinkRecorder captures console output lines for assertions.
type sinkRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (s *sinkRecorder) add(line string) {
	s.mu.Lock()
	s.lines = append(s.lines, line)
	s.mu.Unlock()
}

func (s *sinkRecorder) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}
