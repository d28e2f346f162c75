// Package cli implements the tradectl admin commands for trade data.
package cli

import (
	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/trades/usecase"
)

type sampleTrade struct {
	symbol   string
	side     string
	quantity int64
	price    string
	notes    string
}

var samples = []sampleTrade{
	{"AAPL", "BUY", 10, "150.50", "Initial Apple position"},
	{"GOOGL", "BUY", 5, "2800.00", "Google stock purchase"},
	{"AAPL", "SELL", 3, "160.00", "Partial profit taking"},
	{"MSFT", "BUY", 8, "300.00", "Microsoft position"},
}

// SampleTrades returns the demo portfolio used by "tradectl seed".
// Its summary is buy 17905.00, sell 480.00, net 17425.00.
func SampleTrades() []usecase.TradeInput {
	out := make([]usecase.TradeInput, 0, len(samples))
	for _, s := range samples {
		price := decimal.RequireFromString(s.price)
		out = append(out, usecase.TradeInput{
			Symbol:   &s.symbol,
			Side:     &s.side,
			Quantity: &s.quantity,
			Price:    &price,
			Notes:    &s.notes,
		})
	}
	return out
}
