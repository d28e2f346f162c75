package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseSide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   Side
		wantOK bool
	}{
		{"BUY", SideBuy, true},
		{"buy", SideBuy, true},
		{" Sell ", SideSell, true},
		{"HOLD", Side("HOLD"), false},
		{"", Side(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			side, ok := ParseSide(tt.in)
			assert.Equal(t, tt.want, side)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestTrade_ComputeTotal(t *testing.T) {
	t.Parallel()

	tr := Trade{Quantity: 3, Price: decimal.RequireFromString("0.10")}
	assert.True(t, decimal.RequireFromString("0.30").Equal(tr.ComputeTotal()), "got %s", tr.ComputeTotal())
}

func TestTrade_String(t *testing.T) {
	t.Parallel()

	tr := Trade{
		Symbol:     "AAPL",
		Side:       SideBuy,
		Quantity:   10,
		Price:      decimal.RequireFromString("150.50"),
		TotalValue: decimal.RequireFromString("1505.00"),
	}

	assert.Equal(t, "BUY 10 AAPL @ $150.50", tr.String())
	assert.Equal(t, "$150.50", tr.FormattedPrice())
	assert.Equal(t, "$1,505.00", tr.FormattedTotalValue())
}

func TestTradePage_Navigation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		page         TradePage
		wantNext     bool
		wantPrevious bool
	}{
		{"single page", TradePage{Trades: make([]Trade, 3), Total: 3, Page: Page{Number: 1, Size: 20}}, false, false},
		{"first of two", TradePage{Trades: make([]Trade, 2), Total: 3, Page: Page{Number: 1, Size: 2}}, true, false},
		{"last of two", TradePage{Trades: make([]Trade, 1), Total: 3, Page: Page{Number: 2, Size: 2}}, false, true},
		{"empty", TradePage{Total: 0, Page: Page{Number: 1, Size: 20}}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantNext, tt.page.HasNext())
			assert.Equal(t, tt.wantPrevious, tt.page.HasPrevious())
		})
	}
}
