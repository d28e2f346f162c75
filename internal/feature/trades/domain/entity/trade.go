// Package entity defines the domain models for the trades feature.
package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"portfolio_backend/internal/shared/money"
)

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide converts s to a Side, ignoring case and surrounding spaces.
// The second result is false when s names neither side.
func ParseSide(s string) (Side, bool) {
	side := Side(strings.ToUpper(strings.TrimSpace(s)))
	return side, side.Valid()
}

// Valid reports whether s is BUY or SELL.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Trade is one buy or sell of Quantity shares of Symbol at Price.
// TotalValue is always Quantity * Price; TradeDate is assigned once on creation.
type Trade struct {
	ID         uint
	Symbol     string
	Side       Side
	Quantity   int64
	Price      decimal.Decimal
	TotalValue decimal.Decimal
	TradeDate  time.Time
	Notes      *string
}

// ComputeTotal returns Quantity * Price.
func (t Trade) ComputeTotal() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Quantity))
}

// FormattedPrice returns the price as a display string, e.g. "$150.50".
func (t Trade) FormattedPrice() string {
	return money.FormatUSD(t.Price)
}

// FormattedTotalValue returns the total value as a display string, e.g. "$1,505.00".
func (t Trade) FormattedTotalValue() string {
	return money.FormatUSD(t.TotalValue)
}

// String returns a one-line description such as "BUY 10 AAPL @ $150.50".
func (t Trade) String() string {
	return fmt.Sprintf("%s %d %s @ %s", t.Side, t.Quantity, t.Symbol, t.FormattedPrice())
}
