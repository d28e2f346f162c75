package dto

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/trades/usecase"
)

// TradeRequest is the body of POST, PUT and PATCH /trades.
// Absent and null fields are both treated as not supplied.
type TradeRequest struct {
	Symbol    *string         `json:"symbol"`
	TradeType *string         `json:"trade_type"`
	Quantity  *int64          `json:"quantity"`
	Price     json.RawMessage `json:"price"` // JSON number or decimal string
	Notes     *string         `json:"notes"`

	// Server-controlled fields; supplying any of them is an error.
	ID         json.RawMessage `json:"id"`
	TradeDate  json.RawMessage `json:"trade_date"`
	TotalValue json.RawMessage `json:"total_value"`
}

// ToInput converts the request into a usecase input.
// A price that is not a number yields a *usecase.ValidationError.
func (r *TradeRequest) ToInput() (usecase.TradeInput, error) {
	in := usecase.TradeInput{
		Symbol:   r.Symbol,
		Side:     r.TradeType,
		Quantity: r.Quantity,
		Notes:    r.Notes,
	}

	if supplied(r.Price) {
		p, ok := parseDecimal(r.Price)
		if !ok {
			return in, usecase.NewValidationError("price", "A valid number is required.")
		}
		in.Price = &p
	}

	for _, f := range []struct {
		name string
		raw  json.RawMessage
	}{
		{"id", r.ID},
		{"trade_date", r.TradeDate},
		{"total_value", r.TotalValue},
	} {
		if supplied(f.raw) {
			in.ReadOnly = append(in.ReadOnly, f.name)
		}
	}
	return in, nil
}

func supplied(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// parseDecimal accepts 150.5, "150.50" and " 150.50 ".
func parseDecimal(raw json.RawMessage) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	s := string(raw)
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Decimal{}, false
		}
		s = string(bytes.TrimSpace([]byte(s)))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
