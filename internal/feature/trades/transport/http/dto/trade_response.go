// Package dto defines the JSON shapes of the trades API.
package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/trades/domain/entity"
)

// TradeResponse is the full representation of a trade.
type TradeResponse struct {
	ID                  uint      `json:"id"`
	Symbol              string    `json:"symbol"`
	TradeType           string    `json:"trade_type"`
	Quantity            int64     `json:"quantity"`
	Price               string    `json:"price"`
	TradeDate           time.Time `json:"trade_date"`
	Notes               *string   `json:"notes"`
	TotalValue          string    `json:"total_value"`
	FormattedTotalValue string    `json:"formatted_total_value"`
	FormattedPrice      string    `json:"formatted_price"`
}

// TradeListItem is the compact representation used in listings (no notes).
type TradeListItem struct {
	ID                  uint      `json:"id"`
	Symbol              string    `json:"symbol"`
	TradeType           string    `json:"trade_type"`
	Quantity            int64     `json:"quantity"`
	Price               string    `json:"price"`
	TradeDate           time.Time `json:"trade_date"`
	TotalValue          string    `json:"total_value"`
	FormattedTotalValue string    `json:"formatted_total_value"`
	FormattedPrice      string    `json:"formatted_price"`
}

// TradeListResponse is one page of a listing.
type TradeListResponse struct {
	Count    int64           `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []TradeListItem `json:"results"`
}

// SymbolStatResponse is the per-symbol block of a summary.
type SymbolStatResponse struct {
	Symbol         string      `json:"symbol"`
	BuyQuantity    int64       `json:"buy_quantity"`
	SellQuantity   int64       `json:"sell_quantity"`
	NetQuantity    int64       `json:"net_quantity"`
	TotalBuyValue  json.Number `json:"total_buy_value"`
	TotalSellValue json.Number `json:"total_sell_value"`
}

// SummaryResponse is the portfolio summary. Money values are JSON numbers with two decimals.
type SummaryResponse struct {
	TotalTrades    int                  `json:"total_trades"`
	TotalBuyValue  json.Number          `json:"total_buy_value"`
	TotalSellValue json.Number          `json:"total_sell_value"`
	NetValue       json.Number          `json:"net_value"`
	Symbols        []string             `json:"symbols"`
	SymbolStats    []SymbolStatResponse `json:"symbol_stats"`
}

// SymbolsResponse lists every traded symbol.
type SymbolsResponse struct {
	Symbols []string `json:"symbols"`
}

func fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// NewTradeResponse builds the detail view of t.
func NewTradeResponse(t *entity.Trade) TradeResponse {
	return TradeResponse{
		ID:                  t.ID,
		Symbol:              t.Symbol,
		TradeType:           string(t.Side),
		Quantity:            t.Quantity,
		Price:               fixed(t.Price),
		TradeDate:           t.TradeDate.UTC(),
		Notes:               t.Notes,
		TotalValue:          fixed(t.TotalValue),
		FormattedTotalValue: t.FormattedTotalValue(),
		FormattedPrice:      t.FormattedPrice(),
	}
}

// NewTradeListItem builds the listing view of t.
func NewTradeListItem(t *entity.Trade) TradeListItem {
	return TradeListItem{
		ID:                  t.ID,
		Symbol:              t.Symbol,
		TradeType:           string(t.Side),
		Quantity:            t.Quantity,
		Price:               fixed(t.Price),
		TradeDate:           t.TradeDate.UTC(),
		TotalValue:          fixed(t.TotalValue),
		FormattedTotalValue: t.FormattedTotalValue(),
		FormattedPrice:      t.FormattedPrice(),
	}
}

// NewSummaryResponse converts an aggregate into its JSON form.
func NewSummaryResponse(s entity.Summary) SummaryResponse {
	out := SummaryResponse{
		TotalTrades:    s.TotalTrades,
		TotalBuyValue:  number(s.TotalBuyValue),
		TotalSellValue: number(s.TotalSellValue),
		NetValue:       number(s.NetValue),
		Symbols:        s.Symbols,
		SymbolStats:    make([]SymbolStatResponse, 0, len(s.SymbolStats)),
	}
	if out.Symbols == nil {
		out.Symbols = []string{}
	}
	for _, st := range s.SymbolStats {
		out.SymbolStats = append(out.SymbolStats, SymbolStatResponse{
			Symbol:         st.Symbol,
			BuyQuantity:    st.BuyQuantity,
			SellQuantity:   st.SellQuantity,
			NetQuantity:    st.NetQuantity,
			TotalBuyValue:  number(st.TotalBuyValue),
			TotalSellValue: number(st.TotalSellValue),
		})
	}
	return out
}
