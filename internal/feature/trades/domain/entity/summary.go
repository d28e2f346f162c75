package entity

import "github.com/shopspring/decimal"

// Summary is the aggregate view over a set of trades.
type Summary struct {
	TotalTrades    int
	TotalBuyValue  decimal.Decimal
	TotalSellValue decimal.Decimal
	NetValue       decimal.Decimal // TotalBuyValue - TotalSellValue
	Symbols        []string
	SymbolStats    []SymbolStat
}

// SymbolStat holds per-symbol position totals.
type SymbolStat struct {
	Symbol         string
	BuyQuantity    int64
	SellQuantity   int64
	NetQuantity    int64 // BuyQuantity - SellQuantity
	TotalBuyValue  decimal.Decimal
	TotalSellValue decimal.Decimal
}
