package entity

import "time"

// TradeFilter narrows a trade query. Zero-valued fields impose no constraint.
type TradeFilter struct {
	Symbol    string     // exact match, case-insensitive
	Side      Side       // exact match
	StartDate *time.Time // inclusive, compared on the UTC calendar date
	EndDate   *time.Time // inclusive, compared on the UTC calendar date
	Search    string     // case-insensitive substring of symbol or notes
}

// Page selects a 1-based page of Size results.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows skipped before this page.
func (p Page) Offset() int {
	if p.Number <= 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// TradePage is one page of a filtered trade listing.
type TradePage struct {
	Trades []Trade
	Total  int64 // matching trades across all pages
	Page   Page
}

// HasNext reports whether another page follows this one.
func (p TradePage) HasNext() bool {
	return int64(p.Page.Offset()+len(p.Trades)) < p.Total
}

// HasPrevious reports whether a page precedes this one.
func (p TradePage) HasPrevious() bool {
	return p.Page.Number > 1
}
