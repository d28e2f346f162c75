package usecase

import (
	"sort"

	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/trades/domain/entity"
)

// Summarize folds trades into portfolio totals and per-symbol positions.
// The result depends only on the multiset of trades: symbols and their stats
// are sorted by symbol. An empty input yields zero totals and empty lists.
func Summarize(trades []entity.Trade) entity.Summary {
	s := entity.Summary{
		TotalTrades:    len(trades),
		TotalBuyValue:  decimal.Zero,
		TotalSellValue: decimal.Zero,
	}

	bySymbol := make(map[string]*entity.SymbolStat)
	for _, t := range trades {
		st, ok := bySymbol[t.Symbol]
		if !ok {
			st = &entity.SymbolStat{
				Symbol:         t.Symbol,
				TotalBuyValue:  decimal.Zero,
				TotalSellValue: decimal.Zero,
			}
			bySymbol[t.Symbol] = st
		}

		switch t.Side {
		case entity.SideBuy:
			st.BuyQuantity += t.Quantity
			st.TotalBuyValue = st.TotalBuyValue.Add(t.TotalValue)
			s.TotalBuyValue = s.TotalBuyValue.Add(t.TotalValue)
		case entity.SideSell:
			st.SellQuantity += t.Quantity
			st.TotalSellValue = st.TotalSellValue.Add(t.TotalValue)
			s.TotalSellValue = s.TotalSellValue.Add(t.TotalValue)
		}
	}
	s.NetValue = s.TotalBuyValue.Sub(s.TotalSellValue)

	s.Symbols = make([]string, 0, len(bySymbol))
	for sym := range bySymbol {
		s.Symbols = append(s.Symbols, sym)
	}
	sort.Strings(s.Symbols)

	s.SymbolStats = make([]entity.SymbolStat, 0, len(s.Symbols))
	for _, sym := range s.Symbols {
		st := bySymbol[sym]
		st.NetQuantity = st.BuyQuantity - st.SellQuantity
		s.SymbolStats = append(s.SymbolStats, *st)
	}
	return s
}
