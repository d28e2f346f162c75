package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"portfolio_backend/internal/feature/trades/domain/entity"
	"portfolio_backend/internal/shared/money"
)

// SummaryMarkdown renders s as a markdown report with one table for the totals
// and one row per symbol.
func SummaryMarkdown(title string, s entity.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString("| | |\n|:--|--:|\n")
	fmt.Fprintf(&b, "| **Trades** | %d |\n", s.TotalTrades)
	fmt.Fprintf(&b, "| Bought | %s |\n", money.FormatUSD(s.TotalBuyValue))
	fmt.Fprintf(&b, "| Sold | %s |\n", money.FormatUSD(s.TotalSellValue))
	fmt.Fprintf(&b, "| **Net** | **%s** |\n", money.FormatUSD(s.NetValue))

	if len(s.SymbolStats) == 0 {
		b.WriteString("\n_No trades._\n")
		return b.String()
	}

	b.WriteString("\n## Positions\n\n")
	b.WriteString("| Symbol | Bought | Sold | Net | Buy value | Sell value |\n")
	b.WriteString("|:--|--:|--:|--:|--:|--:|\n")
	for _, st := range s.SymbolStats {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %s | %s |\n",
			st.Symbol, st.BuyQuantity, st.SellQuantity, st.NetQuantity,
			money.FormatUSD(st.TotalBuyValue), money.FormatUSD(st.TotalSellValue))
	}
	return b.String()
}

// TradesMarkdown renders trades as a markdown list, newest first as given.
func TradesMarkdown(trades []entity.Trade) string {
	var b strings.Builder
	for _, t := range trades {
		fmt.Fprintf(&b, "- `#%d` %s %s = %s", t.ID, t.TradeDate.UTC().Format("2006-01-02"), t.String(), t.FormattedTotalValue())
		if t.Notes != nil && *t.Notes != "" {
			fmt.Fprintf(&b, " _%s_", *t.Notes)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderMarkdown styles md for the terminal. An empty style returns md unchanged.
func renderMarkdown(md, style string) (string, error) {
	if style == "" {
		return md, nil
	}
	out, err := glamour.Render(md, style)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
