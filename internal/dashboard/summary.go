package dashboard

import "stockdash/internal/domain"

// SummaryPanel is the detail panel next to the chart.
type SummaryPanel struct {
	Symbol      string `json:"symbol"`
	BookValue   string `json:"bookValue"`
	Change      string `json:"change"`
	ChangeClass string `json:"changeClass"`
	Summary     string `json:"summary"`
}

// BuildSummaryPanel renders the panel for one symbol. Values are shown as
// received, unlike the rounded list rows.
func BuildSummaryPanel(summary *domain.StockSummary, stat domain.StockStat) SummaryPanel {
	p := SummaryPanel{
		Symbol:      stat.Symbol,
		BookValue:   FormatRawBookValue(stat.BookValue),
		Change:      FormatRawPercent(stat.ProfitPercent),
		ChangeClass: ChangeClass(stat.ProfitPercent),
	}
	if summary != nil {
		p.Summary = summary.SummaryText
		if p.Symbol == "" {
			p.Symbol = summary.Symbol
		}
	}
	return p
}
