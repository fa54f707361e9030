package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"stockdash/internal/domain"
)

// StockRow is one line of the ticker list.
type StockRow struct {
	Symbol      string `json:"symbol"`
	BookValue   string `json:"bookValue"`
	Change      string `json:"change"`
	ChangeClass string `json:"changeClass"`

	Stat domain.StockStat `json:"-"`
}

// BuildStockRows renders every stat in the order the set holds them.
func BuildStockRows(stats *domain.StockStatSet) []StockRow {
	if stats == nil {
		return nil
	}
	rows := make([]StockRow, 0, stats.Len())
	for _, sym := range stats.Symbols {
		st := stats.Stats[sym]
		rows = append(rows, StockRow{
			Symbol:      sym,
			BookValue:   FormatBookValue(st.BookValue),
			Change:      FormatPercent(st.ProfitPercent),
			ChangeClass: ChangeClass(st.ProfitPercent),
			Stat:        st,
		})
	}
	return rows
}

// SortMode selects the ticker list order.
type SortMode string

const (
	SortAPI       SortMode = "api"
	SortSymbol    SortMode = "symbol"
	SortBookValue SortMode = "bookvalue"
	SortChange    SortMode = "change"
)

// ErrUnknownSort is returned by ParseSortMode for an unrecognised mode.
var ErrUnknownSort = errors.New("unknown sort mode")

// SortModes lists the accepted modes, default first.
func SortModes() []SortMode {
	return []SortMode{SortAPI, SortSymbol, SortBookValue, SortChange}
}

// ParseSortMode maps a user string to a SortMode. Empty means SortAPI.
func ParseSortMode(s string) (SortMode, error) {
	if s == "" {
		return SortAPI, nil
	}
	m := SortMode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SortModes() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
}

// SortStockRows returns a sorted copy of rows. Book value and change sort
// descending; ties keep their API order.
func SortStockRows(rows []StockRow, mode SortMode) []StockRow {
	out := make([]StockRow, len(rows))
	copy(out, rows)
	switch mode {
	case SortSymbol:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Symbol < out[j].Symbol
		})
	case SortBookValue:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Stat.BookValue > out[j].Stat.BookValue
		})
	case SortChange:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Stat.ProfitPercent > out[j].Stat.ProfitPercent
		})
	}
	return out
}
