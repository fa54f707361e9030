// Package domain defines the value types shared by the data client, the chart
// pipeline and the dashboard: price series per period, stock summaries and
// per-symbol book value statistics.
package domain

import (
	"errors"
	"fmt"
)

// DefaultPeriod is the period shown first when a symbol is opened.
const DefaultPeriod = "1mo"

// MetadataKey is the bookkeeping key the remote API mixes into every
// symbol and period mapping. It never names a symbol or a period.
const MetadataKey = "_id"

// Series validation errors.
var (
	ErrEmptySeries         = errors.New("series is empty")
	ErrLengthMismatch      = errors.New("timestamps and values differ in length")
	ErrUnorderedTimestamps = errors.New("timestamps are not strictly increasing")
)

// TimeSeries is an ordered run of (timestamp, value) pairs for one symbol and
// period. Timestamps are Unix seconds.
type TimeSeries struct {
	Timestamps []int64   `json:"timeStamp"`
	Values     []float64 `json:"value"`
}

// Len returns the number of points in the series.
func (s TimeSeries) Len() int { return len(s.Values) }

// Validate checks that the series is non-empty, that both slices have the
// same length and that timestamps strictly increase.
func (s TimeSeries) Validate() error {
	if len(s.Timestamps) == 0 && len(s.Values) == 0 {
		return ErrEmptySeries
	}
	if len(s.Timestamps) != len(s.Values) {
		return fmt.Errorf("%w: %d timestamps, %d values", ErrLengthMismatch, len(s.Timestamps), len(s.Values))
	}
	for i := 1; i < len(s.Timestamps); i++ {
		if s.Timestamps[i] <= s.Timestamps[i-1] {
			return fmt.Errorf("%w: index %d", ErrUnorderedTimestamps, i)
		}
	}
	return nil
}

// PeriodicSeriesSet holds every period's series for one symbol. Periods keeps
// the keys in the order the API returned them.
type PeriodicSeriesSet struct {
	Symbol  string
	Periods []string
	Series  map[string]TimeSeries
}

// NewPeriodicSeriesSet returns an empty set for symbol.
func NewPeriodicSeriesSet(symbol string) *PeriodicSeriesSet {
	return &PeriodicSeriesSet{
		Symbol: symbol,
		Series: make(map[string]TimeSeries),
	}
}

// Add appends a period. A repeated period replaces the earlier series but
// keeps its original position.
func (p *PeriodicSeriesSet) Add(period string, s TimeSeries) {
	if _, ok := p.Series[period]; !ok {
		p.Periods = append(p.Periods, period)
	}
	p.Series[period] = s
}

// Get returns the series for period.
func (p *PeriodicSeriesSet) Get(period string) (TimeSeries, bool) {
	s, ok := p.Series[period]
	return s, ok
}

// Has reports whether period is present.
func (p *PeriodicSeriesSet) Has(period string) bool {
	_, ok := p.Series[period]
	return ok
}

// StockSummary is the free-text company profile of a symbol.
type StockSummary struct {
	Symbol      string `json:"symbol"`
	SummaryText string `json:"summary"`
}

// StockStat holds the book value and profit percentage of a symbol.
type StockStat struct {
	Symbol        string  `json:"symbol"`
	BookValue     float64 `json:"bookValue"`
	ProfitPercent float64 `json:"profit"`
}

// Positive reports whether the stat counts as a gain. Zero is not a gain.
func (s StockStat) Positive() bool { return s.ProfitPercent > 0 }

// StockStatSet maps every known symbol to its stat. Symbols keeps the order
// the API returned them in.
type StockStatSet struct {
	Symbols []string
	Stats   map[string]StockStat
}

// NewStockStatSet returns an empty stat set.
func NewStockStatSet() *StockStatSet {
	return &StockStatSet{Stats: make(map[string]StockStat)}
}

// Add appends a stat keyed by its symbol.
func (s *StockStatSet) Add(stat StockStat) {
	if _, ok := s.Stats[stat.Symbol]; !ok {
		s.Symbols = append(s.Symbols, stat.Symbol)
	}
	s.Stats[stat.Symbol] = stat
}

// Get returns the stat for symbol.
func (s *StockStatSet) Get(symbol string) (StockStat, bool) {
	st, ok := s.Stats[symbol]
	return st, ok
}

// Len returns the number of symbols in the set.
func (s *StockStatSet) Len() int { return len(s.Symbols) }
