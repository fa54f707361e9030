package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"stockdash/internal/chart"
	"stockdash/internal/domain"
	"stockdash/internal/stocksapi"
)

// Session errors.
var (
	ErrNoActiveSymbol = errors.New("no active symbol")
	ErrSuperseded     = errors.New("superseded by a newer action")
)

// Source supplies stock data. *stocksapi.Client satisfies it.
type Source interface {
	FetchSeries(ctx context.Context, symbol string) (*domain.PeriodicSeriesSet, error)
	FetchSummary(ctx context.Context, symbol string) (*domain.StockSummary, error)
	FetchAllStats(ctx context.Context) (*domain.StockStatSet, error)
}

// Surface receives rendered UI pieces. Commits are made while the session
// lock is held and arrive in UI order.
type Surface interface {
	CommitList(rows []StockRow)
	CommitPeriods(symbol string, buttons []PeriodButton)
	CommitSummary(panel SummaryPanel)
	CommitError(action string, err error)
}

// UIState is a snapshot of what the dashboard currently shows.
type UIState struct {
	Symbol  string         `json:"symbol"`
	Period  string         `json:"period"`
	ChartID string         `json:"chartId,omitempty"`
	Buttons []PeriodButton `json:"buttons"`
	Rows    []StockRow     `json:"rows"`
	Sort    SortMode       `json:"sort"`
	Summary *SummaryPanel  `json:"summary,omitempty"`
	// PeriodRenders counts charts drawn by period selection since Symbol
	// became active.
	PeriodRenders int `json:"periodRenders"`

	chart  chart.Handle
	series *domain.PeriodicSeriesSet
}

// Chart returns the live chart handle, or nil.
func (s UIState) Chart() chart.Handle { return s.chart }

// Series returns the series set of the active symbol, or nil.
func (s UIState) Series() *domain.PeriodicSeriesSet { return s.series }

// scope is the cancellation scope of one Show call.
type scope struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
}

// Session is one dashboard viewer. Its mutex stands in for the UI thread:
// every state change and every Surface or Canvas commit happens under it.
type Session struct {
	source        Source
	surface       Surface
	renderer      *chart.Renderer
	defaultPeriod string
	logger        *slog.Logger

	mu      sync.Mutex
	state   UIState
	scope   *scope
	listSeq uint64
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDefaultPeriod sets the period shown first when a symbol opens.
func WithDefaultPeriod(p string) SessionOption {
	return func(s *Session) {
		if p != "" {
			s.defaultPeriod = p
		}
	}
}

// WithListSort sets the list order used by Reload until LoadList picks
// another.
func WithListSort(m SortMode) SessionOption {
	return func(s *Session) {
		if m != "" {
			s.state.Sort = m
		}
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession creates a session reading from source and committing to
// surface. renderer draws on the chart canvas.
func NewSession(source Source, surface Surface, renderer *chart.Renderer, opts ...SessionOption) *Session {
	s := &Session{
		source:        source,
		surface:       surface,
		renderer:      renderer,
		defaultPeriod: domain.DefaultPeriod,
		logger:        slog.Default(),
		state:         UIState{Sort: SortAPI},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadList fetches all stats and commits the ticker list in mode order.
// mode becomes the order Reload uses. When a newer LoadList started
// meanwhile, nothing is committed and ErrSuperseded is returned.
func (s *Session) LoadList(ctx context.Context, mode SortMode) ([]StockRow, error) {
	s.mu.Lock()
	s.state.Sort = mode
	s.listSeq++
	seq := s.listSeq
	s.mu.Unlock()

	stats, err := s.source.FetchAllStats(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.listSeq {
		return nil, ErrSuperseded
	}
	if err != nil {
		err = fmt.Errorf("load list: %w", err)
		s.surface.CommitError("list", err)
		return nil, err
	}

	rows := SortStockRows(BuildStockRows(stats), mode)
	s.state.Rows = rows
	s.surface.CommitList(rows)
	s.logger.Info("stock list loaded", "symbols", len(rows), "sort", string(mode))
	return rows, nil
}

// Reload fetches the ticker list again in the order last passed to
// LoadList.
func (s *Session) Reload(ctx context.Context) ([]StockRow, error) {
	s.mu.Lock()
	mode := s.state.Sort
	s.mu.Unlock()
	return s.LoadList(ctx, mode)
}

// Show opens symbol: its chart at the default period, its period buttons
// and its summary panel. The series fetch runs alongside the summary and
// stats fetches. A later Show cancels this one; the superseded call commits
// nothing further and returns ErrSuperseded.
func (s *Session) Show(ctx context.Context, symbol string) error {
	sc := s.begin(ctx)
	defer sc.cancel()

	log := s.logger.With("symbol", symbol, "action", sc.id)
	log.Debug("show started")

	g, gctx := errgroup.WithContext(sc.ctx)
	g.Go(func() error {
		set, err := s.source.FetchSeries(gctx, symbol)
		if err != nil {
			return fmt.Errorf("fetch series %s: %w", symbol, err)
		}
		return s.commitSeries(sc, symbol, set)
	})
	g.Go(func() error {
		var (
			summary *domain.StockSummary
			stat    domain.StockStat
		)
		inner, ictx := errgroup.WithContext(gctx)
		inner.Go(func() error {
			var err error
			summary, err = s.source.FetchSummary(ictx, symbol)
			if err != nil {
				return fmt.Errorf("fetch summary %s: %w", symbol, err)
			}
			return nil
		})
		inner.Go(func() error {
			stats, err := s.source.FetchAllStats(ictx)
			if err != nil {
				return fmt.Errorf("fetch stats: %w", err)
			}
			st, ok := stats.Get(symbol)
			if !ok {
				return &stocksapi.MissingDataError{Endpoint: "stats", Symbol: symbol}
			}
			stat = st
			return nil
		})
		if err := inner.Wait(); err != nil {
			return err
		}
		return s.commitSummary(sc, BuildSummaryPanel(summary, stat))
	})

	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isCurrent(sc) {
		log.Debug("show superseded")
		return ErrSuperseded
	}
	if err != nil {
		log.Warn("show failed", "error", err)
		s.surface.CommitError("show", err)
		return err
	}
	log.Info("show completed", "period", s.state.Period)
	return nil
}

// begin cancels the running Show, if any, and opens a new scope.
func (s *Session) begin(ctx context.Context) *scope {
	cctx, cancel := context.WithCancel(ctx)
	sc := &scope{id: uuid.NewString(), ctx: cctx, cancel: cancel}

	s.mu.Lock()
	if s.scope != nil {
		s.scope.cancel()
	}
	s.scope = sc
	s.mu.Unlock()
	return sc
}

// isCurrent reports whether sc is still the latest scope. Callers hold mu.
func (s *Session) isCurrent(sc *scope) bool { return s.scope == sc }

func (s *Session) commitSeries(sc *scope, symbol string, set *domain.PeriodicSeriesSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isCurrent(sc) {
		return ErrSuperseded
	}

	buttons, active := BuildPeriodButtons(set, s.defaultPeriod)
	series, _ := set.Get(active)
	h, _, err := s.renderer.Render(s.state.chart, symbol, active, series)
	s.state.chart = h
	s.state.ChartID = handleID(h)
	if err != nil {
		return fmt.Errorf("render %s %s: %w", symbol, active, err)
	}

	s.state.Symbol = symbol
	s.state.Period = active
	s.state.Buttons = buttons
	s.state.series = set
	s.state.PeriodRenders = 0
	s.surface.CommitPeriods(symbol, buttons)
	return nil
}

func (s *Session) commitSummary(sc *scope, panel SummaryPanel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isCurrent(sc) {
		return ErrSuperseded
	}
	s.state.Summary = &panel
	s.surface.CommitSummary(panel)
	return nil
}

// SelectPeriod redraws the active symbol's chart at period from the series
// already fetched. Selecting the active period does nothing.
func (s *Session) SelectPeriod(period string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.series == nil {
		return ErrNoActiveSymbol
	}
	if period == s.state.Period {
		return nil
	}

	buttons, err := SelectPeriod(s.state.Buttons, period)
	if err != nil {
		s.surface.CommitError("period", err)
		return err
	}
	series, ok := s.state.series.Get(period)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownPeriod, period)
		s.surface.CommitError("period", err)
		return err
	}

	symbol := s.state.Symbol
	h, _, err := s.renderer.Render(s.state.chart, symbol, period, series)
	s.state.chart = h
	s.state.ChartID = handleID(h)
	if err != nil {
		err = fmt.Errorf("render %s %s: %w", symbol, period, err)
		s.surface.CommitError("period", err)
		return err
	}

	s.state.Buttons = buttons
	s.state.Period = period
	s.state.PeriodRenders++
	s.surface.CommitPeriods(symbol, buttons)
	s.logger.Debug("period selected", "symbol", symbol, "period", period)
	return nil
}

// State returns a copy of the current UI state.
func (s *Session) State() UIState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Buttons = append([]PeriodButton(nil), s.state.Buttons...)
	st.Rows = append([]StockRow(nil), s.state.Rows...)
	if s.state.Summary != nil {
		p := *s.state.Summary
		st.Summary = &p
	}
	return st
}

// Close cancels any running Show and destroys the live chart.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scope != nil {
		s.scope.cancel()
		s.scope = nil
	}
	if s.state.chart == nil {
		return nil
	}
	err := s.state.chart.Destroy()
	s.state.chart = nil
	s.state.ChartID = ""
	return err
}

func handleID(h chart.Handle) string {
	if h == nil {
		return ""
	}
	return h.ID()
}
