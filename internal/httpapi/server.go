package httpapi

import (
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"stockdash/internal/chart"
	"stockdash/internal/dashboard"
	"stockdash/internal/events"
	"stockdash/internal/stocksapi"
)

//go:embed static
var staticFiles embed.FS

// DashboardServer serves the dashboard page, its JSON actions and the event
// WebSocket.
type DashboardServer struct {
	session  *dashboard.Session
	hub      *events.Hub
	listSort dashboard.SortMode
	log      *slog.Logger
}

// NewDashboardServer creates a new dashboard HTTP server. listSort is the
// configured default order reported by /api/sort-modes. A stocks request
// naming no order reuses the session's current one.
func NewDashboardServer(session *dashboard.Session, hub *events.Hub, listSort dashboard.SortMode, log *slog.Logger) *DashboardServer {
	if log == nil {
		log = slog.Default()
	}
	if listSort == "" {
		listSort = dashboard.SortAPI
	}
	return &DashboardServer{
		session:  session,
		hub:      hub,
		listSort: listSort,
		log:      log,
	}
}

// RegisterRoutes registers all routes on the given mux.
func (s *DashboardServer) RegisterRoutes(mux *http.ServeMux) {
	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("GET /", http.FileServerFS(static))
	mux.HandleFunc("GET /api/stocks", s.handleStocks)
	mux.HandleFunc("POST /api/stocks/{symbol}/show", s.handleShow)
	mux.HandleFunc("POST /api/periods/{period}", s.handlePeriod)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/sort-modes", s.handleSortModes)
	mux.Handle("GET /ws", events.ServeWS(s.hub, s.log))
}

// Handler returns an http.Handler with CORS middleware.
func (s *DashboardServer) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}

// statusFor maps an action error to its HTTP status.
func statusFor(err error) int {
	var (
		netErr     *stocksapi.NetworkError
		decodeErr  *stocksapi.DecodeError
		missingErr *stocksapi.MissingDataError
	)
	switch {
	case errors.As(err, &netErr), errors.As(err, &decodeErr), errors.Is(err, chart.ErrInvalidSeries):
		return http.StatusBadGateway
	case errors.As(err, &missingErr), errors.Is(err, dashboard.ErrUnknownPeriod):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrNoActiveSymbol), errors.Is(err, dashboard.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, dashboard.ErrUnknownSort):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *DashboardServer) handleStocks(w http.ResponseWriter, r *http.Request) {
	mode := s.session.State().Sort
	if q := r.URL.Query().Get("sort"); q != "" {
		m, err := dashboard.ParseSortMode(q)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		mode = m
	}

	rows, err := s.session.LoadList(r.Context(), mode)
	if err != nil {
		s.log.Warn("loading stock list", "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, StocksResponse{Sort: string(mode), Rows: rows})
}

func (s *DashboardServer) handleShow(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol required")
		return
	}
	if err := s.session.Show(r.Context(), symbol); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, s.session.State())
}

func (s *DashboardServer) handlePeriod(w http.ResponseWriter, r *http.Request) {
	if err := s.session.SelectPeriod(r.PathValue("period")); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, s.session.State())
}

func (s *DashboardServer) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.session.State())
}

func (s *DashboardServer) handleSortModes(w http.ResponseWriter, _ *http.Request) {
	modes := dashboard.SortModes()
	out := make([]string, len(modes))
	for i, m := range modes {
		out[i] = string(m)
	}
	writeJSON(w, SortModesResponse{Default: string(s.listSort), Modes: out})
}
