// Package httpapi provides the HTTP front door of the dashboard: the page,
// JSON actions that drive the session and the WebSocket event feed.
package httpapi

import "stockdash/internal/dashboard"

// StocksResponse is the body of GET /api/stocks.
type StocksResponse struct {
	Sort string               `json:"sort"`
	Rows []dashboard.StockRow `json:"rows"`
}

// SortModesResponse is the body of GET /api/sort-modes.
type SortModesResponse struct {
	Default string   `json:"default"`
	Modes   []string `json:"modes"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
