// Package stockdash is a Go SDK for a running stockdash-server. Actions taken
// through it drive the server's dashboard session, so every connected page
// and watcher follows them.
package stockdash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client provides a Go SDK for interacting with the stockdash-server API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new stockdash API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// StockRow is one line of the ticker list.
type StockRow struct {
	Symbol      string `json:"symbol"`
	BookValue   string `json:"bookValue"`
	Change      string `json:"change"`
	ChangeClass string `json:"changeClass"`
}

// PeriodButton is one period selector of the open stock.
type PeriodButton struct {
	Period   string `json:"period"`
	Active   bool   `json:"active"`
	Disabled bool   `json:"disabled"`
	Color    string `json:"color"`
}

// SummaryPanel is the summary of the open stock.
type SummaryPanel struct {
	Symbol      string `json:"symbol"`
	BookValue   string `json:"bookValue"`
	Change      string `json:"change"`
	ChangeClass string `json:"changeClass"`
	Summary     string `json:"summary"`
}

// State is what the server's dashboard currently shows.
type State struct {
	Symbol        string         `json:"symbol"`
	Period        string         `json:"period"`
	ChartID       string         `json:"chartId"`
	Buttons       []PeriodButton `json:"buttons"`
	Rows          []StockRow     `json:"rows"`
	Sort          string         `json:"sort"`
	Summary       *SummaryPanel  `json:"summary"`
	PeriodRenders int            `json:"periodRenders"`
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stockdash: status %d: %s", e.StatusCode, e.Message)
}

// Stocks reloads the ticker list in sort order. An empty sort uses the
// server's default.
func (c *Client) Stocks(ctx context.Context, sort string) ([]StockRow, error) {
	path := "/api/stocks"
	if sort != "" {
		path += "?sort=" + url.QueryEscape(sort)
	}
	var resp struct {
		Rows []StockRow `json:"rows"`
	}
	if err := c.do(ctx, http.MethodGet, path, &resp); err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

// Show opens symbol on the server's dashboard.
func (c *Client) Show(ctx context.Context, symbol string) (*State, error) {
	st := &State{}
	if err := c.do(ctx, http.MethodPost, "/api/stocks/"+url.PathEscape(symbol)+"/show", st); err != nil {
		return nil, err
	}
	return st, nil
}

// SelectPeriod switches the open stock's chart to period.
func (c *Client) SelectPeriod(ctx context.Context, period string) (*State, error) {
	st := &State{}
	if err := c.do(ctx, http.MethodPost, "/api/periods/"+url.PathEscape(period), st); err != nil {
		return nil, err
	}
	return st, nil
}

// State returns the server's current dashboard state.
func (c *Client) State(ctx context.Context) (*State, error) {
	st := &State{}
	if err := c.do(ctx, http.MethodGet, "/api/state", st); err != nil {
		return nil, err
	}
	return st, nil
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
