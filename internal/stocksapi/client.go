// Package stocksapi is the client for the remote stocks API. It wraps three
// read endpoints: price series, company profiles and book value stats. Each
// endpoint returns every symbol at once inside a singleton-array envelope:
//
//	{"stocksData": [ { "AAPL": {...}, "MSFT": {...}, "_id": "..." } ]}
//
// The client never retries or caches; a failed call is terminal for the user
// action that issued it.
package stocksapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Endpoints holds the path of each remote endpoint relative to the base URL.
type Endpoints struct {
	Series   string
	Profiles string
	Stats    string
}

// DefaultEndpoints returns the paths served by the public stocks API.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Series:   "/getstocksdata",
		Profiles: "/getstocksprofiledata",
		Stats:    "/getstockstatsdata",
	}
}

// Client provides access to the stocks REST API.
type Client struct {
	baseURL    string
	endpoints  Endpoints
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: DefaultEndpoints(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithEndpoints overrides the endpoint paths. Empty fields keep their
// defaults.
func WithEndpoints(e Endpoints) ClientOption {
	return func(c *Client) {
		if e.Series != "" {
			c.endpoints.Series = e.Series
		}
		if e.Profiles != "" {
			c.endpoints.Profiles = e.Profiles
		}
		if e.Stats != "" {
			c.endpoints.Stats = e.Stats
		}
	}
}
