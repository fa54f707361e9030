package stocksapi

import (
	"context"

	"stockdash/internal/domain"
)

// FetchSeries returns every period's price series for symbol.
func (c *Client) FetchSeries(ctx context.Context, symbol string) (*domain.PeriodicSeriesSet, error) {
	endpoint := c.endpoints.Series
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	m, err := unwrapEnvelope(endpoint, body, seriesEnvelope)
	if err != nil {
		return nil, err
	}
	entry, ok := lookupSymbol(m, symbol)
	if !ok {
		return nil, &MissingDataError{Endpoint: endpoint, Symbol: symbol}
	}
	return decodeSeries(endpoint, symbol, entry)
}

// FetchSummary returns the company profile text for symbol.
func (c *Client) FetchSummary(ctx context.Context, symbol string) (*domain.StockSummary, error) {
	endpoint := c.endpoints.Profiles
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	m, err := unwrapEnvelope(endpoint, body, profileEnvelope)
	if err != nil {
		return nil, err
	}
	entry, ok := lookupSymbol(m, symbol)
	if !ok {
		return nil, &MissingDataError{Endpoint: endpoint, Symbol: symbol}
	}
	return decodeSummary(endpoint, symbol, entry)
}

// FetchAllStats returns the book value and profit of every known symbol.
func (c *Client) FetchAllStats(ctx context.Context) (*domain.StockStatSet, error) {
	endpoint := c.endpoints.Stats
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	m, err := unwrapEnvelope(endpoint, body, statsEnvelope)
	if err != nil {
		return nil, err
	}
	return decodeStats(endpoint, m)
}
