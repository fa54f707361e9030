package stocksapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// get performs a single GET against path and returns the body. Any status
// outside 2xx is a NetworkError.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	fullURL := c.baseURL + path
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: fullURL, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("stocks api request",
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{
			URL:        fullURL,
			StatusCode: resp.StatusCode,
			Body:       body,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	return body, nil
}
