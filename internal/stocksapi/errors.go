package stocksapi

import (
	"fmt"
)

// NetworkError reports a transport failure or a non-2xx response.
// StatusCode is zero when no response arrived.
type NetworkError struct {
	URL        string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("stocks api: GET %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("stocks api: GET %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError reports a response whose shape does not match the envelope or
// the per-symbol payload.
type DecodeError struct {
	Endpoint string
	Reason   string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stocks api: decode %s: %s: %v", e.Endpoint, e.Reason, e.Err)
	}
	return fmt.Sprintf("stocks api: decode %s: %s", e.Endpoint, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// MissingDataError reports a well-formed response that has no entry for the
// requested symbol.
type MissingDataError struct {
	Endpoint string
	Symbol   string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("stocks api: %s has no data for %q", e.Endpoint, e.Symbol)
}
