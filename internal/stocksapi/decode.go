package stocksapi

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"stockdash/internal/domain"
)

// Envelope keys wrapping each endpoint's symbol mapping.
const (
	seriesEnvelope  = "stocksData"
	profileEnvelope = "stocksProfileData"
	statsEnvelope   = "stocksStatsData"
)

// unwrapEnvelope returns the symbol mapping inside {"<key>": [ {...} ]}.
// Only the first array element is read.
func unwrapEnvelope(endpoint string, body []byte, key string) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, &DecodeError{Endpoint: endpoint, Reason: "invalid JSON"}
	}
	arr := gjson.GetBytes(body, key)
	if !arr.Exists() || !arr.IsArray() {
		return gjson.Result{}, &DecodeError{Endpoint: endpoint, Reason: fmt.Sprintf("missing %q array", key)}
	}
	first := arr.Get("0")
	if !first.Exists() {
		return gjson.Result{}, &DecodeError{Endpoint: endpoint, Reason: fmt.Sprintf("empty %q array", key)}
	}
	if !first.IsObject() {
		return gjson.Result{}, &DecodeError{Endpoint: endpoint, Reason: fmt.Sprintf("%q[0] is not an object", key)}
	}
	return first, nil
}

// lookupSymbol finds key in an object without interpreting gjson path
// syntax, so symbols containing dots or wildcards are matched literally.
// The metadata key never matches.
func lookupSymbol(m gjson.Result, key string) (gjson.Result, bool) {
	if key == domain.MetadataKey {
		return gjson.Result{}, false
	}
	var (
		found gjson.Result
		ok    bool
	)
	m.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found, ok = v, true
			return false
		}
		return true
	})
	return found, ok
}

// decodeSeries converts one symbol's {period: {timeStamp, value}} object.
// Periods keep document order.
func decodeSeries(endpoint, symbol string, entry gjson.Result) (*domain.PeriodicSeriesSet, error) {
	if !entry.IsObject() {
		return nil, &DecodeError{Endpoint: endpoint, Reason: fmt.Sprintf("%s: series entry is not an object", symbol)}
	}

	set := domain.NewPeriodicSeriesSet(symbol)
	var decodeErr error
	entry.ForEach(func(k, v gjson.Result) bool {
		period := k.String()
		if period == domain.MetadataKey {
			return true
		}
		if !v.IsObject() {
			decodeErr = &DecodeError{Endpoint: endpoint, Reason: fmt.Sprintf("%s period %q is not an object", symbol, period)}
			return false
		}
		var ts domain.TimeSeries
		if err := json.Unmarshal([]byte(v.Raw), &ts); err != nil {
			decodeErr = &DecodeError{Endpoint: endpoint, Reason: fmt.Sprintf("%s period %q", symbol, period), Err: err}
			return false
		}
		if err := ts.Validate(); err != nil {
			decodeErr = &DecodeError{Endpoint: endpoint, Reason: fmt.Sprintf("%s period %q", symbol, period), Err: err}
			return false
		}
		set.Add(period, ts)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	if len(set.Periods) == 0 {
		return nil, &DecodeError{Endpoint: endpoint, Reason: fmt.Sprintf("%s has no periods", symbol)}
	}
	return set, nil
}

// decodeSummary converts one symbol's {summary} object.
func decodeSummary(endpoint, symbol string, entry gjson.Result) (*domain.StockSummary, error) {
	if !entry.IsObject() {
		return nil, &DecodeError{Endpoint: endpoint, Reason: fmt.Sprintf("%s: profile entry is not an object", symbol)}
	}
	summary := &domain.StockSummary{}
	if err := json.Unmarshal([]byte(entry.Raw), summary); err != nil {
		return nil, &DecodeError{Endpoint: endpoint, Reason: symbol, Err: err}
	}
	summary.Symbol = symbol
	return summary, nil
}

// decodeStats converts the whole {symbol: {bookValue, profit}} mapping.
func decodeStats(endpoint string, m gjson.Result) (*domain.StockStatSet, error) {
	set := domain.NewStockStatSet()
	var decodeErr error
	m.ForEach(func(k, v gjson.Result) bool {
		symbol := k.String()
		if symbol == domain.MetadataKey {
			return true
		}
		if !v.IsObject() {
			decodeErr = &DecodeError{Endpoint: endpoint, Reason: fmt.Sprintf("%s: stat entry is not an object", symbol)}
			return false
		}
		var stat domain.StockStat
		if err := json.Unmarshal([]byte(v.Raw), &stat); err != nil {
			decodeErr = &DecodeError{Endpoint: endpoint, Reason: symbol, Err: err}
			return false
		}
		stat.Symbol = symbol
		set.Add(stat)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return set, nil
}
