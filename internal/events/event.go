// Package events carries dashboard commits to remote rendering targets. The
// Publisher turns Surface and Canvas calls into Events, the Hub fans them out
// and keeps a snapshot for late subscribers, and the WebSocket and gRPC
// servers deliver them.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"stockdash/internal/chart"
	"stockdash/internal/dashboard"
)

// Type names an event kind.
type Type string

const (
	TypeList         Type = "list"
	TypePeriods      Type = "periods"
	TypeSummary      Type = "summary"
	TypeChartCreate  Type = "chart.create"
	TypeChartDestroy Type = "chart.destroy"
	TypeError        Type = "error"
)

// Page containers each event addresses.
const (
	ContainerList    = "stock-list"
	ContainerPeriods = "period-list"
	ContainerInfo    = "stock-info"
)

// Event is one UI update.
type Event struct {
	ID      string    `json:"id"`
	Seq     uint64    `json:"seq"`
	Type    Type      `json:"type"`
	Target  string    `json:"target,omitempty"`
	Time    time.Time `json:"time"`
	Payload any       `json:"payload"`
}

// PeriodsPayload is the payload of a periods event.
type PeriodsPayload struct {
	Symbol  string                   `json:"symbol"`
	Buttons []dashboard.PeriodButton `json:"buttons"`
}

// ChartPayload is the payload of chart.create and chart.destroy events.
// Chart is nil on destroy.
type ChartPayload struct {
	Handle string       `json:"handle"`
	Chart  *chart.Chart `json:"chart,omitempty"`
}

// ErrorPayload is the payload of an error event.
type ErrorPayload struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

// ToStruct converts e to a protobuf Struct through its JSON form.
func (e Event) ToStruct() (*structpb.Struct, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", e.Type, err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal event %s: %w", e.Type, err)
	}
	return structpb.NewStruct(m)
}

// FromStruct rebuilds an Event from its protobuf form. The payload comes
// back as generic JSON values.
func FromStruct(s *structpb.Struct) (Event, error) {
	b, err := json.Marshal(s.AsMap())
	if err != nil {
		return Event{}, fmt.Errorf("marshal struct: %w", err)
	}
	var e Event
	if err := json.Unmarshal(b, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	return e, nil
}
