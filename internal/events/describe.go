package events

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Describe renders a one-line summary of e for consoles. It reads the
// payload through its JSON form, so it works on events rebuilt by
// FromStruct as well as on typed ones.
func Describe(e Event) string {
	b, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Sprintf("%s (undecodable payload: %v)", e.Type, err)
	}
	p := gjson.ParseBytes(b)

	switch e.Type {
	case TypeList:
		return fmt.Sprintf("list: %d stocks", p.Get("#").Int())
	case TypePeriods:
		return fmt.Sprintf("periods: %s active=%s of %d",
			p.Get("symbol").String(),
			p.Get(`buttons.#(active==true).period`).String(),
			p.Get("buttons.#").Int())
	case TypeSummary:
		return fmt.Sprintf("summary: %s book=%s change=%s",
			p.Get("symbol").String(), p.Get("bookValue").String(), p.Get("change").String())
	case TypeChartCreate:
		return fmt.Sprintf("chart.create: %s %s %s points=%d handle=%s",
			e.Target,
			p.Get("chart.symbol").String(),
			p.Get("chart.period").String(),
			p.Get("chart.config.data.labels.#").Int(),
			p.Get("handle").String())
	case TypeChartDestroy:
		return fmt.Sprintf("chart.destroy: %s handle=%s", e.Target, p.Get("handle").String())
	case TypeError:
		return fmt.Sprintf("error: %s: %s", p.Get("action").String(), p.Get("message").String())
	default:
		return fmt.Sprintf("%s: %s", e.Type, p.Raw)
	}
}
