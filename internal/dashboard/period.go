package dashboard

import (
	"errors"
	"fmt"

	"stockdash/internal/domain"
)

// Period button backgrounds.
const (
	ButtonColor       = "rgba(87, 102, 202, 0.447)"
	ButtonActiveColor = "rgba(19, 35, 142, 0.447)"
)

// ErrUnknownPeriod is returned when a period is not among the buttons.
var ErrUnknownPeriod = errors.New("unknown period")

// PeriodButton is one period selector. The active button is disabled and
// highlighted.
type PeriodButton struct {
	Period   string `json:"period"`
	Active   bool   `json:"active"`
	Disabled bool   `json:"disabled"`
	Color    string `json:"color"`
}

func newButton(period string, active bool) PeriodButton {
	b := PeriodButton{Period: period, Color: ButtonColor}
	if active {
		b.Active = true
		b.Disabled = true
		b.Color = ButtonActiveColor
	}
	return b
}

// BuildPeriodButtons builds one button per period in wire order and returns
// the active period. defaultPeriod is active when present, otherwise the
// first period is.
func BuildPeriodButtons(set *domain.PeriodicSeriesSet, defaultPeriod string) ([]PeriodButton, string) {
	if set == nil || len(set.Periods) == 0 {
		return nil, ""
	}
	active := set.Periods[0]
	if set.Has(defaultPeriod) {
		active = defaultPeriod
	}
	buttons := make([]PeriodButton, 0, len(set.Periods))
	for _, p := range set.Periods {
		buttons = append(buttons, newButton(p, p == active))
	}
	return buttons, active
}

// SelectPeriod returns a copy of buttons with period active and every other
// button idle.
func SelectPeriod(buttons []PeriodButton, period string) ([]PeriodButton, error) {
	found := false
	out := make([]PeriodButton, len(buttons))
	for i, b := range buttons {
		out[i] = newButton(b.Period, b.Period == period)
		if b.Period == period {
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPeriod, period)
	}
	return out, nil
}

// ActivePeriod returns the period of the active button, or "".
func ActivePeriod(buttons []PeriodButton) string {
	for _, b := range buttons {
		if b.Active {
			return b.Period
		}
	}
	return ""
}
