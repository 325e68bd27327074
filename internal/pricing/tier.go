package pricing

import (
	"math"

	"github.com/md-rashed-zaman/courtside/internal/model"
)

// tiers maps a standard booking duration to the court field holding its flat
// price. Durations without a tier (or with the tier unset) are prorated from
// the hourly rate.
var tiers = map[int]func(model.Court) *float64{
	60:  func(c model.Court) *float64 { return &c.PricePerHour },
	90:  func(c model.Court) *float64 { return c.PricePerHour90 },
	120: func(c model.Court) *float64 { return c.PricePerHour120 },
}

// QuickPrice returns the tiered price for a duration when the court defines
// one, otherwise a linear proration of the hourly rate rounded to cents.
// It ignores price schedules; callers wanting schedule-aware pricing use
// QuoteInterval.
func QuickPrice(court model.Court, durationMinutes int) float64 {
	if tier, ok := tiers[durationMinutes]; ok {
		if p := tier(court); p != nil {
			return *p
		}
	}
	return round2(court.PricePerHour / 60 * float64(durationMinutes))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
