package availability

import (
	"errors"

	"github.com/md-rashed-zaman/courtside/internal/timeutil"
)

var (
	ErrInvalidDuration  = errors.New("duration must be a positive number of minutes")
	ErrInvalidDate      = errors.New("date must be formatted YYYY-MM-DD")
	ErrInvalidTimeRange = errors.New("invalid booking time range")
)

// SlotStep is the spacing between candidate start times.
const SlotStep = 30

// Slot is a bookable candidate of the requested duration. Clock values are
// wrapped back from the normalized timeline, so a slot in the post-midnight
// tail of a late-night window reads e.g. "00:30".
type Slot struct {
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Duration  int     `json:"duration"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

// Interval is a half-open [Start, End) busy range in minute offsets.
type Interval struct {
	Start int
	End   int
}

// PriceFunc prices a candidate [startMinute, endMinute) on the normalized timeline.
type PriceFunc func(startMinute, endMinute int) (float64, error)

// GenerateSlots enumerates candidate start times every SlotStep minutes
// across the day window, drops candidates overlapping a busy interval and
// prices the survivors. openMinute/closeMinute must already be normalized via
// timeutil.NormalizeWindow; busy endpoints are re-normalized here so bookings
// spanning midnight land on the same timeline as the window.
func GenerateSlots(openMinute, closeMinute, duration int, busy []Interval, crossesMidnight bool, price PriceFunc) ([]Slot, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}

	slots := []Slot{}
	for start := openMinute; start+duration <= closeMinute; start += SlotStep {
		if overlapsAny(start, start+duration, busy, openMinute, crossesMidnight) {
			continue
		}
		p, err := price(start, start+duration)
		if err != nil {
			return nil, err
		}
		slots = append(slots, Slot{
			StartTime: timeutil.FormatMinute(start),
			EndTime:   timeutil.FormatMinute(start + duration),
			Duration:  duration,
			Price:     p,
			Available: true,
		})
	}
	return slots, nil
}

func overlapsAny(start, end int, busy []Interval, openMinute int, crossesMidnight bool) bool {
	for _, b := range busy {
		bStart, bEnd := b.Start, b.End
		if crossesMidnight {
			bStart = timeutil.NormalizePoint(bStart, openMinute)
			bEnd = timeutil.NormalizePoint(bEnd, openMinute)
		}
		// Half-open intervals: [start,end) overlaps [bStart,bEnd) iff
		// start < bEnd && bStart < end.
		if start < bEnd && bStart < end {
			return true
		}
	}
	return false
}
