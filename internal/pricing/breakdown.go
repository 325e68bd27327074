package pricing

import (
	"errors"
	"math"

	"github.com/md-rashed-zaman/courtside/internal/model"
	"github.com/md-rashed-zaman/courtside/internal/timeutil"
)

var ErrInvalidInterval = errors.New("booking end must be after booking start")

// BaseRateName labels breakdown lines priced by the court's flat hourly rate.
const BaseRateName = "Base price"

// BreakdownLine is one merged run of minutes priced by a single schedule, or
// by the court's base rate when ScheduleID is nil.
type BreakdownLine struct {
	ScheduleID   *string `json:"schedule_id"`
	ScheduleName string  `json:"schedule_name"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	Minutes      int     `json:"minutes"`
	PricePerHour float64 `json:"price_per_hour"`
	Amount       float64 `json:"amount"`
}

type Quote struct {
	TotalPrice float64         `json:"total_price"`
	Breakdown  []BreakdownLine `json:"breakdown"`
}

// QuoteInterval prices [startMinute, endMinute) on the normalized timeline by
// advancing a cursor one priced segment at a time: the covering schedule is
// resolved once per segment, never per minute. Line amounts keep full float
// precision; only the final total is rounded, once, to the nearest whole
// currency unit, so per-line amounts may not sum exactly to the total.
func QuoteInterval(court model.Court, schedules []model.PriceSchedule, weekday, startMinute, endMinute int) (Quote, error) {
	if endMinute <= startMinute {
		return Quote{}, ErrInvalidInterval
	}
	day, err := schedulesForWeekday(schedules, weekday)
	if err != nil {
		return Quote{}, err
	}

	var lines []BreakdownLine
	total := 0.0
	cursor := startMinute
	for cursor < endMinute {
		clock := cursor % timeutil.MinutesPerDay
		// Offset translating clock minutes of the current clock day back onto
		// the normalized timeline.
		shift := cursor - clock

		var (
			segEnd     int
			rate       float64
			scheduleID *string
			name       string
		)
		if matched := resolveAt(day, clock); matched != nil {
			end := matched.end
			// A higher-priority schedule starting mid-segment takes over from
			// its start, so the segment must break there.
			if takeover := nextTakeoverStart(day, matched, clock); takeover >= 0 && takeover < end {
				end = takeover
			}
			segEnd = end + shift
			if segEnd > endMinute {
				segEnd = endMinute
			}
			rate = matched.PricePerHour
			id := matched.ID
			scheduleID = &id
			name = matched.Name
		} else {
			// Coverage gap: base rate until the next schedule begins.
			segEnd = endMinute
			if next := nextScheduleStart(day, clock); next >= 0 && next+shift < segEnd {
				segEnd = next + shift
			}
			rate = court.PricePerHour
			name = BaseRateName
		}

		minutes := segEnd - cursor
		// Multiply before dividing so rates with exact cents stay exact.
		amount := rate * float64(minutes) / 60
		total += amount

		if n := len(lines); n > 0 && sameSource(lines[n-1].ScheduleID, scheduleID) {
			last := &lines[n-1]
			last.EndTime = timeutil.FormatMinute(segEnd)
			last.Minutes += minutes
			last.Amount += amount
		} else {
			lines = append(lines, BreakdownLine{
				ScheduleID:   scheduleID,
				ScheduleName: name,
				StartTime:    timeutil.FormatMinute(cursor),
				EndTime:      timeutil.FormatMinute(segEnd),
				Minutes:      minutes,
				PricePerHour: rate,
				Amount:       amount,
			})
		}
		cursor = segEnd
	}

	return Quote{TotalPrice: math.Round(total), Breakdown: lines}, nil
}

func sameSource(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
