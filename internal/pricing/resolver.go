package pricing

import (
	"errors"
	"fmt"

	"github.com/md-rashed-zaman/courtside/internal/model"
	"github.com/md-rashed-zaman/courtside/internal/timeutil"
)

// ErrAmbiguousSchedule marks a schedule whose own clock range crosses
// midnight (start >= end). Only the venue day window may cross midnight;
// such schedule rows are bad data and are reported, not silently reordered.
var ErrAmbiguousSchedule = errors.New("price schedule start must be before its end")

// daySchedule is a schedule applicable to one weekday with its clock range
// parsed to minute offsets.
type daySchedule struct {
	model.PriceSchedule
	start int
	end   int
}

// schedulesForWeekday filters active schedules down to one weekday and parses
// their clock ranges.
func schedulesForWeekday(schedules []model.PriceSchedule, weekday int) ([]daySchedule, error) {
	var out []daySchedule
	for _, s := range schedules {
		if !s.IsActive || !containsDay(s.DaysOfWeek, weekday) {
			continue
		}
		start, err := timeutil.MinuteOfDay(s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", s.ID, err)
		}
		end, err := timeutil.MinuteOfDay(s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", s.ID, err)
		}
		if start >= end {
			return nil, fmt.Errorf("schedule %s (%s-%s): %w", s.ID, s.StartTime, s.EndTime, ErrAmbiguousSchedule)
		}
		out = append(out, daySchedule{PriceSchedule: s, start: start, end: end})
	}
	return out, nil
}

func containsDay(days []int, weekday int) bool {
	for _, d := range days {
		if d == weekday {
			return true
		}
	}
	return false
}

// resolveAt returns the schedule covering a clock minute: highest priority
// wins, remaining ties go to the earliest start. nil means the court's base
// rate applies.
func resolveAt(schedules []daySchedule, minute int) *daySchedule {
	var best *daySchedule
	for i := range schedules {
		s := &schedules[i]
		if minute < s.start || minute >= s.end {
			continue
		}
		if best == nil || s.Priority > best.Priority ||
			(s.Priority == best.Priority && s.start < best.start) {
			best = s
		}
	}
	return best
}

// nextScheduleStart returns the clock minute of the first schedule start
// strictly after the given clock minute, looking into the next clock day when
// nothing starts later in the current one. -1 means there are no schedules at
// all. This bounds base-rate segments so the pricing cursor never stalls in a
// coverage gap.
func nextScheduleStart(schedules []daySchedule, clock int) int {
	next := -1
	first := -1
	for _, s := range schedules {
		if first == -1 || s.start < first {
			first = s.start
		}
		if s.start > clock && (next == -1 || s.start < next) {
			next = s.start
		}
	}
	if next == -1 && first != -1 {
		return first + timeutil.MinutesPerDay
	}
	return next
}

// nextTakeoverStart returns the first clock minute strictly after clock where
// a schedule with higher priority than the matched one starts, or -1. Equal
// priority never takes over mid-range: the earliest start already won the tie.
func nextTakeoverStart(schedules []daySchedule, matched *daySchedule, clock int) int {
	next := -1
	for i := range schedules {
		s := &schedules[i]
		if s.Priority <= matched.Priority {
			continue
		}
		if s.start > clock && (next == -1 || s.start < next) {
			next = s.start
		}
	}
	return next
}

// ResolveSchedule picks the schedule covering a clock minute on a weekday,
// or nil when the court's flat rate applies.
func ResolveSchedule(schedules []model.PriceSchedule, weekday, minute int) (*model.PriceSchedule, error) {
	day, err := schedulesForWeekday(schedules, weekday)
	if err != nil {
		return nil, err
	}
	matched := resolveAt(day, minute)
	if matched == nil {
		return nil, nil
	}
	s := matched.PriceSchedule
	return &s, nil
}
