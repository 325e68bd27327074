package pricing

import (
	"errors"
	"testing"

	"github.com/md-rashed-zaman/courtside/internal/model"
)

func sched(id, start, end string, price float64, days []int, priority int) model.PriceSchedule {
	return model.PriceSchedule{
		ID:           id,
		Name:         "schedule " + id,
		StartTime:    start,
		EndTime:      end,
		PricePerHour: price,
		DaysOfWeek:   days,
		Priority:     priority,
		IsActive:     true,
	}
}

var allDays = []int{0, 1, 2, 3, 4, 5, 6}

func TestResolveSchedule_MatchesClockRange(t *testing.T) {
	schedules := []model.PriceSchedule{
		sched("peak", "18:00", "22:00", 25, allDays, 0),
	}

	got, err := ResolveSchedule(schedules, 1, 18*60)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got == nil || got.ID != "peak" {
		t.Fatalf("minute 18:00 should match peak, got %+v", got)
	}

	// End is exclusive.
	got, err = ResolveSchedule(schedules, 1, 22*60)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != nil {
		t.Fatalf("minute 22:00 should not match, got %s", got.ID)
	}
}

func TestResolveSchedule_WeekdayFilter(t *testing.T) {
	schedules := []model.PriceSchedule{
		sched("weekend", "08:00", "20:00", 30, []int{0, 6}, 0),
	}

	got, err := ResolveSchedule(schedules, 3, 10*60)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != nil {
		t.Fatalf("wednesday should not match a weekend schedule, got %s", got.ID)
	}

	got, err = ResolveSchedule(schedules, 6, 10*60)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got == nil || got.ID != "weekend" {
		t.Fatalf("saturday should match weekend, got %+v", got)
	}
}

func TestResolveSchedule_SkipsInactive(t *testing.T) {
	off := sched("off", "08:00", "20:00", 30, allDays, 10)
	off.IsActive = false
	schedules := []model.PriceSchedule{off}

	got, err := ResolveSchedule(schedules, 1, 10*60)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != nil {
		t.Fatalf("inactive schedule matched: %s", got.ID)
	}
}

func TestResolveSchedule_PriorityWins(t *testing.T) {
	schedules := []model.PriceSchedule{
		sched("all-day", "08:00", "22:00", 10, allDays, 0),
		sched("evening", "18:00", "22:00", 20, allDays, 5),
	}

	got, err := ResolveSchedule(schedules, 1, 19*60)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got == nil || got.ID != "evening" {
		t.Fatalf("higher priority should win at 19:00, got %+v", got)
	}

	got, err = ResolveSchedule(schedules, 1, 10*60)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got == nil || got.ID != "all-day" {
		t.Fatalf("only all-day covers 10:00, got %+v", got)
	}
}

func TestResolveSchedule_TieBreaksOnEarliestStart(t *testing.T) {
	schedules := []model.PriceSchedule{
		sched("late", "12:00", "20:00", 15, allDays, 5),
		sched("early", "08:00", "16:00", 12, allDays, 5),
	}

	got, err := ResolveSchedule(schedules, 1, 14*60)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got == nil || got.ID != "early" {
		t.Fatalf("equal priority should pick the earlier start, got %+v", got)
	}
}

func TestResolveSchedule_RejectsCrossingSchedule(t *testing.T) {
	schedules := []model.PriceSchedule{
		sched("night", "22:00", "02:00", 40, allDays, 0),
	}

	_, err := ResolveSchedule(schedules, 1, 23*60)
	if !errors.Is(err, ErrAmbiguousSchedule) {
		t.Fatalf("want ErrAmbiguousSchedule, got %v", err)
	}
}

func TestNextScheduleStart(t *testing.T) {
	day, err := schedulesForWeekday([]model.PriceSchedule{
		sched("a", "08:00", "12:00", 10, allDays, 0),
		sched("b", "18:00", "22:00", 20, allDays, 0),
	}, 1)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if got := nextScheduleStart(day, 13*60); got != 18*60 {
		t.Fatalf("next after 13:00 = %d, want %d", got, 18*60)
	}
	// Past the last start the cursor wraps to the first start next day.
	if got := nextScheduleStart(day, 23*60); got != 8*60+1440 {
		t.Fatalf("next after 23:00 = %d, want %d", got, 8*60+1440)
	}
	if got := nextScheduleStart(nil, 10*60); got != -1 {
		t.Fatalf("next with no schedules = %d, want -1", got)
	}
}
