package availability

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/md-rashed-zaman/courtside/internal/model"
	"github.com/md-rashed-zaman/courtside/internal/pricing"
)

type fakeRepo struct {
	court     model.Court
	courtErr  error
	hours     map[int]model.OpeningHours
	bookings  []model.Interval
	blocked   []model.Interval
	schedules []model.PriceSchedule
}

func (f *fakeRepo) GetCourt(ctx context.Context, courtID string) (model.Court, error) {
	if f.courtErr != nil {
		return model.Court{}, f.courtErr
	}
	return f.court, nil
}

func (f *fakeRepo) GetOpeningHours(ctx context.Context, courtID string, weekday int) (model.OpeningHours, bool, error) {
	h, ok := f.hours[weekday]
	return h, ok, nil
}

func (f *fakeRepo) ListActiveBookings(ctx context.Context, courtID, date string) ([]model.Interval, error) {
	return f.bookings, nil
}

func (f *fakeRepo) ListBlockedSlots(ctx context.Context, courtID, date string) ([]model.Interval, error) {
	return f.blocked, nil
}

func (f *fakeRepo) ListActiveSchedules(ctx context.Context, courtID string) ([]model.PriceSchedule, error) {
	return f.schedules, nil
}

func ptr(v float64) *float64 { return &v }

func allWeek(open, close string) map[int]model.OpeningHours {
	hours := make(map[int]model.OpeningHours, 7)
	for d := 0; d < 7; d++ {
		hours[d] = model.OpeningHours{Weekday: d, Open: open, Close: close}
	}
	return hours
}

// 2026-01-05 is a monday.
const monday = "2026-01-05"

func newTestService(repo *fakeRepo) *Service {
	if repo.court.ID == "" {
		repo.court = model.Court{ID: "court-1", Name: "Court 1", PricePerHour: 20}
	}
	return NewService(repo)
}

func TestDayAvailability_ClosedWeekday(t *testing.T) {
	repo := &fakeRepo{hours: map[int]model.OpeningHours{
		// Only tuesday is configured.
		2: {Weekday: 2, Open: "08:00", Close: "22:00"},
	}}
	svc := newTestService(repo)

	got, err := svc.DayAvailability(context.Background(), "court-1", monday, 60)
	if err != nil {
		t.Fatalf("closed day should not error: %v", err)
	}
	if got.Message != ClosedDayMessage {
		t.Fatalf("message = %q, want %q", got.Message, ClosedDayMessage)
	}
	if got.AvailableSlots == nil || len(got.AvailableSlots) != 0 {
		t.Fatalf("closed day slots = %v, want empty non-nil", got.AvailableSlots)
	}
}

func TestDayAvailability_ClosedFlag(t *testing.T) {
	repo := &fakeRepo{hours: map[int]model.OpeningHours{
		1: {Weekday: 1, Open: "08:00", Close: "22:00", Closed: true},
	}}
	svc := newTestService(repo)

	got, err := svc.DayAvailability(context.Background(), "court-1", monday, 60)
	if err != nil {
		t.Fatalf("closed day should not error: %v", err)
	}
	if got.Message != ClosedDayMessage || len(got.AvailableSlots) != 0 {
		t.Fatalf("closed flag ignored: %+v", got)
	}
}

func TestDayAvailability_QuickPriceWithoutSchedules(t *testing.T) {
	repo := &fakeRepo{hours: allWeek("08:00", "22:00")}
	repo.court = model.Court{
		ID:             "court-1",
		Name:           "Court 1",
		PricePerHour:   20,
		PricePerHour90: ptr(27),
	}
	svc := NewService(repo)

	got, err := svc.DayAvailability(context.Background(), "court-1", monday, 90)
	if err != nil {
		t.Fatalf("availability failed: %v", err)
	}
	if len(got.AvailableSlots) == 0 {
		t.Fatal("no slots generated")
	}
	for _, s := range got.AvailableSlots {
		if s.Price != 27 {
			t.Fatalf("90min slots should use the tier price, got %v", s.Price)
		}
	}
	if got.Court == nil || got.Court.ID != "court-1" {
		t.Fatalf("court info missing: %+v", got.Court)
	}
}

func TestDayAvailability_SchedulePricing(t *testing.T) {
	repo := &fakeRepo{
		hours: allWeek("08:00", "22:00"),
		schedules: []model.PriceSchedule{{
			ID:           "evening",
			Name:         "Evening peak",
			StartTime:    "18:00",
			EndTime:      "22:00",
			PricePerHour: 40,
			DaysOfWeek:   []int{0, 1, 2, 3, 4, 5, 6},
			Priority:     5,
			IsActive:     true,
		}},
	}
	svc := newTestService(repo)

	got, err := svc.DayAvailability(context.Background(), "court-1", monday, 60)
	if err != nil {
		t.Fatalf("availability failed: %v", err)
	}
	prices := map[string]float64{}
	for _, s := range got.AvailableSlots {
		prices[s.StartTime] = s.Price
	}
	if prices["08:00"] != 20 {
		t.Fatalf("off-peak slot = %v, want 20", prices["08:00"])
	}
	if prices["18:00"] != 40 {
		t.Fatalf("peak slot = %v, want 40", prices["18:00"])
	}
	// 17:30-18:30 is half base, half peak.
	if prices["17:30"] != 30 {
		t.Fatalf("straddling slot = %v, want 30", prices["17:30"])
	}
}

func TestDayAvailability_ScheduleOnOtherWeekday(t *testing.T) {
	repo := &fakeRepo{
		hours: allWeek("08:00", "22:00"),
		schedules: []model.PriceSchedule{{
			ID:           "weekend",
			Name:         "Weekend rate",
			StartTime:    "08:00",
			EndTime:      "22:00",
			PricePerHour: 40,
			DaysOfWeek:   []int{0, 6},
			IsActive:     true,
		}},
	}
	svc := newTestService(repo)

	got, err := svc.DayAvailability(context.Background(), "court-1", monday, 60)
	if err != nil {
		t.Fatalf("availability failed: %v", err)
	}
	for _, s := range got.AvailableSlots {
		if s.Price != 20 {
			t.Fatalf("weekend schedule applied on a monday: %+v", s)
		}
	}
}

func TestDayAvailability_DefaultDuration(t *testing.T) {
	repo := &fakeRepo{hours: allWeek("08:00", "22:00")}
	svc := newTestService(repo)

	got, err := svc.DayAvailability(context.Background(), "court-1", monday, 0)
	if err != nil {
		t.Fatalf("availability failed: %v", err)
	}
	if len(got.AvailableSlots) == 0 || got.AvailableSlots[0].Duration != DefaultDuration {
		t.Fatalf("zero duration should default to %d: %+v", DefaultDuration, got.AvailableSlots)
	}
}

func TestDayAvailability_Validation(t *testing.T) {
	repo := &fakeRepo{hours: allWeek("08:00", "22:00")}
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.DayAvailability(ctx, "court-1", monday, -30); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("negative duration: want ErrInvalidDuration, got %v", err)
	}
	if _, err := svc.DayAvailability(ctx, "court-1", "05-01-2026", 60); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("bad date layout: want ErrInvalidDate, got %v", err)
	}
	if _, err := svc.DayAvailability(ctx, "court-1", "2026-13-01", 60); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("month 13: want ErrInvalidDate, got %v", err)
	}
}

func TestDayAvailability_Deterministic(t *testing.T) {
	repo := &fakeRepo{
		hours:    allWeek("08:00", "22:00"),
		bookings: []model.Interval{{StartTime: "10:00", EndTime: "11:00"}},
	}
	svc := newTestService(repo)
	ctx := context.Background()

	a, err := svc.DayAvailability(ctx, "court-1", monday, 60)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	b, err := svc.DayAvailability(ctx, "court-1", monday, 60)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same inputs produced different availability")
	}
}

func TestQuoteBooking_ScheduleBreakdown(t *testing.T) {
	repo := &fakeRepo{
		hours: allWeek("08:00", "22:00"),
		schedules: []model.PriceSchedule{{
			ID:           "evening",
			Name:         "Evening peak",
			StartTime:    "18:00",
			EndTime:      "22:00",
			PricePerHour: 40,
			DaysOfWeek:   []int{0, 1, 2, 3, 4, 5, 6},
			Priority:     5,
			IsActive:     true,
		}},
	}
	svc := newTestService(repo)

	q, err := svc.QuoteBooking(context.Background(), "court-1", monday, "17:00", "19:00")
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if len(q.Breakdown) != 2 {
		t.Fatalf("want two lines, got %+v", q.Breakdown)
	}
	if q.TotalPrice != 60 {
		t.Fatalf("total = %v, want 60", q.TotalPrice)
	}
	if q.Breakdown[0].ScheduleName != pricing.BaseRateName {
		t.Fatalf("first line should be base rate: %+v", q.Breakdown[0])
	}
}

func TestQuoteBooking_AcrossMidnight(t *testing.T) {
	repo := &fakeRepo{hours: allWeek("20:00", "02:00")}
	svc := newTestService(repo)

	// end <= start reads as running past midnight.
	q, err := svc.QuoteBooking(context.Background(), "court-1", monday, "23:00", "01:00")
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if q.TotalPrice != 40 {
		t.Fatalf("two hours at 20/h = 40, got %v", q.TotalPrice)
	}
	if n := len(q.Breakdown); n != 1 {
		t.Fatalf("flat-rate quote should merge to one line, got %d", n)
	}
	line := q.Breakdown[0]
	if line.StartTime != "23:00" || line.EndTime != "01:00" || line.Minutes != 120 {
		t.Fatalf("line %+v", line)
	}
}

func TestQuoteBooking_Validation(t *testing.T) {
	repo := &fakeRepo{hours: allWeek("08:00", "22:00")}
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.QuoteBooking(ctx, "court-1", monday, "10:00", "10:00"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("zero-length booking: want ErrInvalidTimeRange, got %v", err)
	}
	if _, err := svc.QuoteBooking(ctx, "court-1", monday, "25:00", "26:00"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("bad clock: want ErrInvalidTimeRange, got %v", err)
	}
	if _, err := svc.QuoteBooking(ctx, "court-1", "not-a-date", "10:00", "11:00"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("bad date: want ErrInvalidDate, got %v", err)
	}
}
