package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/md-rashed-zaman/courtside/internal/model"
	"github.com/md-rashed-zaman/courtside/internal/pricing"
	"github.com/md-rashed-zaman/courtside/internal/timeutil"
)

// ClosedDayMessage is returned with an empty slot list when the venue does
// not open on the requested weekday. A closed day is a well-formed answer,
// not an error.
const ClosedDayMessage = "Court is closed on this day"

// DefaultDuration is used when the caller does not request one.
const DefaultDuration = 60

// Repository supplies the read-only snapshots the engine works on. The
// engine itself issues no writes and takes no locks; commit-time conflicts
// are the persistence layer's uniqueness constraint's job.
type Repository interface {
	GetCourt(ctx context.Context, courtID string) (model.Court, error)
	// GetOpeningHours reports found=false when no hours are configured for
	// the weekday, which callers treat the same as a closed day.
	GetOpeningHours(ctx context.Context, courtID string, weekday int) (model.OpeningHours, bool, error)
	ListActiveBookings(ctx context.Context, courtID, date string) ([]model.Interval, error)
	ListBlockedSlots(ctx context.Context, courtID, date string) ([]model.Interval, error)
	ListActiveSchedules(ctx context.Context, courtID string) ([]model.PriceSchedule, error)
}

type CourtInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	PricePerHour    float64  `json:"price_per_hour"`
	PricePerHour90  *float64 `json:"price_per_hour_90,omitempty"`
	PricePerHour120 *float64 `json:"price_per_hour_120,omitempty"`
}

type DayAvailability struct {
	AvailableSlots []Slot     `json:"available_slots"`
	Court          *CourtInfo `json:"court,omitempty"`
	Message        string     `json:"message,omitempty"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// DayAvailability enumerates bookable slots of the requested duration for a
// court on a date. Courts with active price schedules are priced through the
// breakdown calculator; the tiered quick price is the fallback for courts
// without schedules.
func (s *Service) DayAvailability(ctx context.Context, courtID, date string, duration int) (DayAvailability, error) {
	if duration == 0 {
		duration = DefaultDuration
	}
	if duration < 0 {
		return DayAvailability{}, ErrInvalidDuration
	}

	court, err := s.repo.GetCourt(ctx, courtID)
	if err != nil {
		return DayAvailability{}, fmt.Errorf("load court %s: %w", courtID, err)
	}

	weekday, err := venueWeekday(date, court.Timezone)
	if err != nil {
		return DayAvailability{}, err
	}

	hours, found, err := s.repo.GetOpeningHours(ctx, courtID, weekday)
	if err != nil {
		return DayAvailability{}, fmt.Errorf("load opening hours: %w", err)
	}
	if !found || hours.Closed {
		return DayAvailability{
			AvailableSlots: []Slot{},
			Message:        ClosedDayMessage,
		}, nil
	}

	open, err := timeutil.MinuteOfDay(hours.Open)
	if err != nil {
		return DayAvailability{}, fmt.Errorf("opening hours: %w", err)
	}
	close, err := timeutil.MinuteOfDay(hours.Close)
	if err != nil {
		return DayAvailability{}, fmt.Errorf("opening hours: %w", err)
	}
	crossesMidnight := close <= open
	open, close = timeutil.NormalizeWindow(open, close)

	bookings, err := s.repo.ListActiveBookings(ctx, courtID, date)
	if err != nil {
		return DayAvailability{}, fmt.Errorf("load bookings: %w", err)
	}
	blocked, err := s.repo.ListBlockedSlots(ctx, courtID, date)
	if err != nil {
		return DayAvailability{}, fmt.Errorf("load blocked slots: %w", err)
	}
	busy, err := parseIntervals(append(bookings, blocked...))
	if err != nil {
		return DayAvailability{}, err
	}

	schedules, err := s.repo.ListActiveSchedules(ctx, courtID)
	if err != nil {
		return DayAvailability{}, fmt.Errorf("load price schedules: %w", err)
	}

	var price PriceFunc
	if len(schedules) > 0 {
		price = func(start, end int) (float64, error) {
			q, err := pricing.QuoteInterval(court, schedules, weekday, start, end)
			if err != nil {
				return 0, err
			}
			return q.TotalPrice, nil
		}
	} else {
		price = func(start, end int) (float64, error) {
			return pricing.QuickPrice(court, end-start), nil
		}
	}

	slots, err := GenerateSlots(open, close, duration, busy, crossesMidnight, price)
	if err != nil {
		return DayAvailability{}, err
	}

	return DayAvailability{
		AvailableSlots: slots,
		Court: &CourtInfo{
			ID:              court.ID,
			Name:            court.Name,
			PricePerHour:    court.PricePerHour,
			PricePerHour90:  court.PricePerHour90,
			PricePerHour120: court.PricePerHour120,
		},
	}, nil
}

// QuoteBooking prices an arbitrary [startTime, endTime) interval on a date.
// end <= start is read as a booking running past midnight, matching the day
// window convention.
func (s *Service) QuoteBooking(ctx context.Context, courtID, date, startTime, endTime string) (pricing.Quote, error) {
	court, err := s.repo.GetCourt(ctx, courtID)
	if err != nil {
		return pricing.Quote{}, fmt.Errorf("load court %s: %w", courtID, err)
	}

	weekday, err := venueWeekday(date, court.Timezone)
	if err != nil {
		return pricing.Quote{}, err
	}

	start, err := timeutil.MinuteOfDay(startTime)
	if err != nil {
		return pricing.Quote{}, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}
	end, err := timeutil.MinuteOfDay(endTime)
	if err != nil {
		return pricing.Quote{}, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}
	if start == end {
		return pricing.Quote{}, ErrInvalidTimeRange
	}
	start, end = timeutil.NormalizeWindow(start, end)

	schedules, err := s.repo.ListActiveSchedules(ctx, courtID)
	if err != nil {
		return pricing.Quote{}, fmt.Errorf("load price schedules: %w", err)
	}

	return pricing.QuoteInterval(court, schedules, weekday, start, end)
}

// venueWeekday resolves the weekday of a date in the venue's own timezone.
// Parsing the date in UTC and converting would shift the weekday for venues
// behind UTC, so the date string is parsed directly in the venue location.
func venueWeekday(date, timezone string) (int, error) {
	loc := time.UTC
	if timezone != "" {
		if l, err := time.LoadLocation(timezone); err == nil {
			loc = l
		}
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return 0, ErrInvalidDate
	}
	return int(day.Weekday()), nil
}

func parseIntervals(raw []model.Interval) ([]Interval, error) {
	out := make([]Interval, 0, len(raw))
	for _, iv := range raw {
		start, err := timeutil.MinuteOfDay(iv.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
		}
		end, err := timeutil.MinuteOfDay(iv.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
		}
		out = append(out, Interval{Start: start, End: end})
	}
	return out, nil
}
