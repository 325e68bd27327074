package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/courtside/internal/model"
	"github.com/md-rashed-zaman/courtside/libs/db"
)

// Booking statuses that block a slot. Cancelled and expired bookings do not.
var activeBookingStatuses = []string{"pending", "confirmed"}

// CourtRepository reads the snapshots the availability engine consumes.
// Every method is read-only; booking writes (and their conflict handling via
// the uniqueness constraint on court/date/start) live with the booking
// service, not here.
type CourtRepository struct {
	pool *db.Pool
}

func NewCourtRepository(pool *db.Pool) *CourtRepository {
	return &CourtRepository{pool: pool}
}

func (r *CourtRepository) GetCourt(ctx context.Context, courtID string) (model.Court, error) {
	var c model.Court
	err := r.pool.QueryRow(ctx, `
		SELECT c.id::text, c.establishment_id::text, c.name, COALESCE(e.timezone, 'UTC'),
			c.price_per_hour, c.price_per_hour_90, c.price_per_hour_120
		FROM courts c
		JOIN establishments e ON e.id = c.establishment_id
		WHERE c.id = $1
	`, courtID).Scan(
		&c.ID,
		&c.EstablishmentID,
		&c.Name,
		&c.Timezone,
		&c.PricePerHour,
		&c.PricePerHour90,
		&c.PricePerHour120,
	)
	if err != nil {
		return model.Court{}, err
	}
	return c, nil
}

func (r *CourtRepository) GetOpeningHours(ctx context.Context, courtID string, weekday int) (model.OpeningHours, bool, error) {
	var h model.OpeningHours
	err := r.pool.QueryRow(ctx, `
		SELECT h.weekday, to_char(h.open_time, 'HH24:MI'), to_char(h.close_time, 'HH24:MI'), h.closed
		FROM establishment_opening_hours h
		JOIN courts c ON c.establishment_id = h.establishment_id
		WHERE c.id = $1 AND h.weekday = $2
	`, courtID, weekday).Scan(&h.Weekday, &h.Open, &h.Close, &h.Closed)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.OpeningHours{}, false, nil
	}
	if err != nil {
		return model.OpeningHours{}, false, err
	}
	return h, true, nil
}

func (r *CourtRepository) ListActiveBookings(ctx context.Context, courtID, date string) ([]model.Interval, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')
		FROM bookings
		WHERE court_id = $1
			AND booking_date = $2::date
			AND status = ANY($3)
		ORDER BY start_time ASC
	`, courtID, date, activeBookingStatuses)
	if err != nil {
		return nil, err
	}
	return scanIntervals(rows)
}

func (r *CourtRepository) ListBlockedSlots(ctx context.Context, courtID, date string) ([]model.Interval, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')
		FROM blocked_slots
		WHERE court_id = $1
			AND blocked_date = $2::date
		ORDER BY start_time ASC
	`, courtID, date)
	if err != nil {
		return nil, err
	}
	return scanIntervals(rows)
}

func (r *CourtRepository) ListActiveSchedules(ctx context.Context, courtID string) ([]model.PriceSchedule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, court_id::text, name,
			to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
			price_per_hour, days_of_week, priority, is_active
		FROM price_schedules
		WHERE court_id = $1 AND is_active
		ORDER BY priority DESC, start_time ASC
	`, courtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PriceSchedule
	for rows.Next() {
		var s model.PriceSchedule
		if err := rows.Scan(
			&s.ID,
			&s.CourtID,
			&s.Name,
			&s.StartTime,
			&s.EndTime,
			&s.PricePerHour,
			&s.DaysOfWeek,
			&s.Priority,
			&s.IsActive,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func scanIntervals(rows pgx.Rows) ([]model.Interval, error) {
	defer rows.Close()

	var out []model.Interval
	for rows.Next() {
		var iv model.Interval
		if err := rows.Scan(&iv.StartTime, &iv.EndTime); err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
