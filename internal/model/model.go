package model

// Court is a bookable unit owned by an establishment. Tier prices are
// optional overrides for the standard 90 and 120 minute bookings; when a tier
// is nil the hourly rate is prorated instead.
type Court struct {
	ID              string
	EstablishmentID string
	Name            string
	Timezone        string
	PricePerHour    float64
	PricePerHour90  *float64
	PricePerHour120 *float64
}

// OpeningHours is one weekday's opening window for an establishment.
// Close <= Open means the window runs past midnight.
type OpeningHours struct {
	Weekday int
	Open    string
	Close   string
	Closed  bool
}

// PriceSchedule overrides a court's flat hourly rate inside a clock range on
// the listed weekdays (0=Sunday..6=Saturday). Overlapping schedules are
// resolved by priority, higher wins.
type PriceSchedule struct {
	ID           string
	CourtID      string
	Name         string
	StartTime    string
	EndTime      string
	PricePerHour float64
	DaysOfWeek   []int
	Priority     int
	IsActive     bool
}

// Interval is a half-open [StartTime, EndTime) clock range on a specific
// date, used for both bookings and blocked slots.
type Interval struct {
	StartTime string
	EndTime   string
}
