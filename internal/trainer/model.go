package trainer

import "time"

type IntervalStatus string

const (
	IntervalFree IntervalStatus = "free"
	IntervalBusy IntervalStatus = "busy"
	IntervalOff  IntervalStatus = "off"
)

type Trainer struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Specialty string    `db:"specialty" json:"specialty"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Interval is one declared block in a trainer's weekly schedule. Times are
// "HH:MM" wall-clock strings; zero-padding keeps them ordered lexically.
type Interval struct {
	ID        int            `db:"id" json:"id"`
	TrainerID int            `db:"trainer_id" json:"trainer_id"`
	Weekday   int            `db:"weekday" json:"weekday"`
	StartTime string         `db:"start_time" json:"start_time"`
	EndTime   string         `db:"end_time" json:"end_time"`
	Status    IntervalStatus `db:"status" json:"status"`
}

// WeeklySchedule maps a weekday (time.Weekday numbering, Sunday = 0) to the
// trainer's declared intervals for that day.
type WeeklySchedule map[time.Weekday][]Interval

// SlotRequest is one requested training slot: a weekday plus a time range.
type SlotRequest struct {
	Day       time.Weekday `json:"day"`
	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"`
}

type CreateTrainerRequest struct {
	Name      string `json:"name" binding:"required"`
	Specialty string `json:"specialty"`
}

type UpsertAvailabilityRequest struct {
	Intervals []IntervalRequest `json:"intervals" binding:"required,dive"`
}

type IntervalRequest struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=free busy off"`
}
