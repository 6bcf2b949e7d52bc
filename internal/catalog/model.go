package catalog

import "time"

type DurationUnit string

const (
	UnitDay   DurationUnit = "day"
	UnitMonth DurationUnit = "month"
	UnitYear  DurationUnit = "year"
)

type PackageDefinition struct {
	ID            int          `db:"id" json:"id"`
	Name          string       `db:"name" json:"name"`
	Description   string       `db:"description" json:"description"`
	Price         float64      `db:"price" json:"price"`
	DurationValue int          `db:"duration_value" json:"duration_value"`
	DurationUnit  DurationUnit `db:"duration_unit" json:"duration_unit"`
	SessionCount  int          `db:"session_count" json:"session_count"`
	IsActive      bool         `db:"is_active" json:"is_active"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// EndDate adds the package duration to start calendrically: adding a month
// shifts the month field rather than adding a fixed day count.
func (p *PackageDefinition) EndDate(start time.Time) time.Time {
	switch p.DurationUnit {
	case UnitDay:
		return start.AddDate(0, 0, p.DurationValue)
	case UnitMonth:
		return start.AddDate(0, p.DurationValue, 0)
	case UnitYear:
		return start.AddDate(p.DurationValue, 0, 0)
	default:
		return start.AddDate(0, p.DurationValue, 0)
	}
}

type CreatePackageRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	DurationValue int     `json:"duration_value" binding:"required,min=1"`
	DurationUnit  string  `json:"duration_unit" binding:"required,oneof=day month year"`
	SessionCount  int     `json:"session_count" binding:"min=0"`
}

type UpdatePackageRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	DurationValue int     `json:"duration_value" binding:"required,min=1"`
	DurationUnit  string  `json:"duration_unit" binding:"required,oneof=day month year"`
	SessionCount  int     `json:"session_count" binding:"min=0"`
	IsActive      *bool   `json:"is_active"`
}
