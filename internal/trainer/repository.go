package trainer

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrTrainerNotFound = errors.New("trainer not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTrainer(ctx context.Context, name, specialty string) (*Trainer, error) {
	query := `
		INSERT INTO trainers (name, specialty)
		VALUES ($1, $2)
		RETURNING id, name, specialty, is_active, created_at
	`

	var t Trainer
	err := r.db.GetContext(ctx, &t, query, name, specialty)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *repository) GetTrainerByID(ctx context.Context, id int) (*Trainer, error) {
	query := `
		SELECT id, name, specialty, is_active, created_at
		FROM trainers
		WHERE id = $1
	`

	var t Trainer
	err := r.db.GetContext(ctx, &t, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	return &t, nil
}

func (r *repository) ListTrainers(ctx context.Context) ([]Trainer, error) {
	query := `
		SELECT id, name, specialty, is_active, created_at
		FROM trainers
		WHERE is_active = TRUE
		ORDER BY name ASC
	`

	var trainers []Trainer
	err := r.db.SelectContext(ctx, &trainers, query)
	if err != nil {
		return nil, err
	}

	return trainers, nil
}

func (r *repository) GetWeeklySchedule(ctx context.Context, trainerID int) (WeeklySchedule, error) {
	query := `
		SELECT id, trainer_id, weekday, start_time, end_time, status
		FROM trainer_availability
		WHERE trainer_id = $1
		ORDER BY weekday ASC, start_time ASC
	`

	var intervals []Interval
	err := r.db.SelectContext(ctx, &intervals, query, trainerID)
	if err != nil {
		return nil, err
	}

	schedule := WeeklySchedule{}
	for _, iv := range intervals {
		day := time.Weekday(iv.Weekday)
		schedule[day] = append(schedule[day], iv)
	}

	return schedule, nil
}

func (r *repository) ReplaceAvailability(ctx context.Context, trainerID int, intervals []Interval) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trainer_availability WHERE trainer_id = $1`, trainerID); err != nil {
		return err
	}

	for _, iv := range intervals {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO trainer_availability (trainer_id, weekday, start_time, end_time, status)
			VALUES ($1, $2, $3, $4, $5)
		`, trainerID, iv.Weekday, iv.StartTime, iv.EndTime, iv.Status)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) CreateSchedule(ctx context.Context, registrationID, trainerID int, slots []SlotRequest) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var scheduleID int
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO training_schedules (registration_id, trainer_id)
		VALUES ($1, $2)
		RETURNING id
	`, registrationID, trainerID).Scan(&scheduleID)
	if err != nil {
		return 0, err
	}

	for _, slot := range slots {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO training_sessions (schedule_id, weekday, start_time, end_time)
			VALUES ($1, $2, $3, $4)
		`, scheduleID, int(slot.Day), slot.StartTime, slot.EndTime)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return scheduleID, nil
}
