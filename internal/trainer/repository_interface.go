package trainer

import "context"

type Repository interface {
	CreateTrainer(ctx context.Context, name, specialty string) (*Trainer, error)
	GetTrainerByID(ctx context.Context, id int) (*Trainer, error)
	ListTrainers(ctx context.Context) ([]Trainer, error)
	GetWeeklySchedule(ctx context.Context, trainerID int) (WeeklySchedule, error)
	ReplaceAvailability(ctx context.Context, trainerID int, intervals []Interval) error
	CreateSchedule(ctx context.Context, registrationID, trainerID int, slots []SlotRequest) (int, error)
}
