package registration

import (
	"context"
	"time"
)

// NewRegistration carries the fields of a registration row to be inserted.
type NewRegistration struct {
	MemberID             int
	PackageID            int
	Status               Status
	PaymentStatus        PaymentStatus
	StartDate            time.Time
	EndDate              time.Time
	AmountPaid           float64
	OriginalPackagePrice float64
	IsUpgrade            bool
	UpgradeCredit        float64
	PriorityOrder        int
}

type Repository interface {
	Create(ctx context.Context, reg NewRegistration) (*PackageRegistration, error)
	// CommitUpgrade inserts the new registration and marks the prior one
	// UPGRADED in a single transaction. The prior row's status is re-checked
	// against priorStatus inside the transaction; a mismatch aborts with
	// ErrStaleRegistrationState.
	CommitUpgrade(ctx context.Context, reg NewRegistration, priorID int, priorStatus Status) (*PackageRegistration, error)
	GetByID(ctx context.Context, id int) (*PackageRegistration, error)
	ListByMember(ctx context.Context, memberID int) ([]PackageRegistration, error)
	FindOccupying(ctx context.Context, memberID int) (*PackageRegistration, error)
	CountOccupying(ctx context.Context, memberID int) (int, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	Pause(ctx context.Context, id int, reason string, remainingDays int) error
	Reactivate(ctx context.Context, id int, newEndDate time.Time) error
	SetChosenTrainer(ctx context.Context, id, trainerID int) error
	Activate(ctx context.Context, id int) error
}
