package registration

import "time"

type Status string
type PaymentStatus string

const (
	StatusActive          Status = "active"
	StatusPaused          Status = "paused"
	StatusExpired         Status = "expired"
	StatusCancelled       Status = "cancelled"
	StatusInUse           Status = "in_use"
	StatusAwaitingTrainer Status = "awaiting_trainer"
	StatusActivating      Status = "activating"
	StatusUpgraded        Status = "upgraded"

	PaymentPaid     PaymentStatus = "paid"
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentRefunded PaymentStatus = "refunded"
)

// OccupyingStatuses are the statuses under which a registration counts as the
// member's current package. UPGRADED is excluded: it marks a superseded
// package, not an occupying one.
var OccupyingStatuses = []Status{StatusActive, StatusInUse, StatusAwaitingTrainer, StatusActivating}

func (s Status) Occupying() bool {
	for _, o := range OccupyingStatuses {
		if s == o {
			return true
		}
	}
	return false
}

type PackageRegistration struct {
	ID                   int           `db:"id" json:"id"`
	MemberID             int           `db:"member_id" json:"member_id"`
	PackageID            int           `db:"package_id" json:"package_id"`
	Status               Status        `db:"status" json:"status"`
	PaymentStatus        PaymentStatus `db:"payment_status" json:"payment_status"`
	RegisteredAt         time.Time     `db:"registered_at" json:"registered_at"`
	StartDate            *time.Time    `db:"start_date" json:"start_date,omitempty"`
	EndDate              *time.Time    `db:"end_date" json:"end_date,omitempty"`
	AmountPaid           float64       `db:"amount_paid" json:"amount_paid"`
	OriginalPackagePrice float64       `db:"original_package_price" json:"original_package_price"`
	IsUpgrade            bool          `db:"is_upgrade" json:"is_upgrade"`
	UpgradeCredit        float64       `db:"upgrade_credit" json:"upgrade_credit"`
	PriorityOrder        int           `db:"priority_order" json:"priority_order"`
	PausedAt             *time.Time    `db:"paused_at" json:"paused_at,omitempty"`
	PauseReason          *string       `db:"pause_reason" json:"pause_reason,omitempty"`
	RemainingDaysAtPause *int          `db:"remaining_days_at_pause" json:"remaining_days_at_pause,omitempty"`
	ChosenTrainerID      *int          `db:"chosen_trainer_id" json:"chosen_trainer_id,omitempty"`
	CreatedAt            time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time     `db:"updated_at" json:"updated_at"`
}

// CurrentPrice is the price a member effectively paid for this registration.
// AmountPaid takes precedence so an upgraded-into registration is valued at
// what was actually charged, not the list price.
func (r *PackageRegistration) CurrentPrice() float64 {
	if r.AmountPaid > 0 {
		return r.AmountPaid
	}
	return r.OriginalPackagePrice
}

// EffectiveStart is the proration anchor: start date when set, otherwise the
// registration timestamp.
func (r *PackageRegistration) EffectiveStart() time.Time {
	if r.StartDate != nil {
		return *r.StartDate
	}
	return r.RegisteredAt
}

// Quote is the outcome of evaluating a registration request before commit.
type Quote struct {
	AmountDue float64              `json:"amount_due"`
	IsUpgrade bool                 `json:"is_upgrade"`
	Prior     *PackageRegistration `json:"prior,omitempty"`
}
