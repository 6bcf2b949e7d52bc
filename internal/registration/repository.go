package registration

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	// ErrStaleRegistrationState is returned when the prior registration's
	// status changed between evaluation and commit. First writer wins; the
	// caller must re-evaluate.
	ErrStaleRegistrationState = errors.New("stale registration state")
)

const registrationColumns = `
	id, member_id, package_id, status, payment_status, registered_at,
	start_date, end_date, amount_paid, original_package_price,
	is_upgrade, upgrade_credit, priority_order,
	paused_at, pause_reason, remaining_days_at_pause, chosen_trainer_id,
	created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func occupyingStatusStrings() []string {
	statuses := make([]string, len(OccupyingStatuses))
	for i, s := range OccupyingStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

func (r *repository) Create(ctx context.Context, reg NewRegistration) (*PackageRegistration, error) {
	query := `
		INSERT INTO package_registrations
			(member_id, package_id, status, payment_status, start_date, end_date,
			 amount_paid, original_package_price, is_upgrade, upgrade_credit, priority_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING` + registrationColumns

	var created PackageRegistration
	err := r.db.GetContext(ctx, &created, query,
		reg.MemberID, reg.PackageID, reg.Status, reg.PaymentStatus,
		reg.StartDate, reg.EndDate, reg.AmountPaid, reg.OriginalPackagePrice,
		reg.IsUpgrade, reg.UpgradeCredit, reg.PriorityOrder,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) CommitUpgrade(ctx context.Context, reg NewRegistration, priorID int, priorStatus Status) (*PackageRegistration, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Optimistic check: the prior row must still be in the status observed at
	// evaluation time. A concurrent upgrade flips it first and wins.
	result, err := tx.ExecContext(ctx, `
		UPDATE package_registrations
		SET status = 'upgraded', updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, priorID, priorStatus)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrStaleRegistrationState
	}

	query := `
		INSERT INTO package_registrations
			(member_id, package_id, status, payment_status, start_date, end_date,
			 amount_paid, original_package_price, is_upgrade, upgrade_credit, priority_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING` + registrationColumns

	var created PackageRegistration
	err = tx.QueryRowxContext(ctx, query,
		reg.MemberID, reg.PackageID, reg.Status, reg.PaymentStatus,
		reg.StartDate, reg.EndDate, reg.AmountPaid, reg.OriginalPackagePrice,
		reg.IsUpgrade, reg.UpgradeCredit, reg.PriorityOrder,
	).StructScan(&created)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*PackageRegistration, error) {
	query := `SELECT` + registrationColumns + `
		FROM package_registrations
		WHERE id = $1`

	var reg PackageRegistration
	err := r.db.GetContext(ctx, &reg, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}

	return &reg, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID int) ([]PackageRegistration, error) {
	query := `SELECT` + registrationColumns + `
		FROM package_registrations
		WHERE member_id = $1
		ORDER BY priority_order ASC, registered_at DESC`

	var regs []PackageRegistration
	err := r.db.SelectContext(ctx, &regs, query, memberID)
	if err != nil {
		return nil, err
	}

	return regs, nil
}

func (r *repository) FindOccupying(ctx context.Context, memberID int) (*PackageRegistration, error) {
	// Most-recently-registered wins when more than one row is occupying, which
	// keeps the result deterministic even on dirty data.
	query := `SELECT` + registrationColumns + `
		FROM package_registrations
		WHERE member_id = $1
		  AND status = ANY($2)
		  AND (end_date IS NULL OR end_date > NOW())
		ORDER BY registered_at DESC, id DESC
		LIMIT 1`

	var reg PackageRegistration
	err := r.db.GetContext(ctx, &reg, query, memberID, pq.Array(occupyingStatusStrings()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &reg, nil
}

func (r *repository) CountOccupying(ctx context.Context, memberID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM package_registrations
		WHERE member_id = $1
		  AND status = ANY($2)
		  AND (end_date IS NULL OR end_date > NOW())
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, memberID, pq.Array(occupyingStatusStrings()))
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM package_registrations
		GROUP BY status
	`

	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}

func (r *repository) Pause(ctx context.Context, id int, reason string, remainingDays int) error {
	query := `
		UPDATE package_registrations
		SET status = 'paused', paused_at = NOW(), pause_reason = $2,
		    remaining_days_at_pause = $3, updated_at = NOW()
		WHERE id = $1 AND status = ANY($4)
	`

	result, err := r.db.ExecContext(ctx, query, id, reason, remainingDays, pq.Array(occupyingStatusStrings()))
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrRegistrationNotFound
	}

	return nil
}

func (r *repository) Reactivate(ctx context.Context, id int, newEndDate time.Time) error {
	query := `
		UPDATE package_registrations
		SET status = 'active', end_date = $2,
		    paused_at = NULL, pause_reason = NULL, remaining_days_at_pause = NULL,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'paused'
	`

	result, err := r.db.ExecContext(ctx, query, id, newEndDate)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrRegistrationNotFound
	}

	return nil
}

func (r *repository) SetChosenTrainer(ctx context.Context, id, trainerID int) error {
	query := `
		UPDATE package_registrations
		SET chosen_trainer_id = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, trainerID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrRegistrationNotFound
	}

	return nil
}

func (r *repository) Activate(ctx context.Context, id int) error {
	query := `
		UPDATE package_registrations
		SET status = 'active', updated_at = NOW()
		WHERE id = $1 AND status IN ('awaiting_trainer', 'activating')
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrRegistrationNotFound
	}

	return nil
}
