package catalog

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrPackageNotFound = errors.New("package not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, description string, price float64, durationValue int, durationUnit DurationUnit, sessionCount int) (*PackageDefinition, error) {
	query := `
		INSERT INTO package_definitions (name, description, price, duration_value, duration_unit, session_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, description, price, duration_value, duration_unit, session_count, is_active, created_at, updated_at
	`

	var pkg PackageDefinition
	err := r.db.GetContext(ctx, &pkg, query, name, description, price, durationValue, durationUnit, sessionCount)
	if err != nil {
		return nil, err
	}

	return &pkg, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*PackageDefinition, error) {
	query := `
		SELECT id, name, description, price, duration_value, duration_unit, session_count, is_active, created_at, updated_at
		FROM package_definitions
		WHERE id = $1
	`

	var pkg PackageDefinition
	err := r.db.GetContext(ctx, &pkg, query, id)
	if err != nil {
		return nil, err
	}

	return &pkg, nil
}

func (r *repository) ListActive(ctx context.Context) ([]PackageDefinition, error) {
	query := `
		SELECT id, name, description, price, duration_value, duration_unit, session_count, is_active, created_at, updated_at
		FROM package_definitions
		WHERE is_active = TRUE
		ORDER BY price ASC
	`

	var pkgs []PackageDefinition
	err := r.db.SelectContext(ctx, &pkgs, query)
	if err != nil {
		return nil, err
	}

	return pkgs, nil
}

func (r *repository) ListAll(ctx context.Context) ([]PackageDefinition, error) {
	query := `
		SELECT id, name, description, price, duration_value, duration_unit, session_count, is_active, created_at, updated_at
		FROM package_definitions
		ORDER BY price ASC
	`

	var pkgs []PackageDefinition
	err := r.db.SelectContext(ctx, &pkgs, query)
	if err != nil {
		return nil, err
	}

	return pkgs, nil
}

func (r *repository) Update(ctx context.Context, pkg *PackageDefinition) error {
	query := `
		UPDATE package_definitions
		SET name = $1, description = $2, price = $3, duration_value = $4,
		    duration_unit = $5, session_count = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8
	`

	result, err := r.db.ExecContext(ctx, query,
		pkg.Name, pkg.Description, pkg.Price, pkg.DurationValue,
		pkg.DurationUnit, pkg.SessionCount, pkg.IsActive, pkg.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrPackageNotFound
	}

	return nil
}

func (r *repository) Deactivate(ctx context.Context, id int) error {
	query := `
		UPDATE package_definitions
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
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
		return ErrPackageNotFound
	}

	return nil
}
