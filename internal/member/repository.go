package member

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrMemberNotFound = errors.New("member not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, email, passwordHash string, phone *string, role string) (*Member, error) {
	query := `
		INSERT INTO members (name, email, password_hash, phone, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, email, password_hash, phone, role, created_at
	`

	var m Member
	err := r.db.GetContext(ctx, &m, query, name, email, passwordHash, phone, role)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Member, error) {
	query := `
		SELECT id, name, email, password_hash, phone, role, created_at
		FROM members
		WHERE email = $1
	`

	var m Member
	err := r.db.GetContext(ctx, &m, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Member, error) {
	query := `
		SELECT id, name, email, password_hash, phone, role, created_at
		FROM members
		WHERE id = $1
	`

	var m Member
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM members WHERE email = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) List(ctx context.Context) ([]Member, error) {
	query := `
		SELECT id, name, email, password_hash, phone, role, created_at
		FROM members
		ORDER BY id ASC
	`

	var members []Member
	err := r.db.SelectContext(ctx, &members, query)
	if err != nil {
		return nil, err
	}

	return members, nil
}
