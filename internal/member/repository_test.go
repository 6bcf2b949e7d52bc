package member

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMemberMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func memberColumns() []string {
	return []string{"id", "name", "email", "password_hash", "phone", "role", "created_at"}
}

func TestCreateMember(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO members")).
		WithArgs("Ana", "ana@example.com", "hash", nil, "member").
		WillReturnRows(sqlmock.NewRows(memberColumns()).
			AddRow(1, "Ana", "ana@example.com", "hash", nil, "member", time.Now()))

	m, err := repo.Create(context.Background(), "Ana", "ana@example.com", "hash", nil, "member")

	require.NoError(t, err)
	assert.Equal(t, 1, m.ID)
	assert.Equal(t, "member", m.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmailNotFound(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM members")).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(memberColumns()))

	_, err := repo.FindByEmail(context.Background(), "ghost@example.com")

	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	phone := "+1234567"
	mock.ExpectQuery(regexp.QuoteMeta("FROM members")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(memberColumns()).
			AddRow(5, "Ana", "ana@example.com", "hash", phone, "admin", time.Now()))

	m, err := repo.FindByID(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, "admin", m.Role)
	require.NotNil(t, m.Phone)
	assert.Equal(t, phone, *m.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailExists(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "ana@example.com")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
