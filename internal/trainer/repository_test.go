package trainer

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupTrainerMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func TestGetWeeklySchedule(t *testing.T) {
	repo, mock, close := setupTrainerMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM trainer_availability")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trainer_id", "weekday", "start_time", "end_time", "status"}).
			AddRow(1, 1, 1, "08:00", "12:00", "free").
			AddRow(2, 1, 1, "12:00", "14:00", "busy").
			AddRow(3, 1, 3, "10:00", "16:00", "free"))

	schedule, err := repo.GetWeeklySchedule(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, schedule[time.Monday], 2)
	require.Len(t, schedule[time.Wednesday], 1)
	require.Empty(t, schedule[time.Friday])
}

func TestCreateSchedule(t *testing.T) {
	repo, mock, close := setupTrainerMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO training_schedules")).
		WithArgs(7, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(33))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO training_sessions")).
		WithArgs(33, 1, "09:00", "10:00").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO training_sessions")).
		WithArgs(33, 3, "10:00", "11:00").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	slots := []SlotRequest{
		{Day: time.Monday, StartTime: "09:00", EndTime: "10:00"},
		{Day: time.Wednesday, StartTime: "10:00", EndTime: "11:00"},
	}

	scheduleID, err := repo.CreateSchedule(context.Background(), 7, 2, slots)
	require.NoError(t, err)
	require.Equal(t, 33, scheduleID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTrainerByIDNotFound(t *testing.T) {
	repo, mock, close := setupTrainerMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM trainers")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "specialty", "is_active", "created_at"}))

	_, err := repo.GetTrainerByID(context.Background(), 99)
	require.ErrorIs(t, err, ErrTrainerNotFound)
}
