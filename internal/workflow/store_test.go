package workflow

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStoreLoadFresh(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectGet("workflow:7").RedisNil()

	store := NewRedisStore(db)
	state, err := store.Load(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, 7, state.RegistrationID)
	assert.Empty(t, state.Completed.Slice())
	assert.Nil(t, state.SelectedTrainerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreLoadWithProgress(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectGet("workflow:7").SetVal(`["trainer_selection","schedule_generation"]`)
	mock.ExpectGet("workflow-trainer:7").SetVal("3")

	store := NewRedisStore(db)
	state, err := store.Load(ctx, 7)

	require.NoError(t, err)
	assert.True(t, state.Completed.Has(StepTrainerSelection))
	assert.True(t, state.Completed.Has(StepScheduleGeneration))
	require.NotNil(t, state.SelectedTrainerID)
	assert.Equal(t, 3, *state.SelectedTrainerID)
	// Текущий шаг выводится из загруженного набора.
	assert.Equal(t, StepScheduleView, CurrentStep(state.Completed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreLoadWithoutTrainer(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectGet("workflow:7").SetVal(`["trainer_selection"]`)
	mock.ExpectGet("workflow-trainer:7").RedisNil()

	store := NewRedisStore(db)
	state, err := store.Load(ctx, 7)

	require.NoError(t, err)
	assert.True(t, state.Completed.Has(StepTrainerSelection))
	assert.Nil(t, state.SelectedTrainerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreLoadMalformedSteps(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectGet("workflow:7").SetVal(`not-json`)

	store := NewRedisStore(db)
	_, err := store.Load(ctx, 7)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreSaveWithTrainer(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectSet("workflow:7", []byte(`["trainer_selection"]`), 0).SetVal("OK")
	mock.ExpectSet("workflow-trainer:7", "3", 0).SetVal("OK")

	state := NewState(7)
	state.Completed.Add(StepTrainerSelection)
	trainerID := 3
	state.SelectedTrainerID = &trainerID

	store := NewRedisStore(db)
	require.NoError(t, store.Save(ctx, state))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreSaveWithoutTrainerDropsKey(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectSet("workflow:7", []byte(`[]`), 0).SetVal("OK")
	mock.ExpectDel("workflow-trainer:7").SetVal(1)

	store := NewRedisStore(db)
	require.NoError(t, store.Save(ctx, NewState(7)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreDelete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectDel("workflow:7", "workflow-trainer:7").SetVal(2)

	store := NewRedisStore(db)
	require.NoError(t, store.Delete(ctx, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreSaveErrorPropagates(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectSet("workflow:7", []byte(`[]`), 0).SetErr(assert.AnError)

	store := NewRedisStore(db)
	assert.Error(t, store.Save(ctx, NewState(7)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
