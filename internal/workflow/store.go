package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// State is the durable progress of one registration's onboarding wizard.
type State struct {
	RegistrationID    int
	Completed         StepSet
	SelectedTrainerID *int
}

func NewState(registrationID int) *State {
	return &State{
		RegistrationID: registrationID,
		Completed:      StepSet{},
	}
}

// Store persists workflow state keyed by registration id. Implementations
// must survive process restart; concurrent sessions for the same registration
// are not supported (last writer wins).
type Store interface {
	Load(ctx context.Context, registrationID int) (*State, error)
	Save(ctx context.Context, state *State) error
	Delete(ctx context.Context, registrationID int) error
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func stepsKey(registrationID int) string {
	return fmt.Sprintf("workflow:%d", registrationID)
}

func trainerKey(registrationID int) string {
	return fmt.Sprintf("workflow-trainer:%d", registrationID)
}

func (s *RedisStore) Load(ctx context.Context, registrationID int) (*State, error) {
	state := NewState(registrationID)

	raw, err := s.client.Get(ctx, stepsKey(registrationID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return state, nil
		}
		return nil, err
	}

	var steps []Step
	if err := json.Unmarshal([]byte(raw), &steps); err != nil {
		return nil, fmt.Errorf("malformed workflow state for registration %d: %w", registrationID, err)
	}
	state.Completed = NewStepSet(steps...)

	trainerRaw, err := s.client.Get(ctx, trainerKey(registrationID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return state, nil
		}
		return nil, err
	}

	trainerID, err := strconv.Atoi(trainerRaw)
	if err != nil {
		return nil, fmt.Errorf("malformed trainer id for registration %d: %w", registrationID, err)
	}
	state.SelectedTrainerID = &trainerID

	return state, nil
}

func (s *RedisStore) Save(ctx context.Context, state *State) error {
	steps := state.Completed.Slice()
	if steps == nil {
		steps = []Step{}
	}

	data, err := json.Marshal(steps)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, stepsKey(state.RegistrationID), data, 0).Err(); err != nil {
		return err
	}

	if state.SelectedTrainerID != nil {
		return s.client.Set(ctx, trainerKey(state.RegistrationID), strconv.Itoa(*state.SelectedTrainerID), 0).Err()
	}
	return s.client.Del(ctx, trainerKey(state.RegistrationID)).Err()
}

func (s *RedisStore) Delete(ctx context.Context, registrationID int) error {
	return s.client.Del(ctx, stepsKey(registrationID), trainerKey(registrationID)).Err()
}
