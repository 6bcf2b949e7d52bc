package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gymcore/internal/logger"
	"gymcore/internal/metrics"
	"gymcore/internal/trainer"
)

var (
	ErrStepOrder           = errors.New("operation not allowed in current step")
	ErrTrainerNotSelected  = errors.New("no trainer selected")
	ErrIncompleteSelection = errors.New("time slot count must match day count")
	ErrSlotUnavailable     = errors.New("requested slot conflicts with trainer schedule")
)

// StepsIncompleteError reports a completion attempt with steps still missing.
type StepsIncompleteError struct {
	Missing []Step
}

func (e *StepsIncompleteError) Error() string {
	names := make([]string, len(e.Missing))
	for i, s := range e.Missing {
		names[i] = string(s)
	}
	return "workflow steps incomplete: " + strings.Join(names, ", ")
}

// TimeRange is a requested training window within a day.
type TimeRange struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// TrainerDirectory is the slice of the trainer repository the engine needs.
type TrainerDirectory interface {
	GetTrainerByID(ctx context.Context, id int) (*trainer.Trainer, error)
	GetWeeklySchedule(ctx context.Context, trainerID int) (trainer.WeeklySchedule, error)
}

// ScheduleGenerator materializes the session-by-session schedule once the
// engine has validated the requested slots.
type ScheduleGenerator interface {
	CreateSchedule(ctx context.Context, registrationID, trainerID int, slots []trainer.SlotRequest) (int, error)
}

// Owner is notified when onboarding finishes so the registration can be
// marked workflow-complete.
type Owner interface {
	CompleteOnboarding(ctx context.Context, registrationID, trainerID int) error
}

// Notifier is the outcome sink invoked on workflow completion.
type Notifier interface {
	WorkflowCompleted(ctx context.Context, registrationID int)
}

// Engine drives the three-step onboarding wizard for one package
// registration. Progress lives in the Store, so a new Engine resumed for the
// same registration id picks up exactly where the last one stopped.
type Engine struct {
	store     Store
	trainers  TrainerDirectory
	scheduler ScheduleGenerator
	owner     Owner
	notifier  Notifier

	state *State
}

func NewEngine(store Store, trainers TrainerDirectory, scheduler ScheduleGenerator, owner Owner, notifier Notifier) *Engine {
	return &Engine{
		store:     store,
		trainers:  trainers,
		scheduler: scheduler,
		owner:     owner,
		notifier:  notifier,
	}
}

// Resume loads persisted progress for the registration. A registration with
// no persisted state starts at trainer selection.
func (e *Engine) Resume(ctx context.Context, registrationID int) error {
	state, err := e.store.Load(ctx, registrationID)
	if err != nil {
		return err
	}
	e.state = state
	return nil
}

func (e *Engine) CurrentStep() Step {
	return CurrentStep(e.state.Completed)
}

func (e *Engine) State() *State {
	return e.state
}

func (e *Engine) SelectTrainer(ctx context.Context, trainerID int) error {
	if e.CurrentStep() != StepTrainerSelection {
		return ErrStepOrder
	}

	if _, err := e.trainers.GetTrainerByID(ctx, trainerID); err != nil {
		return err
	}

	e.state.SelectedTrainerID = &trainerID
	e.state.Completed.Add(StepTrainerSelection)
	if err := e.store.Save(ctx, e.state); err != nil {
		return err
	}

	metrics.RecordWorkflowStep(string(StepTrainerSelection))
	logger.Infof("Workflow %d: trainer %d selected", e.state.RegistrationID, trainerID)
	return nil
}

// GenerateSchedule validates the requested slots against the selected
// trainer's weekly availability and delegates the actual schedule
// construction. days and slots are parallel: slots[i] is the window requested
// on days[i].
func (e *Engine) GenerateSchedule(ctx context.Context, days []time.Weekday, slots []TimeRange) (int, error) {
	if e.CurrentStep() != StepScheduleGeneration {
		return 0, ErrStepOrder
	}
	if e.state.SelectedTrainerID == nil {
		return 0, ErrTrainerNotSelected
	}

	// Count mismatch is rejected before any availability lookup.
	if len(slots) != len(days) || len(days) == 0 {
		return 0, ErrIncompleteSelection
	}

	requests := make([]trainer.SlotRequest, len(days))
	for i, day := range days {
		requests[i] = trainer.SlotRequest{
			Day:       day,
			StartTime: slots[i].StartTime,
			EndTime:   slots[i].EndTime,
		}
	}

	schedule, err := e.trainers.GetWeeklySchedule(ctx, *e.state.SelectedTrainerID)
	if err != nil {
		return 0, err
	}

	if conflict := schedule.FirstConflict(requests); conflict != nil {
		return 0, fmt.Errorf("%w: %s %s-%s", ErrSlotUnavailable,
			conflict.Day, conflict.StartTime, conflict.EndTime)
	}

	scheduleID, err := e.scheduler.CreateSchedule(ctx, e.state.RegistrationID, *e.state.SelectedTrainerID, requests)
	if err != nil {
		return 0, err
	}

	e.state.Completed.Add(StepScheduleGeneration)
	if err := e.store.Save(ctx, e.state); err != nil {
		return 0, err
	}

	metrics.RecordWorkflowStep(string(StepScheduleGeneration))
	logger.Infof("Workflow %d: schedule %d generated", e.state.RegistrationID, scheduleID)
	return scheduleID, nil
}

// ConfirmSchedule marks the schedule-view step done. Viewing and confirming
// are the same action.
func (e *Engine) ConfirmSchedule(ctx context.Context) error {
	if e.CurrentStep() != StepScheduleView {
		return ErrStepOrder
	}

	e.state.Completed.Add(StepScheduleView)
	if err := e.store.Save(ctx, e.state); err != nil {
		return err
	}

	metrics.RecordWorkflowStep(string(StepScheduleView))
	return nil
}

// Complete finishes the workflow: the owner is told to mark the registration
// workflow-complete and the persisted state is removed. Calling Complete with
// only the schedule-view step missing counts the confirmation implicitly.
func (e *Engine) Complete(ctx context.Context) error {
	done := e.state.Completed.Clone()
	if done.Has(StepTrainerSelection) && done.Has(StepScheduleGeneration) {
		done.Add(StepScheduleView)
	}

	if missing := MissingSteps(done); len(missing) > 0 {
		return &StepsIncompleteError{Missing: missing}
	}

	if e.state.SelectedTrainerID == nil {
		return ErrTrainerNotSelected
	}

	if err := e.owner.CompleteOnboarding(ctx, e.state.RegistrationID, *e.state.SelectedTrainerID); err != nil {
		return err
	}

	if err := e.store.Delete(ctx, e.state.RegistrationID); err != nil {
		return err
	}
	e.state.Completed = done

	metrics.RecordWorkflowCompletion()
	logger.Infof("Workflow %d: completed", e.state.RegistrationID)

	if e.notifier != nil {
		e.notifier.WorkflowCompleted(ctx, e.state.RegistrationID)
	}
	return nil
}

// Reset discards all progress and returns the wizard to trainer selection.
func (e *Engine) Reset(ctx context.Context) error {
	if err := e.store.Delete(ctx, e.state.RegistrationID); err != nil {
		return err
	}

	e.state = NewState(e.state.RegistrationID)
	metrics.RecordWorkflowReset()
	logger.Infof("Workflow %d: reset", e.state.RegistrationID)
	return nil
}

// Back steps the wizard backwards and returns the step to land on. Stepping
// back from schedule generation clears all progress including the selected
// trainer; stepping back from the schedule view only moves the view, leaving
// completed-step markers intact.
func (e *Engine) Back(ctx context.Context) (Step, error) {
	switch e.CurrentStep() {
	case StepScheduleGeneration:
		if err := e.Reset(ctx); err != nil {
			return "", err
		}
		return StepTrainerSelection, nil
	case StepScheduleView:
		return StepScheduleGeneration, nil
	default:
		return "", ErrStepOrder
	}
}
