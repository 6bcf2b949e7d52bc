package workflow

// Step is one stage of the onboarding wizard that follows a package purchase.
type Step string

const (
	StepTrainerSelection   Step = "trainer_selection"
	StepScheduleGeneration Step = "schedule_generation"
	StepScheduleView       Step = "schedule_view"
	StepCompleted          Step = "completed"
)

// requiredSteps lists the steps a workflow must finish, in order.
var requiredSteps = []Step{StepTrainerSelection, StepScheduleGeneration, StepScheduleView}

// StepSet is the set of completed onboarding steps.
type StepSet map[Step]bool

func NewStepSet(steps ...Step) StepSet {
	set := StepSet{}
	for _, s := range steps {
		set[s] = true
	}
	return set
}

func (s StepSet) Has(step Step) bool {
	return s[step]
}

func (s StepSet) Add(step Step) {
	s[step] = true
}

func (s StepSet) Clone() StepSet {
	clone := make(StepSet, len(s))
	for step := range s {
		clone[step] = true
	}
	return clone
}

// Slice returns the completed steps in wizard order, for stable serialization.
func (s StepSet) Slice() []Step {
	var steps []Step
	for _, step := range requiredSteps {
		if s.Has(step) {
			steps = append(steps, step)
		}
	}
	return steps
}

// CurrentStep derives the wizard's position purely from the completed-step
// set. Keeping no independent step pointer means reloading persisted state
// always lands on a consistent, reachable step.
func CurrentStep(done StepSet) Step {
	switch {
	case done.Has(StepTrainerSelection) && done.Has(StepScheduleGeneration) && done.Has(StepScheduleView):
		return StepCompleted
	case done.Has(StepTrainerSelection) && done.Has(StepScheduleGeneration):
		return StepScheduleView
	case done.Has(StepTrainerSelection):
		return StepScheduleGeneration
	default:
		return StepTrainerSelection
	}
}

// MissingSteps lists the required steps not yet completed, in wizard order.
func MissingSteps(done StepSet) []Step {
	var missing []Step
	for _, step := range requiredSteps {
		if !done.Has(step) {
			missing = append(missing, step)
		}
	}
	return missing
}
