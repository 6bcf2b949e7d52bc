package workflow

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymcore/internal/api"
	"gymcore/internal/auth"
	"gymcore/internal/registration"
	"gymcore/internal/trainer"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store         Store
	trainers      TrainerDirectory
	scheduler     ScheduleGenerator
	owner         Owner
	notifier      Notifier
	registrations registration.Service
}

func NewHandler(store Store, trainers TrainerDirectory, scheduler ScheduleGenerator, owner Owner, notifier Notifier, registrations registration.Service) *Handler {
	return &Handler{
		store:         store,
		trainers:      trainers,
		scheduler:     scheduler,
		owner:         owner,
		notifier:      notifier,
		registrations: registrations,
	}
}

type SelectTrainerRequest struct {
	TrainerID int `json:"trainer_id" binding:"required"`
}

type GenerateScheduleRequest struct {
	// Days are time.Weekday values, Sunday = 0.
	Days  []int       `json:"days" binding:"required"`
	Slots []TimeRange `json:"slots" binding:"required"`
}

type StatusResponse struct {
	RegistrationID    int    `json:"registration_id"`
	CurrentStep       Step   `json:"current_step"`
	CompletedSteps    []Step `json:"completed_steps"`
	MissingSteps      []Step `json:"missing_steps"`
	SelectedTrainerID *int   `json:"selected_trainer_id,omitempty"`
}

type ScheduleCreatedResponse struct {
	ScheduleID  int  `json:"schedule_id"`
	CurrentStep Step `json:"current_step"`
}

type BackResponse struct {
	CurrentStep Step `json:"current_step"`
}

// resume authorizes the request against the registration owner and loads the
// workflow engine from persisted state. Any failure is already written to the
// response when ok is false.
func (h *Handler) resume(c *gin.Context) (*Engine, bool) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return nil, false
	}

	registrationID, err := strconv.Atoi(c.Param("registrationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid registration ID"})
		return nil, false
	}

	reg, err := h.registrations.GetByID(c.Request.Context(), registrationID)
	if err != nil {
		if errors.Is(err, registration.ErrRegistrationNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Registration not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load registration"})
		return nil, false
	}
	if reg.MemberID != memberID {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Registration belongs to another member"})
		return nil, false
	}

	engine := NewEngine(h.store, h.trainers, h.scheduler, h.owner, h.notifier)
	if err := engine.Resume(c.Request.Context(), registrationID); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load workflow state"})
		return nil, false
	}
	return engine, true
}

func (h *Handler) status(engine *Engine) StatusResponse {
	state := engine.State()
	return StatusResponse{
		RegistrationID:    state.RegistrationID,
		CurrentStep:       engine.CurrentStep(),
		CompletedSteps:    state.Completed.Slice(),
		MissingSteps:      MissingSteps(state.Completed),
		SelectedTrainerID: state.SelectedTrainerID,
	}
}

// @Summary      Get onboarding status
// @Description  Returns the wizard's current step, derived from the persisted completed-step set.
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        registrationID path int true "Registration ID"
// @Success      200 {object} workflow.StatusResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /workflow/{registrationID} [get]
func (h *Handler) Status(c *gin.Context) {
	engine, ok := h.resume(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.status(engine))
}

// @Summary      Select a trainer
// @Tags         workflow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        registrationID path int true "Registration ID"
// @Param        request body workflow.SelectTrainerRequest true "Trainer selection"
// @Success      200 {object} workflow.StatusResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /workflow/{registrationID}/trainer [post]
func (h *Handler) SelectTrainer(c *gin.Context) {
	engine, ok := h.resume(c)
	if !ok {
		return
	}

	var req SelectTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := engine.SelectTrainer(c.Request.Context(), req.TrainerID); err != nil {
		switch {
		case errors.Is(err, ErrStepOrder):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Trainer selection is already done"})
		case errors.Is(err, trainer.ErrTrainerNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Trainer not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to select trainer"})
		}
		return
	}

	c.JSON(http.StatusOK, h.status(engine))
}

// @Summary      Generate the training schedule
// @Description  Validates the requested day/slot pairs against the selected trainer's availability and creates the schedule.
// @Tags         workflow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        registrationID path int true "Registration ID"
// @Param        request body workflow.GenerateScheduleRequest true "Requested days and time slots"
// @Success      201 {object} workflow.ScheduleCreatedResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /workflow/{registrationID}/schedule [post]
func (h *Handler) GenerateSchedule(c *gin.Context) {
	engine, ok := h.resume(c)
	if !ok {
		return
	}

	var req GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	days := make([]time.Weekday, len(req.Days))
	for i, d := range req.Days {
		if d < 0 || d > 6 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid weekday"})
			return
		}
		days[i] = time.Weekday(d)
	}

	scheduleID, err := engine.GenerateSchedule(c.Request.Context(), days, req.Slots)
	if err != nil {
		switch {
		case errors.Is(err, ErrStepOrder):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Schedule generation is not the current step"})
		case errors.Is(err, ErrTrainerNotSelected):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Select a trainer first"})
		case errors.Is(err, ErrIncompleteSelection):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Pick a time slot for every selected day"})
		case errors.Is(err, ErrSlotUnavailable):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to generate schedule"})
		}
		return
	}

	c.JSON(http.StatusCreated, ScheduleCreatedResponse{
		ScheduleID:  scheduleID,
		CurrentStep: engine.CurrentStep(),
	})
}

// @Summary      Confirm the generated schedule
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        registrationID path int true "Registration ID"
// @Success      200 {object} workflow.StatusResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /workflow/{registrationID}/confirm [post]
func (h *Handler) ConfirmSchedule(c *gin.Context) {
	engine, ok := h.resume(c)
	if !ok {
		return
	}

	if err := engine.ConfirmSchedule(c.Request.Context()); err != nil {
		if errors.Is(err, ErrStepOrder) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "No schedule to confirm yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to confirm schedule"})
		return
	}

	c.JSON(http.StatusOK, h.status(engine))
}

// @Summary      Complete onboarding
// @Description  Finishes the wizard, activates the registration with the chosen trainer and discards the persisted progress.
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        registrationID path int true "Registration ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorDetailResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /workflow/{registrationID}/complete [post]
func (h *Handler) Complete(c *gin.Context) {
	engine, ok := h.resume(c)
	if !ok {
		return
	}

	if err := engine.Complete(c.Request.Context()); err != nil {
		var incomplete *StepsIncompleteError
		switch {
		case errors.As(err, &incomplete):
			missing := make([]string, len(incomplete.Missing))
			for i, s := range incomplete.Missing {
				missing[i] = string(s)
			}
			c.JSON(http.StatusBadRequest, api.ErrorDetailResponse{
				Error:   "Onboarding steps incomplete",
				Missing: missing,
			})
		case errors.Is(err, ErrTrainerNotSelected):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Select a trainer first"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to complete onboarding"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Onboarding completed"})
}

// @Summary      Reset onboarding progress
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        registrationID path int true "Registration ID"
// @Success      200 {object} workflow.StatusResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /workflow/{registrationID}/reset [post]
func (h *Handler) Reset(c *gin.Context) {
	engine, ok := h.resume(c)
	if !ok {
		return
	}

	if err := engine.Reset(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to reset workflow"})
		return
	}

	c.JSON(http.StatusOK, h.status(engine))
}

// @Summary      Step the wizard backwards
// @Description  From schedule generation this clears all progress including the chosen trainer; from the schedule view it only moves the view back.
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        registrationID path int true "Registration ID"
// @Success      200 {object} workflow.BackResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /workflow/{registrationID}/back [post]
func (h *Handler) Back(c *gin.Context) {
	engine, ok := h.resume(c)
	if !ok {
		return
	}

	step, err := engine.Back(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrStepOrder) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Nothing to go back to"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to step back"})
		return
	}

	c.JSON(http.StatusOK, BackResponse{CurrentStep: step})
}
