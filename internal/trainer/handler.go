package trainer

import (
	"errors"
	"net/http"
	"strconv"

	"gymcore/internal/api"
	"gymcore/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// @Summary      List trainers
// @Tags         trainers
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} trainer.Trainer
// @Failure      500 {object} api.ErrorResponse
// @Router       /trainers [get]
func (h *Handler) ListTrainers(c *gin.Context) {
	trainers, err := h.repo.ListTrainers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch trainers"})
		return
	}

	c.JSON(http.StatusOK, trainers)
}

// @Summary      Get a trainer's weekly availability
// @Tags         trainers
// @Produce      json
// @Security     BearerAuth
// @Param        trainerID path int true "Trainer ID"
// @Success      200 {object} trainer.WeeklySchedule
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /trainers/{trainerID}/availability [get]
func (h *Handler) GetAvailability(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("trainerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid trainer ID"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.repo.GetTrainerByID(ctx, id); err != nil {
		if errors.Is(err, ErrTrainerNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Trainer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch trainer"})
		return
	}

	schedule, err := h.repo.GetWeeklySchedule(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch availability"})
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// @Summary      Create a trainer (admin)
// @Tags         admin,trainers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body trainer.CreateTrainerRequest true "Trainer payload"
// @Success      201 {object} trainer.Trainer
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/trainers [post]
func (h *Handler) CreateTrainer(c *gin.Context) {
	var req CreateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	t, err := h.repo.CreateTrainer(c.Request.Context(), req.Name, req.Specialty)
	if err != nil {
		logger.Errorf("Failed to create trainer %q: %v", req.Name, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create trainer"})
		return
	}

	c.JSON(http.StatusCreated, t)
}

// @Summary      Replace a trainer's weekly availability (admin)
// @Tags         admin,trainers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        trainerID path int true "Trainer ID"
// @Param        request body trainer.UpsertAvailabilityRequest true "Availability payload"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/trainers/{trainerID}/availability [put]
func (h *Handler) ReplaceAvailability(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("trainerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid trainer ID"})
		return
	}

	var req UpsertAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.repo.GetTrainerByID(ctx, id); err != nil {
		if errors.Is(err, ErrTrainerNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Trainer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch trainer"})
		return
	}

	intervals := make([]Interval, 0, len(req.Intervals))
	for _, iv := range req.Intervals {
		if iv.EndTime <= iv.StartTime {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Interval end must be after start"})
			return
		}
		intervals = append(intervals, Interval{
			TrainerID: id,
			Weekday:   iv.Weekday,
			StartTime: iv.StartTime,
			EndTime:   iv.EndTime,
			Status:    IntervalStatus(iv.Status),
		})
	}

	if err := h.repo.ReplaceAvailability(ctx, id, intervals); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update availability"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Availability updated"})
}
