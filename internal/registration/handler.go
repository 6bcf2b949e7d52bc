package registration

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymcore/internal/api"
	"gymcore/internal/auth"
	"gymcore/internal/catalog"
	"gymcore/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service  Service
	packages catalog.Repository
}

func NewHandler(service Service, packages catalog.Repository) *Handler {
	return &Handler{
		service:  service,
		packages: packages,
	}
}

type EvaluateRequest struct {
	PackageID int    `json:"package_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
}

type CreateRegistrationRequest struct {
	PackageID int    `json:"package_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	// StartOnboarding makes the new registration wait for the onboarding
	// workflow instead of activating immediately.
	StartOnboarding bool `json:"start_onboarding"`
}

type PauseRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *Handler) loadPackage(c *gin.Context, packageID int) (*catalog.PackageDefinition, bool) {
	pkg, err := h.packages.GetByID(c.Request.Context(), packageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Package not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch package"})
		return nil, false
	}
	if !pkg.IsActive {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Package is no longer offered"})
		return nil, false
	}
	return pkg, true
}

func parseStartDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// @Summary      Evaluate a registration request
// @Description  Quotes the amount due for a package, detecting upgrades and forbidden requests without mutating anything.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body registration.EvaluateRequest true "Evaluation payload"
// @Success      200 {object} registration.Quote
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /registrations/evaluate [post]
func (h *Handler) Evaluate(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	startDate, err := parseStartDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid start date"})
		return
	}

	pkg, ok := h.loadPackage(c, req.PackageID)
	if !ok {
		return
	}

	quote, err := h.service.Evaluate(c.Request.Context(), memberID, pkg, startDate)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyRegistered):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Already registered for this package"})
		case errors.Is(err, ErrDowngradeForbidden):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Downgrade to a cheaper package is not allowed"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to evaluate registration"})
		}
		return
	}

	c.JSON(http.StatusOK, quote)
}

// @Summary      Register for a package
// @Description  Evaluates and commits a package registration in one call. Upgrades supersede the member's current package.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body registration.CreateRegistrationRequest true "Registration payload"
// @Success      201 {object} registration.PackageRegistration
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /registrations [post]
func (h *Handler) Create(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	startDate, err := parseStartDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid start date"})
		return
	}

	if startDate.Before(time.Now().Truncate(24 * time.Hour)) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Start date must not be in the past"})
		return
	}

	pkg, ok := h.loadPackage(c, req.PackageID)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	quote, err := h.service.Evaluate(ctx, memberID, pkg, startDate)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyRegistered):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Already registered for this package"})
		case errors.Is(err, ErrDowngradeForbidden):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Downgrade to a cheaper package is not allowed"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to evaluate registration"})
		}
		return
	}

	initialStatus := StatusActive
	if req.StartOnboarding {
		initialStatus = StatusAwaitingTrainer
	}

	created, err := h.service.Commit(ctx, memberID, pkg, startDate, quote, initialStatus)
	if err != nil {
		if errors.Is(err, ErrStaleRegistrationState) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Registration state changed, please retry"})
			return
		}
		logger.Errorf("Failed to commit registration for member %d: %v", memberID, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create registration"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary      List my registrations
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} registration.PackageRegistration
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /registrations [get]
func (h *Handler) ListMy(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	regs, err := h.service.ListByMember(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load registrations"})
		return
	}

	c.JSON(http.StatusOK, regs)
}

// @Summary      Get my occupying registration
// @Description  Returns the member's single current registration, if any.
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} registration.PackageRegistration
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /registrations/current [get]
func (h *Handler) GetCurrent(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	reg, err := h.service.FindOccupying(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load registration"})
		return
	}
	if reg == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "No current registration"})
		return
	}

	c.JSON(http.StatusOK, reg)
}

// @Summary      Pause a registration (admin)
// @Tags         admin,registrations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        registrationID path int true "Registration ID"
// @Param        request body registration.PauseRequest true "Pause payload"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/registrations/{registrationID}/pause [post]
func (h *Handler) Pause(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("registrationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid registration ID"})
		return
	}

	var req PauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.service.Pause(c.Request.Context(), id, req.Reason); err != nil {
		if errors.Is(err, ErrRegistrationNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Registration not found or not pausable"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to pause registration"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Registration paused"})
}

// @Summary      Reactivate a paused registration (admin)
// @Tags         admin,registrations
// @Produce      json
// @Security     BearerAuth
// @Param        registrationID path int true "Registration ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/registrations/{registrationID}/reactivate [post]
func (h *Handler) Reactivate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("registrationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid registration ID"})
		return
	}

	if err := h.service.Reactivate(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrRegistrationNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Registration not found"})
		case errors.Is(err, ErrNotPaused):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Registration is not paused"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to reactivate registration"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Registration reactivated"})
}

// @Summary      List a member's registrations (admin)
// @Tags         admin,registrations
// @Produce      json
// @Security     BearerAuth
// @Param        memberID path int true "Member ID"
// @Success      200 {array} registration.PackageRegistration
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/members/{memberID}/registrations [get]
func (h *Handler) ListByMember(c *gin.Context) {
	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return
	}

	regs, err := h.service.ListByMember(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load registrations"})
		return
	}

	c.JSON(http.StatusOK, regs)
}
