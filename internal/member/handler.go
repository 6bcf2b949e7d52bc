package member

import (
	"errors"
	"net/http"

	"gymcore/internal/api"
	"gymcore/internal/auth"
	"gymcore/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Register a new member
// @Description  Creates a member account and returns access and refresh tokens.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body member.RegisterRequest true "Registration data"
// @Success      201 {object} member.LoginResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	m, accessToken, refreshToken, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Email already registered"})
			return
		}
		logger.Errorf("Failed to register member %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to register"})
		return
	}

	c.JSON(http.StatusCreated, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Member:       *m,
	})
}

// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body member.LoginRequest true "Credentials"
// @Success      200 {object} member.LoginResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	m, accessToken, refreshToken, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Member:       *m,
	})
}

// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body member.RefreshRequest true "Refresh token"
// @Success      200 {object} member.RefreshResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	accessToken, m, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{
		AccessToken: accessToken,
		Member:      *m,
	})
}

// @Summary      Get my profile
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} member.Member
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /members/me [get]
func (h *Handler) Me(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	m, err := h.service.GetByID(c.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load member"})
		return
	}

	c.JSON(http.StatusOK, m)
}

// @Summary      List members (admin)
// @Tags         admin,members
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} member.Member
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/members [get]
func (h *Handler) List(c *gin.Context) {
	members, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load members"})
		return
	}

	c.JSON(http.StatusOK, members)
}
