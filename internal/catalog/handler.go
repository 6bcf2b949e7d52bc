package catalog

import (
	"database/sql"
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

// @Summary      List membership packages
// @Description  Lists active membership packages available for purchase.
// @Tags         packages
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} catalog.PackageDefinition
// @Failure      500 {object} api.ErrorResponse
// @Router       /packages [get]
func (h *Handler) ListPackages(c *gin.Context) {
	pkgs, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch packages"})
		return
	}

	c.JSON(http.StatusOK, pkgs)
}

// @Summary      List all packages (admin)
// @Tags         admin,packages
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} catalog.PackageDefinition
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/packages [get]
func (h *Handler) ListAllPackages(c *gin.Context) {
	pkgs, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch packages"})
		return
	}

	c.JSON(http.StatusOK, pkgs)
}

// @Summary      Create a membership package
// @Tags         admin,packages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body catalog.CreatePackageRequest true "Package payload"
// @Success      201 {object} catalog.PackageDefinition
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/packages [post]
func (h *Handler) CreatePackage(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	pkg, err := h.repo.Create(
		c.Request.Context(),
		req.Name,
		req.Description,
		req.Price,
		req.DurationValue,
		DurationUnit(req.DurationUnit),
		req.SessionCount,
	)
	if err != nil {
		logger.Errorf("Failed to create package %q: %v", req.Name, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create package"})
		return
	}

	c.JSON(http.StatusCreated, pkg)
}

// @Summary      Update a membership package
// @Tags         admin,packages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        packageID path int true "Package ID"
// @Param        request body catalog.UpdatePackageRequest true "Package payload"
// @Success      200 {object} catalog.PackageDefinition
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/packages/{packageID} [put]
func (h *Handler) UpdatePackage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("packageID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid package ID"})
		return
	}

	var req UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	pkg, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Package not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch package"})
		return
	}

	pkg.Name = req.Name
	pkg.Description = req.Description
	pkg.Price = req.Price
	pkg.DurationValue = req.DurationValue
	pkg.DurationUnit = DurationUnit(req.DurationUnit)
	pkg.SessionCount = req.SessionCount
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	if err := h.repo.Update(ctx, pkg); err != nil {
		if errors.Is(err, ErrPackageNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Package not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update package"})
		return
	}

	c.JSON(http.StatusOK, pkg)
}

// @Summary      Deactivate a membership package
// @Tags         admin,packages
// @Produce      json
// @Security     BearerAuth
// @Param        packageID path int true "Package ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/packages/{packageID} [delete]
func (h *Handler) DeactivatePackage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("packageID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid package ID"})
		return
	}

	if err := h.repo.Deactivate(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrPackageNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Package not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to deactivate package"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Package deactivated"})
}
