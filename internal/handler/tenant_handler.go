package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/model"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/store"
	"github.com/onurhanbolatt/FrameCraft-sub000/pkg/logger"
	"github.com/onurhanbolatt/FrameCraft-sub000/prometheus"
	"go.uber.org/zap"
)

// TenantHandler serves the privileged tenant provisioning endpoints.
type TenantHandler struct {
	tenants *store.TenantStore
}

// NewTenantHandler creates a TenantHandler.
func NewTenantHandler(tenants *store.TenantStore) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// Create handles POST /api/tenants.
func (h *TenantHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordTenantOperation("create")

	var req struct {
		Name           string `json:"name"`
		Slug           string `json:"slug"`
		MaxUsers       int    `json:"max_users"`
		StorageQuotaMB int    `json:"storage_quota_mb"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" || req.Slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and slug are required"})
	}

	if _, err := h.tenants.FindBySlug(c.Request().Context(), req.Slug); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "slug already in use"})
	} else if !errors.Is(err, model.ErrNotFound) {
		log.Error("Failed to check tenant slug", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tenant creation failed"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	tenant := model.Tenant{
		Name:           req.Name,
		Slug:           req.Slug,
		Status:         model.TenantStatusActive,
		MaxUsers:       req.MaxUsers,
		StorageQuotaMB: req.StorageQuotaMB,
	}
	if err := h.tenants.Create(c.Request().Context(), &tenant); err != nil {
		log.Error("Failed to create tenant", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tenant creation failed"})
	}

	log.Info("tenant created", zap.Uint("tenant_id", tenant.ID), zap.String("slug", tenant.Slug))
	return c.JSON(http.StatusCreated, tenant)
}

// Get handles GET /api/tenants/:id.
func (h *TenantHandler) Get(c echo.Context) error {
	prometheus.RecordTenantOperation("access")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant id"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	tenant, err := h.tenants.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, tenant)
}

// Update handles PUT /api/tenants/:id. The protected system tenant is never
// updatable.
func (h *TenantHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordTenantOperation("update")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant id"})
	}

	tenant, err := h.tenants.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}

	var req struct {
		Name           *string `json:"name"`
		Status         *string `json:"status"`
		MaxUsers       *int    `json:"max_users"`
		StorageQuotaMB *int    `json:"storage_quota_mb"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.Status != nil {
		switch *req.Status {
		case model.TenantStatusActive, model.TenantStatusInactive, model.TenantStatusSuspended, model.TenantStatusDeleted:
			tenant.Status = *req.Status
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant status"})
		}
	}
	if req.MaxUsers != nil {
		tenant.MaxUsers = *req.MaxUsers
	}
	if req.StorageQuotaMB != nil {
		tenant.StorageQuotaMB = *req.StorageQuotaMB
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.tenants.Update(c.Request().Context(), tenant); err != nil {
		if errors.Is(err, store.ErrProtectedTenant) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "protected tenant cannot be modified"})
		}
		log.Error("Failed to update tenant", zap.Error(err), zap.Uint("tenant_id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tenant update failed"})
	}
	return c.JSON(http.StatusOK, tenant)
}

// Delete handles DELETE /api/tenants/:id. Soft delete only.
func (h *TenantHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordTenantOperation("delete")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.tenants.SoftDelete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		case errors.Is(err, store.ErrProtectedTenant):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "protected tenant cannot be deleted"})
		default:
			log.Error("Failed to delete tenant", zap.Error(err), zap.Uint("tenant_id", id))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tenant deletion failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "tenant deleted"})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
