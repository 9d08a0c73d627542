package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/middleware"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/model"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/scope"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/store"
	"github.com/onurhanbolatt/FrameCraft-sub000/pkg/logger"
	"github.com/onurhanbolatt/FrameCraft-sub000/prometheus"
	"go.uber.org/zap"
)

// CustomerHandler serves the tenant-scoped customer endpoints. Every data
// access passes the request scope to the store; out-of-scope customers look
// exactly like missing ones.
type CustomerHandler struct {
	customers *store.CustomerStore
}

// NewCustomerHandler creates a CustomerHandler.
func NewCustomerHandler(customers *store.CustomerStore) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// List handles GET /api/customers.
func (h *CustomerHandler) List(c echo.Context) error {
	sc, err := requireScope(c)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	customers, err := h.customers.List(c.Request().Context(), sc)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list customers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "listing failed"})
	}
	return c.JSON(http.StatusOK, customers)
}

// Get handles GET /api/customers/:id.
func (h *CustomerHandler) Get(c echo.Context) error {
	sc, err := requireScope(c)
	if err != nil {
		return err
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	customer, err := h.customers.FindByID(c.Request().Context(), sc, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		logger.FromEcho(c).Error("Failed to load customer", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, customer)
}

// Create handles POST /api/customers.
func (h *CustomerHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	sc, err := requireScope(c)
	if err != nil {
		return err
	}

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
		Notes string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	customer := model.Customer{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.customers.Create(c.Request().Context(), sc, &customer); err != nil {
		if errors.Is(err, store.ErrTenantIsolationViolation) {
			prometheus.IsolationViolationCounter.Inc()
			log.Error("customer insert rejected without tenant scope")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no tenant scope for customer"})
		}
		log.Error("Failed to create customer", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "customer creation failed"})
	}
	return c.JSON(http.StatusCreated, customer)
}

// Update handles PUT /api/customers/:id. The row is fetched through the
// scoped read path first, so the update can only target a visible row.
func (h *CustomerHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	sc, err := requireScope(c)
	if err != nil {
		return err
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}

	customer, err := h.customers.FindByID(c.Request().Context(), sc, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}

	var req struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Phone *string `json:"phone"`
		Notes *string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.customers.Update(c.Request().Context(), sc, customer); err != nil {
		log.Error("Failed to update customer", zap.Error(err), zap.Uint("customer_id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "customer update failed"})
	}
	return c.JSON(http.StatusOK, customer)
}

// Delete handles DELETE /api/customers/:id. Soft delete only.
func (h *CustomerHandler) Delete(c echo.Context) error {
	sc, err := requireScope(c)
	if err != nil {
		return err
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.customers.SoftDelete(c.Request().Context(), sc, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		logger.FromEcho(c).Error("Failed to delete customer", zap.Error(err), zap.Uint("customer_id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "customer deletion failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "customer deleted"})
}

// requireScope pulls the resolved scope from the request or fails with 401.
func requireScope(c echo.Context) (*scope.Scope, error) {
	sc := middleware.ScopeFromEcho(c)
	if sc == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return sc, nil
}
