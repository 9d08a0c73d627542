package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/auth"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/middleware"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/model"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/store"
	"github.com/onurhanbolatt/FrameCraft-sub000/pkg/logger"
	"github.com/onurhanbolatt/FrameCraft-sub000/prometheus"
	"go.uber.org/zap"
)

// AccountHandler serves the privileged account provisioning endpoint.
type AccountHandler struct {
	accounts *store.AccountStore
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(accounts *store.AccountStore) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Create handles POST /api/accounts. The new account is stamped with the
// caller's resolved tenant scope; a superuser account is the only one that
// may be created without a tenant.
func (h *AccountHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
		Superuser   bool   `json:"superuser"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	// Email must stay unique across all tenants for the login lookup.
	if _, err := h.accounts.FindByEmailAnyTenant(c.Request().Context(), req.Email); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	} else if !errors.Is(err, model.ErrNotFound) {
		log.Error("Failed to check account email", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "account creation failed"})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "account creation failed"})
	}

	account := model.Account{
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		Active:       true,
		Superuser:    req.Superuser,
	}

	sc := middleware.ScopeFromEcho(c)
	if sc == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.accounts.Create(c.Request().Context(), sc, &account); err != nil {
		if errors.Is(err, store.ErrTenantIsolationViolation) {
			prometheus.IsolationViolationCounter.Inc()
			log.Error("account insert rejected without tenant scope", zap.String("email", req.Email))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no tenant scope for account"})
		}
		log.Error("Failed to create account", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "account creation failed"})
	}

	log.Info("account created",
		zap.Uint("account_id", account.ID),
		zap.String("email", account.Email),
		zap.Bool("superuser", account.Superuser))

	return c.JSON(http.StatusCreated, account)
}

// List handles GET /api/accounts. Visibility follows the caller's resolved
// scope: a confined scope sees its own tenant's accounts, an unbound
// privileged scope sees all of them.
func (h *AccountHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)

	sc := middleware.ScopeFromEcho(c)
	if sc == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	accounts, err := h.accounts.ListInScope(c.Request().Context(), sc)
	if err != nil {
		log.Error("Failed to list accounts", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list accounts"})
	}

	return c.JSON(http.StatusOK, echo.Map{"accounts": accounts, "count": len(accounts)})
}

// AssignRole handles POST /api/accounts/:id/roles.
func (h *AccountHandler) AssignRole(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil || req.Role == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role is required"})
	}

	if _, err := h.accounts.FindByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		log.Error("Failed to load account", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "role assignment failed"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.accounts.AssignRole(c.Request().Context(), id, req.Role); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "role not found"})
		}
		log.Error("Failed to assign role", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "role assignment failed"})
	}

	log.Info("role assigned",
		zap.Uint("account_id", id),
		zap.String("role", req.Role))

	return c.JSON(http.StatusCreated, echo.Map{"account_id": id, "role": req.Role})
}
