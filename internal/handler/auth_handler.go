package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/auth"
	"github.com/onurhanbolatt/FrameCraft-sub000/pkg/logger"
	"github.com/onurhanbolatt/FrameCraft-sub000/prometheus"
	"go.uber.org/zap"
)

// SessionAuthority is the session orchestration the auth endpoints expose.
type SessionAuthority interface {
	Login(ctx context.Context, email, password, originIP string) (*auth.Session, error)
	Refresh(ctx context.Context, token, originIP string) (*auth.Session, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler serves the /auth endpoints.
type AuthHandler struct {
	sessions SessionAuthority
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(sessions SessionAuthority) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	session, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password, c.RealIP())
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredential):
			// One generic outcome for unknown email and wrong password.
			prometheus.RecordAuthError("invalid_credentials")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		case errors.Is(err, auth.ErrAccountInactive):
			prometheus.RecordAuthError("account_inactive")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "account is inactive"})
		case errors.Is(err, auth.ErrTenantNotActive):
			prometheus.RecordAuthError("tenant_not_active")
			return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
		default:
			log.Error("Login failed", zap.Error(err))
			prometheus.RecordAuthError("internal_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
		}
	}

	prometheus.IncreaseActiveCredentials()
	log.Info("login succeeded",
		zap.Uint("account_id", session.AccountID),
		zap.String("email", session.Email))

	return c.JSON(http.StatusOK, session)
}

// Refresh handles POST /auth/refresh. Failure reasons are more specific than
// login's: the caller already holds a concrete token artifact.
func (h *AuthHandler) Refresh(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RefreshCounter.Inc()

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse refresh request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	session, err := h.sessions.Refresh(c.Request().Context(), req.RefreshToken, c.RealIP())
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRefreshToken):
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error(), "reason": "invalid"})
		case errors.Is(err, auth.ErrExpiredRefreshToken):
			prometheus.RecordAuthError("expired_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error(), "reason": "expired"})
		case errors.Is(err, auth.ErrRevokedRefreshToken):
			prometheus.RecordAuthError("revoked_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error(), "reason": "revoked"})
		case errors.Is(err, auth.ErrAccountNotFound):
			prometheus.RecordAuthError("account_not_found")
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		case errors.Is(err, auth.ErrAccountInactive):
			prometheus.RecordAuthError("account_inactive")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "account is inactive"})
		default:
			log.Error("Refresh failed", zap.Error(err))
			prometheus.RecordAuthError("internal_error")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
		}
	}

	return c.JSON(http.StatusOK, session)
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LogoutCounter.Inc()

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse logout request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := h.sessions.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		if errors.Is(err, auth.ErrRefreshTokenNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "refresh token not found"})
		}
		log.Error("Logout failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}

	prometheus.DecreaseActiveCredentials()
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
