package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/scope"
	"github.com/onurhanbolatt/FrameCraft-sub000/pkg/logger"
	"go.uber.org/zap"
)

// HeaderTenantOverride is the well-known header through which a privileged
// caller picks the tenant to act within. Only the resolver consumes it.
const HeaderTenantOverride = "X-Tenant-ID"

const scopeContextKey = "scope"

// TenantScopeMiddleware resolves the request's tenant scope from the
// authenticated claims and the optional override header. It must be mounted
// after JWTAuthMiddleware and before any handler touching tenant-scoped
// data. An override that does not resolve fails the request.
func TenantScopeMiddleware(resolver *scope.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			claims := ClaimsFromEcho(c)
			if claims == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			override := c.Request().Header.Get(HeaderTenantOverride)
			sc, err := resolver.Resolve(c.Request().Context(), claims.TenantID, claims.Superuser, override)
			if err != nil {
				if errors.Is(err, scope.ErrInvalidOverride) {
					log.Warn("rejected tenant override",
						zap.String("override", override),
						zap.Uint("account_id", claims.AccountID))
					return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant override"})
				}
				log.Error("scope resolution failed", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
			}

			c.Set(scopeContextKey, sc)
			return next(c)
		}
	}
}

// ScopeFromEcho retrieves the resolved tenant scope from the Echo context,
// or nil when no scope was resolved for the request.
func ScopeFromEcho(c echo.Context) *scope.Scope {
	sc, ok := c.Get(scopeContextKey).(*scope.Scope)
	if !ok {
		return nil
	}
	return sc
}
