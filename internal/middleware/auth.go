package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/onurhanbolatt/FrameCraft-sub000/pkg/jwtutil"
	"github.com/onurhanbolatt/FrameCraft-sub000/pkg/logger"
	"go.uber.org/zap"
)

const claimsContextKey = "claims"

// JWTAuthMiddleware creates a middleware that validates access tokens. The
// claims are verified by signature and expiry only; no storage lookup
// happens here.
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization header"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization header format"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(claimsContextKey, claims)
			log.Debug("access token validated",
				zap.Uint("account_id", claims.AccountID),
				zap.String("email", claims.Email))

			return next(c)
		}
	}
}

// ClaimsFromEcho retrieves the validated access claims from the Echo
// context, or nil when the request was not authenticated.
func ClaimsFromEcho(c echo.Context) *jwtutil.AccessClaims {
	claims, ok := c.Get(claimsContextKey).(*jwtutil.AccessClaims)
	if !ok {
		return nil
	}
	return claims
}

// RequireSuperuser rejects requests from non-privileged accounts.
func RequireSuperuser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := ClaimsFromEcho(c)
		if claims == nil || !claims.Superuser {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "privileged account required"})
		}
		return next(c)
	}
}
