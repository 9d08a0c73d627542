package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/model"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/scope"
	"github.com/onurhanbolatt/FrameCraft-sub000/pkg/jwtutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubTenantDirectory struct {
	tenants map[uint]*model.Tenant
}

func (s *stubTenantDirectory) FindByID(ctx context.Context, id uint) (*model.Tenant, error) {
	if t, ok := s.tenants[id]; ok {
		return t, nil
	}
	return nil, model.ErrNotFound
}

func newScopeContext(t *testing.T, claims *jwtutil.AccessClaims, override string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	if override != "" {
		req.Header.Set(HeaderTenantOverride, override)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("logger", zap.NewNop())
	if claims != nil {
		c.Set(claimsContextKey, claims)
	}
	return c, rec
}

func runScopeMiddleware(t *testing.T, claims *jwtutil.AccessClaims, override string) (*scope.Scope, *httptest.ResponseRecorder, error) {
	t.Helper()
	directory := &stubTenantDirectory{tenants: map[uint]*model.Tenant{
		1: {ID: 1, Name: "One", Slug: "one", Status: model.TenantStatusActive},
		2: {ID: 2, Name: "Two", Slug: "two", Status: model.TenantStatusActive},
	}}
	resolver := scope.NewResolver(directory)

	c, rec := newScopeContext(t, claims, override)

	var resolved *scope.Scope
	handler := TenantScopeMiddleware(resolver)(func(c echo.Context) error {
		resolved = ScopeFromEcho(c)
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return resolved, rec, err
}

func TestTenantScopeMiddlewareClaim(t *testing.T) {
	tenantID := uint(1)
	sc, rec, err := runScopeMiddleware(t, &jwtutil.AccessClaims{AccountID: 10, TenantID: &tenantID}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, sc)
	require.NotNil(t, sc.TenantID())
	assert.Equal(t, uint(1), *sc.TenantID())
	assert.True(t, sc.FilterEnabled())
}

func TestTenantScopeMiddlewarePrivilegedOverride(t *testing.T) {
	sc, rec, err := runScopeMiddleware(t, &jwtutil.AccessClaims{AccountID: 1, Superuser: true}, "2")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, sc)
	require.NotNil(t, sc.TenantID())
	assert.Equal(t, uint(2), *sc.TenantID())
	assert.True(t, sc.Superuser())
}

func TestTenantScopeMiddlewareOverrideIgnoredForPlainCaller(t *testing.T) {
	tenantID := uint(1)
	sc, rec, err := runScopeMiddleware(t, &jwtutil.AccessClaims{AccountID: 10, TenantID: &tenantID}, "2")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, sc)
	require.NotNil(t, sc.TenantID())
	assert.Equal(t, uint(1), *sc.TenantID())
}

func TestTenantScopeMiddlewareBadOverride(t *testing.T) {
	for _, override := range []string{"notanumber", "999"} {
		t.Run(override, func(t *testing.T) {
			sc, rec, err := runScopeMiddleware(t, &jwtutil.AccessClaims{AccountID: 1, Superuser: true}, override)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, sc)
			assert.Contains(t, rec.Body.String(), "invalid tenant override")
		})
	}
}

func TestTenantScopeMiddlewareUnauthenticated(t *testing.T) {
	sc, rec, err := runScopeMiddleware(t, nil, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, sc)
}
