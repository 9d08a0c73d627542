package auth

import (
	"context"
	"testing"
	"time"

	"github.com/onurhanbolatt/FrameCraft-sub000/internal/model"
	"github.com/onurhanbolatt/FrameCraft-sub000/pkg/jwtutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAccounts struct {
	accounts  map[uint]*model.Account
	roles     map[uint][]string
	lastLogin map[uint]time.Time
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		accounts:  make(map[uint]*model.Account),
		roles:     make(map[uint][]string),
		lastLogin: make(map[uint]time.Time),
	}
}

func (f *fakeAccounts) FindByEmailAnyTenant(ctx context.Context, email string) (*model.Account, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeAccounts) FindByID(ctx context.Context, id uint) (*model.Account, error) {
	if a, ok := f.accounts[id]; ok {
		return a, nil
	}
	return nil, model.ErrNotFound
}

func (f *fakeAccounts) RoleNames(ctx context.Context, accountID uint) ([]string, error) {
	return f.roles[accountID], nil
}

func (f *fakeAccounts) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	f.lastLogin[id] = at
	return nil
}

type fakeTenants struct {
	tenants map[uint]*model.Tenant
}

func (f *fakeTenants) FindByID(ctx context.Context, id uint) (*model.Tenant, error) {
	if t, ok := f.tenants[id]; ok {
		return t, nil
	}
	return nil, model.ErrNotFound
}

type fakeCredentials struct {
	nextID      uint
	credentials map[uint]*model.RefreshCredential

	// afterFind runs after FindByToken snapshots a credential, letting a
	// test interleave a concurrent revocation.
	afterFind func()
}

func newFakeCredentials() *fakeCredentials {
	return &fakeCredentials{credentials: make(map[uint]*model.RefreshCredential)}
}

func (f *fakeCredentials) Create(ctx context.Context, cred *model.RefreshCredential) error {
	f.nextID++
	cred.ID = f.nextID
	f.credentials[cred.ID] = cred
	return nil
}

func (f *fakeCredentials) FindByToken(ctx context.Context, token string) (*model.RefreshCredential, error) {
	for _, c := range f.credentials {
		if c.Token == token {
			copied := *c
			if f.afterFind != nil {
				f.afterFind()
			}
			return &copied, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeCredentials) RevokeIfActive(ctx context.Context, id uint, at time.Time) (bool, error) {
	c, ok := f.credentials[id]
	if !ok || c.Revoked {
		return false, nil
	}
	c.Revoked = true
	c.RevokedAt = &at
	return true, nil
}

func (f *fakeCredentials) Revoke(ctx context.Context, id uint, at time.Time) error {
	if c, ok := f.credentials[id]; ok {
		c.Revoked = true
		c.RevokedAt = &at
	}
	return nil
}

func (f *fakeCredentials) MarkSuperseded(ctx context.Context, id, successorID uint) error {
	if c, ok := f.credentials[id]; ok {
		c.SupersededByID = &successorID
	}
	return nil
}

type fixture struct {
	accounts    *fakeAccounts
	tenants     *fakeTenants
	credentials *fakeCredentials
	jwt         *jwtutil.JWTUtil
	service     *SessionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	accounts := newFakeAccounts()
	tenants := &fakeTenants{tenants: make(map[uint]*model.Tenant)}
	credentials := newFakeCredentials()
	jwt := jwtutil.NewJWTUtil(&jwtutil.Config{SigningKey: "test-signing-key", TTL: 15 * time.Minute})
	issuer := NewIssuer(jwt, 24*time.Hour)
	service := NewSessionService(accounts, tenants, credentials, issuer, zap.NewNop())
	return &fixture{
		accounts:    accounts,
		tenants:     tenants,
		credentials: credentials,
		jwt:         jwt,
		service:     service,
	}
}

func (f *fixture) addTenant(id uint, status string) *model.Tenant {
	tenant := &model.Tenant{ID: id, Name: "T", Slug: "t", Status: status}
	f.tenants.tenants[id] = tenant
	return tenant
}

func (f *fixture) addAccount(t *testing.T, id uint, email, password string, tenantID *uint, superuser bool, roles ...string) *model.Account {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	account := &model.Account{
		ID:           id,
		TenantID:     tenantID,
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: hash,
		Active:       true,
		Superuser:    superuser,
	}
	f.accounts.accounts[id] = account
	f.accounts.roles[id] = roles
	return account
}

func uintPtr(v uint) *uint { return &v }

func TestLoginSuccess(t *testing.T) {
	f := newFixture(t)
	f.addTenant(1, model.TenantStatusActive)
	f.addAccount(t, 10, "u@example.com", "secret", uintPtr(1), false, "clerk", "manager")

	session, err := f.service.Login(context.Background(), "u@example.com", "secret", "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, uint(10), session.AccountID)
	assert.Equal(t, "u@example.com", session.Email)
	require.NotNil(t, session.TenantID)
	assert.Equal(t, uint(1), *session.TenantID)
	assert.ElementsMatch(t, []string{"clerk", "manager"}, session.Roles)
	assert.False(t, session.Superuser)
	assert.NotEmpty(t, session.RefreshToken)
	assert.True(t, session.RefreshTokenExpiresAt.After(session.AccessTokenExpiresAt))

	// The access token carries the identity claims.
	claims, err := f.jwt.ValidateToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(10), claims.AccountID)
	require.NotNil(t, claims.TenantID)
	assert.Equal(t, uint(1), *claims.TenantID)
	assert.ElementsMatch(t, []string{"clerk", "manager"}, claims.Roles)

	// Last login was recorded and the refresh credential persisted with
	// the origin IP.
	assert.Contains(t, f.accounts.lastLogin, uint(10))
	cred, err := f.credentials.FindByToken(context.Background(), session.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", cred.CreatedByIP)
}

func TestLoginGenericFailure(t *testing.T) {
	f := newFixture(t)
	f.addTenant(1, model.TenantStatusActive)
	f.addAccount(t, 10, "u@example.com", "secret", uintPtr(1), false)

	// Unknown email and wrong password are indistinguishable.
	_, unknownErr := f.service.Login(context.Background(), "nobody@example.com", "secret", "")
	_, wrongErr := f.service.Login(context.Background(), "u@example.com", "wrong", "")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredential)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredential)
	assert.Equal(t, unknownErr, wrongErr)
}

func TestLoginInactiveAccount(t *testing.T) {
	f := newFixture(t)
	f.addTenant(1, model.TenantStatusActive)
	acct := f.addAccount(t, 10, "u@example.com", "secret", uintPtr(1), false)
	acct.Active = false

	_, err := f.service.Login(context.Background(), "u@example.com", "secret", "")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestLoginTenantGating(t *testing.T) {
	cases := []struct {
		status string
		want   error
	}{
		{model.TenantStatusInactive, ErrTenantInactive},
		{model.TenantStatusSuspended, ErrTenantSuspended},
		{model.TenantStatusDeleted, ErrTenantDeleted},
	}
	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			f := newFixture(t)
			f.addTenant(1, tc.status)
			f.addAccount(t, 10, "u@example.com", "secret", uintPtr(1), false)

			_, err := f.service.Login(context.Background(), "u@example.com", "secret", "")
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, ErrTenantNotActive)
		})
	}
}

func TestLoginSuperuserBypassesTenantGating(t *testing.T) {
	f := newFixture(t)
	f.addTenant(1, model.TenantStatusSuspended)
	f.addAccount(t, 10, "root@example.com", "secret", uintPtr(1), true)

	session, err := f.service.Login(context.Background(), "root@example.com", "secret", "")
	require.NoError(t, err)
	assert.True(t, session.Superuser)
}

func TestRefreshRotationSingleUse(t *testing.T) {
	f := newFixture(t)
	f.addTenant(1, model.TenantStatusActive)
	f.addAccount(t, 10, "u@example.com", "secret", uintPtr(1), false)

	ctx := context.Background()
	first, err := f.service.Login(ctx, "u@example.com", "secret", "10.0.0.1")
	require.NoError(t, err)

	second, err := f.service.Refresh(ctx, first.RefreshToken, "10.0.0.2")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEmpty(t, second.AccessToken)

	// The retired credential is revoked and chained to its successor.
	old, err := f.credentials.FindByToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.True(t, old.Revoked)
	require.NotNil(t, old.SupersededByID)

	// Presenting the old token again fails as revoked, never succeeds.
	_, err = f.service.Refresh(ctx, first.RefreshToken, "10.0.0.3")
	assert.ErrorIs(t, err, ErrRevokedRefreshToken)

	// The new token still works.
	_, err = f.service.Refresh(ctx, second.RefreshToken, "10.0.0.2")
	assert.NoError(t, err)
}

func TestRefreshUnknownToken(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Refresh(context.Background(), "no-such-token", "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshExpiryAndRevocationDistinguishable(t *testing.T) {
	f := newFixture(t)
	f.addTenant(1, model.TenantStatusActive)
	f.addAccount(t, 10, "u@example.com", "secret", uintPtr(1), false)

	ctx := context.Background()

	// Expired but never revoked.
	expired := &model.RefreshCredential{AccountID: 10, Token: "expired-token", ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, f.credentials.Create(ctx, expired))
	_, err := f.service.Refresh(ctx, "expired-token", "")
	assert.ErrorIs(t, err, ErrExpiredRefreshToken)

	// Revoked before expiry.
	revoked := &model.RefreshCredential{AccountID: 10, Token: "revoked-token", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, f.credentials.Create(ctx, revoked))
	require.NoError(t, f.credentials.Revoke(ctx, revoked.ID, time.Now()))
	_, err = f.service.Refresh(ctx, "revoked-token", "")
	assert.ErrorIs(t, err, ErrRevokedRefreshToken)
}

func TestRefreshInactiveAccount(t *testing.T) {
	f := newFixture(t)
	f.addTenant(1, model.TenantStatusActive)
	acct := f.addAccount(t, 10, "u@example.com", "secret", uintPtr(1), false)

	ctx := context.Background()
	session, err := f.service.Login(ctx, "u@example.com", "secret", "")
	require.NoError(t, err)

	acct.Active = false
	_, err = f.service.Refresh(ctx, session.RefreshToken, "")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestRefreshMissingAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orphan := &model.RefreshCredential{AccountID: 99, Token: "orphan-token", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, f.credentials.Create(ctx, orphan))

	_, err := f.service.Refresh(ctx, "orphan-token", "")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestRefreshLosingRaceIsInvalid(t *testing.T) {
	f := newFixture(t)
	f.addTenant(1, model.TenantStatusActive)
	f.addAccount(t, 10, "u@example.com", "secret", uintPtr(1), false)

	ctx := context.Background()
	session, err := f.service.Login(ctx, "u@example.com", "secret", "")
	require.NoError(t, err)

	// A concurrent refresh wins the conditional revocation between this
	// call's lookup and its own revoke attempt.
	f.credentials.afterFind = func() {
		f.credentials.afterFind = nil
		for _, c := range f.credentials.credentials {
			if c.Token == session.RefreshToken {
				c.Revoked = true
			}
		}
	}

	_, err = f.service.Refresh(ctx, session.RefreshToken, "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	f.addTenant(1, model.TenantStatusActive)
	f.addAccount(t, 10, "u@example.com", "secret", uintPtr(1), false)

	ctx := context.Background()
	session, err := f.service.Login(ctx, "u@example.com", "secret", "")
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, session.RefreshToken))

	cred, err := f.credentials.FindByToken(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.True(t, cred.Revoked)
	assert.NotNil(t, cred.RevokedAt)

	// Logging out again simply succeeds; a credential can never come back.
	require.NoError(t, f.service.Logout(ctx, session.RefreshToken))

	// The revoked credential no longer refreshes.
	_, err = f.service.Refresh(ctx, session.RefreshToken, "")
	assert.ErrorIs(t, err, ErrRevokedRefreshToken)
}

func TestLogoutUnknownToken(t *testing.T) {
	f := newFixture(t)
	err := f.service.Logout(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
}
