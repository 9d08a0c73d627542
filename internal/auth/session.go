package auth

import (
	"context"
	"errors"
	"time"

	"github.com/onurhanbolatt/FrameCraft-sub000/internal/model"
	"go.uber.org/zap"
)

// AccountDirectory is the account access the session authority needs.
type AccountDirectory interface {
	FindByEmailAnyTenant(ctx context.Context, email string) (*model.Account, error)
	FindByID(ctx context.Context, id uint) (*model.Account, error)
	RoleNames(ctx context.Context, accountID uint) ([]string, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
}

// TenantDirectory is the tenant lookup used for login gating.
type TenantDirectory interface {
	FindByID(ctx context.Context, id uint) (*model.Tenant, error)
}

// CredentialStore is the refresh credential persistence the session
// authority needs. RevokeIfActive must be atomic: it is the only guard
// against two concurrent refreshes of the same credential.
type CredentialStore interface {
	Create(ctx context.Context, cred *model.RefreshCredential) error
	FindByToken(ctx context.Context, token string) (*model.RefreshCredential, error)
	RevokeIfActive(ctx context.Context, id uint, at time.Time) (bool, error)
	Revoke(ctx context.Context, id uint, at time.Time) error
	MarkSuperseded(ctx context.Context, id, successorID uint) error
}

// Session is the result of a successful login or refresh.
type Session struct {
	AccountID             uint      `json:"account_id"`
	Email                 string    `json:"email"`
	DisplayName           string    `json:"display_name"`
	TenantID              *uint     `json:"tenant_id,omitempty"`
	Superuser             bool      `json:"superuser"`
	Roles                 []string  `json:"roles"`
	AccessToken           string    `json:"access_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshToken          string    `json:"refresh_token"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
}

// SessionService orchestrates login, refresh and logout over the credential
// store, the password verifier and the token issuer.
type SessionService struct {
	accounts    AccountDirectory
	tenants     TenantDirectory
	credentials CredentialStore
	issuer      *Issuer
	log         *zap.Logger
}

// NewSessionService creates a SessionService.
func NewSessionService(accounts AccountDirectory, tenants TenantDirectory, credentials CredentialStore, issuer *Issuer, log *zap.Logger) *SessionService {
	return &SessionService{
		accounts:    accounts,
		tenants:     tenants,
		credentials: credentials,
		issuer:      issuer,
		log:         log,
	}
}

// Login authenticates an account by email and password and issues a fresh
// credential pair. Unknown email and wrong password are indistinguishable;
// tenant status failures are not.
func (s *SessionService) Login(ctx context.Context, email, password, originIP string) (*Session, error) {
	account, err := s.accounts.FindByEmailAnyTenant(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	if !VerifyPassword(account.PasswordHash, password) {
		return nil, ErrInvalidCredential
	}

	if !account.Active {
		return nil, ErrAccountInactive
	}

	// A superuser logs in regardless of any tenant's status.
	if !account.Superuser {
		if err := s.checkTenant(ctx, account); err != nil {
			return nil, err
		}
	}

	session, _, err := s.issuePair(ctx, account, originIP)
	if err != nil {
		return nil, err
	}

	s.log.Info("account logged in",
		zap.Uint("account_id", account.ID),
		zap.String("email", account.Email),
		zap.String("origin_ip", originIP))

	return session, nil
}

// Refresh exchanges a still-active refresh credential for a new pair,
// revoking the presented credential in the same move. The revocation is a
// conditional single-statement update, so of two concurrent refreshes with
// the same credential exactly one wins; the loser gets an invalid-token
// error.
func (s *SessionService) Refresh(ctx context.Context, token, originIP string) (*Session, error) {
	cred, err := s.credentials.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if cred.IsExpired() {
		return nil, ErrExpiredRefreshToken
	}

	if cred.Revoked {
		if cred.SupersededByID != nil {
			// Replay of an already-rotated credential: a strong signal the
			// old value leaked somewhere.
			s.log.Warn("rotated refresh credential presented again",
				zap.Uint("credential_id", cred.ID),
				zap.Uint("superseded_by", *cred.SupersededByID),
				zap.Uint("account_id", cred.AccountID),
				zap.String("origin_ip", originIP))
		}
		return nil, ErrRevokedRefreshToken
	}

	account, err := s.accounts.FindByID(ctx, cred.AccountID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if !account.Active {
		return nil, ErrAccountInactive
	}

	won, err := s.credentials.RevokeIfActive(ctx, cred.ID, time.Now())
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrInvalidRefreshToken
	}

	session, newCred, err := s.issuePair(ctx, account, originIP)
	if err != nil {
		return nil, err
	}

	if err := s.credentials.MarkSuperseded(ctx, cred.ID, newCred.ID); err != nil {
		// The rotation itself succeeded; losing the chain pointer only costs
		// forensics.
		s.log.Error("failed to record rotation chain", zap.Error(err),
			zap.Uint("credential_id", cred.ID))
	}

	return session, nil
}

// Logout revokes a refresh credential. Revoking an already revoked
// credential succeeds again; an unknown credential is reported as not found.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	cred, err := s.credentials.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return ErrRefreshTokenNotFound
		}
		return err
	}
	return s.credentials.Revoke(ctx, cred.ID, time.Now())
}

// checkTenant gates login on the owning tenant's lifecycle status with a
// status-specific rejection.
func (s *SessionService) checkTenant(ctx context.Context, account *model.Account) error {
	if account.TenantID == nil {
		// A persisted non-superuser account always has a tenant; a nil one
		// here is data corruption, surfaced as a deleted tenant.
		return ErrTenantDeleted
	}

	tenant, err := s.tenants.FindByID(ctx, *account.TenantID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return ErrTenantDeleted
		}
		return err
	}

	switch tenant.Status {
	case model.TenantStatusActive:
		return nil
	case model.TenantStatusInactive:
		return ErrTenantInactive
	case model.TenantStatusSuspended:
		return ErrTenantSuspended
	default:
		return ErrTenantDeleted
	}
}

// issuePair mints and persists a fresh access+refresh pair for the account
// with a fresh role lookup, and updates the last-login timestamp.
func (s *SessionService) issuePair(ctx context.Context, account *model.Account, originIP string) (*Session, *model.RefreshCredential, error) {
	roles, err := s.accounts.RoleNames(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}

	accessToken, accessExpiry, err := s.issuer.IssueAccess(account, roles)
	if err != nil {
		return nil, nil, err
	}

	cred := s.issuer.IssueRefresh(account, originIP)
	if err := s.credentials.Create(ctx, cred); err != nil {
		return nil, nil, err
	}

	if err := s.accounts.UpdateLastLogin(ctx, account.ID, time.Now()); err != nil {
		return nil, nil, err
	}

	session := &Session{
		AccountID:             account.ID,
		Email:                 account.Email,
		DisplayName:           account.DisplayName,
		TenantID:              account.TenantID,
		Superuser:             account.Superuser,
		Roles:                 roles,
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExpiry,
		RefreshToken:          cred.Token,
		RefreshTokenExpiresAt: cred.ExpiresAt,
	}
	return session, cred, nil
}
