package auth

import (
	"errors"
	"fmt"
)

// Login failures are deliberately low-information: a bad email and a bad
// password produce the same error so accounts cannot be enumerated. Refresh
// failures are deliberately more specific because the caller already holds a
// concrete token artifact.
var (
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrAccountNotFound   = errors.New("account not found")

	ErrTenantNotActive = errors.New("tenant is not active")
	ErrTenantInactive  = fmt.Errorf("%w: tenant is inactive", ErrTenantNotActive)
	ErrTenantSuspended = fmt.Errorf("%w: tenant is suspended", ErrTenantNotActive)
	ErrTenantDeleted   = fmt.Errorf("%w: tenant is deleted", ErrTenantNotActive)

	ErrInvalidRefreshToken  = errors.New("refresh token is invalid")
	ErrExpiredRefreshToken  = errors.New("refresh token has expired")
	ErrRevokedRefreshToken  = errors.New("refresh token has been revoked")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)
