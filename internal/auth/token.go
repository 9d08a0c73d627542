package auth

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/onurhanbolatt/FrameCraft-sub000/internal/model"
	"github.com/onurhanbolatt/FrameCraft-sub000/pkg/jwtutil"
)

// Issuer mints the credential pair: a signed short-lived access token and an
// opaque long-lived refresh credential. Expiry policy lives here.
type Issuer struct {
	jwt        *jwtutil.JWTUtil
	refreshTTL time.Duration
}

// NewIssuer creates an Issuer with the given refresh credential lifetime.
// The access token lifetime is carried by the JWT utility.
func NewIssuer(jwt *jwtutil.JWTUtil, refreshTTL time.Duration) *Issuer {
	return &Issuer{jwt: jwt, refreshTTL: refreshTTL}
}

// IssueAccess mints a signed access token for the account with the given
// role names.
func (i *Issuer) IssueAccess(account *model.Account, roles []string) (string, time.Time, error) {
	claims := &jwtutil.AccessClaims{
		AccountID:   account.ID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
		TenantID:    account.TenantID,
		Superuser:   account.Superuser,
		Roles:       roles,
	}
	return i.jwt.GenerateToken(claims)
}

// IssueRefresh builds a fresh refresh credential for the account. The
// credential is not persisted here; the session authority owns that.
func (i *Issuer) IssueRefresh(account *model.Account, originIP string) *model.RefreshCredential {
	return &model.RefreshCredential{
		AccountID:   account.ID,
		Token:       newOpaqueToken(),
		ExpiresAt:   time.Now().Add(i.refreshTTL),
		CreatedByIP: originIP,
	}
}

// newOpaqueToken creates a secure random token string.
func newOpaqueToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
