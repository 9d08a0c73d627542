package model

import (
	"testing"
	"time"
)

func TestTenantIsActive(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{TenantStatusActive, true},
		{TenantStatusInactive, false},
		{TenantStatusSuspended, false},
		{TenantStatusDeleted, false},
	}
	for _, tc := range cases {
		tenant := Tenant{Status: tc.status}
		if got := tenant.IsActive(); got != tc.want {
			t.Errorf("IsActive() with status %q = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestRefreshCredentialIsActive(t *testing.T) {
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	cases := []struct {
		name string
		cred RefreshCredential
		want bool
	}{
		{"live", RefreshCredential{ExpiresAt: future}, true},
		{"expired", RefreshCredential{ExpiresAt: past}, false},
		{"revoked", RefreshCredential{ExpiresAt: future, Revoked: true}, false},
		{"revoked and expired", RefreshCredential{ExpiresAt: past, Revoked: true}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cred.IsActive(); got != tc.want {
				t.Errorf("IsActive() = %v, want %v", got, tc.want)
			}
			if tc.cred.IsExpired() != tc.cred.ExpiresAt.Before(time.Now()) {
				t.Errorf("IsExpired() inconsistent with ExpiresAt")
			}
		})
	}
}
