package model

import (
	"time"

	"gorm.io/gorm"
)

// RefreshCredential is a long-lived opaque credential tracked in the
// database. It is single-use: exchanging it for a new pair revokes it and
// records which credential superseded it, so a later replay of the old value
// is detectable.
type RefreshCredential struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	AccountID      uint           `json:"account_id" gorm:"index;not null"`
	Token          string         `json:"-" gorm:"type:varchar(64);uniqueIndex"` // never exposed in JSON responses
	ExpiresAt      time.Time      `json:"expires_at"`
	Revoked        bool           `json:"revoked" gorm:"default:false"`
	RevokedAt      *time.Time     `json:"revoked_at,omitempty"`
	CreatedByIP    string         `json:"created_by_ip" gorm:"type:varchar(45)"`
	SupersededByID *uint          `json:"superseded_by_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsExpired checks if the credential is past its expiry timestamp.
func (c *RefreshCredential) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// IsActive checks if the credential is still usable. Expiry and revocation
// are independent; either alone makes the credential unusable.
func (c *RefreshCredential) IsActive() bool {
	return !c.Revoked && !c.IsExpired()
}
