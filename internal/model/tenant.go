package model

import (
	"time"

	"gorm.io/gorm"
)

// Tenant lifecycle statuses. Only an active tenant can be logged into by its
// accounts; the other statuses produce distinct login rejections.
const (
	TenantStatusActive    = "active"
	TenantStatusInactive  = "inactive"
	TenantStatusSuspended = "suspended"
	TenantStatusDeleted   = "deleted"
)

// Tenant represents an isolated customer organization. Every tenant-scoped
// row in the system carries a tenant id referring to one of these.
type Tenant struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Name           string         `json:"name" gorm:"type:varchar(100);not null"`
	Slug           string         `json:"slug" gorm:"type:varchar(63);uniqueIndex"`
	Status         string         `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	MaxUsers       int            `json:"max_users" gorm:"default:0"`
	StorageQuotaMB int            `json:"storage_quota_mb" gorm:"default:0"`
	ExpiresAt      *time.Time     `json:"expires_at,omitempty"`
	IsProtected    bool           `json:"is_protected" gorm:"default:false"` // reserved system tenant, never mutated or deleted
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsActive reports whether accounts of this tenant may log in.
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}
