package model

import (
	"time"

	"gorm.io/gorm"
)

// Account represents a user account. Email is unique across all tenants so
// that login can locate an account before any tenant is known. A superuser
// account is exempt from single-tenant scoping and may have no tenant at all.
type Account struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	TenantID     *uint          `json:"tenant_id,omitempty" gorm:"index"`
	Email        string         `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	DisplayName  string         `json:"display_name" gorm:"type:varchar(100)"`
	PasswordHash string         `json:"-" gorm:"type:varchar(255)"`
	Active       bool           `json:"active" gorm:"default:true"`
	Superuser    bool           `json:"superuser" gorm:"default:false"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// GetTenantID implements the tenant-scoped row contract.
func (a *Account) GetTenantID() *uint { return a.TenantID }

// SetTenantID implements the tenant-scoped row contract.
func (a *Account) SetTenantID(id uint) { a.TenantID = &id }

// ScopeExempt reports whether this row may be persisted without a tenant.
// Only superuser accounts qualify.
func (a *Account) ScopeExempt() bool { return a.Superuser }
