package model

import (
	"time"

	"gorm.io/gorm"
)

// Customer is a tenant-scoped business entity. Every read and write goes
// through the scoped store, so one tenant's customers are never visible to
// another tenant.
type Customer struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TenantID  *uint          `json:"tenant_id,omitempty" gorm:"index"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Email     string         `json:"email" gorm:"type:varchar(100)"`
	Phone     string         `json:"phone" gorm:"type:varchar(30)"`
	Notes     string         `json:"notes" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// GetTenantID implements the tenant-scoped row contract.
func (c *Customer) GetTenantID() *uint { return c.TenantID }

// SetTenantID implements the tenant-scoped row contract.
func (c *Customer) SetTenantID(id uint) { c.TenantID = &id }
