package model

import "time"

// Role is a named capability tag. Roles are not tenant-scoped; the same role
// name means the same capability in every tenant.
type Role struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(50);uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleAssignment links an account to a role.
type RoleAssignment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AccountID uint      `json:"account_id" gorm:"index;not null"`
	RoleID    uint      `json:"role_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
}
