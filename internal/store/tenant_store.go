package store

import (
	"context"
	"errors"

	"github.com/onurhanbolatt/FrameCraft-sub000/internal/model"
	"gorm.io/gorm"
)

// TenantStore persists tenants. Tenants are not themselves tenant-scoped;
// they are the thing scopes point at.
type TenantStore struct {
	db *gorm.DB
}

// NewTenantStore creates a TenantStore backed by the given database.
func NewTenantStore(db *gorm.DB) *TenantStore {
	return &TenantStore{db: db}
}

// FindByID retrieves a tenant by id. Soft-deleted tenants do not resolve.
func (s *TenantStore) FindByID(ctx context.Context, id uint) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := s.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// FindBySlug retrieves a tenant by its unique slug.
func (s *TenantStore) FindBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// Create persists a new tenant.
func (s *TenantStore) Create(ctx context.Context, tenant *model.Tenant) error {
	return s.db.WithContext(ctx).Create(tenant).Error
}

// Update persists changes to a tenant. The protected system tenant is
// rejected based on its persisted flag, not the caller's copy.
func (s *TenantStore) Update(ctx context.Context, tenant *model.Tenant) error {
	existing, err := s.FindByID(ctx, tenant.ID)
	if err != nil {
		return err
	}
	if existing.IsProtected {
		return ErrProtectedTenant
	}
	return s.db.WithContext(ctx).Save(tenant).Error
}

// SoftDelete marks a tenant deleted. The row is never physically removed.
func (s *TenantStore) SoftDelete(ctx context.Context, id uint) error {
	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.IsProtected {
		return ErrProtectedTenant
	}
	return s.db.WithContext(ctx).Delete(&model.Tenant{}, id).Error
}
