package store

import (
	"context"
	"errors"
	"time"

	"github.com/onurhanbolatt/FrameCraft-sub000/internal/model"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/scope"
	"gorm.io/gorm"
)

// AccountStore persists accounts and their role assignments.
type AccountStore struct {
	db *gorm.DB
}

// NewAccountStore creates an AccountStore backed by the given database.
func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

// FindByEmailAnyTenant looks up an account by email across all tenants.
// This is the sanctioned cross-tenant escape hatch: login has to locate an
// account before any tenant is known. Email is globally unique among
// non-deleted accounts, so the lookup is unambiguous.
func (s *AccountStore) FindByEmailAnyTenant(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByID retrieves an account by id without tenant filtering. Used by the
// session authority when reloading the owner of a refresh credential.
func (s *AccountStore) FindByID(ctx context.Context, id uint) (*model.Account, error) {
	var account model.Account
	if err := s.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// ListInScope returns the accounts visible to the given scope.
func (s *AccountStore) ListInScope(ctx context.Context, sc *scope.Scope) ([]model.Account, error) {
	var accounts []model.Account
	if err := scoped(s.db.WithContext(ctx), sc).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Create persists a new account inside the given scope. The tenant id is
// stamped from the scope; a superuser account is the only row allowed to
// stay tenant-less.
func (s *AccountStore) Create(ctx context.Context, sc *scope.Scope, account *model.Account) error {
	if err := stampTenant(sc, account); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(account).Error
}

// UpdateLastLogin records a successful credential issue for the account.
func (s *AccountStore) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).
		Update("last_login_at", at).Error
}

// RoleNames returns the names of all roles assigned to the account.
func (s *AccountStore) RoleNames(ctx context.Context, accountID uint) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Table("roles").
		Joins("JOIN role_assignments ON role_assignments.role_id = roles.id").
		Where("role_assignments.account_id = ?", accountID).
		Pluck("roles.name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// AssignRole links an account to a role by role name.
func (s *AccountStore) AssignRole(ctx context.Context, accountID uint, roleName string) error {
	var role model.Role
	if err := s.db.WithContext(ctx).Where("name = ?", roleName).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.ErrNotFound
		}
		return err
	}
	assignment := model.RoleAssignment{AccountID: accountID, RoleID: role.ID}
	return s.db.WithContext(ctx).Create(&assignment).Error
}
