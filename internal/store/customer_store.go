package store

import (
	"context"
	"errors"

	"github.com/onurhanbolatt/FrameCraft-sub000/internal/model"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/scope"
	"gorm.io/gorm"
)

// CustomerStore persists customers. Every method takes the request scope and
// applies it; there is no unscoped access to customers.
type CustomerStore struct {
	db *gorm.DB
}

// NewCustomerStore creates a CustomerStore backed by the given database.
func NewCustomerStore(db *gorm.DB) *CustomerStore {
	return &CustomerStore{db: db}
}

// List returns the customers visible to the scope.
func (s *CustomerStore) List(ctx context.Context, sc *scope.Scope) ([]model.Customer, error) {
	var customers []model.Customer
	if err := scoped(s.db.WithContext(ctx), sc).Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// FindByID retrieves a customer visible to the scope. An out-of-scope or
// soft-deleted customer is reported as not found.
func (s *CustomerStore) FindByID(ctx context.Context, sc *scope.Scope, id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := scoped(s.db.WithContext(ctx), sc).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// Create persists a new customer stamped with the scope's tenant.
func (s *CustomerStore) Create(ctx context.Context, sc *scope.Scope, customer *model.Customer) error {
	if err := stampTenant(sc, customer); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(customer).Error
}

// Update persists changes to a customer previously fetched through the
// scoped read path. The fetch already confined the row to the scope, so no
// extra tenant check happens here.
func (s *CustomerStore) Update(ctx context.Context, sc *scope.Scope, customer *model.Customer) error {
	if err := stampTenant(sc, customer); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Save(customer).Error
}

// SoftDelete marks a customer deleted if the scope can see it. The row is
// never physically removed through this path.
func (s *CustomerStore) SoftDelete(ctx context.Context, sc *scope.Scope, id uint) error {
	result := scoped(s.db.WithContext(ctx), sc).Where("id = ?", id).Delete(&model.Customer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
