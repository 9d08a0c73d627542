package store

import (
	"context"
	"errors"
	"time"

	"github.com/onurhanbolatt/FrameCraft-sub000/internal/model"
	"gorm.io/gorm"
)

// CredentialStore persists refresh credentials. Credentials are looked up by
// their opaque value and never by tenant; the owning account carries the
// tenant association.
type CredentialStore struct {
	db *gorm.DB
}

// NewCredentialStore creates a CredentialStore backed by the given database.
func NewCredentialStore(db *gorm.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// Create persists a new refresh credential.
func (s *CredentialStore) Create(ctx context.Context, cred *model.RefreshCredential) error {
	return s.db.WithContext(ctx).Create(cred).Error
}

// FindByToken retrieves a credential by its opaque token value.
func (s *CredentialStore) FindByToken(ctx context.Context, token string) (*model.RefreshCredential, error) {
	var cred model.RefreshCredential
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &cred, nil
}

// RevokeIfActive revokes the credential only if it is not revoked yet, in a
// single conditional update. It reports whether this caller won the
// revocation; a concurrent refresh that lost the race gets false. This is
// the sole integrity guard of the rotation flow.
func (s *CredentialStore) RevokeIfActive(ctx context.Context, id uint, at time.Time) (bool, error) {
	result := s.db.WithContext(ctx).Model(&model.RefreshCredential{}).
		Where("id = ? AND revoked = ?", id, false).
		Updates(map[string]interface{}{"revoked": true, "revoked_at": at})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Revoke marks the credential revoked unconditionally. Revoking an already
// revoked credential simply succeeds again.
func (s *CredentialStore) Revoke(ctx context.Context, id uint, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.RefreshCredential{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"revoked": true, "revoked_at": at}).Error
}

// MarkSuperseded records which credential replaced this one during rotation,
// so a later replay of the retired value can be recognized.
func (s *CredentialStore) MarkSuperseded(ctx context.Context, id, successorID uint) error {
	return s.db.WithContext(ctx).Model(&model.RefreshCredential{}).
		Where("id = ?", id).
		Update("superseded_by_id", successorID).Error
}
