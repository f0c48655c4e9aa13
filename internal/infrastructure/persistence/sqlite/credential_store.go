package sqlite

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nutriplan/client/internal/ports/outbound"
	"github.com/nutriplan/client/pkg/errors"
)

// CredentialStore implements outbound.CredentialStore on a SQLite table
type CredentialStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCredentialStore creates a store over db
func NewCredentialStore(db *gorm.DB, logger *zap.Logger) outbound.CredentialStore {
	return &CredentialStore{
		db:     db,
		logger: logger.Named("sqlite-credentials"),
	}
}

// Get retrieves a value
func (s *CredentialStore) Get(ctx context.Context, key string) (string, bool, error) {
	var model CredentialModel
	err := s.db.WithContext(ctx).Where("cred_key = ?", key).First(&model).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Error("Credential get failed", zap.String("key", key), zap.Error(err))
		return "", false, errors.NewStorageError("get "+key, err)
	}
	return model.Value, true, nil
}

// Set upserts a value
func (s *CredentialStore) Set(ctx context.Context, key, value string) error {
	model := CredentialModel{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cred_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		s.logger.Error("Credential set failed", zap.String("key", key), zap.Error(err))
		return errors.NewStorageError("set "+key, err)
	}
	return nil
}

// Delete removes a key
func (s *CredentialStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("cred_key = ?", key).Delete(&CredentialModel{}).Error
	if err != nil {
		s.logger.Error("Credential delete failed", zap.String("key", key), zap.Error(err))
		return errors.NewStorageError("delete "+key, err)
	}
	return nil
}
