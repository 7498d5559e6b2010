package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caninecompass/k9-backend/internal/platform/logger"
	"github.com/caninecompass/k9-backend/internal/types"
)

type CredentialRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Credential) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Credential, error)
	GetBySubject(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]*types.Credential, error)
	LatestBySubject(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) (*types.Credential, error)
}

type credentialRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCredentialRepo(db *gorm.DB, baseLog *logger.Logger) CredentialRepo {
	repoLog := baseLog.With("repo", "CredentialRepo")
	return &credentialRepo{db: db, log: repoLog}
}

func (r *credentialRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Credential) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *credentialRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Credential, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.Credential
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *credentialRepo) GetBySubject(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]*types.Credential, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Credential
	if subjectID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("issued_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *credentialRepo) LatestBySubject(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) (*types.Credential, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.Credential
	if err := transaction.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("issued_at DESC").
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
