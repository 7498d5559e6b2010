package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caninecompass/k9-backend/internal/platform/logger"
	"github.com/caninecompass/k9-backend/internal/types"
)

type EnrollmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Enrollment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Enrollment, error)
	GetBySubject(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]*types.Enrollment, error)
	GetBySubjectAndSkill(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, skillID string) (*types.Enrollment, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Enrollment) error
	CountCompleted(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) (int, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	repoLog := baseLog.With("repo", "EnrollmentRepo")
	return &enrollmentRepo{db: db, log: repoLog}
}

func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Enrollment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *enrollmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.Enrollment
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *enrollmentRepo) GetBySubject(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Enrollment
	if subjectID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *enrollmentRepo) GetBySubjectAndSkill(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, skillID string) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.Enrollment
	if err := transaction.WithContext(ctx).
		Where("subject_id = ? AND skill_id = ?", subjectID, skillID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *enrollmentRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Enrollment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (r *enrollmentRepo) CountCompleted(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Enrollment{}).
		Where("subject_id = ? AND status = ?", subjectID, types.EnrollmentCompleted).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
