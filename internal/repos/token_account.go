package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caninecompass/k9-backend/internal/platform/logger"
	"github.com/caninecompass/k9-backend/internal/types"
)

type TokenAccountRepo interface {
	GetBySubject(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) (*types.TokenAccount, error)
	GetOrCreate(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) (*types.TokenAccount, error)
	Debit(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, amount int) error
	Grant(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, amount int) (*types.TokenAccount, error)
}

type tokenAccountRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTokenAccountRepo(db *gorm.DB, baseLog *logger.Logger) TokenAccountRepo {
	repoLog := baseLog.With("repo", "TokenAccountRepo")
	return &tokenAccountRepo{db: db, log: repoLog}
}

func (r *tokenAccountRepo) GetBySubject(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) (*types.TokenAccount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.TokenAccount
	if err := transaction.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrAccountNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *tokenAccountRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) (*types.TokenAccount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	row := types.TokenAccount{ID: uuid.New(), SubjectID: subjectID}
	if err := transaction.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		FirstOrCreate(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Debit decrements the balance inside the caller's transaction. The guarded
// WHERE keeps the balance from crossing zero even if the caller's precheck
// raced a concurrent spend.
func (r *tokenAccountRepo) Debit(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, amount int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if amount == 0 {
		return nil
	}
	res := transaction.WithContext(ctx).
		Model(&types.TokenAccount{}).
		Where("subject_id = ? AND balance >= ?", subjectID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.ErrInsufficientTokens
	}
	return nil
}

func (r *tokenAccountRepo) Grant(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, amount int) (*types.TokenAccount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	account, err := r.GetOrCreate(ctx, transaction, subjectID)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return account, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.TokenAccount{}).
		Where("subject_id = ?", subjectID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
		return nil, err
	}
	return r.GetBySubject(ctx, transaction, subjectID)
}
