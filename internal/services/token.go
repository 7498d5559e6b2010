package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/caninecompass/k9-backend/internal/platform/logger"
	"github.com/caninecompass/k9-backend/internal/repos"
	"github.com/caninecompass/k9-backend/internal/types"
)

// TokenService is the read/credit surface of the token ledger. Debits happen
// only inside the enroll transaction.
type TokenService interface {
	Balance(ctx context.Context, subjectID uuid.UUID) (*types.TokenAccount, error)
	Grant(ctx context.Context, subjectID uuid.UUID, amount int) (*types.TokenAccount, error)
}

type tokenService struct {
	log    *logger.Logger
	tokens repos.TokenAccountRepo
}

func NewTokenService(baseLog *logger.Logger, tokens repos.TokenAccountRepo) TokenService {
	return &tokenService{log: baseLog.With("service", "TokenService"), tokens: tokens}
}

func (s *tokenService) Balance(ctx context.Context, subjectID uuid.UUID) (*types.TokenAccount, error) {
	return s.tokens.GetOrCreate(ctx, nil, subjectID)
}

func (s *tokenService) Grant(ctx context.Context, subjectID uuid.UUID, amount int) (*types.TokenAccount, error) {
	if amount < 0 {
		return nil, fmt.Errorf("grant amount must be non-negative, got %d", amount)
	}
	account, err := s.tokens.Grant(ctx, nil, subjectID, amount)
	if err != nil {
		return nil, err
	}
	s.log.Info("Granted tokens", "subject_id", subjectID, "amount", amount, "balance", account.Balance)
	return account, nil
}
