package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/caninecompass/k9-backend/internal/cache"
	"github.com/caninecompass/k9-backend/internal/catalog"
	"github.com/caninecompass/k9-backend/internal/platform/logger"
	"github.com/caninecompass/k9-backend/internal/repos"
)

type TierService interface {
	GetTier(ctx context.Context, subjectID uuid.UUID) (*catalog.TierResult, error)
	// ComputeFresh bypasses the cache; issuance snapshots must never read
	// stale state.
	ComputeFresh(ctx context.Context, subjectID uuid.UUID) (*catalog.TierResult, error)
}

type tierService struct {
	log         *logger.Logger
	table       catalog.TierTable
	enrollments repos.EnrollmentRepo
	tierCache   *cache.TierCache
}

func NewTierService(baseLog *logger.Logger, table catalog.TierTable, enrollments repos.EnrollmentRepo, tierCache *cache.TierCache) TierService {
	return &tierService{
		log:         baseLog.With("service", "TierService"),
		table:       table,
		enrollments: enrollments,
		tierCache:   tierCache,
	}
}

func (s *tierService) GetTier(ctx context.Context, subjectID uuid.UUID) (*catalog.TierResult, error) {
	if res, ok := s.tierCache.Get(ctx, subjectID); ok {
		return res, nil
	}
	res, err := s.ComputeFresh(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	s.tierCache.Set(ctx, subjectID, res)
	return res, nil
}

func (s *tierService) ComputeFresh(ctx context.Context, subjectID uuid.UUID) (*catalog.TierResult, error) {
	count, err := s.enrollments.CountCompleted(ctx, nil, subjectID)
	if err != nil {
		return nil, err
	}
	res := s.table.Compute(count)
	return &res, nil
}
