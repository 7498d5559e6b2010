package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caninecompass/k9-backend/internal/catalog"
	"github.com/caninecompass/k9-backend/internal/platform/logger"
	"github.com/caninecompass/k9-backend/internal/repos"
	"github.com/caninecompass/k9-backend/internal/types"
)

// CredentialView is the live progression read consumed by the credentials
// page and the external certificate renderer.
type CredentialView struct {
	SubjectID          uuid.UUID          `json:"subject_id"`
	CurrentTier        int                `json:"current_tier"`
	TierName           string             `json:"tier_name"`
	TierColor          string             `json:"tier_color"`
	CompletedCount     int                `json:"completed_count"`
	TotalSkills        int                `json:"total_skills"`
	NextTier           *catalog.TierLevel `json:"next_tier,omitempty"`
	LessonsToNext      int                `json:"lessons_to_next"`
	LatestCredentialID *uuid.UUID         `json:"latest_credential_id,omitempty"`
}

type CredentialService interface {
	Issue(ctx context.Context, subjectID uuid.UUID) (*types.Credential, error)
	History(ctx context.Context, subjectID uuid.UUID) ([]*types.Credential, error)
	View(ctx context.Context, subjectID uuid.UUID) (*CredentialView, error)
}

type credentialService struct {
	db          *gorm.DB
	log         *logger.Logger
	cat         *catalog.Catalog
	tiers       TierService
	credentials repos.CredentialRepo
}

func NewCredentialService(db *gorm.DB, baseLog *logger.Logger, cat *catalog.Catalog, tiers TierService, credentials repos.CredentialRepo) CredentialService {
	return &credentialService{
		db:          db,
		log:         baseLog.With("service", "CredentialService"),
		cat:         cat,
		tiers:       tiers,
		credentials: credentials,
	}
}

// Issue freezes the current progression into a new immutable credential and
// appends it to the subject's history. Tier 0 cannot be credentialed.
func (s *credentialService) Issue(ctx context.Context, subjectID uuid.UUID) (*types.Credential, error) {
	res, err := s.tiers.ComputeFresh(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if res.CurrentTier == 0 {
		return nil, fmt.Errorf("issue credential for subject %s: %w", subjectID, types.ErrNoProgress)
	}
	row := &types.Credential{
		ID:             uuid.New(),
		SubjectID:      subjectID,
		TierNumber:     res.CurrentTier,
		TierName:       res.TierName,
		TierColor:      res.TierColor,
		CompletedCount: res.CompletedCount,
		IssuedAt:       time.Now().UTC(),
	}
	if err := s.credentials.Create(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("issue credential for subject %s: %w", subjectID, err)
	}
	s.log.Info("Issued credential", "subject_id", subjectID, "tier", row.TierNumber, "completed_count", row.CompletedCount)
	return row, nil
}

func (s *credentialService) History(ctx context.Context, subjectID uuid.UUID) ([]*types.Credential, error) {
	return s.credentials.GetBySubject(ctx, nil, subjectID)
}

func (s *credentialService) View(ctx context.Context, subjectID uuid.UUID) (*CredentialView, error) {
	res, err := s.tiers.GetTier(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	view := &CredentialView{
		SubjectID:      subjectID,
		CurrentTier:    res.CurrentTier,
		TierName:       res.TierName,
		TierColor:      res.TierColor,
		CompletedCount: res.CompletedCount,
		TotalSkills:    s.cat.Len(),
		NextTier:       res.NextTier,
		LessonsToNext:  res.LessonsToNext,
	}
	latest, err := s.credentials.LatestBySubject(ctx, nil, subjectID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		view.LatestCredentialID = &latest.ID
	}
	return view, nil
}
