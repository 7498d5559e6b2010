package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caninecompass/k9-backend/internal/cache"
	"github.com/caninecompass/k9-backend/internal/catalog"
	"github.com/caninecompass/k9-backend/internal/platform/logger"
	"github.com/caninecompass/k9-backend/internal/repos"
	"github.com/caninecompass/k9-backend/internal/types"
)

// StepResult reports a completeStep outcome. CompletedNow is true on exactly
// the call that flipped the enrollment to completed, so reward logic fires
// once.
type StepResult struct {
	Enrollment   *types.Enrollment `json:"enrollment"`
	CompletedNow bool              `json:"completed_now"`
	BadgeReward  string            `json:"badge_reward,omitempty"`
	XPEarned     int               `json:"xp_earned"`
}

type EnrollmentService interface {
	Enroll(ctx context.Context, subjectID uuid.UUID, skillID string) (*types.Enrollment, error)
	CompleteStep(ctx context.Context, enrollmentID uuid.UUID, stepIndex int) (*StepResult, error)
	ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]*types.Enrollment, error)
}

type enrollmentService struct {
	db          *gorm.DB
	log         *logger.Logger
	cat         *catalog.Catalog
	evaluator   *UnlockEvaluator
	enrollments repos.EnrollmentRepo
	tokens      repos.TokenAccountRepo
	tierCache   *cache.TierCache
	locks       *subjectLocks
}

func NewEnrollmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cat *catalog.Catalog,
	enrollments repos.EnrollmentRepo,
	tokens repos.TokenAccountRepo,
	tierCache *cache.TierCache,
) EnrollmentService {
	return &enrollmentService{
		db:          db,
		log:         baseLog.With("service", "EnrollmentService"),
		cat:         cat,
		evaluator:   NewUnlockEvaluator(cat),
		enrollments: enrollments,
		tokens:      tokens,
		tierCache:   tierCache,
		locks:       newSubjectLocks(),
	}
}

// Enroll checks eligibility and affordability, then debits the token cost and
// creates the in-progress enrollment as one atomic unit. The per-subject lock
// plus the transaction keep a double-click from enrolling twice or
// overspending the balance.
func (s *enrollmentService) Enroll(ctx context.Context, subjectID uuid.UUID, skillID string) (*types.Enrollment, error) {
	lesson, ok := s.cat.Lesson(skillID)
	if !ok {
		return nil, fmt.Errorf("enroll %s: %w", skillID, types.ErrSkillNotFound)
	}

	unlock := s.locks.lock(subjectID)
	defer unlock()

	row := &types.Enrollment{
		ID:        uuid.New(),
		SubjectID: subjectID,
		SkillID:   skillID,
		Status:    types.EnrollmentInProgress,
	}
	if err := row.SetStepIndices(nil); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.enrollments.GetBySubjectAndSkill(ctx, tx, subjectID, skillID); err == nil {
			return types.ErrAlreadyEnrolled
		} else if !errors.Is(err, types.ErrEnrollmentNotFound) {
			return err
		}

		ledger, err := s.enrollments.GetBySubject(ctx, tx, subjectID)
		if err != nil {
			return err
		}
		eligible, err := s.evaluator.CanUnlock(skillID, ledger)
		if err != nil {
			return err
		}
		if !eligible {
			return types.ErrPrerequisitesNotMet
		}

		account, err := s.tokens.GetOrCreate(ctx, tx, subjectID)
		if err != nil {
			return err
		}
		if account.Balance < lesson.TokenCost {
			return types.ErrInsufficientTokens
		}
		if err := s.tokens.Debit(ctx, tx, subjectID, lesson.TokenCost); err != nil {
			return err
		}
		return s.enrollments.Create(ctx, tx, row)
	})
	if err != nil {
		return nil, fmt.Errorf("enroll %s for subject %s: %w", skillID, subjectID, err)
	}

	s.tierCache.Invalidate(ctx, subjectID)
	s.log.Info("Enrolled subject in skill", "subject_id", subjectID, "skill_id", skillID, "token_cost", lesson.TokenCost)
	return row, nil
}

// CompleteStep adds one step index to the completed set. Steps may land in any
// order; sequential gating is a presentation policy, not enforced here. The
// flip to completed happens in the same transaction as the final step add.
func (s *enrollmentService) CompleteStep(ctx context.Context, enrollmentID uuid.UUID, stepIndex int) (*StepResult, error) {
	// Resolve the subject outside the lock; ownership never changes.
	peek, err := s.enrollments.GetByID(ctx, nil, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("complete step on %s: %w", enrollmentID, err)
	}

	unlock := s.locks.lock(peek.SubjectID)
	defer unlock()

	result := &StepResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.enrollments.GetByID(ctx, tx, enrollmentID)
		if err != nil {
			return err
		}
		if row.Status == types.EnrollmentCompleted {
			return types.ErrAlreadyCompleted
		}

		lesson, ok := s.cat.Lesson(row.SkillID)
		if !ok {
			return &catalog.IntegrityError{Reason: "enrollment references unknown skill " + row.SkillID}
		}
		if stepIndex < 0 || stepIndex >= len(lesson.Steps) {
			return fmt.Errorf("step %d of %d: %w", stepIndex, len(lesson.Steps), types.ErrInvalidStep)
		}
		done, err := row.StepIndices()
		if err != nil {
			return err
		}
		for _, i := range done {
			if i == stepIndex {
				return fmt.Errorf("step %d already done: %w", stepIndex, types.ErrInvalidStep)
			}
		}

		done = append(done, stepIndex)
		sort.Ints(done)
		if err := row.SetStepIndices(done); err != nil {
			return err
		}
		if len(done) == len(lesson.Steps) {
			now := time.Now().UTC()
			row.Status = types.EnrollmentCompleted
			row.CompletedAt = &now
			result.CompletedNow = true
			result.BadgeReward = lesson.BadgeReward
			result.XPEarned = lesson.Difficulty * 10
		}
		if err := s.enrollments.Update(ctx, tx, row); err != nil {
			return err
		}
		result.Enrollment = row
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("complete step on %s: %w", enrollmentID, err)
	}

	if result.CompletedNow {
		s.tierCache.Invalidate(ctx, peek.SubjectID)
		s.log.Info("Lesson completed", "subject_id", peek.SubjectID, "skill_id", result.Enrollment.SkillID, "badge", result.BadgeReward)
	}
	return result, nil
}

func (s *enrollmentService) ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]*types.Enrollment, error) {
	return s.enrollments.GetBySubject(ctx, nil, subjectID)
}
