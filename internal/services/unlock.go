package services

import (
	"github.com/caninecompass/k9-backend/internal/catalog"
	"github.com/caninecompass/k9-backend/internal/types"
)

// UnlockEvaluator decides eligibility from the subject's enrollment ledger.
// Pure: no side effects, safe to call repeatedly on a ledger snapshot.
type UnlockEvaluator struct {
	cat *catalog.Catalog
}

func NewUnlockEvaluator(cat *catalog.Catalog) *UnlockEvaluator {
	return &UnlockEvaluator{cat: cat}
}

// CanUnlock reports whether every prerequisite of the skill has a completed
// enrollment in the ledger. A skill with no prerequisites is always eligible.
// An unknown prerequisite is catalog corruption and fails hard; it is never
// treated as satisfied.
func (e *UnlockEvaluator) CanUnlock(skillID string, ledger []*types.Enrollment) (bool, error) {
	skill, ok := e.cat.Skill(skillID)
	if !ok {
		return false, types.ErrSkillNotFound
	}
	if len(skill.Prerequisites) == 0 {
		return true, nil
	}
	completed := make(map[string]bool, len(ledger))
	for _, enr := range ledger {
		if enr.Status == types.EnrollmentCompleted {
			completed[enr.SkillID] = true
		}
	}
	for _, req := range skill.Prerequisites {
		if _, known := e.cat.Skill(req); !known {
			return false, &catalog.IntegrityError{Reason: "skill " + skillID + " requires unknown skill " + req}
		}
		if !completed[req] {
			return false, nil
		}
	}
	return true, nil
}
