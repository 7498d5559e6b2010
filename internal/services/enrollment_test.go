package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/caninecompass/k9-backend/internal/types"
)

func TestEnrollUnknownSkill(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.enrollment.Enroll(context.Background(), uuid.New(), "teleport")
	if !errors.Is(err, types.ErrSkillNotFound) {
		t.Fatalf("expected ErrSkillNotFound, got %v", err)
	}
}

func TestEnrollDebitsAndCreatesInProgress(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()
	env.grant(t, subject, 5)

	row, err := env.enrollment.Enroll(context.Background(), subject, "sit")
	if err != nil {
		t.Fatalf("enroll sit: %v", err)
	}
	if row.Status != types.EnrollmentInProgress {
		t.Fatalf("new enrollment should be in_progress, got %s", row.Status)
	}
	done, err := row.StepIndices()
	if err != nil {
		t.Fatalf("decode steps: %v", err)
	}
	if len(done) != 0 {
		t.Fatalf("new enrollment should have no completed steps, got %v", done)
	}
	if got := env.balance(t, subject); got != 3 {
		t.Fatalf("balance after enroll should be 3, got %d", got)
	}
}

func TestEnrollRejectsDoubleEnrollment(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()
	env.grant(t, subject, 10)

	if _, err := env.enrollment.Enroll(context.Background(), subject, "sit"); err != nil {
		t.Fatalf("first enroll: %v", err)
	}
	_, err := env.enrollment.Enroll(context.Background(), subject, "sit")
	if !errors.Is(err, types.ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
	if got := env.balance(t, subject); got != 8 {
		t.Fatalf("second enroll must not debit, balance should be 8, got %d", got)
	}
}

func TestEnrollRejectsUnmetPrerequisites(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()
	env.grant(t, subject, 10)

	_, err := env.enrollment.Enroll(context.Background(), subject, "guard")
	if !errors.Is(err, types.ErrPrerequisitesNotMet) {
		t.Fatalf("expected ErrPrerequisitesNotMet, got %v", err)
	}
	if got := env.balance(t, subject); got != 10 {
		t.Fatalf("failed enroll must not debit, balance should be 10, got %d", got)
	}
}

func TestEnrollRejectsInsufficientTokens(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()
	env.grant(t, subject, 1)

	_, err := env.enrollment.Enroll(context.Background(), subject, "sit")
	if !errors.Is(err, types.ErrInsufficientTokens) {
		t.Fatalf("expected ErrInsufficientTokens, got %v", err)
	}
	rows, err := env.enrollment.ListBySubject(context.Background(), subject)
	if err != nil {
		t.Fatalf("list enrollments: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("failed enroll must not create an enrollment, got %d", len(rows))
	}
}

func TestConcurrentEnrollSameSkill(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()
	env.grant(t, subject, 2) // exactly one lesson's cost

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.enrollment.Enroll(context.Background(), subject, "sit")
		}(i)
	}
	wg.Wait()

	var successes, rejections int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, types.ErrAlreadyEnrolled), errors.Is(err, types.ErrInsufficientTokens):
			rejections++
		default:
			t.Fatalf("unexpected error kind: %v", err)
		}
	}
	if successes != 1 || rejections != 1 {
		t.Fatalf("expected exactly one success and one rejection, got %d/%d", successes, rejections)
	}
	if got := env.balance(t, subject); got != 0 {
		t.Fatalf("final balance should be 0, got %d", got)
	}
}

func TestConcurrentEnrollBalanceRace(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()
	env.grant(t, subject, 3) // each lesson costs 2; only one enroll can afford

	var wg sync.WaitGroup
	errs := make([]error, 2)
	skills := []string{"sit", "down"}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.enrollment.Enroll(context.Background(), subject, skills[i])
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
		} else if !errors.Is(err, types.ErrInsufficientTokens) {
			t.Fatalf("unexpected error kind: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("only one enroll should afford the cost, got %d successes", successes)
	}
	if got := env.balance(t, subject); got != 1 {
		t.Fatalf("final balance should be 1, got %d", got)
	}
}

func TestCompleteStepUnknownEnrollment(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.enrollment.CompleteStep(context.Background(), uuid.New(), 0)
	if !errors.Is(err, types.ErrEnrollmentNotFound) {
		t.Fatalf("expected ErrEnrollmentNotFound, got %v", err)
	}
}

func TestCompleteStepRejectsOutOfRangeAndDuplicate(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()
	env.grant(t, subject, 5)
	row, err := env.enrollment.Enroll(context.Background(), subject, "sit")
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	if _, err := env.enrollment.CompleteStep(context.Background(), row.ID, 3); !errors.Is(err, types.ErrInvalidStep) {
		t.Fatalf("out-of-range index should fail ErrInvalidStep, got %v", err)
	}
	if _, err := env.enrollment.CompleteStep(context.Background(), row.ID, -1); !errors.Is(err, types.ErrInvalidStep) {
		t.Fatalf("negative index should fail ErrInvalidStep, got %v", err)
	}
	if _, err := env.enrollment.CompleteStep(context.Background(), row.ID, 0); err != nil {
		t.Fatalf("complete step 0: %v", err)
	}
	if _, err := env.enrollment.CompleteStep(context.Background(), row.ID, 0); !errors.Is(err, types.ErrInvalidStep) {
		t.Fatalf("duplicate index should fail ErrInvalidStep, got %v", err)
	}
}

func TestCompleteStepOutOfOrderAllowed(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()
	env.grant(t, subject, 5)
	row, err := env.enrollment.Enroll(context.Background(), subject, "sit")
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	// The engine accepts any valid unseen index; sequential gating is a
	// presentation policy.
	for _, idx := range []int{2, 0, 1} {
		if _, err := env.enrollment.CompleteStep(context.Background(), row.ID, idx); err != nil {
			t.Fatalf("complete step %d: %v", idx, err)
		}
	}
	updated, err := env.enrollments.GetByID(context.Background(), nil, row.ID)
	if err != nil {
		t.Fatalf("reload enrollment: %v", err)
	}
	if updated.Status != types.EnrollmentCompleted {
		t.Fatalf("all steps done should complete the enrollment, got %s", updated.Status)
	}
}

func TestCompletionTransitionFiresExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()
	env.grant(t, subject, 5)
	row, err := env.enrollment.Enroll(context.Background(), subject, "sit")
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	first, err := env.enrollment.CompleteStep(context.Background(), row.ID, 0)
	if err != nil {
		t.Fatalf("complete step 0: %v", err)
	}
	if first.CompletedNow {
		t.Fatalf("first of three steps must not complete the lesson")
	}

	// Finish the last two steps concurrently; the flip must fire once.
	var wg sync.WaitGroup
	results := make([]*StepResult, 2)
	errs := make([]error, 2)
	for i, idx := range []int{1, 2} {
		wg.Add(1)
		go func(i, idx int) {
			defer wg.Done()
			results[i], errs[i] = env.enrollment.CompleteStep(context.Background(), row.ID, idx)
		}(i, idx)
	}
	wg.Wait()

	var flips int
	for i := range results {
		if errs[i] != nil {
			t.Fatalf("concurrent step %d failed: %v", i, errs[i])
		}
		if results[i].CompletedNow {
			flips++
			if results[i].BadgeReward != "sit_badge" {
				t.Fatalf("completing call should carry the badge, got %q", results[i].BadgeReward)
			}
			if results[i].XPEarned != 20 {
				t.Fatalf("xp should be difficulty*10=20, got %d", results[i].XPEarned)
			}
		}
	}
	if flips != 1 {
		t.Fatalf("completion transition should fire exactly once, fired %d times", flips)
	}
}

func TestCompleteStepOnCompletedEnrollment(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()
	env.grant(t, subject, 5)
	row, err := env.enrollment.Enroll(context.Background(), subject, "down")
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	env.completeAll(t, row.ID, 2)

	_, err = env.enrollment.CompleteStep(context.Background(), row.ID, 0)
	if !errors.Is(err, types.ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
}

// Mirrors the canonical progression walkthrough: unlock gating, debits, tier
// movement, and a final credential snapshot.
func TestProgressionEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	subject := uuid.New()
	env.grant(t, subject, 5)

	enrollA, err := env.enrollment.Enroll(ctx, subject, "sit")
	if err != nil {
		t.Fatalf("enroll sit: %v", err)
	}
	if got := env.balance(t, subject); got != 3 {
		t.Fatalf("balance after first enroll should be 3, got %d", got)
	}

	if _, err := env.enrollment.Enroll(ctx, subject, "guard"); !errors.Is(err, types.ErrPrerequisitesNotMet) {
		t.Fatalf("guard before sit completes should fail prerequisites, got %v", err)
	}

	last := env.completeAll(t, enrollA.ID, 3)
	if !last.CompletedNow {
		t.Fatalf("final step should complete the lesson")
	}
	res, err := env.tier.GetTier(ctx, subject)
	if err != nil {
		t.Fatalf("tier after one completion: %v", err)
	}
	if res.CurrentTier != 1 {
		t.Fatalf("one completion should reach tier 1, got %d", res.CurrentTier)
	}

	enrollB, err := env.enrollment.Enroll(ctx, subject, "guard")
	if err != nil {
		t.Fatalf("enroll guard after prerequisite: %v", err)
	}
	if got := env.balance(t, subject); got != 1 {
		t.Fatalf("balance after second enroll should be 1, got %d", got)
	}

	env.completeAll(t, enrollB.ID, 2)
	res, err = env.tier.GetTier(ctx, subject)
	if err != nil {
		t.Fatalf("tier after two completions: %v", err)
	}
	if res.CurrentTier != 2 {
		t.Fatalf("two completions should reach tier 2, got %d", res.CurrentTier)
	}

	cred, err := env.credential.Issue(ctx, subject)
	if err != nil {
		t.Fatalf("issue credential: %v", err)
	}
	if cred.CompletedCount != 2 || cred.TierNumber != 2 {
		t.Fatalf("credential should snapshot count 2 tier 2, got count %d tier %d", cred.CompletedCount, cred.TierNumber)
	}
}
