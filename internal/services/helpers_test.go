package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caninecompass/k9-backend/internal/catalog"
	"github.com/caninecompass/k9-backend/internal/db"
	"github.com/caninecompass/k9-backend/internal/platform/logger"
	"github.com/caninecompass/k9-backend/internal/repos"
)

// Small obedience catalog used across service tests: two free-standing
// tier-1 skills, a tier-2 skill gated on one of them, and a tier-2 skill
// gated on both.
const testCatalogYAML = `
tiers:
  - tier: 1
    name: Basics
    skills:
      - id: sit
        name: Sit
        requires: []
      - id: down
        name: Down
        requires: []
  - tier: 2
    name: Guarding
    skills:
      - id: guard
        name: Guard
        requires: [sit]
      - id: watch
        name: Watch
        requires: [sit, down]
lessons:
  - skill_id: sit
    title: Sit
    category: obedience
    token_cost: 2
    duration_minutes: 10
    difficulty: 2
    badge_reward: sit_badge
    steps: [lure into position, add the cue, proof with distractions]
  - skill_id: down
    title: Down
    category: obedience
    token_cost: 2
    duration_minutes: 10
    difficulty: 2
    badge_reward: down_badge
    steps: [lure into position, add the cue]
  - skill_id: guard
    title: Guard
    category: k9_protection
    token_cost: 2
    duration_minutes: 20
    difficulty: 4
    badge_reward: guard_badge
    steps: [build the position, proof the hold]
  - skill_id: watch
    title: Watch
    category: k9_protection
    token_cost: 2
    duration_minutes: 20
    difficulty: 4
    badge_reward: watch_badge
    steps: [build focus, hold under distraction]
`

var testTierTable = catalog.TierTable{
	{Tier: 0, Name: "Recruit", Color: "#9ca3af", MinCompleted: 0},
	{Tier: 1, Name: "Novice", Color: "#3b82f6", MinCompleted: 1},
	{Tier: 2, Name: "Handler", Color: "#8b5cf6", MinCompleted: 2},
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("prod")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.NewSQLite(":memory:", nil)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return gormDB
}

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalogYAML))
	if err != nil {
		t.Fatalf("parse test catalog: %v", err)
	}
	return cat
}

type testEnv struct {
	db          *gorm.DB
	cat         *catalog.Catalog
	enrollments repos.EnrollmentRepo
	tokens      repos.TokenAccountRepo
	credentials repos.CredentialRepo
	enrollment  EnrollmentService
	tier        TierService
	credential  CredentialService
	token       TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithCatalog(t, newTestCatalog(t), testTierTable)
}

func newTestEnvWithCatalog(t *testing.T, cat *catalog.Catalog, table catalog.TierTable) *testEnv {
	t.Helper()
	log := newTestLogger(t)
	gormDB := newTestDB(t)
	enrollmentRepo := repos.NewEnrollmentRepo(gormDB, log)
	tokenRepo := repos.NewTokenAccountRepo(gormDB, log)
	credentialRepo := repos.NewCredentialRepo(gormDB, log)
	tierService := NewTierService(log, table, enrollmentRepo, nil)
	return &testEnv{
		db:          gormDB,
		cat:         cat,
		enrollments: enrollmentRepo,
		tokens:      tokenRepo,
		credentials: credentialRepo,
		enrollment:  NewEnrollmentService(gormDB, log, cat, enrollmentRepo, tokenRepo, nil),
		tier:        tierService,
		credential:  NewCredentialService(gormDB, log, cat, tierService, credentialRepo),
		token:       NewTokenService(log, tokenRepo),
	}
}

func (env *testEnv) grant(t *testing.T, subjectID uuid.UUID, amount int) {
	t.Helper()
	if _, err := env.token.Grant(context.Background(), subjectID, amount); err != nil {
		t.Fatalf("grant %d tokens: %v", amount, err)
	}
}

func (env *testEnv) balance(t *testing.T, subjectID uuid.UUID) int {
	t.Helper()
	account, err := env.token.Balance(context.Background(), subjectID)
	if err != nil {
		t.Fatalf("read balance: %v", err)
	}
	return account.Balance
}

func (env *testEnv) completeAll(t *testing.T, enrollmentID uuid.UUID, steps int) *StepResult {
	t.Helper()
	var last *StepResult
	for i := 0; i < steps; i++ {
		res, err := env.enrollment.CompleteStep(context.Background(), enrollmentID, i)
		if err != nil {
			t.Fatalf("complete step %d: %v", i, err)
		}
		last = res
	}
	return last
}
