package catalog

import (
	"errors"
	"testing"
)

func TestDefaultCatalogLoads(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("default catalog should load: %v", err)
	}
	if cat.Len() != 15 {
		t.Fatalf("expected 15 skills, got %d", cat.Len())
	}
	for _, s := range cat.Skills(0) {
		l, ok := cat.Lesson(s.ID)
		if !ok {
			t.Fatalf("skill %s has no lesson", s.ID)
		}
		if l.TokenCost < 18 || l.TokenCost > 25 {
			t.Fatalf("lesson %s token cost %d outside 18-25", s.ID, l.TokenCost)
		}
		if l.BadgeReward == "" {
			t.Fatalf("lesson %s missing badge reward", s.ID)
		}
		if l.Category != "k9_protection" {
			t.Fatalf("lesson %s category %q", s.ID, l.Category)
		}
	}
}

func TestSkillsFilteredByTier(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("default catalog should load: %v", err)
	}
	tier1 := cat.Skills(1)
	if len(tier1) != 2 {
		t.Fatalf("expected 2 foundation skills, got %d", len(tier1))
	}
	tier5 := cat.Skills(5)
	if len(tier5) != 5 {
		t.Fatalf("expected 5 master skills, got %d", len(tier5))
	}
	for _, s := range tier5 {
		if s.Tier != 5 {
			t.Fatalf("skill %s leaked into tier 5 listing with tier %d", s.ID, s.Tier)
		}
	}
}

func TestMasterCertificationReachable(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("default catalog should load: %v", err)
	}
	s, ok := cat.Skill("k9_015")
	if !ok {
		t.Fatalf("k9_015 missing")
	}
	if len(s.Prerequisites) != 2 {
		t.Fatalf("k9_015 should require two skills, got %v", s.Prerequisites)
	}
}

func TestParseRejectsDanglingPrerequisite(t *testing.T) {
	doc := `
tiers:
  - tier: 1
    name: Basics
    skills:
      - id: sit
        name: Sit
        requires: [ghost]
lessons:
  - skill_id: sit
    title: Sit
    category: obedience
    token_cost: 1
    duration_minutes: 5
    difficulty: 1
    steps: [step one]
`
	_, err := Parse([]byte(doc))
	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected IntegrityError for dangling prerequisite, got %v", err)
	}
}

func TestParseRejectsCycle(t *testing.T) {
	doc := `
tiers:
  - tier: 1
    name: Basics
    skills:
      - id: a
        name: A
        requires: [b]
      - id: b
        name: B
        requires: [a]
lessons:
  - skill_id: a
    title: A
    category: obedience
    token_cost: 1
    duration_minutes: 5
    difficulty: 1
    steps: [one]
  - skill_id: b
    title: B
    category: obedience
    token_cost: 1
    duration_minutes: 5
    difficulty: 1
    steps: [one]
`
	_, err := Parse([]byte(doc))
	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected IntegrityError for cycle, got %v", err)
	}
}

func TestParseRejectsHigherTierPrerequisite(t *testing.T) {
	doc := `
tiers:
  - tier: 1
    name: Basics
    skills:
      - id: low
        name: Low
        requires: [high]
  - tier: 2
    name: Guarding
    skills:
      - id: high
        name: High
        requires: []
lessons:
  - skill_id: low
    title: Low
    category: obedience
    token_cost: 1
    duration_minutes: 5
    difficulty: 1
    steps: [one]
  - skill_id: high
    title: High
    category: obedience
    token_cost: 1
    duration_minutes: 5
    difficulty: 1
    steps: [one]
`
	_, err := Parse([]byte(doc))
	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected IntegrityError for higher-tier prerequisite, got %v", err)
	}
}

func TestParseRejectsLessonWithoutSteps(t *testing.T) {
	doc := `
tiers:
  - tier: 1
    name: Basics
    skills:
      - id: sit
        name: Sit
        requires: []
lessons:
  - skill_id: sit
    title: Sit
    category: obedience
    token_cost: 1
    duration_minutes: 5
    difficulty: 1
    steps: []
`
	_, err := Parse([]byte(doc))
	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected IntegrityError for empty steps, got %v", err)
	}
}

func TestParseRejectsSkillWithoutLesson(t *testing.T) {
	doc := `
tiers:
  - tier: 1
    name: Basics
    skills:
      - id: sit
        name: Sit
        requires: []
lessons: []
`
	_, err := Parse([]byte(doc))
	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected IntegrityError for missing lesson, got %v", err)
	}
}
