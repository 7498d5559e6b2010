package catalog

import (
	"fmt"
	"sort"
)

// IntegrityError is fatal to catalog load: a dangling prerequisite, a cycle,
// or malformed reference data. It is never shown verbatim to end users.
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("catalog integrity: %s", e.Reason)
}

func integrityErrorf(format string, args ...interface{}) *IntegrityError {
	return &IntegrityError{Reason: fmt.Sprintf(format, args...)}
}

// Skill is one unlockable node in the progression DAG. Immutable after load.
type Skill struct {
	ID            string   `yaml:"id" json:"skill_id"`
	Name          string   `yaml:"name" json:"name"`
	Tier          int      `yaml:"-" json:"tier"`
	TierName      string   `yaml:"-" json:"tier_name"`
	Prerequisites []string `yaml:"requires" json:"prerequisites"`
}

// Lesson is the purchasable instructional content bound 1:1 to a skill.
type Lesson struct {
	SkillID         string   `yaml:"skill_id" json:"skill_id"`
	Title           string   `yaml:"title" json:"title"`
	Category        string   `yaml:"category" json:"category"`
	TokenCost       int      `yaml:"token_cost" json:"token_cost"`
	DurationMinutes int      `yaml:"duration_minutes" json:"duration_minutes"`
	Difficulty      int      `yaml:"difficulty" json:"difficulty"`
	BadgeReward     string   `yaml:"badge_reward" json:"badge_reward,omitempty"`
	Steps           []string `yaml:"steps" json:"steps"`
}

// Catalog is the validated, read-only skill tree plus lesson store.
type Catalog struct {
	skills  map[string]*Skill
	lessons map[string]*Lesson
	ordered []*Skill
}

func (c *Catalog) Skill(id string) (*Skill, bool) {
	s, ok := c.skills[id]
	return s, ok
}

func (c *Catalog) Lesson(skillID string) (*Lesson, bool) {
	l, ok := c.lessons[skillID]
	return l, ok
}

// Skills returns skills ordered by tier then id. tier 0 means all tiers.
func (c *Catalog) Skills(tier int) []*Skill {
	if tier == 0 {
		out := make([]*Skill, len(c.ordered))
		copy(out, c.ordered)
		return out
	}
	var out []*Skill
	for _, s := range c.ordered {
		if s.Tier == tier {
			out = append(out, s)
		}
	}
	return out
}

// Lessons returns lessons in skill order, optionally filtered by tier.
func (c *Catalog) Lessons(tier int) []*Lesson {
	var out []*Lesson
	for _, s := range c.Skills(tier) {
		out = append(out, c.lessons[s.ID])
	}
	return out
}

func (c *Catalog) Len() int { return len(c.ordered) }

func build(skills []*Skill, lessons []*Lesson) (*Catalog, error) {
	cat := &Catalog{
		skills:  make(map[string]*Skill, len(skills)),
		lessons: make(map[string]*Lesson, len(lessons)),
	}
	for _, s := range skills {
		if s.ID == "" {
			return nil, integrityErrorf("skill with empty id")
		}
		if s.Tier < 1 {
			return nil, integrityErrorf("skill %s has non-positive tier %d", s.ID, s.Tier)
		}
		if _, dup := cat.skills[s.ID]; dup {
			return nil, integrityErrorf("duplicate skill id %s", s.ID)
		}
		cat.skills[s.ID] = s
		cat.ordered = append(cat.ordered, s)
	}
	sort.SliceStable(cat.ordered, func(i, j int) bool {
		if cat.ordered[i].Tier != cat.ordered[j].Tier {
			return cat.ordered[i].Tier < cat.ordered[j].Tier
		}
		return cat.ordered[i].ID < cat.ordered[j].ID
	})
	for _, l := range lessons {
		if _, ok := cat.skills[l.SkillID]; !ok {
			return nil, integrityErrorf("lesson %s has no matching skill", l.SkillID)
		}
		if _, dup := cat.lessons[l.SkillID]; dup {
			return nil, integrityErrorf("duplicate lesson for skill %s", l.SkillID)
		}
		cat.lessons[l.SkillID] = l
	}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// validate fails fast on the breakage that would otherwise surface at unlock
// time: dangling prerequisites, prerequisites from higher tiers, cycles, and
// skills without purchasable lessons.
func (c *Catalog) validate() error {
	for _, s := range c.ordered {
		l, ok := c.lessons[s.ID]
		if !ok {
			return integrityErrorf("skill %s has no lesson", s.ID)
		}
		if len(l.Steps) < 1 {
			return integrityErrorf("lesson %s has no steps", s.ID)
		}
		if l.TokenCost < 0 {
			return integrityErrorf("lesson %s has negative token cost", s.ID)
		}
		if l.Difficulty < 1 || l.Difficulty > 10 {
			return integrityErrorf("lesson %s difficulty %d out of range", s.ID, l.Difficulty)
		}
		for _, req := range s.Prerequisites {
			reqSkill, ok := c.skills[req]
			if !ok {
				return integrityErrorf("skill %s requires unknown skill %s", s.ID, req)
			}
			if reqSkill.Tier > s.Tier {
				return integrityErrorf("skill %s (tier %d) requires %s from higher tier %d", s.ID, s.Tier, req, reqSkill.Tier)
			}
		}
	}
	return c.checkAcyclic()
}

func (c *Catalog) checkAcyclic() error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(c.skills))
	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case done:
			return nil
		case visiting:
			return integrityErrorf("prerequisite cycle through skill %s", id)
		}
		state[id] = visiting
		for _, req := range c.skills[id].Prerequisites {
			if err := visit(req); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	for _, s := range c.ordered {
		if err := visit(s.ID); err != nil {
			return err
		}
	}
	return nil
}
