package catalog

// TierLevel is one row of the fixed rank table: the lowest completed-lesson
// count at which the tier is held.
type TierLevel struct {
	Tier         int    `yaml:"tier" json:"tier"`
	Name         string `yaml:"name" json:"name"`
	Color        string `yaml:"color" json:"color"`
	MinCompleted int    `yaml:"min_completed" json:"min_completed"`
}

// TierTable is ordered by ascending threshold. Row 0 is the unranked floor.
type TierTable []TierLevel

// DefaultTierTable is the canonical K9 handler rank ladder. Tier 0 holds no
// credential.
var DefaultTierTable = TierTable{
	{Tier: 0, Name: "Recruit", Color: "#9ca3af", MinCompleted: 0},
	{Tier: 1, Name: "Guardian Initiate", Color: "#3b82f6", MinCompleted: 1},
	{Tier: 2, Name: "Shield Bearer", Color: "#8b5cf6", MinCompleted: 3},
	{Tier: 3, Name: "Threat Analyst", Color: "#f97316", MinCompleted: 6},
	{Tier: 4, Name: "Elite Protector", Color: "#eab308", MinCompleted: 10},
	{Tier: 5, Name: "K9 Master", Color: "#f59e0b", MinCompleted: 15},
}

// TierResult is the derived progression view. NextTier is nil at the top of
// the ladder.
type TierResult struct {
	CurrentTier    int        `json:"current_tier"`
	TierName       string     `json:"tier_name"`
	TierColor      string     `json:"tier_color"`
	CompletedCount int        `json:"completed_count"`
	NextTier       *TierLevel `json:"next_tier,omitempty"`
	LessonsToNext  int        `json:"lessons_to_next"`
}

func (tt TierTable) Validate() error {
	if len(tt) == 0 {
		return integrityErrorf("empty tier table")
	}
	if tt[0].MinCompleted != 0 {
		return integrityErrorf("tier table must start at threshold 0, got %d", tt[0].MinCompleted)
	}
	for i := 1; i < len(tt); i++ {
		if tt[i].MinCompleted <= tt[i-1].MinCompleted {
			return integrityErrorf("tier table thresholds not strictly ascending at tier %d", tt[i].Tier)
		}
		if tt[i].Tier != tt[i-1].Tier+1 {
			return integrityErrorf("tier numbers not consecutive at tier %d", tt[i].Tier)
		}
	}
	return nil
}

// Compute selects the highest tier whose threshold is met. Monotonic in
// completedCount; ties resolve upward.
func (tt TierTable) Compute(completedCount int) TierResult {
	if completedCount < 0 {
		completedCount = 0
	}
	current := tt[0]
	var next *TierLevel
	for i := range tt {
		if completedCount >= tt[i].MinCompleted {
			current = tt[i]
			continue
		}
		level := tt[i]
		next = &level
		break
	}
	res := TierResult{
		CurrentTier:    current.Tier,
		TierName:       current.Name,
		TierColor:      current.Color,
		CompletedCount: completedCount,
	}
	if next != nil {
		res.NextTier = next
		res.LessonsToNext = next.MinCompleted - completedCount
	}
	return res
}
