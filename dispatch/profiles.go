package dispatch

// Tier grades how much model capability a task needs.
type Tier string

// Complexity tiers. TierAuto defers the choice to the instruction resolver.
const (
	TierSimple  Tier = "simple"
	TierMedium  Tier = "medium"
	TierComplex Tier = "complex"
	TierAuto    Tier = "auto"
)

// Profile is the execution preference for one task category.
type Profile struct {
	// Tier is the required capability grade.
	Tier Tier

	// PreferSpeed biases model selection toward latency over quality.
	PreferSpeed bool
}

// taskProfiles is the static task-category table. Read-only after init;
// unknown categories resolve to (auto, false).
var taskProfiles = map[string]Profile{
	"chat":      {Tier: TierMedium, PreferSpeed: false},
	"classify":  {Tier: TierSimple, PreferSpeed: true},
	"extract":   {Tier: TierSimple, PreferSpeed: true},
	"summarize": {Tier: TierMedium, PreferSpeed: true},
	"translate": {Tier: TierMedium, PreferSpeed: false},
	"code":      {Tier: TierComplex, PreferSpeed: false},
	"review":    {Tier: TierComplex, PreferSpeed: false},
	"plan":      {Tier: TierComplex, PreferSpeed: false},
}

// ProfileFor returns the execution profile for a task category.
func ProfileFor(task string) Profile {
	if p, ok := taskProfiles[task]; ok {
		return p
	}
	return Profile{Tier: TierAuto, PreferSpeed: false}
}

// Tasks returns the known task categories.
func Tasks() []string {
	out := make([]string, 0, len(taskProfiles))
	for task := range taskProfiles {
		out = append(out, task)
	}
	return out
}
