package battle

// Reward and turn tuning
const (
	winCoinsBase     = 100
	winCoinsPerLevel = 10
	winXPBase        = 50
	winXPPerLevel    = 5

	// DefaultMaxTurns ends a battle in a draw when neither side is knocked out
	DefaultMaxTurns = 100
)

// ReasonSkillNotKnown rejects a skill action for a skill the dragon never learned
const ReasonSkillNotKnown = "skill_not_known"
