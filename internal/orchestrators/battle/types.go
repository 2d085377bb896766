package battle

import "github.com/KirkDiggler/dragon-keeper/internal/entities"

// StartBattleInput defines the request for starting a battle
type StartBattleInput struct {
	PlayerDragonID   string
	OpponentDragonID string
}

// StartBattleOutput defines the response for starting a battle
type StartBattleOutput struct {
	Battle *entities.BattleState
}

// PerformActionInput defines the request for resolving one turn
type PerformActionInput struct {
	BattleID string
	Action   entities.BattleAction
	// SkillID is required when Action is BattleActionSkill
	SkillID string
}

// PerformActionOutput defines the response for resolving one turn
type PerformActionOutput struct {
	Battle *entities.BattleState
	// Player is set when the battle ended with a reward
	Player *entities.Player
}

// GetBattleInput defines the request for retrieving a battle
type GetBattleInput struct {
	BattleID string
}

// GetBattleOutput defines the response for retrieving a battle
type GetBattleOutput struct {
	Battle *entities.BattleState
}
