package entities

import "time"

// BattleAction is what the player chooses to do on their half of a turn
type BattleAction string

// Battle actions
const (
	BattleActionAttack BattleAction = "attack"
	BattleActionSkill  BattleAction = "skill"
)

// Winner identifies which side won a finished battle
type Winner string

// Battle winners
const (
	WinnerPlayer   Winner = "player"
	WinnerOpponent Winner = "opponent"
	WinnerDraw     Winner = "draw"
)

// BattleResult is attached to a battle once it is over
type BattleResult struct {
	Winner      Winner   `json:"winner"`
	RewardCoins int32    `json:"reward_coins"`
	RewardXP    int32    `json:"reward_xp"`
	Message     string   `json:"message"`
	Log         []string `json:"log"`
}

// BattleState is the working copy of one encounter. HP and energy are
// tracked per side and only written back to the dragon records when the
// battle ends.
type BattleState struct {
	ID                    string        `json:"id"`
	PlayerDragon          *Dragon       `json:"player_dragon"`
	OpponentDragon        *Dragon       `json:"opponent_dragon"`
	PlayerCurrentHP       int32         `json:"player_current_hp"`
	OpponentCurrentHP     int32         `json:"opponent_current_hp"`
	PlayerCurrentEnergy   int32         `json:"player_current_energy"`
	OpponentCurrentEnergy int32         `json:"opponent_current_energy"`
	Turn                  int32         `json:"turn"`
	Log                   []string      `json:"log"`
	IsBattleOver          bool          `json:"is_battle_over"`
	Result                *BattleResult `json:"result,omitempty"`
	StartedAt             time.Time     `json:"started_at"`
}

// Clone returns a deep copy of the battle state
func (b *BattleState) Clone() *BattleState {
	if b == nil {
		return nil
	}
	out := *b
	out.PlayerDragon = b.PlayerDragon.Clone()
	out.OpponentDragon = b.OpponentDragon.Clone()
	out.Log = append([]string(nil), b.Log...)
	if b.Result != nil {
		result := *b.Result
		result.Log = append([]string(nil), b.Result.Log...)
		out.Result = &result
	}
	return &out
}
