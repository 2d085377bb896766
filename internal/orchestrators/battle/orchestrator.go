// Package battle implements the turn based battle engine
package battle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/dragon-keeper/internal/entities"
	"github.com/KirkDiggler/dragon-keeper/internal/errors"
	"github.com/KirkDiggler/dragon-keeper/internal/notify"
	"github.com/KirkDiggler/dragon-keeper/internal/pkg/clock"
	"github.com/KirkDiggler/dragon-keeper/internal/pkg/idgen"
	"github.com/KirkDiggler/dragon-keeper/internal/repositories/battles"
	"github.com/KirkDiggler/dragon-keeper/internal/repositories/dragons"
	"github.com/KirkDiggler/dragon-keeper/internal/repositories/players"
)

// Service defines the battle operations
type Service interface {
	// StartBattle snapshots a roster dragon and an opponent into a new battle
	StartBattle(ctx context.Context, input *StartBattleInput) (*StartBattleOutput, error)

	// PerformAction resolves one full turn. A finished battle is returned unchanged.
	PerformAction(ctx context.Context, input *PerformActionInput) (*PerformActionOutput, error)

	// GetBattle returns the stored battle state
	GetBattle(ctx context.Context, input *GetBattleInput) (*GetBattleOutput, error)
}

// Catalog resolves the skills a player may use in battle
type Catalog interface {
	Skill(id string) (*entities.Skill, error)
}

// Config holds the dependencies for the battle orchestrator
type Config struct {
	DragonRepo  dragons.Repository
	PlayerRepo  players.Repository
	BattleRepo  battles.Repository
	Catalog     Catalog
	Notifier    notify.Notifier
	IDGenerator idgen.Generator
	// Roller drives the opponent AI: Roll(2) == 2 uses a skill, then
	// Roll(n) picks one of the n qualifying skills
	Roller   dice.Roller
	Clock    clock.Clock
	PlayerID string
	MaxTurns int32
	Logger   *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.DragonRepo == nil {
		vb.RequiredField("DragonRepo")
	}
	if c.PlayerRepo == nil {
		vb.RequiredField("PlayerRepo")
	}
	if c.BattleRepo == nil {
		vb.RequiredField("BattleRepo")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Notifier == nil {
		vb.RequiredField("Notifier")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	errors.ValidateRequired("PlayerID", c.PlayerID, vb)
	if c.MaxTurns < 0 {
		vb.Field("MaxTurns", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	dragonRepo dragons.Repository
	playerRepo players.Repository
	battleRepo battles.Repository
	catalog    Catalog
	notifier   notify.Notifier
	idGen      idgen.Generator
	roller     dice.Roller
	clock      clock.Clock
	playerID   string
	maxTurns   int32
	logger     *slog.Logger
}

// NewOrchestrator creates a new battle orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	maxTurns := cfg.MaxTurns
	if maxTurns == 0 {
		maxTurns = DefaultMaxTurns
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &orchestrator{
		dragonRepo: cfg.DragonRepo,
		playerRepo: cfg.PlayerRepo,
		battleRepo: cfg.BattleRepo,
		catalog:    cfg.Catalog,
		notifier:   cfg.Notifier,
		idGen:      cfg.IDGenerator,
		roller:     cfg.Roller,
		clock:      clk,
		playerID:   cfg.PlayerID,
		maxTurns:   maxTurns,
		logger:     logger,
	}, nil
}

// BasicDamage is the damage of a plain attack: attack minus half the
// defender's defense, never below 1
func BasicDamage(attack, defense int32) int32 {
	return max(1, attack-defense/2)
}

func (o *orchestrator) StartBattle(ctx context.Context, input *StartBattleInput) (*StartBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	playerDragon, err := o.participant(ctx, input.PlayerDragonID, entities.PoolRoster)
	if err != nil {
		return nil, o.invalidParticipants(ctx, err)
	}
	opponentDragon, err := o.participant(ctx, input.OpponentDragonID, entities.PoolOpponents)
	if err != nil {
		return nil, o.invalidParticipants(ctx, err)
	}

	state := &entities.BattleState{
		ID:                    o.idGen.Generate(),
		PlayerDragon:          playerDragon,
		OpponentDragon:        opponentDragon,
		PlayerCurrentHP:       playerDragon.CurrentHP,
		OpponentCurrentHP:     opponentDragon.CurrentHP,
		PlayerCurrentEnergy:   playerDragon.CurrentEnergy,
		OpponentCurrentEnergy: opponentDragon.CurrentEnergy,
		Log: []string{
			fmt.Sprintf("The battle between %s and %s begins!", playerDragon.Name, opponentDragon.Name),
		},
		StartedAt: o.clock.Now(),
	}

	if _, err := o.battleRepo.Save(ctx, &battles.SaveInput{Battle: state}); err != nil {
		return nil, errors.Wrap(err, "failed to save battle")
	}

	o.logger.Info("Battle started",
		"battle_id", state.ID,
		"player_dragon_id", playerDragon.ID,
		"opponent_dragon_id", opponentDragon.ID)

	return &StartBattleOutput{Battle: state}, nil
}

// participant loads a dragon and checks it belongs to the expected pool
func (o *orchestrator) participant(ctx context.Context, id string, pool entities.Pool) (*entities.Dragon, error) {
	if id == "" {
		return nil, errors.NotFoundf("%s dragon ID is required", pool)
	}

	out, err := o.dragonRepo.Get(ctx, dragons.GetInput{ID: id})
	if err != nil {
		return nil, err
	}
	if out.Dragon.Pool != pool {
		return nil, errors.NotFoundf("dragon %s is not in the %s pool", id, pool).WithMeta("dragon_id", id)
	}
	if out.Dragon.Cooldowns.Skill == nil {
		out.Dragon.Cooldowns.Skill = map[string]int32{}
	}
	return out.Dragon, nil
}

func (o *orchestrator) invalidParticipants(ctx context.Context, err error) error {
	if !errors.IsNotFound(err) {
		return errors.Wrap(err, "failed to load battle participants")
	}

	o.notifier.Notify(ctx, notify.Notification{
		Title:       "Battle error",
		Description: "Invalid dragons for battle.",
		Severity:    notify.SeverityDestructive,
	})
	return errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid dragons for battle")
}

func (o *orchestrator) GetBattle(ctx context.Context, input *GetBattleInput) (*GetBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	out, err := o.battleRepo.Get(ctx, &battles.GetInput{BattleID: input.BattleID})
	if err != nil {
		return nil, err
	}
	return &GetBattleOutput{Battle: out.Battle}, nil
}

func (o *orchestrator) PerformAction(ctx context.Context, input *PerformActionInput) (*PerformActionOutput, error) {
	if err := validatePerformAction(input); err != nil {
		return nil, err
	}

	out, err := o.battleRepo.Get(ctx, &battles.GetInput{BattleID: input.BattleID})
	if err != nil {
		return nil, err
	}
	state := out.Battle
	if state.IsBattleOver {
		return &PerformActionOutput{Battle: state}, nil
	}

	var skill *entities.Skill
	if input.Action == entities.BattleActionSkill {
		skill, err = o.catalog.Skill(input.SkillID)
		if err != nil {
			return nil, err
		}
		if !state.PlayerDragon.KnowsSkill(skill.ID) {
			return nil, errors.FailedPreconditionf("%s does not know %s", state.PlayerDragon.Name, skill.Name).
				WithMeta("reason", ReasonSkillNotKnown).
				WithMeta("skill_id", skill.ID)
		}
	}

	state.Log = append(state.Log, fmt.Sprintf("--- Turn %d ---", state.Turn+1))

	o.playerHalf(state, skill)

	switch {
	case state.OpponentCurrentHP <= 0:
		o.endWin(state)

	default:
		if err := o.opponentHalf(ctx, state); err != nil {
			return nil, err
		}

		if state.PlayerCurrentHP <= 0 {
			o.endLoss(state)
			break
		}

		state.Turn++
		if state.Turn >= o.maxTurns {
			o.endDraw(state)
		}
	}

	// Stored before settling; a retry of a finished battle pays nothing
	if _, err := o.battleRepo.Save(ctx, &battles.SaveInput{Battle: state}); err != nil {
		return nil, errors.Wrap(err, "failed to save battle")
	}
	if !state.IsBattleOver {
		return &PerformActionOutput{Battle: state}, nil
	}

	player, err := o.settle(ctx, state)
	if err != nil {
		return nil, err
	}
	return &PerformActionOutput{Battle: state, Player: player}, nil
}

func validatePerformAction(input *PerformActionInput) error {
	if input == nil {
		return errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("BattleID", input.BattleID, vb)
	errors.ValidateEnum("Action", string(input.Action), []string{
		string(entities.BattleActionAttack),
		string(entities.BattleActionSkill),
	}, vb)
	if input.Action == entities.BattleActionSkill && input.SkillID == "" {
		vb.RequiredField("SkillID")
	}
	return vb.Build()
}

// playerHalf applies the player's action. A nil skill is a basic attack.
func (o *orchestrator) playerHalf(state *entities.BattleState, skill *entities.Skill) {
	attacker := state.PlayerDragon
	defender := state.OpponentDragon

	if skill == nil {
		damage := BasicDamage(attacker.Attack, defender.Defense)
		state.OpponentCurrentHP -= damage
		state.Log = append(state.Log, fmt.Sprintf("%s attacks %s for %d damage.", attacker.Name, defender.Name, damage))
		return
	}

	if state.PlayerCurrentEnergy < skill.EnergyCost {
		damage := BasicDamage(attacker.Attack, defender.Defense)
		state.OpponentCurrentHP -= damage
		state.Log = append(state.Log,
			fmt.Sprintf("%s does not have enough energy for %s.", attacker.Name, skill.Name),
			fmt.Sprintf("%s falls back to a basic attack for %d damage.", attacker.Name, damage))
		return
	}

	state.PlayerCurrentEnergy -= skill.EnergyCost
	state.PlayerCurrentHP, state.OpponentCurrentHP = useSkill(state, skill, attacker, defender,
		state.PlayerCurrentHP, state.OpponentCurrentHP)
}

// opponentHalf runs the opponent AI
func (o *orchestrator) opponentHalf(ctx context.Context, state *entities.BattleState) error {
	attacker := state.OpponentDragon
	defender := state.PlayerDragon

	// The scheduler cools skills on the stored record, not on the snapshot
	var record *entities.Dragon
	out, err := o.dragonRepo.Get(ctx, dragons.GetInput{ID: attacker.ID})
	switch {
	case err == nil:
		record = out.Dragon
		attacker.Cooldowns.Skill = record.Cooldowns.Clone().Skill
	case !errors.IsNotFound(err):
		return errors.Wrapf(err, "failed to load opponent %s", attacker.ID)
	}
	if attacker.Cooldowns.Skill == nil {
		attacker.Cooldowns.Skill = map[string]int32{}
	}

	skill, err := o.chooseOpponentSkill(state)
	if err != nil {
		return err
	}

	if skill == nil {
		damage := BasicDamage(attacker.Attack, defender.Defense)
		state.PlayerCurrentHP -= damage
		state.Log = append(state.Log, fmt.Sprintf("%s attacks %s for %d damage.", attacker.Name, defender.Name, damage))
		return nil
	}

	state.OpponentCurrentEnergy -= skill.EnergyCost
	state.OpponentCurrentHP, state.PlayerCurrentHP = useSkill(state, skill, attacker, defender,
		state.OpponentCurrentHP, state.PlayerCurrentHP)

	if skill.Cooldown <= 0 {
		return nil
	}
	attacker.Cooldowns.Skill[skill.ID] = skill.Cooldown
	if record == nil {
		return nil
	}
	if record.Cooldowns.Skill == nil {
		record.Cooldowns.Skill = map[string]int32{}
	}
	record.Cooldowns.Skill[skill.ID] = skill.Cooldown
	if _, err := o.dragonRepo.Update(ctx, dragons.UpdateInput{Dragon: record}); err != nil {
		return errors.Wrapf(err, "failed to save cooldown for %s", record.ID)
	}
	return nil
}

// chooseOpponentSkill flips a coin when any skill fits the opponent's energy
// and is off cooldown, and on heads picks one of them uniformly
func (o *orchestrator) chooseOpponentSkill(state *entities.BattleState) (*entities.Skill, error) {
	var available []entities.Skill
	for _, s := range state.OpponentDragon.Skills {
		if s.EnergyCost <= state.OpponentCurrentEnergy && state.OpponentDragon.Cooldowns.SkillCooldown(s.ID) == 0 {
			available = append(available, s)
		}
	}
	if len(available) == 0 {
		return nil, nil
	}

	flip, err := o.roller.Roll(2)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll opponent action")
	}
	if flip != 2 {
		return nil, nil
	}

	pick, err := o.roller.Roll(len(available))
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll opponent skill")
	}
	if pick < 1 || pick > len(available) {
		return nil, errors.Internalf("opponent skill roll %d outside %d choices", pick, len(available))
	}
	return &available[pick-1], nil
}

// useSkill applies a paid skill and returns the new user and target HP.
// Buff and debuff skills have no battle effect.
func useSkill(state *entities.BattleState, skill *entities.Skill, user, target *entities.Dragon, userHP, targetHP int32) (int32, int32) {
	state.Log = append(state.Log, fmt.Sprintf("%s uses %s.", user.Name, skill.Name))

	switch skill.Kind {
	case entities.SkillKindAttack:
		if skill.Damage > 0 {
			targetHP -= skill.Damage
			state.Log = append(state.Log, fmt.Sprintf("It deals %d damage to %s.", skill.Damage, target.Name))
		}
	case entities.SkillKindHeal:
		if skill.Heal > 0 {
			userHP = min(user.MaxHP, userHP+skill.Heal)
			state.Log = append(state.Log, fmt.Sprintf("%s recovers %d HP.", user.Name, skill.Heal))
		}
	}

	return userHP, targetHP
}

func (o *orchestrator) endWin(state *entities.BattleState) {
	level := state.OpponentDragon.Level
	coins := winCoinsBase + level*winCoinsPerLevel
	xp := winXPBase + level*winXPPerLevel

	state.OpponentCurrentHP = 0
	o.end(state, entities.WinnerPlayer, coins, xp,
		fmt.Sprintf("You won! Earned %d coins and %d XP.", coins, xp))
}

func (o *orchestrator) endLoss(state *entities.BattleState) {
	state.PlayerCurrentHP = 0
	o.end(state, entities.WinnerOpponent, 0, 0,
		fmt.Sprintf("You lost! %s was injured.", state.PlayerDragon.Name))
}

func (o *orchestrator) endDraw(state *entities.BattleState) {
	o.end(state, entities.WinnerDraw, 0, 0,
		fmt.Sprintf("Neither dragon fell after %d turns.", state.Turn))
}

// settle applies a stored outcome to the roster and the player. The dragon
// write comes first. A victory still pays the player when that write fails
// and the failure is returned afterwards.
func (o *orchestrator) settle(ctx context.Context, state *entities.BattleState) (*entities.Player, error) {
	result := state.Result

	switch result.Winner {
	case entities.WinnerOpponent:
		if err := o.writeBack(ctx, state.PlayerDragon.ID, func(d *entities.Dragon) {
			d.CurrentHP = 0
			d.Status = entities.StatusInjured
		}); err != nil {
			return nil, err
		}
		o.notifier.Notify(ctx, notify.Notification{
			Title:       "Defeat!",
			Description: result.Message,
			Severity:    notify.SeverityDestructive,
		})
		return nil, nil

	case entities.WinnerDraw:
		if err := o.writeBack(ctx, state.PlayerDragon.ID, func(d *entities.Dragon) {
			d.CurrentHP = min(max(state.PlayerCurrentHP, 0), d.MaxHP)
		}); err != nil {
			return nil, err
		}
		o.notifier.Notify(ctx, notify.Notification{
			Title:       "Draw!",
			Description: result.Message,
			Severity:    notify.SeverityInfo,
		})
		return nil, nil
	}

	writeErr := o.writeBack(ctx, state.PlayerDragon.ID, func(d *entities.Dragon) {
		d.CurrentHP = min(max(state.PlayerCurrentHP, 0), d.MaxHP)
		d.XP += result.RewardXP / 2
	})

	playerOut, err := o.playerRepo.Get(ctx, players.GetInput{ID: o.playerID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load player")
	}
	player := playerOut.Player
	player.Coins += result.RewardCoins
	leveledUp := player.GainXP(result.RewardXP)
	if _, err := o.playerRepo.Save(ctx, players.SaveInput{Player: player}); err != nil {
		o.logger.Error("Battle reward not paid",
			"battle_id", state.ID,
			"reward_coins", result.RewardCoins,
			"error", err)
		return nil, errors.Wrap(err, "failed to save player")
	}

	o.notifier.Notify(ctx, notify.Notification{
		Title:       "Victory!",
		Description: result.Message,
		Severity:    notify.SeveritySuccess,
	})
	if leveledUp {
		o.notifier.Notify(ctx, notify.Notification{
			Title:       "Congratulations!",
			Description: fmt.Sprintf("You reached level %d!", player.Level),
			Severity:    notify.SeveritySuccess,
		})
	}

	if writeErr != nil {
		return nil, writeErr
	}
	return player, nil
}

func (o *orchestrator) end(state *entities.BattleState, winner entities.Winner, coins, xp int32, message string) {
	state.IsBattleOver = true
	state.Result = &entities.BattleResult{
		Winner:      winner,
		RewardCoins: coins,
		RewardXP:    xp,
		Message:     message,
		Log:         append([]string(nil), state.Log...),
	}

	o.logger.Info("Battle over",
		"battle_id", state.ID,
		"winner", winner,
		"turns", state.Turn,
		"reward_coins", coins,
		"reward_xp", xp)
}

// writeBack applies the battle outcome to the roster record. A dragon that
// left the roster mid battle, for example by evolving, is skipped.
func (o *orchestrator) writeBack(ctx context.Context, dragonID string, fn func(d *entities.Dragon)) error {
	out, err := o.dragonRepo.Get(ctx, dragons.GetInput{ID: dragonID})
	if err != nil {
		if errors.IsNotFound(err) {
			o.logger.Warn("Battle dragon no longer exists", "dragon_id", dragonID)
			return nil
		}
		return errors.Wrapf(err, "failed to load dragon %s", dragonID)
	}

	fn(out.Dragon)
	if _, err := o.dragonRepo.Update(ctx, dragons.UpdateInput{Dragon: out.Dragon}); err != nil {
		return errors.Wrapf(err, "failed to save dragon %s", dragonID)
	}
	return nil
}
