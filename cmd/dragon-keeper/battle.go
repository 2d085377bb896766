package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dragon-keeper/internal/entities"
	"github.com/KirkDiggler/dragon-keeper/internal/errors"
)

var useSkills bool

var battleCmd = &cobra.Command{
	Use:   "battle [dragon-id] [opponent-id]",
	Short: "Fight one battle to the end",
	Long: `Battle starts a fresh session and fights the given opponent with the
given roster dragon until one side falls or the turn limit is reached.

  battle dragon-3 opponent-1
  battle dragon-1 opponent-2 --skills`,
	Args: cobra.ExactArgs(2),
	RunE: runBattle,
}

func init() {
	battleCmd.Flags().BoolVar(&useSkills, "skills", false, "Use the first affordable attack or heal skill each turn")
}

func runBattle(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	c := newConsole(a.engine, cmd.OutOrStdout())
	subscription := c.attach()
	defer func() {
		_ = a.engine.Unsubscribe(subscription)
	}()

	return autoBattle(ctx, c, args[0], args[1], useSkills)
}

// autoBattle plays a battle to the end through the console
func autoBattle(ctx context.Context, c *console, dragonID, opponentID string, skills bool) error {
	if err := c.fight(ctx, []string{dragonID, opponentID}); err != nil {
		return err
	}

	for c.battleID != "" {
		state, err := c.engine.Battle(ctx, c.battleID)
		if err != nil {
			return err
		}
		if skillID := pickSkill(state, skills); skillID != "" {
			err = c.act(ctx, entities.BattleActionSkill, skillID)
		} else {
			err = c.act(ctx, entities.BattleActionAttack, "")
		}
		if err != nil {
			return errors.Wrapf(err, "turn %d failed", state.Turn)
		}
	}
	return nil
}

// pickSkill returns the first attack or heal skill the player dragon can
// afford, or "" to attack. Heals are only picked below half health.
func pickSkill(state *entities.BattleState, enabled bool) string {
	if !enabled {
		return ""
	}
	d := state.PlayerDragon
	for _, s := range d.Skills {
		if s.EnergyCost > state.PlayerCurrentEnergy {
			continue
		}
		switch s.Kind {
		case entities.SkillKindAttack:
			return s.ID
		case entities.SkillKindHeal:
			if state.PlayerCurrentHP*2 < d.MaxHP {
				return s.ID
			}
		}
	}
	return ""
}
