package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dragon-keeper/internal/engine"
	"github.com/KirkDiggler/dragon-keeper/internal/entities"
	"github.com/KirkDiggler/dragon-keeper/internal/errors"
	"github.com/KirkDiggler/dragon-keeper/internal/notify"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play an interactive session",
	Long: `Play reads one command per line from stdin. Energy and cooldowns
regenerate in the background while you play. Type "help" for commands.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	a.watchConfig()

	c := newConsole(a.engine, cmd.OutOrStdout())
	subscription := c.attach()
	defer func() {
		_ = a.engine.Unsubscribe(subscription)
	}()

	a.engine.Start(ctx)

	return c.run(ctx, cmd.InOrStdin())
}

// console runs line commands against an engine
type console struct {
	engine *engine.Engine

	mu  sync.Mutex
	out io.Writer

	// battleID is the battle "attack" and "skill" act on
	battleID string
}

func newConsole(e *engine.Engine, out io.Writer) *console {
	return &console{engine: e, out: out}
}

// attach prints every notification the session publishes
func (c *console) attach() string {
	return c.engine.Subscribe(func(_ context.Context, n notify.Notification) {
		c.printf("[%s] %s: %s\n", n.Severity, n.Title, n.Description)
	})
}

func (c *console) printf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// run executes lines from in until EOF, "quit" or cancellation
func (c *console) run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	c.printf("Welcome, keeper. Type \"help\" for commands.\n")
	for {
		c.printf("> ")
		select {
		case <-ctx.Done():
			c.printf("\n")
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			quit, err := c.exec(ctx, line)
			if err != nil {
				c.printf("error: %s\n", errors.GetMessage(err))
			}
			if quit {
				return nil
			}
		}
	}
}

// exec runs one command line and reports whether the session should end
func (c *console) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	cmd, ok := consoleCommands[name]
	if !ok {
		return false, errors.InvalidArgumentf("unknown command %q; try help", name)
	}
	if len(args) < cmd.minArgs {
		return false, errors.InvalidArgumentf("usage: %s %s", name, cmd.usage)
	}
	if name == "quit" || name == "exit" {
		return true, nil
	}
	return false, cmd.run(c, ctx, args)
}

type consoleCommand struct {
	usage   string
	help    string
	minArgs int
	run     func(c *console, ctx context.Context, args []string) error
}

var consoleCommands map[string]consoleCommand

func init() {
	consoleCommands = map[string]consoleCommand{
		"help":      {help: "list commands", run: (*console).help},
		"player":    {help: "show the keeper", run: (*console).player},
		"roster":    {help: "list your dragons", run: (*console).roster},
		"opponents": {help: "list opponents", run: (*console).opponents},
		"shop":      {help: "list shop items", run: (*console).shop},
		"skins":     {help: "list dragon and player skins", run: (*console).skins},
		"skills":    {help: "list skills", run: (*console).skills},
		"feed":      {usage: "<dragon>", help: "restore HP", minArgs: 1, run: (*console).feed},
		"train":     {usage: "<dragon>", help: "gain XP", minArgs: 1, run: (*console).train},
		"evolve":    {usage: "<dragon>", help: "evolve a dragon", minArgs: 1, run: (*console).evolve},
		"buy":       {usage: "<item>", help: "buy a shop item", minArgs: 1, run: (*console).buy},
		"gacha":     {help: "roll for a random dragon", run: (*console).gacha},
		"equip":     {usage: "<dragon> [skin]", help: "equip a dragon skin; no skin unequips", minArgs: 1, run: (*console).equip},
		"avatar":    {usage: "[skin]", help: "equip a player skin; no skin restores the default", run: (*console).avatar},
		"fight":     {usage: "<dragon> <opponent>", help: "start a battle", minArgs: 2, run: (*console).fight},
		"attack":    {help: "basic attack in the current battle", run: (*console).attack},
		"skill":     {usage: "<skill>", help: "use a skill in the current battle", minArgs: 1, run: (*console).skill},
		"status":    {help: "show the current battle", run: (*console).status},
		"tick":      {help: "run one regeneration tick now", run: (*console).tick},
		"reset":     {help: "start the session over", run: (*console).reset},
		"quit":      {help: "leave"},
		"exit":      {help: "leave"},
	}
}

func (c *console) help(_ context.Context, _ []string) error {
	names := make([]string, 0, len(consoleCommands))
	for name := range consoleCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := consoleCommands[name]
		c.printf("  %-28s %s\n", strings.TrimSpace(name+" "+cmd.usage), cmd.help)
	}
	return nil
}

func (c *console) player(ctx context.Context, _ []string) error {
	p, err := c.engine.Player(ctx)
	if err != nil {
		return err
	}
	c.printf("%s  level %d  xp %d  coins %d  avatar %s\n", p.Name, p.Level, p.XP, p.Coins, p.Avatar)
	if len(p.OwnedSkinIDs) > 0 {
		c.printf("  skins: %s\n", strings.Join(p.OwnedSkinIDs, ", "))
	}
	return nil
}

func (c *console) roster(ctx context.Context, _ []string) error {
	dragons, err := c.engine.Roster(ctx)
	if err != nil {
		return err
	}
	c.printDragons(dragons)
	return nil
}

func (c *console) opponents(ctx context.Context, _ []string) error {
	dragons, err := c.engine.Opponents(ctx)
	if err != nil {
		return err
	}
	c.printDragons(dragons)
	return nil
}

func (c *console) printDragons(dragons []*entities.Dragon) {
	for _, d := range dragons {
		c.printf("%-18s %-26s lv %-3d hp %d/%d  en %d/%d  atk %d  def %d  %s\n",
			d.ID, d.Name, d.Level, d.CurrentHP, d.MaxHP, d.CurrentEnergy, d.MaxEnergy, d.Attack, d.Defense, d.Status)
		if cd := d.Cooldowns; cd.Feed > 0 || cd.Train > 0 || cd.Evolve > 0 {
			c.printf("%18s cooldowns: feed %ds  train %ds  evolve %ds\n", "", cd.Feed, cd.Train, cd.Evolve)
		}
		if len(d.Skills) > 0 {
			names := make([]string, 0, len(d.Skills))
			for _, s := range d.Skills {
				names = append(names, s.ID)
			}
			c.printf("%18s skills: %s\n", "", strings.Join(names, ", "))
		}
	}
}

func (c *console) shop(_ context.Context, _ []string) error {
	for _, item := range c.engine.ShopItems() {
		c.printf("%-24s %-20s %-12s %5d  %s\n", item.ID, item.Name, item.Category, item.Price, item.Description)
	}
	return nil
}

func (c *console) skins(_ context.Context, _ []string) error {
	for _, s := range c.engine.DragonSkins() {
		c.printf("dragon  %-24s %-20s %5d  %s\n", s.ID, s.Name, s.Price, s.Description)
	}
	for _, s := range c.engine.PlayerSkins() {
		c.printf("player  %-24s %-20s %5d  %s\n", s.ID, s.Name, s.Price, s.Description)
	}
	return nil
}

func (c *console) skills(_ context.Context, _ []string) error {
	for _, s := range c.engine.Skills() {
		if s.Hidden {
			continue
		}
		c.printf("%-20s %-20s %-7s energy %-3d cooldown %ds  %s\n", s.ID, s.Name, s.Kind, s.EnergyCost, s.Cooldown, s.Description)
	}
	return nil
}

func (c *console) feed(ctx context.Context, args []string) error {
	_, err := c.engine.Feed(ctx, args[0])
	return err
}

func (c *console) train(ctx context.Context, args []string) error {
	_, err := c.engine.Train(ctx, args[0])
	return err
}

func (c *console) evolve(ctx context.Context, args []string) error {
	_, err := c.engine.Evolve(ctx, args[0])
	return err
}

func (c *console) buy(ctx context.Context, args []string) error {
	_, err := c.engine.BuyItem(ctx, args[0])
	return err
}

func (c *console) gacha(ctx context.Context, _ []string) error {
	_, err := c.engine.RollGacha(ctx)
	return err
}

func (c *console) equip(ctx context.Context, args []string) error {
	_, err := c.engine.EquipDragonSkin(ctx, args[0], optional(args, 1))
	return err
}

func (c *console) avatar(ctx context.Context, args []string) error {
	_, err := c.engine.EquipPlayerSkin(ctx, optional(args, 0))
	return err
}

func optional(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}

func (c *console) fight(ctx context.Context, args []string) error {
	state, err := c.engine.StartBattle(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	c.battleID = state.ID
	c.printBattle(state, 0)
	return nil
}

func (c *console) attack(ctx context.Context, _ []string) error {
	return c.act(ctx, entities.BattleActionAttack, "")
}

func (c *console) skill(ctx context.Context, args []string) error {
	return c.act(ctx, entities.BattleActionSkill, args[0])
}

func (c *console) act(ctx context.Context, action entities.BattleAction, skillID string) error {
	if c.battleID == "" {
		return errors.FailedPrecondition("no battle in progress; use fight")
	}
	before, err := c.engine.Battle(ctx, c.battleID)
	if err != nil {
		return err
	}
	state, err := c.engine.PerformAction(ctx, c.battleID, action, skillID)
	if err != nil {
		return err
	}
	c.printBattle(state, len(before.Log))
	if state.IsBattleOver {
		c.battleID = ""
	}
	return nil
}

func (c *console) status(ctx context.Context, _ []string) error {
	if c.battleID == "" {
		return errors.FailedPrecondition("no battle in progress; use fight")
	}
	state, err := c.engine.Battle(ctx, c.battleID)
	if err != nil {
		return err
	}
	c.printBattle(state, 0)
	return nil
}

// printBattle prints the log lines from index from onwards and the
// current standing
func (c *console) printBattle(state *entities.BattleState, from int) {
	for _, line := range state.Log[min(from, len(state.Log)):] {
		c.printf("  %s\n", line)
	}
	c.printf("%s hp %d  en %d  |  %s hp %d  en %d\n",
		state.PlayerDragon.Name, state.PlayerCurrentHP, state.PlayerCurrentEnergy,
		state.OpponentDragon.Name, state.OpponentCurrentHP, state.OpponentCurrentEnergy)
	if state.Result != nil {
		c.printf("%s\n", state.Result.Message)
	}
}

func (c *console) tick(ctx context.Context, _ []string) error {
	return c.engine.Tick(ctx)
}

func (c *console) reset(ctx context.Context, _ []string) error {
	c.battleID = ""
	if err := c.engine.Reset(ctx); err != nil {
		return err
	}
	c.printf("Session reset.\n")
	return nil
}
