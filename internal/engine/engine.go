// Package engine is the single entry point to a dragon-keeper session.
//
// An Engine owns the stores, the catalog, the progression and battle
// orchestrators and the regeneration scheduler. Every mutating operation
// and every scheduler tick runs under one mutex, so callers on different
// goroutines always observe whole operations.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/dragon-keeper/internal/catalog"
	"github.com/KirkDiggler/dragon-keeper/internal/entities"
	"github.com/KirkDiggler/dragon-keeper/internal/errors"
	"github.com/KirkDiggler/dragon-keeper/internal/notify"
	"github.com/KirkDiggler/dragon-keeper/internal/orchestrators/battle"
	"github.com/KirkDiggler/dragon-keeper/internal/orchestrators/progression"
	"github.com/KirkDiggler/dragon-keeper/internal/pkg/clock"
	"github.com/KirkDiggler/dragon-keeper/internal/pkg/idgen"
	"github.com/KirkDiggler/dragon-keeper/internal/redis"
	"github.com/KirkDiggler/dragon-keeper/internal/repositories/battles"
	"github.com/KirkDiggler/dragon-keeper/internal/repositories/dragons"
	"github.com/KirkDiggler/dragon-keeper/internal/repositories/players"
	"github.com/KirkDiggler/dragon-keeper/internal/scheduler"
)

// Config configures an Engine. Only zero values need thought: a nil
// RedisClient keeps the session in memory, a nil Notifier publishes on
// the engine's event bus and a nil Roller uses rpg-toolkit's crypto roller.
type Config struct {
	Catalog     *catalog.Catalog
	RedisClient redis.Client
	KeyPrefix   string
	BattleTTL   time.Duration

	EventBus events.EventBus
	Notifier notify.Notifier
	Roller   dice.Roller
	Clock    clock.Clock

	DragonIDs idgen.Generator
	BattleIDs idgen.Generator

	SchedulerInterval    time.Duration
	EnergyRegen          int32
	MaxTurns             int32
	GachaPrice           int32
	RequireSkinOwnership bool

	Logger *slog.Logger
}

// Engine is one game session
type Engine struct {
	mu sync.Mutex

	catalog    *catalog.Catalog
	dragonRepo dragons.Repository
	playerRepo players.Repository
	battleRepo battles.Repository
	bus        events.EventBus
	notes      *notify.Queue

	progression progression.Service
	battle      battle.Service
	scheduler   *scheduler.Scheduler

	playerID string
	logger   *slog.Logger

	startOnce sync.Once
	running   sync.WaitGroup
}

// New wires a session and seeds it from the catalog
func New(ctx context.Context, cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cat := cfg.Catalog
	if cat == nil {
		var err error
		cat, err = catalog.Default()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load catalog")
		}
	}

	e := &Engine{
		catalog:  cat,
		bus:      cfg.EventBus,
		playerID: cat.PlayerTemplate().ID,
		logger:   logger,
	}
	if e.bus == nil {
		e.bus = events.NewBus()
	}

	if err := e.openStores(cfg); err != nil {
		return nil, err
	}

	notifier := cfg.Notifier
	if notifier == nil {
		busNotifier, err := notify.NewBusNotifier(&notify.BusConfig{EventBus: e.bus, Logger: logger})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create notifier")
		}
		notifier = busNotifier
	}
	e.notes = notify.NewQueue(notifier)

	roller := cfg.Roller
	if roller == nil {
		roller = dice.DefaultRoller
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	dragonIDs := cfg.DragonIDs
	if dragonIDs == nil {
		dragonIDs = idgen.NewPrefixedWithClock("dragon", clk)
	}
	battleIDs := cfg.BattleIDs
	if battleIDs == nil {
		battleIDs = idgen.NewUUID("battle")
	}

	var err error
	e.progression, err = progression.NewOrchestrator(&progression.Config{
		DragonRepo:           e.dragonRepo,
		PlayerRepo:           e.playerRepo,
		Catalog:              cat,
		Notifier:             e.notes,
		IDGenerator:          dragonIDs,
		Roller:               roller,
		PlayerID:             e.playerID,
		GachaPrice:           cfg.GachaPrice,
		RequireSkinOwnership: cfg.RequireSkinOwnership,
		Logger:               logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create progression orchestrator")
	}

	e.battle, err = battle.NewOrchestrator(&battle.Config{
		DragonRepo:  e.dragonRepo,
		PlayerRepo:  e.playerRepo,
		BattleRepo:  e.battleRepo,
		Catalog:     cat,
		Notifier:    e.notes,
		IDGenerator: battleIDs,
		Roller:      roller,
		Clock:       clk,
		PlayerID:    e.playerID,
		MaxTurns:    cfg.MaxTurns,
		Logger:      logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create battle orchestrator")
	}

	e.scheduler, err = scheduler.New(&scheduler.Config{
		DragonRepo:  e.dragonRepo,
		Interval:    cfg.SchedulerInterval,
		EnergyRegen: cfg.EnergyRegen,
		Locker:      &e.mu,
		Logger:      logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scheduler")
	}

	if err := e.Reset(ctx); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *Engine) openStores(cfg *Config) error {
	if cfg.RedisClient == nil {
		e.dragonRepo = dragons.NewInMemory()
		e.playerRepo = players.NewInMemory()
		e.battleRepo = battles.NewInMemory()
		return nil
	}

	var err error
	e.dragonRepo, err = dragons.NewRedis(&dragons.RedisConfig{Client: cfg.RedisClient, KeyPrefix: cfg.KeyPrefix})
	if err != nil {
		return errors.Wrap(err, "failed to create dragon store")
	}
	e.playerRepo, err = players.NewRedis(&players.RedisConfig{Client: cfg.RedisClient, KeyPrefix: cfg.KeyPrefix})
	if err != nil {
		return errors.Wrap(err, "failed to create player store")
	}
	e.battleRepo, err = battles.NewRedis(&battles.RedisConfig{
		Client:    cfg.RedisClient,
		KeyPrefix: cfg.KeyPrefix,
		TTL:       cfg.BattleTTL,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create battle store")
	}
	return nil
}

// Reset reseeds the player, roster and opponents from the catalog and
// drops every battle
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.dragonRepo.Reset(ctx, dragons.ResetInput{
		Pool:    entities.PoolRoster,
		Dragons: e.catalog.StartingRoster(),
	}); err != nil {
		return errors.Wrap(err, "failed to seed roster")
	}
	if _, err := e.dragonRepo.Reset(ctx, dragons.ResetInput{
		Pool:    entities.PoolOpponents,
		Dragons: e.catalog.Opponents(),
	}); err != nil {
		return errors.Wrap(err, "failed to seed opponents")
	}
	if _, err := e.playerRepo.Save(ctx, players.SaveInput{Player: e.catalog.PlayerTemplate()}); err != nil {
		return errors.Wrap(err, "failed to seed player")
	}
	if err := e.battleRepo.Clear(ctx); err != nil {
		return errors.Wrap(err, "failed to clear battles")
	}

	e.logger.Info("Session reset", "player_id", e.playerID)
	return nil
}

// Start runs the regeneration scheduler in the background until ctx is
// cancelled or Stop is called. Later calls do nothing.
func (e *Engine) Start(ctx context.Context) {
	e.startOnce.Do(func() {
		e.running.Add(1)
		go func() {
			defer e.running.Done()
			e.scheduler.Start(ctx)
		}()
	})
}

// Stop halts the scheduler and waits for an in-flight tick to finish
func (e *Engine) Stop() {
	e.scheduler.Stop()
	e.running.Wait()
}

// Tick runs one regeneration pass immediately
func (e *Engine) Tick(ctx context.Context) error {
	return e.scheduler.Tick(ctx)
}

// Subscribe registers fn for every notification and returns the
// subscription id. Notifications are delivered synchronously on the
// goroutine that ran the operation, after it releases the engine lock,
// so fn may read from or call back into the engine.
func (e *Engine) Subscribe(fn func(ctx context.Context, n notify.Notification)) string {
	return notify.Subscribe(e.bus, fn)
}

// Unsubscribe removes a subscription made with Subscribe
func (e *Engine) Unsubscribe(id string) error {
	return e.bus.Unsubscribe(id)
}

// Player returns the session player
func (e *Engine) Player(ctx context.Context) (*entities.Player, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	out, err := e.playerRepo.Get(ctx, players.GetInput{ID: e.playerID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load player")
	}
	return out.Player, nil
}

// Roster returns the player's dragons in roster order
func (e *Engine) Roster(ctx context.Context) ([]*entities.Dragon, error) {
	return e.pool(ctx, entities.PoolRoster)
}

// Opponents returns the dragons available to battle
func (e *Engine) Opponents(ctx context.Context) ([]*entities.Dragon, error) {
	return e.pool(ctx, entities.PoolOpponents)
}

func (e *Engine) pool(ctx context.Context, pool entities.Pool) ([]*entities.Dragon, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	out, err := e.dragonRepo.List(ctx, dragons.ListInput{Pool: pool})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", pool)
	}
	return out.Dragons, nil
}

// ShopItems returns the shop catalog
func (e *Engine) ShopItems() []*entities.ShopItem {
	return e.catalog.ShopItems()
}

// DragonSkins returns the dragon skin catalog
func (e *Engine) DragonSkins() []*entities.DragonSkin {
	return e.catalog.DragonSkins()
}

// PlayerSkins returns the player skin catalog
func (e *Engine) PlayerSkins() []*entities.PlayerSkin {
	return e.catalog.PlayerSkins()
}

// Skills returns the skill catalog
func (e *Engine) Skills() []entities.Skill {
	return e.catalog.Skills()
}

// Feed restores HP to a roster dragon
func (e *Engine) Feed(ctx context.Context, dragonID string) (*progression.FeedOutput, error) {
	defer e.lock(ctx)()
	return e.progression.Feed(ctx, &progression.FeedInput{DragonID: dragonID})
}

// Train grants a roster dragon XP
func (e *Engine) Train(ctx context.Context, dragonID string) (*progression.TrainOutput, error) {
	defer e.lock(ctx)()
	return e.progression.Train(ctx, &progression.TrainInput{DragonID: dragonID})
}

// Evolve replaces a roster dragon with its successor
func (e *Engine) Evolve(ctx context.Context, dragonID string) (*progression.EvolveOutput, error) {
	defer e.lock(ctx)()
	return e.progression.Evolve(ctx, &progression.EvolveInput{DragonID: dragonID})
}

// BuyItem buys a shop item
func (e *Engine) BuyItem(ctx context.Context, itemID string) (*progression.BuyItemOutput, error) {
	defer e.lock(ctx)()
	return e.progression.BuyItem(ctx, &progression.BuyItemInput{ItemID: itemID})
}

// RollGacha buys a random dragon
func (e *Engine) RollGacha(ctx context.Context) (*progression.RollGachaOutput, error) {
	defer e.lock(ctx)()
	return e.progression.RollGacha(ctx, &progression.RollGachaInput{})
}

// EquipDragonSkin equips skinID on a roster dragon; "" unequips
func (e *Engine) EquipDragonSkin(ctx context.Context, dragonID, skinID string) (*progression.EquipDragonSkinOutput, error) {
	defer e.lock(ctx)()
	return e.progression.EquipDragonSkin(ctx, &progression.EquipDragonSkinInput{DragonID: dragonID, SkinID: skinID})
}

// EquipPlayerSkin equips a player skin; "" restores the default avatar
func (e *Engine) EquipPlayerSkin(ctx context.Context, skinID string) (*progression.EquipPlayerSkinOutput, error) {
	defer e.lock(ctx)()
	return e.progression.EquipPlayerSkin(ctx, &progression.EquipPlayerSkinInput{SkinID: skinID})
}

// StartBattle opens a battle between a roster dragon and an opponent
func (e *Engine) StartBattle(ctx context.Context, playerDragonID, opponentDragonID string) (*entities.BattleState, error) {
	defer e.lock(ctx)()

	out, err := e.battle.StartBattle(ctx, &battle.StartBattleInput{
		PlayerDragonID:   playerDragonID,
		OpponentDragonID: opponentDragonID,
	})
	if err != nil {
		return nil, err
	}
	return out.Battle, nil
}

// PerformAction resolves one battle turn
func (e *Engine) PerformAction(ctx context.Context, battleID string, action entities.BattleAction, skillID string) (*entities.BattleState, error) {
	defer e.lock(ctx)()

	out, err := e.battle.PerformAction(ctx, &battle.PerformActionInput{
		BattleID: battleID,
		Action:   action,
		SkillID:  skillID,
	})
	if err != nil {
		return nil, err
	}
	return out.Battle, nil
}

// Battle returns a stored battle
func (e *Engine) Battle(ctx context.Context, battleID string) (*entities.BattleState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	out, err := e.battle.GetBattle(ctx, &battle.GetBattleInput{BattleID: battleID})
	if err != nil {
		return nil, err
	}
	return out.Battle, nil
}

// lock takes the engine lock for a mutating operation. The returned func
// releases it and then delivers the notifications the operation queued.
func (e *Engine) lock(ctx context.Context) func() {
	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		e.notes.Flush(ctx)
	}
}
