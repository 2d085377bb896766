package engine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dragon-keeper/internal/engine"
	"github.com/KirkDiggler/dragon-keeper/internal/entities"
	"github.com/KirkDiggler/dragon-keeper/internal/errors"
	"github.com/KirkDiggler/dragon-keeper/internal/notify"
	"github.com/KirkDiggler/dragon-keeper/internal/orchestrators/progression"
	"github.com/KirkDiggler/dragon-keeper/internal/pkg/idgen"
	"github.com/KirkDiggler/dragon-keeper/internal/redis"
	"github.com/KirkDiggler/dragon-keeper/internal/testutils"
)

type EngineTestSuite struct {
	suite.Suite
	ctx         context.Context
	redisClient func(t *testing.T) (redis.Client, func())
	cleanup     func()
	roller      *testutils.ScriptedRoller
	engine      *engine.Engine
}

func TestInMemoryEngine(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func TestRedisEngine(t *testing.T) {
	suite.Run(t, &EngineTestSuite{redisClient: testutils.CreateTestRedisClient})
}

func (s *EngineTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.roller = testutils.NewScriptedRoller()
	s.cleanup = func() {}

	cfg := &engine.Config{
		Roller:               s.roller,
		DragonIDs:            idgen.NewSequential("hatched"),
		BattleIDs:            idgen.NewSequential("battle"),
		SchedulerInterval:    10 * time.Millisecond,
		RequireSkinOwnership: true,
	}
	if s.redisClient != nil {
		cfg.RedisClient, s.cleanup = s.redisClient(s.T())
		cfg.KeyPrefix = "test:"
	}

	e, err := engine.New(s.ctx, cfg)
	s.Require().NoError(err)
	s.engine = e
}

func (s *EngineTestSuite) TearDownTest() {
	s.engine.Stop()
	s.cleanup()
}

func (s *EngineTestSuite) dragon(id string) *entities.Dragon {
	roster, err := s.engine.Roster(s.ctx)
	s.Require().NoError(err)
	for _, d := range roster {
		if d.ID == id {
			return d
		}
	}
	s.FailNow("dragon not in roster", id)
	return nil
}

func (s *EngineTestSuite) TestSeededSession() {
	player, err := s.engine.Player(s.ctx)
	s.Require().NoError(err)
	s.Equal("Dragon Master", player.Name)
	s.Equal(int32(1000), player.Coins)

	roster, err := s.engine.Roster(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(roster, 3)
	s.Equal("dragon-1", roster[0].ID)

	opponents, err := s.engine.Opponents(s.ctx)
	s.Require().NoError(err)
	s.Len(opponents, 2)

	s.NotEmpty(s.engine.ShopItems())
	s.Len(s.engine.DragonSkins(), 2)
	s.Len(s.engine.PlayerSkins(), 2)
	s.Len(s.engine.Skills(), 5)
}

func (s *EngineTestSuite) TestProgressionFlow() {
	fed, err := s.engine.Feed(s.ctx, "dragon-1")
	s.Require().NoError(err)
	s.Equal(int32(100), fed.Dragon.CurrentHP)

	_, err = s.engine.Feed(s.ctx, "dragon-1")
	s.Equal(progression.ReasonOnCooldown, progression.RejectionReason(err))

	_, err = s.engine.Train(s.ctx, "dragon-2")
	s.Require().NoError(err)

	_, err = s.engine.Evolve(s.ctx, "dragon-1")
	s.Equal(progression.ReasonLevelTooLow, progression.RejectionReason(err))

	bought, err := s.engine.BuyItem(s.ctx, "item-egg-fire")
	s.Require().NoError(err)
	s.Equal("hatched-1", bought.Dragon.ID)

	s.roller.Queue(3)
	rolled, err := s.engine.RollGacha(s.ctx)
	s.Require().NoError(err)
	s.Equal("Storm Wyrm (Gacha)", rolled.Dragon.Name)

	_, err = s.engine.BuyItem(s.ctx, "player-skin-mage")
	s.Require().NoError(err)
	equipped, err := s.engine.EquipPlayerSkin(s.ctx, "player-skin-mage")
	s.Require().NoError(err)
	s.Equal("/avatars/dragon-mage.png", equipped.Player.Avatar)

	_, err = s.engine.EquipDragonSkin(s.ctx, "dragon-1", "skin-ignis-golden")
	s.Equal(progression.ReasonSkinNotOwned, progression.RejectionReason(err))

	player, err := s.engine.Player(s.ctx)
	s.Require().NoError(err)
	s.Equal(int32(1000-500-250-220), player.Coins)

	roster, err := s.engine.Roster(s.ctx)
	s.Require().NoError(err)
	s.Len(roster, 5)
}

func (s *EngineTestSuite) TestBattleFlow() {
	state, err := s.engine.StartBattle(s.ctx, "dragon-3", "opponent-1")
	s.Require().NoError(err)
	s.Equal("battle-1", state.ID)

	// Shadowfang (25 atk) deals 20 a turn to Gargoyle's 90 HP
	s.roller.Fallback = 1
	for !state.IsBattleOver {
		state, err = s.engine.PerformAction(s.ctx, state.ID, entities.BattleActionAttack, "")
		s.Require().NoError(err)
	}
	s.Equal(entities.WinnerPlayer, state.Result.Winner)

	stored, err := s.engine.Battle(s.ctx, state.ID)
	s.Require().NoError(err)
	s.True(stored.IsBattleOver)

	player, err := s.engine.Player(s.ctx)
	s.Require().NoError(err)
	s.Equal(int32(1140), player.Coins)

	_, err = s.engine.StartBattle(s.ctx, "dragon-3", "missing")
	s.True(errors.IsInvalidArgument(err))
}

func (s *EngineTestSuite) TestReset() {
	_, err := s.engine.BuyItem(s.ctx, "item-egg-fire")
	s.Require().NoError(err)
	state, err := s.engine.StartBattle(s.ctx, "dragon-1", "opponent-1")
	s.Require().NoError(err)

	s.Require().NoError(s.engine.Reset(s.ctx))

	roster, err := s.engine.Roster(s.ctx)
	s.Require().NoError(err)
	s.Len(roster, 3)

	player, err := s.engine.Player(s.ctx)
	s.Require().NoError(err)
	s.Equal(int32(1000), player.Coins)

	_, err = s.engine.Battle(s.ctx, state.ID)
	s.True(errors.IsNotFound(err))
}

func (s *EngineTestSuite) TestManualTick() {
	s.Require().NoError(s.engine.Tick(s.ctx))
	s.Equal(int32(55), s.dragon("dragon-1").CurrentEnergy)
}

func (s *EngineTestSuite) TestSchedulerRegeneratesInBackground() {
	_, err := s.engine.Feed(s.ctx, "dragon-1")
	s.Require().NoError(err)

	s.engine.Start(s.ctx)
	s.engine.Start(s.ctx)

	s.Eventually(func() bool {
		d := s.dragon("dragon-1")
		return d.CurrentEnergy == d.MaxEnergy && d.Cooldowns.Feed == 0
	}, 2*time.Second, 10*time.Millisecond)

	s.engine.Stop()
	s.engine.Stop()
}

func (s *EngineTestSuite) TestConcurrentOperationsWithScheduler() {
	s.engine.Start(s.ctx)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.engine.Feed(s.ctx, "dragon-2")
			_, _ = s.engine.Train(s.ctx, "dragon-2")
			_, _ = s.engine.Roster(s.ctx)
		}()
	}
	wg.Wait()

	d := s.dragon("dragon-2")
	s.GreaterOrEqual(d.XP, int32(100))
	s.Zero(d.XP%20, "trains land whole")
	s.LessOrEqual(d.CurrentHP, d.MaxHP)
}

func (s *EngineTestSuite) TestNotificationsReachSubscribers() {
	recorder := notify.NewRecorder()
	id := s.engine.Subscribe(recorder.Notify)

	_, err := s.engine.Feed(s.ctx, "dragon-1")
	s.Require().NoError(err)

	s.Eventually(func() bool {
		note, ok := recorder.Last()
		return ok && note.Title == "Fed successfully!"
	}, time.Second, 5*time.Millisecond)

	s.Require().NoError(s.engine.Unsubscribe(id))
}

func (s *EngineTestSuite) TestSubscriberCanReadState() {
	coins := make(chan int32, 4)
	id := s.engine.Subscribe(func(ctx context.Context, n notify.Notification) {
		player, err := s.engine.Player(ctx)
		if err == nil {
			coins <- player.Coins
		}
	})
	defer func() { _ = s.engine.Unsubscribe(id) }()

	done := make(chan error, 1)
	go func() {
		_, err := s.engine.BuyItem(s.ctx, "item-egg-fire")
		done <- err
	}()

	select {
	case err := <-done:
		s.Require().NoError(err)
	case <-time.After(2 * time.Second):
		s.FailNow("BuyItem did not return while a subscriber read the player")
	}

	select {
	case got := <-coins:
		s.Equal(int32(500), got)
	case <-time.After(time.Second):
		s.Fail("subscriber never ran")
	}
}

func TestCustomNotifierAndBus(t *testing.T) {
	bus := events.NewBus()
	recorder := notify.NewRecorder()

	e, err := engine.New(context.Background(), &engine.Config{
		EventBus: bus,
		Notifier: recorder,
	})
	require.NoError(t, err)

	_, err = e.Feed(context.Background(), "nope")
	assert.True(t, errors.IsNotFound(err))

	note, ok := recorder.Last()
	require.True(t, ok)
	assert.Equal(t, notify.SeverityDestructive, note.Severity)
}
