package battles_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dragon-keeper/internal/entities"
	"github.com/KirkDiggler/dragon-keeper/internal/errors"
	"github.com/KirkDiggler/dragon-keeper/internal/repositories/battles"
	"github.com/KirkDiggler/dragon-keeper/internal/testutils"
)

type RepositoryTestSuite struct {
	suite.Suite
	newRepo func() (battles.Repository, func())
	repo    battles.Repository
	cleanup func()
	ctx     context.Context
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() (battles.Repository, func()) {
			return battles.NewInMemory(), func() {}
		},
	})
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() (battles.Repository, func()) {
			client, cleanup := testutils.CreateTestRedisClient(t)
			repo, err := battles.NewRedis(&battles.RedisConfig{Client: client, KeyPrefix: "test:"})
			if err != nil {
				t.Fatalf("failed to create redis repository: %v", err)
			}
			return repo, cleanup
		},
	})
}

func (s *RepositoryTestSuite) SetupTest() {
	s.repo, s.cleanup = s.newRepo()
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func newBattle(id string) *entities.BattleState {
	return &entities.BattleState{
		ID:                  id,
		PlayerDragon:        &entities.Dragon{ID: "dragon-1", Name: "Ignis", MaxHP: 100, Pool: entities.PoolRoster},
		OpponentDragon:      &entities.Dragon{ID: "opponent-1", Name: "Gargoyle", MaxHP: 90, Pool: entities.PoolOpponents},
		PlayerCurrentHP:     90,
		OpponentCurrentHP:   90,
		PlayerCurrentEnergy: 50,
		Turn:                1,
		Log:                 []string{"Battle started"},
		StartedAt:           time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *RepositoryTestSuite) TestSaveAndGet() {
	_, err := s.repo.Save(s.ctx, &battles.SaveInput{Battle: newBattle("battle-1")})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, &battles.GetInput{BattleID: "battle-1"})
	s.Require().NoError(err)
	s.Equal("battle-1", out.Battle.ID)
	s.Equal("Ignis", out.Battle.PlayerDragon.Name)
	s.Equal("Gargoyle", out.Battle.OpponentDragon.Name)
	s.Equal(int32(90), out.Battle.OpponentCurrentHP)
	s.Equal([]string{"Battle started"}, out.Battle.Log)
	s.True(out.Battle.StartedAt.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
	s.Nil(out.Battle.Result)
}

func (s *RepositoryTestSuite) TestSaveOverwritesWithResult() {
	b := newBattle("battle-1")
	_, err := s.repo.Save(s.ctx, &battles.SaveInput{Battle: b})
	s.Require().NoError(err)

	b.IsBattleOver = true
	b.Result = &entities.BattleResult{Winner: entities.WinnerPlayer, RewardCoins: 140, RewardXP: 70}
	_, err = s.repo.Save(s.ctx, &battles.SaveInput{Battle: b})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, &battles.GetInput{BattleID: "battle-1"})
	s.Require().NoError(err)
	s.True(out.Battle.IsBattleOver)
	s.Require().NotNil(out.Battle.Result)
	s.Equal(entities.WinnerPlayer, out.Battle.Result.Winner)
	s.Equal(int32(140), out.Battle.Result.RewardCoins)
}

func (s *RepositoryTestSuite) TestDelete() {
	_, err := s.repo.Save(s.ctx, &battles.SaveInput{Battle: newBattle("battle-1")})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, &battles.DeleteInput{BattleID: "battle-1"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, &battles.GetInput{BattleID: "battle-1"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, &battles.DeleteInput{BattleID: "battle-1"})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestClear() {
	for _, id := range []string{"battle-1", "battle-2"} {
		_, err := s.repo.Save(s.ctx, &battles.SaveInput{Battle: newBattle(id)})
		s.Require().NoError(err)
	}

	s.Require().NoError(s.repo.Clear(s.ctx))

	for _, id := range []string{"battle-1", "battle-2"} {
		_, err := s.repo.Get(s.ctx, &battles.GetInput{BattleID: id})
		s.True(errors.IsNotFound(err))
	}
}

func (s *RepositoryTestSuite) TestValidation() {
	testCases := []struct {
		name string
		call func() error
	}{
		{
			name: "nil save input",
			call: func() error { _, err := s.repo.Save(s.ctx, nil); return err },
		},
		{
			name: "nil battle",
			call: func() error { _, err := s.repo.Save(s.ctx, &battles.SaveInput{}); return err },
		},
		{
			name: "empty battle id",
			call: func() error {
				_, err := s.repo.Save(s.ctx, &battles.SaveInput{Battle: &entities.BattleState{}})
				return err
			},
		},
		{
			name: "empty get id",
			call: func() error { _, err := s.repo.Get(s.ctx, &battles.GetInput{}); return err },
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.call()
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
		})
	}
}
