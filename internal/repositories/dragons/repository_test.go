package dragons_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dragon-keeper/internal/entities"
	"github.com/KirkDiggler/dragon-keeper/internal/errors"
	"github.com/KirkDiggler/dragon-keeper/internal/repositories/dragons"
	"github.com/KirkDiggler/dragon-keeper/internal/testutils"
)

type RepositoryTestSuite struct {
	suite.Suite
	newRepo func() (dragons.Repository, func())
	repo    dragons.Repository
	cleanup func()
	ctx     context.Context
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() (dragons.Repository, func()) {
			return dragons.NewInMemory(), func() {}
		},
	})
}

func TestRedisRepository(t *testing.T) {
	s := &RepositoryTestSuite{}
	s.newRepo = func() (dragons.Repository, func()) {
		client, cleanup := testutils.CreateTestRedisClient(t)
		repo, err := dragons.NewRedis(&dragons.RedisConfig{Client: client, KeyPrefix: "test:"})
		if err != nil {
			t.Fatalf("failed to create redis repository: %v", err)
		}
		return repo, cleanup
	}
	suite.Run(t, s)
}

func (s *RepositoryTestSuite) SetupTest() {
	s.repo, s.cleanup = s.newRepo()
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func newDragon(id string, pool entities.Pool) *entities.Dragon {
	return &entities.Dragon{
		ID:            id,
		Name:          "Dragon " + id,
		Species:       entities.SpeciesFire,
		Level:         1,
		MaxHP:         70,
		CurrentHP:     70,
		Attack:        15,
		Defense:       10,
		MaxEnergy:     100,
		CurrentEnergy: 50,
		Status:        entities.StatusHealthy,
		Cooldowns:     entities.Cooldowns{Skill: map[string]int32{"skill-fireball": 3}},
		Skills:        []entities.Skill{{ID: "skill-fireball", Kind: entities.SkillKindAttack, Damage: 30}},
		Pool:          pool,
	}
}

func (s *RepositoryTestSuite) TestCreateAndGet() {
	_, err := s.repo.Create(s.ctx, dragons.CreateInput{Dragon: newDragon("d1", entities.PoolRoster)})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, dragons.GetInput{ID: "d1"})
	s.Require().NoError(err)
	s.Equal("Dragon d1", out.Dragon.Name)
	s.Equal(int32(3), out.Dragon.Cooldowns.SkillCooldown("skill-fireball"))
	s.Require().Len(out.Dragon.Skills, 1)
	s.Equal(int32(30), out.Dragon.Skills[0].Damage)
}

func (s *RepositoryTestSuite) TestCreateValidation() {
	testCases := []struct {
		name   string
		dragon *entities.Dragon
		check  func(error) bool
	}{
		{name: "nil dragon", dragon: nil, check: errors.IsInvalidArgument},
		{name: "empty id", dragon: newDragon("", entities.PoolRoster), check: errors.IsInvalidArgument},
		{name: "unknown pool", dragon: newDragon("d1", "graveyard"), check: errors.IsInvalidArgument},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.repo.Create(s.ctx, dragons.CreateInput{Dragon: tc.dragon})
			s.Require().Error(err)
			s.True(tc.check(err))
		})
	}
}

func (s *RepositoryTestSuite) TestCreateDuplicate() {
	_, err := s.repo.Create(s.ctx, dragons.CreateInput{Dragon: newDragon("d1", entities.PoolRoster)})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, dragons.CreateInput{Dragon: newDragon("d1", entities.PoolOpponents)})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func (s *RepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, dragons.GetInput{ID: "missing"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestListKeepsInsertionOrderPerPool() {
	for _, id := range []string{"d3", "d1", "d2"} {
		_, err := s.repo.Create(s.ctx, dragons.CreateInput{Dragon: newDragon(id, entities.PoolRoster)})
		s.Require().NoError(err)
	}
	_, err := s.repo.Create(s.ctx, dragons.CreateInput{Dragon: newDragon("o1", entities.PoolOpponents)})
	s.Require().NoError(err)

	roster, err := s.repo.List(s.ctx, dragons.ListInput{Pool: entities.PoolRoster})
	s.Require().NoError(err)
	s.Require().Len(roster.Dragons, 3)
	s.Equal("d3", roster.Dragons[0].ID)
	s.Equal("d1", roster.Dragons[1].ID)
	s.Equal("d2", roster.Dragons[2].ID)

	opponents, err := s.repo.List(s.ctx, dragons.ListInput{Pool: entities.PoolOpponents})
	s.Require().NoError(err)
	s.Require().Len(opponents.Dragons, 1)
	s.Equal("o1", opponents.Dragons[0].ID)
}

func (s *RepositoryTestSuite) TestListEmptyPool() {
	out, err := s.repo.List(s.ctx, dragons.ListInput{Pool: entities.PoolOpponents})
	s.Require().NoError(err)
	s.Empty(out.Dragons)
}

func (s *RepositoryTestSuite) TestUpdate() {
	_, err := s.repo.Create(s.ctx, dragons.CreateInput{Dragon: newDragon("d1", entities.PoolRoster)})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, dragons.GetInput{ID: "d1"})
	s.Require().NoError(err)
	got.Dragon.CurrentHP = 10
	got.Dragon.Cooldowns.Feed = 10

	_, err = s.repo.Update(s.ctx, dragons.UpdateInput{Dragon: got.Dragon})
	s.Require().NoError(err)

	again, err := s.repo.Get(s.ctx, dragons.GetInput{ID: "d1"})
	s.Require().NoError(err)
	s.Equal(int32(10), again.Dragon.CurrentHP)
	s.Equal(int32(10), again.Dragon.Cooldowns.Feed)

	s.Run("missing dragon", func() {
		_, err := s.repo.Update(s.ctx, dragons.UpdateInput{Dragon: newDragon("nope", entities.PoolRoster)})
		s.True(errors.IsNotFound(err))
	})

	s.Run("pool change rejected", func() {
		moved := again.Dragon.Clone()
		moved.Pool = entities.PoolOpponents
		_, err := s.repo.Update(s.ctx, dragons.UpdateInput{Dragon: moved})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *RepositoryTestSuite) TestReturnedRecordsAreCopies() {
	_, err := s.repo.Create(s.ctx, dragons.CreateInput{Dragon: newDragon("d1", entities.PoolRoster)})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, dragons.GetInput{ID: "d1"})
	s.Require().NoError(err)
	got.Dragon.CurrentHP = 1
	got.Dragon.Cooldowns.Skill["skill-fireball"] = 99

	again, err := s.repo.Get(s.ctx, dragons.GetInput{ID: "d1"})
	s.Require().NoError(err)
	s.Equal(int32(70), again.Dragon.CurrentHP)
	s.Equal(int32(3), again.Dragon.Cooldowns.SkillCooldown("skill-fireball"))
}

func (s *RepositoryTestSuite) TestReplaceKeepsPosition() {
	for _, id := range []string{"d1", "d2", "d3"} {
		_, err := s.repo.Create(s.ctx, dragons.CreateInput{Dragon: newDragon(id, entities.PoolRoster)})
		s.Require().NoError(err)
	}

	evolved := newDragon("d2-evolved", entities.PoolRoster)
	evolved.Name = "Dragon d2 Prime"
	_, err := s.repo.Replace(s.ctx, dragons.ReplaceInput{PreviousID: "d2", Dragon: evolved})
	s.Require().NoError(err)

	roster, err := s.repo.List(s.ctx, dragons.ListInput{Pool: entities.PoolRoster})
	s.Require().NoError(err)
	s.Require().Len(roster.Dragons, 3)
	s.Equal("d1", roster.Dragons[0].ID)
	s.Equal("d2-evolved", roster.Dragons[1].ID)
	s.Equal("Dragon d2 Prime", roster.Dragons[1].Name)
	s.Equal("d3", roster.Dragons[2].ID)

	_, err = s.repo.Get(s.ctx, dragons.GetInput{ID: "d2"})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestReplaceErrors() {
	for _, id := range []string{"d1", "d2"} {
		_, err := s.repo.Create(s.ctx, dragons.CreateInput{Dragon: newDragon(id, entities.PoolRoster)})
		s.Require().NoError(err)
	}

	s.Run("previous missing", func() {
		_, err := s.repo.Replace(s.ctx, dragons.ReplaceInput{
			PreviousID: "missing",
			Dragon:     newDragon("new", entities.PoolRoster),
		})
		s.True(errors.IsNotFound(err))
	})

	s.Run("new id taken", func() {
		_, err := s.repo.Replace(s.ctx, dragons.ReplaceInput{
			PreviousID: "d1",
			Dragon:     newDragon("d2", entities.PoolRoster),
		})
		s.True(errors.IsAlreadyExists(err))
	})
}

func (s *RepositoryTestSuite) TestResetReplacesPool() {
	_, err := s.repo.Create(s.ctx, dragons.CreateInput{Dragon: newDragon("old", entities.PoolRoster)})
	s.Require().NoError(err)
	_, err = s.repo.Create(s.ctx, dragons.CreateInput{Dragon: newDragon("o1", entities.PoolOpponents)})
	s.Require().NoError(err)

	out, err := s.repo.Reset(s.ctx, dragons.ResetInput{
		Pool:    entities.PoolRoster,
		Dragons: []*entities.Dragon{newDragon("a", entities.PoolRoster), newDragon("b", entities.PoolRoster)},
	})
	s.Require().NoError(err)
	s.Equal(2, out.Count)

	roster, err := s.repo.List(s.ctx, dragons.ListInput{Pool: entities.PoolRoster})
	s.Require().NoError(err)
	s.Require().Len(roster.Dragons, 2)
	s.Equal("a", roster.Dragons[0].ID)
	s.Equal("b", roster.Dragons[1].ID)

	_, err = s.repo.Get(s.ctx, dragons.GetInput{ID: "old"})
	s.True(errors.IsNotFound(err))

	opponents, err := s.repo.List(s.ctx, dragons.ListInput{Pool: entities.PoolOpponents})
	s.Require().NoError(err)
	s.Len(opponents.Dragons, 1)
}
