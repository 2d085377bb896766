package testutils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dragon-keeper/internal/catalog"
	"github.com/KirkDiggler/dragon-keeper/internal/entities"
	"github.com/KirkDiggler/dragon-keeper/internal/repositories/dragons"
	"github.com/KirkDiggler/dragon-keeper/internal/repositories/players"
)

// TestPlayerID is the player id of the embedded catalog
const TestPlayerID = "player-1"

// Session holds in-memory stores seeded from the embedded catalog
type Session struct {
	Catalog    *catalog.Catalog
	DragonRepo *dragons.InMemoryRepository
	PlayerRepo *players.InMemoryRepository
}

// NewSession seeds fresh in-memory stores from the embedded catalog
func NewSession(t *testing.T) *Session {
	t.Helper()

	cat, err := catalog.Default()
	require.NoError(t, err, "failed to load catalog")

	s := &Session{
		Catalog:    cat,
		DragonRepo: dragons.NewInMemory(),
		PlayerRepo: players.NewInMemory(),
	}

	ctx := context.Background()
	_, err = s.DragonRepo.Reset(ctx, dragons.ResetInput{Pool: entities.PoolRoster, Dragons: cat.StartingRoster()})
	require.NoError(t, err)
	_, err = s.DragonRepo.Reset(ctx, dragons.ResetInput{Pool: entities.PoolOpponents, Dragons: cat.Opponents()})
	require.NoError(t, err)
	_, err = s.PlayerRepo.Save(ctx, players.SaveInput{Player: cat.PlayerTemplate()})
	require.NoError(t, err)

	return s
}

// Dragon loads a dragon or fails the test
func (s *Session) Dragon(t *testing.T, id string) *entities.Dragon {
	t.Helper()
	out, err := s.DragonRepo.Get(context.Background(), dragons.GetInput{ID: id})
	require.NoError(t, err)
	return out.Dragon
}

// UpdateDragon applies fn to a stored dragon and saves it
func (s *Session) UpdateDragon(t *testing.T, id string, fn func(d *entities.Dragon)) {
	t.Helper()
	d := s.Dragon(t, id)
	fn(d)
	_, err := s.DragonRepo.Update(context.Background(), dragons.UpdateInput{Dragon: d})
	require.NoError(t, err)
}

// Roster lists the roster in order
func (s *Session) Roster(t *testing.T) []*entities.Dragon {
	t.Helper()
	out, err := s.DragonRepo.List(context.Background(), dragons.ListInput{Pool: entities.PoolRoster})
	require.NoError(t, err)
	return out.Dragons
}

// Player loads the session player
func (s *Session) Player(t *testing.T) *entities.Player {
	t.Helper()
	out, err := s.PlayerRepo.Get(context.Background(), players.GetInput{ID: TestPlayerID})
	require.NoError(t, err)
	return out.Player
}

// UpdatePlayer applies fn to the session player and saves it
func (s *Session) UpdatePlayer(t *testing.T, fn func(p *entities.Player)) {
	t.Helper()
	p := s.Player(t)
	fn(p)
	_, err := s.PlayerRepo.Save(context.Background(), players.SaveInput{Player: p})
	require.NoError(t, err)
}
