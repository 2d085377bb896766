package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dragon-keeper/internal/redis"
)

func TestConnect(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     *redis.Config
		wantErr bool
	}{
		{name: "nil config", cfg: nil, wantErr: true},
		{name: "single without address", cfg: &redis.Config{Mode: redis.ModeSingle}, wantErr: true},
		{name: "cluster without seeds", cfg: &redis.Config{Mode: redis.ModeCluster}, wantErr: true},
		{name: "failover without master", cfg: &redis.Config{Mode: redis.ModeFailover, Addrs: []string{"localhost:26379"}}, wantErr: true},
		{name: "unknown mode", cfg: &redis.Config{Mode: "mesh", Addrs: []string{"localhost:6379"}}, wantErr: true},
		{name: "single", cfg: &redis.Config{Addrs: []string{"localhost:6379"}}},
		{name: "cluster", cfg: &redis.Config{Mode: redis.ModeCluster, Addrs: []string{"localhost:7000", "localhost:7001"}}},
		{
			name: "failover",
			cfg: &redis.Config{
				Mode:       redis.ModeFailover,
				Addrs:      []string{"localhost:26379"},
				MasterName: "primary",
				Options:    &redis.Options{UseTLS: true},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := redis.Connect(tc.cfg)
			if tc.wantErr {
				assert.Error(t, err)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
			assert.NoError(t, client.Close())
		})
	}
}

func TestSingleClientTalksToServer(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := redis.Connect(&redis.Config{Addrs: []string{mr.Addr()}})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "dragon", "Ignis", 0).Err())

	got, err := mr.Get("dragon")
	require.NoError(t, err)
	assert.Equal(t, "Ignis", got)
}
