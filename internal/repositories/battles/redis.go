package battles

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/dragon-keeper/internal/entities"
	"github.com/KirkDiggler/dragon-keeper/internal/errors"
	redisclient "github.com/KirkDiggler/dragon-keeper/internal/redis"
)

const (
	// Key patterns: {prefix}battle:{id} and {prefix}battles
	battleKeyPrefix = "battle:"
	battleIndexKey  = "battles"
	defaultTTL      = time.Hour
)

// RedisConfig contains configuration for the Redis battle repository
type RedisConfig struct {
	Client    redisclient.Client
	KeyPrefix string
	// TTL bounds how long an abandoned battle is kept; zero uses one hour
	TTL time.Duration
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	if cfg.TTL < 0 {
		return errors.InvalidArgument("ttl cannot be negative")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	prefix string
	ttl    time.Duration
}

// NewRedis creates a new Redis-backed battle repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	return &redisRepository{
		client: cfg.Client,
		prefix: cfg.KeyPrefix,
		ttl:    ttl,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.Battle)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal battle")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.battleKey(input.Battle.ID), data, r.ttl)
	pipe.SAdd(ctx, r.prefix+battleIndexKey, input.Battle.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to save battle")
	}

	return &SaveOutput{Success: true}, nil
}

func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	result, err := r.client.Get(ctx, r.battleKey(input.BattleID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("battle %s not found", input.BattleID).WithMeta("battle_id", input.BattleID)
		}
		return nil, errors.Wrapf(err, "failed to get battle")
	}

	var battle entities.BattleState
	if err := json.Unmarshal([]byte(result), &battle); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal battle")
	}

	return &GetOutput{Battle: &battle}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, r.battleKey(input.BattleID))
	pipe.SRem(ctx, r.prefix+battleIndexKey, input.BattleID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete battle")
	}
	if del.Val() == 0 {
		return nil, errors.NotFoundf("battle %s not found", input.BattleID).WithMeta("battle_id", input.BattleID)
	}

	return &DeleteOutput{Success: true}, nil
}

func (r *redisRepository) Clear(ctx context.Context) error {
	indexKey := r.prefix + battleIndexKey
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return errors.Wrapf(err, "failed to list battles")
	}

	pipe := r.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, r.battleKey(id))
	}
	pipe.Del(ctx, indexKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "failed to clear battles")
	}
	return nil
}

func (r *redisRepository) battleKey(id string) string {
	return r.prefix + battleKeyPrefix + id
}
