package dragons

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/dragon-keeper/internal/entities"
	"github.com/KirkDiggler/dragon-keeper/internal/errors"
	redisclient "github.com/KirkDiggler/dragon-keeper/internal/redis"
)

const (
	// Key patterns: {prefix}dragon:{id} and {prefix}dragons:{pool}
	dragonKeyPrefix = "dragon:"
	poolKeyPrefix   = "dragons:"
)

// RedisConfig contains configuration for the Redis dragon repository
type RedisConfig struct {
	Client    redisclient.Client
	KeyPrefix string
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	prefix string
}

// NewRedis creates a new Redis-backed dragon repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{
		client: cfg.Client,
		prefix: cfg.KeyPrefix,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateDragon(input.Dragon); err != nil {
		return nil, err
	}

	key := r.dragonKey(input.Dragon.ID)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("dragon with ID %s already exists", input.Dragon.ID)
	}

	data, err := json.Marshal(input.Dragon)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal dragon")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.RPush(ctx, r.poolKey(input.Dragon.Pool), input.Dragon.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create dragon")
	}

	return &CreateOutput{Dragon: input.Dragon.Clone()}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errDragonIDEmpty)
	}

	d, err := r.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetOutput{Dragon: d}, nil
}

func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if !validPool(input.Pool) {
		return nil, errors.InvalidArgument(errPoolInvalid)
	}

	ids, err := r.client.LRange(ctx, r.poolKey(input.Pool), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", input.Pool)
	}
	if len(ids) == 0 {
		return &ListOutput{Dragons: []*entities.Dragon{}}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, r.dragonKey(id))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get dragons")
	}

	out := make([]*entities.Dragon, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Index entry without a record; skip it rather than fail the listing
			continue
		}
		var d entities.Dragon
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal dragon %s", ids[i])
		}
		out = append(out, &d)
	}

	return &ListOutput{Dragons: out}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateDragon(input.Dragon); err != nil {
		return nil, err
	}

	existing, err := r.load(ctx, input.Dragon.ID)
	if err != nil {
		return nil, err
	}
	if existing.Pool != input.Dragon.Pool {
		return nil, errors.InvalidArgumentf("dragon %s cannot move from %s to %s",
			input.Dragon.ID, existing.Pool, input.Dragon.Pool)
	}

	data, err := json.Marshal(input.Dragon)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal dragon")
	}

	if err := r.client.Set(ctx, r.dragonKey(input.Dragon.ID), data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update dragon")
	}

	return &UpdateOutput{Dragon: input.Dragon.Clone()}, nil
}

func (r *redisRepository) Replace(ctx context.Context, input ReplaceInput) (*ReplaceOutput, error) {
	if input.PreviousID == "" {
		return nil, errors.InvalidArgument(errDragonIDEmpty)
	}
	if err := validateDragon(input.Dragon); err != nil {
		return nil, err
	}

	previous, err := r.load(ctx, input.PreviousID)
	if err != nil {
		return nil, err
	}

	if input.Dragon.ID != input.PreviousID {
		exists, err := r.client.Exists(ctx, r.dragonKey(input.Dragon.ID)).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to check existence")
		}
		if exists > 0 {
			return nil, errors.AlreadyExistsf("dragon with ID %s already exists", input.Dragon.ID)
		}
	}

	poolKey := r.poolKey(previous.Pool)
	ids, err := r.client.LRange(ctx, poolKey, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", previous.Pool)
	}
	position := -1
	for i, id := range ids {
		if id == input.PreviousID {
			position = i
			break
		}
	}
	if position < 0 {
		return nil, errors.Internalf("dragon %s missing from %s index", input.PreviousID, previous.Pool)
	}

	replacement := input.Dragon.Clone()
	replacement.Pool = previous.Pool

	data, err := json.Marshal(replacement)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal dragon")
	}

	pipe := r.client.TxPipeline()
	if replacement.ID != input.PreviousID {
		pipe.Del(ctx, r.dragonKey(input.PreviousID))
	}
	pipe.Set(ctx, r.dragonKey(replacement.ID), data, 0)
	pipe.LSet(ctx, poolKey, int64(position), replacement.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to replace dragon")
	}

	return &ReplaceOutput{Dragon: replacement}, nil
}

func (r *redisRepository) Reset(ctx context.Context, input ResetInput) (*ResetOutput, error) {
	if !validPool(input.Pool) {
		return nil, errors.InvalidArgument(errPoolInvalid)
	}
	for _, d := range input.Dragons {
		if err := validateDragon(d); err != nil {
			return nil, err
		}
	}

	poolKey := r.poolKey(input.Pool)
	oldIDs, err := r.client.LRange(ctx, poolKey, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", input.Pool)
	}

	pipe := r.client.TxPipeline()
	for _, id := range oldIDs {
		pipe.Del(ctx, r.dragonKey(id))
	}
	pipe.Del(ctx, poolKey)

	for _, d := range input.Dragons {
		stored := d.Clone()
		stored.Pool = input.Pool
		data, err := json.Marshal(stored)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal dragon %s", stored.ID)
		}
		pipe.Set(ctx, r.dragonKey(stored.ID), data, 0)
		pipe.RPush(ctx, poolKey, stored.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to reset %s", input.Pool)
	}

	return &ResetOutput{Count: len(input.Dragons)}, nil
}

func (r *redisRepository) load(ctx context.Context, id string) (*entities.Dragon, error) {
	result, err := r.client.Get(ctx, r.dragonKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("dragon with ID %s not found", id).WithMeta("dragon_id", id)
		}
		return nil, errors.Wrapf(err, "failed to get dragon")
	}

	var d entities.Dragon
	if err := json.Unmarshal([]byte(result), &d); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal dragon")
	}

	return &d, nil
}

func (r *redisRepository) dragonKey(id string) string {
	return r.prefix + dragonKeyPrefix + id
}

func (r *redisRepository) poolKey(pool entities.Pool) string {
	return r.prefix + poolKeyPrefix + string(pool)
}
