package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the redis surface the repositories use. UniversalClient covers
// single, cluster and failover clients alike.
type Client interface {
	redis.UniversalClient
}

// Pipeliner wraps redis.Pipeliner for batch operations
type Pipeliner interface {
	redis.Pipeliner
}
