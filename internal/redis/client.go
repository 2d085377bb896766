// Package redis wraps go-redis so session stores can be backed by a single
// node, a cluster or a sentinel-managed primary.
package redis

import (
	"crypto/tls"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Mode selects the redis topology
type Mode string

// Supported topologies
const (
	ModeSingle   Mode = "single"
	ModeCluster  Mode = "cluster"
	ModeFailover Mode = "failover"
)

// Options tunes the connection pool
type Options struct {
	PoolSize        int
	MinIdleConns    int
	ConnMaxIdleTime time.Duration
	MaxRetries      int
	UseTLS          bool
	ReadOnly        bool // cluster replicas only
}

// Config describes how to reach redis
type Config struct {
	Mode Mode
	// Addrs holds the node address for single mode, the seed nodes for
	// cluster mode and the sentinels for failover mode
	Addrs      []string
	MasterName string
	Options    *Options
}

// Connect builds a client for the configured topology. An empty mode is single.
func Connect(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, errors.New("redis: config is required")
	}

	switch cfg.Mode {
	case ModeSingle, "":
		if len(cfg.Addrs) == 0 {
			return nil, errors.New("redis: endpoint is required")
		}
		return NewClient(cfg.Addrs[0], cfg.Options)
	case ModeCluster:
		return NewClusterClient(cfg.Addrs, cfg.Options)
	case ModeFailover:
		return NewFailoverClient(cfg.MasterName, cfg.Addrs, cfg.Options)
	default:
		return nil, errors.New("redis: unknown mode " + string(cfg.Mode))
	}
}

// NewClient creates a client for a single instance. Connections are lazy.
func NewClient(endpoint string, opts *Options) (Client, error) {
	if endpoint == "" {
		return nil, errors.New("redis: endpoint is required")
	}
	if opts == nil {
		opts = &Options{}
	}

	redisOpts := &redis.Options{
		Addr:            endpoint,
		MinIdleConns:    opts.MinIdleConns,
		PoolSize:        opts.PoolSize,
		ConnMaxIdleTime: opts.ConnMaxIdleTime,
		MaxRetries:      opts.MaxRetries,
	}
	if opts.UseTLS {
		redisOpts.TLSConfig = tlsConfig()
	}

	return redis.NewClient(redisOpts), nil
}

// NewClusterClient creates a client for cluster mode
func NewClusterClient(endpoints []string, opts *Options) (Client, error) {
	if len(endpoints) == 0 {
		return nil, errors.New("redis: at least one endpoint is required")
	}
	if opts == nil {
		opts = &Options{}
	}

	clusterOpts := &redis.ClusterOptions{
		Addrs:        endpoints,
		MinIdleConns: opts.MinIdleConns,
		PoolSize:     opts.PoolSize,
		MaxRetries:   opts.MaxRetries,
		ReadOnly:     opts.ReadOnly,
	}
	if opts.UseTLS {
		clusterOpts.TLSConfig = tlsConfig()
	}

	return redis.NewClusterClient(clusterOpts), nil
}

// NewFailoverClient creates a client that follows the sentinel elected primary
func NewFailoverClient(masterName string, sentinelAddrs []string, opts *Options) (Client, error) {
	if masterName == "" {
		return nil, errors.New("redis: master name is required")
	}
	if len(sentinelAddrs) == 0 {
		return nil, errors.New("redis: at least one sentinel address is required")
	}
	if opts == nil {
		opts = &Options{}
	}

	failoverOpts := &redis.FailoverOptions{
		MasterName:    masterName,
		SentinelAddrs: sentinelAddrs,
		MinIdleConns:  opts.MinIdleConns,
		PoolSize:      opts.PoolSize,
		MaxRetries:    opts.MaxRetries,
	}
	if opts.UseTLS {
		failoverOpts.TLSConfig = tlsConfig()
	}

	return redis.NewFailoverClient(failoverOpts), nil
}

func tlsConfig() *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: true, // #nosec G402 self-signed certs in dev clusters
	}
}
