// Package config loads dragon-keeper settings from defaults, an optional
// YAML file, DRAGONKEEPER_* environment variables and command line flags,
// in increasing order of precedence.
package config

import (
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/KirkDiggler/dragon-keeper/internal/errors"
)

// EnvPrefix prefixes every environment override, e.g. DRAGONKEEPER_LOG_LEVEL
const EnvPrefix = "DRAGONKEEPER"

// Store backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config is the full application configuration
type Config struct {
	Store     StoreConfig     `mapstructure:"store"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Battle    BattleConfig    `mapstructure:"battle"`
	Gacha     GachaConfig     `mapstructure:"gacha"`
	Shop      ShopConfig      `mapstructure:"shop"`
	Log       LogConfig       `mapstructure:"log"`
}

// StoreConfig selects where session state lives
type StoreConfig struct {
	Backend         string        `mapstructure:"backend"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisMode       string        `mapstructure:"redis_mode"`
	RedisMasterName string        `mapstructure:"redis_master_name"`
	KeyPrefix       string        `mapstructure:"key_prefix"`
	BattleTTL       time.Duration `mapstructure:"battle_ttl"`
}

// SchedulerConfig tunes the regeneration tick
type SchedulerConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	EnergyRegen int32         `mapstructure:"energy_regen"`
}

// BattleConfig tunes battles
type BattleConfig struct {
	MaxTurns int32 `mapstructure:"max_turns"`
}

// GachaConfig tunes the gacha
type GachaConfig struct {
	Price int32 `mapstructure:"price"`
}

// ShopConfig tunes the shop
type ShopConfig struct {
	RequireSkinOwnership bool `mapstructure:"require_skin_ownership"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_mode", "single")
	v.SetDefault("store.redis_master_name", "")
	v.SetDefault("store.key_prefix", "dragonkeeper:")
	v.SetDefault("store.battle_ttl", time.Hour)

	v.SetDefault("scheduler.interval", time.Second)
	v.SetDefault("scheduler.energy_regen", 5)

	v.SetDefault("battle.max_turns", 100)
	v.SetDefault("gacha.price", 250)
	v.SetDefault("shop.require_skin_ownership", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("log.compress", false)
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateEnum("store.backend", c.Store.Backend, []string{BackendMemory, BackendRedis}, vb)
	if c.Store.Backend == BackendRedis {
		errors.ValidateRequired("store.redis_addr", c.Store.RedisAddr, vb)
		errors.ValidateEnum("store.redis_mode", c.Store.RedisMode, []string{"single", "cluster", "failover"}, vb)
		if c.Store.RedisMode == "failover" {
			errors.ValidateRequired("store.redis_master_name", c.Store.RedisMasterName, vb)
		}
	}
	if c.Scheduler.Interval <= 0 {
		vb.Field("scheduler.interval", "must be positive")
	}
	if c.Scheduler.EnergyRegen < 0 {
		vb.Field("scheduler.energy_regen", "must not be negative")
	}
	if c.Battle.MaxTurns <= 0 {
		vb.Field("battle.max_turns", "must be positive")
	}
	if c.Gacha.Price < 0 {
		vb.Field("gacha.price", "must not be negative")
	}
	errors.ValidateEnum("log.level", strings.ToLower(c.Log.Level), []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("log.format", c.Log.Format, []string{"text", "json"}, vb)

	return vb.Build()
}

// RedisAddrs splits the comma separated redis address list
func (s StoreConfig) RedisAddrs() []string {
	var out []string
	for _, addr := range strings.Split(s.RedisAddr, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// Loader layers the configuration sources
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a loader with defaults and environment overrides in place
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// BindFlags maps config keys to flags. Only flags the user set take
// precedence over the file and environment.
func (l *Loader) BindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		flag := flags.Lookup(name)
		if flag == nil {
			return errors.InvalidArgumentf("flag %q is not defined", name).WithMeta("key", key)
		}
		if err := l.v.BindPFlag(key, flag); err != nil {
			return errors.Wrapf(err, "failed to bind flag %s", name)
		}
	}
	return nil
}

// Load reads the optional file at path and returns the validated result
func (l *Loader) Load(path string) (*Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read config file").
				WithMeta("path", path)
		}
	}

	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}

// Watch calls fn with the reloaded configuration whenever the config file
// changes. Invalid edits are passed to onError and otherwise ignored.
func (l *Loader) Watch(fn func(*Config), onError func(error)) {
	l.v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := l.decode()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		fn(cfg)
	})
	l.v.WatchConfig()
}
