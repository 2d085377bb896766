// Package scheduler advances time-based dragon state on a fixed cadence
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/dragon-keeper/internal/entities"
	"github.com/KirkDiggler/dragon-keeper/internal/errors"
	"github.com/KirkDiggler/dragon-keeper/internal/repositories/dragons"
)

const (
	// DefaultInterval is one tick per second
	DefaultInterval = time.Second
	// DefaultEnergyRegen is the energy restored per tick
	DefaultEnergyRegen int32 = 5
)

// Config configures the regeneration scheduler
type Config struct {
	DragonRepo  dragons.Repository
	Interval    time.Duration
	EnergyRegen int32
	// Locker, when set, is held for the duration of every tick so ticks
	// never interleave with other writers of the same store
	Locker sync.Locker
	Logger *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.DragonRepo == nil {
		vb.RequiredField("DragonRepo")
	}
	if c.Interval < 0 {
		vb.Field("Interval", "must not be negative")
	}
	if c.EnergyRegen < 0 {
		vb.Field("EnergyRegen", "must not be negative")
	}

	return vb.Build()
}

// Scheduler runs the regeneration tick
type Scheduler struct {
	dragonRepo  dragons.Repository
	interval    time.Duration
	energyRegen int32
	locker      sync.Locker
	logger      *slog.Logger

	stopOnce sync.Once
	stopChan chan struct{}
}

// New creates a scheduler. Zero interval and regen fall back to the defaults.
func New(cfg *Config) (*Scheduler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	regen := cfg.EnergyRegen
	if regen == 0 {
		regen = DefaultEnergyRegen
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		dragonRepo:  cfg.DragonRepo,
		interval:    interval,
		energyRegen: regen,
		locker:      cfg.Locker,
		logger:      logger,
		stopChan:    make(chan struct{}),
	}, nil
}

// Start runs the tick loop until ctx is cancelled or Stop is called.
// Call in a goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.InfoContext(ctx, "regeneration scheduler started",
		"interval", s.interval,
		"energy_regen", s.energyRegen)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "regeneration scheduler stopped by context")
			return
		case <-s.stopChan:
			s.logger.InfoContext(ctx, "regeneration scheduler stopped")
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.logger.ErrorContext(ctx, "regeneration tick failed", "error", err)
			}
		}
	}
}

// Stop ends the tick loop. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// Tick performs one full pass: roster cooldowns and energy, then the
// opponent pool's skill cooldowns
func (s *Scheduler) Tick(ctx context.Context) error {
	if s.locker != nil {
		s.locker.Lock()
		defer s.locker.Unlock()
	}

	if err := s.tickPool(ctx, entities.PoolRoster, func(d *entities.Dragon) bool {
		return Regenerate(d, s.energyRegen)
	}); err != nil {
		return err
	}

	return s.tickPool(ctx, entities.PoolOpponents, func(d *entities.Dragon) bool {
		return decrementSkills(&d.Cooldowns)
	})
}

func (s *Scheduler) tickPool(ctx context.Context, pool entities.Pool, advance func(*entities.Dragon) bool) error {
	out, err := s.dragonRepo.List(ctx, dragons.ListInput{Pool: pool})
	if err != nil {
		return errors.Wrapf(err, "failed to list %s", pool)
	}

	for _, d := range out.Dragons {
		if !advance(d) {
			continue
		}
		if _, err := s.dragonRepo.Update(ctx, dragons.UpdateInput{Dragon: d}); err != nil {
			return errors.Wrapf(err, "failed to update dragon %s", d.ID)
		}
	}

	return nil
}

// Regenerate applies one tick to a roster dragon: every cooldown drops by
// one (floored at zero) and energy rises by regen (capped at max).
// It reports whether anything changed.
func Regenerate(d *entities.Dragon, regen int32) bool {
	changed := false

	for _, cd := range []*int32{&d.Cooldowns.Feed, &d.Cooldowns.Train, &d.Cooldowns.Evolve} {
		if *cd != 0 {
			*cd = max(*cd-1, 0)
			changed = true
		}
	}
	if decrementSkills(&d.Cooldowns) {
		changed = true
	}

	if d.CurrentEnergy < d.MaxEnergy {
		d.CurrentEnergy = min(d.CurrentEnergy+regen, d.MaxEnergy)
		changed = true
	}

	return changed
}

func decrementSkills(c *entities.Cooldowns) bool {
	changed := false
	for id, remaining := range c.Skill {
		if remaining != 0 {
			c.Skill[id] = max(remaining-1, 0)
			changed = true
		}
	}
	return changed
}
