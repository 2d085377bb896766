// Package entities provides core data structures for dragon-keeper.
package entities

// Species is the elemental family a dragon belongs to
type Species string

// Dragon species
const (
	SpeciesFire   Species = "Fire"
	SpeciesIce    Species = "Ice"
	SpeciesDark   Species = "Dark"
	SpeciesLight  Species = "Light"
	SpeciesNature Species = "Nature"
)

// Valid reports whether s is a known species
func (s Species) Valid() bool {
	switch s {
	case SpeciesFire, SpeciesIce, SpeciesDark, SpeciesLight, SpeciesNature:
		return true
	default:
		return false
	}
}

// Status is an informational label shown next to a dragon.
// It is never used to gate an operation.
type Status string

// Dragon statuses
const (
	StatusHealthy  Status = "Healthy"
	StatusHungry   Status = "Hungry"
	StatusTired    Status = "Tired"
	StatusInjured  Status = "Injured"
	StatusEvolving Status = "Evolving"
)

// Pool identifies who a dragon belongs to
type Pool string

// Dragon pools
const (
	PoolRoster    Pool = "roster"
	PoolOpponents Pool = "opponents"
)

// Cooldowns holds the remaining seconds before each action can be used again
type Cooldowns struct {
	Feed   int32            `json:"feed"`
	Train  int32            `json:"train"`
	Evolve int32            `json:"evolve"`
	Skill  map[string]int32 `json:"skill,omitempty"`
}

// Clone returns a deep copy of the cooldowns
func (c Cooldowns) Clone() Cooldowns {
	out := c
	out.Skill = make(map[string]int32, len(c.Skill))
	for id, remaining := range c.Skill {
		out.Skill[id] = remaining
	}
	return out
}

// SkillCooldown returns the remaining cooldown for a skill, zero when unset
func (c Cooldowns) SkillCooldown(skillID string) int32 {
	return c.Skill[skillID]
}

// Dragon is a collectible creature owned by the player roster or the opponent pool
type Dragon struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Species         Species   `json:"species"`
	Level           int32     `json:"level"`
	XP              int32     `json:"xp"`
	MaxHP           int32     `json:"max_hp"`
	CurrentHP       int32     `json:"current_hp"`
	Attack          int32     `json:"attack"`
	Defense         int32     `json:"defense"`
	MaxEnergy       int32     `json:"max_energy"`
	CurrentEnergy   int32     `json:"current_energy"`
	Image           string    `json:"image,omitempty"`
	Description     string    `json:"description,omitempty"`
	Status          Status    `json:"status"`
	EvolutionLevel  int32     `json:"evolution_level"`
	NextEvolutionID string    `json:"next_evolution_id,omitempty"`
	Cooldowns       Cooldowns `json:"cooldowns"`
	Skills          []Skill   `json:"skills"`
	EquippedSkinID  string    `json:"equipped_skin_id,omitempty"`
	Pool            Pool      `json:"pool"`
}

// Clone returns a deep copy so callers can replace records wholesale
func (d *Dragon) Clone() *Dragon {
	if d == nil {
		return nil
	}
	out := *d
	out.Cooldowns = d.Cooldowns.Clone()
	out.Skills = make([]Skill, len(d.Skills))
	copy(out.Skills, d.Skills)
	return &out
}

// KnowsSkill reports whether the dragon already has the skill
func (d *Dragon) KnowsSkill(skillID string) bool {
	for _, s := range d.Skills {
		if s.ID == skillID {
			return true
		}
	}
	return false
}

// IsFullHealth reports whether current HP has reached max HP
func (d *Dragon) IsFullHealth() bool {
	return d.CurrentHP >= d.MaxHP
}

// GetID implements core.Entity
func (d *Dragon) GetID() string {
	return d.ID
}

// GetType implements core.Entity
func (d *Dragon) GetType() string {
	return "dragon"
}
