package catalog

import (
	"github.com/KirkDiggler/dragon-keeper/internal/entities"
)

// document mirrors the YAML layout of a catalog file. Dragons reference
// skills by id and are resolved against the skills section on load.
type document struct {
	Player      playerDoc       `yaml:"player"`
	Skills      []skillDoc      `yaml:"skills"`
	Dragons     []dragonDoc     `yaml:"dragons"`
	Opponents   []dragonDoc     `yaml:"opponents"`
	GachaPool   []dragonDoc     `yaml:"gacha_pool"`
	ShopItems   []shopItemDoc   `yaml:"shop_items"`
	DragonSkins []dragonSkinDoc `yaml:"dragon_skins"`
	PlayerSkins []playerSkinDoc `yaml:"player_skins"`
}

type playerDoc struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Avatar string `yaml:"avatar"`
	Level  int32  `yaml:"level"`
	XP     int32  `yaml:"xp"`
	Coins  int32  `yaml:"coins"`
}

type skillDoc struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Kind        string `yaml:"kind"`
	Damage      int32  `yaml:"damage"`
	Heal        int32  `yaml:"heal"`
	EnergyCost  int32  `yaml:"energy_cost"`
	Cooldown    int32  `yaml:"cooldown"`
	Icon        string `yaml:"icon"`
	Hidden      bool   `yaml:"hidden"`
}

type dragonDoc struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Species         string   `yaml:"species"`
	Level           int32    `yaml:"level"`
	XP              int32    `yaml:"xp"`
	MaxHP           int32    `yaml:"max_hp"`
	CurrentHP       int32    `yaml:"current_hp"`
	Attack          int32    `yaml:"attack"`
	Defense         int32    `yaml:"defense"`
	MaxEnergy       int32    `yaml:"max_energy"`
	CurrentEnergy   int32    `yaml:"current_energy"`
	Image           string   `yaml:"image"`
	Description     string   `yaml:"description"`
	EvolutionLevel  int32    `yaml:"evolution_level"`
	NextEvolutionID string   `yaml:"next_evolution_id"`
	Skills          []string `yaml:"skills"`
}

type effectDoc struct {
	Species       string `yaml:"species"`
	BaseLevel     int32  `yaml:"base_level"`
	SkillID       string `yaml:"skill_id"`
	HungerRestore int32  `yaml:"hunger_restore"`
	HPRestore     int32  `yaml:"hp_restore"`
	SkinID        string `yaml:"skin_id"`
}

type shopItemDoc struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Category    string    `yaml:"category"`
	Price       int32     `yaml:"price"`
	Image       string    `yaml:"image"`
	Description string    `yaml:"description"`
	Effect      effectDoc `yaml:"effect"`
}

type statBoostDoc struct {
	Attack  int32 `yaml:"attack"`
	Defense int32 `yaml:"defense"`
	HP      int32 `yaml:"hp"`
}

type dragonSkinDoc struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Image       string        `yaml:"image"`
	Price       int32         `yaml:"price"`
	Description string        `yaml:"description"`
	StatBoost   *statBoostDoc `yaml:"stat_boost"`
}

type playerSkinDoc struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Image       string `yaml:"image"`
	Price       int32  `yaml:"price"`
	Description string `yaml:"description"`
}

func (d skillDoc) toEntity() entities.Skill {
	return entities.Skill{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Kind:        entities.SkillKind(d.Kind),
		Damage:      d.Damage,
		Heal:        d.Heal,
		EnergyCost:  d.EnergyCost,
		Cooldown:    d.Cooldown,
		Icon:        d.Icon,
		Hidden:      d.Hidden,
	}
}

func (d shopItemDoc) toEntity() *entities.ShopItem {
	return &entities.ShopItem{
		ID:          d.ID,
		Name:        d.Name,
		Category:    entities.ItemCategory(d.Category),
		Price:       d.Price,
		Image:       d.Image,
		Description: d.Description,
		Effect: entities.ItemEffect{
			Species:       entities.Species(d.Effect.Species),
			BaseLevel:     d.Effect.BaseLevel,
			SkillID:       d.Effect.SkillID,
			HungerRestore: d.Effect.HungerRestore,
			HPRestore:     d.Effect.HPRestore,
			SkinID:        d.Effect.SkinID,
		},
	}
}

func (d dragonSkinDoc) toEntity() *entities.DragonSkin {
	skin := &entities.DragonSkin{
		ID:          d.ID,
		Name:        d.Name,
		Image:       d.Image,
		Price:       d.Price,
		Description: d.Description,
	}
	if d.StatBoost != nil {
		skin.StatBoost = &entities.StatBoost{
			Attack:  d.StatBoost.Attack,
			Defense: d.StatBoost.Defense,
			HP:      d.StatBoost.HP,
		}
	}
	return skin
}

func (d playerSkinDoc) toEntity() *entities.PlayerSkin {
	return &entities.PlayerSkin{
		ID:          d.ID,
		Name:        d.Name,
		Image:       d.Image,
		Price:       d.Price,
		Description: d.Description,
	}
}
