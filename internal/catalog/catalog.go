// Package catalog provides the read-only seed data a dragon-keeper session starts from
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/dragon-keeper/internal/entities"
	"github.com/KirkDiggler/dragon-keeper/internal/errors"
)

//go:embed data/catalog.yaml
var defaultCatalogYAML []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Catalog holds every template the engine works with. All accessors return
// copies; the catalog itself never changes after Load.
type Catalog struct {
	player      entities.Player
	skills      []entities.Skill
	skillIndex  map[string]int
	dragons     []*entities.Dragon
	opponents   []*entities.Dragon
	gachaPool   []*entities.Dragon
	shopItems   []*entities.ShopItem
	dragonSkins []*entities.DragonSkin
	playerSkins []*entities.PlayerSkin
}

// Default returns the catalog embedded in the binary
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Load(bytes.NewReader(defaultCatalogYAML))
	})
	return defaultCatalog, defaultErr
}

// Load decodes and validates a catalog document
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode catalog")
	}

	if err := doc.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid catalog")
	}

	c := &Catalog{
		player: entities.Player{
			ID:     doc.Player.ID,
			Name:   doc.Player.Name,
			Avatar: doc.Player.Avatar,
			Level:  doc.Player.Level,
			XP:     doc.Player.XP,
			Coins:  doc.Player.Coins,
		},
		skillIndex: make(map[string]int, len(doc.Skills)),
	}

	for i, s := range doc.Skills {
		c.skills = append(c.skills, s.toEntity())
		c.skillIndex[s.ID] = i
	}

	c.dragons = c.buildDragons(doc.Dragons, entities.PoolRoster)
	c.opponents = c.buildDragons(doc.Opponents, entities.PoolOpponents)
	c.gachaPool = c.buildDragons(doc.GachaPool, entities.PoolRoster)

	for _, item := range doc.ShopItems {
		c.shopItems = append(c.shopItems, item.toEntity())
	}
	for _, skin := range doc.DragonSkins {
		c.dragonSkins = append(c.dragonSkins, skin.toEntity())
	}
	for _, skin := range doc.PlayerSkins {
		c.playerSkins = append(c.playerSkins, skin.toEntity())
	}

	return c, nil
}

func (c *Catalog) buildDragons(docs []dragonDoc, pool entities.Pool) []*entities.Dragon {
	out := make([]*entities.Dragon, 0, len(docs))
	for _, d := range docs {
		dragon := &entities.Dragon{
			ID:              d.ID,
			Name:            d.Name,
			Species:         entities.Species(d.Species),
			Level:           d.Level,
			XP:              d.XP,
			MaxHP:           d.MaxHP,
			CurrentHP:       d.CurrentHP,
			Attack:          d.Attack,
			Defense:         d.Defense,
			MaxEnergy:       d.MaxEnergy,
			CurrentEnergy:   d.CurrentEnergy,
			Image:           d.Image,
			Description:     d.Description,
			Status:          entities.StatusHealthy,
			EvolutionLevel:  d.EvolutionLevel,
			NextEvolutionID: d.NextEvolutionID,
			Cooldowns:       entities.Cooldowns{Skill: map[string]int32{}},
			Skills:          make([]entities.Skill, 0, len(d.Skills)),
			Pool:            pool,
		}
		for _, skillID := range d.Skills {
			dragon.Skills = append(dragon.Skills, c.skills[c.skillIndex[skillID]])
		}
		out = append(out, dragon)
	}
	return out
}

// PlayerTemplate returns the player every session starts with
func (c *Catalog) PlayerTemplate() *entities.Player {
	return c.player.Clone()
}

// Skills returns every skill template
func (c *Catalog) Skills() []entities.Skill {
	return append([]entities.Skill(nil), c.skills...)
}

// Skill looks up a skill template by id
func (c *Catalog) Skill(id string) (*entities.Skill, error) {
	i, ok := c.skillIndex[id]
	if !ok {
		return nil, errors.NotFoundf("skill %s not found", id).WithMeta("skill_id", id)
	}
	s := c.skills[i]
	return &s, nil
}

// StartingRoster returns fresh copies of the dragons a new player owns
func (c *Catalog) StartingRoster() []*entities.Dragon {
	return cloneDragons(c.dragons)
}

// Opponents returns fresh copies of the opponent pool
func (c *Catalog) Opponents() []*entities.Dragon {
	return cloneDragons(c.opponents)
}

// GachaPool returns the templates a gacha roll picks from
func (c *Catalog) GachaPool() []*entities.Dragon {
	return cloneDragons(c.gachaPool)
}

// ShopItems returns every shop item
func (c *Catalog) ShopItems() []*entities.ShopItem {
	out := make([]*entities.ShopItem, 0, len(c.shopItems))
	for _, item := range c.shopItems {
		i := *item
		out = append(out, &i)
	}
	return out
}

// ShopItem looks up a shop item by id
func (c *Catalog) ShopItem(id string) (*entities.ShopItem, error) {
	for _, item := range c.shopItems {
		if item.ID == id {
			i := *item
			return &i, nil
		}
	}
	return nil, errors.NotFoundf("shop item %s not found", id).WithMeta("item_id", id)
}

// DragonSkins returns every dragon skin
func (c *Catalog) DragonSkins() []*entities.DragonSkin {
	out := make([]*entities.DragonSkin, 0, len(c.dragonSkins))
	for _, skin := range c.dragonSkins {
		out = append(out, cloneDragonSkin(skin))
	}
	return out
}

// DragonSkin looks up a dragon skin by id
func (c *Catalog) DragonSkin(id string) (*entities.DragonSkin, error) {
	for _, skin := range c.dragonSkins {
		if skin.ID == id {
			return cloneDragonSkin(skin), nil
		}
	}
	return nil, errors.NotFoundf("dragon skin %s not found", id).WithMeta("skin_id", id)
}

// PlayerSkins returns every player skin
func (c *Catalog) PlayerSkins() []*entities.PlayerSkin {
	out := make([]*entities.PlayerSkin, 0, len(c.playerSkins))
	for _, skin := range c.playerSkins {
		s := *skin
		out = append(out, &s)
	}
	return out
}

// PlayerSkin looks up a player skin by id
func (c *Catalog) PlayerSkin(id string) (*entities.PlayerSkin, error) {
	for _, skin := range c.playerSkins {
		if skin.ID == id {
			s := *skin
			return &s, nil
		}
	}
	return nil, errors.NotFoundf("player skin %s not found", id).WithMeta("skin_id", id)
}

func cloneDragons(in []*entities.Dragon) []*entities.Dragon {
	out := make([]*entities.Dragon, 0, len(in))
	for _, d := range in {
		out = append(out, d.Clone())
	}
	return out
}

func cloneDragonSkin(skin *entities.DragonSkin) *entities.DragonSkin {
	s := *skin
	if skin.StatBoost != nil {
		boost := *skin.StatBoost
		s.StatBoost = &boost
	}
	return &s
}

// String summarizes the catalog for logs
func (c *Catalog) String() string {
	return fmt.Sprintf("catalog(skills=%d dragons=%d opponents=%d gacha=%d items=%d)",
		len(c.skills), len(c.dragons), len(c.opponents), len(c.gachaPool), len(c.shopItems))
}
