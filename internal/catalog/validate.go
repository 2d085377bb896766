package catalog

import (
	"fmt"

	"github.com/KirkDiggler/dragon-keeper/internal/entities"
	"github.com/KirkDiggler/dragon-keeper/internal/errors"
)

var (
	skillKinds = []string{
		string(entities.SkillKindAttack),
		string(entities.SkillKindHeal),
		string(entities.SkillKindBuff),
		string(entities.SkillKindDebuff),
	}
	itemCategories = []string{
		string(entities.ItemCategoryEgg),
		string(entities.ItemCategoryFood),
		string(entities.ItemCategorySkill),
		string(entities.ItemCategoryPotion),
		string(entities.ItemCategoryDragonSkin),
		string(entities.ItemCategoryPlayerSkin),
		string(entities.ItemCategoryGachaRoll),
	}
)

// validate checks that every reference in the document resolves and that
// the templates satisfy the invariants the engine relies on
func (d *document) validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("player.id", d.Player.ID, vb)
	if d.Player.Level < 1 {
		vb.Field("player.level", "must be at least 1")
	}
	if d.Player.Coins < 0 {
		vb.Field("player.coins", "must not be negative")
	}

	skillIDs := make(map[string]bool, len(d.Skills))
	for i, s := range d.Skills {
		field := fmt.Sprintf("skills[%d]", i)
		errors.ValidateRequired(field+".id", s.ID, vb)
		if skillIDs[s.ID] {
			vb.Fieldf(field+".id", "duplicate skill id %s", s.ID)
		}
		skillIDs[s.ID] = true

		errors.ValidateEnum(field+".kind", s.Kind, skillKinds, vb)
		if s.Kind == string(entities.SkillKindAttack) && s.Damage <= 0 {
			vb.Field(field+".damage", "is required for attack skills")
		}
		if s.Kind == string(entities.SkillKindHeal) && s.Heal <= 0 {
			vb.Field(field+".heal", "is required for heal skills")
		}
		if s.EnergyCost < 0 {
			vb.Field(field+".energy_cost", "must not be negative")
		}
		if s.Cooldown < 0 {
			vb.Field(field+".cooldown", "must not be negative")
		}
	}

	dragonIDs := make(map[string]bool)
	validateDragons := func(section string, dragons []dragonDoc) {
		for i, dr := range dragons {
			field := fmt.Sprintf("%s[%d]", section, i)
			errors.ValidateRequired(field+".id", dr.ID, vb)
			if dragonIDs[dr.ID] {
				vb.Fieldf(field+".id", "duplicate dragon id %s", dr.ID)
			}
			dragonIDs[dr.ID] = true

			if !entities.Species(dr.Species).Valid() {
				vb.Fieldf(field+".species", "unknown species %q", dr.Species)
			}
			if dr.Level < 1 {
				vb.Field(field+".level", "must be at least 1")
			}
			if dr.MaxHP <= 0 {
				vb.Field(field+".max_hp", "must be positive")
			}
			if dr.CurrentHP < 0 || dr.CurrentHP > dr.MaxHP {
				vb.Fieldf(field+".current_hp", "must be between 0 and %d", dr.MaxHP)
			}
			if dr.CurrentEnergy < 0 || dr.CurrentEnergy > dr.MaxEnergy {
				vb.Fieldf(field+".current_energy", "must be between 0 and %d", dr.MaxEnergy)
			}

			known := make(map[string]bool, len(dr.Skills))
			for _, skillID := range dr.Skills {
				if !skillIDs[skillID] {
					vb.Fieldf(field+".skills", "unknown skill %s", skillID)
				}
				if known[skillID] {
					vb.Fieldf(field+".skills", "duplicate skill %s", skillID)
				}
				known[skillID] = true
			}
		}
	}
	validateDragons("dragons", d.Dragons)
	validateDragons("opponents", d.Opponents)
	validateDragons("gacha_pool", d.GachaPool)

	if len(d.GachaPool) == 0 {
		vb.Field("gacha_pool", "must not be empty")
	}

	skinIDs := make(map[string]bool)
	for i, skin := range d.DragonSkins {
		field := fmt.Sprintf("dragon_skins[%d]", i)
		errors.ValidateRequired(field+".id", skin.ID, vb)
		skinIDs[skin.ID] = true
	}
	for i, skin := range d.PlayerSkins {
		field := fmt.Sprintf("player_skins[%d]", i)
		errors.ValidateRequired(field+".id", skin.ID, vb)
		skinIDs[skin.ID] = true
	}

	itemIDs := make(map[string]bool, len(d.ShopItems))
	for i, item := range d.ShopItems {
		field := fmt.Sprintf("shop_items[%d]", i)
		errors.ValidateRequired(field+".id", item.ID, vb)
		if itemIDs[item.ID] {
			vb.Fieldf(field+".id", "duplicate item id %s", item.ID)
		}
		itemIDs[item.ID] = true

		errors.ValidateEnum(field+".category", item.Category, itemCategories, vb)
		if item.Price < 0 {
			vb.Field(field+".price", "must not be negative")
		}

		switch entities.ItemCategory(item.Category) {
		case entities.ItemCategoryEgg:
			if !entities.Species(item.Effect.Species).Valid() {
				vb.Fieldf(field+".effect.species", "unknown species %q", item.Effect.Species)
			}
			if item.Effect.BaseLevel < 1 {
				vb.Field(field+".effect.base_level", "must be at least 1")
			}
		case entities.ItemCategorySkill:
			if !skillIDs[item.Effect.SkillID] {
				vb.Fieldf(field+".effect.skill_id", "unknown skill %s", item.Effect.SkillID)
			}
		case entities.ItemCategoryDragonSkin, entities.ItemCategoryPlayerSkin:
			if !skinIDs[item.Effect.SkinID] {
				vb.Fieldf(field+".effect.skin_id", "unknown skin %s", item.Effect.SkinID)
			}
		}
	}

	return vb.Build()
}
