package entities

// SkillKind describes what a skill does when used
type SkillKind string

// Skill kinds
const (
	SkillKindAttack SkillKind = "attack"
	SkillKindHeal   SkillKind = "heal"
	SkillKindBuff   SkillKind = "buff"
	SkillKindDebuff SkillKind = "debuff"
)

// Skill is an immutable ability template
type Skill struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Kind        SkillKind `json:"kind"`
	Damage      int32     `json:"damage,omitempty"` // attack skills only
	Heal        int32     `json:"heal,omitempty"`   // heal skills only
	EnergyCost  int32     `json:"energy_cost"`
	Cooldown    int32     `json:"cooldown"` // seconds
	Icon        string    `json:"icon,omitempty"`
	Hidden      bool      `json:"hidden,omitempty"`
}

// ItemCategory groups shop items by the effect they have once bought
type ItemCategory string

// Shop item categories
const (
	ItemCategoryEgg        ItemCategory = "egg"
	ItemCategoryFood       ItemCategory = "food"
	ItemCategorySkill      ItemCategory = "skill"
	ItemCategoryPotion     ItemCategory = "potion"
	ItemCategoryDragonSkin ItemCategory = "dragon_skin"
	ItemCategoryPlayerSkin ItemCategory = "player_skin"
	ItemCategoryGachaRoll  ItemCategory = "gacha_roll"
)

// ItemEffect is the category specific payload of a shop item.
// Only the fields relevant to the item's category are set.
type ItemEffect struct {
	Species       Species `json:"species,omitempty"`
	BaseLevel     int32   `json:"base_level,omitempty"`
	SkillID       string  `json:"skill_id,omitempty"`
	HungerRestore int32   `json:"hunger_restore,omitempty"`
	HPRestore     int32   `json:"hp_restore,omitempty"`
	SkinID        string  `json:"skin_id,omitempty"`
}

// ShopItem is an immutable shop catalog entry
type ShopItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    ItemCategory `json:"category"`
	Price       int32        `json:"price"`
	Image       string       `json:"image,omitempty"`
	Description string       `json:"description,omitempty"`
	Effect      ItemEffect   `json:"effect"`
}

// StatBoost is added to a dragon's stats while a skin is equipped
type StatBoost struct {
	Attack  int32 `json:"attack,omitempty"`
	Defense int32 `json:"defense,omitempty"`
	HP      int32 `json:"hp,omitempty"`
}

// DragonSkin is a cosmetic for dragons, optionally granting a stat boost
type DragonSkin struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Image       string     `json:"image,omitempty"`
	Price       int32      `json:"price"`
	Description string     `json:"description,omitempty"`
	StatBoost   *StatBoost `json:"stat_boost,omitempty"`
}

// PlayerSkin is a cosmetic for the player avatar
type PlayerSkin struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image,omitempty"`
	Price       int32  `json:"price"`
	Description string `json:"description,omitempty"`
}
