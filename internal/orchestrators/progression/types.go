package progression

import "github.com/KirkDiggler/dragon-keeper/internal/entities"

// FeedInput defines the request for feeding a dragon
type FeedInput struct {
	DragonID string
}

// FeedOutput defines the response for feeding a dragon
type FeedOutput struct {
	Dragon *entities.Dragon
}

// TrainInput defines the request for training a dragon
type TrainInput struct {
	DragonID string
}

// TrainOutput defines the response for training a dragon
type TrainOutput struct {
	Dragon          *entities.Dragon
	Player          *entities.Player
	LeveledUp       bool
	PlayerLeveledUp bool
}

// EvolveInput defines the request for evolving a dragon
type EvolveInput struct {
	DragonID string
}

// EvolveOutput defines the response for evolving a dragon
type EvolveOutput struct {
	// Dragon is the evolved form, stored in place of PreviousID
	Dragon     *entities.Dragon
	PreviousID string
	Player     *entities.Player
}

// BuyItemInput defines the request for buying a shop item
type BuyItemInput struct {
	ItemID string
}

// BuyItemOutput defines the response for buying a shop item
type BuyItemOutput struct {
	Item   *entities.ShopItem
	Player *entities.Player
	// Dragon is the hatched dragon for eggs or the dragon that learned the
	// skill for skill items; nil otherwise
	Dragon *entities.Dragon
}

// RollGachaInput defines the request for a gacha roll
type RollGachaInput struct{}

// RollGachaOutput defines the response for a gacha roll
type RollGachaOutput struct {
	Dragon *entities.Dragon
	Player *entities.Player
}

// EquipDragonSkinInput defines the request for equipping a dragon skin.
// An empty SkinID unequips the current skin.
type EquipDragonSkinInput struct {
	DragonID string
	SkinID   string
}

// EquipDragonSkinOutput defines the response for equipping a dragon skin
type EquipDragonSkinOutput struct {
	Dragon *entities.Dragon
}

// EquipPlayerSkinInput defines the request for equipping a player skin.
// An empty SkinID restores the default avatar.
type EquipPlayerSkinInput struct {
	SkinID string
}

// EquipPlayerSkinOutput defines the response for equipping a player skin
type EquipPlayerSkinOutput struct {
	Player *entities.Player
}
