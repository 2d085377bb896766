// Package progression implements the dragon care, shop and cosmetic operations
package progression

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/dragon-keeper/internal/entities"
	"github.com/KirkDiggler/dragon-keeper/internal/errors"
	"github.com/KirkDiggler/dragon-keeper/internal/notify"
	"github.com/KirkDiggler/dragon-keeper/internal/pkg/idgen"
	"github.com/KirkDiggler/dragon-keeper/internal/repositories/dragons"
	"github.com/KirkDiggler/dragon-keeper/internal/repositories/players"
)

// Service defines the progression operations. Every rejection leaves state
// untouched and is returned as an error; FailedPrecondition rejections carry
// a reason readable with RejectionReason.
type Service interface {
	// Feed restores HP to a dragon whose feed cooldown has expired
	Feed(ctx context.Context, input *FeedInput) (*FeedOutput, error)

	// Train grants a dragon XP, levelling it up at level*50 XP
	Train(ctx context.Context, input *TrainInput) (*TrainOutput, error)

	// Evolve replaces a dragon with its successor form
	Evolve(ctx context.Context, input *EvolveInput) (*EvolveOutput, error)

	// BuyItem spends coins on a shop item and applies its effect
	BuyItem(ctx context.Context, input *BuyItemInput) (*BuyItemOutput, error)

	// RollGacha spends coins on a random dragon from the gacha pool
	RollGacha(ctx context.Context, input *RollGachaInput) (*RollGachaOutput, error)

	// EquipDragonSkin swaps a dragon's skin and its stat boost
	EquipDragonSkin(ctx context.Context, input *EquipDragonSkinInput) (*EquipDragonSkinOutput, error)

	// EquipPlayerSkin swaps the player's skin and avatar
	EquipPlayerSkin(ctx context.Context, input *EquipPlayerSkinInput) (*EquipPlayerSkinOutput, error)
}

// Catalog is the read-only template data progression needs
type Catalog interface {
	PlayerTemplate() *entities.Player
	ShopItem(id string) (*entities.ShopItem, error)
	Skill(id string) (*entities.Skill, error)
	GachaPool() []*entities.Dragon
	DragonSkin(id string) (*entities.DragonSkin, error)
	PlayerSkin(id string) (*entities.PlayerSkin, error)
}

// Config holds the dependencies for the progression orchestrator
type Config struct {
	DragonRepo  dragons.Repository
	PlayerRepo  players.Repository
	Catalog     Catalog
	Notifier    notify.Notifier
	IDGenerator idgen.Generator
	Roller      dice.Roller
	PlayerID    string
	GachaPrice  int32
	// RequireSkinOwnership rejects equipping skins the player never bought
	RequireSkinOwnership bool
	Logger               *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.DragonRepo == nil {
		vb.RequiredField("DragonRepo")
	}
	if c.PlayerRepo == nil {
		vb.RequiredField("PlayerRepo")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Notifier == nil {
		vb.RequiredField("Notifier")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	errors.ValidateRequired("PlayerID", c.PlayerID, vb)
	if c.GachaPrice < 0 {
		vb.Field("GachaPrice", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	dragonRepo           dragons.Repository
	playerRepo           players.Repository
	catalog              Catalog
	notifier             notify.Notifier
	idGen                idgen.Generator
	roller               dice.Roller
	playerID             string
	gachaPrice           int32
	requireSkinOwnership bool
	logger               *slog.Logger
}

// NewOrchestrator creates a new progression orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	price := cfg.GachaPrice
	if price == 0 {
		price = DefaultGachaPrice
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &orchestrator{
		dragonRepo:           cfg.DragonRepo,
		playerRepo:           cfg.PlayerRepo,
		catalog:              cfg.Catalog,
		notifier:             cfg.Notifier,
		idGen:                cfg.IDGenerator,
		roller:               cfg.Roller,
		playerID:             cfg.PlayerID,
		gachaPrice:           price,
		requireSkinOwnership: cfg.RequireSkinOwnership,
		logger:               logger,
	}, nil
}

// RejectionReason returns the reason attached to a precondition rejection,
// or "" when err is not one
func RejectionReason(err error) string {
	if !errors.IsFailedPrecondition(err) {
		return ""
	}
	reason, _ := errors.GetMeta(err)["reason"].(string)
	return reason
}

func rejection(reason, format string, args ...interface{}) *errors.Error {
	return errors.FailedPreconditionf(format, args...).WithMeta("reason", reason)
}

func (o *orchestrator) Feed(ctx context.Context, input *FeedInput) (*FeedOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	dragon, err := o.rosterDragon(ctx, input.DragonID)
	if err != nil {
		return nil, err
	}

	if dragon.Cooldowns.Feed > 0 {
		o.notifier.Notify(ctx, notify.Notification{
			Title:       "Cannot feed yet",
			Description: fmt.Sprintf("%s can be fed again in %ds.", dragon.Name, dragon.Cooldowns.Feed),
			Severity:    notify.SeverityWarning,
		})
		return nil, rejection(ReasonOnCooldown, "%s is still digesting", dragon.Name).
			WithMeta("dragon_id", dragon.ID).
			WithMeta("remaining", dragon.Cooldowns.Feed)
	}

	dragon.CurrentHP = min(dragon.CurrentHP+feedHPRestore, dragon.MaxHP)
	if dragon.IsFullHealth() {
		dragon.Status = entities.StatusHealthy
	}
	dragon.Cooldowns.Feed = feedCooldown

	if _, err := o.dragonRepo.Update(ctx, dragons.UpdateInput{Dragon: dragon}); err != nil {
		return nil, errors.Wrapf(err, "failed to save dragon %s", dragon.ID)
	}

	o.logger.Info("Dragon fed",
		"dragon_id", dragon.ID,
		"current_hp", dragon.CurrentHP)

	o.notifier.Notify(ctx, notify.Notification{
		Title:       "Fed successfully!",
		Description: fmt.Sprintf("%s recovered %d HP.", dragon.Name, feedHPRestore),
		Severity:    notify.SeveritySuccess,
	})

	return &FeedOutput{Dragon: dragon}, nil
}

func (o *orchestrator) Train(ctx context.Context, input *TrainInput) (*TrainOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	dragon, err := o.rosterDragon(ctx, input.DragonID)
	if err != nil {
		return nil, err
	}

	if dragon.Cooldowns.Train > 0 {
		o.notifier.Notify(ctx, notify.Notification{
			Title:       "Cannot train yet",
			Description: fmt.Sprintf("%s needs %ds of rest before training.", dragon.Name, dragon.Cooldowns.Train),
			Severity:    notify.SeverityWarning,
		})
		return nil, rejection(ReasonOnCooldown, "%s is still resting", dragon.Name).
			WithMeta("dragon_id", dragon.ID).
			WithMeta("remaining", dragon.Cooldowns.Train)
	}

	player, err := o.player(ctx)
	if err != nil {
		return nil, err
	}

	dragon.XP += trainXPGain
	leveledUp := false
	if dragon.XP >= dragon.Level*trainLevelXPFactor {
		dragon.Level++
		dragon.Attack += trainAttackGain
		dragon.Defense += trainDefenseGain
		leveledUp = true
	}
	dragon.Cooldowns.Train = trainCooldown

	playerLeveledUp := player.GainXP(trainPlayerXPShare)

	if _, err := o.dragonRepo.Update(ctx, dragons.UpdateInput{Dragon: dragon}); err != nil {
		return nil, errors.Wrapf(err, "failed to save dragon %s", dragon.ID)
	}
	if err := o.savePlayer(ctx, player); err != nil {
		return nil, err
	}

	o.logger.Info("Dragon trained",
		"dragon_id", dragon.ID,
		"level", dragon.Level,
		"xp", dragon.XP,
		"leveled_up", leveledUp)

	description := fmt.Sprintf("%s gained %d XP.", dragon.Name, trainXPGain)
	if leveledUp {
		description = fmt.Sprintf("%s reached level %d!", dragon.Name, dragon.Level)
	}
	o.notifier.Notify(ctx, notify.Notification{
		Title:       "Training complete!",
		Description: description,
		Severity:    notify.SeveritySuccess,
	})
	o.notifyPlayerLevel(ctx, player, playerLeveledUp)

	return &TrainOutput{
		Dragon:          dragon,
		Player:          player,
		LeveledUp:       leveledUp,
		PlayerLeveledUp: playerLeveledUp,
	}, nil
}

func (o *orchestrator) Evolve(ctx context.Context, input *EvolveInput) (*EvolveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	dragon, err := o.rosterDragon(ctx, input.DragonID)
	if err != nil {
		return nil, err
	}

	if err := o.checkEvolution(ctx, dragon); err != nil {
		return nil, err
	}

	player, err := o.player(ctx)
	if err != nil {
		return nil, err
	}

	evolved := Evolved(dragon)

	if _, err := o.dragonRepo.Replace(ctx, dragons.ReplaceInput{PreviousID: dragon.ID, Dragon: evolved}); err != nil {
		return nil, errors.Wrapf(err, "failed to evolve dragon %s", dragon.ID)
	}

	playerLeveledUp := player.GainXP(evolvePlayerXPBonus)
	if err := o.savePlayer(ctx, player); err != nil {
		return nil, err
	}

	o.logger.Info("Dragon evolved",
		"previous_id", dragon.ID,
		"dragon_id", evolved.ID,
		"level", evolved.Level)

	o.notifier.Notify(ctx, notify.Notification{
		Title:       "Evolution complete!",
		Description: fmt.Sprintf("%s evolved into %s!", dragon.Name, evolved.Name),
		Severity:    notify.SeveritySuccess,
	})
	o.notifyPlayerLevel(ctx, player, playerLeveledUp)

	return &EvolveOutput{Dragon: evolved, PreviousID: dragon.ID, Player: player}, nil
}

// checkEvolution reports the first unmet evolution requirement, in the
// order cooldown, level, successor
func (o *orchestrator) checkEvolution(ctx context.Context, dragon *entities.Dragon) error {
	var (
		reason      string
		description string
	)

	switch {
	case dragon.Cooldowns.Evolve > 0:
		reason = ReasonOnCooldown
		description = fmt.Sprintf("%s is still recovering from its last evolution.", dragon.Name)
	case dragon.Level < dragon.EvolutionLevel:
		reason = ReasonLevelTooLow
		description = fmt.Sprintf("%s must reach level %d to evolve.", dragon.Name, dragon.EvolutionLevel)
	case dragon.NextEvolutionID == "":
		reason = ReasonNoSuccessor
		description = fmt.Sprintf("%s has no further evolution.", dragon.Name)
	default:
		return nil
	}

	o.notifier.Notify(ctx, notify.Notification{
		Title:       "Cannot evolve",
		Description: description,
		Severity:    notify.SeverityWarning,
	})

	return rejection(reason, "cannot evolve %s", dragon.Name).WithMeta("dragon_id", dragon.ID)
}

// Evolved returns the successor form of d. It does not check requirements.
func Evolved(d *entities.Dragon) *entities.Dragon {
	evolved := d.Clone()
	evolved.ID = d.NextEvolutionID
	evolved.Name = d.Name + evolveNameSuffix
	evolved.Level = d.Level + 1
	evolved.MaxHP = d.MaxHP + evolveHPGain
	evolved.CurrentHP = evolved.MaxHP
	evolved.Attack = d.Attack + evolveAttackGain
	evolved.Defense = d.Defense + evolveDefenseGain
	evolved.EvolutionLevel = d.EvolutionLevel + evolveLevelStep
	evolved.NextEvolutionID = ""
	evolved.Description = fmt.Sprintf("The evolved form of %s. Far stronger than before!", d.Name)
	evolved.Status = entities.StatusHealthy
	evolved.Cooldowns.Evolve = evolveCooldown
	return evolved
}

func (o *orchestrator) BuyItem(ctx context.Context, input *BuyItemInput) (*BuyItemOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	item, err := o.catalog.ShopItem(input.ItemID)
	if err != nil {
		o.notifier.Notify(ctx, notify.Notification{
			Title:       "Error",
			Description: "That item does not exist.",
			Severity:    notify.SeverityDestructive,
		})
		return nil, err
	}

	player, err := o.player(ctx)
	if err != nil {
		return nil, err
	}

	if player.Coins < item.Price {
		o.notifier.Notify(ctx, notify.Notification{
			Title:       "Not enough coins",
			Description: fmt.Sprintf("%s costs %d coins.", item.Name, item.Price),
			Severity:    notify.SeverityDestructive,
		})
		return nil, rejection(ReasonInsufficientCoins, "cannot afford %s", item.Name).
			WithMeta("item_id", item.ID).
			WithMeta("price", item.Price).
			WithMeta("coins", player.Coins)
	}

	// Coins are taken before anything is granted and handed back if the
	// grant fails
	player.Coins -= item.Price
	if item.Category == entities.ItemCategoryDragonSkin || item.Category == entities.ItemCategoryPlayerSkin {
		if !player.OwnsSkin(item.Effect.SkinID) {
			player.OwnedSkinIDs = append(player.OwnedSkinIDs, item.Effect.SkinID)
		}
	}
	if err := o.savePlayer(ctx, player); err != nil {
		return nil, err
	}

	var (
		dragon      *entities.Dragon
		description = fmt.Sprintf("You bought %s.", item.Name)
	)

	switch item.Category {
	case entities.ItemCategoryEgg:
		dragon = o.hatch(item)
		if _, err := o.dragonRepo.Create(ctx, dragons.CreateInput{Dragon: dragon}); err != nil {
			o.refund(ctx, player, item.Price)
			return nil, errors.Wrapf(err, "failed to hatch %s", item.ID)
		}
		description = fmt.Sprintf("You bought %s and a new dragon hatched!", item.Name)

	case entities.ItemCategorySkill:
		dragon, err = o.teach(ctx, item.Effect.SkillID)
		if err != nil {
			o.refund(ctx, player, item.Price)
			return nil, err
		}
		if dragon != nil {
			description = fmt.Sprintf("%s learned %s!", dragon.Name, item.Name)
		} else {
			description = fmt.Sprintf("You bought %s but every dragon already knows it.", item.Name)
		}

	case entities.ItemCategoryDragonSkin, entities.ItemCategoryPlayerSkin:
		description = fmt.Sprintf("You bought the %s skin.", item.Name)
	}

	o.logger.Info("Item bought",
		"item_id", item.ID,
		"category", item.Category,
		"coins", player.Coins)

	o.notifier.Notify(ctx, notify.Notification{
		Title:       "Purchase complete!",
		Description: description,
		Severity:    notify.SeveritySuccess,
	})

	return &BuyItemOutput{Item: item, Player: player, Dragon: dragon}, nil
}

func (o *orchestrator) hatch(item *entities.ShopItem) *entities.Dragon {
	return &entities.Dragon{
		ID:             o.idGen.Generate(),
		Name:           fmt.Sprintf("%s Dragon", item.Effect.Species),
		Species:        item.Effect.Species,
		Level:          item.Effect.BaseLevel,
		MaxHP:          eggMaxHP,
		CurrentHP:      eggMaxHP,
		Attack:         eggAttack,
		Defense:        eggDefense,
		MaxEnergy:      eggMaxEnergy,
		CurrentEnergy:  eggEnergy,
		Description:    fmt.Sprintf("A freshly hatched %s dragon.", item.Effect.Species),
		Status:         entities.StatusHealthy,
		EvolutionLevel: eggEvolutionLevel,
		Cooldowns:      entities.Cooldowns{Skill: map[string]int32{}},
		Skills:         []entities.Skill{},
		Pool:           entities.PoolRoster,
	}
}

// teach gives the skill to the first roster dragon, in roster order, that
// does not know it yet. It returns nil when every dragon already knows it.
func (o *orchestrator) teach(ctx context.Context, skillID string) (*entities.Dragon, error) {
	skill, err := o.catalog.Skill(skillID)
	if err != nil {
		return nil, err
	}

	roster, err := o.dragonRepo.List(ctx, dragons.ListInput{Pool: entities.PoolRoster})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list roster")
	}

	for _, d := range roster.Dragons {
		if d.KnowsSkill(skill.ID) {
			continue
		}
		d.Skills = append(d.Skills, *skill)
		if _, err := o.dragonRepo.Update(ctx, dragons.UpdateInput{Dragon: d}); err != nil {
			return nil, errors.Wrapf(err, "failed to teach %s to %s", skill.ID, d.ID)
		}
		return d, nil
	}

	return nil, nil
}

func (o *orchestrator) RollGacha(ctx context.Context, input *RollGachaInput) (*RollGachaOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	player, err := o.player(ctx)
	if err != nil {
		return nil, err
	}

	if player.Coins < o.gachaPrice {
		o.notifier.Notify(ctx, notify.Notification{
			Title:       "Not enough coins",
			Description: fmt.Sprintf("A gacha roll costs %d coins.", o.gachaPrice),
			Severity:    notify.SeverityDestructive,
		})
		return nil, rejection(ReasonInsufficientCoins, "cannot afford a gacha roll").
			WithMeta("price", o.gachaPrice).
			WithMeta("coins", player.Coins)
	}

	pool := o.catalog.GachaPool()
	if len(pool) == 0 {
		return nil, errors.Internal("gacha pool is empty")
	}

	roll, err := o.roller.Roll(len(pool))
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll gacha")
	}
	if roll < 1 || roll > len(pool) {
		return nil, errors.Internalf("gacha roll %d outside pool of %d", roll, len(pool))
	}

	dragon := pool[roll-1]
	dragon.ID = o.idGen.Generate()
	dragon.Name += gachaNameSuffix
	dragon.Level = 1
	dragon.XP = 0
	dragon.CurrentHP = dragon.MaxHP
	dragon.CurrentEnergy = dragon.MaxEnergy / 2
	dragon.Status = entities.StatusHealthy
	dragon.Cooldowns = entities.Cooldowns{Skill: map[string]int32{}}
	dragon.EquippedSkinID = ""
	dragon.Pool = entities.PoolRoster

	player.Coins -= o.gachaPrice
	if err := o.savePlayer(ctx, player); err != nil {
		return nil, err
	}
	if _, err := o.dragonRepo.Create(ctx, dragons.CreateInput{Dragon: dragon}); err != nil {
		o.refund(ctx, player, o.gachaPrice)
		return nil, errors.Wrap(err, "failed to store gacha dragon")
	}

	o.logger.Info("Gacha rolled",
		"dragon_id", dragon.ID,
		"name", dragon.Name,
		"coins", player.Coins)

	o.notifier.Notify(ctx, notify.Notification{
		Title:       "Gacha roll complete!",
		Description: fmt.Sprintf("You got a new dragon: %s!", dragon.Name),
		Severity:    notify.SeveritySuccess,
	})

	return &RollGachaOutput{Dragon: dragon, Player: player}, nil
}

func (o *orchestrator) EquipDragonSkin(ctx context.Context, input *EquipDragonSkinInput) (*EquipDragonSkinOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	dragon, err := o.rosterDragon(ctx, input.DragonID)
	if err != nil {
		return nil, err
	}

	var next *entities.DragonSkin
	if input.SkinID != "" {
		next, err = o.catalog.DragonSkin(input.SkinID)
		if err != nil {
			o.notifier.Notify(ctx, notify.Notification{
				Title:       "Error",
				Description: "That skin does not exist.",
				Severity:    notify.SeverityDestructive,
			})
			return nil, err
		}
		if err := o.checkOwnership(ctx, next.ID, next.Name); err != nil {
			return nil, err
		}
	}

	var current *entities.DragonSkin
	if dragon.EquippedSkinID != "" {
		// A skin that left the catalog contributes no boost to remove
		current, _ = o.catalog.DragonSkin(dragon.EquippedSkinID)
	}

	ApplySkin(dragon, current, next)

	if _, err := o.dragonRepo.Update(ctx, dragons.UpdateInput{Dragon: dragon}); err != nil {
		return nil, errors.Wrapf(err, "failed to save dragon %s", dragon.ID)
	}

	skinName := "default"
	if next != nil {
		skinName = next.Name
	}

	o.logger.Info("Dragon skin equipped",
		"dragon_id", dragon.ID,
		"skin_id", input.SkinID)

	o.notifier.Notify(ctx, notify.Notification{
		Title:       "Skin equipped!",
		Description: fmt.Sprintf("%s is now wearing the %s skin.", dragon.Name, skinName),
		Severity:    notify.SeveritySuccess,
	})

	return &EquipDragonSkinOutput{Dragon: dragon}, nil
}

// ApplySkin removes the boost of current and adds the boost of next, then
// re-clamps HP to the new max. Either skin may be nil.
func ApplySkin(d *entities.Dragon, current, next *entities.DragonSkin) {
	if current != nil && current.StatBoost != nil {
		d.Attack -= current.StatBoost.Attack
		d.Defense -= current.StatBoost.Defense
		d.MaxHP -= current.StatBoost.HP
	}
	if next != nil && next.StatBoost != nil {
		d.Attack += next.StatBoost.Attack
		d.Defense += next.StatBoost.Defense
		d.MaxHP += next.StatBoost.HP
	}

	d.CurrentHP = min(d.CurrentHP, d.MaxHP)
	d.EquippedSkinID = ""
	if next != nil {
		d.EquippedSkinID = next.ID
	}
}

func (o *orchestrator) EquipPlayerSkin(ctx context.Context, input *EquipPlayerSkinInput) (*EquipPlayerSkinOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	player, err := o.player(ctx)
	if err != nil {
		return nil, err
	}

	skinName := "default"
	avatar := o.catalog.PlayerTemplate().Avatar
	if input.SkinID != "" {
		skin, err := o.catalog.PlayerSkin(input.SkinID)
		if err != nil {
			o.notifier.Notify(ctx, notify.Notification{
				Title:       "Error",
				Description: "That skin does not exist.",
				Severity:    notify.SeverityDestructive,
			})
			return nil, err
		}
		if err := o.checkOwnership(ctx, skin.ID, skin.Name); err != nil {
			return nil, err
		}
		skinName = skin.Name
		if skin.Image != "" {
			avatar = skin.Image
		}
	}

	player.EquippedSkinID = input.SkinID
	player.Avatar = avatar

	if err := o.savePlayer(ctx, player); err != nil {
		return nil, err
	}

	o.logger.Info("Player skin equipped", "skin_id", input.SkinID)

	o.notifier.Notify(ctx, notify.Notification{
		Title:       "Skin equipped!",
		Description: fmt.Sprintf("You are now wearing the %s skin.", skinName),
		Severity:    notify.SeveritySuccess,
	})

	return &EquipPlayerSkinOutput{Player: player}, nil
}

func (o *orchestrator) checkOwnership(ctx context.Context, skinID, skinName string) error {
	if !o.requireSkinOwnership {
		return nil
	}

	player, err := o.player(ctx)
	if err != nil {
		return err
	}
	if player.OwnsSkin(skinID) {
		return nil
	}

	o.notifier.Notify(ctx, notify.Notification{
		Title:       "Skin not owned",
		Description: fmt.Sprintf("Buy the %s skin in the shop first.", skinName),
		Severity:    notify.SeverityWarning,
	})
	return rejection(ReasonSkinNotOwned, "skin %s is not owned", skinID).WithMeta("skin_id", skinID)
}

// rosterDragon loads a dragon that belongs to the player's roster
func (o *orchestrator) rosterDragon(ctx context.Context, id string) (*entities.Dragon, error) {
	if id == "" {
		return nil, errors.InvalidArgument("dragon ID is required")
	}

	out, err := o.dragonRepo.Get(ctx, dragons.GetInput{ID: id})
	if err != nil {
		if errors.IsNotFound(err) {
			o.notifier.Notify(ctx, notify.Notification{
				Title:       "Error",
				Description: "That dragon does not exist.",
				Severity:    notify.SeverityDestructive,
			})
		}
		return nil, err
	}
	if out.Dragon.Pool != entities.PoolRoster {
		return nil, errors.NotFoundf("dragon %s is not in the roster", id).WithMeta("dragon_id", id)
	}

	if out.Dragon.Cooldowns.Skill == nil {
		out.Dragon.Cooldowns.Skill = map[string]int32{}
	}
	return out.Dragon, nil
}

func (o *orchestrator) player(ctx context.Context) (*entities.Player, error) {
	out, err := o.playerRepo.Get(ctx, players.GetInput{ID: o.playerID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load player")
	}
	return out.Player, nil
}

func (o *orchestrator) savePlayer(ctx context.Context, p *entities.Player) error {
	if _, err := o.playerRepo.Save(ctx, players.SaveInput{Player: p}); err != nil {
		return errors.Wrap(err, "failed to save player")
	}
	return nil
}

// refund hands back coins taken for a grant that did not land
func (o *orchestrator) refund(ctx context.Context, p *entities.Player, amount int32) {
	p.Coins += amount
	if err := o.savePlayer(ctx, p); err != nil {
		o.logger.Error("Failed to refund player",
			"player_id", p.ID,
			"amount", amount,
			"error", err)
	}
}

func (o *orchestrator) notifyPlayerLevel(ctx context.Context, p *entities.Player, leveledUp bool) {
	if !leveledUp {
		return
	}
	o.notifier.Notify(ctx, notify.Notification{
		Title:       "Congratulations!",
		Description: fmt.Sprintf("You reached level %d!", p.Level),
		Severity:    notify.SeveritySuccess,
	})
}
