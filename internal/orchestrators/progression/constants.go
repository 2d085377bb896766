package progression

// Action tuning
const (
	feedHPRestore = 20
	feedCooldown  = 10

	trainXPGain         = 20
	trainLevelXPFactor  = 50
	trainAttackGain     = 2
	trainDefenseGain    = 1
	trainPlayerXPShare  = trainXPGain / 2
	trainCooldown       = 30
	evolveNameSuffix    = " Prime"
	evolveHPGain        = 50
	evolveAttackGain    = 10
	evolveDefenseGain   = 5
	evolveLevelStep     = 10
	evolveCooldown      = 3600
	evolvePlayerXPBonus = 100

	eggMaxHP          = 70
	eggAttack         = 15
	eggDefense        = 10
	eggMaxEnergy      = 100
	eggEnergy         = 50
	eggEvolutionLevel = 5

	gachaNameSuffix = " (Gacha)"

	// DefaultGachaPrice is the flat cost of one gacha roll
	DefaultGachaPrice = 250
)

// Rejection reasons carried in the "reason" meta of FailedPrecondition errors
const (
	ReasonOnCooldown        = "on_cooldown"
	ReasonLevelTooLow       = "level_too_low"
	ReasonNoSuccessor       = "no_successor"
	ReasonInsufficientCoins = "insufficient_coins"
	ReasonSkinNotOwned      = "skin_not_owned"
)
