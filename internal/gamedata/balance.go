package gamedata

import (
	"errors"
	"time"
)

// Balance holds every tunable constant of the game, loaded from balance.json.
type Balance struct {
	Player      PlayerBalance      `json:"player"`
	Progression ProgressionBalance `json:"progression"`
	Furnace     FurnaceBalance     `json:"furnace"`
	Combat      CombatBalance      `json:"combat"`
	Stage       StageBalance       `json:"stage"`
	Enemy       EnemyBalance       `json:"enemy"`
}

// PlayerBalance defines the starting character.
type PlayerBalance struct {
	Name    string `json:"name"`
	Health  int    `json:"health"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
	Agility int    `json:"agility"`
	Luck    int    `json:"luck"`
}

// ProgressionBalance defines the experience curve and level-up gains.
type ProgressionBalance struct {
	BaseExp          int     `json:"baseExp"`
	GrowthRate       float64 `json:"growthRate"`
	PointsPerLevel   int     `json:"pointsPerLevel"`
	LevelUpMaxHealth int     `json:"levelUpMaxHealth"`
	LevelUpAttack    int     `json:"levelUpAttack"`
	LevelUpDefense   int     `json:"levelUpDefense"`
}

// FurnaceBalance defines the alchemy furnace production and upgrade curves.
type FurnaceBalance struct {
	BaseRate              float64 `json:"baseRate"`
	RateMultiplier        float64 `json:"rateMultiplier"`
	IntervalMs            int     `json:"intervalMs"`
	UpgradeCostBase       float64 `json:"upgradeCostBase"`
	UpgradeCostMultiplier float64 `json:"upgradeCostMultiplier"`
	OfflineNoticeMs       int     `json:"offlineNoticeMs"`
}

// Interval is the furnace tick period.
func (f FurnaceBalance) Interval() time.Duration { return ms(f.IntervalMs) }

// OfflineNotice is the absence after which offline earnings are announced.
func (f FurnaceBalance) OfflineNotice() time.Duration { return ms(f.OfflineNoticeMs) }

// CombatBalance defines attack cadence, crits and battle flow delays.
type CombatBalance struct {
	TickMs               int     `json:"tickMs"`
	BaseAttackIntervalMs int     `json:"baseAttackIntervalMs"`
	MinAttackIntervalMs  int     `json:"minAttackIntervalMs"`
	AgilityDivisor       int     `json:"agilityDivisor"`
	AgilityStepMs        int     `json:"agilityStepMs"`
	CritLuckDivisor      float64 `json:"critLuckDivisor"`
	CritMultiplier       int     `json:"critMultiplier"`
	ReviveMs             int     `json:"reviveMs"`
	ReviveCadenceMs      int     `json:"reviveCadenceMs"`
	NextEnemyDelayMs     int     `json:"nextEnemyDelayMs"`
	StageCompleteDelayMs int     `json:"stageCompleteDelayMs"`
}

func (c CombatBalance) Tick() time.Duration               { return ms(c.TickMs) }
func (c CombatBalance) BaseAttackInterval() time.Duration { return ms(c.BaseAttackIntervalMs) }
func (c CombatBalance) MinAttackInterval() time.Duration  { return ms(c.MinAttackIntervalMs) }
func (c CombatBalance) AgilityStep() time.Duration        { return ms(c.AgilityStepMs) }
func (c CombatBalance) Revive() time.Duration             { return ms(c.ReviveMs) }
func (c CombatBalance) ReviveCadence() time.Duration      { return ms(c.ReviveCadenceMs) }
func (c CombatBalance) NextEnemyDelay() time.Duration     { return ms(c.NextEnemyDelayMs) }
func (c CombatBalance) StageCompleteDelay() time.Duration { return ms(c.StageCompleteDelayMs) }

// StageBalance defines stage composition. A stage always ends with one boss.
type StageBalance struct {
	NormalEnemies int `json:"normalEnemies"`
}

// Coefficient is a stage-linear base value: (Base + PerStage*stage) * Scale.
type Coefficient struct {
	Base     float64 `json:"base"`
	PerStage float64 `json:"perStage"`
	Scale    float64 `json:"scale"`
}

// At evaluates the coefficient for a stage before geometric growth.
func (c Coefficient) At(stage int) float64 {
	return (c.Base + float64(stage)*c.PerStage) * c.Scale
}

// EnemyBalance defines enemy attribute scaling and rewards.
type EnemyBalance struct {
	GrowthBase float64     `json:"growthBase"`
	Health     Coefficient `json:"health"`
	Attack     Coefficient `json:"attack"`
	Defense    Coefficient `json:"defense"`
	Agility    Coefficient `json:"agility"`
	Luck       Coefficient `json:"luck"`

	BossHealth  float64 `json:"bossHealth"`
	BossAttack  float64 `json:"bossAttack"`
	BossDefense float64 `json:"bossDefense"`

	RewardExponent       float64 `json:"rewardExponent"`
	ExpBase              float64 `json:"expBase"`
	ExpScale             float64 `json:"expScale"`
	GoldBase             float64 `json:"goldBase"`
	GoldScale            float64 `json:"goldScale"`
	DropRateBase         float64 `json:"dropRateBase"`
	DropRatePerStage     float64 `json:"dropRatePerStage"`
	BossRewardMultiplier int     `json:"bossRewardMultiplier"`
	BossDropMultiplier   float64 `json:"bossDropMultiplier"`
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// LoadBalance loads the balance tables from the embedded balance.json.
func LoadBalance() (*Balance, error) {
	b, err := Load[Balance]("balance.json")
	if err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// MustLoadBalance loads the balance tables, panicking on error.
func MustLoadBalance() *Balance {
	return must(LoadBalance())
}

// Validate rejects tables that would stall the battle loop or break the curves.
func (b *Balance) Validate() error {
	switch {
	case b.Progression.BaseExp <= 0 || b.Progression.GrowthRate <= 1:
		return errors.New("balance: experience curve must be strictly increasing")
	case b.Furnace.IntervalMs <= 0:
		return errors.New("balance: furnace interval must be positive")
	case b.Combat.TickMs <= 0 || b.Combat.MinAttackIntervalMs <= 0:
		return errors.New("balance: combat tick and minimum attack interval must be positive")
	case b.Combat.AgilityDivisor <= 0 || b.Combat.CritLuckDivisor <= 0:
		return errors.New("balance: agility and luck divisors must be positive")
	case b.Combat.ReviveCadenceMs <= 0:
		return errors.New("balance: revive cadence must be positive")
	case b.Stage.NormalEnemies < 0:
		return errors.New("balance: stage enemy count must not be negative")
	}
	return nil
}
