package entity

import (
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/samdwyer/idlequest/internal/combat"
	"github.com/samdwyer/idlequest/internal/gamedata"
)

// Rewards are credited to the player when an enemy is defeated.
type Rewards struct {
	Experience int
	Gold       int
	DropRate   float64
}

// Enemy is a generated stage opponent. Only its health changes after creation.
type Enemy struct {
	ID         string
	StageLevel int
	Level      int
	IsBoss     bool
	Name       string
	Attributes Attributes
	Rewards    Rewards
}

// EnemyFactory generates enemies for a stage level.
type EnemyFactory struct {
	balance gamedata.EnemyBalance
	names   *gamedata.NameRegistry
	rng     *rand.Rand
}

// NewEnemyFactory creates a factory drawing names and ids with rng.
func NewEnemyFactory(balance gamedata.EnemyBalance, names *gamedata.NameRegistry, rng *rand.Rand) *EnemyFactory {
	return &EnemyFactory{balance: balance, names: names, rng: rng}
}

// Generate creates one enemy scaled to stageLevel.
func (f *EnemyFactory) Generate(stageLevel int, isBoss bool) *Enemy {
	return &Enemy{
		ID:         "enemy_" + uuid.NewString(),
		StageLevel: stageLevel,
		Level:      stageLevel,
		IsBoss:     isBoss,
		Name:       f.names.Pick(f.rng, isBoss),
		Attributes: ScaleAttributes(f.balance, stageLevel, isBoss),
		Rewards:    ScaleRewards(f.balance, stageLevel, isBoss),
	}
}

// ScaleAttributes computes enemy stats. Each attribute is its stage-linear
// base times growthBase^(stage-1), truncated; bosses then multiply health,
// attack and defense. MaxHealth always equals the generated Health.
func ScaleAttributes(b gamedata.EnemyBalance, stage int, isBoss bool) Attributes {
	growth := math.Pow(b.GrowthBase, float64(stage-1))
	scaled := func(c gamedata.Coefficient) int {
		return int(math.Floor(c.At(stage) * growth))
	}

	a := Attributes{
		Health:  scaled(b.Health),
		Attack:  scaled(b.Attack),
		Defense: scaled(b.Defense),
		Agility: scaled(b.Agility),
		Luck:    scaled(b.Luck),
	}
	if isBoss {
		a.Health = int(math.Floor(float64(a.Health) * b.BossHealth))
		a.Attack = int(math.Floor(float64(a.Attack) * b.BossAttack))
		a.Defense = int(math.Floor(float64(a.Defense) * b.BossDefense))
	}
	a.MaxHealth = a.Health
	a.Clamp()
	return a
}

// ScaleRewards computes the experience, gold and drop rate of an enemy.
func ScaleRewards(b gamedata.EnemyBalance, stage int, isBoss bool) Rewards {
	curve := math.Pow(float64(stage), b.RewardExponent)
	r := Rewards{
		Experience: int(math.Round(b.ExpBase + curve*b.ExpScale)),
		Gold:       int(math.Round(b.GoldBase + curve*b.GoldScale)),
		DropRate:   b.DropRateBase + float64(stage)*b.DropRatePerStage,
	}
	if isBoss {
		r.Experience *= b.BossRewardMultiplier
		r.Gold *= b.BossRewardMultiplier
		r.DropRate *= b.BossDropMultiplier
	}
	return r
}

// ResetHealth restores the enemy to full health for a fresh encounter.
func (e *Enemy) ResetHealth() {
	e.Attributes.Health = e.Attributes.MaxHealth
}

// =============================================================================
// Combatant interface implementation
// =============================================================================

func (e *Enemy) GetID() string     { return e.ID }
func (e *Enemy) GetName() string   { return e.Name }
func (e *Enemy) GetHealth() int    { return e.Attributes.Health }
func (e *Enemy) GetMaxHealth() int { return e.Attributes.MaxHealth }
func (e *Enemy) GetAttack() int    { return e.Attributes.Attack }
func (e *Enemy) GetDefense() int   { return e.Attributes.Defense }
func (e *Enemy) GetAgility() int   { return e.Attributes.Agility }
func (e *Enemy) GetLuck() int      { return e.Attributes.Luck }

// TakeDamage lowers health by amount, never below zero.
func (e *Enemy) TakeDamage(amount int) { e.Attributes.damage(amount) }

// IsDead reports whether health has reached zero.
func (e *Enemy) IsDead() bool { return e.Attributes.Health <= 0 }

// Ensure Enemy implements combat.Combatant
var _ combat.Combatant = (*Enemy)(nil)
