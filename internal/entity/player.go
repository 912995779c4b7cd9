package entity

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/samdwyer/idlequest/internal/combat"
	"github.com/samdwyer/idlequest/internal/gamedata"
)

// AlchemyFurnace is the idle production state owned by the player.
type AlchemyFurnace struct {
	Level              int       // Furnace level, >= 1
	LastProductionTime time.Time // Production checkpoint; only the production engine moves it
	TotalProduced      int       // Gold produced over the furnace's lifetime
}

// NewAlchemyFurnace creates a level 1 furnace whose checkpoint is now.
func NewAlchemyFurnace(now time.Time) AlchemyFurnace {
	return AlchemyFurnace{Level: 1, LastProductionTime: now}
}

// Player is the single character of a game session.
type Player struct {
	ID              string
	Name            string
	Level           int
	Experience      int
	AvailablePoints int
	Gold            int
	Diamonds        int
	CurrentStage    int
	Attributes      Attributes
	Furnace         AlchemyFurnace
}

// NewPlayer creates a level 1 player with the configured starting stats.
func NewPlayer(def gamedata.PlayerBalance, now time.Time) *Player {
	return &Player{
		ID:           uuid.NewString(),
		Name:         def.Name,
		Level:        1,
		CurrentStage: 1,
		Attributes: Attributes{
			Health:    def.Health,
			MaxHealth: def.Health,
			Attack:    def.Attack,
			Defense:   def.Defense,
			Agility:   def.Agility,
			Luck:      def.Luck,
		},
		Furnace: NewAlchemyFurnace(now),
	}
}

// GainExperience adds amount to the experience pool, flooring the result.
func (p *Player) GainExperience(amount float64) {
	p.Experience = max(0, int(math.Floor(float64(p.Experience)+amount)))
}

// GainGold adds amount to the gold purse, flooring the result.
func (p *Player) GainGold(amount float64) {
	p.Gold = max(0, int(math.Floor(float64(p.Gold)+amount)))
}

// Revive restores the player to full health.
func (p *Player) Revive() {
	p.Attributes.Health = p.Attributes.MaxHealth
}

// Normalize repairs values a partial or hand-edited save may have left out of range.
func (p *Player) Normalize() {
	p.Level = max(1, p.Level)
	p.CurrentStage = max(1, p.CurrentStage)
	p.Experience = max(0, p.Experience)
	p.AvailablePoints = max(0, p.AvailablePoints)
	p.Gold = max(0, p.Gold)
	p.Diamonds = max(0, p.Diamonds)
	p.Furnace.Level = max(1, p.Furnace.Level)
	p.Furnace.TotalProduced = max(0, p.Furnace.TotalProduced)
	p.Attributes.Clamp()
}

// =============================================================================
// Combatant interface implementation
// =============================================================================

func (p *Player) GetID() string     { return p.ID }
func (p *Player) GetName() string   { return p.Name }
func (p *Player) GetHealth() int    { return p.Attributes.Health }
func (p *Player) GetMaxHealth() int { return p.Attributes.MaxHealth }
func (p *Player) GetAttack() int    { return p.Attributes.Attack }
func (p *Player) GetDefense() int   { return p.Attributes.Defense }
func (p *Player) GetAgility() int   { return p.Attributes.Agility }
func (p *Player) GetLuck() int      { return p.Attributes.Luck }

// TakeDamage lowers health by amount, never below zero.
func (p *Player) TakeDamage(amount int) { p.Attributes.damage(amount) }

// IsDead reports whether health has reached zero.
func (p *Player) IsDead() bool { return p.Attributes.Health <= 0 }

// Ensure Player implements combat.Combatant
var _ combat.Combatant = (*Player)(nil)
