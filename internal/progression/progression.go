// Package progression implements the experience curve, level-ups and
// attribute point allocation for the player.
package progression

import (
	"math"

	"github.com/samdwyer/idlequest/internal/entity"
	"github.com/samdwyer/idlequest/internal/gamedata"
)

// Engine applies the progression rules to a player.
type Engine struct {
	rules gamedata.ProgressionBalance
}

// NewEngine creates an engine for the given rules.
func NewEngine(rules gamedata.ProgressionBalance) *Engine {
	return &Engine{rules: rules}
}

// RequiredExp returns the experience needed to advance past level.
// Levels below 1 are treated as level 1.
func (e *Engine) RequiredExp(level int) int {
	level = max(1, level)
	return int(math.Floor(float64(e.rules.BaseExp) * math.Pow(e.rules.GrowthRate, float64(level-1))))
}

// CanLevelUp reports whether the player's pool covers the current threshold.
func (e *Engine) CanLevelUp(p *entity.Player) bool {
	return p.Experience >= e.RequiredExp(p.Level)
}

// LevelUp advances the player one level, keeping any surplus experience.
// It returns false and changes nothing when the player is not eligible.
func (e *Engine) LevelUp(p *entity.Player) bool {
	if !e.CanLevelUp(p) {
		return false
	}

	p.Experience -= e.RequiredExp(p.Level)
	p.Level++
	p.AvailablePoints += e.rules.PointsPerLevel

	a := &p.Attributes
	a.MaxHealth += e.rules.LevelUpMaxHealth
	a.Health = a.MaxHealth
	a.Attack += e.rules.LevelUpAttack
	a.Defense += e.rules.LevelUpDefense
	a.Clamp()
	return true
}

// ApplyLevelUps levels the player up until the threshold is no longer met,
// calling onLevel with each new level. It returns the number of levels gained.
func (e *Engine) ApplyLevelUps(p *entity.Player, onLevel func(newLevel int)) int {
	gained := 0
	for e.LevelUp(p) {
		gained++
		if onLevel != nil {
			onLevel(p.Level)
		}
	}
	return gained
}

// AllocateAttribute spends points on one attribute. Health points raise
// both current and maximum health. It fails when points is not positive,
// exceeds the available pool, or names an attribute that takes no points.
func (e *Engine) AllocateAttribute(p *entity.Player, attr entity.Attribute, points int) bool {
	if points <= 0 || points > p.AvailablePoints {
		return false
	}

	a := &p.Attributes
	switch attr {
	case entity.AttrHealth:
		a.MaxHealth += points
		a.Health += points
	case entity.AttrAttack, entity.AttrDefense, entity.AttrAgility, entity.AttrLuck:
		a.Add(attr, points)
	default:
		return false
	}
	a.Clamp()

	p.AvailablePoints -= points
	return true
}

// ExpProgress returns the current pool and the threshold for the next level.
func (e *Engine) ExpProgress(p *entity.Player) (current, required int) {
	return p.Experience, e.RequiredExp(p.Level)
}
