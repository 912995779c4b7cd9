package combat

import (
	"time"

	"github.com/samdwyer/idlequest/internal/gamedata"
)

// Roller supplies uniform values in [0, 1). *rand.Rand satisfies it.
type Roller interface {
	Float64() float64
}

// Hit is the outcome of one attack.
type Hit struct {
	Damage   int
	Critical bool
}

// Resolver calculates and applies attack damage.
type Resolver struct {
	balance gamedata.CombatBalance
	rng     Roller
}

// NewResolver creates a resolver rolling crits with rng.
func NewResolver(balance gamedata.CombatBalance, rng Roller) *Resolver {
	return &Resolver{balance: balance, rng: rng}
}

// BaseDamage is attack minus defense, never below 1.
func (r *Resolver) BaseDamage(attacker, defender Combatant) int {
	return max(1, attacker.GetAttack()-defender.GetDefense())
}

// CritChance is the attacker's luck over the configured divisor.
func (r *Resolver) CritChance(attacker Combatant) float64 {
	return float64(attacker.GetLuck()) / r.balance.CritLuckDivisor
}

// Roll calculates one attack without applying it.
func (r *Resolver) Roll(attacker, defender Combatant) Hit {
	damage := r.BaseDamage(attacker, defender)
	critical := r.rng.Float64() < r.CritChance(attacker)
	if critical {
		damage *= r.balance.CritMultiplier
	}
	return Hit{Damage: damage, Critical: critical}
}

// Strike rolls an attack and applies it to the defender.
func (r *Resolver) Strike(attacker, defender Combatant) Hit {
	hit := r.Roll(attacker, defender)
	defender.TakeDamage(hit.Damage)
	return hit
}

// AttackInterval is the delay between two attacks of c. Every full
// AgilityDivisor points of agility shave one step off the base interval,
// down to the configured minimum.
func (r *Resolver) AttackInterval(c Combatant) time.Duration {
	steps := c.GetAgility() / r.balance.AgilityDivisor
	interval := r.balance.BaseAttackInterval() - time.Duration(steps)*r.balance.AgilityStep()
	return max(r.balance.MinAttackInterval(), interval)
}
