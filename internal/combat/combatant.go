// Package combat provides damage resolution and attack cadence for the
// real-time auto battle.
package combat

// Combatant is the interface for any entity that can participate in combat.
// Both the player and enemies implement this interface.
type Combatant interface {
	// Identity
	GetID() string
	GetName() string

	// Stats
	GetHealth() int
	GetMaxHealth() int
	GetAttack() int
	GetDefense() int
	GetAgility() int
	GetLuck() int

	// Mutations
	TakeDamage(amount int) // Health floors at zero
	IsDead() bool
}
