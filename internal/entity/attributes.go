// Package entity provides the combatants of the game: the player character
// and the generated stage enemies.
package entity

import "strings"

// Attribute names one field of Attributes.
type Attribute string

const (
	AttrHealth    Attribute = "health"
	AttrMaxHealth Attribute = "maxHealth"
	AttrAttack    Attribute = "attack"
	AttrDefense   Attribute = "defense"
	AttrAgility   Attribute = "agility"
	AttrLuck      Attribute = "luck"
)

// Allocatable lists the attributes that accept level-up points, in menu order.
var Allocatable = []Attribute{AttrHealth, AttrAttack, AttrDefense, AttrAgility, AttrLuck}

// ParseAttribute resolves a case-insensitive attribute name.
func ParseAttribute(s string) (Attribute, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "health", "hp":
		return AttrHealth, true
	case "maxhealth":
		return AttrMaxHealth, true
	case "attack", "atk":
		return AttrAttack, true
	case "defense", "def":
		return AttrDefense, true
	case "agility", "agi":
		return AttrAgility, true
	case "luck", "lck":
		return AttrLuck, true
	default:
		return "", false
	}
}

// Label returns the display name of the attribute.
func (a Attribute) Label() string {
	switch a {
	case AttrHealth:
		return "Health"
	case AttrMaxHealth:
		return "Max Health"
	case AttrAttack:
		return "Attack"
	case AttrDefense:
		return "Defense"
	case AttrAgility:
		return "Agility"
	case AttrLuck:
		return "Luck"
	default:
		return "Unknown"
	}
}

// Attributes are the combat stats shared by players and enemies.
// All values are non-negative and Health never exceeds MaxHealth.
type Attributes struct {
	Health    int `json:"health"`
	MaxHealth int `json:"maxHealth"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	Agility   int `json:"agility"`
	Luck      int `json:"luck"`
}

// Clamp restores the attribute invariants after a mutation.
func (a *Attributes) Clamp() {
	a.MaxHealth = max(0, a.MaxHealth)
	a.Health = min(max(0, a.Health), a.MaxHealth)
	a.Attack = max(0, a.Attack)
	a.Defense = max(0, a.Defense)
	a.Agility = max(0, a.Agility)
	a.Luck = max(0, a.Luck)
}

// Get returns the value of one attribute.
func (a *Attributes) Get(attr Attribute) int {
	switch attr {
	case AttrHealth:
		return a.Health
	case AttrMaxHealth:
		return a.MaxHealth
	case AttrAttack:
		return a.Attack
	case AttrDefense:
		return a.Defense
	case AttrAgility:
		return a.Agility
	case AttrLuck:
		return a.Luck
	default:
		return 0
	}
}

// Add increases one attribute by delta and re-clamps.
func (a *Attributes) Add(attr Attribute, delta int) {
	switch attr {
	case AttrHealth:
		a.Health += delta
	case AttrMaxHealth:
		a.MaxHealth += delta
	case AttrAttack:
		a.Attack += delta
	case AttrDefense:
		a.Defense += delta
	case AttrAgility:
		a.Agility += delta
	case AttrLuck:
		a.Luck += delta
	}
	a.Clamp()
}

// damage applies amount to Health, flooring at zero.
func (a *Attributes) damage(amount int) {
	if amount <= 0 {
		return
	}
	a.Health = max(0, a.Health-amount)
	a.Clamp()
}
