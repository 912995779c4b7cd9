package gamedata

import (
	"errors"
	"math/rand"
)

// NamePools lists the enemy names loaded from enemies.json.
type NamePools struct {
	Normal []string `json:"normal"`
	Boss   []string `json:"boss"`
}

// NameRegistry picks enemy names from the normal or boss pool.
type NameRegistry struct {
	normal []string
	boss   []string
}

// NewNameRegistry creates a registry from loaded pools.
func NewNameRegistry(pools NamePools) *NameRegistry {
	return &NameRegistry{normal: pools.Normal, boss: pools.Boss}
}

// LoadNameRegistry loads and creates a registry from the embedded enemies.json.
func LoadNameRegistry() (*NameRegistry, error) {
	pools, err := Load[NamePools]("enemies.json")
	if err != nil {
		return nil, err
	}
	if len(pools.Normal) == 0 || len(pools.Boss) == 0 {
		return nil, errors.New("enemies.json must list both normal and boss names")
	}
	return NewNameRegistry(pools), nil
}

// MustLoadNameRegistry loads a registry, panicking on error.
func MustLoadNameRegistry() *NameRegistry {
	return must(LoadNameRegistry())
}

// Pick returns a uniformly chosen name from the requested pool.
func (r *NameRegistry) Pick(rng *rand.Rand, boss bool) string {
	pool := r.normal
	if boss {
		pool = r.boss
	}
	if len(pool) == 0 {
		return "Unknown"
	}
	return pool[rng.Intn(len(pool))]
}

// Pool returns the names of one pool.
func (r *NameRegistry) Pool(boss bool) []string {
	if boss {
		return r.boss
	}
	return r.normal
}
