package game

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/samdwyer/idlequest/internal/storage"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvSlot = "IDLEQUEST_SLOT"
	EnvSeed = "IDLEQUEST_SEED"
)

// DefaultAutosaveEvery is the autosave period of the TUI.
const DefaultAutosaveEvery = 30 * time.Second

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible enemy names
	// and crit rolls. A seed of 0 means a random seed will be generated.
	Seed int64

	// DBPath is the SQLite save file. Empty disables persistence.
	DBPath string

	// Slot names the save slot inside the database.
	Slot string

	// AutosaveEvery is the autosave period; zero disables autosave.
	AutosaveEvery time.Duration
}

// ConfigFromEnv builds a config from IDLEQUEST_* variables with defaults.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Slot:          storage.DefaultSlot,
		AutosaveEvery: DefaultAutosaveEvery,
	}

	path, err := storage.ResolveDBPath()
	if err != nil {
		return cfg, err
	}
	cfg.DBPath = path

	if slot := os.Getenv(EnvSlot); slot != "" {
		cfg.Slot = slot
	}
	if raw := os.Getenv(EnvSeed); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}
	return cfg, nil
}

// ResolvedSeed returns the seed to use, drawing one from the clock when
// Seed is zero.
func (c Config) ResolvedSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
