package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/samdwyer/idlequest/internal/entity"
)

// FurnaceSnapshot is the stored form of the alchemy furnace. The production
// checkpoint is kept as Unix milliseconds.
type FurnaceSnapshot struct {
	Level              int   `json:"level"`
	LastProductionTime int64 `json:"lastProductionTime"`
	TotalProduced      int   `json:"totalProduced"`
}

// PlayerSnapshot is the stored form of a player.
type PlayerSnapshot struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Level           int               `json:"level"`
	Experience      int               `json:"experience"`
	AvailablePoints int               `json:"availablePoints"`
	Gold            int               `json:"gold"`
	Diamonds        int               `json:"diamonds"`
	CurrentStage    int               `json:"currentStage"`
	Attributes      entity.Attributes `json:"attributes"`
	Furnace         FurnaceSnapshot   `json:"alchemyFurnace"`
}

// Snapshot is one save slot: the player, the stage being fought and the
// time the save was written.
type Snapshot struct {
	Player  PlayerSnapshot
	Stage   int
	SavedAt time.Time

	// raw is the player JSON as read from disk.
	raw []byte
}

// Capture snapshots p at savedAt.
func Capture(p *entity.Player, stage int, savedAt time.Time) Snapshot {
	return Snapshot{Player: playerSnapshot(p), Stage: max(1, stage), SavedAt: savedAt}
}

func playerSnapshot(p *entity.Player) PlayerSnapshot {
	return PlayerSnapshot{
		ID:              p.ID,
		Name:            p.Name,
		Level:           p.Level,
		Experience:      p.Experience,
		AvailablePoints: p.AvailablePoints,
		Gold:            p.Gold,
		Diamonds:        p.Diamonds,
		CurrentStage:    p.CurrentStage,
		Attributes:      p.Attributes,
		Furnace: FurnaceSnapshot{
			Level:              p.Furnace.Level,
			LastProductionTime: p.Furnace.LastProductionTime.UnixMilli(),
			TotalProduced:      p.Furnace.TotalProduced,
		},
	}
}

func (s PlayerSnapshot) applyTo(p *entity.Player) {
	p.ID = s.ID
	p.Name = s.Name
	p.Level = s.Level
	p.Experience = s.Experience
	p.AvailablePoints = s.AvailablePoints
	p.Gold = s.Gold
	p.Diamonds = s.Diamonds
	p.CurrentStage = s.CurrentStage
	p.Attributes = s.Attributes
	p.Furnace = entity.AlchemyFurnace{
		Level:              s.Furnace.Level,
		LastProductionTime: time.UnixMilli(s.Furnace.LastProductionTime),
		TotalProduced:      s.Furnace.TotalProduced,
	}
}

// EncodePlayer returns the player JSON stored in a slot.
func (s Snapshot) EncodePlayer() ([]byte, error) {
	data, err := json.Marshal(s.Player)
	if err != nil {
		return nil, fmt.Errorf("storage: encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses stored player JSON.
func DecodeSnapshot(data []byte, stage int, savedAt time.Time) (Snapshot, error) {
	var ps PlayerSnapshot
	if err := json.Unmarshal(data, &ps); err != nil {
		return Snapshot{}, fmt.Errorf("storage: decode snapshot: %w", err)
	}
	return Snapshot{Player: ps, Stage: max(1, stage), SavedAt: savedAt, raw: data}, nil
}

// Restore writes the snapshot into p. Fields missing from the stored JSON
// keep the values p already holds, so restoring over a fresh player fills
// gaps with defaults. Out-of-range values are repaired afterwards.
func (s Snapshot) Restore(p *entity.Player) error {
	merged := playerSnapshot(p)
	if s.raw != nil {
		if err := json.Unmarshal(s.raw, &merged); err != nil {
			return fmt.Errorf("storage: decode snapshot: %w", err)
		}
	} else {
		merged = s.Player
	}
	merged.applyTo(p)
	p.Normalize()
	return nil
}
