package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/idlequest/internal/telemetry"
)

// DefaultSlot is the save slot used when none is configured.
const DefaultSlot = "main"

// ErrNoSave is returned when a slot holds no save.
var ErrNoSave = errors.New("storage: no save in slot")

// SlotInfo summarizes one save slot.
type SlotInfo struct {
	Slot    string
	Stage   int
	SavedAt time.Time
}

// OfflineClaim is one recorded catch-up credit.
type OfflineClaim struct {
	ID        int64
	Slot      string
	ClaimedAt time.Time
	Elapsed   time.Duration
	Gold      int
}

// SaveRepo reads and writes save slots.
type SaveRepo struct {
	db *sql.DB
}

// NewSaveRepo wraps db.
func NewSaveRepo(db *sql.DB) *SaveRepo {
	return &SaveRepo{db: db}
}

// Save writes snap to slot, replacing any previous save.
func (r *SaveRepo) Save(ctx context.Context, slot string, snap Snapshot) error {
	ctx, span := telemetry.Tracer("storage").Start(ctx, "save.write")
	span.SetAttributes(
		attribute.String("save.slot", slot),
		attribute.Int("save.stage", snap.Stage),
		attribute.Int("player.level", snap.Player.Level),
	)
	defer span.End()

	data, err := snap.EncodePlayer()
	if err != nil {
		span.RecordError(err)
		return err
	}
	err = WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO saves (slot, player, stage, saved_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(slot) DO UPDATE SET
				player = excluded.player,
				stage = excluded.stage,
				saved_at = excluded.saved_at
		`, slot, string(data), snap.Stage, snap.SavedAt.UnixMilli())
		if err != nil {
			return fmt.Errorf("save upsert: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// Load reads the save in slot. It returns ErrNoSave for an empty slot.
func (r *SaveRepo) Load(ctx context.Context, slot string) (Snapshot, error) {
	ctx, span := telemetry.Tracer("storage").Start(ctx, "save.load")
	span.SetAttributes(attribute.String("save.slot", slot))
	defer span.End()

	row := r.db.QueryRowContext(ctx, `SELECT player, stage, saved_at FROM saves WHERE slot = ?`, slot)

	var (
		data    string
		stage   int
		savedAt int64
	)
	if err := row.Scan(&data, &stage, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			span.SetAttributes(attribute.Bool("save.found", false))
			return Snapshot{}, ErrNoSave
		}
		span.RecordError(err)
		return Snapshot{}, fmt.Errorf("save get: %w", err)
	}
	span.SetAttributes(attribute.Bool("save.found", true))

	snap, err := DecodeSnapshot([]byte(data), stage, time.UnixMilli(savedAt))
	if err != nil {
		span.RecordError(err)
		return Snapshot{}, err
	}
	return snap, nil
}

// Delete removes slot and its claim history. Deleting an empty slot is not an error.
func (r *SaveRepo) Delete(ctx context.Context, slot string) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot); err != nil {
			return fmt.Errorf("save delete: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM offline_claims WHERE slot = ?`, slot); err != nil {
			return fmt.Errorf("offline claims delete: %w", err)
		}
		return nil
	})
}

// List returns every slot, most recently saved first.
func (r *SaveRepo) List(ctx context.Context) ([]SlotInfo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT slot, stage, saved_at FROM saves ORDER BY saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("save list: %w", err)
	}
	defer rows.Close()

	var out []SlotInfo
	for rows.Next() {
		var (
			info    SlotInfo
			savedAt int64
		)
		if err := rows.Scan(&info.Slot, &info.Stage, &savedAt); err != nil {
			return nil, fmt.Errorf("save list scan: %w", err)
		}
		info.SavedAt = time.UnixMilli(savedAt)
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("save list rows: %w", err)
	}
	return out, nil
}

// RecordOfflineClaim appends a catch-up credit to slot's history.
func (r *SaveRepo) RecordOfflineClaim(ctx context.Context, slot string, claimedAt time.Time, elapsed time.Duration, gold int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO offline_claims (slot, claimed_at, elapsed_ms, gold)
		VALUES (?, ?, ?, ?)
	`, slot, claimedAt.UnixMilli(), elapsed.Milliseconds(), gold)
	if err != nil {
		return 0, fmt.Errorf("offline claim insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("offline claim last insert id: %w", err)
	}
	return id, nil
}

// OfflineClaims returns up to limit claims for slot, newest first.
func (r *SaveRepo) OfflineClaims(ctx context.Context, slot string, limit int) ([]OfflineClaim, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, slot, claimed_at, elapsed_ms, gold
		FROM offline_claims
		WHERE slot = ?
		ORDER BY claimed_at DESC, id DESC
		LIMIT ?
	`, slot, limit)
	if err != nil {
		return nil, fmt.Errorf("offline claims: %w", err)
	}
	defer rows.Close()

	var out []OfflineClaim
	for rows.Next() {
		var (
			c         OfflineClaim
			claimedAt int64
			elapsedMs int64
		)
		if err := rows.Scan(&c.ID, &c.Slot, &claimedAt, &elapsedMs, &c.Gold); err != nil {
			return nil, fmt.Errorf("offline claims scan: %w", err)
		}
		c.ClaimedAt = time.UnixMilli(claimedAt)
		c.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("offline claims rows: %w", err)
	}
	return out, nil
}

// TotalOfflineGold sums every claim for slot.
func (r *SaveRepo) TotalOfflineGold(ctx context.Context, slot string) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(gold), 0) FROM offline_claims WHERE slot = ?`, slot)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("offline gold sum: %w", err)
	}
	return n, nil
}
