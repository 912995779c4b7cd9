package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/samdwyer/idlequest/internal/entity"
	"github.com/samdwyer/idlequest/internal/gamedata"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) (*SaveRepo, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "nested", "test.db")
	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewSaveRepo(db), db
}

func newTestPlayer() *entity.Player {
	return entity.NewPlayer(gamedata.MustLoadBalance().Player, epoch)
}

func TestLoadEmptySlot(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Load(context.Background(), DefaultSlot)
	if !errors.Is(err, ErrNoSave) {
		t.Fatalf("Load(empty) err = %v, want ErrNoSave", err)
	}
}

func TestSaveAndRestore(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	p := newTestPlayer()
	p.Level = 7
	p.Experience = 42
	p.AvailablePoints = 5
	p.Gold = 1234
	p.Diamonds = 3
	p.CurrentStage = 4
	p.Attributes.Attack = 40
	p.Furnace.Level = 3
	p.Furnace.TotalProduced = 900
	p.Furnace.LastProductionTime = epoch.Add(1500 * time.Millisecond)

	savedAt := epoch.Add(time.Minute)
	if err := repo.Save(ctx, DefaultSlot, Capture(p, 4, savedAt)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	snap, err := repo.Load(ctx, DefaultSlot)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !snap.SavedAt.Equal(savedAt) || snap.Stage != 4 {
		t.Errorf("loaded savedAt=%v stage=%d", snap.SavedAt, snap.Stage)
	}

	got := newTestPlayer()
	if err := snap.Restore(got); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got.ID != p.ID || got.Level != 7 || got.Gold != 1234 || got.CurrentStage != 4 || got.Diamonds != 3 {
		t.Errorf("restored player = %+v", got)
	}
	if got.Attributes != p.Attributes {
		t.Errorf("attributes = %+v, want %+v", got.Attributes, p.Attributes)
	}
	if got.Furnace.Level != 3 || got.Furnace.TotalProduced != 900 || !got.Furnace.LastProductionTime.Equal(p.Furnace.LastProductionTime) {
		t.Errorf("furnace = %+v", got.Furnace)
	}
}

func TestSaveOverwritesSlot(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	p := newTestPlayer()

	p.Gold = 10
	if err := repo.Save(ctx, DefaultSlot, Capture(p, 1, epoch)); err != nil {
		t.Fatal(err)
	}
	p.Gold = 20
	if err := repo.Save(ctx, DefaultSlot, Capture(p, 2, epoch.Add(time.Second))); err != nil {
		t.Fatal(err)
	}

	snap, err := repo.Load(ctx, DefaultSlot)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Player.Gold != 20 || snap.Stage != 2 {
		t.Errorf("slot holds gold=%d stage=%d, want 20/2", snap.Player.Gold, snap.Stage)
	}

	slots, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 1 {
		t.Errorf("List() = %d slots, want 1", len(slots))
	}
}

func TestRestoreKeepsDefaultsForMissingFields(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"name":"Ayla","gold":50,"attributes":{"attack":30}}`), 1, epoch)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}

	p := newTestPlayer()
	id := p.ID
	if err := snap.Restore(p); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if p.Name != "Ayla" || p.Gold != 50 || p.Attributes.Attack != 30 {
		t.Errorf("stored fields not applied: %+v", p)
	}
	if p.ID != id || p.Level != 1 || p.CurrentStage != 1 {
		t.Errorf("missing fields lost defaults: id=%q level=%d stage=%d", p.ID, p.Level, p.CurrentStage)
	}
	if p.Attributes.MaxHealth != 150 || p.Attributes.Defense != 8 {
		t.Errorf("missing attributes lost defaults: %+v", p.Attributes)
	}
	if p.Furnace.Level != 1 || !p.Furnace.LastProductionTime.Equal(epoch) {
		t.Errorf("missing furnace lost defaults: %+v", p.Furnace)
	}
}

func TestRestoreRepairsOutOfRange(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"level":0,"gold":-5,"attributes":{"health":999,"maxHealth":100}}`), 1, epoch)
	if err != nil {
		t.Fatal(err)
	}
	p := newTestPlayer()
	if err := snap.Restore(p); err != nil {
		t.Fatal(err)
	}
	if p.Level != 1 || p.Gold != 0 || p.Attributes.Health != 100 {
		t.Errorf("not normalized: level=%d gold=%d health=%d", p.Level, p.Gold, p.Attributes.Health)
	}
}

func TestLoadUndecodableSave(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, `INSERT INTO saves (slot, player, stage, saved_at) VALUES (?, ?, ?, ?)`,
		"broken", "{not json", 1, epoch.UnixMilli()); err != nil {
		t.Fatal(err)
	}

	_, err := repo.Load(ctx, "broken")
	if err == nil || errors.Is(err, ErrNoSave) {
		t.Fatalf("Load(broken) err = %v, want decode error", err)
	}
	if !strings.Contains(err.Error(), "storage: decode snapshot") {
		t.Errorf("error %q not wrapped", err)
	}
}

func TestCaptureFloorsStage(t *testing.T) {
	snap := Capture(newTestPlayer(), 0, epoch)
	if snap.Stage != 1 {
		t.Errorf("Capture stage = %d, want 1", snap.Stage)
	}
}

func TestOfflineClaims(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for i, gold := range []int{100, 250, 40} {
		at := epoch.Add(time.Duration(i) * time.Hour)
		if _, err := repo.RecordOfflineClaim(ctx, DefaultSlot, at, 10*time.Minute, gold); err != nil {
			t.Fatalf("RecordOfflineClaim: %v", err)
		}
	}
	if _, err := repo.RecordOfflineClaim(ctx, "other", epoch, time.Minute, 7); err != nil {
		t.Fatal(err)
	}

	claims, err := repo.OfflineClaims(ctx, DefaultSlot, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(claims) != 2 || claims[0].Gold != 40 || claims[1].Gold != 250 {
		t.Errorf("claims = %+v, want newest two", claims)
	}
	if claims[0].Elapsed != 10*time.Minute {
		t.Errorf("elapsed = %v", claims[0].Elapsed)
	}

	total, err := repo.TotalOfflineGold(ctx, DefaultSlot)
	if err != nil || total != 390 {
		t.Errorf("TotalOfflineGold = %d, %v; want 390", total, err)
	}
}

func TestDeleteSlot(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, DefaultSlot, Capture(newTestPlayer(), 1, epoch)); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.RecordOfflineClaim(ctx, DefaultSlot, epoch, time.Minute, 10); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, DefaultSlot); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := repo.Load(ctx, DefaultSlot); !errors.Is(err, ErrNoSave) {
		t.Errorf("Load after Delete err = %v", err)
	}
	if total, _ := repo.TotalOfflineGold(ctx, DefaultSlot); total != 0 {
		t.Errorf("claims survived Delete: %d", total)
	}
	if err := repo.Delete(ctx, DefaultSlot); err != nil {
		t.Errorf("Delete(empty) = %v", err)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO saves (slot, player, stage, saved_at) VALUES ('x', '{}', 1, 0)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx err = %v", err)
	}
	if _, err := repo.Load(ctx, "x"); !errors.Is(err, ErrNoSave) {
		t.Errorf("rolled-back row visible: %v", err)
	}
}

func TestResolveDBPath(t *testing.T) {
	t.Setenv(EnvDBPath, "/tmp/custom.db")
	if got, err := ResolveDBPath(); err != nil || got != "/tmp/custom.db" {
		t.Errorf("ResolveDBPath() = %q, %v", got, err)
	}

	t.Setenv(EnvDBPath, "")
	got, err := ResolveDBPath()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	if filepath.Base(got) != ".idlequest.db" {
		t.Errorf("default path = %q", got)
	}
}
