package game

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/samdwyer/idlequest/internal/battle"
	"github.com/samdwyer/idlequest/internal/clock"
	"github.com/samdwyer/idlequest/internal/entity"
	"github.com/samdwyer/idlequest/internal/storage"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestRepoDB(t *testing.T) (*storage.SaveRepo, *sql.DB) {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewSaveRepo(db), db
}

func newTestRepo(t *testing.T) *storage.SaveRepo {
	t.Helper()
	repo, _ := newTestRepoDB(t)
	return repo
}

func newTestSession(t *testing.T, repo *storage.SaveRepo, at time.Time) (*Session, *clock.Mock) {
	t.Helper()
	clk := clock.NewMock(at)
	s, err := NewSession(Config{Seed: 1, Slot: "test"}, clk, repo)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s, clk
}

func hasMessage(s *Session, text string) bool {
	for _, m := range s.Messages().Recent(messageLogSize) {
		if strings.Contains(m.Text, text) {
			return true
		}
	}
	return false
}

func TestLoadEmptySlotKeepsFreshPlayer(t *testing.T) {
	s, _ := newTestSession(t, newTestRepo(t), epoch)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Player().Level != 1 || s.Player().Gold != 0 {
		t.Errorf("fresh player changed: %+v", s.Player())
	}
	if !hasMessage(s, "new adventure") {
		t.Error("no welcome message for a new game")
	}
}

func TestSaveLoadCreditsOfflineProduction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, _ := newTestSession(t, repo, epoch)
	first.Player().Gold = 100
	first.Player().CurrentStage = 3
	if err := first.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second, clk := newTestSession(t, repo, epoch.Add(10*time.Minute))
	if err := second.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	p := second.Player()
	// 600s at one batch of 10 gold every 5s.
	if p.Gold != 100+1200 {
		t.Errorf("gold = %d, want 1300", p.Gold)
	}
	if p.ID != first.Player().ID || p.CurrentStage != 3 {
		t.Errorf("restored id=%q stage=%d", p.ID, p.CurrentStage)
	}
	if !p.Furnace.LastProductionTime.Equal(clk.Now()) {
		t.Errorf("furnace checkpoint = %v, want now", p.Furnace.LastProductionTime)
	}

	report := second.OfflineReport()
	if !report.Notable || report.Gold != 1200 || report.Elapsed != 10*time.Minute {
		t.Errorf("report = %+v", report)
	}
	if !hasMessage(second, "While you were away") {
		t.Error("no offline message")
	}

	total, err := repo.TotalOfflineGold(ctx, "test")
	if err != nil || total != 1200 {
		t.Errorf("recorded claims = %d, %v; want 1200", total, err)
	}
}

func TestLoadShortAbsenceIsQuiet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, _ := newTestSession(t, repo, epoch)
	if err := first.Save(ctx); err != nil {
		t.Fatal(err)
	}
	second, _ := newTestSession(t, repo, epoch.Add(30*time.Second))
	if err := second.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if second.OfflineReport().Notable || hasMessage(second, "While you were away") {
		t.Error("30s absence announced")
	}
	if second.Player().Gold != 60 {
		t.Errorf("gold = %d, want 60", second.Player().Gold)
	}
}

func TestLoadUndecodableSaveStartsFresh(t *testing.T) {
	repo, db := newTestRepoDB(t)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx,
		`INSERT INTO saves (slot, player, stage, saved_at) VALUES ('test', '{oops', 1, 0)`); err != nil {
		t.Fatal(err)
	}

	s, _ := newTestSession(t, repo, epoch)
	if err := s.Load(ctx); err == nil {
		t.Fatal("Load of a corrupt slot returned nil")
	}
	if s.Player().Level != 1 || s.Player().Gold != 0 {
		t.Errorf("player = %+v, want fresh", s.Player())
	}
	if !hasMessage(s, "starting fresh") {
		t.Error("corrupt save not reported in the log")
	}
	if s.Unreadable() == nil {
		t.Error("Unreadable() = nil after a failed load")
	}
}

func TestUnreadableSlotIsNeverOverwritten(t *testing.T) {
	repo, db := newTestRepoDB(t)
	ctx := context.Background()

	const corrupt = `{"id":"p1","name":"Veteran","level":40,"gold":99999,`
	if _, err := db.ExecContext(ctx,
		`INSERT INTO saves (slot, player, stage, saved_at) VALUES ('test', ?, 7, 0)`, corrupt); err != nil {
		t.Fatal(err)
	}

	s, clk := newTestSession(t, repo, epoch)
	s.cfg.AutosaveEvery = 30 * time.Second
	_ = s.Load(ctx)

	if err := s.Save(ctx); !errors.Is(err, ErrSlotUnreadable) {
		t.Errorf("Save err = %v, want ErrSlotUnreadable", err)
	}
	s.Start(ctx)
	clock.Drive(clk, s.Scheduler(), time.Minute)
	s.Stop()

	var raw string
	if err := db.QueryRowContext(ctx, `SELECT player FROM saves WHERE slot = 'test'`).Scan(&raw); err != nil {
		t.Fatal(err)
	}
	if raw != corrupt {
		t.Errorf("slot rewritten to %q", raw)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if s.Unreadable() != nil {
		t.Error("Reset left the slot protected")
	}
	if err := s.Save(ctx); err != nil {
		t.Errorf("Save after Reset: %v", err)
	}
}

func TestStartAutoCollectsFurnace(t *testing.T) {
	s, clk := newTestSession(t, nil, epoch)
	s.Start(context.Background())

	clock.Drive(clk, s.Scheduler(), 15*time.Second)
	if s.Player().Gold != 30 {
		t.Errorf("gold after 15s = %d, want 30", s.Player().Gold)
	}
}

func TestAutosave(t *testing.T) {
	repo := newTestRepo(t)
	s, clk := newTestSession(t, repo, epoch)
	s.cfg.AutosaveEvery = 30 * time.Second
	s.Start(context.Background())

	clock.Drive(clk, s.Scheduler(), 29*time.Second)
	if !s.LastSave().IsZero() {
		t.Fatal("saved before the autosave period")
	}
	clock.Drive(clk, s.Scheduler(), time.Second)

	snap, err := repo.Load(context.Background(), "test")
	if err != nil {
		t.Fatalf("Load after autosave: %v", err)
	}
	if !snap.SavedAt.Equal(epoch.Add(30 * time.Second)) {
		t.Errorf("savedAt = %v", snap.SavedAt)
	}
}

func TestStopCancelsSessionTimers(t *testing.T) {
	s, _ := newTestSession(t, nil, epoch)
	ctx := context.Background()
	s.Start(ctx)
	s.StartBattle(ctx)
	s.Stop()

	if n := s.Scheduler().Pending(); n != 0 {
		t.Errorf("pending timers after Stop = %d", n)
	}
}

func TestStartBattleUsesSavedStage(t *testing.T) {
	s, _ := newTestSession(t, nil, epoch)
	s.Player().CurrentStage = 3

	if !s.StartBattle(context.Background()) {
		t.Fatal("StartBattle failed")
	}
	progress, ok := s.Battle().Progress()
	if !ok || progress.Level != 3 {
		t.Errorf("progress = %+v, want stage 3", progress)
	}
	if s.StartBattle(context.Background()) {
		t.Error("second StartBattle succeeded while fighting")
	}
	if !hasMessage(s, "Stage 3 begins") {
		t.Error("stage start not logged")
	}
}

func TestStageNavigation(t *testing.T) {
	s, _ := newTestSession(t, nil, epoch)
	ctx := context.Background()

	if s.PrevStage(ctx) {
		t.Error("PrevStage succeeded at stage 1")
	}
	if !s.NextStage(ctx) {
		t.Fatal("NextStage failed")
	}
	if s.Battle().State() != battle.StateFighting || s.Player().CurrentStage != 2 {
		t.Errorf("after next: state=%v stage=%d", s.Battle().State(), s.Player().CurrentStage)
	}
	if !s.NextStage(ctx) || s.Player().CurrentStage != 3 {
		t.Fatalf("second NextStage: stage=%d", s.Player().CurrentStage)
	}
	if !s.PrevStage(ctx) || s.Player().CurrentStage != 2 {
		t.Errorf("PrevStage: stage=%d", s.Player().CurrentStage)
	}
}

func TestStopBattleKeepsStage(t *testing.T) {
	s, _ := newTestSession(t, nil, epoch)
	ctx := context.Background()
	s.StartBattle(ctx)
	s.StopBattle()

	if s.Battle().State() != battle.StateIdle {
		t.Errorf("state = %v", s.Battle().State())
	}
	if _, ok := s.Battle().Progress(); !ok {
		t.Error("stage discarded on stop")
	}
	if !s.StartBattle(ctx) {
		t.Error("cannot restart after stop")
	}
}

func TestAllocate(t *testing.T) {
	s, _ := newTestSession(t, nil, epoch)

	if s.Allocate(entity.AttrAttack, 1) {
		t.Error("Allocate succeeded without points")
	}
	s.Player().AvailablePoints = 5
	if !s.Allocate(entity.AttrAttack, 2) {
		t.Fatal("Allocate failed with points")
	}
	if s.Player().Attributes.Attack != 27 || s.Player().AvailablePoints != 3 {
		t.Errorf("attack=%d points=%d", s.Player().Attributes.Attack, s.Player().AvailablePoints)
	}
}

func TestFurnaceCommands(t *testing.T) {
	s, clk := newTestSession(t, nil, epoch)
	ctx := context.Background()

	if s.CollectFurnace(ctx) != 0 || !hasMessage(s, "next batch in") {
		t.Error("early collect not reported")
	}
	clk.Advance(10 * time.Second)
	if got := s.CollectFurnace(ctx); got != 20 {
		t.Errorf("CollectFurnace = %d, want 20", got)
	}

	if s.UpgradeFurnace(ctx) {
		t.Error("upgrade succeeded with 20 gold")
	}
	s.Player().Gold = 100
	if !s.UpgradeFurnace(ctx) || s.Player().Furnace.Level != 2 || s.Player().Gold != 0 {
		t.Errorf("upgrade: level=%d gold=%d", s.Player().Furnace.Level, s.Player().Gold)
	}
}

func TestReset(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s, _ := newTestSession(t, repo, epoch)
	p := s.Player()
	p.Level = 12
	p.Gold = 5000
	s.StartBattle(ctx)
	if err := s.Save(ctx); err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if s.Player() != p {
		t.Error("Reset replaced the player pointer held by the battle manager")
	}
	if p.Level != 1 || p.Gold != 0 || s.Battle().Stage() != nil {
		t.Errorf("after reset level=%d gold=%d stage=%v", p.Level, p.Gold, s.Battle().Stage())
	}
	if _, err := repo.Load(ctx, "test"); err == nil {
		t.Error("save survived Reset")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-time.Second, "0.0s"},
		{4200 * time.Millisecond, "4.2s"},
		{3*time.Minute + 20*time.Second, "3m 20s"},
		{65 * time.Minute, "1h 5m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestMessageLogKeepsNewest(t *testing.T) {
	l := NewMessageLog(3)
	for i := 1; i <= 5; i++ {
		l.Add(MessageInfo, epoch, "line %d", i)
	}
	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
	recent := l.Recent(2)
	if len(recent) != 2 || recent[0].Text != "line 4" || recent[1].Text != "line 5" {
		t.Errorf("Recent(2) = %+v", recent)
	}
}
