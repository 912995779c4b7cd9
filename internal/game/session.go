package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/samdwyer/idlequest/internal/battle"
	"github.com/samdwyer/idlequest/internal/clock"
	"github.com/samdwyer/idlequest/internal/entity"
	"github.com/samdwyer/idlequest/internal/gamedata"
	"github.com/samdwyer/idlequest/internal/production"
	"github.com/samdwyer/idlequest/internal/progression"
	"github.com/samdwyer/idlequest/internal/storage"
)

const messageLogSize = 100

// ErrSlotUnreadable is returned by Save while the slot holds a save that
// Load could not read. Reset clears it.
var ErrSlotUnreadable = errors.New("save slot is unreadable")

// Session owns one player and every engine that acts on it. All methods
// must be called from the goroutine that calls Update.
type Session struct {
	cfg     Config
	balance *gamedata.Balance
	sched   *clock.Scheduler
	player  *entity.Player
	battle  *battle.Manager
	furnace *production.Engine
	levels  *progression.Engine
	repo    *storage.SaveRepo
	log     *MessageLog

	offline    production.OfflineReport
	lastSave   time.Time
	unreadable error
	timers     []*clock.Timer
}

// NewSession builds a session with a fresh player. repo may be nil, in
// which case saving and loading are no-ops.
func NewSession(cfg Config, clk clock.Clock, repo *storage.SaveRepo) (*Session, error) {
	balance, err := gamedata.LoadBalance()
	if err != nil {
		return nil, fmt.Errorf("load balance: %w", err)
	}
	names, err := gamedata.LoadNameRegistry()
	if err != nil {
		return nil, fmt.Errorf("load enemy names: %w", err)
	}
	if cfg.Slot == "" {
		cfg.Slot = storage.DefaultSlot
	}

	rng := rand.New(rand.NewSource(cfg.ResolvedSeed()))
	sched := clock.NewScheduler(clk)
	player := entity.NewPlayer(balance.Player, clk.Now())

	s := &Session{
		cfg:     cfg,
		balance: balance,
		sched:   sched,
		player:  player,
		battle:  battle.NewManager(player, sched, balance, entity.NewEnemyFactory(balance.Enemy, names, rng), rng),
		furnace: production.NewEngine(balance.Furnace, clk),
		levels:  progression.NewEngine(balance.Progression),
		repo:    repo,
		log:     NewMessageLog(messageLogSize),
	}
	s.battle.Subscribe(s)
	return s, nil
}

func (s *Session) now() time.Time {
	return s.sched.Clock().Now()
}

// Player returns the session's player.
func (s *Session) Player() *entity.Player { return s.player }

// Battle returns the battle orchestrator.
func (s *Session) Battle() *battle.Manager { return s.battle }

// Furnace returns the production engine.
func (s *Session) Furnace() *production.Engine { return s.furnace }

// Levels returns the progression engine.
func (s *Session) Levels() *progression.Engine { return s.levels }

// Messages returns the battle log.
func (s *Session) Messages() *MessageLog { return s.log }

// Scheduler returns the session's timer scheduler.
func (s *Session) Scheduler() *clock.Scheduler { return s.sched }

// Config returns the session configuration.
func (s *Session) Config() Config { return s.cfg }

// LastSave returns when the session last wrote its slot.
func (s *Session) LastSave() time.Time { return s.lastSave }

// OfflineReport returns the catch-up credit applied by the last Load.
func (s *Session) OfflineReport() production.OfflineReport { return s.offline }

// HandleEvent records orchestrator events in the message log.
func (s *Session) HandleEvent(ev battle.Event) {
	if kind, text, ok := describe(ev); ok {
		s.log.Add(kind, s.now(), "%s", text)
	}
}

// Load restores the configured slot and credits offline production. An
// empty slot leaves the fresh player in place. An unreadable slot is
// reported and also leaves the fresh player in place, but the slot is
// protected from Save until Reset.
func (s *Session) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	snap, err := s.repo.Load(ctx, s.cfg.Slot)
	if errors.Is(err, storage.ErrNoSave) {
		s.log.Add(MessageInfo, s.now(), "A new adventure begins")
		return nil
	}
	if err == nil {
		err = snap.Restore(s.player)
	}
	if err != nil {
		*s.player = *entity.NewPlayer(s.balance.Player, s.now())
		s.unreadable = fmt.Errorf("load slot %q: %w", s.cfg.Slot, err)
		s.log.Add(MessageError, s.now(), "Save could not be read, starting fresh")
		s.log.Add(MessageWarning, s.now(), "Progress will not be saved until the slot is reset")
		return s.unreadable
	}
	s.lastSave = snap.SavedAt

	s.offline = s.furnace.ApplyOffline(ctx, s.player, snap.SavedAt)
	if s.offline.Gold > 0 {
		if _, err := s.repo.RecordOfflineClaim(ctx, s.cfg.Slot, s.now(), s.offline.Elapsed, s.offline.Gold); err != nil {
			log.Printf("Warning: offline claim not recorded: %v", err)
		}
	}
	if s.offline.Notable {
		s.log.Add(MessageSuccess, s.now(), "While you were away (%s) the furnace produced %d gold",
			FormatDuration(s.offline.Elapsed), s.offline.Gold)
	} else {
		s.log.Add(MessageInfo, s.now(), "Welcome back, %s", s.player.Name)
	}
	return nil
}

// Unreadable returns the load error protecting the slot, or nil.
func (s *Session) Unreadable() error { return s.unreadable }

// Save writes the player to the configured slot.
func (s *Session) Save(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	if s.unreadable != nil {
		return fmt.Errorf("save slot %q: %w", s.cfg.Slot, ErrSlotUnreadable)
	}
	stage := s.player.CurrentStage
	if progress, ok := s.battle.Progress(); ok {
		stage = progress.Level
	}
	now := s.now()
	if err := s.repo.Save(ctx, s.cfg.Slot, storage.Capture(s.player, stage, now)); err != nil {
		return fmt.Errorf("save slot %q: %w", s.cfg.Slot, err)
	}
	s.lastSave = now
	return nil
}

// Start arms the furnace collection tick and, when configured, autosave.
func (s *Session) Start(ctx context.Context) {
	s.Stop()
	s.timers = append(s.timers, s.sched.Every(s.balance.Combat.Tick(), func() {
		s.furnace.Collect(ctx, s.player)
	}))
	if s.cfg.AutosaveEvery > 0 && s.repo != nil && s.unreadable == nil {
		s.timers = append(s.timers, s.sched.Every(s.cfg.AutosaveEvery, func() {
			if err := s.Save(ctx); err != nil {
				log.Printf("Autosave failed: %v", err)
				s.log.Add(MessageError, s.now(), "Autosave failed")
			}
		}))
	}
}

// Stop cancels the session timers and the battle.
func (s *Session) Stop() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.battle.StopBattle()
}

// Update fires every due timer. It returns how many callbacks ran.
func (s *Session) Update() int {
	return s.sched.RunDue()
}

// StartBattle starts the player's current stage.
func (s *Session) StartBattle(ctx context.Context) bool {
	stage := s.player.CurrentStage
	if !s.battle.StartStage(ctx, stage) {
		s.log.Add(MessageWarning, s.now(), "Battle already in progress")
		return false
	}
	return true
}

// StopBattle leaves combat, keeping the stage on screen.
func (s *Session) StopBattle() {
	if s.battle.State() == battle.StateIdle && s.battle.Stage() == nil {
		return
	}
	s.battle.StopBattle()
	s.log.Add(MessageInfo, s.now(), "Battle stopped")
}

// currentStage is the stage being fought, or the saved one when idle.
func (s *Session) currentStage() int {
	if progress, ok := s.battle.Progress(); ok {
		return progress.Level
	}
	return s.player.CurrentStage
}

// NextStage abandons the current stage and starts the next one.
func (s *Session) NextStage(ctx context.Context) bool {
	return s.jumpStage(ctx, s.currentStage()+1)
}

// PrevStage abandons the current stage and starts the previous one. It
// fails at stage 1.
func (s *Session) PrevStage(ctx context.Context) bool {
	stage := s.currentStage()
	if stage <= 1 {
		s.log.Add(MessageWarning, s.now(), "Already at the first stage")
		return false
	}
	return s.jumpStage(ctx, stage-1)
}

func (s *Session) jumpStage(ctx context.Context, level int) bool {
	s.battle.ResetStage()
	if !s.battle.StartStage(ctx, level) {
		return false
	}
	s.log.Add(MessageInfo, s.now(), "Moved to stage %d", level)
	return true
}

// Allocate spends available points on attr.
func (s *Session) Allocate(attr entity.Attribute, points int) bool {
	if !s.levels.AllocateAttribute(s.player, attr, points) {
		s.log.Add(MessageWarning, s.now(), "Cannot allocate %d to %s", points, attr.Label())
		return false
	}
	s.log.Add(MessageSuccess, s.now(), "%s +%d", attr.Label(), points)
	return true
}

// CollectFurnace credits any finished furnace ticks.
func (s *Session) CollectFurnace(ctx context.Context) int {
	gold := s.furnace.Collect(ctx, s.player)
	if gold == 0 {
		s.log.Add(MessageInfo, s.now(), "Furnace still working, next batch in %s",
			FormatDuration(s.furnace.TimeToNextTick(s.player)))
		return 0
	}
	s.log.Add(MessageSuccess, s.now(), "Collected %d gold from the furnace", gold)
	return gold
}

// UpgradeFurnace buys the next furnace level.
func (s *Session) UpgradeFurnace(ctx context.Context) bool {
	cost := s.furnace.UpgradeCost(s.player)
	if !s.furnace.Upgrade(ctx, s.player) {
		s.log.Add(MessageWarning, s.now(), "Need %d gold to upgrade the furnace", cost)
		return false
	}
	s.log.Add(MessageSuccess, s.now(), "Furnace upgraded to level %d (%d gold per batch)",
		s.player.Furnace.Level, s.furnace.Rate(s.player))
	return true
}

// Reset discards all progress and deletes the save slot.
func (s *Session) Reset(ctx context.Context) error {
	s.battle.ResetStage()
	*s.player = *entity.NewPlayer(s.balance.Player, s.now())
	s.offline = production.OfflineReport{}
	if s.repo != nil {
		if err := s.repo.Delete(ctx, s.cfg.Slot); err != nil {
			return fmt.Errorf("reset slot %q: %w", s.cfg.Slot, err)
		}
	}
	s.unreadable = nil
	s.lastSave = time.Time{}
	s.log.Add(MessageWarning, s.now(), "Progress reset")
	return nil
}

// FormatDuration renders d as "1h 5m", "3m 20s" or "4.2s".
func FormatDuration(d time.Duration) string {
	d = max(0, d)
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
}
