package battle

import (
	"sync/atomic"

	"github.com/samdwyer/idlequest/internal/combat"
	"github.com/samdwyer/idlequest/internal/entity"
)

// Event is a notification published by the orchestrator.
type Event interface {
	// Name is a short identifier used in logs and traces.
	Name() string
}

// DamageEvent is published for every attack.
type DamageEvent struct {
	Attacker combat.Combatant
	Defender combat.Combatant
	Damage   int
	Critical bool
}

// EnemyDefeatedEvent is published after the enemy's rewards are credited.
type EnemyDefeatedEvent struct {
	Enemy *entity.Enemy
}

// LevelUpEvent is published once per level gained.
type LevelUpEvent struct {
	NewLevel int
}

// BattleResultEvent is published when a fight ends, for either outcome:
// on a victory it precedes EnemyDefeatedEvent, on a defeat it precedes the
// revive countdown. Use PlayerWon to tell them apart.
type BattleResultEvent struct {
	Winner combat.Combatant
	Loser  combat.Combatant
}

// PlayerWon reports whether the loser was the enemy.
func (e BattleResultEvent) PlayerWon() bool {
	_, ok := e.Loser.(*entity.Enemy)
	return ok
}

// ReviveKind distinguishes countdown ticks from the revive itself.
type ReviveKind int

const (
	ReviveCountdown ReviveKind = iota
	ReviveDone
)

// String returns a human-readable kind name.
func (k ReviveKind) String() string {
	switch k {
	case ReviveCountdown:
		return "countdown"
	case ReviveDone:
		return "revived"
	default:
		return "unknown"
	}
}

// ReviveEvent is published each countdown second and once on revive.
// Seconds is zero for ReviveDone.
type ReviveEvent struct {
	Kind    ReviveKind
	Seconds int
}

// StageStartedEvent is published when a stage's enemies are generated.
type StageStartedEvent struct {
	Level int
}

// StageCompletedEvent is published when the boss falls.
type StageCompletedEvent struct {
	Level int
}

func (DamageEvent) Name() string         { return "damage" }
func (EnemyDefeatedEvent) Name() string  { return "enemy_defeated" }
func (LevelUpEvent) Name() string        { return "level_up" }
func (BattleResultEvent) Name() string   { return "battle_result" }
func (ReviveEvent) Name() string         { return "revive" }
func (StageStartedEvent) Name() string   { return "stage_started" }
func (StageCompletedEvent) Name() string { return "stage_completed" }

// Listener receives orchestrator events. HandleEvent runs inside a timer
// callback and must not block.
type Listener interface {
	HandleEvent(Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

// HandleEvent calls f(ev).
func (f ListenerFunc) HandleEvent(ev Event) {
	f(ev)
}

// ChannelListener forwards events to a buffered channel. When the buffer
// is full the event is dropped and counted.
type ChannelListener struct {
	C       chan Event
	dropped atomic.Int64
}

// NewChannelListener creates a listener with a buffer of size events.
func NewChannelListener(size int) *ChannelListener {
	return &ChannelListener{C: make(chan Event, size)}
}

// HandleEvent sends ev without blocking.
func (l *ChannelListener) HandleEvent(ev Event) {
	select {
	case l.C <- ev:
	default:
		l.dropped.Add(1)
	}
}

// Dropped returns how many events were discarded.
func (l *ChannelListener) Dropped() int64 {
	return l.dropped.Load()
}
