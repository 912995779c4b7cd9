package battle

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/idlequest/internal/clock"
	"github.com/samdwyer/idlequest/internal/combat"
	"github.com/samdwyer/idlequest/internal/entity"
	"github.com/samdwyer/idlequest/internal/gamedata"
	"github.com/samdwyer/idlequest/internal/progression"
	"github.com/samdwyer/idlequest/internal/telemetry"
)

// Manager drives the player through stages. Every transition happens in a
// scheduler callback or a direct method call on the scheduler's goroutine;
// a Manager is not safe for concurrent use.
type Manager struct {
	player   *entity.Player
	sched    *clock.Scheduler
	timers   *clock.Slots[timerKind]
	resolver *combat.Resolver
	levels   *progression.Engine
	factory  *entity.EnemyFactory
	rules    gamedata.CombatBalance
	normal   int

	listeners []Listener

	state      State
	stage      *Stage
	playerNext time.Time
	enemyNext  time.Time
	reviveLeft int

	// ctx parents the spans of one StartStage call and the timers it arms.
	ctx context.Context
}

// NewManager creates an idle orchestrator for player. Crits are rolled
// with rng; enemies come from factory.
func NewManager(player *entity.Player, sched *clock.Scheduler, balance *gamedata.Balance, factory *entity.EnemyFactory, rng combat.Roller) *Manager {
	return &Manager{
		player:   player,
		sched:    sched,
		timers:   clock.NewSlots[timerKind](),
		resolver: combat.NewResolver(balance.Combat, rng),
		levels:   progression.NewEngine(balance.Progression),
		factory:  factory,
		rules:    balance.Combat,
		normal:   balance.Stage.NormalEnemies,
		state:    StateIdle,
		ctx:      context.Background(),
	}
}

// Subscribe registers l for every future event.
func (m *Manager) Subscribe(l Listener) {
	m.listeners = append(m.listeners, l)
}

// State returns the current state.
func (m *Manager) State() State {
	return m.state
}

// Player returns the player being driven.
func (m *Manager) Player() *entity.Player {
	return m.player
}

// Stage returns the current stage, or nil.
func (m *Manager) Stage() *Stage {
	return m.stage
}

// CurrentEnemy returns the enemy being fought or next in line, or nil when
// there is no stage or its list is exhausted.
func (m *Manager) CurrentEnemy() *entity.Enemy {
	if m.stage == nil {
		return nil
	}
	return m.stage.Current()
}

// Progress returns a snapshot of the current stage. ok is false when no
// stage is loaded.
func (m *Manager) Progress() (progress StageProgress, ok bool) {
	if m.stage == nil {
		return StageProgress{}, false
	}
	return m.stage.Progress(), true
}

// StartStage generates a fresh stage at level and starts fighting its first
// enemy. It fails when the orchestrator is not idle or level is below 1.
// Starting during the pause between two enemies abandons the old stage.
func (m *Manager) StartStage(ctx context.Context, level int) bool {
	if m.state != StateIdle || level < 1 {
		return false
	}
	m.timers.CancelAll()
	m.ctx = ctx

	_, span := telemetry.Tracer("battle").Start(ctx, "stage.start")
	span.SetAttributes(
		attribute.Int("stage.level", level),
		attribute.Int("player.level", m.player.Level),
	)
	defer span.End()

	m.stage = NewStage(level, m.normal, m.factory)
	m.player.CurrentStage = level
	m.emit(StageStartedEvent{Level: level})
	m.fightCurrent()
	return true
}

// StopBattle cancels every timer and returns to idle, reviving the player
// if they are dead. The stage is kept so progress stays visible.
func (m *Manager) StopBattle() {
	m.timers.CancelAll()
	m.state = StateIdle
	m.reviveLeft = 0
	if m.player.IsDead() {
		m.player.Revive()
	}
}

// ResetStage stops the battle and discards the stage.
func (m *Manager) ResetStage() {
	m.StopBattle()
	m.stage = nil
}

// fightCurrent engages the stage's current enemy with fresh attack
// timestamps and arms the combat tick.
func (m *Manager) fightCurrent() {
	if m.stage == nil {
		m.state = StateIdle
		return
	}
	enemy := m.CurrentEnemy()
	if enemy == nil {
		m.completeStage()
		return
	}
	if enemy.IsDead() {
		enemy.ResetHealth()
	}
	m.state = StateFighting
	m.resetCadence(enemy)
	m.timers.Arm(timerBattle, func() *clock.Timer {
		return m.sched.Every(m.rules.Tick(), m.tick)
	})
}

func (m *Manager) resetCadence(enemy *entity.Enemy) {
	now := m.sched.Clock().Now()
	m.playerNext = now.Add(m.resolver.AttackInterval(m.player))
	m.enemyNext = now.Add(m.resolver.AttackInterval(enemy))
}

// tick resolves one combat step: player attack, enemy attack, then the
// shared death check.
func (m *Manager) tick() {
	enemy := m.CurrentEnemy()
	if m.state != StateFighting || enemy == nil {
		return
	}
	now := m.sched.Clock().Now()

	if !now.Before(m.playerNext) && !m.player.IsDead() {
		m.attack(m.player, enemy)
		m.playerNext = now.Add(m.resolver.AttackInterval(m.player))
	}
	if !now.Before(m.enemyNext) && !enemy.IsDead() {
		m.attack(enemy, m.player)
		m.enemyNext = now.Add(m.resolver.AttackInterval(enemy))
	}

	if m.player.IsDead() || enemy.IsDead() {
		m.timers.Cancel(timerBattle)
		if m.player.IsDead() {
			m.defeat(enemy)
		} else {
			m.victory(enemy)
		}
	}
}

func (m *Manager) attack(attacker, defender combat.Combatant) {
	hit := m.resolver.Strike(attacker, defender)
	m.emit(DamageEvent{
		Attacker: attacker,
		Defender: defender,
		Damage:   hit.Damage,
		Critical: hit.Critical,
	})
}

func (m *Manager) victory(enemy *entity.Enemy) {
	_, span := telemetry.Tracer("battle").Start(m.ctx, "battle.victory")
	span.SetAttributes(
		attribute.String("enemy.name", enemy.Name),
		attribute.Bool("enemy.boss", enemy.IsBoss),
		attribute.Int("reward.experience", enemy.Rewards.Experience),
		attribute.Int("reward.gold", enemy.Rewards.Gold),
	)
	defer span.End()

	m.player.GainExperience(float64(enemy.Rewards.Experience))
	m.player.GainGold(float64(enemy.Rewards.Gold))
	m.emit(BattleResultEvent{Winner: m.player, Loser: enemy})
	m.emit(EnemyDefeatedEvent{Enemy: enemy})

	m.levels.ApplyLevelUps(m.player, func(newLevel int) {
		_, ls := telemetry.Tracer("battle").Start(m.ctx, "player.level_up")
		ls.SetAttributes(attribute.Int("player.level", newLevel))
		ls.End()
		m.emit(LevelUpEvent{NewLevel: newLevel})
	})

	if m.stage.Advance() {
		m.completeStage()
		return
	}
	m.state = StateIdle
	m.timers.Arm(timerAdvance, func() *clock.Timer {
		return m.sched.After(m.rules.NextEnemyDelay(), m.fightCurrent)
	})
}

func (m *Manager) completeStage() {
	m.stage.IsCompleted = true
	m.state = StateStageCompleted
	level := m.stage.Level
	m.emit(StageCompletedEvent{Level: level})

	m.timers.Arm(timerAdvance, func() *clock.Timer {
		return m.sched.After(m.rules.StageCompleteDelay(), func() {
			m.stage = nil
			m.state = StateIdle
			m.StartStage(m.ctx, level)
		})
	})
}

func (m *Manager) defeat(enemy *entity.Enemy) {
	_, span := telemetry.Tracer("battle").Start(m.ctx, "battle.defeat")
	span.SetAttributes(
		attribute.String("enemy.name", enemy.Name),
		attribute.Int("enemy.health", enemy.Attributes.Health),
		attribute.Int("stage.level", m.stage.Level),
	)
	span.End()

	m.state = StatePlayerDefeated
	m.emit(BattleResultEvent{Winner: enemy, Loser: m.player})
	m.startRevive()
}

// startRevive announces each remaining second, first immediately, and
// revives once the countdown reaches zero.
func (m *Manager) startRevive() {
	m.state = StateReviving
	cadence := m.rules.ReviveCadence()
	m.reviveLeft = int(m.rules.Revive() / cadence)
	if m.reviveLeft <= 0 {
		m.revive()
		return
	}
	m.emit(ReviveEvent{Kind: ReviveCountdown, Seconds: m.reviveLeft})

	m.timers.Arm(timerRevive, func() *clock.Timer {
		return m.sched.Every(cadence, func() {
			if m.state != StateReviving {
				return
			}
			m.reviveLeft--
			if m.reviveLeft > 0 {
				m.emit(ReviveEvent{Kind: ReviveCountdown, Seconds: m.reviveLeft})
				return
			}
			m.timers.Cancel(timerRevive)
			m.revive()
		})
	})
}

func (m *Manager) revive() {
	_, span := telemetry.Tracer("battle").Start(m.ctx, "player.revive")
	span.SetAttributes(attribute.Int("player.max_health", m.player.Attributes.MaxHealth))
	span.End()

	m.player.Revive()
	if enemy := m.CurrentEnemy(); enemy != nil {
		enemy.ResetHealth()
	}
	m.emit(ReviveEvent{Kind: ReviveDone})
	m.fightCurrent()
}

func (m *Manager) emit(ev Event) {
	for _, l := range m.listeners {
		l.HandleEvent(ev)
	}
}
