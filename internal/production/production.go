// Package production implements the alchemy furnace: idle gold accrual on a
// fixed tick, offline catch-up, and the upgrade cost curve.
//
// The furnace's LastProductionTime is a checkpoint that only this package
// moves. Collect advances it by whole intervals, so partial-interval time is
// carried into the next call rather than lost or counted twice.
package production

import (
	"context"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/idlequest/internal/clock"
	"github.com/samdwyer/idlequest/internal/entity"
	"github.com/samdwyer/idlequest/internal/gamedata"
	"github.com/samdwyer/idlequest/internal/telemetry"
)

// OfflineReport describes a catch-up credit applied on load.
type OfflineReport struct {
	Elapsed time.Duration // Time since the save was written
	Gold    int           // Gold credited for the absence
	Notable bool          // Absence exceeded the announcement threshold
}

// Engine applies furnace rules to a player.
type Engine struct {
	rules gamedata.FurnaceBalance
	clock clock.Clock
}

// NewEngine creates a furnace engine reading time from clk.
func NewEngine(rules gamedata.FurnaceBalance, clk clock.Clock) *Engine {
	return &Engine{rules: rules, clock: clk}
}

// Interval is the furnace tick period.
func (e *Engine) Interval() time.Duration {
	return e.rules.Interval()
}

// RateAt is the gold produced per tick at a furnace level.
func (e *Engine) RateAt(level int) int {
	level = max(1, level)
	return int(math.Floor(e.rules.BaseRate * math.Pow(e.rules.RateMultiplier, float64(level-1))))
}

// Rate is the gold produced per tick by the player's furnace.
func (e *Engine) Rate(p *entity.Player) int {
	return e.RateAt(p.Furnace.Level)
}

// cycles splits elapsed into whole furnace ticks.
func (e *Engine) cycles(elapsed time.Duration) int64 {
	if elapsed <= 0 {
		return 0
	}
	return int64(elapsed / e.Interval())
}

// Collect credits every whole tick elapsed since the checkpoint and moves
// the checkpoint forward by exactly those ticks. It returns the gold credited,
// zero when less than one interval has passed.
func (e *Engine) Collect(ctx context.Context, p *entity.Player) int {
	f := &p.Furnace
	elapsed := e.clock.Now().Sub(f.LastProductionTime)
	n := e.cycles(elapsed)
	if n == 0 {
		return 0
	}

	production := e.Rate(p) * int(n)
	p.GainGold(float64(production))
	f.TotalProduced += production
	f.LastProductionTime = f.LastProductionTime.Add(time.Duration(n) * e.Interval())

	_, span := telemetry.Tracer("furnace").Start(ctx, "furnace.collect")
	span.SetAttributes(
		attribute.Int("furnace.level", f.Level),
		attribute.Int64("furnace.cycles", n),
		attribute.Int("furnace.gold", production),
	)
	span.End()

	return production
}

// Offline previews the gold a furnace earns over elapsed without changing
// any state.
func (e *Engine) Offline(p *entity.Player, elapsed time.Duration) int {
	return e.Rate(p) * int(e.cycles(elapsed))
}

// ApplyOffline credits the catch-up production for the time since savedAt
// and rebases the checkpoint to now.
func (e *Engine) ApplyOffline(ctx context.Context, p *entity.Player, savedAt time.Time) OfflineReport {
	now := e.clock.Now()
	elapsed := max(0, now.Sub(savedAt))

	report := OfflineReport{
		Elapsed: elapsed,
		Gold:    e.Offline(p, elapsed),
		Notable: elapsed > e.rules.OfflineNotice(),
	}
	if report.Gold > 0 {
		p.GainGold(float64(report.Gold))
		p.Furnace.TotalProduced += report.Gold
	}
	p.Furnace.LastProductionTime = now

	_, span := telemetry.Tracer("furnace").Start(ctx, "furnace.offline")
	span.SetAttributes(
		attribute.Int64("offline.elapsed_ms", elapsed.Milliseconds()),
		attribute.Int("offline.gold", report.Gold),
	)
	span.End()

	return report
}

// CostAt is the gold needed to upgrade a furnace from level.
func (e *Engine) CostAt(level int) int {
	level = max(1, level)
	return int(math.Floor(e.rules.UpgradeCostBase * math.Pow(e.rules.UpgradeCostMultiplier, float64(level-1))))
}

// UpgradeCost is the gold needed for the player's next furnace level.
func (e *Engine) UpgradeCost(p *entity.Player) int {
	return e.CostAt(p.Furnace.Level)
}

// CanUpgrade reports whether the player can afford the next level.
func (e *Engine) CanUpgrade(p *entity.Player) bool {
	return p.Gold >= e.UpgradeCost(p)
}

// Upgrade spends the upgrade cost and raises the furnace one level.
// It returns false without changes when the player cannot afford it.
func (e *Engine) Upgrade(ctx context.Context, p *entity.Player) bool {
	if !e.CanUpgrade(p) {
		return false
	}
	cost := e.UpgradeCost(p)
	p.Gold -= cost
	p.Furnace.Level++

	_, span := telemetry.Tracer("furnace").Start(ctx, "furnace.upgrade")
	span.SetAttributes(
		attribute.Int("furnace.level", p.Furnace.Level),
		attribute.Int("furnace.cost", cost),
	)
	span.End()
	return true
}

// TimeToNextTick is how long until the next whole tick completes.
func (e *Engine) TimeToNextTick(p *entity.Player) time.Duration {
	elapsed := max(0, e.clock.Now().Sub(p.Furnace.LastProductionTime))
	return e.Interval() - elapsed%e.Interval()
}

// Reset returns the furnace to level 1 with its checkpoint at now.
func (e *Engine) Reset(p *entity.Player) {
	p.Furnace = entity.NewAlchemyFurnace(e.clock.Now())
}
