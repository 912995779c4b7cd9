package battle

import "github.com/samdwyer/idlequest/internal/entity"

// Stage is one run through a level's enemy list. The boss is always last.
type Stage struct {
	Level             int
	Enemies           []*entity.Enemy
	CurrentEnemyIndex int
	EnemiesDefeated   int
	IsCompleted       bool
}

// StageProgress is a read-only view of a stage for presentation.
type StageProgress struct {
	Level           int
	EnemiesDefeated int
	TotalEnemies    int
	IsCompleted     bool
}

// NewStage generates normal regular enemies followed by one boss.
func NewStage(level, normal int, factory *entity.EnemyFactory) *Stage {
	enemies := make([]*entity.Enemy, 0, normal+1)
	for range normal {
		enemies = append(enemies, factory.Generate(level, false))
	}
	enemies = append(enemies, factory.Generate(level, true))
	return &Stage{Level: level, Enemies: enemies}
}

// Current returns the enemy being fought, or nil once the list is exhausted.
func (s *Stage) Current() *entity.Enemy {
	if s.CurrentEnemyIndex >= len(s.Enemies) {
		return nil
	}
	return s.Enemies[s.CurrentEnemyIndex]
}

// Advance records a defeat and moves to the next enemy. It reports whether
// the stage is now complete.
func (s *Stage) Advance() bool {
	if s.CurrentEnemyIndex < len(s.Enemies) {
		s.CurrentEnemyIndex++
		s.EnemiesDefeated++
	}
	if s.CurrentEnemyIndex >= len(s.Enemies) {
		s.IsCompleted = true
	}
	return s.IsCompleted
}

// Progress returns a snapshot of the stage.
func (s *Stage) Progress() StageProgress {
	return StageProgress{
		Level:           s.Level,
		EnemiesDefeated: s.EnemiesDefeated,
		TotalEnemies:    len(s.Enemies),
		IsCompleted:     s.IsCompleted,
	}
}
