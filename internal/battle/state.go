// Package battle runs the auto-battle state machine: a stage of generated
// enemies fought one at a time on scheduler ticks, with rewards, level-ups,
// a revive countdown on defeat, and an endless repeat of the cleared stage.
package battle

// State is the orchestrator's position in the battle loop.
type State int

const (
	// StateIdle has no battle tick running. Between two enemies the
	// orchestrator also rests here while the advance delay is pending.
	StateIdle State = iota
	// StateFighting runs the combat tick against the current enemy.
	StateFighting
	// StatePlayerDefeated is entered when the player's health hits zero.
	StatePlayerDefeated
	// StateReviving counts down to the automatic revive.
	StateReviving
	// StateStageCompleted waits before the same stage level restarts.
	StateStageCompleted
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFighting:
		return "fighting"
	case StatePlayerDefeated:
		return "player_defeated"
	case StateReviving:
		return "reviving"
	case StateStageCompleted:
		return "stage_completed"
	default:
		return "unknown"
	}
}

// timerKind names the three timers the orchestrator may hold. At most one
// timer of each kind is live at any moment.
type timerKind int

const (
	timerBattle timerKind = iota
	timerRevive
	timerAdvance
)
