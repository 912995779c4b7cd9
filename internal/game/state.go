// Package game ties the engines into a playable session and runs the
// terminal front end.
package game

// State represents the current screen mode.
type State int

const (
	// StateMain shows the battle and furnace panels.
	StateMain State = iota
	// StateAllocate shows the attribute point dialog in place of the battle panel.
	StateAllocate
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateMain:
		return "main"
	case StateAllocate:
		return "allocate"
	default:
		return "unknown"
	}
}
