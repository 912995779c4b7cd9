package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Command-line output styles. The TUI uses tcell styles instead.

const (
	IconSword   = "⚔️"
	IconFurnace = "⚗️"
	IconGold    = "💰"
	IconUp      = "⬆️"
	IconDone    = "✅"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconClock   = "⏱️"
	IconMoon    = "🌙"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
)

// Heading renders a title with an optional leading icon.
func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

// LabelValue renders "label: value" with a highlighted label.
func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// StateText colors a battle state name.
func StateText(state string) string {
	switch state {
	case "fighting":
		return Bad.Render(state)
	case "reviving", "player_defeated":
		return Warn.Render(state)
	case "stage_completed":
		return Good.Render(state)
	default:
		return Muted.Render(state)
	}
}

// TextBar renders a fixed-width ASCII progress bar.
func TextBar(cur, maxValue, width int) string {
	filled := 0
	if maxValue > 0 {
		filled = min(width, max(0, cur*width/maxValue))
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
