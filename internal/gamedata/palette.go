package gamedata

import (
	"fmt"
	"maps"
	"slices"

	"github.com/gdamore/tcell/v2"
)

// MessageKinds lists the battle message kinds the palette must color.
var MessageKinds = []string{"info", "damage", "critical", "heal", "warning", "error", "success"}

// Palette maps battle message kinds to terminal colors.
type Palette map[string]tcell.Color

// LoadPalette loads and validates the embedded palette.json.
func LoadPalette() (Palette, error) {
	hex, err := Load[map[string]string]("palette.json")
	if err != nil {
		return nil, err
	}
	return NewPalette(hex)
}

// NewPalette resolves "#RRGGBB" values. Every kind in MessageKinds must be
// present and every value must name a color.
func NewPalette(hex map[string]string) (Palette, error) {
	p := make(Palette, len(hex))
	for _, kind := range slices.Sorted(maps.Keys(hex)) {
		color := tcell.GetColor(hex[kind])
		if color == tcell.ColorDefault {
			return nil, fmt.Errorf("palette: %s: invalid color %q", kind, hex[kind])
		}
		p[kind] = color
	}
	for _, kind := range MessageKinds {
		if _, ok := p[kind]; !ok {
			return nil, fmt.Errorf("palette: missing color for %s", kind)
		}
	}
	return p, nil
}

// Color returns the terminal color for a message kind, white when unknown.
func (p Palette) Color(kind string) tcell.Color {
	if color, ok := p[kind]; ok {
		return color
	}
	return tcell.ColorWhite
}
