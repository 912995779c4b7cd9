package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/idlequest/internal/entity"
)

const (
	leftWidth = 38
	barWidth  = 20
)

// Line is one colored line of the battle log.
type Line struct {
	Text  string
	Color tcell.Color
}

// FurnaceView is the furnace panel content.
type FurnaceView struct {
	Level       int
	Rate        int
	NextBatch   time.Duration
	UpgradeCost int
	Total       int
}

// StageView is the stage panel content.
type StageView struct {
	Level    int
	Defeated int
	Total    int
	Complete bool
}

// View is everything one frame draws. The game builds it from the session
// so the renderer never touches game state.
type View struct {
	Player      *entity.Player
	ExpCurrent  int
	ExpRequired int
	State       string
	Stage       StageView
	Enemy       *entity.Enemy
	Furnace     FurnaceView
	Banner      string
	Log         []Line
	Allocating  bool
	Footer      string
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws one frame.
func (r *Renderer) Render(v View) {
	r.screen.Clear()
	width, height := r.screen.Size()

	title := tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	x := r.screen.DrawText(0, 0, "IdleQuest", title)
	r.screen.DrawText(x+2, 0, fmt.Sprintf("Stage %d  [%s]", v.Stage.Level, v.State), stateStyle(v.State))

	y := 1
	if v.Banner != "" {
		r.screen.DrawText(0, y, v.Banner, tcell.StyleDefault.Foreground(tcell.ColorGold).Bold(true))
		y++
	}
	top := y + 1

	bottom := r.drawPlayer(0, top, v)
	if v.Allocating {
		r.drawAllocation(leftWidth+2, top, v.Player)
	} else {
		r.drawBattle(leftWidth+2, top, v)
	}

	logTop := bottom + 1
	logRows := height - logTop - 1
	r.drawLog(0, logTop, width, logRows, v.Log)

	if v.Footer != "" {
		r.screen.DrawText(0, height-1, v.Footer, tcell.StyleDefault.Foreground(tcell.ColorGray))
	}
	r.screen.Show()
}

func (r *Renderer) drawPlayer(x, y int, v View) int {
	p := v.Player
	if p == nil {
		return y
	}
	heading := tcell.StyleDefault.Foreground(tcell.ColorTeal).Bold(true)
	plain := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	r.screen.DrawText(x, y, fmt.Sprintf("%s  Lv.%d", p.Name, p.Level), heading)
	y++
	r.drawBar(x, y, "HP ", p.Attributes.Health, p.Attributes.MaxHealth, tcell.ColorRed)
	y++
	r.drawBar(x, y, "EXP", v.ExpCurrent, v.ExpRequired, tcell.ColorBlue)
	y++
	r.screen.DrawText(x, y, fmt.Sprintf("Gold %d  Diamonds %d", p.Gold, p.Diamonds), tcell.StyleDefault.Foreground(tcell.ColorGold))
	y++
	a := p.Attributes
	r.screen.DrawText(x, y, fmt.Sprintf("ATK %d  DEF %d  AGI %d  LUK %d", a.Attack, a.Defense, a.Agility, a.Luck), plain)
	y++
	if p.AvailablePoints > 0 {
		r.screen.DrawText(x, y, fmt.Sprintf("%d attribute points available [a]", p.AvailablePoints), tcell.StyleDefault.Foreground(tcell.ColorGreen))
		y++
	}
	y++

	f := v.Furnace
	r.screen.DrawText(x, y, fmt.Sprintf("Alchemy Furnace  Lv.%d", f.Level), heading)
	y++
	r.screen.DrawText(x, y, fmt.Sprintf("%d gold per batch, next in %.1fs", f.Rate, f.NextBatch.Seconds()), plain)
	y++
	costStyle := plain
	if p.Gold >= f.UpgradeCost {
		costStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	}
	r.screen.DrawText(x, y, fmt.Sprintf("Upgrade: %d gold  Total: %d", f.UpgradeCost, f.Total), costStyle)
	return y + 1
}

func (r *Renderer) drawBattle(x, y int, v View) {
	heading := tcell.StyleDefault.Foreground(tcell.ColorTeal).Bold(true)
	s := v.Stage
	r.screen.DrawText(x, y, fmt.Sprintf("Enemies %d/%d", s.Defeated, s.Total), heading)
	y++
	if s.Total > 0 {
		r.drawBar(x, y, "   ", s.Defeated, s.Total, tcell.ColorGreen)
	}
	y += 2

	e := v.Enemy
	if e == nil {
		msg := "No battle. Press [s] to start."
		if s.Complete {
			msg = "Stage cleared!"
		}
		r.screen.DrawText(x, y, msg, tcell.StyleDefault.Foreground(tcell.ColorGray))
		return
	}
	nameStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	name := e.Name
	if e.IsBoss {
		name = "BOSS " + name
		nameStyle = nameStyle.Foreground(tcell.ColorRed)
	}
	r.screen.DrawText(x, y, fmt.Sprintf("%s  Lv.%d", name, e.Level), nameStyle)
	y++
	r.drawBar(x, y, "HP ", e.Attributes.Health, e.Attributes.MaxHealth, tcell.ColorRed)
	y++
	a := e.Attributes
	r.screen.DrawText(x, y, fmt.Sprintf("ATK %d  DEF %d  AGI %d", a.Attack, a.Defense, a.Agility), tcell.StyleDefault)
	y++
	r.screen.DrawText(x, y, fmt.Sprintf("Reward: %d exp, %d gold", e.Rewards.Experience, e.Rewards.Gold), tcell.StyleDefault.Foreground(tcell.ColorGold))
}

func (r *Renderer) drawAllocation(x, y int, p *entity.Player) {
	heading := tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	r.screen.DrawText(x, y, fmt.Sprintf("Allocate points (%d left)", p.AvailablePoints), heading)
	y += 2
	for i, attr := range entity.Allocatable {
		r.screen.DrawText(x, y, fmt.Sprintf("[%d] %-8s %d", i+1, attr.Label(), p.Attributes.Get(attr)), tcell.StyleDefault)
		y++
	}
	y++
	r.screen.DrawText(x, y, "[esc] done", tcell.StyleDefault.Foreground(tcell.ColorGray))
}

func (r *Renderer) drawLog(x, y, width, rows int, lines []Line) {
	if rows <= 0 {
		return
	}
	r.screen.DrawText(x, y, strings.Repeat("-", max(0, width)), tcell.StyleDefault.Foreground(tcell.ColorDarkGray))
	rows--
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	for i, line := range lines {
		r.screen.DrawText(x, y+1+i, line.Text, tcell.StyleDefault.Foreground(line.Color))
	}
}

// drawBar draws "label [#####     ] cur/max".
func (r *Renderer) drawBar(x, y int, label string, cur, maxValue int, color tcell.Color) {
	filled := 0
	if maxValue > 0 {
		filled = min(barWidth, max(0, cur*barWidth/maxValue))
	}
	x = r.screen.DrawText(x, y, label+" ", tcell.StyleDefault)
	for i := 0; i < barWidth; i++ {
		ch, style := '░', tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
		if i < filled {
			ch, style = '█', tcell.StyleDefault.Foreground(color)
		}
		r.screen.SetContent(x+i, y, ch, style)
	}
	r.screen.DrawText(x+barWidth+1, y, fmt.Sprintf("%d/%d", cur, maxValue), tcell.StyleDefault)
}

func stateStyle(state string) tcell.Style {
	switch state {
	case "fighting":
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	case "reviving", "player_defeated":
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	case "stage_completed":
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	}
}
