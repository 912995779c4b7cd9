package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/idlequest/internal/entity"
	"github.com/samdwyer/idlequest/internal/gamedata"
	"github.com/samdwyer/idlequest/internal/telemetry"
	"github.com/samdwyer/idlequest/internal/ui"
)

const (
	frameInterval = 100 * time.Millisecond
	bannerTTL     = 10 * time.Second
	logLines      = 50
)

const footer = "[s]tart [x]stop [n]ext [p]rev [a]llocate [c]ollect [u]pgrade [w]save [q]uit"

// Game runs a session in the terminal.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	session  *Session
	palette  gamedata.Palette
	state    State
	running  bool

	banner      string
	bannerUntil time.Time
}

// New creates a new game instance on the terminal.
func New(session *Session) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	g, err := newGame(session, screen)
	if err != nil {
		screen.Close()
		return nil, err
	}
	return g, nil
}

func newGame(session *Session, screen *ui.Screen) (*Game, error) {
	palette, err := gamedata.LoadPalette()
	if err != nil {
		return nil, fmt.Errorf("load palette: %w", err)
	}
	g := &Game{
		session: session,
		palette: palette,
		state:   StateMain,
		running: true,
		screen:  screen,
	}
	if screen != nil {
		g.renderer = ui.NewRenderer(screen)
	}
	return g, nil
}

// Run executes the main game loop until the player quits or ctx ends.
// The session is saved on the way out.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.session")
	defer span.End()

	s := g.session
	span.SetAttributes(
		attribute.String("save.slot", s.Config().Slot),
		attribute.Int("player.level", s.Player().Level),
		attribute.Int("player.stage", s.Player().CurrentStage),
	)

	if report := s.OfflineReport(); report.Notable {
		g.showBanner(fmt.Sprintf("While you were away (%s) the furnace produced %d gold",
			FormatDuration(report.Elapsed), report.Gold))
	}

	s.Start(ctx)
	s.StartBattle(ctx)

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(g.screen, events, done)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for g.running {
		g.render()

		select {
		case <-ctx.Done():
			g.running = false
		case ev, ok := <-events:
			if !ok {
				g.running = false
				break
			}
			g.handleEvent(ctx, ev)
		case <-ticker.C:
			s.Update()
		}
	}

	s.Stop()
	err := s.Save(ctx)
	if err != nil {
		span.RecordError(err)
		log.Printf("Final save failed: %v", err)
		if errors.Is(err, ErrSlotUnreadable) {
			err = nil
		}
	}
	g.screen.Close()
	return err
}

// eventSource is the part of the screen the input goroutine reads.
type eventSource interface {
	PollEvent() tcell.Event
}

// pollEvents forwards terminal events until the source is closed or done
// is closed.
func pollEvents(src eventSource, events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := src.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		g.running = false
		return
	case tcell.KeyEscape:
		if g.state == StateAllocate {
			g.state = StateMain
		} else {
			g.running = false
		}
		return
	case tcell.KeyRune:
	default:
		return
	}

	if g.state == StateAllocate {
		g.handleAllocateKey(ev.Rune())
		return
	}

	s := g.session
	switch ev.Rune() {
	case 'q', 'Q':
		g.running = false
	case 's':
		s.StartBattle(ctx)
	case 'x':
		s.StopBattle()
	case 'n':
		s.NextStage(ctx)
	case 'p':
		s.PrevStage(ctx)
	case 'a':
		g.state = StateAllocate
	case 'c':
		s.CollectFurnace(ctx)
	case 'u':
		s.UpgradeFurnace(ctx)
	case 'w':
		if err := s.Save(ctx); err != nil {
			log.Printf("Save failed: %v", err)
			s.Messages().Add(MessageError, s.now(), "Save failed")
		} else {
			s.Messages().Add(MessageSuccess, s.now(), "Game saved")
		}
	}
}

// handleAllocateKey spends one point on the attribute at the pressed index.
func (g *Game) handleAllocateKey(r rune) {
	if r == 'a' || r == 'q' {
		g.state = StateMain
		return
	}
	i := int(r - '1')
	if i < 0 || i >= len(entity.Allocatable) {
		return
	}
	g.session.Allocate(entity.Allocatable[i], 1)
}

func (g *Game) showBanner(text string) {
	g.banner = text
	g.bannerUntil = g.session.now().Add(bannerTTL)
}

// view builds the frame content from the session.
func (g *Game) view() ui.View {
	s := g.session
	p := s.Player()
	cur, req := s.Levels().ExpProgress(p)

	v := ui.View{
		Player:      p,
		ExpCurrent:  cur,
		ExpRequired: req,
		State:       s.Battle().State().String(),
		Stage:       ui.StageView{Level: p.CurrentStage},
		Enemy:       s.Battle().CurrentEnemy(),
		Furnace: ui.FurnaceView{
			Level:       p.Furnace.Level,
			Rate:        s.Furnace().Rate(p),
			NextBatch:   s.Furnace().TimeToNextTick(p),
			UpgradeCost: s.Furnace().UpgradeCost(p),
			Total:       p.Furnace.TotalProduced,
		},
		Allocating: g.state == StateAllocate,
		Footer:     footer,
	}
	if progress, ok := s.Battle().Progress(); ok {
		v.Stage = ui.StageView{
			Level:    progress.Level,
			Defeated: progress.EnemiesDefeated,
			Total:    progress.TotalEnemies,
			Complete: progress.IsCompleted,
		}
	}
	if g.banner != "" && s.now().Before(g.bannerUntil) {
		v.Banner = g.banner
	}
	for _, m := range s.Messages().Recent(logLines) {
		v.Log = append(v.Log, ui.Line{Text: m.Text, Color: g.palette.Color(string(m.Kind))})
	}
	return v
}

func (g *Game) render() {
	if g.renderer != nil {
		g.renderer.Render(g.view())
	}
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}
