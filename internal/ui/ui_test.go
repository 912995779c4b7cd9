package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/idlequest/internal/entity"
	"github.com/samdwyer/idlequest/internal/gamedata"
)

// screenText returns the simulation screen's rows as strings.
func screenText(sim tcell.SimulationScreen) []string {
	cells, width, height := sim.GetContents()
	rows := make([]string, height)
	for y := 0; y < height; y++ {
		var b strings.Builder
		for x := 0; x < width; x++ {
			runes := cells[y*width+x].Runes
			if len(runes) == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteRune(runes[0])
		}
		rows[y] = b.String()
	}
	return rows
}

func contains(rows []string, text string) bool {
	for _, row := range rows {
		if strings.Contains(row, text) {
			return true
		}
	}
	return false
}

func newTestView() View {
	b := gamedata.MustLoadBalance()
	p := entity.NewPlayer(b.Player, time.Time{})
	p.Gold = 321
	return View{
		Player:      p,
		ExpCurrent:  40,
		ExpRequired: 100,
		State:       "fighting",
		Stage:       StageView{Level: 2, Defeated: 3, Total: 16},
		Enemy: &entity.Enemy{
			Name:       "Cave Rat",
			Level:      2,
			Attributes: entity.Attributes{Health: 50, MaxHealth: 100, Attack: 9},
		},
		Furnace: FurnaceView{Level: 1, Rate: 10, NextBatch: 2 * time.Second, UpgradeCost: 100},
		Log:     []Line{{Text: "Hero hits Cave Rat for 17", Color: tcell.ColorRed}},
		Footer:  "[q] quit",
	}
}

func TestRenderDrawsPanels(t *testing.T) {
	screen, sim, err := NewSimulationScreen(100, 30)
	if err != nil {
		t.Fatalf("NewSimulationScreen: %v", err)
	}
	defer screen.Close()

	NewRenderer(screen).Render(newTestView())
	rows := screenText(sim)

	for _, want := range []string{
		"Stage 2  [fighting]",
		"Hero  Lv.1",
		"Gold 321",
		"Enemies 3/16",
		"Cave Rat  Lv.2",
		"50/100",
		"10 gold per batch",
		"Hero hits Cave Rat for 17",
		"[q] quit",
	} {
		if !contains(rows, want) {
			t.Errorf("screen missing %q", want)
		}
	}
}

func TestRenderBossAndBanner(t *testing.T) {
	screen, sim, err := NewSimulationScreen(100, 30)
	if err != nil {
		t.Fatal(err)
	}
	defer screen.Close()

	v := newTestView()
	v.Enemy.IsBoss = true
	v.Banner = "While you were away the furnace produced 240 gold"
	NewRenderer(screen).Render(v)
	rows := screenText(sim)

	if !contains(rows, "BOSS Cave Rat") {
		t.Error("boss label not drawn")
	}
	if !contains(rows, "produced 240 gold") {
		t.Error("banner not drawn")
	}
}

func TestRenderAllocationDialog(t *testing.T) {
	screen, sim, err := NewSimulationScreen(100, 30)
	if err != nil {
		t.Fatal(err)
	}
	defer screen.Close()

	v := newTestView()
	v.Player.AvailablePoints = 5
	v.Allocating = true
	NewRenderer(screen).Render(v)
	rows := screenText(sim)

	if !contains(rows, "Allocate points (5 left)") {
		t.Error("allocation heading missing")
	}
	if contains(rows, "Cave Rat  Lv.2") {
		t.Error("enemy panel drawn under the allocation dialog")
	}
	for i, attr := range entity.Allocatable {
		if !contains(rows, "["+string(rune('1'+i))+"] "+attr.Label()) {
			t.Errorf("option %d %s missing", i+1, attr.Label())
		}
	}
}

func TestDrawTextClipsAtWidth(t *testing.T) {
	screen, sim, err := NewSimulationScreen(10, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer screen.Close()

	end := screen.DrawText(5, 0, "abcdefghij", tcell.StyleDefault)
	if end != 10 {
		t.Errorf("DrawText end = %d, want 10", end)
	}
	screen.Show()
	if got := screenText(sim)[0]; got != "     abcde" {
		t.Errorf("row = %q", got)
	}
}

func TestTextBar(t *testing.T) {
	tests := []struct {
		cur, max int
		want     string
	}{
		{0, 10, "[..........]"},
		{5, 10, "[#####.....]"},
		{10, 10, "[##########]"},
		{20, 10, "[##########]"},
		{3, 0, "[..........]"},
	}
	for _, tt := range tests {
		if got := TextBar(tt.cur, tt.max, 10); got != tt.want {
			t.Errorf("TextBar(%d, %d) = %q, want %q", tt.cur, tt.max, got, tt.want)
		}
	}
}
