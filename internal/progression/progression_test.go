package progression

import (
	"testing"
	"time"

	"github.com/samdwyer/idlequest/internal/entity"
	"github.com/samdwyer/idlequest/internal/gamedata"
)

func newTestEngine() (*Engine, *entity.Player) {
	b := gamedata.MustLoadBalance()
	return NewEngine(b.Progression), entity.NewPlayer(b.Player, time.Unix(0, 0))
}

func TestRequiredExpCurve(t *testing.T) {
	e, _ := newTestEngine()

	tests := []struct {
		level int
		want  int
	}{
		{1, 100},
		{2, 150},
		{3, 225},
		{4, 337},
		{0, 100},
	}
	for _, tt := range tests {
		if got := e.RequiredExp(tt.level); got != tt.want {
			t.Errorf("RequiredExp(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestRequiredExpStrictlyIncreasing(t *testing.T) {
	e, _ := newTestEngine()
	prev := e.RequiredExp(1)
	for level := 2; level <= 60; level++ {
		cur := e.RequiredExp(level)
		if cur <= prev {
			t.Fatalf("RequiredExp(%d) = %d, not above RequiredExp(%d) = %d", level, cur, level-1, prev)
		}
		prev = cur
	}
}

func TestLevelUpNotEligible(t *testing.T) {
	e, p := newTestEngine()
	p.Experience = 99
	before := *p

	if e.LevelUp(p) {
		t.Fatal("LevelUp() succeeded with 99/100 exp")
	}
	if p.Level != before.Level || p.Experience != before.Experience || p.Attributes != before.Attributes {
		t.Error("failed LevelUp() mutated the player")
	}
}

func TestLevelUpCarriesRemainder(t *testing.T) {
	e, p := newTestEngine()
	p.Experience = 130
	p.TakeDamage(100)

	if !e.LevelUp(p) {
		t.Fatal("LevelUp() failed with 130/100 exp")
	}
	if p.Level != 2 {
		t.Errorf("Level = %d, want 2", p.Level)
	}
	if p.Experience != 30 {
		t.Errorf("Experience = %d, want remainder 30", p.Experience)
	}
	if p.AvailablePoints != 5 {
		t.Errorf("AvailablePoints = %d, want 5", p.AvailablePoints)
	}
	a := p.Attributes
	if a.MaxHealth != 170 || a.Health != 170 || a.Attack != 28 || a.Defense != 10 {
		t.Errorf("attributes after level up = %+v", a)
	}
	if e.CanLevelUp(p) {
		t.Error("CanLevelUp() still true with 30/150 exp")
	}
}

func TestApplyLevelUpsMultiple(t *testing.T) {
	e, p := newTestEngine()
	// 100 + 150 + 225 = 475 clears three thresholds with 25 left over.
	p.Experience = 500

	var levels []int
	gained := e.ApplyLevelUps(p, func(newLevel int) { levels = append(levels, newLevel) })

	if gained != 3 {
		t.Fatalf("ApplyLevelUps() = %d, want 3", gained)
	}
	want := []int{2, 3, 4}
	for i := range want {
		if levels[i] != want[i] {
			t.Errorf("level event %d = %d, want %d", i, levels[i], want[i])
		}
	}
	if p.Experience != 25 {
		t.Errorf("Experience = %d, want 25", p.Experience)
	}
	if e.CanLevelUp(p) {
		t.Error("CanLevelUp() should be false after ApplyLevelUps")
	}
}

func TestAllocateAttribute(t *testing.T) {
	tests := []struct {
		name      string
		attr      entity.Attribute
		points    int
		available int
		ok        bool
	}{
		{"zero points", entity.AttrAttack, 0, 5, false},
		{"negative points", entity.AttrAttack, -1, 5, false},
		{"more than available", entity.AttrAttack, 6, 5, false},
		{"max health not allocatable", entity.AttrMaxHealth, 1, 5, false},
		{"unknown attribute", entity.Attribute("mana"), 1, 5, false},
		{"attack", entity.AttrAttack, 2, 5, true},
		{"all points", entity.AttrLuck, 5, 5, true},
	}

	for _, tt := range tests {
		e, p := newTestEngine()
		p.AvailablePoints = tt.available
		before := p.Attributes.Get(tt.attr)

		ok := e.AllocateAttribute(p, tt.attr, tt.points)
		if ok != tt.ok {
			t.Errorf("%s: AllocateAttribute() = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if !ok {
			if p.AvailablePoints != tt.available {
				t.Errorf("%s: failed allocation spent points", tt.name)
			}
			continue
		}
		if got := p.Attributes.Get(tt.attr); got != before+tt.points {
			t.Errorf("%s: attribute = %d, want %d", tt.name, got, before+tt.points)
		}
		if p.AvailablePoints != tt.available-tt.points {
			t.Errorf("%s: AvailablePoints = %d, want %d", tt.name, p.AvailablePoints, tt.available-tt.points)
		}
	}
}

func TestAllocateHealthRaisesBoth(t *testing.T) {
	e, p := newTestEngine()
	p.AvailablePoints = 3
	p.TakeDamage(50)

	if !e.AllocateAttribute(p, entity.AttrHealth, 3) {
		t.Fatal("AllocateAttribute(health, 3) failed")
	}
	if p.Attributes.Health != 103 || p.Attributes.MaxHealth != 153 {
		t.Errorf("health = %d/%d, want 103/153", p.Attributes.Health, p.Attributes.MaxHealth)
	}
}

func TestExpProgress(t *testing.T) {
	e, p := newTestEngine()
	p.Experience = 42
	cur, req := e.ExpProgress(p)
	if cur != 42 || req != 100 {
		t.Errorf("ExpProgress() = %d/%d, want 42/100", cur, req)
	}
}
