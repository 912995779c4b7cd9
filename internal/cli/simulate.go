package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/samdwyer/idlequest/internal/battle"
	"github.com/samdwyer/idlequest/internal/clock"
	"github.com/samdwyer/idlequest/internal/game"
	"github.com/samdwyer/idlequest/internal/ui"
)

// SimulationResult summarizes a headless run.
type SimulationResult struct {
	Duration        time.Duration
	Stage           int
	Kills           int
	BossKills       int
	Deaths          int
	StagesCleared   int
	LevelsGained    int
	Critical        int
	Attacks         int
	FinalLevel      int
	Gold            int
	FurnaceProduced int
	State           battle.State
}

// simTally counts orchestrator events during a simulation.
type simTally struct {
	res *SimulationResult
}

func (t simTally) HandleEvent(ev battle.Event) {
	switch e := ev.(type) {
	case battle.DamageEvent:
		t.res.Attacks++
		if e.Critical {
			t.res.Critical++
		}
	case battle.EnemyDefeatedEvent:
		t.res.Kills++
		if e.Enemy.IsBoss {
			t.res.BossKills++
		}
	case battle.BattleResultEvent:
		if !e.PlayerWon() {
			t.res.Deaths++
		}
	case battle.StageCompletedEvent:
		t.res.StagesCleared++
	case battle.LevelUpEvent:
		t.res.LevelsGained++
	}
}

// Simulate runs a fresh player at stage for d on a mock clock.
func Simulate(ctx context.Context, stage int, d time.Duration, seed int64) (SimulationResult, error) {
	res := SimulationResult{Duration: d, Stage: stage}
	if stage < 1 {
		return res, fmt.Errorf("stage must be at least 1, got %d", stage)
	}

	clk := clock.NewMock(time.Unix(0, 0))
	s, err := game.NewSession(game.Config{Seed: seed}, clk, nil)
	if err != nil {
		return res, err
	}
	s.Battle().Subscribe(simTally{res: &res})
	s.Player().CurrentStage = stage

	s.Start(ctx)
	if !s.StartBattle(ctx) {
		return res, fmt.Errorf("could not start stage %d", stage)
	}
	clock.Drive(clk, s.Scheduler(), d)
	res.State = s.Battle().State()
	s.Stop()

	p := s.Player()
	res.FinalLevel = p.Level
	res.Gold = p.Gold
	res.FurnaceProduced = p.Furnace.TotalProduced
	return res, nil
}

func newSimulateCmd(f *flags) *cobra.Command {
	var (
		stage    int
		duration time.Duration
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a headless battle on a simulated clock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed := f.seed
			if seed == 0 {
				seed = 1
			}
			res, err := Simulate(cmd.Context(), stage, duration, seed)
			if err != nil {
				return err
			}
			printSimulation(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().IntVar(&stage, "stage", 1, "stage level to fight")
	cmd.Flags().DurationVar(&duration, "duration", 10*time.Minute, "simulated play time")
	return cmd
}

func printSimulation(out io.Writer, res SimulationResult) {
	fmt.Fprintln(out, ui.Heading(ui.IconClock, fmt.Sprintf("Simulated %s at stage %d", game.FormatDuration(res.Duration), res.Stage)))
	fmt.Fprintln(out, ui.LabelValue("Enemies defeated", fmt.Sprintf("%d (%d bosses)", res.Kills, res.BossKills)))
	fmt.Fprintln(out, ui.LabelValue("Stages cleared", res.StagesCleared))
	fmt.Fprintln(out, ui.LabelValue("Deaths", res.Deaths))
	fmt.Fprintln(out, ui.LabelValue("Attacks", fmt.Sprintf("%d (%d critical)", res.Attacks, res.Critical)))
	fmt.Fprintln(out, ui.LabelValue("Final level", fmt.Sprintf("%d (+%d)", res.FinalLevel, res.LevelsGained)))
	fmt.Fprintln(out, ui.LabelValue("Gold", ui.Gold.Render(fmt.Sprint(res.Gold))))
	fmt.Fprintln(out, ui.LabelValue("Furnace produced", res.FurnaceProduced))
	fmt.Fprintln(out, ui.LabelValue("Ended", ui.StateText(res.State.String())))
}
