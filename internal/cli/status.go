package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/samdwyer/idlequest/internal/clock"
	"github.com/samdwyer/idlequest/internal/entity"
	"github.com/samdwyer/idlequest/internal/game"
	"github.com/samdwyer/idlequest/internal/gamedata"
	"github.com/samdwyer/idlequest/internal/production"
	"github.com/samdwyer/idlequest/internal/progression"
	"github.com/samdwyer/idlequest/internal/storage"
	"github.com/samdwyer/idlequest/internal/ui"
)

const claimHistory = 5

func newStatusCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the saved player without changing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := f.config()
			if err != nil {
				return err
			}
			db, cleanup, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			repo := storage.NewSaveRepo(db)

			out := cmd.OutOrStdout()
			snap, err := repo.Load(ctx, cfg.Slot)
			if errors.Is(err, storage.ErrNoSave) {
				fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("No save in slot %q yet. Run `idlequest play` to begin.", cfg.Slot)))
				return nil
			}
			if err != nil {
				return err
			}

			balance, err := gamedata.LoadBalance()
			if err != nil {
				return err
			}
			clk := clock.NewReal()
			p := entity.NewPlayer(balance.Player, clk.Now())
			if err := snap.Restore(p); err != nil {
				return err
			}
			levels := progression.NewEngine(balance.Progression)
			furnace := production.NewEngine(balance.Furnace, clk)
			away := clk.Now().Sub(snap.SavedAt)

			cur, req := levels.ExpProgress(p)
			a := p.Attributes

			fmt.Fprintln(out, ui.Heading(ui.IconSword, p.Name))
			fmt.Fprintln(out, ui.LabelValue("Level", p.Level))
			fmt.Fprintln(out, ui.LabelValue("Experience", fmt.Sprintf("%s %d/%d", ui.TextBar(cur, req, 20), cur, req)))
			fmt.Fprintln(out, ui.LabelValue("Gold", ui.Gold.Render(fmt.Sprint(p.Gold))))
			fmt.Fprintln(out, ui.LabelValue("Diamonds", p.Diamonds))
			fmt.Fprintln(out, ui.LabelValue("Stage", snap.Stage))
			if p.AvailablePoints > 0 {
				fmt.Fprintln(out, ui.LabelValue("Unspent points", ui.Good.Render(fmt.Sprint(p.AvailablePoints))))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("Attributes"))
			fmt.Fprintf(out, "- Health %d/%d\n", a.Health, a.MaxHealth)
			fmt.Fprintf(out, "- Attack %d  Defense %d  Agility %d  Luck %d\n", a.Attack, a.Defense, a.Agility, a.Luck)
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconFurnace+" Alchemy Furnace"))
			fmt.Fprintf(out, "- Level %d, %d gold every %s\n", p.Furnace.Level, furnace.Rate(p), game.FormatDuration(furnace.Interval()))
			fmt.Fprintf(out, "- Upgrade cost %d %s\n", furnace.UpgradeCost(p), affordable(furnace.CanUpgrade(p)))
			fmt.Fprintf(out, "- Produced so far %d\n", p.Furnace.TotalProduced)
			fmt.Fprintf(out, "- %s since last save, %s waiting\n",
				game.FormatDuration(away), ui.Gold.Render(fmt.Sprintf("%d gold", furnace.Offline(p, away))))
			fmt.Fprintln(out, "")

			claims, err := repo.OfflineClaims(ctx, cfg.Slot, claimHistory)
			if err != nil {
				return err
			}
			if len(claims) > 0 {
				total, err := repo.TotalOfflineGold(ctx, cfg.Slot)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, ui.H2.Render(ui.IconMoon+" Recent offline earnings"))
				fmt.Fprintf(out, "- %s in total\n", ui.Gold.Render(fmt.Sprintf("%d gold", total)))
				for _, c := range claims {
					fmt.Fprintf(out, "- %s  %s away  +%d\n",
						ui.Muted.Render(c.ClaimedAt.Local().Format(time.DateTime)), game.FormatDuration(c.Elapsed), c.Gold)
				}
			}
			return nil
		},
	}
}

func affordable(ok bool) string {
	if ok {
		return ui.Good.Render("(affordable)")
	}
	return ui.Muted.Render("(not enough gold)")
}
