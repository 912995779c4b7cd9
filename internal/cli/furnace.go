package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samdwyer/idlequest/internal/ui"
)

func newCollectCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "collect",
		Short: "Collect furnace gold and offline earnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, cleanup, err := openSession(ctx, f)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if report := s.OfflineReport(); report.Gold > 0 {
				fmt.Fprintln(out, ui.Good.Render(fmt.Sprintf("%s Offline earnings: +%d gold", ui.IconMoon, report.Gold)))
			}
			gold := s.Furnace().Collect(ctx, s.Player())
			if gold > 0 {
				fmt.Fprintln(out, ui.Good.Render(fmt.Sprintf("%s Collected %d gold", ui.IconGold, gold)))
			}
			fmt.Fprintln(out, ui.LabelValue("Gold", ui.Gold.Render(fmt.Sprint(s.Player().Gold))))
			return s.Save(ctx)
		},
	}
}

func newUpgradeCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade the alchemy furnace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, cleanup, err := openSession(ctx, f)
			if err != nil {
				return err
			}
			defer cleanup()

			p := s.Player()
			cost := s.Furnace().UpgradeCost(p)
			if !s.UpgradeFurnace(ctx) {
				return fmt.Errorf("upgrade needs %d gold, you have %d", cost, p.Gold)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("%s Furnace level %d, %d gold per batch",
				ui.IconUp, p.Furnace.Level, s.Furnace().Rate(p))))
			return s.Save(ctx)
		},
	}
}
