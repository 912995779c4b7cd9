package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/samdwyer/idlequest/internal/storage"
	"github.com/samdwyer/idlequest/internal/ui"
)

func newSlotsCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "List save slots",
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

			slots, err := storage.NewSaveRepo(db).List(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(slots) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No saves yet."))
				return nil
			}
			for _, info := range slots {
				marker := " "
				if info.Slot == cfg.Slot {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-12s stage %-4d %s\n", marker, info.Slot, info.Stage,
					ui.Muted.Render(info.SavedAt.Local().Format(time.DateTime)))
			}
			return nil
		},
	}
}
