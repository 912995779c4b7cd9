package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samdwyer/idlequest/internal/ui"
)

func newResetCmd(f *flags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the save slot and start over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset deletes all progress; pass --yes to confirm")
			}
			ctx := cmd.Context()
			s, _, cleanup, err := openSessionLenient(ctx, f)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := s.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(fmt.Sprintf("%s Slot %q reset", ui.IconWarn, s.Config().Slot)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
