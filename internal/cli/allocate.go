package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samdwyer/idlequest/internal/entity"
	"github.com/samdwyer/idlequest/internal/ui"
)

func newAllocateCmd(f *flags) *cobra.Command {
	names := make([]string, len(entity.Allocatable))
	for i, attr := range entity.Allocatable {
		names[i] = string(attr)
	}

	return &cobra.Command{
		Use:       "allocate <attribute> [points]",
		Short:     "Spend attribute points",
		Long:      "Spend level-up points on one of: " + strings.Join(names, ", ") + ".",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			attr, ok := entity.ParseAttribute(args[0])
			if !ok {
				return fmt.Errorf("unknown attribute %q (want one of %s)", args[0], strings.Join(names, ", "))
			}
			points := 1
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("points must be a number: %w", err)
				}
				points = n
			}

			ctx := cmd.Context()
			s, _, cleanup, err := openSession(ctx, f)
			if err != nil {
				return err
			}
			defer cleanup()

			p := s.Player()
			if !s.Allocate(attr, points) {
				return fmt.Errorf("cannot spend %d points on %s (%d available)", points, attr.Label(), p.AvailablePoints)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("%s %s is now %d (%d points left)",
				ui.IconUp, attr.Label(), p.Attributes.Get(attr), p.AvailablePoints)))
			return s.Save(ctx)
		},
	}
}
