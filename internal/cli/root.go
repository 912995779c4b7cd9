// Package cli implements the idlequest command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/samdwyer/idlequest/internal/ui"
)

// Version is reported by --version.
const Version = "0.2.0"

// flags are the persistent overrides shared by every command.
type flags struct {
	dbPath string
	slot   string
	seed   int64
}

// NewRootCmd builds the command tree. Running it without a subcommand
// starts the terminal game.
func NewRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "idlequest",
		Short:         "IdleQuest - an idle auto-battler for the terminal",
		Long:          "IdleQuest fights stage after stage on its own while an alchemy furnace turns time into gold, even while you are away.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = Version
	root.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	root.PersistentFlags().StringVar(&f.dbPath, "db", "", "save database path (default $IDLEQUEST_DB or ~/.idlequest.db)")
	root.PersistentFlags().StringVar(&f.slot, "slot", "", "save slot (default $IDLEQUEST_SLOT or main)")
	root.PersistentFlags().Int64Var(&f.seed, "seed", 0, "random seed, 0 for time based (default $IDLEQUEST_SEED)")

	play := newPlayCmd(f)
	root.RunE = play.RunE
	root.AddCommand(
		play,
		newStatusCmd(f),
		newCollectCmd(f),
		newUpgradeCmd(f),
		newAllocateCmd(f),
		newSimulateCmd(f),
		newSlotsCmd(f),
		newResetCmd(f),
	)
	return root
}

// Execute runs the command line. The error has already been printed.
func Execute() error {
	return run(NewRootCmd(), os.Args[1:], os.Stderr)
}

func run(cmd *cobra.Command, args []string, stderr io.Writer) error {
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		return err
	}
	return nil
}
