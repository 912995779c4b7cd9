package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/samdwyer/idlequest/internal/game"
)

const logFileName = "idlequest.log"

func newPlayCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Start the terminal game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, _, cleanup, err := openSessionLenient(ctx, f)
			if err != nil {
				return err
			}
			defer cleanup()

			// The terminal belongs to tcell from here on.
			restore, err := redirectLog(s.Config().DBPath)
			if err != nil {
				return err
			}
			defer restore()

			g, err := game.New(s)
			if err != nil {
				return err
			}
			return g.Run(ctx)
		},
	}
}

// redirectLog sends the standard logger to a file next to the save
// database and returns a function restoring stderr.
func redirectLog(dbPath string) (func(), error) {
	path := filepath.Join(filepath.Dir(dbPath), logFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(file)
	return func() {
		log.SetOutput(os.Stderr)
		_ = file.Close()
	}, nil
}
