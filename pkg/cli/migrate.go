package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/platinummonkey/todo/pkg/storage/postgres"
)

func newMigrateCommand(connect Connector, out io.Writer) *Command {
	return &Command{
		Name:        "migrate",
		Description: "Create the users and tasks tables and indexes",
		Flags:       flag.NewFlagSet("migrate", flag.ContinueOnError),
		Run: func(ctx context.Context, args []string) error {
			db, closeFn, err := connect(ctx)
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer closeFn()

			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}

			fmt.Fprintf(out, "Schema is up to date (%d tables)\n", len(postgres.Tables))
			return nil
		},
	}
}
