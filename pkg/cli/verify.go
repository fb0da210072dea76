package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/platinummonkey/todo/pkg/storage/postgres"
)

func newVerifyCommand(connect Connector, out io.Writer) *Command {
	return &Command{
		Name:        "verify",
		Description: "Check that every table exists and print row counts",
		Flags:       flag.NewFlagSet("verify", flag.ContinueOnError),
		Run: func(ctx context.Context, args []string) error {
			db, closeFn, err := connect(ctx)
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer closeFn()

			fmt.Fprintln(out, "Database connection OK")

			counts, err := postgres.TableCounts(ctx, db)
			if err != nil {
				return fmt.Errorf("schema check failed (run migrate first): %w", err)
			}

			for _, table := range postgres.Tables {
				fmt.Fprintf(out, "  %-10s %d rows\n", table, counts[table])
			}
			return nil
		},
	}
}
