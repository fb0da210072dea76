package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"sort"
)

// Connector opens the database the commands operate on. The returned close
// function releases it.
type Connector func(ctx context.Context) (db *sql.DB, closeFn func() error, err error)

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Run         func(ctx context.Context, args []string) error
	Subcommands map[string]*Command
	Flags       *flag.FlagSet
	Out         io.Writer
}

// NewRootCommand creates the root command. Output goes to out.
func NewRootCommand(connect Connector, out io.Writer) *Command {
	root := &Command{
		Name:        "todo-admin",
		Description: "todo-admin - database administration for the to-do service",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("todo-admin", flag.ContinueOnError),
		Out:         out,
	}

	root.Subcommands["migrate"] = newMigrateCommand(connect, out)
	root.Subcommands["verify"] = newVerifyCommand(connect, out)

	return root
}

// Execute runs the subcommand named by args[0]
func (c *Command) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.usage()
	}

	// Check for help flag
	if args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		return c.usage()
	}

	if subcmd, ok := c.Subcommands[args[0]]; ok {
		if subcmd.Flags != nil {
			if err := subcmd.Flags.Parse(args[1:]); err != nil {
				return err
			}
			return subcmd.Run(ctx, subcmd.Flags.Args())
		}
		return subcmd.Run(ctx, args[1:])
	}

	return fmt.Errorf("unknown command: %s", args[0])
}

// usage prints the command usage
func (c *Command) usage() error {
	out := c.Out
	fmt.Fprintf(out, "Usage: %s <command> [args]\n\n", c.Name)
	fmt.Fprintf(out, "Commands:\n")

	names := make([]string, 0, len(c.Subcommands))
	for name := range c.Subcommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-15s %s\n", name, c.Subcommands[name].Description)
	}
	return nil
}
