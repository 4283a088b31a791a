// Package markobsoletecmd implements the `mnemo mark-obsolete` command.
package markobsoletecmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/go-ports/mnemo/cmd/mnemo/shared"
	"github.com/go-ports/mnemo/internal/engine"
)

// Command implements `mnemo mark-obsolete`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	supersedes int64
}

// New creates the mark-obsolete command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "mark-obsolete <id>",
		Short: "Mark a memory obsolete without deleting it",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	c.cmd.Flags().Int64Var(&c.supersedes, "supersedes", 0, "ID of the memory that replaces this one")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid memory id %q: %w", args[0], err)
	}

	e, err := engine.New(c.ctx.MemoryHome)
	if err != nil {
		return err
	}
	defer e.Close()

	var supersedes *int64
	if cmd.Flags().Changed("supersedes") {
		supersedes = &c.supersedes
	}

	if err := e.MarkObsolete(id, supersedes); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Marked memory %d obsolete\n", id)
	return nil
}
