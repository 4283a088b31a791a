// Package updatecmd implements the `mnemo update` command.
package updatecmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/go-ports/mnemo/cmd/mnemo/shared"
	"github.com/go-ports/mnemo/internal/engine"
)

// Command implements `mnemo update`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the update command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "update <id> <content>",
		Short: "Replace a memory's content and re-embed it",
		Args:  cobra.ExactArgs(2),
		RunE:  c.run,
	}
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

	if err := e.Update(cmd.Context(), id, args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated memory %d\n", id)
	return nil
}
