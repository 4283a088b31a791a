// Package forgetcmd implements the `mnemo forget` command.
package forgetcmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/go-ports/mnemo/cmd/mnemo/shared"
	"github.com/go-ports/mnemo/internal/engine"
)

// Command implements `mnemo forget`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the forget command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "forget <id>",
		Short: "Permanently delete a memory by ID",
		Args:  cobra.ExactArgs(1),
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

	if err := e.Forget(id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Forgot memory %d\n", id)
	return nil
}
