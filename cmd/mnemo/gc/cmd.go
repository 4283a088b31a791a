// Package gccmd implements the `mnemo gc` command.
package gccmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/mnemo/cmd/mnemo/shared"
	"github.com/go-ports/mnemo/internal/engine"
)

// Command implements `mnemo gc`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	project string
}

// New creates the gc command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "gc",
		Short: "Delete unused-and-low-confidence memories and expired memories",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().StringVar(&c.project, "project", "", "Restrict to a project (empty means global)")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	e, err := engine.New(c.ctx.MemoryHome)
	if err != nil {
		return err
	}
	defer e.Close()

	var scope *string
	if cmd.Flags().Changed("project") {
		scope = &c.project
	}

	n, err := e.GarbageCollect(scope, cmd.Flags().Changed("project"))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Garbage-collected %d memory/memories\n", n)
	return nil
}
