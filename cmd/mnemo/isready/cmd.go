// Package isreadycmd implements the `mnemo is-ready` command.
package isreadycmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/mnemo/cmd/mnemo/shared"
	"github.com/go-ports/mnemo/internal/engine"
)

// Command implements `mnemo is-ready`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the is-ready command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "is-ready",
		Short: "Check whether the embedding service and store are both reachable",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
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

	if !e.IsReady(cmd.Context()) {
		fmt.Fprintln(cmd.OutOrStdout(), "not ready")
		return errors.New("mnemo is not ready")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ready")
	return nil
}
