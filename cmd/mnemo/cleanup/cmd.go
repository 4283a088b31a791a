// Package cleanupcmd implements the `mnemo cleanup-corrupted` command.
package cleanupcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/mnemo/cmd/mnemo/shared"
	"github.com/go-ports/mnemo/internal/engine"
)

// Command implements `mnemo cleanup-corrupted`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	dryRun bool
}

// New creates the cleanup-corrupted command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "cleanup-corrupted",
		Short: "Delete memories that look like leaked tool output or prompt fragments",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.dryRun, "dry-run", false, "Report a sample without deleting")
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

	count, samples, err := e.CleanupCorrupted(c.dryRun)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	verb := "Deleted"
	if c.dryRun {
		verb = "Would delete"
	}
	fmt.Fprintf(out, "%s %d corrupted memory/memories\n", verb, count)
	for _, s := range samples {
		fmt.Fprintf(out, "  - %s\n", s)
	}
	return nil
}
