// Package forgetsourcecmd implements the `mnemo forget-by-source` command.
package forgetsourcecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/mnemo/cmd/mnemo/shared"
	"github.com/go-ports/mnemo/internal/engine"
	"github.com/go-ports/mnemo/internal/memory"
)

// Command implements `mnemo forget-by-source`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	project string
	dryRun  bool
}

// New creates the forget-by-source command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "forget-by-source <source>",
		Short: "Bulk-delete memories matching a provenance tag, optionally scoped to a project",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.project, "project", "", "Restrict to a project (empty means global)")
	f.BoolVar(&c.dryRun, "dry-run", false, "Report the count without deleting")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	e, err := engine.New(c.ctx.MemoryHome)
	if err != nil {
		return err
	}
	defer e.Close()

	var scope *string
	if cmd.Flags().Changed("project") {
		scope = &c.project
	}

	n, err := e.ForgetBySource(memory.Source(args[0]), scope, cmd.Flags().Changed("project"), c.dryRun)
	if err != nil {
		return err
	}

	verb := "Deleted"
	if c.dryRun {
		verb = "Would delete"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d memory/memories from source %q\n", verb, n, args[0])
	return nil
}
