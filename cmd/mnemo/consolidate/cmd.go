// Package consolidatecmd implements the `mnemo consolidate` command.
package consolidatecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/mnemo/cmd/mnemo/shared"
	"github.com/go-ports/mnemo/internal/engine"
)

// Command implements `mnemo consolidate`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	project string
	dryRun  bool
}

// New creates the consolidate command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "consolidate",
		Short: "Cluster near-duplicate memories and merge each cluster into its best representative",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.project, "project", "", "Restrict to a project (empty means global)")
	f.BoolVar(&c.dryRun, "dry-run", false, "Report clusters without mutating the store")

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

	clusters, err := e.Consolidate(scope, cmd.Flags().Changed("project"), c.dryRun)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(clusters) == 0 {
		fmt.Fprintln(out, "No clusters found.")
		return nil
	}
	for _, cl := range clusters {
		fmt.Fprintf(out, "cluster %s: kept #%d, merged %v\n", cl.ID, cl.Kept, cl.Merged)
	}
	return nil
}
