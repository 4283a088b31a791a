// Package listrecentcmd implements the `mnemo list-recent` command.
package listrecentcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/mnemo/cmd/mnemo/shared"
	"github.com/go-ports/mnemo/internal/engine"
)

// Command implements `mnemo list-recent`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	limit       int
	project     string
	allProjects bool
}

// New creates the list-recent command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "list-recent",
		Short: "List the most recently created active memories",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.IntVar(&c.limit, "limit", 20, "Maximum number of rows")
	f.StringVar(&c.project, "project", "", "Project scope (empty means global)")
	f.BoolVar(&c.allProjects, "all-projects", false, "Ignore project scoping entirely")

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

	recs, err := e.ListRecent(c.limit, scope, c.allProjects)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintln(out, "No memories found.")
		return nil
	}
	for _, r := range recs {
		project := "global"
		if r.Project != nil {
			project = *r.Project
		}
		fmt.Fprintf(out, "#%d [%s] %s | %s\n    %s\n", r.ID, r.Type, project, r.CreatedAt.Format("2006-01-02 15:04"), r.Content)
	}
	return nil
}
