// Package projectcmd implements the `mnemo project` command group, wrapping
// the project registry (spec.md §4.1).
package projectcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/mnemo/cmd/mnemo/shared"
	"github.com/go-ports/mnemo/internal/engine"
)

// Command implements `mnemo project` and its subcommands.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the project command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "project",
		Short: "Manage the project registry",
	}
	c.cmd.AddCommand(c.createCmd(), c.listCmd())
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) createCmd() *cobra.Command {
	var path, description string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Register a new project name mapped to a path prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := engine.New(c.ctx.MemoryHome)
			if err != nil {
				return err
			}
			defer e.Close()

			rec, err := e.CreateProject(args[0], path, description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %q (id: %s)\n", rec.Name, rec.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "Absolute path prefix for the project")
	cmd.Flags().StringVar(&description, "description", "", "Free-form description")
	return cmd
}

func (c *Command) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all registered projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := engine.New(c.ctx.MemoryHome)
			if err != nil {
				return err
			}
			defer e.Close()

			recs := e.Registry()
			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				fmt.Fprintln(out, "No projects registered.")
				return nil
			}
			for _, r := range recs {
				fmt.Fprintf(out, "%s\t%v\t%s\n", r.Name, r.Paths, r.Description)
			}
			return nil
		},
	}
}
