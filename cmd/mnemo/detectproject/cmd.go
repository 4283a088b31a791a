// Package detectprojectcmd implements the `mnemo detect-project` command.
package detectprojectcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-ports/mnemo/cmd/mnemo/shared"
	"github.com/go-ports/mnemo/internal/engine"
)

// Command implements `mnemo detect-project`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the detect-project command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "detect-project",
		Short: "Resolve the current directory to a registered project name",
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

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	name, ok := e.DetectProject(cwd)
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "(no project detected)")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), name)
	return nil
}
