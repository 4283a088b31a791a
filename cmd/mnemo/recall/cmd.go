// Package recallcmd implements the `mnemo recall` command.
package recallcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/mnemo/cmd/mnemo/shared"
	"github.com/go-ports/mnemo/internal/engine"
	"github.com/go-ports/mnemo/internal/memory"
)

// Command implements `mnemo recall`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	limit           int
	memType         string
	minImportance   int
	includeObsolete bool
}

// New creates the recall command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "recall <query>",
		Short: "Retrieve memories ranked by semantic relevance, recency, importance, and usage",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.IntVar(&c.limit, "limit", 0, "Maximum number of results")
	f.StringVar(&c.memType, "type", "", "Filter by memory type")
	f.IntVar(&c.minImportance, "min-importance", 0, "Filter by minimum importance")
	f.BoolVar(&c.includeObsolete, "include-obsolete", false, "Include superseded/obsolete rows")

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

	opts := memory.RecallOptions{
		Limit:           c.limit,
		IncludeObsolete: c.includeObsolete,
	}
	if cmd.Flags().Changed("type") {
		opts.Type = memory.Type(c.memType)
		opts.HasType = true
	}
	if cmd.Flags().Changed("min-importance") {
		opts.MinImportance = c.minImportance
		opts.HasMinImportance = true
	}

	results, err := e.Recall(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No memories found.")
		return nil
	}

	for i, r := range results {
		project := "global"
		if r.Memory.Project != nil {
			project = *r.Memory.Project
		}
		fmt.Fprintf(out, "\n[%d] #%d (score: %.3f, distance: %.3f)\n", i+1, r.Memory.ID, r.Score, r.Distance)
		fmt.Fprintf(out, "    %s | %s | importance %d | %s\n", r.Memory.Type, project, r.Memory.Importance, r.Memory.Source)
		fmt.Fprintf(out, "    %s\n", r.Memory.Content)
	}
	return nil
}
