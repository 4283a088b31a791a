// Package statscmd implements the `mnemo stats` command.
package statscmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/mnemo/cmd/mnemo/shared"
	"github.com/go-ports/mnemo/internal/engine"
)

// Command implements `mnemo stats`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the stats command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "stats",
		Short: "Report counts, embedding dimension, store size, and GC candidates",
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

	s, err := e.Stats()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Active:          %d\n", s.TotalActive)
	fmt.Fprintf(out, "Obsolete:        %d\n", s.TotalObsolete)
	fmt.Fprintf(out, "Embedding dim:   %d\n", s.EmbeddingDim)
	fmt.Fprintf(out, "Store size:      %d bytes\n", s.StoreSizeBytes)
	fmt.Fprintf(out, "GC candidates:   %d\n", s.StaleCandidates)
	fmt.Fprintln(out, "By type:")
	for t, n := range s.ActiveByType {
		fmt.Fprintf(out, "  %-14s %d\n", t, n)
	}
	fmt.Fprintln(out, "By project:")
	for p, n := range s.ActiveByProject {
		fmt.Fprintf(out, "  %-14s %d\n", p, n)
	}
	return nil
}
