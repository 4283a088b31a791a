// Package remembercmd implements the `mnemo remember` command.
package remembercmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/mnemo/cmd/mnemo/shared"
	"github.com/go-ports/mnemo/internal/engine"
	"github.com/go-ports/mnemo/internal/memory"
)

// Command implements `mnemo remember`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	memType    string
	category   string
	project    string
	reasoning  string
	source     string
	importance int
	confidence float64
	tags       string
	supersedes int64
	skipDedup  bool
}

// New creates the remember command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "remember <content>",
		Short: "Store a new memory, chunking and deduplicating as needed",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.memType, "type", "", "Memory type: decision, preference, fact, pattern, conversation")
	f.StringVar(&c.category, "category", "", "Free-form category label")
	f.StringVar(&c.project, "project", "", "Project scope (empty string forces global)")
	f.StringVar(&c.reasoning, "reasoning", "", "Why this memory matters")
	f.StringVar(&c.source, "source", "", "Provenance tag, e.g. manual, auto:session")
	f.IntVar(&c.importance, "importance", 0, "Importance 1-5 (default 3)")
	f.Float64Var(&c.confidence, "confidence", 0, "Confidence 0-1 (default 1.0)")
	f.StringVar(&c.tags, "tags", "", "Comma-separated tags")
	f.Int64Var(&c.supersedes, "supersedes", 0, "ID of a memory this one replaces")
	f.BoolVar(&c.skipDedup, "skip-dedup", false, "Bypass near-duplicate merging")

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

	in := memory.Input{
		Content:   args[0],
		Type:      memory.Type(c.memType),
		Category:  c.category,
		Reasoning: c.reasoning,
		Source:    memory.Source(c.source),
		Tags:      splitCSV(c.tags),
		SkipDedup: c.skipDedup,
	}
	if cmd.Flags().Changed("project") {
		in.Project = c.project
		in.HasProject = true
	}
	if cmd.Flags().Changed("importance") {
		in.Importance = c.importance
		in.HasImportance = true
	}
	if cmd.Flags().Changed("confidence") {
		in.Confidence = c.confidence
		in.HasConfidence = true
	}
	if cmd.Flags().Changed("supersedes") {
		id := c.supersedes
		in.Supersedes = &id
	}

	ids, warnings, err := e.Remember(cmd.Context(), in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = strconv.FormatInt(id, 10)
	}
	fmt.Fprintf(out, "Remembered %d chunk(s): %s\n", len(ids), strings.Join(idStrs, ", "))
	for _, w := range warnings {
		fmt.Fprintf(out, "Warning: %s\n", w)
	}
	return nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
