// Package rootcmd wires the root cobra.Command for the mnemo CLI binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	cleanupcmd "github.com/go-ports/mnemo/cmd/mnemo/cleanup"
	consolidatecmd "github.com/go-ports/mnemo/cmd/mnemo/consolidate"
	detectprojectcmd "github.com/go-ports/mnemo/cmd/mnemo/detectproject"
	forgetcmd "github.com/go-ports/mnemo/cmd/mnemo/forget"
	forgetcategorycmd "github.com/go-ports/mnemo/cmd/mnemo/forgetcategory"
	forgetsourcecmd "github.com/go-ports/mnemo/cmd/mnemo/forgetsource"
	gccmd "github.com/go-ports/mnemo/cmd/mnemo/gc"
	isreadycmd "github.com/go-ports/mnemo/cmd/mnemo/isready"
	listrecentcmd "github.com/go-ports/mnemo/cmd/mnemo/listrecent"
	markobsoletecmd "github.com/go-ports/mnemo/cmd/mnemo/markobsolete"
	projectcmd "github.com/go-ports/mnemo/cmd/mnemo/project"
	recallcmd "github.com/go-ports/mnemo/cmd/mnemo/recall"
	remembercmd "github.com/go-ports/mnemo/cmd/mnemo/remember"
	"github.com/go-ports/mnemo/cmd/mnemo/shared"
	statscmd "github.com/go-ports/mnemo/cmd/mnemo/stats"
	updatecmd "github.com/go-ports/mnemo/cmd/mnemo/update"
	"github.com/go-ports/mnemo/internal/buildinfo"
)

// New creates and returns the root cobra.Command for the mnemo CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "mnemo",
		Short:         "mnemo — a local, semantically-indexed memory store for assistant sessions",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().StringVar(
		&ctx.MemoryHome, "memory-home", "",
		"Override memory home directory (default: $MEMORY_HOME env -> persisted config -> ~/.mnemo)",
	)

	root.AddCommand(
		remembercmd.New(ctx).Cmd(),
		recallcmd.New(ctx).Cmd(),
		listrecentcmd.New(ctx).Cmd(),
		updatecmd.New(ctx).Cmd(),
		markobsoletecmd.New(ctx).Cmd(),
		forgetcmd.New(ctx).Cmd(),
		forgetcategorycmd.New(ctx).Cmd(),
		forgetsourcecmd.New(ctx).Cmd(),
		gccmd.New(ctx).Cmd(),
		consolidatecmd.New(ctx).Cmd(),
		cleanupcmd.New(ctx).Cmd(),
		statscmd.New(ctx).Cmd(),
		detectprojectcmd.New(ctx).Cmd(),
		isreadycmd.New(ctx).Cmd(),
		projectcmd.New(ctx).Cmd(),
	)

	return root
}
