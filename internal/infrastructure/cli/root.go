package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/calc-go/internal/app"
	"github.com/doeshing/calc-go/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	root := &cobra.Command{
		Use:   "calc",
		Short: "Calc - plugin-extensible calculator",
		Long:  "Calc is an arithmetic calculator with undo/redo, Lua plugins, and a persisted calculation history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			repl := NewREPL(container, cmd.InOrStdin(), cmd.OutOrStdout())
			return repl.Run(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newReplCommand(container))
	root.AddCommand(commands.NewEvalCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewPluginsCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, nil
}

func newReplCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive calculator shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			repl := NewREPL(container, cmd.InOrStdin(), cmd.OutOrStdout())
			return repl.Run(cmd.Context())
		},
	}
}
