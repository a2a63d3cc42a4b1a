package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/calc-go/internal/app"
	"github.com/doeshing/calc-go/internal/infrastructure/cli/helpers"
)

// NewEvalCommand creates the one-shot eval command
func NewEvalCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <operation> <number1> [<number2>]",
		Short: "Evaluate a single operation and exit",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := helpers.ParseOperand(args[1])
			if err != nil {
				return err
			}
			var b float64
			if len(args) == 3 {
				if b, err = helpers.ParseOperand(args[2]); err != nil {
					return err
				}
			}

			result, err := container.Engine.Execute(args[0], a, b)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), helpers.FormatResult(result))
			return nil
		},
	}
}
