package commands

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/calc-go/internal/version"
)

// NewVersionCommand reports the build metadata injected via ldflags.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show calc version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return nil
		},
	}
}

func versionString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "calc %s", version.Version)
	if version.Commit != "" {
		fmt.Fprintf(&b, " (%s)", version.Commit)
	}
	if version.BuildDate != "" {
		fmt.Fprintf(&b, ", built %s", version.BuildDate)
	}
	fmt.Fprintf(&b, ", %s", runtime.Version())
	return b.String()
}
