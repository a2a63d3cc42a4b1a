package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/calc-go/internal/app"
)

// NewPluginsCommand creates the plugins command with all subcommands
func NewPluginsCommand(container *app.Container) *cobra.Command {
	pluginsCmd := &cobra.Command{
		Use:   "plugins",
		Short: "Inspect and load calculator plugins",
	}

	pluginsCmd.AddCommand(
		newPluginsListCommand(container),
		newPluginsLoadCommand(container),
	)

	return pluginsCmd
}

// newPluginsListCommand creates the 'plugins list' subcommand
func newPluginsListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discoverable plugins and registered operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			dir := container.Config.Plugins.Directory

			ids, err := container.PluginLoader.Discover(dir)
			if err != nil {
				fmt.Fprintf(out, "Plugin directory unavailable: %v\n", err)
			} else if len(ids) == 0 {
				fmt.Fprintf(out, "No plugins found in %s\n", dir)
			} else {
				fmt.Fprintf(out, "Plugins in %s:\n", dir)
				for _, id := range ids {
					fmt.Fprintf(out, "  %s\n", id)
				}
			}

			fmt.Fprintf(out, "Registered operations: %s\n", strings.Join(container.Registry.List(), ", "))
			return nil
		},
	}
}

// newPluginsLoadCommand creates the 'plugins load' subcommand
func newPluginsLoadCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "load <name>",
		Short: "Load a plugin and register its operations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := container.PluginLoader.Load(args[0])
			if err != nil {
				return err
			}
			if err := container.PluginLoader.RegisterInto(container.Registry, p); err != nil {
				return err
			}

			names := make([]string, 0, len(p.Operations))
			for name := range p.Operations {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded plugin %s: %s\n", p.Name, strings.Join(names, ", "))
			return nil
		},
	}
}
