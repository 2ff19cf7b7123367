// internal/cli/uninstall.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall [package]",
	Short: "Uninstall a package",
	Long:  `Remove a package with the method it was installed with.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runUninstall,
}

func runUninstall(cmd *cobra.Command, args []string) error {
	name := args[0]
	out := cmd.OutOrStdout()

	res, err := manager.Uninstall(cmd.Context(), name)
	if err != nil {
		return err
	}
	if !res.Changed {
		fmt.Fprintf(out, "%s is not installed\n", name)
		return nil
	}

	fmt.Fprintf(out, "✓ Successfully uninstalled %s (%s)\n", name, res.Method)
	return nil
}
