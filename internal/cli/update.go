// internal/cli/update.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/onepkg/pkg/index"
)

var updateRollback bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the package list",
	Long: `Download a fresh package list and verify it. The previous list is kept
as a backup; --rollback restores it.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&updateRollback, "rollback", false, "restore the package list saved by the last update")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if updateRollback {
		if err := manager.Rollback(); err != nil {
			return err
		}
		fmt.Fprintln(out, "Restored the previous package list.")
		return nil
	}

	fmt.Fprintf(out, "Updating package list from %s...\n", config.CatalogURL)
	res, err := manager.Update(cmd.Context())
	if err != nil {
		if res != nil && res.State == index.StateInvalid && res.BackedUp {
			fmt.Fprintln(out, "The new package list failed verification; run 'one-pkg update --rollback' to restore the previous one.")
		}
		return err
	}

	fmt.Fprintf(out, "Successfully verified new package list (%d bytes).\n", res.Bytes)
	return nil
}
