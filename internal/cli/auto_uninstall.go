// internal/cli/auto_uninstall.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var autoUninstallDryRun bool

var autoUninstallCmd = &cobra.Command{
	Use:   "auto-uninstall",
	Short: "Remove leftovers of uninstalled packages",
	Long: `Remove AppImages and source checkouts that belong to packages which
are no longer installed.`,
	Args: cobra.NoArgs,
	RunE: runAutoUninstall,
}

func init() {
	autoUninstallCmd.Flags().BoolVar(&autoUninstallDryRun, "dry-run", false, "list what would be removed without removing it")
}

func runAutoUninstall(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Auto-uninstalling packages.")

	report, err := manager.AutoUninstall(cmd.Context(), autoUninstallDryRun)
	if err != nil {
		return err
	}

	verb := "Removed"
	if autoUninstallDryRun {
		verb = "Would remove"
	}
	for _, a := range report.Removed {
		fmt.Fprintf(out, "  %s %s (%s)\n", verb, a.Path, a.Package)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(out, "  ✗ %s: %v\n", f.Artifact.Path, f.Err)
	}

	fmt.Fprintf(out, "%d removed, %d kept, %d failed\n", len(report.Removed), len(report.Kept), len(report.Failed))
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d artifacts could not be removed", len(report.Failed))
	}
	return nil
}
