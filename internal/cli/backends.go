// internal/cli/backends.go
package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/arc-language/onepkg/pkg/catalog"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List available install methods",
	Long:  `List the install methods and the tools backing them on this system.`,
	Args:  cobra.NoArgs,
	RunE:  runBackends,
}

func runBackends(cmd *cobra.Command, args []string) error {
	plat := manager.Platform()
	fmt.Fprintf(cmd.OutOrStdout(), "Platform: %s/%s\n\n", plat.OS, plat.Arch)

	t := newTable(cmd)
	t.AppendHeader(table.Row{"Method", "Tool", "Available"})
	for _, m := range catalog.Methods {
		tool, ok := plat.Tools[m]
		avail := "no"
		if ok {
			avail = "yes"
		}
		t.AppendRow(table.Row{m, tool, avail})
	}
	t.Render()
	return nil
}
