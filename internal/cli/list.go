// internal/cli/list.go
package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed packages",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	records := manager.List()
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No packages installed.")
		return nil
	}

	t := newTable(cmd)
	t.AppendHeader(table.Row{"Package", "Method"})
	for _, r := range records {
		t.AppendRow(table.Row{r.Name, r.Method})
	}
	t.Render()
	return nil
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	return t
}
