// internal/cli/search.go
package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/arc-language/onepkg/pkg/catalog"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the package list",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	found, err := manager.Search(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No packages match %q.\n", args[0])
		return nil
	}

	t := newTable(cmd)
	t.AppendHeader(table.Row{"Package", "Formats"})
	for _, p := range found {
		var formats []string
		for _, m := range catalog.Methods {
			if p.Install.Offers(m) {
				formats = append(formats, m.String())
			}
		}
		t.AppendRow(table.Row{p.Name, strings.Join(formats, ", ")})
	}
	t.Render()
	return nil
}
