// internal/cli/info.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [package]",
	Short: "Show information about a package",
	Long:  `Display the formats a package is offered in and whether this system can use them.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	info, err := manager.Info(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Package: %s\n", info.Name)
	if info.Installed {
		fmt.Fprintf(out, "Installed: yes (%s)\n", info.Method)
	} else {
		fmt.Fprintf(out, "Installed: no\n")
	}
	if len(info.Deps) > 0 {
		fmt.Fprintf(out, "Dependencies: %s\n", strings.Join(info.Deps, ", "))
	}

	if len(info.Candidates) == 0 {
		fmt.Fprintln(out, "Formats: none")
		return nil
	}
	fmt.Fprintln(out, "Formats:")
	for _, c := range info.Candidates {
		mark := " "
		if c.Available {
			mark = "*"
		}
		fmt.Fprintf(out, "  %s %-9s %s\n", mark, c.Method, c.Identifier)
	}
	fmt.Fprintln(out, "\n* = available on this system")
	return nil
}
