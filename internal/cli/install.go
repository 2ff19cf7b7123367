// internal/cli/install.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arc-language/onepkg"
	"github.com/arc-language/onepkg/pkg/catalog"
	"github.com/arc-language/onepkg/pkg/resolve"
)

var (
	installMethod string
	installPrefer []string
)

var installCmd = &cobra.Command{
	Use:   "install [package]",
	Short: "Install a package",
	Long: `Install a package from the package list. When it is offered in more
than one format, the method is taken from --method, then from --prefer or
preferred_methods, and otherwise asked for interactively.

Examples:
  one-pkg install neovim
  one-pkg install neovim --method=appimage
  one-pkg install neovim --prefer=pacman,flathub`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installMethod, "method", "", "install method to use (dnf, apt, pacman, aur, flathub, appimage, github)")
	installCmd.Flags().StringSliceVar(&installPrefer, "prefer", nil, "install methods to try in order, overriding preferred_methods")
}

func runInstall(cmd *cobra.Command, args []string) error {
	name := args[0]

	opts := onepkg.SelectOptions{Package: name}
	if installMethod != "" {
		m, err := catalog.ParseMethod(installMethod)
		if err != nil {
			return err
		}
		opts.Method = m
	}
	prefer, err := resolve.ParseMethods(installPrefer)
	if err != nil {
		return err
	}
	opts.Prefer = prefer
	if term.IsTerminal(int(os.Stdin.Fd())) {
		opts.Prompt = resolve.NewPromptSelector(os.Stdin, cmd.OutOrStdout())
	}

	sel, err := manager.Selector(opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Installing %s...\n", name)

	res, err := manager.Install(cmd.Context(), name, sel)
	if err != nil {
		return err
	}
	if !res.Changed {
		fmt.Fprintf(out, "%s is already installed (%s)\n", name, res.Method)
		return nil
	}

	fmt.Fprintf(out, "✓ Successfully installed %s via %s\n", name, res.Method)
	return nil
}
