// internal/cli/root.go
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arc-language/onepkg"
	"github.com/arc-language/onepkg/pkg/core"
)

var (
	cfgFile string
	debug   bool
	config  *core.Config
	manager *onepkg.Manager
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "one-pkg",
	Short: "One package manager for every Linux package format",
	Long: `one-pkg - meta package manager

Installs packages from a shared package list through dnf, apt, pacman,
the AUR, Flathub, AppImages or a build from source, and remembers which
method each package came from.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initManager,
}

// Execute executes the root command. Interrupts cancel the running operation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/one-pkg/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add commands
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(autoUninstallCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(backendsCmd)
	rootCmd.AddCommand(versionCmd)
}

func initManager(cmd *cobra.Command, args []string) error {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		return err
	}

	// Override config with flags
	if debug {
		config.Debug = true
	}

	if created, err := core.EnsureConfigFile(cfgFile); err != nil {
		config.Log().Printf("config: cannot write defaults: %v", err)
	} else if created {
		config.Log().Printf("config: wrote defaults")
	}

	manager, err = onepkg.NewManager(config)
	return err
}
