// pkg/backend/pacman.go
package backend

import "github.com/arc-language/onepkg/pkg/catalog"

// NewPacmanBackend creates the Arch Linux backend: pacman -S|-R --noconfirm <token>
func NewPacmanBackend(opts *Options) Backend {
	return &systemBackend{
		method:    catalog.MethodPacman,
		tool:      "pacman",
		install:   []string{"-S", "--noconfirm"},
		uninstall: []string{"-R", "--noconfirm"},
		sudo:      opts.Sudo,
		runner:    opts.Runner,
		logger:    opts.logger(),
	}
}

// NewAurBackend creates the AUR backend. AUR helpers refuse to run as root
// and escalate on their own, so sudo is never added.
func NewAurBackend(opts *Options) Backend {
	helper := opts.AURHelper
	if helper == "" {
		helper = "yay"
	}
	return &systemBackend{
		method:    catalog.MethodAur,
		tool:      helper,
		install:   []string{"-S", "--noconfirm"},
		uninstall: []string{"-R", "--noconfirm"},
		runner:    opts.Runner,
		logger:    opts.logger(),
	}
}
