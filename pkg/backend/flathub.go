// pkg/backend/flathub.go
package backend

import "github.com/arc-language/onepkg/pkg/catalog"

// NewFlathubBackend creates the Flatpak backend. Installs name the remote;
// flatpak handles privilege itself.
func NewFlathubBackend(opts *Options) Backend {
	remote := opts.FlatpakRemote
	if remote == "" {
		remote = "flathub"
	}
	return &systemBackend{
		method:    catalog.MethodFlathub,
		tool:      "flatpak",
		install:   []string{"install", "-y", remote},
		uninstall: []string{"uninstall", "-y"},
		runner:    opts.Runner,
		logger:    opts.logger(),
	}
}
