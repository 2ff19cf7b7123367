// pkg/backend/apt.go
package backend

import "github.com/arc-language/onepkg/pkg/catalog"

// NewAptBackend creates the Debian/Ubuntu backend: apt-get install|remove -y <token>
func NewAptBackend(opts *Options) Backend {
	return &systemBackend{
		method:    catalog.MethodApt,
		tool:      "apt-get",
		install:   []string{"install", "-y"},
		uninstall: []string{"remove", "-y"},
		sudo:      opts.Sudo,
		runner:    opts.Runner,
		logger:    opts.logger(),
	}
}
