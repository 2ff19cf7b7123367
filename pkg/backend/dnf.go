// pkg/backend/dnf.go
package backend

import "github.com/arc-language/onepkg/pkg/catalog"

// NewDnfBackend creates the Fedora backend: dnf install|remove -y <token>
func NewDnfBackend(opts *Options) Backend {
	return &systemBackend{
		method:    catalog.MethodDnf,
		tool:      "dnf",
		install:   []string{"install", "-y"},
		uninstall: []string{"remove", "-y"},
		sudo:      opts.Sudo,
		runner:    opts.Runner,
		logger:    opts.logger(),
	}
}
