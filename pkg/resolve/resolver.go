// pkg/resolve/resolver.go
package resolve

import (
	"github.com/arc-language/onepkg/pkg/catalog"
	"github.com/arc-language/onepkg/pkg/core"
)

// Candidate is one way of installing a package
type Candidate struct {
	Method catalog.Method
	Entry  *catalog.Package
}

// Identifier is what the backend is handed for this candidate: the system
// package token, the AppImage link or the repository reference
func (c Candidate) Identifier() string {
	switch c.Method {
	case catalog.MethodAppImage:
		return c.Entry.Install.AppImage.Link
	case catalog.MethodGitHub:
		return c.Entry.Install.GitHub.Repo
	default:
		return c.Entry.Install.Token(c.Method)
	}
}

// Resolve lists the formats name is offered in, in the fixed order
// Dnf, Apt, Pacman, Aur, Flathub, AppImage, GitHub
func Resolve(cat *catalog.Catalog, name string) ([]Candidate, error) {
	entry, ok := cat.Lookup(name)
	if !ok {
		return nil, core.Errorf(core.ErrPackageNotFound, "resolve", name, "no catalog entry")
	}

	var candidates []Candidate
	for _, m := range catalog.Methods {
		if entry.Install.Offers(m) {
			candidates = append(candidates, Candidate{Method: m, Entry: entry})
		}
	}

	if len(candidates) == 0 {
		return nil, core.Errorf(core.ErrNoInstallCandidate, "resolve", name, "entry declares no installable format")
	}
	return candidates, nil
}
