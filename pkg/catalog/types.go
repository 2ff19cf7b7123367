// pkg/catalog/types.go
package catalog

// Package is one entry of the remote package list
type Package struct {
	Name    string  `json:"name"`
	Install Formats `json:"install"`
}

// Formats holds one descriptor per backend. An empty token means the
// package is not offered in that format.
type Formats struct {
	Dnf      string       `json:"dnf"`
	Apt      string       `json:"apt"`
	Pacman   string       `json:"pacman"`
	Aur      string       `json:"aur"`
	Flathub  string       `json:"flathub"`
	AppImage AppImageInfo `json:"appimage"`
	GitHub   GitHubInfo   `json:"github"`
}

// AppImageInfo describes a downloadable AppImage
type AppImageInfo struct {
	Link string `json:"link"` // Download URL
	Name string `json:"name"` // File name inside the apps directory
}

// GitHubInfo describes a build from source
type GitHubInfo struct {
	Repo           string   `json:"repo"`            // owner/name or clone URL
	Steps          []string `json:"steps"`           // Build commands, in order
	UninstallSteps []string `json:"uninstall_steps"` // Teardown commands, in order
	Deps           []string `json:"deps"`            // Catalog names installed first
}

// Token returns the identifier passed to a system package manager, or ""
// for the structured formats
func (f *Formats) Token(m Method) string {
	switch m {
	case MethodDnf:
		return f.Dnf
	case MethodApt:
		return f.Apt
	case MethodPacman:
		return f.Pacman
	case MethodAur:
		return f.Aur
	case MethodFlathub:
		return f.Flathub
	default:
		return ""
	}
}

// Offers reports whether the format for m is present. Structured formats
// count as present when their identifying field is set.
func (f *Formats) Offers(m Method) bool {
	switch m {
	case MethodAppImage:
		return f.AppImage.Link != ""
	case MethodGitHub:
		return f.GitHub.Repo != ""
	default:
		return f.Token(m) != ""
	}
}

// Catalog is the ordered package list
type Catalog struct {
	Packages []Package
	index    map[string]int
}

// NewCatalog builds a catalog over pkgs. Names are expected to be unique.
func NewCatalog(pkgs []Package) *Catalog {
	c := &Catalog{Packages: pkgs, index: make(map[string]int, len(pkgs))}
	for i, p := range pkgs {
		if _, dup := c.index[p.Name]; !dup {
			c.index[p.Name] = i
		}
	}
	return c
}

// Lookup returns the entry called name
func (c *Catalog) Lookup(name string) (*Package, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return &c.Packages[i], true
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Packages)
}

// Record is one installed package
type Record struct {
	Name   string `json:"name"`
	Method Method `json:"method"`
}

// Ledger is the set of installed packages. Order carries no meaning.
type Ledger struct {
	Records []Record
}

// Find returns the record for name, or nil
func (l *Ledger) Find(name string) *Record {
	for i := range l.Records {
		if l.Records[i].Name == name {
			return &l.Records[i]
		}
	}
	return nil
}

// Remove drops the record for name. Returns true if found.
func (l *Ledger) Remove(name string) bool {
	for i, r := range l.Records {
		if r.Name == name {
			l.Records = append(l.Records[:i], l.Records[i+1:]...)
			return true
		}
	}
	return false
}
