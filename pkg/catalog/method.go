// pkg/catalog/method.go
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Method is an installation backend
type Method int

const (
	// MethodDnf installs through Fedora's dnf
	MethodDnf Method = iota + 1
	// MethodApt installs through Debian/Ubuntu apt
	MethodApt
	// MethodPacman installs through Arch's pacman
	MethodPacman
	// MethodAur installs from the Arch User Repository via a helper
	MethodAur
	// MethodFlathub installs a Flatpak from Flathub
	MethodFlathub
	// MethodAppImage downloads a self-contained AppImage
	MethodAppImage
	// MethodGitHub clones a repository and builds it from source
	MethodGitHub
)

// Methods lists every method in resolution order
var Methods = []Method{
	MethodDnf,
	MethodApt,
	MethodPacman,
	MethodAur,
	MethodFlathub,
	MethodAppImage,
	MethodGitHub,
}

var methodTokens = map[Method]string{
	MethodDnf:      "Dnf",
	MethodApt:      "Apt",
	MethodPacman:   "Pacman",
	MethodAur:      "Aur",
	MethodFlathub:  "Flathub",
	MethodAppImage: "AppImage",
	MethodGitHub:   "GitHub",
}

// String returns the ledger token for m
func (m Method) String() string {
	if s, ok := methodTokens[m]; ok {
		return s
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Valid reports whether m is one of the known methods
func (m Method) Valid() bool {
	_, ok := methodTokens[m]
	return ok
}

// ParseMethod accepts ledger tokens ("AppImage") and CLI spellings ("appimage")
func ParseMethod(s string) (Method, error) {
	for m, tok := range methodTokens {
		if strings.EqualFold(s, tok) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown install method %q", s)
}

// MarshalJSON writes the ledger token
func (m Method) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid install method %d", int(m))
	}
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts only the exact ledger tokens
func (m *Method) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for method, tok := range methodTokens {
		if s == tok {
			*m = method
			return nil
		}
	}
	return fmt.Errorf("unknown install method %q", s)
}

// MarshalText lets Method be used in TOML markers
func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid install method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText reads a marker's method
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
