// pkg/platform/detect.go
package platform

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/arc-language/onepkg/pkg/catalog"
)

// Platform represents the detected system platform
type Platform struct {
	OS    string                    // linux, darwin, ...
	Arch  string                    // amd64, arm64, ...
	Tools map[catalog.Method]string // Binary backing each usable method
}

// Detect checks which backend binaries are on PATH. aurHelper is the
// configured AUR helper; yay and paru are tried when it is missing.
func Detect(aurHelper string) *Platform {
	return detect(aurHelper, commandExists)
}

func detect(aurHelper string, exists func(string) bool) *Platform {
	p := &Platform{
		OS:    runtime.GOOS,
		Arch:  runtime.GOARCH,
		Tools: make(map[catalog.Method]string),
	}

	if exists("dnf") {
		p.Tools[catalog.MethodDnf] = "dnf"
	}
	if exists("apt-get") {
		p.Tools[catalog.MethodApt] = "apt-get"
	}
	if exists("pacman") {
		p.Tools[catalog.MethodPacman] = "pacman"
	}
	for _, helper := range uniq(aurHelper, "yay", "paru") {
		if exists(helper) {
			p.Tools[catalog.MethodAur] = helper
			break
		}
	}
	if exists("flatpak") {
		p.Tools[catalog.MethodFlathub] = "flatpak"
	}

	// AppImages are downloaded in-process; source builds clone in-process
	// and run their steps through sh.
	p.Tools[catalog.MethodAppImage] = "builtin"
	if exists("sh") {
		p.Tools[catalog.MethodGitHub] = "sh"
	}

	return p
}

// Available reports whether m can be used on this host
func (p *Platform) Available(m catalog.Method) bool {
	_, ok := p.Tools[m]
	return ok
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	var names []string
	for _, m := range catalog.Methods {
		if p.Available(m) {
			names = append(names, strings.ToLower(m.String()))
		}
	}
	return fmt.Sprintf("%s/%s (available: %s)", p.OS, p.Arch, strings.Join(names, ", "))
}
