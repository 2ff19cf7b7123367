// pkg/backend/types.go
package backend

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/arc-language/onepkg/pkg/catalog"
	"github.com/arc-language/onepkg/pkg/core"
)

// Backend installs and removes packages with one method
type Backend interface {
	// Method returns the install method this backend implements
	Method() catalog.Method

	// Install installs pkg. Dependencies are the dispatcher's job.
	Install(ctx context.Context, pkg *catalog.Package) error

	// Uninstall removes pkg
	Uninstall(ctx context.Context, pkg *catalog.Package) error
}

// Downloader stores the document at a URL in a local file
type Downloader interface {
	DownloadFile(ctx context.Context, rawURL, path string, perm os.FileMode) (int64, error)
}

// Options configures every backend
type Options struct {
	// Runner executes external commands
	Runner Runner

	// Downloader fetches AppImages
	Downloader Downloader

	// Cloner fetches source repositories
	Cloner Cloner

	// AppsDir holds AppImages
	AppsDir string

	// SourceDir holds one checkout per source-built package
	SourceDir string

	// Sudo prefixes system package manager commands with sudo
	Sudo bool

	// AURHelper is the AUR helper binary
	AURHelper string

	// FlatpakRemote is the remote Flathub packages come from
	FlatpakRemote string

	// Logger for debug output
	Logger *log.Logger
}

// OptionsFromConfig derives backend options from the onepkg configuration
func OptionsFromConfig(cfg *core.Config, runner Runner, dl Downloader, cloner Cloner) *Options {
	return &Options{
		Runner:        runner,
		Downloader:    dl,
		Cloner:        cloner,
		AppsDir:       cfg.AppsDir(),
		SourceDir:     cfg.SourceDir(),
		Sudo:          cfg.Sudo && os.Geteuid() != 0,
		AURHelper:     cfg.AURHelper,
		FlatpakRemote: cfg.FlatpakRemote,
		Logger:        cfg.Log(),
	}
}

func (o *Options) logger() *log.Logger {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
	return o.Logger
}

// New returns the backend for m
func New(m catalog.Method, opts *Options) (Backend, error) {
	switch m {
	case catalog.MethodDnf:
		return NewDnfBackend(opts), nil
	case catalog.MethodApt:
		return NewAptBackend(opts), nil
	case catalog.MethodPacman:
		return NewPacmanBackend(opts), nil
	case catalog.MethodAur:
		return NewAurBackend(opts), nil
	case catalog.MethodFlathub:
		return NewFlathubBackend(opts), nil
	case catalog.MethodAppImage:
		return NewAppImageBackend(opts), nil
	case catalog.MethodGitHub:
		return NewGitHubBackend(opts), nil
	default:
		return nil, fmt.Errorf("unsupported install method: %s", m)
	}
}

// safeName rejects names that would escape a managed directory
func safeName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("unsafe file name %q", name)
	}
	return nil
}
