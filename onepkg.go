// onepkg.go
package onepkg

import (
	"context"
	"errors"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/arc-language/onepkg/pkg/backend"
	"github.com/arc-language/onepkg/pkg/catalog"
	"github.com/arc-language/onepkg/pkg/core"
	"github.com/arc-language/onepkg/pkg/index"
	"github.com/arc-language/onepkg/pkg/ledger"
	"github.com/arc-language/onepkg/pkg/platform"
	"github.com/arc-language/onepkg/pkg/resolve"
	"github.com/arc-language/onepkg/pkg/sweep"
)

// Re-export the types callers need
type (
	Config     = core.Config
	Method     = catalog.Method
	Package    = catalog.Package
	Record     = catalog.Record
	Result     = backend.Result
	SyncResult = index.Result
	Report     = sweep.Report
	Selector   = resolve.Selector
)

// Re-export method constants
const (
	MethodDnf      = catalog.MethodDnf
	MethodApt      = catalog.MethodApt
	MethodPacman   = catalog.MethodPacman
	MethodAur      = catalog.MethodAur
	MethodFlathub  = catalog.MethodFlathub
	MethodAppImage = catalog.MethodAppImage
	MethodGitHub   = catalog.MethodGitHub
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// Manager is the meta package manager
type Manager struct {
	config   *core.Config
	store    *catalog.Store
	sync     *index.Synchronizer
	ledger   *ledger.Manager
	platform *platform.Platform
	options  *backend.Options
	logger   *log.Logger
}

// NewManager creates a manager over the directories named in config
func NewManager(config *Config) (*Manager, error) {
	if config == nil {
		config = core.DefaultConfig()
	}
	if config.ConfigDir == "" {
		return nil, &core.Error{Kind: core.ErrConfigDirUnavailable, Op: "init", Err: errors.New("no configuration directory")}
	}

	logger := config.Log()
	store := catalog.NewStore(config.ConfigDir, logger)
	client := index.NewClient(config.Timeout)
	plat := platform.Detect(config.AURHelper)

	opts := backend.OptionsFromConfig(config,
		backend.NewExecRunner(config.BuildTimeout, logger),
		client,
		backend.NewGitCloner(config.CloneTimeout, os.Stderr, logger),
	)
	if helper, ok := plat.Tools[catalog.MethodAur]; ok {
		opts.AURHelper = helper
	}

	logger.Printf("platform: %s", plat)

	return &Manager{
		config:   config,
		store:    store,
		sync:     index.NewSynchronizer(store, client, config.CatalogURL, logger),
		ledger:   ledger.New(store, logger),
		platform: plat,
		options:  opts,
		logger:   logger,
	}, nil
}

// Catalog loads the verified package list, fetching it on first use
func (m *Manager) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	cat, err := m.store.LoadCatalog()
	if errors.Is(err, catalog.ErrNotFound) {
		m.logger.Printf("catalog: none on disk, fetching")
		if _, err := m.sync.Sync(ctx); err != nil {
			return nil, err
		}
		return m.store.LoadCatalog()
	}
	return cat, err
}

// Install installs name and its dependencies, choosing methods with sel
func (m *Manager) Install(ctx context.Context, name string, sel Selector) (*Result, error) {
	if method, ok := m.ledger.IsInstalled(name); ok {
		return &Result{Package: name, Method: method}, nil
	}

	d, err := m.dispatcher(ctx, sel)
	if err != nil {
		return nil, err
	}
	return d.Install(ctx, name)
}

// Uninstall removes name with the method it was installed with
func (m *Manager) Uninstall(ctx context.Context, name string) (*Result, error) {
	if _, ok := m.ledger.IsInstalled(name); !ok {
		m.logger.Printf("uninstall: %s is not installed", name)
		return &Result{Package: name}, nil
	}

	d, err := m.dispatcher(ctx, resolve.Chain())
	if err != nil {
		return nil, err
	}
	return d.Uninstall(ctx, name)
}

func (m *Manager) dispatcher(ctx context.Context, sel Selector) (*backend.Dispatcher, error) {
	cat, err := m.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	if sel == nil {
		sel = resolve.Chain()
	}
	return backend.NewDispatcher(cat, m.ledger, sel, m.options)
}

// AutoUninstall removes AppImages and checkouts left behind by packages
// that are no longer installed
func (m *Manager) AutoUninstall(ctx context.Context, dryRun bool) (*Report, error) {
	s := &sweep.Sweeper{
		AppsDir:   m.options.AppsDir,
		SourceDir: m.options.SourceDir,
		Ledger:    m.ledger,
		Logger:    m.logger,
		DryRun:    dryRun,
	}
	return s.Sweep(ctx)
}

// Update fetches and verifies a fresh package list
func (m *Manager) Update(ctx context.Context) (*SyncResult, error) {
	return m.sync.Sync(ctx)
}

// Rollback restores the package list saved by the last update
func (m *Manager) Rollback() error {
	return m.sync.Rollback()
}

// List returns installed packages sorted by name
func (m *Manager) List() []Record {
	return m.ledger.List()
}

// Search returns catalog entries whose name contains query, ignoring case
func (m *Manager) Search(ctx context.Context, query string) ([]Package, error) {
	cat, err := m.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var out []Package
	for _, p := range cat.Packages {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CandidateInfo is one way a package can be installed
type CandidateInfo struct {
	Method     Method
	Identifier string
	Available  bool // The backing tool is present on this host
}

// PackageInfo describes a catalog entry and its install state
type PackageInfo struct {
	Name       string
	Installed  bool
	Method     Method // Set when installed
	Candidates []CandidateInfo
	Deps       []string
}

// Info describes name
func (m *Manager) Info(ctx context.Context, name string) (*PackageInfo, error) {
	cat, err := m.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	candidates, err := resolve.Resolve(cat, name)
	if err != nil && !errors.Is(err, core.ErrNoInstallCandidate) {
		return nil, err
	}

	info := &PackageInfo{Name: name}
	info.Method, info.Installed = m.ledger.IsInstalled(name)
	for _, c := range candidates {
		info.Candidates = append(info.Candidates, CandidateInfo{
			Method:     c.Method,
			Identifier: c.Identifier(),
			Available:  m.platform.Available(c.Method),
		})
	}
	if entry, ok := cat.Lookup(name); ok {
		info.Deps = entry.Install.GitHub.Deps
	}
	return info, nil
}

// Platform returns the detected host platform
func (m *Manager) Platform() *platform.Platform {
	return m.platform
}

// SelectOptions controls how an install method is chosen
type SelectOptions struct {
	// Package and Method force a method for one package
	Package string
	Method  Method

	// Prefer overrides the configured preferred_methods
	Prefer []Method

	// Prompt is asked last, nil for non-interactive use
	Prompt Selector
}

// Selector builds the selection chain: forced method, then preferences
// usable on this host, then the prompt
func (m *Manager) Selector(o SelectOptions) (Selector, error) {
	var chain []resolve.Selector

	if o.Method != 0 {
		if !o.Method.Valid() {
			return nil, core.Errorf(core.ErrAmbiguousSelection, "select", o.Package, "invalid method %d", int(o.Method))
		}
		chain = append(chain, resolve.MethodSelector{Package: o.Package, Method: o.Method})
	}

	prefer := o.Prefer
	if len(prefer) == 0 {
		configured, err := resolve.ParseMethods(m.config.PreferredMethods)
		if err != nil {
			return nil, core.Errorf(core.ErrAmbiguousSelection, "select", o.Package, "preferred_methods: %w", err)
		}
		prefer = configured
	}
	if len(prefer) > 0 {
		chain = append(chain, resolve.PreferenceSelector{Order: prefer, Available: m.platform.Available})
	}

	if o.Prompt != nil {
		chain = append(chain, o.Prompt)
	}
	return resolve.Chain(chain...), nil
}
