// pkg/backend/dispatcher.go
package backend

import (
	"context"
	"errors"
	"log"

	"github.com/arc-language/onepkg/pkg/catalog"
	"github.com/arc-language/onepkg/pkg/core"
	"github.com/arc-language/onepkg/pkg/ledger"
	"github.com/arc-language/onepkg/pkg/resolve"
)

// Result describes what an install or uninstall did
type Result struct {
	Package string
	Method  catalog.Method
	Changed bool // False when the ledger already matched the request
}

// Dispatcher routes install and uninstall requests to the backend for the
// selected method and keeps the ledger in step
type Dispatcher struct {
	catalog  *catalog.Catalog
	ledger   *ledger.Manager
	selector resolve.Selector
	backends map[catalog.Method]Backend
	logger   *log.Logger
}

// NewDispatcher creates a dispatcher with one backend per method
func NewDispatcher(cat *catalog.Catalog, led *ledger.Manager, sel resolve.Selector, opts *Options) (*Dispatcher, error) {
	backends := make(map[catalog.Method]Backend, len(catalog.Methods))
	for _, m := range catalog.Methods {
		b, err := New(m, opts)
		if err != nil {
			return nil, err
		}
		backends[m] = b
	}
	return &Dispatcher{
		catalog:  cat,
		ledger:   led,
		selector: sel,
		backends: backends,
		logger:   opts.logger(),
	}, nil
}

// Install installs name and, for source builds, its dependencies first.
// A package already in the ledger is left alone.
func (d *Dispatcher) Install(ctx context.Context, name string) (*Result, error) {
	return d.install(ctx, name, make(map[string]bool))
}

func (d *Dispatcher) install(ctx context.Context, name string, active map[string]bool) (*Result, error) {
	if method, ok := d.ledger.IsInstalled(name); ok {
		d.logger.Printf("dispatch: %s already installed via %s", name, method)
		return &Result{Package: name, Method: method}, nil
	}

	if active[name] {
		return nil, core.Errorf(core.ErrDependencyFailure, "install", name, "dependency cycle through %s", name)
	}
	active[name] = true
	defer delete(active, name)

	candidates, err := resolve.Resolve(d.catalog, name)
	if err != nil {
		return nil, err
	}
	chosen, err := d.selector.Select(name, candidates)
	if err != nil {
		return nil, err
	}

	if chosen.Method == catalog.MethodGitHub {
		for _, dep := range chosen.Entry.Install.GitHub.Deps {
			d.logger.Printf("dispatch: %s needs %s", name, dep)
			if _, err := d.install(ctx, dep, active); err != nil {
				return nil, &core.Error{
					Kind:       core.ErrDependencyFailure,
					Op:         "install",
					Package:    name,
					Dependency: dep,
					Err:        err,
				}
			}
		}
	}

	b, ok := d.backends[chosen.Method]
	if !ok {
		return nil, core.Errorf(core.ErrNoInstallCandidate, "install", name, "no backend for %s", chosen.Method)
	}

	d.logger.Printf("dispatch: installing %s via %s", name, chosen.Method)
	if err := b.Install(ctx, chosen.Entry); err != nil {
		return nil, err
	}

	if err := d.ledger.RecordInstall(name, chosen.Method); err != nil {
		if !errors.Is(err, ledger.ErrAlreadyRecorded) {
			return nil, err
		}
		d.logger.Printf("dispatch: %v", err)
	}
	return &Result{Package: name, Method: chosen.Method, Changed: true}, nil
}

// Uninstall removes name with the method it was installed with. A package
// that is not in the ledger is left alone.
func (d *Dispatcher) Uninstall(ctx context.Context, name string) (*Result, error) {
	method, ok := d.ledger.IsInstalled(name)
	if !ok {
		d.logger.Printf("dispatch: %s is not installed", name)
		return &Result{Package: name}, nil
	}

	entry, ok := d.catalog.Lookup(name)
	if !ok {
		return nil, core.Errorf(core.ErrPackageNotFound, "uninstall", name, "installed via %s but missing from the catalog", method)
	}

	b, ok := d.backends[method]
	if !ok {
		return nil, core.Errorf(core.ErrNoInstallCandidate, "uninstall", name, "no backend for %s", method)
	}

	d.logger.Printf("dispatch: uninstalling %s via %s", name, method)
	if err := b.Uninstall(ctx, entry); err != nil {
		return nil, err
	}
	if err := d.ledger.RecordUninstall(name); err != nil {
		return nil, err
	}
	return &Result{Package: name, Method: method, Changed: true}, nil
}
