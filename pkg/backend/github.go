// pkg/backend/github.go
package backend

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/arc-language/onepkg/pkg/catalog"
	"github.com/arc-language/onepkg/pkg/core"
	"github.com/arc-language/onepkg/pkg/marker"
)

// GitHubBackend builds packages from a source checkout. Dependencies are
// installed by the dispatcher before Install is called.
type GitHubBackend struct {
	dir    string
	cloner Cloner
	runner Runner
	logger *log.Logger
}

// NewGitHubBackend creates the source build backend
func NewGitHubBackend(opts *Options) *GitHubBackend {
	return &GitHubBackend{
		dir:    opts.SourceDir,
		cloner: opts.Cloner,
		runner: opts.Runner,
		logger: opts.logger(),
	}
}

func (b *GitHubBackend) Method() catalog.Method {
	return catalog.MethodGitHub
}

// CheckoutDir returns where name is checked out
func (b *GitHubBackend) CheckoutDir(name string) (string, error) {
	if err := safeName(name); err != nil {
		return "", err
	}
	return filepath.Join(b.dir, name), nil
}

// Install clones the repository and runs the build steps in order, stopping
// at the first failure. The checkout stays on disk either way.
func (b *GitHubBackend) Install(ctx context.Context, pkg *catalog.Package) error {
	info := pkg.Install.GitHub
	if info.Repo == "" {
		return core.Errorf(core.ErrNoInstallCandidate, "install", pkg.Name, "no repository")
	}

	dir, err := b.checkout(ctx, "install", pkg)
	if err != nil {
		return err
	}
	return b.runSteps(ctx, "install", pkg.Name, dir, info.Steps)
}

// Uninstall runs the teardown steps inside the checkout, cloning it again
// if it is gone. A package without teardown steps has nothing to undo; its
// checkout is left for auto-uninstall.
func (b *GitHubBackend) Uninstall(ctx context.Context, pkg *catalog.Package) error {
	info := pkg.Install.GitHub
	if len(info.UninstallSteps) == 0 {
		b.logger.Printf("github: %s has no uninstall steps", pkg.Name)
		return nil
	}

	dir, err := b.CheckoutDir(pkg.Name)
	if err != nil {
		return &core.Error{Kind: core.ErrIoFailure, Op: "uninstall", Package: pkg.Name, Err: err}
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		if dir, err = b.checkout(ctx, "uninstall", pkg); err != nil {
			return err
		}
	}
	return b.runSteps(ctx, "uninstall", pkg.Name, dir, info.UninstallSteps)
}

func (b *GitHubBackend) checkout(ctx context.Context, op string, pkg *catalog.Package) (string, error) {
	dir, err := b.CheckoutDir(pkg.Name)
	if err != nil {
		return "", &core.Error{Kind: core.ErrIoFailure, Op: op, Package: pkg.Name, Err: err}
	}

	url := RepoURL(pkg.Install.GitHub.Repo)
	b.logger.Printf("github: fetching %s", url)

	commit, err := b.cloner.Clone(ctx, url, dir)
	if err != nil {
		return "", &core.Error{Kind: core.ErrNetworkFailure, Op: op, Package: pkg.Name, Err: err}
	}

	m := &marker.Marker{
		Package:  pkg.Name,
		Method:   catalog.MethodGitHub,
		Artifact: dir,
		Repo:     url,
		Commit:   commit,
	}
	if err := marker.Write(marker.ForCheckout(dir), m); err != nil {
		return "", &core.Error{Kind: core.ErrIoFailure, Op: op, Package: pkg.Name, Err: err}
	}
	return dir, nil
}

func (b *GitHubBackend) runSteps(ctx context.Context, op, name, dir string, steps []string) error {
	for i, step := range steps {
		b.logger.Printf("github: %s step %d/%d: %s", name, i+1, len(steps), step)

		code, err := b.runner.Run(ctx, Command{Name: "sh", Args: []string{"-c", step}, Dir: dir})
		if err == nil && code == 0 {
			continue
		}
		if err == nil {
			err = fmt.Errorf("%q exited with status %d", step, code)
		}
		return &core.Error{
			Kind:     core.ErrBuildStepFailure,
			Op:       op,
			Package:  name,
			Step:     i + 1,
			ExitCode: code,
			Err:      err,
		}
	}
	return nil
}
