// pkg/backend/system.go
package backend

import (
	"context"
	"fmt"
	"log"

	"github.com/arc-language/onepkg/pkg/catalog"
	"github.com/arc-language/onepkg/pkg/core"
)

// systemBackend shells out to a host package manager with the package's
// token for that manager
type systemBackend struct {
	method    catalog.Method
	tool      string
	install   []string // Arguments before the token
	uninstall []string
	sudo      bool
	runner    Runner
	logger    *log.Logger
}

func (b *systemBackend) Method() catalog.Method {
	return b.method
}

func (b *systemBackend) Install(ctx context.Context, pkg *catalog.Package) error {
	return b.run(ctx, "install", pkg, b.install)
}

func (b *systemBackend) Uninstall(ctx context.Context, pkg *catalog.Package) error {
	return b.run(ctx, "uninstall", pkg, b.uninstall)
}

// command builds the invocation without running it
func (b *systemBackend) command(token string, args []string) Command {
	full := append(append([]string{}, args...), token)
	if b.sudo {
		return Command{Name: "sudo", Args: append([]string{b.tool}, full...)}
	}
	return Command{Name: b.tool, Args: full}
}

func (b *systemBackend) run(ctx context.Context, op string, pkg *catalog.Package, args []string) error {
	token := pkg.Install.Token(b.method)
	if token == "" {
		return &core.Error{
			Kind:    core.ErrNoInstallCandidate,
			Op:      op,
			Package: pkg.Name,
			Err:     fmt.Errorf("no %s token", b.method),
		}
	}

	cmd := b.command(token, args)
	b.logger.Printf("%s: %s %s", b.method, op, cmd)

	code, err := b.runner.Run(ctx, cmd)
	if err != nil {
		return &core.Error{
			Kind:     core.ErrBackendExecution,
			Op:       op,
			Package:  pkg.Name,
			Backend:  b.tool,
			ExitCode: -1,
			Err:      err,
		}
	}
	if code != 0 {
		return &core.Error{
			Kind:     core.ErrBackendExecution,
			Op:       op,
			Package:  pkg.Name,
			Backend:  b.tool,
			ExitCode: code,
			Err:      fmt.Errorf("%s exited with status %d", b.tool, code),
		}
	}
	return nil
}
