// pkg/backend/appimage.go
package backend

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/arc-language/onepkg/pkg/catalog"
	"github.com/arc-language/onepkg/pkg/core"
	"github.com/arc-language/onepkg/pkg/marker"
)

// AppImageBackend downloads self-contained executables into the apps directory
type AppImageBackend struct {
	dir        string
	downloader Downloader
	logger     *log.Logger
}

// NewAppImageBackend creates the AppImage backend
func NewAppImageBackend(opts *Options) *AppImageBackend {
	return &AppImageBackend{
		dir:        opts.AppsDir,
		downloader: opts.Downloader,
		logger:     opts.logger(),
	}
}

func (b *AppImageBackend) Method() catalog.Method {
	return catalog.MethodAppImage
}

// FileName returns the file the AppImage is stored as: the catalog's name,
// falling back to the last element of the download URL
func FileName(info catalog.AppImageInfo) (string, error) {
	name := info.Name
	if name == "" {
		u, err := url.Parse(info.Link)
		if err != nil {
			return "", fmt.Errorf("invalid link %q: %w", info.Link, err)
		}
		name = path.Base(u.Path)
	}
	if err := safeName(name); err != nil {
		return "", err
	}
	return name, nil
}

// Install downloads the AppImage as an executable and writes its marker
func (b *AppImageBackend) Install(ctx context.Context, pkg *catalog.Package) error {
	info := pkg.Install.AppImage
	if info.Link == "" {
		return core.Errorf(core.ErrNoInstallCandidate, "install", pkg.Name, "no AppImage link")
	}
	name, err := FileName(info)
	if err != nil {
		return &core.Error{Kind: core.ErrIoFailure, Op: "install", Package: pkg.Name, Err: err}
	}

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return &core.Error{Kind: core.ErrIoFailure, Op: "install", Package: pkg.Name, Err: err}
	}

	dest := filepath.Join(b.dir, name)
	b.logger.Printf("appimage: downloading %s to %s", info.Link, dest)

	n, err := b.downloader.DownloadFile(ctx, info.Link, dest, 0o755)
	if err != nil {
		return &core.Error{Kind: core.ErrNetworkFailure, Op: "install", Package: pkg.Name, Err: err}
	}
	b.logger.Printf("appimage: wrote %d bytes", n)

	m := &marker.Marker{
		Package:  pkg.Name,
		Method:   catalog.MethodAppImage,
		Artifact: dest,
	}
	if err := marker.Write(marker.ForAppImage(b.dir, name), m); err != nil {
		return &core.Error{Kind: core.ErrIoFailure, Op: "install", Package: pkg.Name, Err: err}
	}
	return nil
}

// Uninstall removes the AppImage recorded in its marker, so a file the
// catalog has since renamed is still found. Without a marker the name comes
// from the catalog. A file that is already gone is not an error.
func (b *AppImageBackend) Uninstall(ctx context.Context, pkg *catalog.Package) error {
	dest, markerPath, err := b.installed(pkg)
	if err != nil {
		return &core.Error{Kind: core.ErrIoFailure, Op: "uninstall", Package: pkg.Name, Err: err}
	}

	b.logger.Printf("appimage: removing %s", dest)

	if err := os.Remove(dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &core.Error{Kind: core.ErrIoFailure, Op: "uninstall", Package: pkg.Name, Err: err}
	}
	if err := marker.Remove(markerPath); err != nil {
		return &core.Error{Kind: core.ErrIoFailure, Op: "uninstall", Package: pkg.Name, Err: err}
	}
	return nil
}

// installed returns the AppImage and marker paths for pkg
func (b *AppImageBackend) installed(pkg *catalog.Package) (string, string, error) {
	entries, err := os.ReadDir(filepath.Join(b.dir, marker.AppImageDir))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", "", err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		file := strings.TrimSuffix(e.Name(), ".toml")
		path := marker.ForAppImage(b.dir, file)

		m, err := marker.Read(path)
		if err != nil {
			b.logger.Printf("appimage: %v", err)
			continue
		}
		if m.Package != pkg.Name || m.Method != catalog.MethodAppImage {
			continue
		}
		if safeName(file) != nil {
			continue
		}
		return filepath.Join(b.dir, file), path, nil
	}

	name, err := FileName(pkg.Install.AppImage)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(b.dir, name), marker.ForAppImage(b.dir, name), nil
}
