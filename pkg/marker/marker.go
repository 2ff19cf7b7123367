// pkg/marker/marker.go
package marker

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/arc-language/onepkg/pkg/catalog"
)

const (
	// CheckoutFile marks a source checkout, inside the checkout
	CheckoutFile = ".onepkg.toml"

	// AppImageDir holds one marker per AppImage, inside the apps directory
	AppImageDir = ".markers"
)

// Marker ties an on-disk artifact to the package that put it there
type Marker struct {
	Package     string         `toml:"package"`
	Method      catalog.Method `toml:"method"`
	Artifact    string         `toml:"artifact"`
	Repo        string         `toml:"repo,omitempty"`
	Commit      string         `toml:"commit,omitempty"`
	InstalledAt time.Time      `toml:"installed_at"`
}

// ForCheckout returns the marker path for a source checkout directory
func ForCheckout(dir string) string {
	return filepath.Join(dir, CheckoutFile)
}

// ForAppImage returns the marker path for an AppImage file name
func ForAppImage(appsDir, file string) string {
	return filepath.Join(appsDir, AppImageDir, file+".toml")
}

// Write stores m at path
func Write(path string, m *Marker) error {
	if m.InstalledAt.IsZero() {
		m.InstalledAt = time.Now().UTC().Truncate(time.Second)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return fmt.Errorf("marker: encoding %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("marker: creating directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("marker: writing %s: %w", path, err)
	}
	return nil
}

// Read loads the marker at path. A missing marker is reported with an error
// wrapping fs.ErrNotExist.
func Read(path string) (*Marker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("marker: %s: %w", path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("marker: reading %s: %w", path, err)
	}

	var m Marker
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, fmt.Errorf("marker: failed to parse %s: %w", path, err)
	}
	if m.Package == "" {
		return nil, fmt.Errorf("marker: %s names no package", path)
	}

	return &m, nil
}

// Remove deletes the marker at path; a missing marker is not an error
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("marker: removing %s: %w", path, err)
	}
	return nil
}
