package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/onepkg/pkg/core"
)

const testCatalog = `[
  {"name": "viewer", "install": {"dnf": "", "apt": "viewer", "pacman": "", "aur": "", "flathub": "org.example.Viewer",
    "appimage": {"link": "%s/Viewer.AppImage", "name": "Viewer.AppImage"}, "github": {"repo": ""}}}
]`

func setup(t *testing.T) string {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pkg-ls.json":
			fmt.Fprintf(w, testCatalog, srv.URL)
		case "/Viewer.AppImage":
			w.Write([]byte("#!/bin/sh\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	root := t.TempDir()
	cfg := core.DefaultConfig()
	cfg.ConfigDir = filepath.Join(root, "config")
	cfg.DataDir = filepath.Join(root, "data")
	cfg.CatalogURL = srv.URL + "/pkg-ls.json"
	cfg.Sudo = false

	path := filepath.Join(root, "config.yaml")
	require.NoError(t, core.SaveConfig(cfg, path))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	installMethod, installPrefer = "", nil
	autoUninstallDryRun, updateRollback = false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, "--config", cfg, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "one-pkg version "+version)
}

func TestInstallListUninstall(t *testing.T) {
	cfg := setup(t)

	out, err := run(t, "--config", cfg, "install", "viewer", "--method", "appimage")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully installed viewer via AppImage")

	out, err = run(t, "--config", cfg, "install", "viewer")
	require.NoError(t, err)
	assert.Contains(t, out, "already installed (AppImage)")

	out, err = run(t, "--config", cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "viewer")
	assert.Contains(t, out, "AppImage")

	out, err = run(t, "--config", cfg, "uninstall", "viewer")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully uninstalled viewer")

	out, err = run(t, "--config", cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No packages installed.")
}

func TestInstall_NeedsChoice(t *testing.T) {
	cfg := setup(t)

	_, err := run(t, "--config", cfg, "install", "viewer")
	assert.ErrorIs(t, err, core.ErrAmbiguousSelection)

	_, err = run(t, "--config", cfg, "install", "viewer", "--method", "snap")
	assert.Error(t, err)
}

func TestSearchAndInfo(t *testing.T) {
	cfg := setup(t)

	out, err := run(t, "--config", cfg, "search", "view")
	require.NoError(t, err)
	assert.Contains(t, out, "Apt, Flathub, AppImage")

	out, err = run(t, "--config", cfg, "info", "viewer")
	require.NoError(t, err)
	assert.Contains(t, out, "Installed: no")
	assert.Contains(t, out, "org.example.Viewer")

	_, err = run(t, "--config", cfg, "info", "ghost")
	assert.ErrorIs(t, err, core.ErrPackageNotFound)
}

func TestUpdateAndAutoUninstall(t *testing.T) {
	cfg := setup(t)

	out, err := run(t, "--config", cfg, "update")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully verified")

	out, err = run(t, "--config", cfg, "auto-uninstall", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "0 removed")

	_, err = run(t, "--config", cfg, "update", "--rollback")
	assert.ErrorIs(t, err, core.ErrIoFailure, "first update leaves no backup")
}

func TestFirstRunWritesConfig(t *testing.T) {
	existing := setup(t)
	data, err := os.ReadFile(existing)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "one-pkg", "config.yaml")
	_, err = run(t, "--config", path, "version")
	require.NoError(t, err)
	assert.FileExists(t, path)

	again, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, data, again, "existing config untouched")
}
