package onepkg

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/onepkg/pkg/resolve"
)

func serveCatalog(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pkg-ls.json":
			fmt.Fprintf(w, `[
  {"name": "tool", "install": {"dnf": "", "apt": "tool", "pacman": "", "aur": "", "flathub": "",
    "appimage": {"link": "%s/dl/Tool.AppImage", "name": "Tool.AppImage"},
    "github": {"repo": "", "steps": [], "deps": []}}},
  {"name": "toolkit", "install": {"dnf": "", "apt": "", "pacman": "", "aur": "", "flathub": "org.example.Toolkit",
    "appimage": {"link": "", "name": ""}, "github": {"repo": ""}}},
  {"name": "empty", "install": {"dnf": "", "apt": "", "pacman": "", "aur": "", "flathub": "",
    "appimage": {"link": "", "name": ""}, "github": {"repo": ""}}}
]`, srv.URL)
		case "/dl/Tool.AppImage":
			w.Write([]byte("#!/bin/sh\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestManager(t *testing.T, url string) *Manager {
	t.Helper()
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.ConfigDir = filepath.Join(root, "config")
	cfg.DataDir = filepath.Join(root, "data")
	cfg.CatalogURL = url
	cfg.Timeout = 5 * time.Second
	cfg.Sudo = false

	m, err := NewManager(cfg)
	require.NoError(t, err)
	return m
}

func TestNewManager_RequiresConfigDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConfigDir = ""
	_, err := NewManager(cfg)
	assert.ErrorIs(t, err, ErrConfigDirUnavailable)
}

func TestManager_InstallFetchesCatalogOnFirstUse(t *testing.T) {
	srv := serveCatalog(t)
	m := newTestManager(t, srv.URL+"/pkg-ls.json")

	sel, err := m.Selector(SelectOptions{Package: "tool", Method: MethodAppImage})
	require.NoError(t, err)

	res, err := m.Install(context.Background(), "tool", sel)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, MethodAppImage, res.Method)

	assert.FileExists(t, m.store.CatalogPath())
	assert.FileExists(t, filepath.Join(m.config.AppsDir(), "Tool.AppImage"))
	assert.Equal(t, []Record{{Name: "tool", Method: MethodAppImage}}, m.List())

	// Installed packages short-circuit before any selection
	res, err = m.Install(context.Background(), "tool", nil)
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestManager_UninstallAndSweep(t *testing.T) {
	srv := serveCatalog(t)
	m := newTestManager(t, srv.URL+"/pkg-ls.json")

	sel, err := m.Selector(SelectOptions{Prefer: []Method{MethodAppImage}})
	require.NoError(t, err)
	_, err = m.Install(context.Background(), "tool", sel)
	require.NoError(t, err)

	res, err := m.Uninstall(context.Background(), "tool")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Empty(t, m.List())
	assert.NoFileExists(t, filepath.Join(m.config.AppsDir(), "Tool.AppImage"))

	res, err = m.Uninstall(context.Background(), "tool")
	require.NoError(t, err)
	assert.False(t, res.Changed)

	// Leftover from an earlier install
	stray := filepath.Join(m.config.AppsDir(), "Stray.AppImage")
	require.NoError(t, os.WriteFile(stray, []byte("x"), 0o755))

	report, err := m.AutoUninstall(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, report.Removed, 1)
	assert.NoFileExists(t, stray)
}

func TestManager_SelectorWithoutChoice(t *testing.T) {
	srv := serveCatalog(t)
	m := newTestManager(t, srv.URL+"/pkg-ls.json")

	sel, err := m.Selector(SelectOptions{})
	require.NoError(t, err)

	_, err = m.Install(context.Background(), "tool", sel)
	assert.ErrorIs(t, err, ErrAmbiguousSelection)
	assert.Empty(t, m.List())
}

func TestManager_SelectorPrompt(t *testing.T) {
	srv := serveCatalog(t)
	m := newTestManager(t, srv.URL+"/pkg-ls.json")

	var out strings.Builder
	sel, err := m.Selector(SelectOptions{Prompt: resolve.NewPromptSelector(strings.NewReader("2\n"), &out)})
	require.NoError(t, err)

	res, err := m.Install(context.Background(), "tool", sel)
	require.NoError(t, err)
	assert.Equal(t, MethodAppImage, res.Method)
	assert.Contains(t, out.String(), "(1) Apt")
	assert.Contains(t, out.String(), "(2) AppImage")
}

func TestManager_SelectorBadPreference(t *testing.T) {
	m := newTestManager(t, "http://127.0.0.1:0/pkg-ls.json")
	m.config.PreferredMethods = []string{"snap"}

	_, err := m.Selector(SelectOptions{})
	assert.ErrorIs(t, err, ErrAmbiguousSelection)
}

func TestManager_SearchAndInfo(t *testing.T) {
	srv := serveCatalog(t)
	m := newTestManager(t, srv.URL+"/pkg-ls.json")

	found, err := m.Search(context.Background(), "TOOL")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "tool", found[0].Name)
	assert.Equal(t, "toolkit", found[1].Name)

	info, err := m.Info(context.Background(), "tool")
	require.NoError(t, err)
	assert.False(t, info.Installed)
	require.Len(t, info.Candidates, 2)
	assert.Equal(t, MethodApt, info.Candidates[0].Method)
	assert.Equal(t, MethodAppImage, info.Candidates[1].Method)
	assert.True(t, info.Candidates[1].Available)

	info, err = m.Info(context.Background(), "empty")
	require.NoError(t, err)
	assert.Empty(t, info.Candidates)

	_, err = m.Info(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrPackageNotFound)
}

func TestManager_UpdateAndRollback(t *testing.T) {
	srv := serveCatalog(t)
	m := newTestManager(t, srv.URL+"/pkg-ls.json")

	res, err := m.Update(context.Background())
	require.NoError(t, err)
	assert.False(t, res.BackedUp)

	res, err = m.Update(context.Background())
	require.NoError(t, err)
	assert.True(t, res.BackedUp)
	assert.FileExists(t, m.store.BackupPath())

	require.NoError(t, m.Rollback())
	assert.NoFileExists(t, m.store.BackupPath())
	assert.FileExists(t, m.store.CatalogPath())
}

func TestManager_UpdateNetworkFailure(t *testing.T) {
	srv := serveCatalog(t)
	m := newTestManager(t, srv.URL+"/missing.json")

	_, err := m.Update(context.Background())
	assert.ErrorIs(t, err, ErrNetworkFailure)
	assert.Equal(t, ErrNetworkFailure, KindOf(err))
}
