package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/onepkg/pkg/core"
)

const fooCatalog = `[
  {
    "name": "foo",
    "install": {
      "dnf": "", "apt": "foo-pkg", "pacman": "", "aur": "", "flathub": "",
      "appimage": {"link": "", "name": ""},
      "github": {"repo": "", "steps": [], "uninstall_steps": [], "deps": []}
    }
  }
]`

func sampleCatalog() *Catalog {
	return NewCatalog([]Package{
		{
			Name: "foo",
			Install: Formats{
				Apt: "foo-pkg",
				GitHub: GitHubInfo{
					Steps:          []string{},
					UninstallSteps: []string{},
					Deps:           []string{},
				},
			},
		},
		{
			Name: "bar",
			Install: Formats{
				Dnf:      "bar",
				Flathub:  "org.example.Bar",
				AppImage: AppImageInfo{Link: "https://example.com/Bar.AppImage", Name: "Bar.AppImage"},
				GitHub: GitHubInfo{
					Repo:           "example/bar",
					Steps:          []string{"make", "make install"},
					UninstallSteps: []string{"make uninstall"},
					Deps:           []string{"foo"},
				},
			},
		},
	})
}

func TestLoadCatalog_NotFound(t *testing.T) {
	s := NewStore(t.TempDir(), nil)

	_, err := s.LoadCatalog()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, s.HasCatalog())
}

func TestLoadCatalog_Valid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CatalogFile), []byte(fooCatalog), 0o644))

	cat, err := NewStore(dir, nil).LoadCatalog()
	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())

	pkg, ok := cat.Lookup("foo")
	require.True(t, ok)
	assert.Equal(t, "foo-pkg", pkg.Install.Apt)
	assert.True(t, pkg.Install.Offers(MethodApt))
	assert.False(t, pkg.Install.Offers(MethodGitHub))
}

func TestCatalogRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	want := sampleCatalog()

	require.NoError(t, s.SaveCatalog(want))
	got, err := s.LoadCatalog()
	require.NoError(t, err)

	assert.Equal(t, want.Packages, got.Packages)
}

func TestSaveCatalog_NilSlicesStayValid(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	cat := NewCatalog([]Package{{Name: "only", Install: Formats{Pacman: "only"}}})

	require.NoError(t, s.SaveCatalog(cat))
	got, err := s.LoadCatalog()
	require.NoError(t, err)

	pkg, ok := got.Lookup("only")
	require.True(t, ok)
	assert.Empty(t, pkg.Install.GitHub.Steps)
}

func TestParseCatalog_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"name":`},
		{"not an array", `{"name": "foo"}`},
		{"missing install", `[{"name": "foo"}]`},
		{"missing format field", `[{"name": "foo", "install": {"apt": "foo"}}]`},
		{"wrong type", `[{"name": "foo", "install": {"dnf": 1, "apt": "", "pacman": "", "aur": "", "flathub": "",
			"appimage": {"link": "", "name": ""}, "github": {"repo": ""}}}]`},
		{"empty name", `[{"name": "", "install": {"dnf": "", "apt": "", "pacman": "", "aur": "", "flathub": "",
			"appimage": {"link": "", "name": ""}, "github": {"repo": ""}}}]`},
		{"steps not strings", `[{"name": "x", "install": {"dnf": "", "apt": "", "pacman": "", "aur": "", "flathub": "",
			"appimage": {"link": "", "name": ""}, "github": {"repo": "a/b", "steps": [1]}}}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrParseFailure)
		})
	}
}

func TestParseCatalog_OptionalGitHubLists(t *testing.T) {
	doc := `[{"name": "x", "install": {"dnf": "", "apt": "", "pacman": "", "aur": "", "flathub": "",
		"appimage": {"link": "", "name": ""}, "github": {"repo": "a/b", "steps": ["make"]}}}]`

	cat, err := ParseCatalog([]byte(doc))
	require.NoError(t, err)

	pkg, _ := cat.Lookup("x")
	assert.Nil(t, pkg.Install.GitHub.UninstallSteps)
	assert.Equal(t, []string{"make"}, pkg.Install.GitHub.Steps)
}

func TestParseCatalog_DuplicateNames(t *testing.T) {
	entry := `{"name": "dup", "install": {"dnf": "", "apt": "x", "pacman": "", "aur": "", "flathub": "",
		"appimage": {"link": "", "name": ""}, "github": {"repo": ""}}}`

	_, err := ParseCatalog([]byte("[" + entry + "," + entry + "]"))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrParseFailure)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadLedger_MissingIsEmpty(t *testing.T) {
	l := NewStore(t.TempDir(), nil).LoadLedger()
	assert.Empty(t, l.Records)
}

func TestLoadLedger_CorruptIsEmpty(t *testing.T) {
	tests := map[string]string{
		"bad json":       `[{"name": "foo", "method":`,
		"unknown method": `[{"name": "foo", "method": "Snap"}]`,
		"wrong shape":    `{"foo": "Apt"}`,
		"missing method": `[{"name": "foo"}]`,
		"empty name":     `[{"name": "", "method": "Apt"}]`,
		"partly valid":   `[{"name": "bar", "method": "Dnf"}, {"name": "foo"}]`,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, LedgerFile), []byte(doc), 0o644))

			l := NewStore(dir, nil).LoadLedger()
			assert.Empty(t, l.Records)
		})
	}
}

func TestLoadLedger_DropsDuplicates(t *testing.T) {
	dir := t.TempDir()
	doc := `[{"name": "foo", "method": "Apt"}, {"name": "foo", "method": "Dnf"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, LedgerFile), []byte(doc), 0o644))

	l := NewStore(dir, nil).LoadLedger()
	require.Len(t, l.Records, 1)
	assert.Equal(t, MethodApt, l.Records[0].Method)
}

func TestSaveLedger_WritesTokens(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, nil)

	l := &Ledger{Records: []Record{{Name: "foo", Method: MethodAppImage}}}
	require.NoError(t, s.SaveLedger(l))

	data, err := os.ReadFile(s.LedgerPath())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name": "foo", "method": "AppImage"}]`, string(data))

	_, err = os.Stat(s.LedgerPath() + tmpSuffix)
	assert.True(t, errors.Is(err, os.ErrNotExist), "temp file left behind")
}

func TestUpdateLedger_ErrorWritesNothing(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	require.NoError(t, s.SaveLedger(&Ledger{Records: []Record{{Name: "keep", Method: MethodApt}}}))

	boom := errors.New("boom")
	err := s.UpdateLedger(func(l *Ledger) error {
		l.Records = nil
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.NotNil(t, s.LoadLedger().Find("keep"))
}

func TestUpdateLedger_Serialised(t *testing.T) {
	s := NewStore(t.TempDir(), nil)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.UpdateLedger(func(l *Ledger) error {
				l.Records = append(l.Records, Record{Name: string(rune('a' + i)), Method: MethodDnf})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.LoadLedger().Records, n)
}

func TestParseMethod(t *testing.T) {
	for _, m := range Methods {
		got, err := ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseMethod("appimage")
	require.NoError(t, err)
	assert.Equal(t, MethodAppImage, got)

	_, err = ParseMethod("snap")
	assert.Error(t, err)
}
