package resolve

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/onepkg/pkg/catalog"
	"github.com/arc-language/onepkg/pkg/core"
)

func testCatalog() *catalog.Catalog {
	return catalog.NewCatalog([]catalog.Package{
		{Name: "foo", Install: catalog.Formats{Apt: "foo-pkg"}},
		{Name: "everything", Install: catalog.Formats{
			Dnf:      "e",
			Apt:      "e",
			Pacman:   "e",
			Aur:      "e-git",
			Flathub:  "org.example.E",
			AppImage: catalog.AppImageInfo{Link: "https://example.com/E.AppImage", Name: "E.AppImage"},
			GitHub:   catalog.GitHubInfo{Repo: "example/e"},
		}},
		{Name: "reversed", Install: catalog.Formats{
			GitHub:  catalog.GitHubInfo{Repo: "example/r"},
			Flathub: "org.example.R",
			Dnf:     "r",
		}},
		{Name: "named-only", Install: catalog.Formats{
			AppImage: catalog.AppImageInfo{Name: "NoLink.AppImage"},
			GitHub:   catalog.GitHubInfo{Steps: []string{"make"}},
		}},
		{Name: "nothing"},
	})
}

func methods(cs []Candidate) []catalog.Method {
	out := make([]catalog.Method, len(cs))
	for i, c := range cs {
		out[i] = c.Method
	}
	return out
}

func TestResolve_SingleFormat(t *testing.T) {
	cs, err := Resolve(testCatalog(), "foo")
	require.NoError(t, err)
	assert.Equal(t, []catalog.Method{catalog.MethodApt}, methods(cs))
	assert.Equal(t, "foo-pkg", cs[0].Identifier())
}

func TestResolve_FixedOrder(t *testing.T) {
	cs, err := Resolve(testCatalog(), "everything")
	require.NoError(t, err)
	assert.Equal(t, catalog.Methods, methods(cs))

	cs, err = Resolve(testCatalog(), "reversed")
	require.NoError(t, err)
	assert.Equal(t, []catalog.Method{catalog.MethodDnf, catalog.MethodFlathub, catalog.MethodGitHub}, methods(cs))
	assert.Equal(t, "example/r", cs[2].Identifier())
}

func TestResolve_StructuredNeedPrimaryField(t *testing.T) {
	_, err := Resolve(testCatalog(), "named-only")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoInstallCandidate)
}

func TestResolve_Errors(t *testing.T) {
	_, err := Resolve(testCatalog(), "missing")
	assert.ErrorIs(t, err, core.ErrPackageNotFound)
	assert.NotErrorIs(t, err, core.ErrNoInstallCandidate)

	_, err = Resolve(testCatalog(), "nothing")
	assert.ErrorIs(t, err, core.ErrNoInstallCandidate)
	assert.NotErrorIs(t, err, core.ErrPackageNotFound)
}

func TestMethodSelector(t *testing.T) {
	cs, err := Resolve(testCatalog(), "reversed")
	require.NoError(t, err)

	s := MethodSelector{Package: "reversed", Method: catalog.MethodFlathub}
	got, err := s.Select("reversed", cs)
	require.NoError(t, err)
	assert.Equal(t, catalog.MethodFlathub, got.Method)

	_, err = s.Select("other", cs)
	assert.ErrorIs(t, err, ErrDeferred)

	s.Method = catalog.MethodApt
	_, err = s.Select("reversed", cs)
	assert.ErrorIs(t, err, core.ErrAmbiguousSelection)
}

func TestPreferenceSelector(t *testing.T) {
	cs, err := Resolve(testCatalog(), "everything")
	require.NoError(t, err)

	s := PreferenceSelector{
		Order: []catalog.Method{catalog.MethodPacman, catalog.MethodFlathub},
		Available: func(m catalog.Method) bool {
			return m != catalog.MethodPacman
		},
	}
	got, err := s.Select("everything", cs)
	require.NoError(t, err)
	assert.Equal(t, catalog.MethodFlathub, got.Method)

	foo, err := Resolve(testCatalog(), "foo")
	require.NoError(t, err)
	_, err = s.Select("foo", foo)
	assert.ErrorIs(t, err, ErrDeferred)
}

func TestPromptSelector(t *testing.T) {
	cs, err := Resolve(testCatalog(), "reversed")
	require.NoError(t, err)

	tests := []struct {
		input   string
		want    catalog.Method
		wantErr bool
	}{
		{"1\n", catalog.MethodDnf, false},
		{"3\n", catalog.MethodGitHub, false},
		{" 2 \n", catalog.MethodFlathub, false},
		{"2", catalog.MethodFlathub, false},
		{"0\n", 0, true},
		{"4\n", 0, true},
		{"apt\n", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			s := NewPromptSelector(strings.NewReader(tt.input), &out)

			got, err := s.Select("reversed", cs)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, core.ErrAmbiguousSelection)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Method)
			assert.Contains(t, out.String(), "(3) GitHub")
		})
	}
}

func TestPromptSelector_ReusesInput(t *testing.T) {
	cs, err := Resolve(testCatalog(), "reversed")
	require.NoError(t, err)

	s := NewPromptSelector(strings.NewReader("1\n2\n"), &bytes.Buffer{})
	first, err := s.Select("reversed", cs)
	require.NoError(t, err)
	second, err := s.Select("reversed", cs)
	require.NoError(t, err)

	assert.Equal(t, catalog.MethodDnf, first.Method)
	assert.Equal(t, catalog.MethodFlathub, second.Method)
}

func TestChain(t *testing.T) {
	cs, err := Resolve(testCatalog(), "everything")
	require.NoError(t, err)

	chain := Chain(
		MethodSelector{Package: "other", Method: catalog.MethodApt},
		nil,
		PreferenceSelector{Order: []catalog.Method{catalog.MethodAppImage}},
	)
	got, err := chain.Select("everything", cs)
	require.NoError(t, err)
	assert.Equal(t, catalog.MethodAppImage, got.Method)

	_, err = Chain(MethodSelector{Package: "other"}).Select("everything", cs)
	require.ErrorIs(t, err, core.ErrAmbiguousSelection)
	assert.Contains(t, err.Error(), "dnf, apt, pacman")
}

func TestParseMethods(t *testing.T) {
	got, err := ParseMethods([]string{"apt", " Flathub ", ""})
	require.NoError(t, err)
	assert.Equal(t, []catalog.Method{catalog.MethodApt, catalog.MethodFlathub}, got)

	_, err = ParseMethods([]string{"snap"})
	assert.Error(t, err)
}
