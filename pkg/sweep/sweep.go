// pkg/sweep/sweep.go
package sweep

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/arc-language/onepkg/pkg/catalog"
	"github.com/arc-language/onepkg/pkg/core"
	"github.com/arc-language/onepkg/pkg/ledger"
	"github.com/arc-language/onepkg/pkg/marker"
)

// Artifact is one file or directory onepkg manages
type Artifact struct {
	Path    string
	Marker  string // Marker path, empty if there is none
	Package string
	Method  catalog.Method
}

// Failure is an artifact that could not be removed
type Failure struct {
	Artifact Artifact
	Err      error
}

// Report lists what a sweep did
type Report struct {
	Removed []Artifact
	Kept    []Artifact
	Failed  []Failure
}

// Sweeper removes AppImages and source checkouts whose package is no
// longer in the ledger
type Sweeper struct {
	AppsDir   string
	SourceDir string
	Ledger    *ledger.Manager
	Logger    *log.Logger
	DryRun    bool // Report what would be removed without removing it
}

// Sweep scans both managed directories. Per-artifact failures are collected
// in the report; only an unreadable directory aborts the sweep.
func (s *Sweeper) Sweep(ctx context.Context) (*Report, error) {
	if s.Logger == nil {
		s.Logger = log.New(io.Discard, "", 0)
	}

	installed := make(map[string]catalog.Method)
	for _, r := range s.Ledger.List() {
		installed[r.Name] = r.Method
	}

	apps, err := s.appImages()
	if err != nil {
		return nil, err
	}
	checkouts, err := s.checkouts()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, a := range append(apps, checkouts...) {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if m, ok := installed[a.Package]; ok && m == a.Method {
			report.Kept = append(report.Kept, a)
			continue
		}

		if s.DryRun {
			s.Logger.Printf("sweep: would remove %s (%s)", a.Path, a.Package)
			report.Removed = append(report.Removed, a)
			continue
		}

		s.Logger.Printf("sweep: removing %s (%s)", a.Path, a.Package)
		if err := remove(a); err != nil {
			s.Logger.Printf("sweep: %v", err)
			report.Failed = append(report.Failed, Failure{Artifact: a, Err: err})
			continue
		}
		report.Removed = append(report.Removed, a)
	}
	return report, nil
}

func (s *Sweeper) appImages() ([]Artifact, error) {
	entries, err := readDir(s.AppsDir)
	if err != nil {
		return nil, err
	}

	var out []Artifact
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		a := Artifact{
			Path:    filepath.Join(s.AppsDir, e.Name()),
			Package: e.Name(),
			Method:  catalog.MethodAppImage,
		}
		s.own(&a, marker.ForAppImage(s.AppsDir, e.Name()))
		out = append(out, a)
	}
	return out, nil
}

func (s *Sweeper) checkouts() ([]Artifact, error) {
	entries, err := readDir(s.SourceDir)
	if err != nil {
		return nil, err
	}

	var out []Artifact
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(s.SourceDir, e.Name())
		a := Artifact{
			Path:    dir,
			Package: e.Name(),
			Method:  catalog.MethodGitHub,
		}
		s.own(&a, marker.ForCheckout(dir))
		out = append(out, a)
	}
	return out, nil
}

// own fills in the owner from the marker at path, if readable
func (s *Sweeper) own(a *Artifact, path string) {
	m, err := marker.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.Logger.Printf("sweep: %v", err)
		}
		return
	}
	a.Marker = path
	a.Package = m.Package
	if m.Method.Valid() {
		a.Method = m.Method
	}
}

func readDir(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &core.Error{Kind: core.ErrIoFailure, Op: "auto-uninstall", Err: err}
	}
	return entries, nil
}

func remove(a Artifact) error {
	if err := os.RemoveAll(a.Path); err != nil {
		return err
	}
	if a.Marker != "" && a.Method == catalog.MethodAppImage {
		return marker.Remove(a.Marker)
	}
	return nil
}
