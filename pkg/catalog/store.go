// pkg/catalog/store.go
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/arc-language/onepkg/pkg/core"
)

const (
	// CatalogFile is the package list inside the config directory
	CatalogFile = "pkg-ls.json"
	// BackupFile is the previous package list kept by a sync
	BackupFile = CatalogFile + ".old"
	// LedgerFile records installed packages
	LedgerFile = "installed.json"

	lockSuffix = ".lock"
	tmpSuffix  = ".tmp"
)

// ErrNotFound indicates there is no catalog file yet
var ErrNotFound = fmt.Errorf("catalog %w", fs.ErrNotExist)

// Store owns the catalog and ledger files in one directory
type Store struct {
	dir    string
	logger *log.Logger
}

// NewStore creates a Store rooted at dir
func NewStore(dir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{dir: dir, logger: logger}
}

// Dir returns the directory the store lives in
func (s *Store) Dir() string { return s.dir }

// CatalogPath returns the path of the package list
func (s *Store) CatalogPath() string { return filepath.Join(s.dir, CatalogFile) }

// BackupPath returns the path of the package list backup
func (s *Store) BackupPath() string { return filepath.Join(s.dir, BackupFile) }

// LedgerPath returns the path of the installed-package record
func (s *Store) LedgerPath() string { return filepath.Join(s.dir, LedgerFile) }

// HasCatalog reports whether a package list is present
func (s *Store) HasCatalog() bool {
	_, err := os.Stat(s.CatalogPath())
	return err == nil
}

// LoadCatalog reads and strictly parses the package list
func (s *Store) LoadCatalog() (*Catalog, error) {
	data, err := os.ReadFile(s.CatalogPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, &core.Error{Kind: core.ErrIoFailure, Op: "load catalog", Err: err}
	}
	return ParseCatalog(data)
}

// ParseCatalog parses a package list document. Anything malformed, including
// duplicate names, is an ErrParseFailure.
func ParseCatalog(data []byte) (*Catalog, error) {
	if err := validate(data); err != nil {
		return nil, &core.Error{Kind: core.ErrParseFailure, Op: "load catalog", Err: err}
	}

	var pkgs []Package
	if err := json.Unmarshal(data, &pkgs); err != nil {
		return nil, &core.Error{Kind: core.ErrParseFailure, Op: "load catalog", Err: err}
	}

	seen := make(map[string]bool, len(pkgs))
	for _, p := range pkgs {
		if seen[p.Name] {
			return nil, core.Errorf(core.ErrParseFailure, "load catalog", p.Name, "duplicate package name")
		}
		seen[p.Name] = true
	}

	return NewCatalog(pkgs), nil
}

// SaveCatalog writes cat as the package list
func (s *Store) SaveCatalog(cat *Catalog) error {
	pkgs := make([]Package, len(cat.Packages))
	for i, p := range cat.Packages {
		p.Install.GitHub.Steps = nonNil(p.Install.GitHub.Steps)
		p.Install.GitHub.UninstallSteps = nonNil(p.Install.GitHub.UninstallSteps)
		p.Install.GitHub.Deps = nonNil(p.Install.GitHub.Deps)
		pkgs[i] = p
	}

	data, err := json.MarshalIndent(pkgs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	if err := writeAtomic(s.CatalogPath(), data); err != nil {
		return &core.Error{Kind: core.ErrIoFailure, Op: "save catalog", Err: err}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// LoadLedger reads the installed-package record. It never fails: a missing
// or corrupt ledger is treated as empty.
func (s *Store) LoadLedger() *Ledger {
	data, err := os.ReadFile(s.LedgerPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Printf("ledger: cannot read %s, treating as empty: %v", s.LedgerPath(), err)
		}
		return &Ledger{}
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Printf("ledger: %s is corrupt, treating as empty: %v", s.LedgerPath(), err)
		return &Ledger{}
	}

	l := &Ledger{Records: make([]Record, 0, len(records))}
	for _, r := range records {
		if r.Name == "" || !r.Method.Valid() {
			s.logger.Printf("ledger: %s has a record without name or method, treating as empty", s.LedgerPath())
			return &Ledger{}
		}
		if l.Find(r.Name) != nil {
			s.logger.Printf("ledger: dropping duplicate record for %s", r.Name)
			continue
		}
		l.Records = append(l.Records, r)
	}
	return l
}

// SaveLedger atomically replaces the ledger file
func (s *Store) SaveLedger(l *Ledger) error {
	records := l.Records
	if records == nil {
		records = []Record{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &core.Error{Kind: core.ErrIoFailure, Op: "save ledger", Err: err}
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &core.Error{Kind: core.ErrIoFailure, Op: "save ledger", Err: err}
	}
	if err := writeAtomic(s.LedgerPath(), data); err != nil {
		return &core.Error{Kind: core.ErrIoFailure, Op: "save ledger", Err: err}
	}
	return nil
}

// UpdateLedger runs one exclusive read-modify-write cycle. If fn returns an
// error nothing is written.
func (s *Store) UpdateLedger(fn func(*Ledger) error) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &core.Error{Kind: core.ErrIoFailure, Op: "lock ledger", Err: err}
	}

	unlock, err := lockFile(s.LedgerPath() + lockSuffix)
	if err != nil {
		return &core.Error{Kind: core.ErrIoFailure, Op: "lock ledger", Err: err}
	}
	defer unlock()

	l := s.LoadLedger()
	if err := fn(l); err != nil {
		return err
	}
	return s.SaveLedger(l)
}

// writeAtomic writes data to a temp file next to path and renames it over path
func writeAtomic(path string, data []byte) error {
	tmpPath := path + tmpSuffix

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
