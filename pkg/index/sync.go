package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/arc-language/onepkg/pkg/catalog"
	"github.com/arc-language/onepkg/pkg/core"
)

// State is how far a sync got
type State int

const (
	// StateAbsent means nothing has happened yet
	StateAbsent State = iota
	// StateBackedUp means the previous catalog was moved to the backup path
	StateBackedUp
	// StateFetched means a new document landed at the catalog path
	StateFetched
	// StateVerified means the new document parsed; the sync is committed
	StateVerified
	// StateInvalid means the new document did not parse; it stays in place
	StateInvalid
	// StateFetchFailed means the download did not complete
	StateFetchFailed
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateBackedUp:
		return "backed-up"
	case StateFetched:
		return "fetched"
	case StateVerified:
		return "verified"
	case StateInvalid:
		return "invalid"
	case StateFetchFailed:
		return "fetch-failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Fetcher downloads a document to a local path
type Fetcher interface {
	DownloadFile(ctx context.Context, rawURL, path string, perm os.FileMode) (int64, error)
}

// Result describes a finished sync
type Result struct {
	State    State
	BackedUp bool  // A previous catalog was moved to the backup path
	Bytes    int64 // Size of the fetched document
}

// Synchronizer refreshes the package list from its remote source
type Synchronizer struct {
	store   *catalog.Store
	fetcher Fetcher
	url     string
	logger  *log.Logger
}

// NewSynchronizer creates a Synchronizer writing into store
func NewSynchronizer(store *catalog.Store, fetcher Fetcher, url string, logger *log.Logger) *Synchronizer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Synchronizer{store: store, fetcher: fetcher, url: url, logger: logger}
}

// Sync backs up the current package list, fetches a new one and verifies it.
// A failed verification leaves both files in place; restoring the backup is
// the caller's decision (see Rollback).
func (s *Synchronizer) Sync(ctx context.Context) (*Result, error) {
	res := &Result{State: StateAbsent}

	if err := os.MkdirAll(s.store.Dir(), 0o755); err != nil {
		return res, &core.Error{Kind: core.ErrIoFailure, Op: "sync", Err: fmt.Errorf("creating config directory: %w", err)}
	}

	if s.store.HasCatalog() {
		s.logger.Printf("sync: backing up %s", s.store.CatalogPath())
		if err := os.Rename(s.store.CatalogPath(), s.store.BackupPath()); err != nil {
			return res, &core.Error{Kind: core.ErrIoFailure, Op: "sync", Err: fmt.Errorf("backing up package list: %w", err)}
		}
		res.BackedUp = true
	}
	res.State = StateBackedUp

	s.logger.Printf("sync: downloading %s", s.url)
	n, err := s.fetcher.DownloadFile(ctx, s.url, s.store.CatalogPath(), 0o644)
	if err != nil {
		res.State = StateFetchFailed
		return res, &core.Error{Kind: core.ErrNetworkFailure, Op: "sync", Err: fmt.Errorf("downloading %s: %w", s.url, err)}
	}
	res.State = StateFetched
	res.Bytes = n

	s.logger.Printf("sync: verifying %d bytes", n)
	if _, err := s.store.LoadCatalog(); err != nil {
		res.State = StateInvalid
		return res, err
	}

	res.State = StateVerified
	return res, nil
}

// Rollback restores the backup over the current package list
func (s *Synchronizer) Rollback() error {
	if _, err := os.Stat(s.store.BackupPath()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &core.Error{Kind: core.ErrIoFailure, Op: "rollback", Err: fmt.Errorf("no backup at %s: %w", s.store.BackupPath(), err)}
		}
		return &core.Error{Kind: core.ErrIoFailure, Op: "rollback", Err: err}
	}

	if err := os.Rename(s.store.BackupPath(), s.store.CatalogPath()); err != nil {
		return &core.Error{Kind: core.ErrIoFailure, Op: "rollback", Err: err}
	}
	s.logger.Printf("sync: restored %s from backup", s.store.CatalogPath())
	return nil
}
