// pkg/ledger/ledger.go
package ledger

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sort"

	"github.com/arc-language/onepkg/pkg/catalog"
)

// ErrAlreadyRecorded is a caller bug: RecordInstall was called for a name
// that is already in the ledger. Check IsInstalled first.
var ErrAlreadyRecorded = errors.New("ledger: package already recorded")

// Manager keeps the installed-package record. Every call reads the ledger
// file afresh; nothing is cached between calls.
type Manager struct {
	store  *catalog.Store
	logger *log.Logger
}

// New creates a Manager over store
func New(store *catalog.Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Manager{store: store, logger: logger}
}

// IsInstalled returns the method name was installed with
func (m *Manager) IsInstalled(name string) (catalog.Method, bool) {
	r := m.store.LoadLedger().Find(name)
	if r == nil {
		return 0, false
	}
	return r.Method, true
}

// RecordInstall appends a record for name
func (m *Manager) RecordInstall(name string, method catalog.Method) error {
	if !method.Valid() {
		return fmt.Errorf("ledger: invalid method %d for %s", int(method), name)
	}
	return m.store.UpdateLedger(func(l *catalog.Ledger) error {
		if r := l.Find(name); r != nil {
			return fmt.Errorf("%w: %s (%s)", ErrAlreadyRecorded, name, r.Method)
		}
		l.Records = append(l.Records, catalog.Record{Name: name, Method: method})
		m.logger.Printf("ledger: recorded %s via %s", name, method)
		return nil
	})
}

// RecordUninstall removes the record for name. Removing an untracked name
// succeeds without writing.
func (m *Manager) RecordUninstall(name string) error {
	errUntracked := errors.New("untracked")
	err := m.store.UpdateLedger(func(l *catalog.Ledger) error {
		if !l.Remove(name) {
			return errUntracked
		}
		m.logger.Printf("ledger: removed %s", name)
		return nil
	})
	if errors.Is(err, errUntracked) {
		return nil
	}
	return err
}

// List returns every record sorted by name
func (m *Manager) List() []catalog.Record {
	records := m.store.LoadLedger().Records
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records
}
