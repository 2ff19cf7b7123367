//go:build !unix

// pkg/catalog/lock_other.go
package catalog

// lockFile is a no-op where flock(2) is unavailable; the atomic rename still
// keeps the ledger file whole.
func lockFile(path string) (func(), error) {
	return func() {}, nil
}
