package bazaartest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/store/sqlite"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of MemStore when you want the
// exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) (db bazaar.CommitKVStore, cleanup func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", "bazaar-store")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}
	s, err := sqlite.NewCommitStore(filepath.Join(dir, "state.db"))
	if err != nil {
		os.RemoveAll(dir)
		t.Fatalf("cannot open store: %s", err)
	}
	return s, func() {
		s.Close()
		os.RemoveAll(dir)
	}
}
