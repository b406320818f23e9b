/*
Package sqlite provides a CommitKVStore that persists the ledger state in a
SQLite database file.

Writes are collected in memory until Commit is called. Commit applies all
pending operations and records the new version within a single database
transaction, so the persisted state always matches a committed version.
*/
package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
	_ "modernc.org/sqlite"
)

const maxBusyTimeoutMs = 5000

// CommitStore is a store.CommitKVStore backed by SQLite.
type CommitStore struct {
	mu      sync.Mutex
	db      *sql.DB
	file    string
	pending []store.Op
	latest  store.CommitID
}

var _ store.CommitKVStore = (*CommitStore)(nil)
var _ store.ReadOnlyKVStore = (*CommitStore)(nil)

// NewCommitStore opens (or creates) the database file at given path and loads
// the latest committed version.
func NewCommitStore(path string) (*CommitStore, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "resolve db path: %s", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "create db directory: %s", err)
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", filepath.Clean(absPath)))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open sqlite: %s", err)
	}
	// All access is serialized, a single connection also keeps the
	// iterator snapshots consistent with the latest commit.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "ping sqlite: %s", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", maxBusyTimeoutMs)); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "set busy timeout: %s", err)
	}

	s := &CommitStore{db: db, file: absPath}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.LoadLatestVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *CommitStore) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key BLOB PRIMARY KEY,
		value BLOB NOT NULL
	) WITHOUT ROWID`)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "create kv table: %s", err)
	}
	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS versions (
		version INTEGER PRIMARY KEY,
		hash BLOB NOT NULL
	)`)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "create versions table: %s", err)
	}
	return nil
}

// File returns the absolute path of the database file.
func (s *CommitStore) File() string {
	return s.file
}

// Close releases the underlying database connection. Pending, not committed
// writes are lost.
func (s *CommitStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	return s.db.Close()
}

// Get returns the value at last committed state.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	switch {
	case err == sql.ErrNoRows:
		return nil, nil
	case err != nil:
		return nil, errors.Wrapf(errors.ErrDatabase, "get: %s", err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

// Has returns true if the key exists in the last committed state.
func (s *CommitStore) Has(key []byte) (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM kv WHERE key = ?`, key).Scan(&n); err != nil {
		return false, errors.Wrapf(errors.ErrDatabase, "has: %s", err)
	}
	return n > 0, nil
}

// Iterator returns all committed entries within [start, end) in ascending
// key order.
func (s *CommitStore) Iterator(start, end []byte) (store.Iterator, error) {
	return s.iterate(start, end, "ASC")
}

// ReverseIterator returns all committed entries within [start, end) in
// descending key order.
func (s *CommitStore) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return s.iterate(start, end, "DESC")
}

func (s *CommitStore) iterate(start, end []byte, order string) (store.Iterator, error) {
	query := `SELECT key, value FROM kv WHERE 1 = 1`
	var args []interface{}
	if start != nil {
		query += ` AND key >= ?`
		args = append(args, start)
	}
	if end != nil {
		query += ` AND key < ?`
		args = append(args, end)
	}
	query += ` ORDER BY key ` + order

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "iterate: %s", err)
	}
	defer rows.Close()

	// Rows are read eagerly so that no connection is held while the
	// caller is iterating.
	var models []store.Model
	for rows.Next() {
		var m store.Model
		if err := rows.Scan(&m.Key, &m.Value); err != nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "scan: %s", err)
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "iterate rows: %s", err)
	}
	return store.NewSliceIterator(models), nil
}

// NewBatch returns a batch that, when written, schedules its operations
// for the next Commit.
func (s *CommitStore) NewBatch() store.Batch {
	return &batch{store: s}
}

// CacheWrap returns a cache on top of the committed state. Writing the cache
// schedules all changes for the next Commit.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// Commit persists all pending operations and records a new version.
func (s *CommitStore) Commit() (store.CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return store.CommitID{}, errors.Wrapf(errors.ErrDatabase, "begin: %s", err)
	}

	digest := sha256.New()
	digest.Write(s.latest.Hash)
	for _, op := range s.pending {
		if op.IsSetOp() {
			_, err = tx.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value`, op.Key(), nonNil(op.Value()))
		} else {
			_, err = tx.Exec(`DELETE FROM kv WHERE key = ?`, op.Key())
		}
		if err != nil {
			tx.Rollback()
			return store.CommitID{}, errors.Wrapf(errors.ErrDatabase, "apply op: %s", err)
		}
		writeOp(digest, op)
	}

	next := store.CommitID{
		Version: s.latest.Version + 1,
		Hash:    digest.Sum(nil),
	}
	if _, err := tx.Exec(`INSERT INTO versions (version, hash) VALUES (?, ?)`, next.Version, next.Hash); err != nil {
		tx.Rollback()
		return store.CommitID{}, errors.Wrapf(errors.ErrDatabase, "record version: %s", err)
	}
	if err := tx.Commit(); err != nil {
		return store.CommitID{}, errors.Wrapf(errors.ErrDatabase, "commit: %s", err)
	}

	s.pending = nil
	s.latest = next
	return next, nil
}

// LoadLatestVersion loads the latest persisted version. Pending writes are
// dropped.
func (s *CommitStore) LoadLatestVersion() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id store.CommitID
	err := s.db.QueryRow(`SELECT version, hash FROM versions ORDER BY version DESC LIMIT 1`).
		Scan(&id.Version, &id.Hash)
	switch {
	case err == sql.ErrNoRows:
		id = store.CommitID{}
	case err != nil:
		return errors.Wrapf(errors.ErrDatabase, "load latest version: %s", err)
	}
	s.latest = id
	s.pending = nil
	return nil
}

// LatestVersion returns info on the latest version saved to disk.
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, nil
}

func (s *CommitStore) schedule(ops []store.Op) {
	s.mu.Lock()
	s.pending = append(s.pending, ops...)
	s.mu.Unlock()
}

// batch collects operations and hands them over to the store on Write.
type batch struct {
	store *CommitStore
	ops   []store.Op
}

var _ store.Batch = (*batch)(nil)

func (b *batch) Set(key, value []byte) error {
	b.ops = append(b.ops, store.SetOp(key, value))
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.ops = append(b.ops, store.DelOp(key))
	return nil
}

func (b *batch) Write() error {
	b.store.schedule(b.ops)
	b.ops = nil
	return nil
}

// Reset drops all operations that were not written yet.
func (b *batch) Reset() {
	b.ops = nil
}

func writeOp(w interface{ Write([]byte) (int, error) }, op store.Op) {
	var buf [binary.MaxVarintLen64]byte
	kind := byte('d')
	if op.IsSetOp() {
		kind = 's'
	}
	w.Write([]byte{kind})
	for _, b := range [][]byte{op.Key(), op.Value()} {
		n := binary.PutUvarint(buf[:], uint64(len(b)))
		w.Write(buf[:n])
		w.Write(b)
	}
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
