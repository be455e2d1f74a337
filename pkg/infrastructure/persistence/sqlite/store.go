package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/reliefops/donations/pkg/domain/entities"
)

// Snapshot is the full persisted state of the donation system
type Snapshot struct {
	Donors    []*entities.Donor            `json:"donors"`
	Donations []*entities.Donation         `json:"donations"`
	Pending   []*entities.Request          `json:"pending"`
	Fulfilled []*entities.Request          `json:"fulfilled"`
	History   []*entities.AllocationRecord `json:"history"`
}

// IsEmpty reports whether the snapshot carries no records
func (s *Snapshot) IsEmpty() bool {
	return len(s.Donors) == 0 && len(s.Donations) == 0 &&
		len(s.Pending) == 0 && len(s.Fulfilled) == 0 && len(s.History) == 0
}

// Store persists system state to a single SQLite table as JSON blobs,
// one bucket per record kind. It snapshots the full state on every
// Persist call; at this scale a full rewrite is cheaper than tracking
// deltas.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

var buckets = []string{"donors", "donations", "pending", "fulfilled", "history"}

// Open constructs a snapshotting SQLite-backed store at path
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Load reads the persisted snapshot. A fresh database yields an empty
// snapshot, not an error.
func (s *Store) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	snapshot := &Snapshot{}
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if err := decodeBucket(snapshot, bucket, payload); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	return snapshot, nil
}

func decodeBucket(snapshot *Snapshot, bucket string, payload []byte) error {
	var err error
	switch bucket {
	case "donors":
		err = json.Unmarshal(payload, &snapshot.Donors)
	case "donations":
		err = json.Unmarshal(payload, &snapshot.Donations)
	case "pending":
		err = json.Unmarshal(payload, &snapshot.Pending)
	case "fulfilled":
		err = json.Unmarshal(payload, &snapshot.Fulfilled)
	case "history":
		err = json.Unmarshal(payload, &snapshot.History)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", bucket, err)
	}
	return nil
}

// Persist writes the snapshot in one transaction, replacing all buckets
func (s *Store) Persist(snapshot *Snapshot) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, bucket := range buckets {
		var data []byte
		switch bucket {
		case "donors":
			data, err = json.Marshal(snapshot.Donors)
		case "donations":
			data, err = json.Marshal(snapshot.Donations)
		case "pending":
			data, err = json.Marshal(snapshot.Pending)
		case "fulfilled":
			data, err = json.Marshal(snapshot.Fulfilled)
		case "history":
			data, err = json.Marshal(snapshot.History)
		}
		if err != nil {
			retErr = fmt.Errorf("encode %s: %w", bucket, err)
			return retErr
		}
		if _, err = tx.Exec(`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
			retErr = fmt.Errorf("upsert %s: %w", bucket, err)
			return retErr
		}
	}
	return tx.Commit()
}

// Close releases the underlying database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the configured database path
func (s *Store) Path() string { return s.path }
