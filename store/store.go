// Package store keeps serialized object snapshots in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/chazu/dynobj/logging"
	"github.com/chazu/dynobj/object"
	"github.com/chazu/dynobj/serial"
)

// ErrNotFound indicates the requested snapshot doesn't exist
var ErrNotFound = errors.New("snapshot not found")

var log = logging.Get("store")

// Record describes a stored snapshot.
type Record struct {
	Key       string
	Class     string
	Size      int
	UpdatedAt time.Time
}

// Store handles SQLite storage for snapshots
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens or creates the snapshot database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		key TEXT PRIMARY KEY,
		class TEXT NOT NULL,
		data BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	log.Debugf("opened %s", path)
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores data under key, replacing any previous snapshot.
func (s *Store) Save(key, class string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO snapshots (key, class, data, updated_at) VALUES (?, ?, ?, ?)",
		key, class, data, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot %s: %w", key, err)
	}
	log.Debugf("saved %s (%s, %d bytes)", key, class, len(data))
	return nil
}

// NewKey returns a fresh key for an instance of class.
func NewKey(class string) string {
	return strings.ToLower(class) + "_" + uuid.New().String()
}

// SaveObject serializes the graph rooted at o under a fresh key.
func (s *Store) SaveObject(o *object.Object) (string, error) {
	key := NewKey(o.Root().ClassName())
	return key, s.SaveObjectAs(key, o)
}

// SaveObjectAs serializes the graph rooted at o under key.
func (s *Store) SaveObjectAs(key string, o *object.Object) error {
	data, err := serial.MarshalObject(o)
	if err != nil {
		return err
	}
	return s.Save(key, o.Root().ClassName(), data)
}

// Load returns the raw snapshot stored under key.
func (s *Store) Load(key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM snapshots WHERE key = ?", key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	return data, nil
}

// LoadObject decodes the snapshot under key into sp.
func (s *Store) LoadObject(sp *object.Space, key string) (*object.Object, error) {
	data, err := s.Load(key)
	if err != nil {
		return nil, err
	}
	o, err := serial.UnmarshalObject(sp, data)
	if err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", key, err)
	}
	return o, nil
}

// Delete removes the snapshot under key.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM snapshots WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns every stored snapshot ordered by key.
func (s *Store) List() ([]Record, error) {
	return s.query("SELECT key, class, length(data), updated_at FROM snapshots ORDER BY key")
}

// FindByClass returns the snapshots whose root has the given class,
// compared case-insensitively.
func (s *Store) FindByClass(class string) ([]Record, error) {
	return s.query(
		"SELECT key, class, length(data), updated_at FROM snapshots WHERE lower(class) = lower(?) ORDER BY key",
		class,
	)
}

func (s *Store) query(q string, args ...any) ([]Record, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var ts int64
		if err := rows.Scan(&r.Key, &r.Class, &r.Size, &ts); err != nil {
			return nil, err
		}
		r.UpdatedAt = time.Unix(0, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}
