// Package store persists which containers each cluster launch produced, so
// stop, status and teardown drive the same resolved set the launch created.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

const dbFilename = "state.db"

const schema = `
CREATE TABLE IF NOT EXISTS cluster_containers (
	cluster    TEXT NOT NULL,
	container  TEXT NOT NULL,
	container_id TEXT NOT NULL,
	layer      INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY (cluster, container)
);
`

// Record is one launched container of a cluster.
type Record struct {
	Cluster     string
	Container   string
	ContainerID string
	Layer       int
	CreatedAt   time.Time
}

// Store is the sqlite-backed cluster state store.
type Store struct {
	db *sql.DB
}

// Open opens (and bootstraps, if needed) the state database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create state dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, dbFilename)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("could not open state db %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not bootstrap state db: %w", err)
	}
	log.Debug("State store opened", "path", path)
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveCluster replaces the recorded state of a cluster with the given
// records, atomically.
func (s *Store) SaveCluster(cluster string, records []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin state transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cluster_containers WHERE cluster = ?`, cluster); err != nil {
		return fmt.Errorf("could not clear cluster state: %w", err)
	}
	for _, r := range records {
		_, err := tx.Exec(
			`INSERT INTO cluster_containers (cluster, container, container_id, layer, created_at) VALUES (?, ?, ?, ?, ?)`,
			cluster, r.Container, r.ContainerID, r.Layer, r.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("could not record container %q: %w", r.Container, err)
		}
	}
	return tx.Commit()
}

// LoadCluster returns the recorded containers of a cluster in launch order
// (layer, then recording order).
func (s *Store) LoadCluster(cluster string) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT container, container_id, layer, created_at FROM cluster_containers WHERE cluster = ? ORDER BY layer, rowid`,
		cluster,
	)
	if err != nil {
		return nil, fmt.Errorf("could not load cluster state: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r := Record{Cluster: cluster}
		var createdAt string
		if err := rows.Scan(&r.Container, &r.ContainerID, &r.Layer, &createdAt); err != nil {
			return nil, fmt.Errorf("could not scan cluster state: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteCluster forgets a cluster's recorded state.
func (s *Store) DeleteCluster(cluster string) error {
	if _, err := s.db.Exec(`DELETE FROM cluster_containers WHERE cluster = ?`, cluster); err != nil {
		return fmt.Errorf("could not delete cluster state: %w", err)
	}
	return nil
}
