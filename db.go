package main

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SnapshotDB is a SnapshotCache backed by SQLite, for setups where the fetch
// cache should survive restarts (watch mode across redeploys). Tables are
// stored as CSV payloads keyed by source name; expiry is checked on read so
// stale rows cost nothing until the next fetch overwrites them.
type SnapshotDB struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func OpenSnapshotDB(path string, ttl time.Duration) (*SnapshotDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS source_snapshots (
		source_key  TEXT PRIMARY KEY,
		payload     TEXT NOT NULL,
		row_count   INTEGER NOT NULL DEFAULT 0,
		fetched_at  DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_source_snapshots_fetched_at ON source_snapshots(fetched_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SnapshotDB{db: db, ttl: ttl, now: time.Now}, nil
}

func (s *SnapshotDB) Close() error { return s.db.Close() }

func (s *SnapshotDB) Get(key string) (Table, bool) {
	if s.ttl <= 0 {
		return Table{}, false
	}

	var payload string
	var fetchedAt time.Time
	err := s.db.QueryRow(
		`SELECT payload, fetched_at FROM source_snapshots WHERE source_key = ?`, key,
	).Scan(&payload, &fetchedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("snapshot cache read error key=%s: %v", key, err)
		}
		return Table{}, false
	}
	if s.now().Sub(fetchedAt) > s.ttl {
		return Table{}, false
	}

	t, err := decodeCSVTable([]byte(payload))
	if err != nil {
		log.Printf("snapshot cache decode error key=%s: %v", key, err)
		return Table{}, false
	}
	return t, true
}

func (s *SnapshotDB) Put(key string, t Table, fetchedAt time.Time) {
	payload, err := encodeCSVTable(t)
	if err != nil {
		log.Printf("snapshot cache encode error key=%s: %v", key, err)
		return
	}
	_, err = s.db.Exec(
		`INSERT INTO source_snapshots (source_key, payload, row_count, fetched_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(source_key) DO UPDATE SET
		   payload = excluded.payload,
		   row_count = excluded.row_count,
		   fetched_at = excluded.fetched_at`,
		key, string(payload), len(t.Rows), fetchedAt,
	)
	if err != nil {
		log.Printf("snapshot cache write error key=%s: %v", key, err)
	}
}

func (s *SnapshotDB) Invalidate() error {
	_, err := s.db.Exec(`DELETE FROM source_snapshots`)
	return err
}
