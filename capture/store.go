// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: capture/store.go
// Summary: SQLite-backed transcript store for frames and query exchanges.
//
// Persists what a session actually put on the wire:
//   - Presented frame byte streams, in order
//   - Query/reply exchanges answered by the reply engine
//
// The store exists for replay and debugging; nothing in the render path
// depends on it.

package capture

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// TranscriptStore records and retrieves session transcripts.
type TranscriptStore interface {
	// RecordFrame stores one presented frame. seq is the caller's frame
	// counter; replay relies on it, not on insertion order.
	RecordFrame(session string, seq int64, data []byte) error

	// RecordExchange stores one query/reply pair in arrival order.
	RecordExchange(session string, query, reply []byte) error

	// Frames returns a session's frames ordered by seq.
	Frames(session string) ([]FrameRecord, error)

	// Exchanges returns a session's exchanges, oldest first.
	Exchanges(session string) ([]ExchangeRecord, error)

	// ExchangesInRange returns the exchanges recorded inside [start, end].
	ExchangesInRange(session string, start, end time.Time) ([]ExchangeRecord, error)

	// Close closes the database.
	Close() error
}

// FrameRecord is one stored frame.
type FrameRecord struct {
	Seq       int64
	Timestamp time.Time
	Data      []byte
}

// ExchangeRecord is one stored query/reply pair.
type ExchangeRecord struct {
	Timestamp time.Time
	Query     []byte
	Reply     []byte
}

const transcriptSchema = `
CREATE TABLE IF NOT EXISTS frames (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session TEXT NOT NULL,
    seq INTEGER NOT NULL,
    timestamp INTEGER NOT NULL,      -- UnixNano
    data BLOB NOT NULL,
    UNIQUE(session, seq)
);

CREATE TABLE IF NOT EXISTS exchanges (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session TEXT NOT NULL,
    timestamp INTEGER NOT NULL,      -- UnixNano
    query BLOB NOT NULL,
    reply BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_frames_session ON frames(session, seq);
CREATE INDEX IF NOT EXISTS idx_exchanges_session ON exchanges(session, id);
CREATE INDEX IF NOT EXISTS idx_exchanges_timestamp ON exchanges(timestamp);
`

// SQLiteStore implements TranscriptStore on a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex

	// now is swappable for deterministic tests.
	now func() time.Time
}

// OpenStore opens (or creates) a transcript database at dbPath.
func OpenStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := dbPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=temp_store(MEMORY)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(transcriptSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// RecordFrame stores one presented frame.
func (s *SQLiteStore) RecordFrame(session string, seq int64, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO frames (session, seq, timestamp, data) VALUES (?, ?, ?, ?)",
		session, seq, s.now().UnixNano(), data,
	)
	return err
}

// RecordExchange stores one query/reply pair.
func (s *SQLiteStore) RecordExchange(session string, query, reply []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO exchanges (session, timestamp, query, reply) VALUES (?, ?, ?, ?)",
		session, s.now().UnixNano(), query, reply,
	)
	return err
}

// Frames returns a session's frames ordered by seq.
func (s *SQLiteStore) Frames(session string) ([]FrameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT seq, timestamp, data FROM frames WHERE session = ? ORDER BY seq ASC",
		session,
	)
	if err != nil {
		return nil, fmt.Errorf("frame query failed: %w", err)
	}
	defer rows.Close()

	var out []FrameRecord
	for rows.Next() {
		var r FrameRecord
		var tsNano int64
		if err := rows.Scan(&r.Seq, &tsNano, &r.Data); err != nil {
			return nil, err
		}
		r.Timestamp = time.Unix(0, tsNano)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Exchanges returns a session's exchanges, oldest first.
func (s *SQLiteStore) Exchanges(session string) ([]ExchangeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT timestamp, query, reply FROM exchanges WHERE session = ? ORDER BY id ASC",
		session,
	)
	if err != nil {
		return nil, fmt.Errorf("exchange query failed: %w", err)
	}
	defer rows.Close()
	return scanExchanges(rows)
}

// ExchangesInRange returns the exchanges recorded inside [start, end].
func (s *SQLiteStore) ExchangesInRange(session string, start, end time.Time) ([]ExchangeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT timestamp, query, reply FROM exchanges
		 WHERE session = ? AND timestamp >= ? AND timestamp <= ?
		 ORDER BY id ASC`,
		session, start.UnixNano(), end.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("exchange query failed: %w", err)
	}
	defer rows.Close()
	return scanExchanges(rows)
}

func scanExchanges(rows *sql.Rows) ([]ExchangeRecord, error) {
	var out []ExchangeRecord
	for rows.Next() {
		var r ExchangeRecord
		var tsNano int64
		if err := rows.Scan(&tsNano, &r.Query, &r.Reply); err != nil {
			return nil, err
		}
		r.Timestamp = time.Unix(0, tsNano)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Compile-time interface check
var _ TranscriptStore = (*SQLiteStore)(nil)
