// Package runlog keeps an append-only SQLite history of ci and fuzzy
// run outcomes, for spotting flaky resources and regressions over time.
package runlog

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Entry is one recorded run outcome. Immutable once appended.
type Entry struct {
	// Kind is "ci" or "fuzzy".
	Kind string

	// Name identifies the resource or scenario.
	Name string

	Pass bool

	// Diagnostic holds the first failure line, empty on pass.
	Diagnostic string

	// Seed is the fuzzy randomizer seed, 0 for ci entries.
	Seed uint64

	RecordedAt time.Time
}

// Log is a durable run-outcome history backed by SQLite.
type Log struct {
	db *sql.DB
}

// Open creates or opens the history database at path and applies the
// schema. Safe to call repeatedly on the same file.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect run log: %w", err)
	}

	// Single writer avoids SQLITE_BUSY on this single-process tool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply run log pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply run log schema: %w", err)
	}
	return &Log{db: db}, nil
}

// Close releases the database handle.
func (l *Log) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Append records one run outcome. A zero RecordedAt is stamped with the
// current time.
func (l *Log) Append(e Entry) error {
	at := e.RecordedAt
	if at.IsZero() {
		at = time.Now()
	}
	_, err := l.db.Exec(
		`INSERT INTO runs (kind, name, pass, diagnostic, seed, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Kind, e.Name, e.Pass, e.Diagnostic, int64(e.Seed), at.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("append run log entry: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (l *Log) Recent(n int) ([]Entry, error) {
	rows, err := l.db.Query(
		`SELECT kind, name, pass, diagnostic, seed, recorded_at
		 FROM runs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("read run log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var seed int64
		var at string
		if err := rows.Scan(&e.Kind, &e.Name, &e.Pass, &e.Diagnostic, &seed, &at); err != nil {
			return nil, fmt.Errorf("scan run log entry: %w", err)
		}
		e.Seed = uint64(seed)
		if ts, err := time.Parse(time.RFC3339, at); err == nil {
			e.RecordedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
