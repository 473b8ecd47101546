package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/airmet/air-quality-monitor/internal/airquality"

	_ "modernc.org/sqlite"
)

// SQLiteHistory implements airquality.HistoryStore on a local SQLite file
// using the pure Go driver, so the binary stays cgo-free.
type SQLiteHistory struct {
	db *sql.DB
}

// NewSQLiteHistory opens (or creates) the history database at path and
// applies the schema.
func NewSQLiteHistory(path string) (*SQLiteHistory, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL keeps frequent small writes from blocking readers.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.Println("warning: could not set WAL mode:", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS queries (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        address TEXT NOT NULL,
        location TEXT,
        station TEXT,
        latitude REAL,
        longitude REAL,
        fetched_at TEXT NOT NULL
    );`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteHistory{db: db}, nil
}

// RecordQuery appends one successful fetch to the history.
func (s *SQLiteHistory) RecordQuery(q airquality.QueryRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO queries(address, location, station, latitude, longitude, fetched_at) VALUES(?,?,?,?,?,?)`,
		q.Address, q.Location, q.Station, q.Lat, q.Lon, q.FetchedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// ListQueries returns past queries, newest first. limit <= 0 falls back to a
// sane cap.
func (s *SQLiteHistory) ListQueries(limit int) ([]airquality.QueryRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(
		`SELECT id, address, location, station, latitude, longitude, fetched_at FROM queries ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]airquality.QueryRecord, 0)
	for rows.Next() {
		rec, err := scanQuery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// LatestQuery returns the most recent query, or airquality.ErrNoData while
// the history is empty.
func (s *SQLiteHistory) LatestQuery() (airquality.QueryRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, address, location, station, latitude, longitude, fetched_at FROM queries ORDER BY id DESC LIMIT 1`,
	)
	rec, err := scanQuery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return airquality.QueryRecord{}, fmt.Errorf("%w: history is empty", airquality.ErrNoData)
	}
	return rec, err
}

// Close closes the underlying database.
func (s *SQLiteHistory) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuery(row rowScanner) (airquality.QueryRecord, error) {
	var rec airquality.QueryRecord
	var ts string
	if err := row.Scan(&rec.ID, &rec.Address, &rec.Location, &rec.Station, &rec.Lat, &rec.Lon, &ts); err != nil {
		return airquality.QueryRecord{}, err
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		rec.FetchedAt = t
	}
	return rec, nil
}
