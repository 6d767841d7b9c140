package export

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

const (
	upsertCropSQL = `INSERT INTO crops (crop_id, name, cultivar, plants, planted, source, notes, file, exported_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(crop_id) DO UPDATE SET
    name = excluded.name,
    cultivar = excluded.cultivar,
    plants = excluded.plants,
    planted = excluded.planted,
    source = excluded.source,
    notes = excluded.notes,
    file = excluded.file,
    exported_at = excluded.exported_at`

	deleteEventsSQL = `DELETE FROM events WHERE crop_id = ?`

	insertEventSQL = `INSERT INTO events (crop_id, date, time, seq, kind, stage, tag, additives, notes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// SQLite exports crops into a SQLite database. Re-exporting a crop replaces
// its row and all of its events.
type SQLite struct {
	db *sql.DB

	// Now stamps exported_at. Defaults to time.Now.
	Now func() time.Time
}

// OpenSQLite opens, or creates, the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	for _, ddl := range schema {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}
	return &SQLite{db: db, Now: time.Now}, nil
}

// Write stores one crop and its events in a single transaction.
func (s *SQLite) Write(c Crop, events []Event) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning export transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(upsertCropSQL,
		c.CropID, c.Name, nullString(c.Cultivar), nullInt(c.Plants), c.Planted,
		nullString(c.Source), nullStringPtr(c.Notes), c.File,
		s.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting crop %s: %w", c.Name, err)
	}
	if _, err := tx.Exec(deleteEventsSQL, c.CropID); err != nil {
		return fmt.Errorf("clearing events of %s: %w", c.Name, err)
	}

	stmt, err := tx.Prepare(insertEventSQL)
	if err != nil {
		return fmt.Errorf("preparing event insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		additives, err := additivesJSON(e.Additives)
		if err != nil {
			return err
		}
		_, err = stmt.Exec(e.CropID, e.Date, e.Time, e.Seq, e.Kind,
			nullString(e.Stage), nullString(e.Tag), additives, nullString(e.Notes))
		if err != nil {
			return fmt.Errorf("inserting event %s %s of %s: %w", e.Date, e.Time, c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing export of %s: %w", c.Name, err)
	}
	slog.Debug("crop exported", "crop", c.Name, "id", c.CropID, "events", len(events))
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func additivesJSON(additives []string) (sql.NullString, error) {
	if len(additives) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(additives)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encoding additives: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}
