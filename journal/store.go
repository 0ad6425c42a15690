// Package journal stores the user's daily journal in a local SQLite database.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rifflingua-go/journal/migrations"
	"rifflingua-go/logcolors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	// Import SQLite driver for database/sql
	_ "modernc.org/sqlite"
)

// Fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const selectColumns = `id, date, title, content, rating, mood, steps, location, note, images, created_at, updated_at`

// Store is the journal table.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the journal database at path and applies
// pending migrations. path may be ":memory:".
func Open(path string) (*Store, error) {
	var dsn string
	if path == ":memory:" {
		dsn = "file::memory:"
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(absPath))
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Infof("%s Journal database ready at %s", logcolors.LogJournal, path)
	return &Store{db: db, now: time.Now}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to initialise migrate driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrations.Files, ".")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}
	defer func() {
		_ = sourceDriver.Close()
	}()

	migrator, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

// Create validates and inserts entry, returning its new ID.
func (s *Store) Create(ctx context.Context, entry Entry) (string, error) {
	if err := entry.Validate(); err != nil {
		return "", err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	images, err := encodeImages(entry.Images)
	if err != nil {
		return "", err
	}

	ts := s.timestamp()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO journals (id, date, title, content, rating, mood, steps, location, note, images, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), entry.Date, entry.Title, entry.Content,
		nullInt(entry.Rating), nullString(entry.Mood), nullInt(entry.Steps),
		nullString(entry.Location), nullString(entry.Note), images, ts, ts,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert journal entry: %w", err)
	}

	log.Debugf("%s Created entry %s for %s", logcolors.LogJournal, id, entry.Date)
	return id.String(), nil
}

// GetAll returns every entry, newest date first. Entries sharing a date are
// ordered by creation time, newest first.
func (s *Store) GetAll(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM journals ORDER BY date DESC, created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal entries: %w", err)
	}
	return entries, nil
}

// GetByDate returns the entry for date, or nil. When several entries share
// the date the most recently updated one wins, then the most recently
// created.
func (s *Store) GetByDate(ctx context.Context, date string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM journals WHERE date = ? ORDER BY updated_at DESC, id DESC LIMIT 1`, date)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// GetByID returns the entry with id, or nil.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM journals WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// Update merges patch into the entry with id and refreshes updated_at, even
// when the patch is empty.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (*Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM journals WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	patch.apply(entry)
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	images, err := encodeImages(entry.Images)
	if err != nil {
		return nil, err
	}

	ts := s.timestamp()
	_, err = tx.ExecContext(ctx,
		`UPDATE journals SET date = ?, title = ?, content = ?, rating = ?, mood = ?, steps = ?,
		 location = ?, note = ?, images = ?, updated_at = ? WHERE id = ?`,
		entry.Date, entry.Title, entry.Content, nullInt(entry.Rating), nullString(entry.Mood),
		nullInt(entry.Steps), nullString(entry.Location), nullString(entry.Note), images, ts, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update journal entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}

	entry.UpdatedAt, _ = time.Parse(timeLayout, ts)
	return entry, nil
}

// Delete removes the entry with id. Deleting a missing entry is not an
// error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM journals WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}
	return nil
}

// Count returns the number of entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM journals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count journal entries: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		e                    Entry
		rating, steps        sql.NullInt64
		mood, location, note sql.NullString
		images               string
		createdAt, updatedAt string
	)
	err := row.Scan(&e.ID, &e.Date, &e.Title, &e.Content, &rating, &mood, &steps,
		&location, &note, &images, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan journal entry: %w", err)
	}

	if rating.Valid {
		v := int(rating.Int64)
		e.Rating = &v
	}
	if steps.Valid {
		v := int(steps.Int64)
		e.Steps = &v
	}
	if mood.Valid {
		e.Mood = &mood.String
	}
	if location.Valid {
		e.Location = &location.String
	}
	if note.Valid {
		e.Note = &note.String
	}
	if images != "" {
		if err := json.Unmarshal([]byte(images), &e.Images); err != nil {
			log.Warnf("%s Ignoring unreadable images for %s: %v", logcolors.LogJournal, e.ID, err)
		}
	}
	e.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	e.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return &e, nil
}

func encodeImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("failed to encode images: %w", err)
	}
	return string(data), nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
