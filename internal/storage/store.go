package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"climate-router/internal/common/logging"
	"climate-router/internal/schedule"
)

// ErrEntryNotFound is returned when a schedule entry id does not exist.
var ErrEntryNotFound = errors.New("schedule entry not found")

// Store persists schedule entries in SQLite. It is safe for concurrent
// use; database/sql handles connection pooling.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// New opens (or creates) the database at path and runs migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logging.GetGlobalLogger(),
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS schedule_entries (
			id TEXT PRIMARY KEY,
			entry_type TEXT NOT NULL,
			title TEXT DEFAULT '',
			device_ref TEXT NOT NULL,
			valid_from DATETIME,
			valid_until DATETIME,
			day_filter TEXT DEFAULT '',
			entry_date TEXT DEFAULT '',
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			value REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_entries_type ON schedule_entries(entry_type)`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_entries_device ON schedule_entries(device_ref)`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("migration query failed: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Health reports whether the database is reachable.
func (s *Store) Health() error {
	return s.db.Ping()
}

// CreateEntry inserts a schedule entry, assigning a fresh UUID when the
// id is empty, and returns the stored entry.
func (s *Store) CreateEntry(entry schedule.Entry) (schedule.Entry, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`INSERT INTO schedule_entries
		(id, entry_type, title, device_ref, valid_from, valid_until, day_filter, entry_date, start_time, end_time, value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, string(entry.Type), entry.Title, entry.DeviceRef,
		entry.ValidFrom, entry.ValidUntil, string(entry.DayFilter), entry.Date,
		entry.Start.String(), entry.End.String(), entry.Value, entry.CreatedAt,
	)
	if err != nil {
		return schedule.Entry{}, fmt.Errorf("failed to insert schedule entry: %w", err)
	}

	s.logger.Info("Schedule entry created",
		logging.String("entry_id", entry.ID),
		logging.String("type", string(entry.Type)),
		logging.String("device", entry.DeviceRef),
	)
	return entry, nil
}

// DeleteEntry removes an entry by id.
func (s *Store) DeleteEntry(id string) error {
	result, err := s.db.Exec(`DELETE FROM schedule_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return nil
}

// GetEntry loads a single entry by id.
func (s *Store) GetEntry(id string) (schedule.Entry, error) {
	row := s.db.QueryRow(`SELECT id, entry_type, title, device_ref, valid_from, valid_until, day_filter, entry_date, start_time, end_time, value, created_at
		FROM schedule_entries WHERE id = ?`, id)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return schedule.Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return entry, err
}

// ListEntries loads every entry grouped into the four engine input lists,
// ordered by creation time within each group.
func (s *Store) ListEntries() (schedule.Input, error) {
	rows, err := s.db.Query(`SELECT id, entry_type, title, device_ref, valid_from, valid_until, day_filter, entry_date, start_time, end_time, value, created_at
		FROM schedule_entries ORDER BY created_at, id`)
	if err != nil {
		return schedule.Input{}, fmt.Errorf("failed to list schedule entries: %w", err)
	}
	defer rows.Close()

	var input schedule.Input
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return schedule.Input{}, err
		}
		switch entry.Type {
		case schedule.TypeDefault:
			input.Defaults = append(input.Defaults, entry)
		case schedule.TypeRecurring:
			input.Recurring = append(input.Recurring, entry)
		case schedule.TypeOnce:
			input.Once = append(input.Once, entry)
		case schedule.TypeTillNext:
			input.TillNext = append(input.TillNext, entry)
		default:
			return schedule.Input{}, fmt.Errorf("stored entry %s has unknown type %q", entry.ID, entry.Type)
		}
	}
	if err := rows.Err(); err != nil {
		return schedule.Input{}, fmt.Errorf("failed to iterate schedule entries: %w", err)
	}
	return input, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (schedule.Entry, error) {
	var (
		entry                schedule.Entry
		entryType, dayFilter string
		startRaw, endRaw     string
		validFrom, validUntil sql.NullTime
	)
	err := row.Scan(&entry.ID, &entryType, &entry.Title, &entry.DeviceRef,
		&validFrom, &validUntil, &dayFilter, &entry.Date,
		&startRaw, &endRaw, &entry.Value, &entry.CreatedAt)
	if err != nil {
		return schedule.Entry{}, err
	}

	entry.Type = schedule.EntryType(entryType)
	entry.DayFilter = schedule.DayFilter(dayFilter)
	entry.ValidFrom = validFrom.Time
	entry.ValidUntil = validUntil.Time

	if entry.Start, err = schedule.ParseTimeOfDay(startRaw); err != nil {
		return schedule.Entry{}, fmt.Errorf("stored entry %s has bad start time: %w", entry.ID, err)
	}
	if entry.End, err = schedule.ParseTimeOfDay(endRaw); err != nil {
		return schedule.Entry{}, fmt.Errorf("stored entry %s has bad end time: %w", entry.ID, err)
	}
	return entry, nil
}
