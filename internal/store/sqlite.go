// Package store persists all manual data behind the API: named lookup
// entities, per-account details with allocation rules, assets, liabilities,
// credit cards, hierarchical categories/payees, settings and net-worth
// snapshots. Everything lives in one SQLite database.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when an id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a name collides case-insensitively.
	ErrDuplicate = errors.New("name already exists")
	// ErrInUse is returned when a delete would orphan referencing rows.
	ErrInUse = errors.New("item is in use")
	// ErrInvalid is returned when input fails a structural check, such as
	// an empty name or a reparenting cycle.
	ErrInvalid = errors.New("invalid input")
)

// Store wraps the SQLite database holding all manual data.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := s.seedDefaults(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	log.Printf("[INFO] store opened: %s", dbPath)
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS banks (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE
		)`,
		`CREATE TABLE IF NOT EXISTS account_types (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE
		)`,
		`CREATE TABLE IF NOT EXISTS asset_types (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE
		)`,
		`CREATE TABLE IF NOT EXISTS liability_types (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE
		)`,
		`CREATE TABLE IF NOT EXISTS payment_methods (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE
		)`,
		`CREATE TABLE IF NOT EXISTS points_programs (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE
		)`,

		`CREATE TABLE IF NOT EXISTS accounts (
			id                   TEXT PRIMARY KEY,
			bank_id              TEXT,
			account_type_id      TEXT,
			last_4_digits        TEXT,
			include_bank_in_name INTEGER NOT NULL DEFAULT 1,
			allocation_rules     TEXT,
			notes                TEXT,
			last_updated         TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS assets (
			id            TEXT PRIMARY KEY,
			name          TEXT,
			asset_type_id TEXT,
			bank_id       TEXT,
			symbol        TEXT,
			shares        REAL,
			value         INTEGER NOT NULL DEFAULT 0,
			last_updated  TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS liabilities (
			id                TEXT PRIMARY KEY,
			name              TEXT,
			liability_type_id TEXT,
			bank_id           TEXT,
			interest_rate     REAL,
			start_date        TEXT,
			notes             TEXT,
			is_ynab           INTEGER NOT NULL DEFAULT 0,
			value             INTEGER NOT NULL DEFAULT 0,
			last_updated      TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS credit_cards (
			id                   TEXT PRIMARY KEY,
			card_name            TEXT,
			bank_id              TEXT,
			include_bank_in_name INTEGER NOT NULL DEFAULT 1,
			last_4_digits        TEXT,
			expiration_date      TEXT,
			auto_pay_day_1       INTEGER,
			auto_pay_day_2       INTEGER,
			credit_limit         INTEGER,
			annual_fee           INTEGER,
			payment_method_ids   TEXT,
			base_rate            REAL NOT NULL DEFAULT 0,
			reward_system        TEXT,
			points_program_id    TEXT,
			notes                TEXT,
			last_updated         TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS managed_categories (
			id        TEXT PRIMARY KEY,
			name      TEXT NOT NULL,
			parent_id TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS managed_payees (
			id        TEXT PRIMARY KEY,
			name      TEXT NOT NULL,
			parent_id TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS rewards_categories (
			id        TEXT PRIMARY KEY,
			name      TEXT NOT NULL,
			parent_id TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS rewards_payees (
			id        TEXT PRIMARY KEY,
			name      TEXT NOT NULL,
			parent_id TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS net_worth_snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			liquid      INTEGER NOT NULL,
			frozen      INTEGER NOT NULL,
			deep_freeze INTEGER NOT NULL,
			assets      INTEGER NOT NULL,
			liabilities INTEGER NOT NULL,
			net_worth   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON net_worth_snapshots(timestamp)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// GetSetting reads a JSON-encoded setting into out. Missing keys leave out
// untouched and return false.
func (s *Store) GetSetting(key string, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get setting %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decode setting %s: %w", key, err)
	}
	return true, nil
}

// SetSetting stores a JSON-encoded setting.
func (s *Store) SetSetting(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}
	if _, err := s.db.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, string(raw)); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// AllSettings returns every stored setting as raw JSON values.
func (s *Store) AllSettings() (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = json.RawMessage(value)
	}
	return settings, rows.Err()
}

func (s *Store) Close() error {
	log.Println("[INFO] closing store")
	return s.db.Close()
}
