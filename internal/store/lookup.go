package store

import (
	"database/sql"
	"fmt"
	"strings"

	"FinanceAssistant/internal/model"

	"github.com/google/uuid"
)

// LookupKind names one of the flat entity collections.
type LookupKind string

const (
	Banks          LookupKind = "banks"
	AccountTypes   LookupKind = "account_types"
	AssetTypes     LookupKind = "asset_types"
	LiabilityTypes LookupKind = "liability_types"
	PaymentMethods LookupKind = "payment_methods"
	PointsPrograms LookupKind = "points_programs"
)

// dependency identifies a column in another table that references a lookup
// item; a delete is refused while any row points at the item.
type dependency struct {
	table  string
	column string
}

var lookupDeps = map[LookupKind][]dependency{
	Banks: {
		{"accounts", "bank_id"},
		{"assets", "bank_id"},
		{"liabilities", "bank_id"},
		{"credit_cards", "bank_id"},
	},
	AccountTypes:   {{"accounts", "account_type_id"}},
	AssetTypes:     {{"assets", "asset_type_id"}},
	LiabilityTypes: {{"liabilities", "liability_type_id"}},
	PointsPrograms: {{"credit_cards", "points_program_id"}},
}

// LookupKindFromString resolves a URL path segment to a lookup kind.
func LookupKindFromString(s string) (LookupKind, bool) {
	switch LookupKind(s) {
	case Banks, AccountTypes, AssetTypes, LiabilityTypes, PaymentMethods, PointsPrograms:
		return LookupKind(s), true
	}
	return "", false
}

var defaultLookups = map[LookupKind][]string{
	Banks:          {"Default Bank"},
	AccountTypes:   {"Checking", "Savings", "Cash"},
	AssetTypes:     {"Stocks", "Retirement Plan"},
	LiabilityTypes: {"Student Loan", "Auto Loan", "Personal Loan", "Mortgage"},
}

// seedDefaults inserts the initial lookup rows on first open. Existing
// names are left alone.
func (s *Store) seedDefaults() error {
	for kind, names := range defaultLookups {
		for _, name := range names {
			_, err := s.db.Exec(
				fmt.Sprintf("INSERT OR IGNORE INTO %s (id, name) VALUES (?, ?)", kind),
				uuid.NewString(), name,
			)
			if err != nil {
				return fmt.Errorf("seed %s: %w", kind, err)
			}
		}
	}
	return nil
}

// ListLookup returns all items of a kind ordered by name.
func (s *Store) ListLookup(kind LookupKind) ([]model.LookupItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLookupLocked(kind)
}

func (s *Store) listLookupLocked(kind LookupKind) ([]model.LookupItem, error) {
	rows, err := s.db.Query(fmt.Sprintf("SELECT id, name FROM %s ORDER BY name COLLATE NOCASE", kind))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	var items []model.LookupItem
	for rows.Next() {
		var item model.LookupItem
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddLookup inserts a new named item. Names are deduplicated
// case-insensitively.
func (s *Store) AddLookup(kind LookupKind, name string) (*model.LookupItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: name cannot be empty: %w", kind, ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if exists, err := s.lookupNameExists(kind, name, ""); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("%s %q: %w", kind, name, ErrDuplicate)
	}

	item := &model.LookupItem{ID: uuid.NewString(), Name: name}
	if _, err := s.db.Exec(
		fmt.Sprintf("INSERT INTO %s (id, name) VALUES (?, ?)", kind),
		item.ID, item.Name,
	); err != nil {
		return nil, fmt.Errorf("add %s: %w", kind, err)
	}
	return item, nil
}

// RenameLookup updates an item's name.
func (s *Store) RenameLookup(kind LookupKind, id, newName string) (*model.LookupItem, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, fmt.Errorf("%s: name cannot be empty: %w", kind, ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if exists, err := s.lookupNameExists(kind, newName, id); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("%s %q: %w", kind, newName, ErrDuplicate)
	}

	result, err := s.db.Exec(
		fmt.Sprintf("UPDATE %s SET name = ? WHERE id = ?", kind),
		newName, id,
	)
	if err != nil {
		return nil, fmt.Errorf("rename %s: %w", kind, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return &model.LookupItem{ID: id, Name: newName}, nil
}

// DeleteLookup removes an item after checking nothing references it.
func (s *Store) DeleteLookup(kind LookupKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, dep := range lookupDeps[kind] {
		var one int
		err := s.db.QueryRow(
			fmt.Sprintf("SELECT 1 FROM %s WHERE %s = ? LIMIT 1", dep.table, dep.column),
			id,
		).Scan(&one)
		if err == nil {
			return fmt.Errorf("%s %s referenced by %s: %w", kind, id, dep.table, ErrInUse)
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check %s dependency: %w", dep.table, err)
		}
	}

	// Payment methods are referenced from the credit-card JSON column, not a
	// foreign key; drop the id from each card that carries it.
	if kind == PaymentMethods {
		if err := s.removePaymentMethodFromCardsLocked(id); err != nil {
			return err
		}
	}

	result, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", kind), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

func (s *Store) lookupNameExists(kind LookupKind, name, excludeID string) (bool, error) {
	var one int
	err := s.db.QueryRow(
		fmt.Sprintf("SELECT 1 FROM %s WHERE name = ? COLLATE NOCASE AND id != ? LIMIT 1", kind),
		name, excludeID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s name: %w", kind, err)
	}
	return true, nil
}

// LookupName resolves an id to its display name; empty when absent.
func (s *Store) LookupName(kind LookupKind, id string) (string, error) {
	if id == "" {
		return "", nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var name string
	err := s.db.QueryRow(fmt.Sprintf("SELECT name FROM %s WHERE id = ?", kind), id).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup %s name: %w", kind, err)
	}
	return name, nil
}
