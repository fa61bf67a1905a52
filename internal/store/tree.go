package store

import (
	"database/sql"
	"fmt"
	"strings"

	"FinanceAssistant/internal/model"

	"github.com/google/uuid"
)

// TreeKind names one of the hierarchical item tables.
type TreeKind string

const (
	ManagedCategories TreeKind = "managed_categories"
	ManagedPayees     TreeKind = "managed_payees"
	RewardsCategories TreeKind = "rewards_categories"
	RewardsPayees     TreeKind = "rewards_payees"
)

var treeKinds = map[string]TreeKind{
	string(ManagedCategories): ManagedCategories,
	string(ManagedPayees):     ManagedPayees,
	string(RewardsCategories): RewardsCategories,
	string(RewardsPayees):     RewardsPayees,
}

// TreeKindFromString maps a URL segment to a TreeKind.
func TreeKindFromString(s string) (TreeKind, bool) {
	k, ok := treeKinds[s]
	return k, ok
}

// ListTree returns every item of the kind, parents before children within
// each name ordering.
func (s *Store) ListTree(kind TreeKind) ([]model.TreeItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listTreeLocked(kind)
}

func (s *Store) listTreeLocked(kind TreeKind) ([]model.TreeItem, error) {
	rows, err := s.db.Query(fmt.Sprintf(
		"SELECT id, name, parent_id FROM %s ORDER BY name COLLATE NOCASE", kind))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	var items []model.TreeItem
	for rows.Next() {
		var (
			item   model.TreeItem
			parent sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Name, &parent); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		item.ParentID = parent.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddTreeItem creates an item under parentID (empty for a root item).
// Sibling names must be unique, case-insensitively.
func (s *Store) AddTreeItem(kind TreeKind, name, parentID string) (*model.TreeItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("add %s: empty name: %w", kind, ErrInvalid)
	}
	if parentID != "" {
		if err := s.treeItemExistsLocked(kind, parentID); err != nil {
			return nil, err
		}
	}
	dup, err := s.siblingNameExistsLocked(kind, name, parentID, "")
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, fmt.Errorf("%s %q under same parent: %w", kind, name, ErrDuplicate)
	}

	item := model.TreeItem{ID: uuid.NewString(), Name: name, ParentID: parentID}
	_, err = s.db.Exec(fmt.Sprintf(
		"INSERT INTO %s (id, name, parent_id) VALUES (?,?,?)", kind),
		item.ID, item.Name, nullable(item.ParentID))
	if err != nil {
		return nil, fmt.Errorf("add %s %q: %w", kind, name, err)
	}
	return &item, nil
}

// UpdateTreeItem renames an item and/or moves it under a new parent.
// Moving an item under itself or one of its descendants is refused.
func (s *Store) UpdateTreeItem(kind TreeKind, id, name, parentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("update %s: empty name: %w", kind, ErrInvalid)
	}
	if err := s.treeItemExistsLocked(kind, id); err != nil {
		return err
	}
	if parentID != "" {
		if parentID == id {
			return fmt.Errorf("update %s %s: item cannot be its own parent: %w", kind, id, ErrInvalid)
		}
		if err := s.treeItemExistsLocked(kind, parentID); err != nil {
			return err
		}
		descendant, err := s.isDescendantLocked(kind, parentID, id)
		if err != nil {
			return err
		}
		if descendant {
			return fmt.Errorf("update %s %s: new parent is a descendant: %w", kind, id, ErrInvalid)
		}
	}
	dup, err := s.siblingNameExistsLocked(kind, name, parentID, id)
	if err != nil {
		return err
	}
	if dup {
		return fmt.Errorf("%s %q under same parent: %w", kind, name, ErrDuplicate)
	}

	_, err = s.db.Exec(fmt.Sprintf(
		"UPDATE %s SET name = ?, parent_id = ? WHERE id = ?", kind),
		name, nullable(parentID), id)
	if err != nil {
		return fmt.Errorf("update %s %s: %w", kind, id, err)
	}
	return nil
}

// DeleteTreeItem removes an item. Items with children are refused.
func (s *Store) DeleteTreeItem(kind TreeKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var children int
	err := s.db.QueryRow(fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE parent_id = ?", kind), id).Scan(&children)
	if err != nil {
		return fmt.Errorf("count children of %s %s: %w", kind, id, err)
	}
	if children > 0 {
		return fmt.Errorf("%s %s has %d children: %w", kind, id, children, ErrInUse)
	}

	result, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", kind), id)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", kind, id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

func (s *Store) treeItemExistsLocked(kind TreeKind, id string) error {
	var one int
	err := s.db.QueryRow(fmt.Sprintf(
		"SELECT 1 FROM %s WHERE id = ?", kind), id).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lookup %s %s: %w", kind, id, err)
	}
	return nil
}

func (s *Store) siblingNameExistsLocked(kind TreeKind, name, parentID, excludeID string) (bool, error) {
	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE name = ? COLLATE NOCASE AND id != ?", kind)
	args := []any{name, excludeID}
	if parentID == "" {
		query += " AND parent_id IS NULL"
	} else {
		query += " AND parent_id = ?"
		args = append(args, parentID)
	}
	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("check %s name %q: %w", kind, name, err)
	}
	return n > 0, nil
}

// isDescendantLocked reports whether candidate sits anywhere below ancestor.
func (s *Store) isDescendantLocked(kind TreeKind, candidate, ancestor string) (bool, error) {
	items, err := s.listTreeLocked(kind)
	if err != nil {
		return false, err
	}
	parents := make(map[string]string, len(items))
	for _, item := range items {
		parents[item.ID] = item.ParentID
	}
	seen := make(map[string]bool)
	for cur := candidate; cur != "" && !seen[cur]; cur = parents[cur] {
		if cur == ancestor {
			return true, nil
		}
		seen[cur] = true
	}
	return false, nil
}
