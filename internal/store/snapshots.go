package store

import (
	"fmt"
	"time"

	"FinanceAssistant/internal/model"
)

// AddSnapshot appends a net-worth snapshot.
func (s *Store) AddSnapshot(snap model.NetWorthSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Time.IsZero() {
		snap.Time = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO net_worth_snapshots
		 (timestamp, liquid, frozen, deep_freeze, assets, liabilities, net_worth)
		 VALUES (?,?,?,?,?,?,?)`,
		snap.Time.Unix(), snap.Liquid, snap.Frozen, snap.DeepFreeze,
		snap.Assets, snap.Liabilities, snap.NetWorth,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Snapshots returns snapshots taken at or after since, oldest first.
// A zero since returns everything.
func (s *Store) Snapshots(since time.Time) ([]model.NetWorthSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT timestamp, liquid, frozen, deep_freeze, assets, liabilities, net_worth
		 FROM net_worth_snapshots WHERE timestamp >= ? ORDER BY timestamp ASC`,
		since.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []model.NetWorthSnapshot
	for rows.Next() {
		var (
			snap model.NetWorthSnapshot
			ts   int64
		)
		if err := rows.Scan(&ts, &snap.Liquid, &snap.Frozen, &snap.DeepFreeze,
			&snap.Assets, &snap.Liabilities, &snap.NetWorth); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.Time = time.Unix(ts, 0)
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// LatestSnapshot returns the most recent snapshot, or ErrNotFound when none
// has been recorded yet.
func (s *Store) LatestSnapshot() (*model.NetWorthSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(
		`SELECT timestamp, liquid, frozen, deep_freeze, assets, liabilities, net_worth
		 FROM net_worth_snapshots ORDER BY timestamp DESC LIMIT 1`)
	var (
		snap model.NetWorthSnapshot
		ts   int64
	)
	err := row.Scan(&ts, &snap.Liquid, &snap.Frozen, &snap.DeepFreeze,
		&snap.Assets, &snap.Liabilities, &snap.NetWorth)
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", ErrNotFound)
	}
	snap.Time = time.Unix(ts, 0)
	return &snap, nil
}
