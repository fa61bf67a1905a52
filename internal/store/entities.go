package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"FinanceAssistant/internal/model"

	"github.com/google/uuid"
)

// --- Assets ---

// SaveAsset upserts an asset; an empty id means create.
func (s *Store) SaveAsset(a *model.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.LastUpdated = time.Now()
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO assets
		 (id, name, asset_type_id, bank_id, symbol, shares, value, last_updated)
		 VALUES (?,?,?,?,?,?,?,?)`,
		a.ID, a.Name, nullable(a.TypeID), nullable(a.BankID), nullable(a.Symbol),
		a.Shares, a.Value, a.LastUpdated.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save asset %s: %w", a.ID, err)
	}
	return nil
}

// Asset loads one asset by id.
func (s *Store) Asset(id string) (*model.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(
		"SELECT id, name, asset_type_id, bank_id, symbol, shares, value, last_updated FROM assets WHERE id = ?", id)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("asset %s: %w", id, ErrNotFound)
	}
	return a, err
}

// Assets lists all assets.
func (s *Store) Assets() ([]model.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		"SELECT id, name, asset_type_id, bank_id, symbol, shares, value, last_updated FROM assets ORDER BY name COLLATE NOCASE")
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []model.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *a)
	}
	return assets, rows.Err()
}

// DeleteAsset removes an asset by id.
func (s *Store) DeleteAsset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec("DELETE FROM assets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete asset %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("asset %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*model.Asset, error) {
	var (
		a       model.Asset
		name    sql.NullString
		typeID  sql.NullString
		bankID  sql.NullString
		symbol  sql.NullString
		shares  sql.NullFloat64
		updated sql.NullString
	)
	if err := row.Scan(&a.ID, &name, &typeID, &bankID, &symbol, &shares, &a.Value, &updated); err != nil {
		return nil, err
	}
	a.Name = name.String
	a.TypeID = typeID.String
	a.BankID = bankID.String
	a.Symbol = symbol.String
	a.Shares = shares.Float64
	if updated.Valid {
		if t, err := time.Parse(time.RFC3339, updated.String); err == nil {
			a.LastUpdated = t
		}
	}
	return &a, nil
}

// --- Liabilities ---

// SaveLiability upserts a liability; an empty id means create.
func (s *Store) SaveLiability(l *model.Liability) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.LastUpdated = time.Now()
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO liabilities
		 (id, name, liability_type_id, bank_id, interest_rate, start_date, notes, is_ynab, value, last_updated)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		l.ID, l.Name, nullable(l.TypeID), nullable(l.BankID), l.InterestRate,
		nullable(l.StartDate), nullable(l.Notes), boolToInt(l.IsYNAB), l.Value,
		l.LastUpdated.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save liability %s: %w", l.ID, err)
	}
	return nil
}

// Liability loads one liability by id.
func (s *Store) Liability(id string) (*model.Liability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(
		`SELECT id, name, liability_type_id, bank_id, interest_rate, start_date, notes, is_ynab, value, last_updated
		 FROM liabilities WHERE id = ?`, id)
	l, err := scanLiability(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("liability %s: %w", id, ErrNotFound)
	}
	return l, err
}

// Liabilities lists all liabilities.
func (s *Store) Liabilities() ([]model.Liability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, name, liability_type_id, bank_id, interest_rate, start_date, notes, is_ynab, value, last_updated
		 FROM liabilities ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list liabilities: %w", err)
	}
	defer rows.Close()

	var liabilities []model.Liability
	for rows.Next() {
		l, err := scanLiability(rows)
		if err != nil {
			return nil, err
		}
		liabilities = append(liabilities, *l)
	}
	return liabilities, rows.Err()
}

// DeleteLiability removes a liability by id.
func (s *Store) DeleteLiability(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec("DELETE FROM liabilities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete liability %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("liability %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanLiability(row rowScanner) (*model.Liability, error) {
	var (
		l       model.Liability
		name    sql.NullString
		typeID  sql.NullString
		bankID  sql.NullString
		rate    sql.NullFloat64
		start   sql.NullString
		notes   sql.NullString
		isYNAB  int
		updated sql.NullString
	)
	if err := row.Scan(&l.ID, &name, &typeID, &bankID, &rate, &start, &notes, &isYNAB, &l.Value, &updated); err != nil {
		return nil, err
	}
	l.Name = name.String
	l.TypeID = typeID.String
	l.BankID = bankID.String
	l.InterestRate = rate.Float64
	l.StartDate = start.String
	l.Notes = notes.String
	l.IsYNAB = isYNAB != 0
	if updated.Valid {
		if t, err := time.Parse(time.RFC3339, updated.String); err == nil {
			l.LastUpdated = t
		}
	}
	return &l, nil
}

// --- Credit cards ---

// SaveCreditCard upserts a credit card; an empty id means create.
func (s *Store) SaveCreditCard(c *model.CreditCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.LastUpdated = time.Now()
	methods, err := json.Marshal(c.PaymentMethodIDs)
	if err != nil {
		return fmt.Errorf("encode payment methods: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO credit_cards
		 (id, card_name, bank_id, include_bank_in_name, last_4_digits, expiration_date,
		  auto_pay_day_1, auto_pay_day_2, credit_limit, annual_fee, payment_method_ids,
		  base_rate, reward_system, points_program_id, notes, last_updated)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.ID, c.Name, nullable(c.BankID), boolToInt(c.IncludeBankInName),
		nullable(c.Last4Digits), nullable(c.ExpirationDate),
		c.AutoPayDay1, c.AutoPayDay2, c.CreditLimit, c.AnnualFee, string(methods),
		c.BaseRate, nullable(c.RewardSystem), nullable(c.PointsProgramID),
		nullable(c.Notes), c.LastUpdated.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save credit card %s: %w", c.ID, err)
	}
	return nil
}

// CreditCard loads one credit card by id.
func (s *Store) CreditCard(id string) (*model.CreditCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(
		`SELECT id, card_name, bank_id, include_bank_in_name, last_4_digits, expiration_date,
		        auto_pay_day_1, auto_pay_day_2, credit_limit, annual_fee, payment_method_ids,
		        base_rate, reward_system, points_program_id, notes, last_updated
		 FROM credit_cards WHERE id = ?`, id)
	c, err := scanCreditCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("credit card %s: %w", id, ErrNotFound)
	}
	return c, err
}

// CreditCards lists all credit cards.
func (s *Store) CreditCards() ([]model.CreditCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creditCardsLocked()
}

func (s *Store) creditCardsLocked() ([]model.CreditCard, error) {
	rows, err := s.db.Query(
		`SELECT id, card_name, bank_id, include_bank_in_name, last_4_digits, expiration_date,
		        auto_pay_day_1, auto_pay_day_2, credit_limit, annual_fee, payment_method_ids,
		        base_rate, reward_system, points_program_id, notes, last_updated
		 FROM credit_cards ORDER BY card_name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list credit cards: %w", err)
	}
	defer rows.Close()

	var cards []model.CreditCard
	for rows.Next() {
		c, err := scanCreditCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}

// DeleteCreditCard removes a credit card by id.
func (s *Store) DeleteCreditCard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec("DELETE FROM credit_cards WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete credit card %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("credit card %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanCreditCard(row rowScanner) (*model.CreditCard, error) {
	var (
		c       model.CreditCard
		name    sql.NullString
		bankID  sql.NullString
		include int
		last4   sql.NullString
		exp     sql.NullString
		day1    sql.NullInt64
		day2    sql.NullInt64
		limit   sql.NullInt64
		fee     sql.NullInt64
		methods sql.NullString
		system  sql.NullString
		program sql.NullString
		notes   sql.NullString
		updated sql.NullString
	)
	if err := row.Scan(&c.ID, &name, &bankID, &include, &last4, &exp, &day1, &day2,
		&limit, &fee, &methods, &c.BaseRate, &system, &program, &notes, &updated); err != nil {
		return nil, err
	}
	c.Name = name.String
	c.BankID = bankID.String
	c.IncludeBankInName = include != 0
	c.Last4Digits = last4.String
	c.ExpirationDate = exp.String
	c.AutoPayDay1 = int(day1.Int64)
	c.AutoPayDay2 = int(day2.Int64)
	c.CreditLimit = limit.Int64
	c.AnnualFee = fee.Int64
	c.RewardSystem = system.String
	c.PointsProgramID = program.String
	c.Notes = notes.String
	if methods.Valid && methods.String != "" {
		if err := json.Unmarshal([]byte(methods.String), &c.PaymentMethodIDs); err != nil {
			c.PaymentMethodIDs = nil
		}
	}
	if updated.Valid {
		if t, err := time.Parse(time.RFC3339, updated.String); err == nil {
			c.LastUpdated = t
		}
	}
	return &c, nil
}

// removePaymentMethodFromCardsLocked drops a deleted payment-method id from
// every card's JSON list. Caller holds the mutex.
func (s *Store) removePaymentMethodFromCardsLocked(methodID string) error {
	cards, err := s.creditCardsLocked()
	if err != nil {
		return err
	}
	for _, card := range cards {
		kept := card.PaymentMethodIDs[:0]
		for _, id := range card.PaymentMethodIDs {
			if id != methodID {
				kept = append(kept, id)
			}
		}
		if len(kept) == len(card.PaymentMethodIDs) {
			continue
		}
		raw, err := json.Marshal(kept)
		if err != nil {
			return fmt.Errorf("encode payment methods: %w", err)
		}
		if _, err := s.db.Exec(
			"UPDATE credit_cards SET payment_method_ids = ? WHERE id = ?",
			string(raw), card.ID,
		); err != nil {
			return fmt.Errorf("update card %s payment methods: %w", card.ID, err)
		}
	}
	return nil
}
