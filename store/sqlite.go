package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/stocklots"
	"github.com/etnz/stocklots/date"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS portfolios (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL UNIQUE,
	kind          TEXT NOT NULL,
	sold          INTEGER NOT NULL DEFAULT 0,
	value         TEXT NOT NULL,
	initial_value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS lots (
	portfolio_id  TEXT NOT NULL REFERENCES portfolios(id) ON DELETE CASCADE,
	seq           INTEGER NOT NULL,
	symbol        TEXT NOT NULL,
	shares        TEXT NOT NULL,
	day           TEXT NOT NULL,
	price         TEXT NOT NULL,
	initial_price TEXT NOT NULL,
	PRIMARY KEY (portfolio_id, seq)
);
`

// SQLite stores portfolios in a single SQLite database.
//
// Amounts are stored as decimal text so that they round trip exactly.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens, and creates if needed, the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(filepath.Clean(path)), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// a single connection, so that an in-memory database is shared and writes are serialized.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA foreign_keys = ON"} {
		if _, err := db.Exec(pragma); err != nil {
			log.Warn().Err(err).Str("pragma", pragma).Msg("pragma failed")
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the database.
func (s *SQLite) Close() error { return s.db.Close() }

// Save replaces the portfolio named r.Name and all its lots in a single transaction.
func (s *SQLite) Save(r stocklots.Record) (err error) {
	if err := ValidateName(r.Name); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("cannot save portfolio %q: %w", r.Name, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var id string
	switch err = tx.QueryRow(`SELECT id FROM portfolios WHERE name = ?`, r.Name).Scan(&id); {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.NewString()
		_, err = tx.Exec(`INSERT INTO portfolios (id, name, kind, sold, value, initial_value) VALUES (?, ?, ?, ?, ?, ?)`,
			id, r.Name, string(r.Kind), r.Sold, r.Value.Decimal(), r.InitialValue.Decimal())
	case err == nil:
		_, err = tx.Exec(`UPDATE portfolios SET kind = ?, sold = ?, value = ?, initial_value = ? WHERE id = ?`,
			string(r.Kind), r.Sold, r.Value.Decimal(), r.InitialValue.Decimal(), id)
	}
	if err != nil {
		return fmt.Errorf("cannot save portfolio %q: %w", r.Name, err)
	}

	if _, err = tx.Exec(`DELETE FROM lots WHERE portfolio_id = ?`, id); err != nil {
		return fmt.Errorf("cannot save portfolio %q: %w", r.Name, err)
	}
	stmt, err := tx.Prepare(`INSERT INTO lots (portfolio_id, seq, symbol, shares, day, price, initial_price) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("cannot save portfolio %q: %w", r.Name, err)
	}
	defer stmt.Close()
	for i, lot := range r.Lots {
		if _, err = stmt.Exec(id, i, lot.Symbol, lot.Shares.Decimal(), lot.Date.String(), lot.Price.Decimal(), lot.InitialPrice.Decimal()); err != nil {
			return fmt.Errorf("cannot save lot %v of %q: %w", lot, r.Name, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("cannot save portfolio %q: %w", r.Name, err)
	}
	log.Debug().Str("portfolio", r.Name).Str("id", id).Int("lots", len(r.Lots)).Msg("portfolio saved")
	return nil
}

// Load reads the portfolio named name and its lots in ledger order.
func (s *SQLite) Load(name string) (stocklots.Record, error) {
	var (
		r            = stocklots.Record{Name: name}
		id, kind     string
		value, start decimal.Decimal
	)
	err := s.db.QueryRow(`SELECT id, kind, sold, value, initial_value FROM portfolios WHERE name = ?`, name).
		Scan(&id, &kind, &r.Sold, &value, &start)
	if errors.Is(err, sql.ErrNoRows) {
		return stocklots.Record{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return stocklots.Record{}, fmt.Errorf("cannot load portfolio %q: %w", name, err)
	}
	r.Kind = stocklots.Kind(kind)
	r.Value = stocklots.M(value)
	r.InitialValue = stocklots.M(start)

	rows, err := s.db.Query(`SELECT symbol, shares, day, price, initial_price FROM lots WHERE portfolio_id = ? ORDER BY seq`, id)
	if err != nil {
		return stocklots.Record{}, fmt.Errorf("cannot load lots of %q: %w", name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			lot                  stocklots.Lot
			day                  string
			shares, price, first decimal.Decimal
		)
		if err := rows.Scan(&lot.Symbol, &shares, &day, &price, &first); err != nil {
			return stocklots.Record{}, fmt.Errorf("cannot load lots of %q: %w", name, err)
		}
		if lot.Date, err = date.ParseStrict(day); err != nil {
			return stocklots.Record{}, fmt.Errorf("invalid lot date in %q: %w", name, err)
		}
		lot.Shares = stocklots.Q(shares)
		lot.Price = stocklots.M(price)
		lot.InitialPrice = stocklots.M(first)
		r.Lots = append(r.Lots, lot)
	}
	if err := rows.Err(); err != nil {
		return stocklots.Record{}, fmt.Errorf("cannot load lots of %q: %w", name, err)
	}
	return r, nil
}

// List returns the names of the saved portfolios.
func (s *SQLite) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM portfolios ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("cannot list portfolios: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("cannot list portfolios: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes the portfolio named name and its lots.
func (s *SQLite) Delete(name string) error {
	res, err := s.db.Exec(`DELETE FROM portfolios WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("cannot delete portfolio %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
