// Package store persists reconciliation output: the append-only ledger
// entry table and the learned-rule table keyed by (company, complement
// hash). SQLite keeps the tool self-contained; the schema mirrors the
// relational layout of the upstream system.
package store

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"vcollos/concilia-csv/internal/learning"
	"vcollos/concilia-csv/internal/logging"
	"vcollos/concilia-csv/internal/models"
	"vcollos/concilia-csv/internal/parsererror"
)

const schema = `
CREATE TABLE IF NOT EXISTS ledger_entries (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	company_id  INTEGER NOT NULL,
	debit       TEXT NOT NULL,
	credit      TEXT NOT NULL,
	history     TEXT NOT NULL,
	entry_date  TEXT NOT NULL,
	amount      TEXT NOT NULL,
	complement  TEXT NOT NULL,
	origin      TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_ledger_company_origin
	ON ledger_entries (company_id, origin);

CREATE TABLE IF NOT EXISTS reconciliation_rules (
	company_id      INTEGER NOT NULL,
	complement_hash TEXT NOT NULL,
	complement_text TEXT NOT NULL,
	debit           TEXT NOT NULL,
	credit          TEXT NOT NULL,
	history         TEXT NOT NULL,
	last_used       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (company_id, complement_hash)
);
`

// Store wraps the SQLite database holding ledger entries and saved rules.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string, logger logging.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &parsererror.PersistenceError{Op: "open", Err: err}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, &parsererror.PersistenceError{Op: "create schema", Err: err}
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadRules returns every saved rule of one company, keyed by complement
// hash, in the shape learning.ApplyRules consumes.
func (s *Store) LoadRules(ctx context.Context, companyID int64) (map[string]learning.SavedRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT complement_hash, debit, credit, history
		FROM reconciliation_rules
		WHERE company_id = ?
	`, companyID)
	if err != nil {
		return nil, &parsererror.PersistenceError{Op: "load rules", Err: err}
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close rule rows")
		}
	}()

	saved := make(map[string]learning.SavedRule)
	for rows.Next() {
		var hash string
		var rule learning.SavedRule
		if err := rows.Scan(&hash, &rule.Debit, &rule.Credit, &rule.History); err != nil {
			return nil, &parsererror.PersistenceError{Op: "scan rule", Err: err}
		}
		saved[hash] = rule
	}
	if err := rows.Err(); err != nil {
		return nil, &parsererror.PersistenceError{Op: "load rules", Err: err}
	}

	s.logger.WithFields(
		logging.Field{Key: "company_id", Value: companyID},
		logging.Field{Key: "rules", Value: len(saved)},
	).Debug("Loaded saved rules")

	return saved, nil
}

// ExistingOrigins returns which of the given origin tags already have
// persisted ledger entries for the company, so callers can ask before
// overwriting.
func (s *Store) ExistingOrigins(ctx context.Context, companyID int64, origins []string) ([]string, error) {
	var existing []string
	for _, origin := range origins {
		var count int
		err := s.db.QueryRowContext(ctx, `
			SELECT COUNT(1) FROM ledger_entries
			WHERE company_id = ? AND origin = ?
		`, companyID, origin).Scan(&count)
		if err != nil {
			return nil, &parsererror.PersistenceError{Op: "check origins", Err: err}
		}
		if count > 0 {
			existing = append(existing, origin)
		}
	}
	return existing, nil
}

// SaveReconciliation persists a finalized dataset in one transaction:
// optionally delete the previous entries of the given origin set, insert
// the new entries, and upsert the learnable rules. Any failure rolls the
// whole batch back; there is no partial save.
func (s *Store) SaveReconciliation(ctx context.Context, companyID int64, entries []models.LedgerEntry, overwriteOrigins []string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &parsererror.PersistenceError{Op: "begin", Err: err}
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				s.logger.WithError(rbErr).Error("Rollback failed")
			}
		}
	}()

	for _, origin := range overwriteOrigins {
		if _, err = tx.ExecContext(ctx, `
			DELETE FROM ledger_entries WHERE company_id = ? AND origin = ?
		`, companyID, origin); err != nil {
			return &parsererror.PersistenceError{Op: "delete by origin", Err: err}
		}
	}

	for _, entry := range entries {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO ledger_entries
				(company_id, debit, credit, history, entry_date, amount, complement, origin)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, companyID, entry.Debit, entry.Credit, entry.History,
			entry.Date, entry.Amount, entry.Complement, entry.Origin); err != nil {
			return &parsererror.PersistenceError{Op: "insert entry", Err: err}
		}
	}

	rules := learning.Collect(entries)
	for _, rule := range rules {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO reconciliation_rules
				(company_id, complement_hash, complement_text, debit, credit, history, last_used)
			VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (company_id, complement_hash) DO UPDATE SET
				debit = excluded.debit,
				credit = excluded.credit,
				history = excluded.history,
				complement_text = excluded.complement_text,
				last_used = CURRENT_TIMESTAMP
		`, companyID, rule.Hash, rule.Complement,
			rule.Debit, rule.Credit, rule.History); err != nil {
			return &parsererror.PersistenceError{Op: "upsert rule", Err: err}
		}
	}

	if err = tx.Commit(); err != nil {
		return &parsererror.PersistenceError{Op: "commit", Err: err}
	}

	s.logger.WithFields(
		logging.Field{Key: "company_id", Value: companyID},
		logging.Field{Key: "entries", Value: len(entries)},
		logging.Field{Key: "rules", Value: len(rules)},
		logging.Field{Key: "overwritten_origins", Value: len(overwriteOrigins)},
	).Info("Reconciliation batch saved")

	return nil
}

// CountEntries returns the number of persisted entries for a company,
// mainly for the CLI summary after a save.
func (s *Store) CountEntries(ctx context.Context, companyID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM ledger_entries WHERE company_id = ?
	`, companyID).Scan(&count)
	if err != nil {
		return 0, &parsererror.PersistenceError{Op: "count entries", Err: err}
	}
	return count, nil
}
