// Package store persists the custodian's state layout to sqlite: the
// proposal registry, the basket snapshot history, and issuance/redemption
// records. It implements custodian.Recorder.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/stabletoken/custodian"
	"github.com/stabletoken/custodian/internal/utils/safecast"
	"github.com/stabletoken/custodian/types"
)

// Store is a sqlite-backed Recorder.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the sqlite database at path and runs the
// schema migration.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS proposals (
		id         INTEGER PRIMARY KEY,
		state      TEXT NOT NULL,
		data       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS baskets (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		data       TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS issuances (
		id   TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS redemptions (
		id   TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	return nil
}

// SaveProposal upserts a proposal row keyed by its sequence id.
func (s *Store) SaveProposal(p *custodian.Proposal) error {
	id, err := safecast.Uint64ToInt64(p.ID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal proposal %d: %w", p.ID, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO proposals (id, state, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET state = excluded.state, data = excluded.data, updated_at = excluded.updated_at`,
		id, string(p.State), string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save proposal %d: %w", p.ID, err)
	}

	return nil
}

// Proposal loads a single proposal by id.
func (s *Store) Proposal(id uint64) (*custodian.Proposal, error) {
	rowID, err := safecast.Uint64ToInt64(id)
	if err != nil {
		return nil, err
	}

	var data string
	err = s.db.QueryRow(`SELECT data FROM proposals WHERE id = ?`, rowID).Scan(&data)
	if err != nil {
		return nil, fmt.Errorf("load proposal %d: %w", id, err)
	}

	var p custodian.Proposal
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("unmarshal proposal %d: %w", id, err)
	}

	return &p, nil
}

// Proposals loads every persisted proposal in sequence order.
func (s *Store) Proposals() ([]*custodian.Proposal, error) {
	rows, err := s.db.Query(`SELECT data FROM proposals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load proposals: %w", err)
	}
	defer rows.Close()

	var out []*custodian.Proposal
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var p custodian.Proposal
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("unmarshal proposal: %w", err)
		}
		out = append(out, &p)
	}

	return out, rows.Err()
}

// SaveBasket appends a basket snapshot.
func (s *Store) SaveBasket(b *types.Basket) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal basket: %w", err)
	}

	_, err = s.db.Exec(`INSERT INTO baskets (data, created_at) VALUES (?, ?)`,
		string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save basket: %w", err)
	}

	return nil
}

// Baskets loads every basket snapshot, oldest first.
func (s *Store) Baskets() ([]*types.Basket, error) {
	rows, err := s.db.Query(`SELECT data FROM baskets ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("load baskets: %w", err)
	}
	defer rows.Close()

	var out []*types.Basket
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var b types.Basket
		if err := json.Unmarshal([]byte(data), &b); err != nil {
			return nil, fmt.Errorf("unmarshal basket: %w", err)
		}
		out = append(out, &b)
	}

	return out, rows.Err()
}

// SaveIssuance appends an issuance record.
func (s *Store) SaveIssuance(r types.IssuanceRecord) error {
	return s.saveRecord("issuances", r.ID.String(), r)
}

// SaveRedemption appends a redemption record.
func (s *Store) SaveRedemption(r types.RedemptionRecord) error {
	return s.saveRecord("redemptions", r.ID.String(), r)
}

func (s *Store) saveRecord(table, id string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", id, err)
	}

	_, err = s.db.Exec(fmt.Sprintf(`INSERT INTO %s (id, data) VALUES (?, ?)`, table), id, string(data))
	if err != nil {
		return fmt.Errorf("save record %s: %w", id, err)
	}

	return nil
}

// Issuances loads every issuance record.
func (s *Store) Issuances() ([]types.IssuanceRecord, error) {
	rows, err := s.db.Query(`SELECT data FROM issuances`)
	if err != nil {
		return nil, fmt.Errorf("load issuances: %w", err)
	}
	defer rows.Close()

	var out []types.IssuanceRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r types.IssuanceRecord
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshal issuance: %w", err)
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

// Redemptions loads every redemption record.
func (s *Store) Redemptions() ([]types.RedemptionRecord, error) {
	rows, err := s.db.Query(`SELECT data FROM redemptions`)
	if err != nil {
		return nil, fmt.Errorf("load redemptions: %w", err)
	}
	defer rows.Close()

	var out []types.RedemptionRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r types.RedemptionRecord
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshal redemption: %w", err)
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

// Reset drops all persisted proposals, mirroring the owner's registry clear.
// Basket snapshots and issuance/redemption records are kept for audit.
func (s *Store) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM proposals`); err != nil {
		return fmt.Errorf("reset proposals: %w", err)
	}

	return nil
}
