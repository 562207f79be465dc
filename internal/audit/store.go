package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/newsrag/internal/retrieval"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS audit_log (
	id             TEXT PRIMARY KEY,
	ts             TEXT NOT NULL,
	elapsed_ms     INTEGER,
	question       TEXT NOT NULL,
	prompt         TEXT NOT NULL,
	model          TEXT,
	answer         TEXT,
	targets        TEXT,
	retrieved_json TEXT,
	context_hash   TEXT,
	citations_json TEXT,
	notes          TEXT
);
`

// #endregion schema

// #region store-struct
// Store is the queryable SQLite mirror of the audit trail. The JSONL sink
// stays canonical; the mirror exists so cmd/inspect can browse records.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for ad-hoc queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region insert
// Insert writes one audit row. Records are append-only: inserting the same
// id twice is an error, matching the one-record-per-transaction contract.
func (s *Store) Insert(rec Record) error {
	retrievedJSON, err := json.Marshal(rec.Retrieved)
	if err != nil {
		return fmt.Errorf("marshal retrieved: %w", err)
	}
	citationsJSON, err := json.Marshal(rec.Citations)
	if err != nil {
		return fmt.Errorf("marshal citations: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO audit_log (id, ts, elapsed_ms, question, prompt, model, answer, targets, retrieved_json, context_hash, citations_json, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.TS,
		rec.ElapsedMS,
		rec.Question,
		rec.Prompt,
		nullIfEmpty(rec.Model),
		nullIfEmpty(rec.Answer),
		nullIfEmpty(strings.Join(rec.Targets, ",")),
		string(retrievedJSON),
		nullIfEmpty(rec.ContextHash),
		string(citationsJSON),
		nullIfEmpty(rec.Notes),
	)
	if err != nil {
		return fmt.Errorf("insert audit row: %w", err)
	}
	return nil
}

// #endregion insert

// #region queries
// List returns the most recent records, newest first.
func (s *Store) List(last int) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT id, ts, elapsed_ms, question, prompt, model, answer, targets, retrieved_json, context_hash, citations_json, notes
		 FROM audit_log ORDER BY ts DESC, id DESC LIMIT ?`, last)
	if err != nil {
		return nil, fmt.Errorf("list audit rows: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get returns a single record by id.
func (s *Store) Get(id string) (Record, error) {
	row := s.db.QueryRow(
		`SELECT id, ts, elapsed_ms, question, prompt, model, answer, targets, retrieved_json, context_hash, citations_json, notes
		 FROM audit_log WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return Record{}, fmt.Errorf("audit record %s not found", id)
	}
	return rec, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var model, answer, targets, contextHash, notes sql.NullString
	var retrievedJSON, citationsJSON string

	err := row.Scan(&rec.ID, &rec.TS, &rec.ElapsedMS, &rec.Question, &rec.Prompt,
		&model, &answer, &targets, &retrievedJSON, &contextHash, &citationsJSON, &notes)
	if err != nil {
		return Record{}, err
	}

	rec.Model = model.String
	rec.Answer = answer.String
	rec.ContextHash = contextHash.String
	rec.Notes = notes.String
	if targets.String != "" {
		rec.Targets = strings.Split(targets.String, ",")
	}
	if retrievedJSON != "" {
		if err := json.Unmarshal([]byte(retrievedJSON), &rec.Retrieved); err != nil {
			return Record{}, fmt.Errorf("parse retrieved: %w", err)
		}
	}
	if citationsJSON != "" {
		var cits []retrieval.Citation
		if err := json.Unmarshal([]byte(citationsJSON), &cits); err != nil {
			return Record{}, fmt.Errorf("parse citations: %w", err)
		}
		rec.Citations = cits
	}
	return rec, nil
}

// #endregion queries

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
