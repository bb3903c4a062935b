// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store exports PaperRecords to a SQLite database file so results
// from several runs can be queried together.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/get-papers/pkg/types"
)

// Store wraps the export database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at path and ensures the schema
// exists. The parent directory is created if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			result_count INTEGER NOT NULL,
			fetched_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			pmid TEXT PRIMARY KEY,
			title TEXT,
			publication_date TEXT,
			non_academic_authors TEXT,
			company_affiliations TEXT,
			corresponding_email TEXT,
			search_id INTEGER REFERENCES searches(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_search_id ON papers(search_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save records one search and upserts its records in a single transaction.
// A PMID seen in an earlier search is overwritten with the latest fields.
// It returns the id of the new search row.
func (s *Store) Save(ctx context.Context, query string, records []types.PaperRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO searches (query, result_count, fetched_at) VALUES (?, ?, ?)`,
		query, len(records), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting search: %w", err)
	}
	searchID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading search id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (pmid, title, publication_date, non_academic_authors,
			company_affiliations, corresponding_email, search_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(pmid) DO UPDATE SET
			title=excluded.title, publication_date=excluded.publication_date,
			non_academic_authors=excluded.non_academic_authors,
			company_affiliations=excluded.company_affiliations,
			corresponding_email=excluded.corresponding_email,
			search_id=excluded.search_id`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		authorsJSON, _ := json.Marshal(r.NonAcademicAuthors)
		affsJSON, _ := json.Marshal(r.CompanyAffiliations)
		_, err := stmt.ExecContext(ctx,
			r.PubmedID, r.Title, r.PublicationDate,
			string(authorsJSON), string(affsJSON), r.CorrespondingEmail, searchID,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting paper %s: %w", r.PubmedID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return searchID, nil
}

// Papers returns the stored records, optionally limited to one search
// (searchID > 0), ordered by PMID.
func (s *Store) Papers(ctx context.Context, searchID int64) ([]types.PaperRecord, error) {
	q := `SELECT pmid, title, publication_date, non_academic_authors,
			company_affiliations, corresponding_email
		  FROM papers`
	var args []any
	if searchID > 0 {
		q += ` WHERE search_id = ?`
		args = append(args, searchID)
	}
	q += ` ORDER BY pmid`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var out []types.PaperRecord
	for rows.Next() {
		var r types.PaperRecord
		var authorsJSON, affsJSON string
		if err := rows.Scan(&r.PubmedID, &r.Title, &r.PublicationDate,
			&authorsJSON, &affsJSON, &r.CorrespondingEmail); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		if err := json.Unmarshal([]byte(authorsJSON), &r.NonAcademicAuthors); err != nil {
			return nil, fmt.Errorf("decoding authors of paper %s: %w", r.PubmedID, err)
		}
		if err := json.Unmarshal([]byte(affsJSON), &r.CompanyAffiliations); err != nil {
			return nil, fmt.Errorf("decoding affiliations of paper %s: %w", r.PubmedID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SearchCount returns the number of searches recorded.
func (s *Store) SearchCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM searches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting searches: %w", err)
	}
	return n, nil
}
