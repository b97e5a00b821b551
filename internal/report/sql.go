package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/database"
)

const schema = `CREATE TABLE IF NOT EXISTS scheme_results (
	run_id          TEXT NOT NULL,
	started_at      TEXT NOT NULL,
	corpus          TEXT NOT NULL,
	rank            INTEGER NOT NULL,
	document_scheme TEXT NOT NULL,
	query_scheme    TEXT NOT NULL,
	stemming        BOOLEAN NOT NULL,
	map_score       DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, corpus, document_scheme, query_scheme, stemming)
)`

// SQLStore keeps every ranked record of every run in scheme_results.
type SQLStore struct {
	client *database.Client
}

// NewSQLStore creates the results table if needed.
func NewSQLStore(ctx context.Context, client *database.Client) (*SQLStore, error) {
	if _, err := client.DB.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("creating scheme_results: %w", err)
	}
	return &SQLStore{client: client}, nil
}

func (s *SQLStore) Name() string { return "sql" }

// Emit inserts all records of run in one transaction.
func (s *SQLStore) Emit(ctx context.Context, run Run) error {
	query := s.client.Rebind(`INSERT INTO scheme_results
		(run_id, started_at, corpus, rank, document_scheme, query_scheme, stemming, map_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	started := run.StartedAt.UTC().Format(time.RFC3339Nano)
	return s.client.InTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()
		for _, row := range Rows(run) {
			if _, err := stmt.ExecContext(ctx,
				row.RunID, started, row.Corpus, row.Rank,
				row.DocumentScheme, row.QueryScheme, row.Stemming, row.MAP,
			); err != nil {
				return fmt.Errorf("inserting %s %s.%s: %w", row.Corpus, row.DocumentScheme, row.QueryScheme, err)
			}
		}
		return nil
	})
}

// Best returns the top limit rows of corpus for runID by rank.
func (s *SQLStore) Best(ctx context.Context, runID, corpus string, limit int) ([]Row, error) {
	query := s.client.Rebind(`SELECT run_id, corpus, rank, document_scheme, query_scheme, stemming, map_score
		FROM scheme_results
		WHERE run_id = ? AND corpus = ?
		ORDER BY rank
		LIMIT ?`)
	rows, err := s.client.DB.QueryContext(ctx, query, runID, corpus, limit)
	if err != nil {
		return nil, fmt.Errorf("querying scheme_results: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.RunID, &r.Corpus, &r.Rank, &r.DocumentScheme, &r.QueryScheme, &r.Stemming, &r.MAP); err != nil {
			return nil, fmt.Errorf("scanning scheme_results: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) Close() error {
	return s.client.Close()
}
