package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/ssriram1992/epecsolve/algorithms"
)

// Run is one recorded FindNashEq invocation.
type Run struct {
	RunID         uuid.UUID
	StartedAt     time.Time
	CountryCount  int
	Algorithm     algorithms.Kind
	Status        algorithms.Status
	Iterations    int
	MIPCalls      int
	Duration      time.Duration
	Err           string // empty unless the run returned an error
}

// Store wraps a SQLite-backed run-history table.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens (creating if absent) the SQLite database at path and applies
// the run-history schema. path may be ":memory:" for an ephemeral store.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: ping %s: %w", path, err)
	}

	s := &Store{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

		CREATE TABLE IF NOT EXISTS runs (
			run_id        TEXT PRIMARY KEY,
			started_at    TEXT NOT NULL,
			country_count INTEGER NOT NULL,
			algorithm     INTEGER NOT NULL,
			status        INTEGER NOT NULL,
			iterations    INTEGER NOT NULL DEFAULT 0,
			mip_calls     INTEGER NOT NULL DEFAULT 0,
			duration_ms   INTEGER NOT NULL,
			error         TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

		INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`)
	if err != nil {
		return fmt.Errorf("history: migrate: %w", err)
	}
	s.log.Debug().Msg("history: schema ready")

	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	return s.db.Close()
}

// Record inserts one completed run. The run's duration and iteration/MIP
// counters are taken as given from r; this package does not measure them.
func (s *Store) Record(ctx context.Context, r Run) error {
	if s.db == nil {
		return ErrNotOpen
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, started_at, country_count, algorithm, status, iterations, mip_calls, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID.String(),
		r.StartedAt.UTC().Format(time.RFC3339Nano),
		r.CountryCount,
		int(r.Algorithm),
		int(r.Status),
		r.Iterations,
		r.MIPCalls,
		r.Duration.Milliseconds(),
		r.Err,
	)
	if err != nil {
		return fmt.Errorf("history: record run %s: %w", r.RunID, err)
	}

	return nil
}

// Recent returns up to limit most-recent runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, started_at, country_count, algorithm, status, iterations, mip_calls, duration_ms, error
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r          Run
			runID      string
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&runID, &startedAt, &r.CountryCount, &r.Algorithm, &r.Status, &r.Iterations, &r.MIPCalls, &durationMS, &r.Err); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		id, err := uuid.Parse(runID)
		if err != nil {
			return nil, fmt.Errorf("history: parse run id %q: %w", runID, err)
		}
		ts, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("history: parse started_at %q: %w", startedAt, err)
		}
		r.RunID = id
		r.StartedAt = ts
		r.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, r)
	}

	return out, rows.Err()
}
