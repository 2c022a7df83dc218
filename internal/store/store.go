// Package store archives completed simulation runs into SQLite. Archives
// are write-only history for later inspection; a run never resumes from
// stored state.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"herdsim/internal/engine"
	"herdsim/internal/stats"
)

// Open creates or opens a SQLite database at the given path with WAL mode enabled.
func Open(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return db, nil
}

// Migrate runs the schema creation SQL. Safe to call multiple times due to IF NOT EXISTS.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Record schema version 1 if not already present.
	_, err := db.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (1)`)
	if err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	return nil
}

// Store wraps the run-archive queries.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateRun inserts the run row and returns its generated id.
func (s *Store) CreateRun(seed int64, agentCount, horizon int, startState string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO runs (id, seed, agent_count, horizon, start_state)
		VALUES (?, ?, ?, ?, ?)`,
		id, seed, agentCount, horizon, startState,
	)
	if err != nil {
		return "", fmt.Errorf("creating run: %w", err)
	}
	return id, nil
}

// RecordPeriods appends period records for a run.
func (s *Store) RecordPeriods(runID string, records []engine.PeriodRecord) error {
	for _, rec := range records {
		_, err := s.db.Exec(`
			INSERT INTO run_periods (run_id, period, state, active_value)
			VALUES (?, ?, ?, ?)`,
			runID, rec.Period, rec.State.String(), rec.ActiveValue,
		)
		if err != nil {
			return fmt.Errorf("recording period %d: %w", rec.Period, err)
		}
	}
	return nil
}

// RecordSummary stores the final descriptive statistics for one agent
// group. mode is NULL when the group has no data or no unique mode.
func (s *Store) RecordSummary(runID, group string, sum stats.Summary) error {
	var mode sql.NullFloat64
	if sum.Mode.Unique {
		mode = sql.NullFloat64{Float64: sum.Mode.Value, Valid: true}
	}
	_, err := s.db.Exec(`
		INSERT INTO run_summaries (run_id, group_name, agent_count, mean, median, min, max, mode)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, group, sum.Count, sum.Mean, sum.Median, sum.Min, sum.Max, mode,
	)
	if err != nil {
		return fmt.Errorf("recording %s summary: %w", group, err)
	}
	return nil
}

// FinishRun stamps the run's completion time and final market index.
func (s *Store) FinishRun(runID string, marketIndex float64) error {
	_, err := s.db.Exec(`
		UPDATE runs SET finished_at = datetime('now'), final_index = ? WHERE id = ?`,
		marketIndex, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}
