package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"verbatim/internal/taxonomy"
	"verbatim/internal/transcript"
)

// ErrNoSnapshot indicates the store holds no completed run yet.
var ErrNoSnapshot = errors.New("no corpus snapshot")

// Store persists corpus snapshots in SQLite. A file lock serializes writers
// so two pipeline runs never race on the same corpus.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	path string
}

// Open initializes or connects to the corpus database at path and acquires
// the writer lock. The parent directory is created when missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure corpus directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire corpus lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("corpus %s is locked by another verbatim process", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, lock: lock, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Close closes the database and releases the writer lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var dbErr error
	if s.db != nil {
		dbErr = s.db.Close()
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && dbErr == nil {
			dbErr = unlockErr
		}
	}
	return dbErr
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// SaveSnapshot persists one run's corpus, wholesale-replacing the previous
// snapshot inside a single transaction. A reader either sees the old corpus
// or the new one, never a mixture.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot Snapshot) error {
	if snapshot.RunID == "" {
		return errors.New("save snapshot: run id required")
	}
	createdAt := snapshot.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	diagnostics, err := json.Marshal(snapshot.Diagnostics)
	if err != nil {
		return fmt.Errorf("marshal diagnostics: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Superseded runs go away entirely; the corpus is a snapshot, not a log.
	if _, err := tx.ExecContext(ctx, "DELETE FROM runs"); err != nil {
		return fmt.Errorf("clear previous runs: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, created_at, source, quote_count, diagnostics_json, current)
         VALUES (?, ?, ?, ?, ?, 1)`,
		snapshot.RunID,
		createdAt.Format(time.RFC3339Nano),
		snapshot.Source,
		len(snapshot.Quotes),
		string(diagnostics),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, quote := range snapshot.Quotes {
		provenance, err := json.Marshal(quote.Provenance)
		if err != nil {
			return fmt.Errorf("marshal provenance for quote %s: %w", quote.ID, err)
		}
		alternatives, err := json.Marshal(quote.Alternatives)
		if err != nil {
			return fmt.Errorf("marshal alternatives for quote %s: %w", quote.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO quotes (
                id, run_id, session_id, speaker_id, start_ms, end_ms,
                text, sentiment, intensity, provenance_json, alternatives_json
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			quote.ID,
			snapshot.RunID,
			quote.SessionID,
			quote.SpeakerID,
			int64(quote.Start),
			int64(quote.End),
			quote.Text,
			string(quote.Sentiment),
			quote.Intensity,
			string(provenance),
			string(alternatives),
		); err != nil {
			return fmt.Errorf("insert quote %s: %w", quote.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Current loads the snapshot of the most recent completed run.
func (s *Store) Current(ctx context.Context) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT run_id, created_at, source, diagnostics_json FROM runs WHERE current = 1",
	)

	var snapshot Snapshot
	var createdAt string
	var diagnostics string
	if err := row.Scan(&snapshot.RunID, &createdAt, &snapshot.Source, &diagnostics); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("read current run: %w", err)
	}
	if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		snapshot.CreatedAt = parsed
	}
	if err := json.Unmarshal([]byte(diagnostics), &snapshot.Diagnostics); err != nil {
		return nil, fmt.Errorf("decode diagnostics: %w", err)
	}

	quotes, err := s.quotesForRun(ctx, snapshot.RunID)
	if err != nil {
		return nil, err
	}
	snapshot.Quotes = quotes
	return &snapshot, nil
}

func (s *Store) quotesForRun(ctx context.Context, runID string) ([]Quote, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, speaker_id, start_ms, end_ms, text, sentiment,
                intensity, provenance_json, alternatives_json
         FROM quotes WHERE run_id = ?
         ORDER BY session_id, start_ms, id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []Quote
	for rows.Next() {
		var quote Quote
		var start, end int64
		var sentiment string
		var provenance, alternatives string
		if err := rows.Scan(
			&quote.ID,
			&quote.SessionID,
			&quote.SpeakerID,
			&start,
			&end,
			&quote.Text,
			&sentiment,
			&quote.Intensity,
			&provenance,
			&alternatives,
		); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		quote.Start = transcript.Timecode(start)
		quote.End = transcript.Timecode(end)
		quote.Sentiment = taxonomy.Sentiment(sentiment)
		if err := json.Unmarshal([]byte(provenance), &quote.Provenance); err != nil {
			return nil, fmt.Errorf("decode provenance for quote %s: %w", quote.ID, err)
		}
		if alternatives != "" && alternatives != "null" {
			if err := json.Unmarshal([]byte(alternatives), &quote.Alternatives); err != nil {
				return nil, fmt.Errorf("decode alternatives for quote %s: %w", quote.ID, err)
			}
		}
		quotes = append(quotes, quote)
	}
	return quotes, rows.Err()
}
