package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/session"
)

// sessionSequence orders session_history rows. The counter lives in its
// own table so a number is never handed out twice, even after the history
// is cleared.
type sessionSequence struct {
	mu sync.Mutex
}

func createSequence(db *sql.DB) (*sessionSequence, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`); err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}
	if _, err := db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sessionSequence{}, nil
}

// take draws the next number inside tx; it is only consumed if tx commits.
func (*sessionSequence) take(ctx context.Context, tx *sql.Tx) (int64, error) {
	var n int64
	err := tx.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return n, nil
}

// historyRepo implements HistoryRepo on the session_history table.
type historyRepo struct {
	db  *sql.DB
	seq *sessionSequence
}

// History returns the session history backed by this store.
func (s *Store) History() HistoryRepo {
	return &historyRepo{db: s.db, seq: s.seq}
}

// AppendSession records an applied session. A session whose ID is already
// recorded is ignored and consumes no sequence number.
func (r *historyRepo) AppendSession(ctx context.Context, s session.Session) error {
	summary, err := json.Marshal(s.Metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}

	r.seq.mu.Lock()
	defer r.seq.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM session_history WHERE id = ?`, s.ID.String()).Scan(&exists)
	if err != nil {
		return fmt.Errorf("lookup session: %w", err)
	}
	if exists > 0 {
		return nil
	}

	seqNum, err := r.seq.take(ctx, tx)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO session_history
		(sequence, id, drill_id, difficulty, started_at, ended_at, score, stars, xp, metrics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum,
		s.ID.String(),
		string(s.DrillID),
		s.Difficulty,
		s.StartTime.UnixMilli(),
		s.EndTime.UnixMilli(),
		s.Score,
		s.Stars,
		s.XPAwarded,
		string(summary),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return tx.Commit()
}

// Recorded reports whether a session with id is in the history.
func (r *historyRepo) Recorded(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM session_history WHERE id = ?`, id.String()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("lookup session: %w", err)
	}
	return n > 0, nil
}

// QuerySessions returns recorded sessions, newest first.
func (r *historyRepo) QuerySessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error) {
	var (
		where []string
		args  []any
	)
	if opts.DrillID != "" {
		where = append(where, "drill_id = ?")
		args = append(args, string(opts.DrillID))
	}
	if opts.After > 0 {
		where = append(where, "sequence > ?")
		args = append(args, opts.After)
	}
	if !opts.From.IsZero() {
		where = append(where, "started_at >= ?")
		args = append(args, opts.From.UnixMilli())
	}

	query := `SELECT sequence, id, drill_id, difficulty, started_at, ended_at, score, stars, xp, metrics
		FROM session_history`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY sequence DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	return out, nil
}

func scanSession(rows *sql.Rows) (SessionRecord, error) {
	var (
		rec              SessionRecord
		id, drillID, raw string
		started, ended   int64
	)
	err := rows.Scan(&rec.Sequence, &id, &drillID, &rec.Difficulty,
		&started, &ended, &rec.Score, &rec.Stars, &rec.XPAwarded, &raw)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("scan session: %w", err)
	}

	key := fmt.Sprintf("session_history/%d", rec.Sequence)
	if rec.ID, err = uuid.Parse(id); err != nil {
		return SessionRecord{}, &CorruptRecordError{Key: key, Err: err}
	}
	if err := json.Unmarshal([]byte(raw), &rec.Metrics); err != nil {
		return SessionRecord{}, &CorruptRecordError{Key: key, Err: err}
	}
	rec.DrillID = drill.ID(drillID)
	rec.StartTime = time.UnixMilli(started)
	rec.EndTime = time.UnixMilli(ended)
	return rec, nil
}

// ClearHistory deletes every recorded session.
func (r *historyRepo) ClearHistory(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session_history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// DrillSummary aggregates recorded sessions of one drill.
type DrillSummary struct {
	DrillID   drill.ID
	Sessions  int
	BestScore int
	XP        int
	Duration  time.Duration
}

// Summaries aggregates the history per drill.
func (r *historyRepo) Summaries(ctx context.Context) ([]DrillSummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT drill_id, COUNT(*), MAX(score), SUM(xp), SUM(ended_at - started_at)
		FROM session_history GROUP BY drill_id ORDER BY drill_id`)
	if err != nil {
		return nil, fmt.Errorf("summarize sessions: %w", err)
	}
	defer rows.Close()

	var out []DrillSummary
	for rows.Next() {
		var (
			s     DrillSummary
			id    string
			durMs int64
		)
		if err := rows.Scan(&id, &s.Sessions, &s.BestScore, &s.XP, &durMs); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		s.DrillID = drill.ID(id)
		s.Duration = time.Duration(durMs) * time.Millisecond
		out = append(out, s)
	}
	return out, rows.Err()
}
