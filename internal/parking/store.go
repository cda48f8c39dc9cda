package parking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SnapshotStore persists the last session list so a restart can show the
// lot before the backend answers.
type SnapshotStore interface {
	Save(ctx context.Context, sessions []Session, source Source, at time.Time) error
	Load(ctx context.Context) (CacheState, error)
}

// SQLiteSnapshotStore implements SnapshotStore on the session_snapshot
// table.
type SQLiteSnapshotStore struct {
	db *sql.DB
}

// NewSQLiteSnapshotStore creates a store backed by db. The schema must
// already be migrated.
func NewSQLiteSnapshotStore(db *sql.DB) *SQLiteSnapshotStore {
	return &SQLiteSnapshotStore{db: db}
}

// Save replaces the stored snapshot with sessions.
func (s *SQLiteSnapshotStore) Save(ctx context.Context, sessions []Session, source Source, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting snapshot transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM session_snapshot"); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO session_snapshot
			(position, session_id, plate, status, spot, previous_spot, entry_time, park_time, exit_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing snapshot insert: %w", err)
	}
	defer stmt.Close()

	for i, sess := range sessions {
		if _, err := stmt.ExecContext(ctx,
			i,
			sess.SessionID,
			sess.Plate,
			sess.Status,
			nullInt(sess.Spot),
			nullInt(sess.PreviousSpot),
			nullString(sess.EntryTime),
			nullString(sess.ParkTime),
			nullString(sess.ExitTime),
		); err != nil {
			return fmt.Errorf("inserting session %d: %w", sess.SessionID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (id, saved_at, source) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at, source = excluded.source`,
		at.UTC().Format(time.RFC3339Nano), string(source),
	); err != nil {
		return fmt.Errorf("updating snapshot meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or ErrSnapshotNotFound if nothing has
// been saved.
func (s *SQLiteSnapshotStore) Load(ctx context.Context) (CacheState, error) {
	var (
		savedAt string
		source  string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT saved_at, source FROM snapshot_meta WHERE id = 1",
	).Scan(&savedAt, &source)
	if errors.Is(err, sql.ErrNoRows) {
		return CacheState{}, ErrSnapshotNotFound
	}
	if err != nil {
		return CacheState{}, fmt.Errorf("querying snapshot meta: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, plate, status, spot, previous_spot, entry_time, park_time, exit_time
		FROM session_snapshot ORDER BY position`)
	if err != nil {
		return CacheState{}, fmt.Errorf("querying snapshot: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var (
			sess                        Session
			spot, prev                  sql.NullInt64
			entryTime, parkTime, exitTm sql.NullString
		)
		if err := rows.Scan(&sess.SessionID, &sess.Plate, &sess.Status, &spot, &prev, &entryTime, &parkTime, &exitTm); err != nil {
			return CacheState{}, fmt.Errorf("scanning snapshot row: %w", err)
		}
		if spot.Valid {
			sess.Spot = IntPtr(int(spot.Int64))
		}
		if prev.Valid {
			sess.PreviousSpot = IntPtr(int(prev.Int64))
		}
		sess.EntryTime = entryTime.String
		sess.ParkTime = parkTime.String
		sess.ExitTime = exitTm.String
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return CacheState{}, fmt.Errorf("iterating snapshot: %w", err)
	}

	at, _ := time.Parse(time.RFC3339Nano, savedAt) //nolint:errcheck // format written by Save
	return CacheState{
		Sessions:  sessions,
		Source:    Source(source),
		UpdatedAt: at,
	}, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
