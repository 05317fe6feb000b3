package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/codefathom/fathom/internal/storage"
	"github.com/codefathom/fathom/internal/workflow"
)

// CreateSession inserts a new session row with its initial checkpoint.
func (s *SQLiteStorage) CreateSession(ctx context.Context, rec *storage.SessionRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if err := rec.State.Validate(); err != nil {
		return fmt.Errorf("invalid session state: %w", err)
	}
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, actor, stage, view, focus_id, session_focus_kind, session_focus, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Actor, string(rec.State.Stage), string(rec.State.View), rec.State.FocusID,
		rec.Focus.Kind, rec.Focus.ID, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession loads a session and reconstructs its checkpointed position.
// The stage and view string values are part of the storage contract; a row
// that fails to round-trip is reported, never silently coerced.
func (s *SQLiteStorage) GetSession(ctx context.Context, id string) (*storage.SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, actor, stage, view, focus_id, session_focus_kind, session_focus, created_at, updated_at
		FROM sessions WHERE id = ?
	`, id)
	rec, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListSessions returns all sessions, most recently updated first.
func (s *SQLiteStorage) ListSessions(ctx context.Context) ([]*storage.SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor, stage, view, focus_id, session_focus_kind, session_focus, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []*storage.SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteSession removes a session and, via cascade, its shortcut uses.
func (s *SQLiteStorage) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session not found: %s", id)
	}
	return nil
}

// SaveCheckpoint persists the session's current position and focus.
func (s *SQLiteStorage) SaveCheckpoint(ctx context.Context, state workflow.WorkflowState, focus storage.FocusRef) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("refusing to checkpoint invalid state: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET stage = ?, view = ?, focus_id = ?, session_focus_kind = ?, session_focus = ?, updated_at = ?
		WHERE id = ?
	`, string(state.Stage), string(state.View), state.FocusID, focus.Kind, focus.ID, time.Now(), state.SessionID)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session not found: %s", state.SessionID)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanSession.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(sc scanner) (*storage.SessionRecord, error) {
	var rec storage.SessionRecord
	var stage, view string
	if err := sc.Scan(&rec.ID, &rec.Actor, &stage, &view, &rec.State.FocusID,
		&rec.Focus.Kind, &rec.Focus.ID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	parsedStage, err := workflow.ParseStage(stage)
	if err != nil {
		return nil, fmt.Errorf("session %s has a corrupt checkpoint: %w", rec.ID, err)
	}
	parsedView, err := workflow.ParseView(view)
	if err != nil {
		return nil, fmt.Errorf("session %s has a corrupt checkpoint: %w", rec.ID, err)
	}
	rec.State.Stage = parsedStage
	rec.State.View = parsedView
	rec.State.SessionID = rec.ID
	return &rec, nil
}
