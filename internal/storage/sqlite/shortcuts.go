package sqlite

import (
	"context"
	"fmt"

	"github.com/codefathom/fathom/internal/shortcut"
)

// RecordShortcutUse appends one shortcut use to the session's history.
func (s *SQLiteStorage) RecordShortcutUse(ctx context.Context, sessionID string, use shortcut.UseRecord) error {
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}
	if use.Kind == "" {
		return fmt.Errorf("shortcut kind is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shortcut_uses (session_id, kind, used_at) VALUES (?, ?, ?)
	`, sessionID, string(use.Kind), use.UsedAt)
	if err != nil {
		return fmt.Errorf("failed to record shortcut use: %w", err)
	}
	return nil
}

// GetShortcutUses returns the session's shortcut use history in
// chronological order.
func (s *SQLiteStorage) GetShortcutUses(ctx context.Context, sessionID string) ([]shortcut.UseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, used_at FROM shortcut_uses
		WHERE session_id = ? ORDER BY used_at ASC, id ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shortcut uses: %w", err)
	}
	defer rows.Close()

	var out []shortcut.UseRecord
	for rows.Next() {
		var use shortcut.UseRecord
		var kind string
		if err := rows.Scan(&kind, &use.UsedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shortcut use: %w", err)
		}
		use.Kind = shortcut.Kind(kind)
		out = append(out, use)
	}
	return out, rows.Err()
}
