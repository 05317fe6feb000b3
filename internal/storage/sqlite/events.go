package sqlite

import (
	"context"
	"fmt"

	"github.com/codefathom/fathom/internal/events"
	"github.com/codefathom/fathom/internal/workflow"
)

// StoreEvent appends a navigation event to the audit trail.
func (s *SQLiteStorage) StoreEvent(ctx context.Context, ev *events.NavigationEvent) error {
	if ev.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if !ev.Type.IsValid() {
		return fmt.Errorf("invalid event type: %s", ev.Type)
	}
	if !ev.Severity.IsValid() {
		return fmt.Errorf("invalid event severity: %s", ev.Severity)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO navigation_events (id, session_id, event_type, severity, message, stage, view, focus_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.SessionID, string(ev.Type), string(ev.Severity), ev.Message,
		string(ev.Stage), string(ev.View), ev.FocusID, ev.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to store event: %w", err)
	}
	return nil
}

// GetEvents queries the audit trail, newest first.
func (s *SQLiteStorage) GetEvents(ctx context.Context, filter events.EventFilter) ([]*events.NavigationEvent, error) {
	query := `
		SELECT id, session_id, event_type, severity, message, stage, view, focus_id, created_at
		FROM navigation_events WHERE 1=1
	`
	var args []interface{}
	if filter.SessionID != "" {
		query += " AND session_id = ?"
		args = append(args, filter.SessionID)
	}
	if filter.Type != "" {
		query += " AND event_type = ?"
		args = append(args, string(filter.Type))
	}
	if filter.Severity != "" {
		query += " AND severity = ?"
		args = append(args, string(filter.Severity))
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var out []*events.NavigationEvent
	for rows.Next() {
		var ev events.NavigationEvent
		var eventType, severity, stage, view string
		if err := rows.Scan(&ev.ID, &ev.SessionID, &eventType, &severity, &ev.Message,
			&stage, &view, &ev.FocusID, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Type = events.EventType(eventType)
		ev.Severity = events.EventSeverity(severity)
		ev.Stage = workflow.Stage(stage)
		ev.View = workflow.View(view)
		out = append(out, &ev)
	}
	return out, rows.Err()
}
