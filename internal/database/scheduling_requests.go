package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SchedulingRequest is the stored outcome of one scheduling pipeline run.
type SchedulingRequest struct {
	ID                  int64      `json:"id"`
	RawText             string     `json:"raw_text"`
	ResolvedTime        *time.Time `json:"resolved_time,omitempty"`
	DurationMinutes     int        `json:"duration_minutes"`
	MeetingKind         string     `json:"meeting_kind"`
	AttendeeName        string     `json:"attendee_name,omitempty"`
	AttendeeEmail       string     `json:"attendee_email"`
	State               string     `json:"state"`
	EventID             string     `json:"event_id,omitempty"`
	AlternativesOffered int        `json:"alternatives_offered"`
	Error               string     `json:"error,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

const defaultRequestListLimit = 50

// RecordSchedulingRequest inserts req and fills in its ID and CreatedAt.
func (d *DB) RecordSchedulingRequest(ctx context.Context, req *SchedulingRequest) error {
	var resolved any
	if req.ResolvedTime != nil {
		resolved = req.ResolvedTime.UTC()
	}

	result, err := d.ExecContext(ctx, `
		INSERT INTO scheduling_requests (
			raw_text, resolved_time, duration_minutes, meeting_kind, attendee_name,
			attendee_email, state, event_id, alternatives_offered, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		req.RawText, resolved, req.DurationMinutes, req.MeetingKind, req.AttendeeName,
		req.AttendeeEmail, req.State, nullString(req.EventID), req.AlternativesOffered, nullString(req.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to record scheduling request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get scheduling request id: %w", err)
	}

	req.ID = id
	req.CreatedAt = time.Now()
	return nil
}

// ListSchedulingRequests returns the most recent runs, newest first.
func (d *DB) ListSchedulingRequests(ctx context.Context, limit int) ([]SchedulingRequest, error) {
	if limit <= 0 {
		limit = defaultRequestListLimit
	}

	rows, err := d.QueryContext(ctx, `
		SELECT id, raw_text, resolved_time, duration_minutes, meeting_kind, attendee_name,
			attendee_email, state, event_id, alternatives_offered, error, created_at
		FROM scheduling_requests
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduling requests: %w", err)
	}
	defer rows.Close()

	requests := []SchedulingRequest{}
	for rows.Next() {
		req, err := scanSchedulingRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduling request: %w", err)
		}
		requests = append(requests, *req)
	}

	return requests, rows.Err()
}

// CountSchedulingRequestsByState returns how many runs ended in each state.
func (d *DB) CountSchedulingRequestsByState(ctx context.Context) (map[string]int, error) {
	rows, err := d.QueryContext(ctx, `SELECT state, COUNT(*) FROM scheduling_requests GROUP BY state`)
	if err != nil {
		return nil, fmt.Errorf("failed to count scheduling requests: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("failed to scan state count: %w", err)
		}
		counts[state] = n
	}
	return counts, rows.Err()
}

// ClearSchedulingRequests empties the request log.
func (d *DB) ClearSchedulingRequests(ctx context.Context) error {
	if _, err := d.ExecContext(ctx, `DELETE FROM scheduling_requests`); err != nil {
		return fmt.Errorf("failed to clear scheduling requests: %w", err)
	}
	return nil
}

type requestScanner interface {
	Scan(dest ...any) error
}

func scanSchedulingRequest(scanner requestScanner) (*SchedulingRequest, error) {
	var req SchedulingRequest
	var resolved sql.NullTime
	var eventID, errText sql.NullString

	err := scanner.Scan(
		&req.ID, &req.RawText, &resolved, &req.DurationMinutes, &req.MeetingKind, &req.AttendeeName,
		&req.AttendeeEmail, &req.State, &eventID, &req.AlternativesOffered, &errText, &req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if resolved.Valid {
		t := resolved.Time
		req.ResolvedTime = &t
	}
	req.EventID = eventID.String
	req.Error = errText.String
	return &req, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
