// Copyright (c) 2026 Choice Properties. All rights reserved.

/*
Package audit records security-relevant authorization outcomes.

Denied property edits, blocked tenant modifications, and similar events are
persisted for later review by administrators. Recording is strictly
fire-and-forget: an audit failure is logged and dropped, never surfaced to
the request that triggered it: a broken audit trail must not turn into a
user-facing outage.
*/
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/choiceproperties-source/choice/internal/authz"
	"github.com/choiceproperties-source/choice/pkg/uuidv7"
)

// writeTimeout bounds each background insert so a wedged pool cannot pile
// up goroutines indefinitely.
const writeTimeout = 5 * time.Second

// Recorder persists [authz.SecurityEvent] rows to PostgreSQL.
//
// It implements [authz.SecurityAuditor].
type Recorder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRecorder constructs a Recorder writing through the given pool.
func NewRecorder(pool *pgxpool.Pool, logger *slog.Logger) *Recorder {
	return &Recorder{pool: pool, logger: logger}
}

// LogSecurityEvent persists the event asynchronously.
//
// The insert runs on its own goroutine with a detached context so it
// survives the originating request's cancellation. Errors are logged and
// swallowed.
func (r *Recorder) LogSecurityEvent(ctx context.Context, event authz.SecurityEvent) {
	go func() {
		insertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
		defer cancel()

		const query = `
			INSERT INTO core.securityevent
				(id, subjectid, kind, success, detail, role, path, method, createdat)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`

		_, err := r.pool.Exec(insertCtx, query,
			uuidv7.New(),
			event.SubjectID,
			event.Kind,
			event.Success,
			event.Detail,
			string(event.Role),
			event.Path,
			event.Method,
		)
		if err != nil {
			r.logger.ErrorContext(insertCtx, "security_audit_write_failed",
				slog.String("kind", event.Kind),
				slog.String("subject_id", event.SubjectID),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// SecurityEventRow is a persisted audit entry as read back for review.
type SecurityEventRow struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subjectId"`
	Kind      string    `json:"kind"`
	Success   bool      `json:"success"`
	Detail    string    `json:"detail"`
	Role      string    `json:"role"`
	Path      string    `json:"path"`
	Method    string    `json:"method"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecentEvents returns the newest audit entries, capped at limit. An
// empty kinds slice means no kind filter. Admin-only; the route is gated
// upstream.
func (r *Recorder) RecentEvents(ctx context.Context, limit int, kinds []string) ([]SecurityEventRow, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	const query = `
		SELECT id, subjectid, kind, success, detail, role, path, method, createdat
		FROM core.securityevent
		WHERE cardinality($2::text[]) = 0 OR kind = ANY($2)
		ORDER BY createdat DESC
		LIMIT $1`

	if kinds == nil {
		kinds = []string{}
	}

	rows, err := r.pool.Query(ctx, query, limit, kinds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]SecurityEventRow, 0, limit)
	for rows.Next() {
		var row SecurityEventRow
		if err := rows.Scan(
			&row.ID, &row.SubjectID, &row.Kind, &row.Success,
			&row.Detail, &row.Role, &row.Path, &row.Method, &row.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, row)
	}

	return events, rows.Err()
}
