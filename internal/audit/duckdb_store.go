// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/nutrimaster/internal/logging"
)

// DuckDBStore keeps the audit trail in the audit_events table, next to the
// master data it describes.
type DuckDBStore struct {
	db *sql.DB
}

// NewDuckDBStore wraps db. CreateTable must run before first use.
func NewDuckDBStore(db *sql.DB) *DuckDBStore {
	return &DuckDBStore{db: db}
}

var auditDDL = []string{
	`CREATE TABLE IF NOT EXISTS audit_events (
		id VARCHAR PRIMARY KEY,
		ts TIMESTAMPTZ NOT NULL,
		type VARCHAR NOT NULL,
		severity VARCHAR NOT NULL,
		outcome VARCHAR NOT NULL,
		actor_id VARCHAR NOT NULL,
		actor_type VARCHAR NOT NULL,
		actor_name VARCHAR NOT NULL DEFAULT '',
		actor_roles JSON,
		actor_session_id VARCHAR NOT NULL DEFAULT '',
		actor_auth_method VARCHAR NOT NULL DEFAULT '',
		target_id VARCHAR,
		target_type VARCHAR,
		target_name VARCHAR,
		source_ip VARCHAR NOT NULL DEFAULT '',
		source_user_agent VARCHAR NOT NULL DEFAULT '',
		action VARCHAR NOT NULL,
		description VARCHAR NOT NULL,
		metadata JSON,
		correlation_id VARCHAR NOT NULL DEFAULT '',
		request_id VARCHAR NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS audit_events_ts ON audit_events(ts)`,
	`CREATE INDEX IF NOT EXISTS audit_events_target ON audit_events(target_type, target_id)`,
}

// CreateTable creates audit_events and its indexes when missing.
func (s *DuckDBStore) CreateTable(ctx context.Context) error {
	for _, stmt := range auditDDL {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create audit table: %w", err)
		}
	}
	return nil
}

// eventColumns is shared by INSERT and SELECT; eventRow.dest and eventArgs follow
// the same order.
const eventColumns = `id, ts, type, severity, outcome,
	actor_id, actor_type, actor_name, actor_roles, actor_session_id, actor_auth_method,
	target_id, target_type, target_name, source_ip, source_user_agent,
	action, description, metadata, correlation_id, request_id`

// selectEvents casts the JSON columns so they scan into strings.
const selectEvents = `SELECT id, ts, type, severity, outcome,
	actor_id, actor_type, actor_name, CAST(actor_roles AS VARCHAR), actor_session_id, actor_auth_method,
	target_id, target_type, target_name, source_ip, source_user_agent,
	action, description, CAST(metadata AS VARCHAR), correlation_id, request_id
	FROM audit_events`

func (s *DuckDBStore) Save(ctx context.Context, event *Event) error {
	if event == nil {
		return errors.New("audit: nil event")
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", strings.Count(eventColumns, ",")+1), ", ")
	query := "INSERT INTO audit_events (" + eventColumns + ") VALUES (" + placeholders + ")"
	if _, err := s.db.ExecContext(ctx, query, eventArgs(event)...); err != nil {
		return fmt.Errorf("save audit event %s: %w", event.ID, err)
	}
	return nil
}

func eventArgs(e *Event) []any {
	var roles, metadata, targetID, targetType, targetName sql.NullString
	if len(e.Actor.Roles) > 0 {
		if data, err := json.Marshal(e.Actor.Roles); err == nil {
			roles = sql.NullString{String: string(data), Valid: true}
		}
	}
	if len(e.Metadata) > 0 {
		metadata = sql.NullString{String: string(e.Metadata), Valid: true}
	}
	if e.Target != nil {
		targetID = sql.NullString{String: e.Target.ID, Valid: true}
		targetType = sql.NullString{String: e.Target.Type, Valid: true}
		targetName = sql.NullString{String: e.Target.Name, Valid: true}
	}
	return []any{
		e.ID, e.Timestamp, string(e.Type), string(e.Severity), string(e.Outcome),
		e.Actor.ID, e.Actor.Type, e.Actor.Name, roles, e.Actor.SessionID, e.Actor.AuthMethod,
		targetID, targetType, targetName, e.Source.IPAddress, e.Source.UserAgent,
		e.Action, e.Description, metadata, e.CorrelationID, e.RequestID,
	}
}

// eventRow receives one scanned audit_events row.
type eventRow struct {
	e                                Event
	typ, severity, outcome           string
	roles, metadata                  sql.NullString
	targetID, targetType, targetName sql.NullString
}

func (r *eventRow) dest() []any {
	return []any{
		&r.e.ID, &r.e.Timestamp, &r.typ, &r.severity, &r.outcome,
		&r.e.Actor.ID, &r.e.Actor.Type, &r.e.Actor.Name, &r.roles, &r.e.Actor.SessionID, &r.e.Actor.AuthMethod,
		&r.targetID, &r.targetType, &r.targetName, &r.e.Source.IPAddress, &r.e.Source.UserAgent,
		&r.e.Action, &r.e.Description, &r.metadata, &r.e.CorrelationID, &r.e.RequestID,
	}
}

func (r *eventRow) event() Event {
	e := r.e
	e.Type = EventType(r.typ)
	e.Severity = Severity(r.severity)
	e.Outcome = Outcome(r.outcome)
	if r.roles.Valid {
		if err := json.Unmarshal([]byte(r.roles.String), &e.Actor.Roles); err != nil {
			logging.Debug().Err(err).Str("event_id", e.ID).Msg("Unreadable actor roles in audit row")
		}
	}
	if r.targetID.Valid {
		e.Target = &Target{ID: r.targetID.String, Type: r.targetType.String, Name: r.targetName.String}
	}
	if r.metadata.Valid && r.metadata.String != "" {
		e.Metadata = json.RawMessage(r.metadata.String)
	}
	return e
}

func (s *DuckDBStore) Get(ctx context.Context, id string) (*Event, error) {
	var row eventRow
	err := s.db.QueryRowContext(ctx, selectEvents+" WHERE id = ?", id).Scan(row.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get audit event %s: %w", id, err)
	}
	e := row.event()
	return &e, nil
}

func (s *DuckDBStore) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	where, args := filterClause(filter)
	order := " ORDER BY ts, id"
	if filter.OrderDesc {
		order = " ORDER BY ts DESC, id"
	}
	query := selectEvents + where + order
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var row eventRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, row.event())
	}
	return events, rows.Err()
}

// Count ignores the filter's paging fields.
func (s *DuckDBStore) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	where, args := filterClause(filter)
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_events"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return n, nil
}

func (s *DuckDBStore) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM audit_events WHERE ts < ?", olderThan)
	if err != nil {
		return 0, fmt.Errorf("delete audit events: %w", err)
	}
	return res.RowsAffected()
}

// filterClause renders filter as a WHERE clause (with leading space) and
// its arguments. Empty fields do not constrain.
func filterClause(f QueryFilter) (string, []any) {
	var conds []string
	var args []any

	in := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		conds = append(conds, column+" IN ("+strings.TrimSuffix(strings.Repeat("?,", len(values)), ",")+")")
		for _, v := range values {
			args = append(args, v)
		}
	}
	eq := func(column, value string) {
		if value != "" {
			conds = append(conds, column+" = ?")
			args = append(args, value)
		}
	}

	in("type", stringsOf(f.Types))
	in("severity", stringsOf(f.Severities))
	in("outcome", stringsOf(f.Outcomes))
	eq("actor_id", f.ActorID)
	eq("target_id", f.TargetID)
	eq("target_type", f.TargetType)
	eq("source_ip", f.SourceIP)
	eq("request_id", f.RequestID)
	if f.StartTime != nil {
		conds = append(conds, "ts >= ?")
		args = append(args, *f.StartTime)
	}
	if f.EndTime != nil {
		conds = append(conds, "ts <= ?")
		args = append(args, *f.EndTime)
	}
	if f.SearchText != "" {
		conds = append(conds, "(description ILIKE ? OR action ILIKE ?)")
		pattern := "%" + f.SearchText + "%"
		args = append(args, pattern, pattern)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
