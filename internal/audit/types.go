// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package audit

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

type EventType string

const (
	EventTypeAuthSuccess EventType = "auth.success"
	EventTypeAuthFailure EventType = "auth.failure"
	EventTypeLogout      EventType = "auth.logout"
	EventTypeAuthzDenied EventType = "authz.denied"

	EventTypeMasterDataCreated EventType = "masterdata.created"
	EventTypeMasterDataUpdated EventType = "masterdata.updated"
	EventTypeMasterDataDeleted EventType = "masterdata.deleted"

	// EventTypeDataImport covers food composition imports, successful or not.
	EventTypeDataImport EventType = "data.import"
)

type Severity string

const (
	SeverityDebug    Severity = "debug"
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// severities is ordered from least to most severe.
var severities = []Severity{SeverityDebug, SeverityInfo, SeverityWarning, SeverityError, SeverityCritical}

// below reports whether s ranks under floor. Unknown severities rank as debug.
func (s Severity) below(floor Severity) bool {
	rank := func(v Severity) int { return max(slices.Index(severities, v), 0) }
	return rank(s) < rank(floor)
}

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Event is a single audit trail entry.
type Event struct {
	ID            string          `json:"id"`
	Timestamp     time.Time       `json:"timestamp"`
	Type          EventType       `json:"type"`
	Severity      Severity        `json:"severity"`
	Outcome       Outcome         `json:"outcome"`
	Actor         Actor           `json:"actor"`
	Target        *Target         `json:"target,omitempty"`
	Source        Source          `json:"source"`
	Action        string          `json:"action"`
	Description   string          `json:"description"`
	Metadata      json.RawMessage `json:"metadata,omitempty" swaggertype:"object"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	RequestID     string          `json:"request_id,omitempty"`
}

// Actor is who acted: a user by username, or the service itself.
type Actor struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"` // user or system
	Name       string   `json:"name,omitempty"`
	Roles      []string `json:"roles,omitempty"`
	SessionID  string   `json:"session_id,omitempty"`
	AuthMethod string   `json:"auth_method,omitempty"`
}

// Target is the record acted on. Type is an entity name such as raw_material.
type Target struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

type Source struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Store persists the audit trail. Get wraps ErrEventNotFound for unknown
// ids; Count ignores paging; Delete returns how many events it removed.
type Store interface {
	Save(ctx context.Context, event *Event) error
	Get(ctx context.Context, id string) (*Event, error)
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)
	Count(ctx context.Context, filter QueryFilter) (int64, error)
	Delete(ctx context.Context, olderThan time.Time) (int64, error)
}

// QueryFilter selects events. Zero fields do not constrain.
type QueryFilter struct {
	Types      []EventType `json:"types,omitempty"`
	Severities []Severity  `json:"severities,omitempty"`
	Outcomes   []Outcome   `json:"outcomes,omitempty"`

	ActorID    string `json:"actor_id,omitempty"`
	TargetID   string `json:"target_id,omitempty"`
	TargetType string `json:"target_type,omitempty"`
	SourceIP   string `json:"source_ip,omitempty"`
	RequestID  string `json:"request_id,omitempty"`

	// Inclusive bounds.
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// SearchText matches description or action, ignoring case.
	SearchText string `json:"search_text,omitempty"`

	Limit     int  `json:"limit,omitempty"`
	Offset    int  `json:"offset,omitempty"`
	OrderDesc bool `json:"order_desc,omitempty"`
}

// DefaultQueryFilter is the newest 100 events.
func DefaultQueryFilter() QueryFilter {
	return QueryFilter{
		Limit:     100,
		OrderDesc: true,
	}
}

// matches reports whether e satisfies every set field of f. Paging fields
// are ignored.
func (f *QueryFilter) matches(e *Event) bool {
	switch {
	case len(f.Types) > 0 && !slices.Contains(f.Types, e.Type),
		len(f.Severities) > 0 && !slices.Contains(f.Severities, e.Severity),
		len(f.Outcomes) > 0 && !slices.Contains(f.Outcomes, e.Outcome),
		f.ActorID != "" && e.Actor.ID != f.ActorID,
		f.SourceIP != "" && e.Source.IPAddress != f.SourceIP,
		f.RequestID != "" && e.RequestID != f.RequestID,
		f.StartTime != nil && e.Timestamp.Before(*f.StartTime),
		f.EndTime != nil && e.Timestamp.After(*f.EndTime):
		return false
	}
	if f.TargetID != "" || f.TargetType != "" {
		if e.Target == nil ||
			(f.TargetID != "" && e.Target.ID != f.TargetID) ||
			(f.TargetType != "" && e.Target.Type != f.TargetType) {
			return false
		}
	}
	if f.SearchText != "" {
		needle := strings.ToLower(f.SearchText)
		return strings.Contains(strings.ToLower(e.Description), needle) ||
			strings.Contains(strings.ToLower(e.Action), needle)
	}
	return true
}
