// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package audit

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/nutrimaster/internal/logging"
	"github.com/tomtom215/nutrimaster/internal/metrics"
	"github.com/tomtom215/nutrimaster/internal/models"
)

// Config holds configuration for the audit logger.
type Config struct {
	Enabled bool `json:"enabled"`

	// LogLevel is the minimum severity recorded.
	LogLevel Severity `json:"log_level"`

	// RetentionDays is how long Cleanup keeps events. Zero keeps them forever.
	RetentionDays int `json:"retention_days"`

	CleanupInterval time.Duration `json:"cleanup_interval"`

	// BufferSize is the number of events queued for the writer. Events
	// logged while the queue is full are dropped.
	BufferSize int `json:"buffer_size"`

	// LogToStdout mirrors every event into the application log.
	LogToStdout bool `json:"log_to_stdout"`
}

// DefaultConfig keeps info and above for 90 days.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		LogLevel:        SeverityInfo,
		RetentionDays:   90,
		CleanupInterval: 24 * time.Hour,
		BufferSize:      1000,
	}
}

// saveTimeout bounds a single store write.
const saveTimeout = 5 * time.Second

// Logger records audit events. Log only enqueues; a single writer
// goroutine persists events in order, so handlers never wait on the store.
type Logger struct {
	cfg     Config
	store   Store
	enabled atomic.Bool

	queue   chan *Event
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewLogger starts a logger writing to store. A nil config means
// DefaultConfig.
func NewLogger(store Store, config *Config) *Logger {
	cfg := *DefaultConfig()
	if config != nil {
		cfg = *config
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = SeverityInfo
	}

	l := &Logger{
		cfg:     cfg,
		store:   store,
		queue:   make(chan *Event, cfg.BufferSize),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	l.enabled.Store(cfg.Enabled)
	go l.write()
	return l
}

func (l *Logger) write() {
	defer close(l.stopped)
	for {
		select {
		case e := <-l.queue:
			l.persist(e)
		case <-l.quit:
			for len(l.queue) > 0 {
				l.persist(<-l.queue)
			}
			return
		}
	}
}

func (l *Logger) persist(e *Event) {
	if l.cfg.LogToStdout {
		if data, err := json.Marshal(e); err == nil {
			logging.Info().RawJSON("audit", data).Msg("Audit event")
		}
	}
	if l.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := l.store.Save(ctx, e); err != nil {
		logging.Error().Err(err).Str("event_id", e.ID).Msg("Failed to save audit event")
	}
}

// Log queues event, filling in ID and Timestamp when unset. Events below
// the configured severity, events logged while disabled or after Close,
// and events that find the queue full are discarded.
func (l *Logger) Log(event *Event) {
	if event == nil || !l.enabled.Load() {
		return
	}
	if event.Severity.below(l.cfg.LogLevel) {
		return
	}
	select {
	case <-l.quit:
		return
	default:
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	select {
	case l.queue <- event:
	default:
		metrics.AuditEventsDropped.Inc()
		logging.Warn().Str("type", string(event.Type)).Msg("Audit queue full, event dropped")
	}
}

// Close flushes queued events and stops the writer. Later calls return
// immediately.
func (l *Logger) Close() error {
	l.once.Do(func() { close(l.quit) })
	<-l.stopped
	return nil
}

// SetEnabled switches recording on or off at runtime.
func (l *Logger) SetEnabled(enabled bool) { l.enabled.Store(enabled) }

func (l *Logger) Enabled() bool { return l.enabled.Load() }

// CleanupInterval is how often Cleanup should be scheduled.
func (l *Logger) CleanupInterval() time.Duration { return l.cfg.CleanupInterval }

// Cleanup deletes events older than the retention window and returns how
// many went. With retention disabled it does nothing.
func (l *Logger) Cleanup(ctx context.Context) (int64, error) {
	if l.cfg.RetentionDays <= 0 || l.store == nil {
		return 0, nil
	}
	n, err := l.store.Delete(ctx, time.Now().AddDate(0, 0, -l.cfg.RetentionDays))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logging.Info().Int64("deleted", n).Int("retention_days", l.cfg.RetentionDays).Msg("Audit retention cleanup")
	}
	return n, nil
}

var errNoStore = errors.New("audit store not configured")

func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	if l.store == nil {
		return nil, errNoStore
	}
	return l.store.Query(ctx, filter)
}

func (l *Logger) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	if l.store == nil {
		return 0, errNoStore
	}
	return l.store.Count(ctx, filter)
}

func (l *Logger) Get(ctx context.Context, id string) (*Event, error) {
	if l.store == nil {
		return nil, ErrEventNotFound
	}
	return l.store.Get(ctx, id)
}

// newEvent fills the request identifiers carried by ctx.
func newEvent(ctx context.Context, typ EventType, severity Severity, outcome Outcome) *Event {
	return &Event{
		Type:          typ,
		Severity:      severity,
		Outcome:       outcome,
		RequestID:     logging.RequestIDFromContext(ctx),
		CorrelationID: logging.CorrelationIDFromContext(ctx),
	}
}

//nolint:gocritic // hugeParam: Actor passed by value for API simplicity
func (l *Logger) LogAuthSuccess(ctx context.Context, actor Actor, source Source) {
	e := newEvent(ctx, EventTypeAuthSuccess, SeverityInfo, OutcomeSuccess)
	e.Actor, e.Source = actor, source
	e.Action = "authenticate"
	e.Description = "User authenticated successfully"
	e.Metadata = metadata(map[string]any{"method": actor.AuthMethod})
	l.Log(e)
}

func (l *Logger) LogAuthFailure(ctx context.Context, username string, source Source, reason string) {
	e := newEvent(ctx, EventTypeAuthFailure, SeverityWarning, OutcomeFailure)
	e.Actor = Actor{ID: username, Type: "user", Name: username}
	e.Source = source
	e.Action = "authenticate"
	e.Description = "Authentication failed: " + reason
	e.Metadata = metadata(map[string]any{"reason": reason})
	l.Log(e)
}

//nolint:gocritic // hugeParam: Actor passed by value for API simplicity
func (l *Logger) LogLogout(ctx context.Context, actor Actor, source Source) {
	e := newEvent(ctx, EventTypeLogout, SeverityInfo, OutcomeSuccess)
	e.Actor, e.Source = actor, source
	e.Action = "logout"
	e.Description = "User logged out"
	if actor.SessionID != "" {
		e.Target = &Target{ID: actor.SessionID, Type: "session"}
	}
	l.Log(e)
}

// LogAuthzDenied records a policy denial of action on the route object.
//
//nolint:gocritic // hugeParam: Actor passed by value for API simplicity
func (l *Logger) LogAuthzDenied(ctx context.Context, actor Actor, source Source, object, action string) {
	e := newEvent(ctx, EventTypeAuthzDenied, SeverityWarning, OutcomeFailure)
	e.Actor, e.Source = actor, source
	e.Action = "authorize"
	e.Target = &Target{ID: object, Type: "resource"}
	e.Description = "Authorization denied for " + action + " on " + object
	e.Metadata = metadata(map[string]any{"resource": object, "requested_action": action})
	l.Log(e)
}

// LogImport records a food composition import into materialID. A non-nil
// importErr makes it a warning with a failure outcome.
//
//nolint:gocritic // hugeParam: Actor passed by value for API simplicity
func (l *Logger) LogImport(ctx context.Context, actor Actor, source Source, materialID, foodID string, imported int, importErr error) {
	e := newEvent(ctx, EventTypeDataImport, SeverityInfo, OutcomeSuccess)
	e.Actor, e.Source = actor, source
	e.Action = "import"
	e.Target = &Target{ID: materialID, Type: models.EntityRawMaterial}
	e.Description = "Imported food composition " + foodID
	e.Metadata = metadata(map[string]any{"food_id": foodID, "nutrients_count": imported})
	if importErr != nil {
		e.Severity, e.Outcome = SeverityWarning, OutcomeFailure
		e.Description = "Food composition import failed: " + importErr.Error()
	}
	l.Log(e)
}

var changeEventTypes = map[string]EventType{
	models.ActionCreated: EventTypeMasterDataCreated,
	models.ActionUpdated: EventTypeMasterDataUpdated,
	models.ActionDeleted: EventTypeMasterDataDeleted,
}

// HandleChangeEvent records a master data change published on the event
// bus. It has the events.Handler signature and never fails.
func (l *Logger) HandleChangeEvent(_ context.Context, change *models.ChangeEvent) error {
	if change == nil {
		return nil
	}
	typ, ok := changeEventTypes[change.Action]
	if !ok {
		logging.Debug().Str("action", change.Action).Msg("Change event with unknown action not audited")
		return nil
	}

	actor := SystemActor()
	if change.Actor != "" {
		actor = Actor{ID: change.Actor, Type: "user", Name: change.Actor}
	}
	l.Log(&Event{
		Timestamp:     change.Timestamp,
		Type:          typ,
		Severity:      SeverityInfo,
		Outcome:       OutcomeSuccess,
		Actor:         actor,
		Target:        &Target{ID: change.EntityID, Type: change.Entity, Name: change.Code},
		Action:        change.Action,
		Description:   strings.ReplaceAll(change.Entity, "_", " ") + " " + change.Action,
		Metadata:      metadata(map[string]any{"change_id": change.ID}),
		CorrelationID: change.ID,
		RequestID:     change.RequestID,
	})
	return nil
}

func metadata(fields map[string]any) json.RawMessage {
	data, err := json.Marshal(fields)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}

// SourceFromRequest reads the client address of r: the first
// X-Forwarded-For hop, then X-Real-IP, then the socket peer.
func SourceFromRequest(r *http.Request) Source {
	src := Source{UserAgent: r.UserAgent()}
	switch {
	case r.Header.Get("X-Forwarded-For") != "":
		first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
		src.IPAddress = strings.TrimSpace(first)
	case r.Header.Get("X-Real-IP") != "":
		src.IPAddress = strings.TrimSpace(r.Header.Get("X-Real-IP"))
	default:
		src.IPAddress = r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			src.IPAddress = host
		}
	}
	return src
}

// ActorFromUser describes an authenticated user.
func ActorFromUser(id, name string, roles []string, authMethod, sessionID string) Actor {
	return Actor{ID: id, Type: "user", Name: name, Roles: roles, AuthMethod: authMethod, SessionID: sessionID}
}

// SystemActor is the service itself, used for unattributed changes.
func SystemActor() Actor {
	return Actor{ID: "system", Type: "system", Name: "Nutrimaster"}
}
