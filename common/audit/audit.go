// Package audit records security-relevant gateway rejections: rejected
// paths, content-type spoof attempts, and backend stream failures.
// Every event is logged; persistence to Postgres is optional.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lumastream/mediagate/common/logger"
)

// Event kinds
const (
	EventPathRejected  = "path_rejected"
	EventTypeMismatch  = "type_mismatch"
	EventStreamFailure = "stream_failure"
)

// Event is a single security-relevant occurrence. The HTTP response
// never carries this detail; it exists for operators only.
type Event struct {
	ID        uuid.UUID
	Time      time.Time
	RequestID string
	Kind      string
	MediaKind string
	Path      string
	Reason    string
	Detail    string
}

// Recorder receives audit events. Implementations must never fail the
// request being audited; sink errors are logged and swallowed.
type Recorder interface {
	Record(ctx context.Context, ev Event)
}

// NewEvent builds an event with a fresh ID and timestamp
func NewEvent(kind, mediaKind, path, reason, detail, requestID string) Event {
	return Event{
		ID:        uuid.New(),
		Time:      time.Now().UTC(),
		RequestID: requestID,
		Kind:      kind,
		MediaKind: mediaKind,
		Path:      path,
		Reason:    reason,
		Detail:    detail,
	}
}

// LogRecorder emits events as structured warning logs
type LogRecorder struct {
	log *logger.Logger
}

// NewLogRecorder creates a log-backed recorder
func NewLogRecorder(log *logger.Logger) *LogRecorder {
	return &LogRecorder{log: log}
}

// Record logs the event
func (r *LogRecorder) Record(ctx context.Context, ev Event) {
	r.log.Warn("security event",
		"event_id", ev.ID,
		"kind", ev.Kind,
		"media_kind", ev.MediaKind,
		"path", ev.Path,
		"reason", ev.Reason,
		"detail", ev.Detail,
		"request_id", ev.RequestID,
	)
}

// Fanout dispatches each event to every recorder in order
type Fanout []Recorder

// Record dispatches to all recorders
func (f Fanout) Record(ctx context.Context, ev Event) {
	for _, r := range f {
		r.Record(ctx, ev)
	}
}
