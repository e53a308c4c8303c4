package audit

import (
	"context"
	"time"

	"github.com/lumastream/mediagate/common/db"
	"github.com/lumastream/mediagate/common/logger"
)

// PostgresRecorder persists audit events for later analysis. Inserts
// are best-effort: a failed insert is logged but never fails the
// request that produced the event.
type PostgresRecorder struct {
	db  *db.DB
	log *logger.Logger
}

// NewPostgresRecorder creates a Postgres-backed recorder
func NewPostgresRecorder(db *db.DB, log *logger.Logger) *PostgresRecorder {
	return &PostgresRecorder{db: db, log: log}
}

// EnsureSchema creates the audit table if it does not exist.
// Run once at startup via the bootstrap DB init hook.
func EnsureSchema(ctx context.Context, db *db.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS gateway_audit_event (
			event_id    UUID PRIMARY KEY,
			recorded_at TIMESTAMPTZ NOT NULL,
			request_id  TEXT,
			kind        TEXT NOT NULL,
			media_kind  TEXT,
			path        TEXT,
			reason      TEXT,
			detail      TEXT
		)
	`
	_, err := db.Exec(ctx, query)
	return err
}

// Record inserts the event
func (r *PostgresRecorder) Record(ctx context.Context, ev Event) {
	// Detach from the request context so a client disconnect does not
	// lose the audit trail of its own rejection.
	insertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()

	query := `
		INSERT INTO gateway_audit_event (
			event_id, recorded_at, request_id, kind, media_kind, path, reason, detail
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := r.db.Exec(insertCtx, query,
		ev.ID,
		ev.Time,
		ev.RequestID,
		ev.Kind,
		ev.MediaKind,
		ev.Path,
		ev.Reason,
		ev.Detail,
	)
	if err != nil {
		r.log.Error("failed to persist audit event", "event_id", ev.ID, "kind", ev.Kind, "error", err)
	}
}
