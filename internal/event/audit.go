package event

import (
	"context"
	"log/slog"
)

// AuditLogger mirrors every published event into the structured log. It
// is the only subscriber the server starts by default.
type AuditLogger struct {
	bus Bus
}

func NewAuditLogger(bus Bus) *AuditLogger {
	return &AuditLogger{bus: bus}
}

// Run consumes events until ctx is cancelled.
func (a *AuditLogger) Run(ctx context.Context) {
	events, unsubscribe := a.bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}

			attrs := []any{"event_id", e.ID, "type", string(e.Type), "user_id", e.UserID}
			if e.ActorID != "" {
				attrs = append(attrs, "actor_id", e.ActorID)
			}
			if e.Detail != "" {
				attrs = append(attrs, "detail", e.Detail)
			}
			slog.Info("audit", attrs...)
		}
	}
}
