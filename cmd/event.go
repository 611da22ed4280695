package cmd

import (
	"context"
	"log/slog"

	"github.com/mfadhilr/office-management/internal/core/events"
)

// registerEventHandlers attaches the audit-log subscribers. Domain services
// publish fire-and-forget; everything lands in the structured log for now.
func registerEventHandlers(bus *events.EventBus, log *slog.Logger) {
	audit := func(ctx context.Context, event events.Event) error {
		log.InfoContext(ctx, "domain event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	}

	for _, eventType := range []string{
		events.EventLeaveApproved,
		events.EventLeaveRejected,
		events.EventRequestIssued,
		events.EventOrderReceived,
		events.EventTaskTransitioned,
		events.EventAttendanceImport,
		events.EventEmployeeResigned,
	} {
		bus.Subscribe(eventType, audit)
	}
}
