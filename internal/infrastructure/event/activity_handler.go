package event

import (
	"context"
	"fmt"

	"github.com/rukibhamz/erpsolution-sub000/internal/domain/activity"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ActivityLogHandler writes every published event to the activity trail.
// It subscribes to all event types.
type ActivityLogHandler struct {
	repo       activity.Repository
	serializer *EventSerializer
	logger     *zap.Logger
}

// NewActivityLogHandler creates the activity trail sink
func NewActivityLogHandler(repo activity.Repository, serializer *EventSerializer, log *zap.Logger) *ActivityLogHandler {
	if serializer == nil {
		serializer = NewEventSerializer()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ActivityLogHandler{repo: repo, serializer: serializer, logger: log.Named("activity_log")}
}

// EventTypes returns nil: the handler receives every event
func (h *ActivityLogHandler) EventTypes() []string {
	return nil
}

// Handle serializes event and appends it to the trail
func (h *ActivityLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	payload, err := h.serializer.Serialize(event)
	if err != nil {
		return err
	}
	entry := activity.FromEvent(event, payload)
	if err := h.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("append activity for %s: %w", event.EventType(), err)
	}
	logger.ForContext(ctx, h.logger).Debug("activity recorded",
		zap.String("event_type", entry.EventType),
		zap.String("entity_type", entry.EntityType),
		zap.String("entity_id", entry.EntityID.String()),
	)
	return nil
}

var _ shared.EventHandler = (*ActivityLogHandler)(nil)
