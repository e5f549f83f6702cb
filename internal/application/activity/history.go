// Package activity reads back the trail of corrections and workflow
// decisions recorded by the event sink.
package activity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/application/audit"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/activity"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/property"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	DefaultLimit = 20
	MaxLimit     = 200
)

// EntityTypes lists the aggregates that write to the trail
var EntityTypes = []string{
	property.AggregateTypeProperty,
	property.AggregateTypeLease,
	ledger.AggregateTypeAccount,
	ledger.AggregateTypeTransaction,
	ledger.AggregateTypeJournalEntry,
	audit.AggregateTypeAuditRun,
}

// ErrUnknownEntityType is returned for an entity type outside EntityTypes
var ErrUnknownEntityType = shared.NewDomainError("UNKNOWN_ENTITY_TYPE", "unknown activity entity type")

// EventDecoder turns a stored payload back into its typed event
type EventDecoder interface {
	Deserialize(eventType string, data []byte) (shared.DomainEvent, error)
}

// Item is one trail entry. Event is nil when the payload could not be
// decoded, for example after an event type was retired.
type Item struct {
	activity.Entry
	Event shared.DomainEvent
}

// HistoryService lists the activity recorded for one entity
type HistoryService struct {
	repo    activity.Repository
	decoder EventDecoder
	logger  *zap.Logger
}

// NewHistoryService creates a HistoryService
func NewHistoryService(repo activity.Repository, decoder EventDecoder, log *zap.Logger) *HistoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &HistoryService{repo: repo, decoder: decoder, logger: log.Named("activity_history")}
}

// History returns up to limit entries for the entity, newest first
func (s *HistoryService) History(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]Item, error) {
	if !knownEntityType(entityType) {
		return nil, ErrUnknownEntityType
	}
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	entries, err := s.repo.FindByEntity(ctx, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("load activity for %s %s: %w", entityType, entityID, err)
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		item := Item{Entry: entry}
		if s.decoder != nil && len(entry.Payload) > 0 {
			decoded, err := s.decoder.Deserialize(entry.EventType, entry.Payload)
			if err != nil {
				s.logger.Warn("undecodable activity payload",
					zap.String("event_type", entry.EventType),
					zap.String("event_id", entry.EventID.String()),
					zap.Error(err),
				)
			} else {
				item.Event = decoded
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func knownEntityType(t string) bool {
	for _, known := range EntityTypes {
		if known == t {
			return true
		}
	}
	return false
}
