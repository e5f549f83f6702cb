package event

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
)

// EventSerializer encodes domain events as JSON and decodes stored payloads
// back into the concrete event types registered for them.
type EventSerializer struct {
	mu        sync.RWMutex
	factories map[string]func() shared.DomainEvent
}

// NewEventSerializer creates an empty serializer
func NewEventSerializer() *EventSerializer {
	return &EventSerializer{factories: make(map[string]func() shared.DomainEvent)}
}

// Register binds eventType to the event struct E. Registering a type twice
// replaces the earlier binding.
//
//	event.Register[property.LeaseExpiredEvent](s, property.EventTypeLeaseExpired)
func Register[E any, PE interface {
	*E
	shared.DomainEvent
}](s *EventSerializer, eventType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factories[eventType] = func() shared.DomainEvent { return PE(new(E)) }
}

// Serialize encodes event to JSON
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", event.EventType(), err)
	}
	return data, nil
}

// Deserialize decodes data into a fresh instance of the type registered for eventType
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	factory, ok := s.factories[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	event := factory()
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("unmarshal event %s: %w", eventType, err)
	}
	if event.EventType() != eventType {
		return nil, fmt.Errorf("payload carries event type %q, stored as %q", event.EventType(), eventType)
	}
	return event, nil
}

// IsRegistered reports whether eventType can be decoded
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.factories[eventType]
	return ok
}

// RegisteredTypes returns the registered event types in sorted order
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, 0, len(s.factories))
	for t := range s.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
