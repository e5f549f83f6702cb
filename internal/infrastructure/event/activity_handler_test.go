package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/activity"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/property"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeActivityRepo struct {
	entries []activity.Entry
	err     error
}

func (r *fakeActivityRepo) Append(_ context.Context, entry activity.Entry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeActivityRepo) FindByEntity(_ context.Context, entityType string, entityID uuid.UUID, limit int) ([]activity.Entry, error) {
	var out []activity.Entry
	for _, e := range r.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestActivityLogHandler_RecordsDescribedEvents(t *testing.T) {
	repo := &fakeActivityRepo{}
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewActivityLogHandler(repo, nil, zap.NewNop()))

	p, err := property.NewProperty("P-7", "Unit 7", decimal.NewFromInt(900), testTime)
	require.NoError(t, err)
	evt := property.NewPropertyStatusCorrectedEvent(p, property.PropertyStatusOccupied, "no active lease", testTime)

	require.NoError(t, bus.Publish(context.Background(), evt))
	require.Len(t, repo.entries, 1)

	entry := repo.entries[0]
	assert.Equal(t, evt.EventID(), entry.EventID)
	assert.Equal(t, property.AggregateTypeProperty, entry.EntityType)
	assert.Equal(t, p.ID, entry.EntityID)
	assert.Equal(t, evt.Description(), entry.Summary)
	assert.True(t, entry.OccurredAt.Equal(testTime))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(entry.Payload, &payload))
	assert.Equal(t, "P-7", payload["property_code"])
	assert.Equal(t, "no active lease", payload["reason"])
}

func TestActivityLogHandler_FallsBackToEventType(t *testing.T) {
	repo := &fakeActivityRepo{}
	h := NewActivityLogHandler(repo, NewEventSerializer(), nil)

	require.NoError(t, h.Handle(context.Background(), newTestEvent("Plain")))
	require.Len(t, repo.entries, 1)
	assert.Equal(t, "Plain", repo.entries[0].Summary)
	assert.Nil(t, h.EventTypes())
}

func TestActivityLogHandler_RepositoryFailureIsCountedByBus(t *testing.T) {
	repo := &fakeActivityRepo{err: errors.New("db down")}
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewActivityLogHandler(repo, nil, nil))

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("LeaseExpired")))
	assert.Equal(t, int64(1), bus.Failures())
}
