package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	activityapp "github.com/rukibhamz/erpsolution-sub000/internal/application/activity"
)

// ActivityQuery pages the activity trail of one entity
type ActivityQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200" example:"20"`
}

// ActivityEntryResponse is one recorded correction or workflow decision.
// Details is the typed event when the payload still decodes, otherwise the
// stored JSON as is.
type ActivityEntryResponse struct {
	EventID    uuid.UUID       `json:"event_id"`
	EventType  string          `json:"event_type" example:"PropertyStatusCorrected"`
	EntityType string          `json:"entity_type" example:"Property"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Summary    string          `json:"summary"`
	OccurredAt time.Time       `json:"occurred_at"`
	Decoded    bool            `json:"decoded"`
	Details    json.RawMessage `json:"details,omitempty" swaggertype:"object"`
}

// ToActivityEntryResponse renders a history item
func ToActivityEntryResponse(item activityapp.Item) ActivityEntryResponse {
	resp := ActivityEntryResponse{
		EventID:    item.EventID,
		EventType:  item.EventType,
		EntityType: item.EntityType,
		EntityID:   item.EntityID,
		Summary:    item.Summary,
		OccurredAt: item.OccurredAt,
	}
	if item.Event != nil {
		if data, err := json.Marshal(item.Event); err == nil {
			resp.Details = data
			resp.Decoded = true
			return resp
		}
	}
	if json.Valid(item.Payload) {
		resp.Details = item.Payload
	}
	return resp
}
