package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	activityapp "github.com/rukibhamz/erpsolution-sub000/internal/application/activity"
	"github.com/rukibhamz/erpsolution-sub000/internal/interfaces/http/dto"
)

// HistoryService reads the activity trail
type HistoryService interface {
	History(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]activityapp.Item, error)
}

// ActivityHandler serves the activity trail
type ActivityHandler struct {
	BaseHandler
	history HistoryService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(history HistoryService) *ActivityHandler {
	return &ActivityHandler{history: history}
}

// EntityHistory godoc
// @ID           entityActivity
// @Summary      List the activity of one entity
// @Description  Returns the recorded corrections and workflow decisions for an entity, newest first.
// @Tags         activity
// @Produce      json
// @Param        entity_type path string true "Entity type" Enums(Property, Lease, Account, Transaction, JournalEntry, AuditRun)
// @Param        id path string true "Entity ID" format(uuid)
// @Param        limit query int false "Maximum entries" minimum(1) maximum(200)
// @Success      200 {object} APIResponse[[]dto.ActivityEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /activity/{entity_type}/{id} [get]
func (h *ActivityHandler) EntityHistory(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var q dto.ActivityQuery
	if !h.BindQuery(c, &q) {
		return
	}

	items, err := h.history.History(c.Request.Context(), c.Param("entity_type"), id, q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]dto.ActivityEntryResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.ToActivityEntryResponse(item))
	}
	h.Success(c, out)
}
