package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/logger"
	"github.com/rukibhamz/erpsolution-sub000/internal/interfaces/http/dto"
	"github.com/rukibhamz/erpsolution-sub000/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

func newTestContext(method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "")
	assert.Empty(t, getRequestID(c))

	c.Set(logger.GinRequestIDKey, "req-1")
	assert.Equal(t, "req-1", getRequestID(c))
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "")

	h.Success(c, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandlerCreated(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodPost, "")

	h.Created(c, map[string]string{"id": "123"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandlerErrorMethods(t *testing.T) {
	h := &BaseHandler{}
	tests := []struct {
		name       string
		call       func(*gin.Context)
		wantStatus int
		wantCode   string
	}{
		{"bad request", func(c *gin.Context) { h.BadRequest(c, "bad") }, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"unauthorized", func(c *gin.Context) { h.Unauthorized(c, "who") }, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"forbidden", func(c *gin.Context) { h.Forbidden(c, "no") }, http.StatusForbidden, dto.ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "")
			c.Set(logger.GinRequestIDKey, "req-42")

			tt.call(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-42", resp.Error.RequestID)
		})
	}
}

func TestBaseHandlerHandleError(t *testing.T) {
	h := &BaseHandler{}
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped not found", fmt.Errorf("load lease: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"concurrency conflict", shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{"lock not acquired", shared.ErrLockNotAcquired, http.StatusConflict, dto.ErrCodeLocked},
		{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"lease overlap", shared.NewDomainError("LEASE_OVERLAP", "overlaps"), http.StatusConflict, dto.ErrCodeLeaseOverlap},
		{"unmapped invalid code", shared.NewDomainError("INVALID_RENT", "rent"), http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"plain error", errors.New("disk on fire"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestBaseHandlerHandleErrorHidesInternalCause(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "")

	h.HandleError(c, errors.New("password=hunter2"))

	assert.NotContains(t, w.Body.String(), "hunter2")
}

func TestBaseHandlerHandleErrorNil(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "")

	h.HandleError(c, nil)

	assert.Equal(t, 0, w.Body.Len())
}

func TestBaseHandlerBindJSON(t *testing.T) {
	type body struct {
		Reason string `json:"reason" binding:"max=5"`
	}
	h := &BaseHandler{}

	tests := []struct {
		name       string
		body       string
		optional   bool
		wantOK     bool
		wantStatus int
		wantCode   string
	}{
		{"valid", `{"reason":"dup"}`, false, true, 0, ""},
		{"empty optional", "", true, true, 0, ""},
		{"empty required", "", false, false, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"malformed", `{"reason":`, true, false, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"wrong type", `{"reason":12}`, false, false, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"validation", `{"reason":"far too long"}`, false, false, http.StatusBadRequest, dto.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodPost, tt.body)
			var b body

			ok := h.BindJSON(c, &b, tt.optional)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, 0, w.Body.Len())
				return
			}
			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestBaseHandlerPathID(t *testing.T) {
	h := &BaseHandler{}
	id := uuid.New()

	c, _ := newTestContext(http.MethodGet, "")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	got, ok := h.PathID(c)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	c, w := newTestContext(http.MethodGet, "")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	_, ok = h.PathID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, decodeResponse(t, w).Error.Code)
}

func TestBaseHandlerActorUUID(t *testing.T) {
	h := &BaseHandler{}
	actor := uuid.New()

	t.Run("uuid actor", func(t *testing.T) {
		c, _ := newTestContext(http.MethodPost, "")
		c.Set(logger.GinActorIDKey, actor.String())
		got, ok := h.ActorUUID(c)
		assert.True(t, ok)
		assert.Equal(t, actor, got)
	})

	t.Run("anonymous", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "")
		_, ok := h.ActorUUID(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non uuid actor", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "")
		c.Set(logger.GinActorIDKey, "scheduler")
		_, ok := h.ActorUUID(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
