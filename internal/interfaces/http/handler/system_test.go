package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler("reconcile", "1.0.0", nil)
	c, w := newTestContext(http.MethodGet, "")

	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestSystemHandler_Ready(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]ReadinessCheck
		wantStatus int
		wantChecks map[string]string
	}{
		{"no checks", nil, http.StatusOK, map[string]string{}},
		{"all pass", map[string]ReadinessCheck{"database": ok, "redis": ok}, http.StatusOK,
			map[string]string{"database": "ok", "redis": "ok"}},
		{"one fails", map[string]ReadinessCheck{"database": ok, "redis": down}, http.StatusServiceUnavailable,
			map[string]string{"database": "ok", "redis": "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler("reconcile", "1.0.0", tt.checks)
			c, w := newTestContext(http.MethodGet, "")

			h.Ready(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if len(tt.wantChecks) == 0 {
				assert.Empty(t, resp.Checks)
			} else {
				assert.Equal(t, tt.wantChecks, resp.Checks)
			}
		})
	}
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("reconcile", "2.0.1", nil)
	h.SetEndpoints([]string{"POST /api/v1/reconciliation/audit"})
	c, w := newTestContext(http.MethodGet, "")

	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data SystemInfoResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "reconcile", resp.Data.Name)
	assert.Equal(t, "2.0.1", resp.Data.Version)
	assert.NotEmpty(t, resp.Data.GoVersion)
	assert.Equal(t, []string{"POST /api/v1/reconciliation/audit"}, resp.Data.Endpoints)
}

var _ gin.HandlerFunc = (&SystemHandler{}).Health
