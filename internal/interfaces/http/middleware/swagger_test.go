package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIPAllowList(t *testing.T) {
	list, err := ParseIPAllowList([]string{"10.0.0.0/8", " 192.168.1.5 ", "", "2001:db8::/32"})
	require.NoError(t, err)
	assert.False(t, list.Empty())

	assert.True(t, list.Allows("10.20.30.40"))
	assert.True(t, list.Allows("192.168.1.5"))
	assert.True(t, list.Allows("::ffff:192.168.1.5"))
	assert.True(t, list.Allows("2001:db8::1"))
	assert.False(t, list.Allows("192.168.1.6"))
	assert.False(t, list.Allows("not-an-ip"))

	_, err = ParseIPAllowList([]string{"10.0.0.0/33"})
	assert.ErrorContains(t, err, "invalid CIDR")
	_, err = ParseIPAllowList([]string{"localhost"})
	assert.ErrorContains(t, err, "invalid IP")

	empty, err := ParseIPAllowList(nil)
	require.NoError(t, err)
	assert.True(t, empty.Empty())
}

func docsRouter(t *testing.T, cfg config.SwaggerConfig, auth gin.HandlerFunc) *gin.Engine {
	t.Helper()
	guard, err := DocsGuard(cfg, auth)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/swagger/*any", guard, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestDocsGuard(t *testing.T) {
	svc := newTestJWTService()
	strictJWT := JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{JWTService: svc})

	tests := []struct {
		name       string
		cfg        config.SwaggerConfig
		remoteAddr string
		withToken  bool
		want       int
	}{
		{"disabled", config.SwaggerConfig{Enabled: false}, "10.0.0.1:1000", false, http.StatusNotFound},
		{"open", config.SwaggerConfig{Enabled: true}, "10.0.0.1:1000", false, http.StatusOK},
		{"ip allowed by cidr", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, "10.1.2.3:1000", false, http.StatusOK},
		{"ip allowed exact", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.1.5"}}, "192.168.1.5:1000", false, http.StatusOK},
		{"ip denied", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, "172.16.0.1:1000", false, http.StatusForbidden},
		{"auth missing", config.SwaggerConfig{Enabled: true, RequireAuth: true}, "10.0.0.1:1000", false, http.StatusUnauthorized},
		{"auth present", config.SwaggerConfig{Enabled: true, RequireAuth: true}, "10.0.0.1:1000", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := docsRouter(t, tt.cfg, strictJWT)
			req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.withToken {
				req.Header.Set(AuthHeaderKey, BearerPrefix+issueTestToken(t, svc).Token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestDocsGuard_RejectsBadAllowList(t *testing.T) {
	_, err := DocsGuard(config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0/8"}}, nil)
	assert.ErrorContains(t, err, "swagger allowed_ips")
}
