package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Profiling label keys. All are bounded: route patterns, not raw paths.
const (
	ProfilingLabelRoute     = "route"
	ProfilingLabelMethod    = "method"
	ProfilingLabelOperation = "operation"
)

// Profiling tags CPU samples taken while a request runs with its route,
// method and reconciliation operation so Pyroscope can slice by endpoint.
// When the profiler is not running the labels are inert.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}
		labels := pyroscope.Labels(
			ProfilingLabelRoute, route,
			ProfilingLabelMethod, c.Request.Method,
			ProfilingLabelOperation, operationFromRoute(route),
		)
		pyroscope.TagWrapper(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// operationFromRoute names the reconciliation operation behind a route:
// "/api/v1/reconciliation/transactions/:id/approve" -> "transactions.approve"
func operationFromRoute(route string) string {
	var parts []string
	for _, seg := range strings.Split(route, "/") {
		switch {
		case seg == "", seg == "api", seg == "reconciliation", isVersionSegment(seg):
		case strings.HasPrefix(seg, ":"), strings.HasPrefix(seg, "*"):
		default:
			parts = append(parts, seg)
		}
	}
	if len(parts) == 0 {
		return "root"
	}
	return strings.Join(parts, ".")
}

func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
