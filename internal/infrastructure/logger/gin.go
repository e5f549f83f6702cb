package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Gin context keys shared with the HTTP middleware.
const (
	GinRequestIDKey = "request_id"
	GinActorIDKey   = "actor_id"
	ginLoggerKey    = "logger"
)

// AccessLogConfig tunes the request log.
type AccessLogConfig struct {
	// QuietPaths are logged at debug level unless they fail. Probes hit
	// these every few seconds.
	QuietPaths []string
	// SlowThreshold raises a successful request to warn level when it
	// takes longer. Zero disables it.
	SlowThreshold time.Duration
}

// DefaultAccessLogConfig keeps the health probes out of info logs.
func DefaultAccessLogConfig() AccessLogConfig {
	return AccessLogConfig{
		QuietPaths:    []string{"/health", "/ready", "/metrics"},
		SlowThreshold: 2 * time.Second,
	}
}

// GinMiddleware logs requests with DefaultAccessLogConfig.
func GinMiddleware(log *zap.Logger) gin.HandlerFunc {
	return AccessLog(log, DefaultAccessLogConfig())
}

// AccessLog writes one entry per request and binds a request-scoped logger
// to the gin context and the request context, so services called by a
// handler log under the same request_id.
func AccessLog(log *zap.Logger, cfg AccessLogConfig) gin.HandlerFunc {
	quiet := make(map[string]struct{}, len(cfg.QuietPaths))
	for _, p := range cfg.QuietPaths {
		quiet[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetString(GinRequestIDKey)

		reqLogger := log.With(zap.String("method", c.Request.Method), zap.String("path", c.Request.URL.Path))
		ctx := WithContext(c.Request.Context(), reqLogger)
		if requestID != "" {
			ctx = WithRequestID(ctx, requestID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Set(ginLoggerKey, reqLogger)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		fields := append(make([]zap.Field, 0, 9),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		)
		if route := c.FullPath(); route != "" {
			fields = append(fields, zap.String("route", route))
		}
		if requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}
		// The auth middleware runs after this one, so the actor is only known now.
		if actorID := c.GetString(GinActorIDKey); actorID != "" {
			fields = append(fields, zap.String("actor_id", actorID))
		}
		if query := c.Request.URL.RawQuery; query != "" {
			fields = append(fields, zap.String("query", query))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", strings.Join(c.Errors.Errors(), "; ")))
		}

		_, isQuiet := quiet[c.Request.URL.Path]
		level := accessLevel(status, latency, cfg.SlowThreshold, isQuiet)
		if level == zapcore.WarnLevel && status < http.StatusBadRequest {
			fields = append(fields, zap.Bool("slow", true))
		}
		if ce := reqLogger.Check(level, "HTTP request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func accessLevel(status int, latency, slow time.Duration, quiet bool) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	case slow > 0 && latency > slow:
		return zapcore.WarnLevel
	case quiet:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// Recovery turns a handler panic into a logged 500. respond writes the
// error body; nil aborts with an empty response.
func Recovery(log *zap.Logger, respond func(c *gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("Panic recovered",
					zap.String("request_id", c.GetString(GinRequestIDKey)),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", rec),
					zap.Stack("stacktrace"),
				)
				if respond == nil || c.Writer.Written() {
					c.AbortWithStatus(http.StatusInternalServerError)
					return
				}
				respond(c)
				c.Abort()
			}
		}()
		c.Next()
	}
}

// GetGinLogger returns the request-scoped logger, or a no-op logger outside
// AccessLog.
func GetGinLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Value(ginLoggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
