package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/logger"
	"github.com/rukibhamz/erpsolution-sub000/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// CapabilityConfig holds configuration for capability middleware
type CapabilityConfig struct {
	Authorizer shared.Authorizer
	Logger     *zap.Logger
}

// RequireCapability lets the request through only when the authenticated
// actor holds capability. Anonymous requests get 401, denied actors 403.
// Approval routes do not use it: the approval workflow authorizes itself
// and reports a denial as a failed result.
func RequireCapability(cfg CapabilityConfig, capability shared.Capability) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		requestID := c.GetString(logger.GinRequestIDKey)
		actorID := GetActorID(c)
		if actorID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", requestID))
			return
		}

		allowed, err := cfg.Authorizer.Can(c.Request.Context(), actorID, capability)
		if err != nil {
			log.Error("Capability check failed",
				zap.String("actor_id", actorID),
				zap.String("capability", string(capability)),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "Authorization is unavailable", requestID))
			return
		}
		if !allowed {
			log.Warn("Capability denied",
				zap.String("actor_id", actorID),
				zap.String("capability", string(capability)),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Missing capability "+string(capability), requestID))
			return
		}
		c.Next()
	}
}
