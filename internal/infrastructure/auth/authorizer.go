package auth

import (
	"context"
	"slices"

	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
)

type claimsKey struct{}

// WithClaims stores validated token claims in ctx.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored by WithClaims.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}

// StaticAuthorizer answers from a fixed grant table keyed by actor ID.
type StaticAuthorizer struct {
	grants map[string][]string
}

// NewStaticAuthorizer builds an authorizer from the configured grants. The
// system actor always holds every capability.
func NewStaticAuthorizer(cfg config.AuthorizationConfig) *StaticAuthorizer {
	grants := make(map[string][]string, len(cfg.Grants)+1)
	for actor, caps := range cfg.Grants {
		grants[actor] = slices.Clone(caps)
	}
	if cfg.SystemActor != "" {
		grants[cfg.SystemActor] = []string{"*"}
	}
	return &StaticAuthorizer{grants: grants}
}

// Can implements shared.Authorizer
func (a *StaticAuthorizer) Can(_ context.Context, actorID string, capability shared.Capability) (bool, error) {
	caps, ok := a.grants[actorID]
	if !ok {
		return false, nil
	}
	return slices.Contains(caps, "*") || slices.Contains(caps, string(capability)), nil
}

// ClaimsAuthorizer answers from the bearer token attached to the request
// context. Calls without claims are delegated to fallback.
type ClaimsAuthorizer struct {
	fallback shared.Authorizer
}

// NewClaimsAuthorizer creates a claims authorizer. A nil fallback denies
// every call that carries no token.
func NewClaimsAuthorizer(fallback shared.Authorizer) *ClaimsAuthorizer {
	return &ClaimsAuthorizer{fallback: fallback}
}

// Can implements shared.Authorizer
func (a *ClaimsAuthorizer) Can(ctx context.Context, actorID string, capability shared.Capability) (bool, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		if a.fallback == nil {
			return false, nil
		}
		return a.fallback.Can(ctx, actorID, capability)
	}
	// A token only speaks for its own actor.
	if claims.ActorID != actorID {
		return false, nil
	}
	return claims.Has(capability), nil
}
