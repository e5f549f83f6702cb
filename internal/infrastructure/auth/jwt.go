// Package auth validates bearer tokens for the HTTP surface and answers
// capability questions for the reconciliation services.
package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingActorID   = errors.New("missing actor_id in claims")
	ErrTokenRevoked     = errors.New("token has been revoked")
)

// Claims carries the acting identity and the capabilities it was granted.
type Claims struct {
	jwt.RegisteredClaims
	ActorID      string   `json:"actor_id"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// Has reports whether the token grants capability. "*" grants everything.
func (c *Claims) Has(capability shared.Capability) bool {
	return slices.Contains(c.Capabilities, "*") || slices.Contains(c.Capabilities, string(capability))
}

// IssuedToken is a freshly signed access token.
type IssuedToken struct {
	Token     string    `json:"access_token"`
	TokenID   string    `json:"token_id"`
	ExpiresAt time.Time `json:"expires_at"`
	TokenType string    `json:"token_type"` // Bearer
}

// JWTService signs and validates HS256 access tokens.
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	nowFn      func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	expiration := cfg.AccessTokenExpiration
	if expiration <= 0 {
		expiration = 15 * time.Minute
	}
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: expiration,
		issuer:     cfg.Issuer,
		nowFn:      time.Now,
	}
}

// Issue signs a token for actorID carrying capabilities.
func (s *JWTService) Issue(actorID string, capabilities []shared.Capability) (*IssuedToken, error) {
	if actorID == "" {
		return nil, ErrMissingActorID
	}
	now := s.nowFn()
	caps := make([]string, len(capabilities))
	for i, c := range capabilities {
		caps[i] = string(c)
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   actorID,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		ActorID:      actorID,
		Capabilities: caps,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{
		Token:     signed,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
		TokenType: "Bearer",
	}, nil
}

// Validate parses tokenString and returns its claims.
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(s.nowFn))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.ActorID == "" {
		return nil, ErrMissingActorID
	}
	return claims, nil
}

// RemainingTTL is how long claims stay valid after now.
func (s *JWTService) RemainingTTL(claims *Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return s.expiration
	}
	return max(claims.ExpiresAt.Sub(s.nowFn()), 0)
}
