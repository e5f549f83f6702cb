package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                testSecret,
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
}

func TestNewJWTService_DefaultsExpiration(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: testSecret})
	assert.Equal(t, 15*time.Minute, svc.expiration)
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newTestJWTService()

	issued, err := svc.Issue("actor-1", []shared.Capability{shared.CapabilityApproveTransactions})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", issued.TokenType)
	assert.NotEmpty(t, issued.TokenID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), issued.ExpiresAt, 2*time.Second)

	claims, err := svc.Validate(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "actor-1", claims.ActorID)
	assert.Equal(t, "actor-1", claims.Subject)
	assert.Equal(t, issued.TokenID, claims.ID)
	assert.True(t, claims.Has(shared.CapabilityApproveTransactions))
	assert.False(t, claims.Has(shared.CapabilityRunAudit))
}

func TestJWTService_IssueRequiresActor(t *testing.T) {
	_, err := newTestJWTService().Issue("", nil)
	assert.ErrorIs(t, err, ErrMissingActorID)
}

func TestJWTService_Validate(t *testing.T) {
	svc := newTestJWTService()

	t.Run("expired", func(t *testing.T) {
		issuer := newTestJWTService()
		issuer.nowFn = func() time.Time { return time.Now().Add(-time.Hour) }
		issued, err := issuer.Issue("actor-1", nil)
		require.NoError(t, err)

		_, err = svc.Validate(issued.Token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("not yet valid", func(t *testing.T) {
		issuer := newTestJWTService()
		issuer.nowFn = func() time.Time { return time.Now().Add(time.Hour) }
		issued, err := issuer.Issue("actor-1", nil)
		require.NoError(t, err)

		_, err = svc.Validate(issued.Token)
		assert.ErrorIs(t, err, ErrTokenNotYetValid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret-key-of-32-characters", Issuer: "test-issuer"})
		issued, err := other.Issue("actor-1", nil)
		require.NoError(t, err)

		_, err = svc.Validate(issued.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: testSecret, Issuer: "someone-else"})
		issued, err := other.Issue("actor-1", nil)
		require.NoError(t, err)

		_, err = svc.Validate(issued.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing actor", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.Validate(signed)
		assert.ErrorIs(t, err, ErrMissingActorID)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := &Claims{ActorID: "actor-1", RegisteredClaims: jwt.RegisteredClaims{Issuer: "test-issuer"}}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Validate(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClaims_Wildcard(t *testing.T) {
	claims := &Claims{ActorID: "ops", Capabilities: []string{"*"}}
	assert.True(t, claims.Has(shared.CapabilityManageLeases))
	assert.True(t, claims.Has(shared.CapabilityRunAudit))
}

func TestJWTService_RemainingTTL(t *testing.T) {
	svc := newTestJWTService()
	now := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	svc.nowFn = func() time.Time { return now }

	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute))}}
	assert.Equal(t, 5*time.Minute, svc.RemainingTTL(claims))

	claims.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
	assert.Equal(t, time.Duration(0), svc.RemainingTTL(claims))

	assert.Equal(t, 15*time.Minute, svc.RemainingTTL(&Claims{}))
}
