package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartclinic-server/internal/config"
)

func newTestTokenService(t *testing.T, now *time.Time) *TokenService {
	t.Helper()
	svc, err := NewTokenService(config.JWTConfig{Secret: "test-secret", Algorithm: "HS256", ExpirationHours: 1})
	require.NoError(t, err)
	return svc.WithClock(func() time.Time { return *now })
}

func TestTokenService_AcceptedBeforeExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, &now)

	token, err := svc.Issue("account-1")
	require.NoError(t, err)

	now = now.Add(59 * time.Minute)
	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "account-1", claims.AccountID())
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, time.Minute, claims.Remaining(now))
}

func TestTokenService_RejectedAfterExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, &now)

	token, err := svc.Issue("account-1")
	require.NoError(t, err)

	now = now.Add(time.Hour + time.Second)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(t, &now)

	other, err := NewTokenService(config.JWTConfig{Secret: "other-secret", Algorithm: "HS256", ExpirationHours: 1})
	require.NoError(t, err)
	token, err := other.Issue("account-1")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_RejectsOtherAlgorithm(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(t, &now)

	claims := jwt.RegisteredClaims{Subject: "account-1", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(unsigned)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_RejectsMissingClaims(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(t, &now)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "a"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.Verify(noExpiry)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.Verify(noSubject)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(t, &now)

	_, err := svc.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewTokenService_RejectsNonHMAC(t *testing.T) {
	_, err := NewTokenService(config.JWTConfig{Secret: "s", Algorithm: "RS256", ExpirationHours: 1})
	assert.Error(t, err)

	_, err = NewTokenService(config.JWTConfig{Secret: "s", Algorithm: "nope", ExpirationHours: 1})
	assert.Error(t, err)
}
