package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/task-api/internal/core/domain"
)

const testSecret = "test-secret-key-for-jwt-signing"

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestJWTCodec_RoundTrip(t *testing.T) {
	codec, err := NewJWTCodec(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := codec.Issue("identity-1", "a@x.com")
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "identity-1", claims.SubjectID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.WithinDuration(t, claims.IssuedAt.Add(time.Hour), claims.ExpiresAt, time.Second)
}

func TestJWTCodec_DefaultLifetime(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	codec, err := NewJWTCodec(testSecret, 0, WithClock(fixedClock(now)))
	require.NoError(t, err)

	token, err := codec.Issue("id", "e@x.com")
	require.NoError(t, err)
	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), claims.ExpiresAt.UTC())
}

func TestJWTCodec_Expired(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewJWTCodec(testSecret, time.Hour, WithClock(fixedClock(issued)))
	require.NoError(t, err)
	token, err := issuer.Issue("id", "e@x.com")
	require.NoError(t, err)

	later, err := NewJWTCodec(testSecret, time.Hour, WithClock(fixedClock(issued.Add(time.Hour+time.Second))))
	require.NoError(t, err)

	_, err = later.Verify(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
	assert.NotErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestJWTCodec_Invalid(t *testing.T) {
	codec, err := NewJWTCodec(testSecret, time.Hour)
	require.NoError(t, err)

	other, err := NewJWTCodec("different-secret", time.Hour)
	require.NoError(t, err)
	foreign, err := other.Issue("id", "e@x.com")
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "id",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "id"}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"malformed", "header.payload.signature"},
		{"wrong secret", foreign},
		{"none algorithm", noneAlg},
		{"missing exp", noExp},
		{"missing sub", noSub},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrTokenInvalid), "got %v", err)
		})
	}
}

func TestNewJWTCodec_RejectsEmptySecret(t *testing.T) {
	_, err := NewJWTCodec("", time.Hour)
	assert.Error(t, err)
}
