package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 15)
	userID := uuid.New()

	token, err := svc.Generate(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", 15).Generate(uuid.New())
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", 15).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTExpired(t *testing.T) {
	svc := NewJWTService("test-secret", -1)
	token, err := svc.Generate(uuid.New())
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", 15)
	for _, tok := range []string{"", "not-a-jwt", "aaaa.bbbb.cccc"} {
		_, err := svc.Validate(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}

func TestJWTTokensAreUnique(t *testing.T) {
	svc := NewJWTService("test-secret", 15)
	userID := uuid.New()

	t1, err := svc.Generate(userID)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	t2, err := svc.Generate(userID)
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)
}
