package auth

import (
	"context"
	"testing"
	"time"

	"annam-mithra-backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalVerifierRoundTrip(t *testing.T) {
	secret := "test-secret"
	token, err := GenerateLocalToken(secret, "uid-123", "donor@example.com", time.Minute)
	require.NoError(t, err)

	identity, err := NewLocalVerifier(secret).Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "uid-123", identity.UID)
	assert.Equal(t, "donor@example.com", identity.Email)
}

func TestLocalVerifierRejectsWrongSecret(t *testing.T) {
	token, err := GenerateLocalToken("secret-a", "uid-123", "", time.Minute)
	require.NoError(t, err)

	_, err = NewLocalVerifier("secret-b").Verify(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestLocalVerifierRejectsExpired(t *testing.T) {
	secret := "test-secret"
	token, err := GenerateLocalToken(secret, "uid-123", "", -time.Minute)
	require.NoError(t, err)

	_, err = NewLocalVerifier(secret).Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestLocalVerifierRejectsGarbage(t *testing.T) {
	_, err := NewLocalVerifier("test-secret").Verify(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
