package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOwnerTokenRoundTrip(t *testing.T) {
	secret := []byte("owner-secret")
	token, err := GenerateToken("user-1", "owner@example.com", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "owner@example.com", claims.Email)
}

func TestOwnerTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-1", "", []byte("secret-a"), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("secret-b"))
	require.Error(t, err)
}

func TestShareTokenRoundTrip(t *testing.T) {
	secret := []byte("share-secret")
	expiresAt := time.Now().Add(30 * time.Minute)
	token, err := GenerateShareToken("link-token", "viewer@example.com", secret, expiresAt)
	require.NoError(t, err)

	claims, err := ParseShareToken(token, secret)
	require.NoError(t, err)
	require.Equal(t, "link-token", claims.LinkToken)
	require.Equal(t, "viewer@example.com", claims.Email)
	require.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestShareTokenExpired(t *testing.T) {
	secret := []byte("share-secret")
	token, err := GenerateShareToken("link-token", "viewer@example.com", secret, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = ParseShareToken(token, secret)
	require.ErrorIs(t, err, ErrShareTokenExpired)
}

func TestShareTokenGarbage(t *testing.T) {
	_, err := ParseShareToken("not-a-token", []byte("share-secret"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrShareTokenExpired)
}

func TestShareTokenRejectsOwnerToken(t *testing.T) {
	// an owner token parsed as a share token lacks the link binding
	secret := []byte("same-secret")
	token, err := GenerateToken("user-1", "owner@example.com", secret, time.Hour)
	require.NoError(t, err)

	_, err = ParseShareToken(token, secret)
	require.Error(t, err)
}
