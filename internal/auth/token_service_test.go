package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(TokenConfig{})
	require.Error(t, err)
	require.EqualError(t, err, "token: secret must be provided")
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	current := time.Date(2025, 4, 23, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }

	svc, err := NewTokenService(TokenConfig{
		Secret:   "super-secret",
		Issuer:   "we-settle",
		Audience: "we-settle-api",
		TokenTTL: time.Hour,
		Clock:    now,
	})
	require.NoError(t, err)

	token, err := svc.Issue(IssueTokenInput{
		UserID:        "user-123",
		InscriptionID: "inscription-456",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	require.Equal(t, "user-123", claims.UserID)
	require.Equal(t, "inscription-456", claims.InscriptionID)
	require.Equal(t, "we-settle", claims.Issuer)
	require.Equal(t, jwt.ClaimStrings{"we-settle-api"}, claims.Audience)
	require.True(t, claims.IssuedAt.Time.Equal(current))
	require.True(t, claims.ExpiresAt.Time.Equal(current.Add(time.Hour)))
}

func TestIssueHonoursExpiresInOverride(t *testing.T) {
	current := time.Date(2025, 4, 23, 12, 0, 0, 0, time.UTC)

	svc, err := NewTokenService(TokenConfig{
		Secret:   "secret",
		TokenTTL: 720 * time.Hour,
		Clock:    func() time.Time { return current },
	})
	require.NoError(t, err)

	token, err := svc.Issue(IssueTokenInput{UserID: "user-123", ExpiresIn: time.Minute})
	require.NoError(t, err)

	claims := svc.Decode(token)
	require.NotNil(t, claims)
	require.True(t, claims.ExpiresAt.Time.Equal(current.Add(time.Minute)))
}

func TestVerifyRejectsInvalidSignature(t *testing.T) {
	now := func() time.Time { return time.Date(2025, 4, 23, 13, 0, 0, 0, time.UTC) }

	issuer, err := NewTokenService(TokenConfig{Secret: "issuer-secret", TokenTTL: time.Minute, Clock: now})
	require.NoError(t, err)

	token, err := issuer.Issue(IssueTokenInput{UserID: "user-123"})
	require.NoError(t, err)

	verifier, err := NewTokenService(TokenConfig{Secret: "other-secret", TokenTTL: time.Minute, Clock: now})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	require.True(t, errors.Is(err, jwt.ErrTokenSignatureInvalid))
}

func TestVerifyRejectsWrongIssuerAndAudience(t *testing.T) {
	now := func() time.Time { return time.Date(2025, 4, 23, 13, 0, 0, 0, time.UTC) }

	minter, err := NewTokenService(TokenConfig{
		Secret: "shared", Issuer: "someone-else", Audience: "other-api",
		TokenTTL: time.Minute, Clock: now,
	})
	require.NoError(t, err)

	token, err := minter.Issue(IssueTokenInput{UserID: "user-123"})
	require.NoError(t, err)

	verifier, err := NewTokenService(TokenConfig{
		Secret: "shared", Issuer: "we-settle", Audience: "we-settle-api",
		TokenTTL: time.Minute, Clock: now,
	})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	current := time.Date(2025, 4, 23, 14, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }

	svc, err := NewTokenService(TokenConfig{Secret: "secret", TokenTTL: time.Minute, Clock: now})
	require.NoError(t, err)

	token, err := svc.Issue(IssueTokenInput{UserID: "user-123"})
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)

	_, err = svc.Verify(token)
	require.Error(t, err)
	require.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestIsExpiredNeverErrors(t *testing.T) {
	current := time.Date(2025, 4, 23, 15, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }

	svc, err := NewTokenService(TokenConfig{Secret: "secret", TokenTTL: time.Minute, Clock: now})
	require.NoError(t, err)

	token, err := svc.Issue(IssueTokenInput{UserID: "user-123"})
	require.NoError(t, err)

	require.False(t, svc.IsExpired(token))

	current = current.Add(2 * time.Minute)
	require.True(t, svc.IsExpired(token))

	// Malformed input counts as expired rather than raising.
	require.True(t, svc.IsExpired("not-a-jwt"))
	require.True(t, svc.IsExpired(""))
}

func TestIsExpiredIgnoresSignature(t *testing.T) {
	current := time.Date(2025, 4, 23, 15, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }

	minter, err := NewTokenService(TokenConfig{Secret: "one-secret", TokenTTL: time.Hour, Clock: now})
	require.NoError(t, err)

	token, err := minter.Issue(IssueTokenInput{UserID: "user-123"})
	require.NoError(t, err)

	probe, err := NewTokenService(TokenConfig{Secret: "another-secret", TokenTTL: time.Hour, Clock: now})
	require.NoError(t, err)

	// The lazy check only reads the embedded expiry claim.
	require.False(t, probe.IsExpired(token))
}

func TestDecodeReturnsNilOnGarbage(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{Secret: "secret"})
	require.NoError(t, err)

	require.Nil(t, svc.Decode("garbage"))
	require.Nil(t, svc.Decode(""))
}
