package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/monambengouta/we-settle/internal/auth"
)

func newGuardRouter(t *testing.T, tokens *iauth.TokenService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/protected", Auth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":        c.GetString(CtxUserIDKey),
			"inscription_id": c.GetString(CtxInscriptionIDKey),
		})
	})
	return r
}

func newGuardTokenService(t *testing.T, clock func() time.Time) *iauth.TokenService {
	t.Helper()

	svc, err := iauth.NewTokenService(iauth.TokenConfig{
		Secret:   "guard-secret",
		Issuer:   "we-settle",
		Audience: "we-settle-api",
		TokenTTL: time.Hour,
		Clock:    clock,
	})
	require.NoError(t, err)
	return svc
}

func doGuarded(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	tokens := newGuardTokenService(t, nil)
	r := newGuardRouter(t, tokens)

	w := doGuarded(r, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGuarded(r, "Bearer ")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsTamperedToken(t *testing.T) {
	tokens := newGuardTokenService(t, nil)
	r := newGuardRouter(t, tokens)

	forged, err := iauth.NewTokenService(iauth.TokenConfig{
		Secret: "someone-else", Issuer: "we-settle", Audience: "we-settle-api",
		TokenTTL: time.Hour,
	})
	require.NoError(t, err)

	token, err := forged.Issue(iauth.IssueTokenInput{UserID: "user-1"})
	require.NoError(t, err)

	w := doGuarded(r, "Bearer "+token)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doGuarded(r, "Bearer not-even-a-jwt")
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	current := time.Date(2025, 4, 23, 16, 0, 0, 0, time.UTC)
	tokens := newGuardTokenService(t, func() time.Time { return current })
	r := newGuardRouter(t, tokens)

	token, err := tokens.Issue(iauth.IssueTokenInput{UserID: "user-1", ExpiresIn: time.Minute})
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)

	w := doGuarded(r, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestAuthAcceptsValidToken(t *testing.T) {
	tokens := newGuardTokenService(t, nil)
	r := newGuardRouter(t, tokens)

	token, err := tokens.Issue(iauth.IssueTokenInput{
		UserID:        "user-1",
		InscriptionID: "insc-9",
	})
	require.NoError(t, err)

	w := doGuarded(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "user-1")
	require.Contains(t, w.Body.String(), "insc-9")
}

func TestAuthAcceptsRawTokenWithoutScheme(t *testing.T) {
	tokens := newGuardTokenService(t, nil)
	r := newGuardRouter(t, tokens)

	token, err := tokens.Issue(iauth.IssueTokenInput{UserID: "user-1"})
	require.NoError(t, err)

	w := doGuarded(r, token)
	require.Equal(t, http.StatusOK, w.Code)
}
