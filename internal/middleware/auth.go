package middleware

import (
	stderrors "errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	iauth "github.com/monambengouta/we-settle/internal/auth"
	"github.com/monambengouta/we-settle/pkg/errors"
	"github.com/monambengouta/we-settle/pkg/response"
)

const (
	CtxClaimsKey        = "authClaims"
	CtxUserIDKey        = "userID"
	CtxInscriptionIDKey = "inscriptionID"
)

// Auth guards a route with bearer-token authentication. A missing or blank
// token is 401; a token that fails verification is 403; a token that verifies
// but carries a stale expiry is 401 with a TOKEN_EXPIRED code.
func Auth(tokens *iauth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if strings.TrimSpace(authz) == "" {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		token := bearerToken(authz)
		if token == "" {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil && !stderrors.Is(err, jwt.ErrTokenExpired) {
			response.Error(c, errors.ErrForbidden)
			c.Abort()
			return
		}

		if err != nil || tokens.IsExpired(token) {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrTokenExpired)
			c.Abort()
			return
		}

		// Propagate identity into request context
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID)
		if claims.InscriptionID != "" {
			c.Set(CtxInscriptionIDKey, claims.InscriptionID)
		}

		c.Next()
	}
}

// bearerToken strips an optional "Bearer " prefix from the Authorization header.
func bearerToken(authz string) string {
	if len(authz) >= 7 && strings.EqualFold(authz[:7], "Bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	return strings.TrimSpace(authz)
}
