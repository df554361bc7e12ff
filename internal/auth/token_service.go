package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL defines the fallback validity period for inscription bearer tokens.
const DefaultTokenTTL = 720 * time.Hour

// TokenConfig bundles the configuration required to build a TokenService.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TokenTTL time.Duration
	Clock    func() time.Time
}

// Claims represents the custom claims embedded in issued JWTs.
type Claims struct {
	UserID        string `json:"user_id"`
	InscriptionID string `json:"inscription_id,omitempty"`
	jwt.RegisteredClaims
}

// IssueTokenInput holds the parameters used when generating a new token.
type IssueTokenInput struct {
	UserID        string
	InscriptionID string
	// ExpiresIn overrides the configured TTL when positive.
	ExpiresIn time.Duration
}

// TokenService is responsible for issuing and validating signed bearer tokens.
//
// Verification and expiry probing are deliberately separate operations: Verify
// fails hard and is used for access control, IsExpired never errors and is
// used by the inscription lifecycle to decide whether to refresh a stored
// token without treating a stale one as a fault.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenService constructs a TokenService instance when provided with the required configuration.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token: secret must be provided")
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &TokenService{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		now:      now,
	}, nil
}

// Issue signs a JWT embedding the supplied identity claims.
func (s *TokenService) Issue(input IssueTokenInput) (string, error) {
	if input.UserID == "" {
		return "", errors.New("token: user id is required")
	}

	ttl := s.ttl
	if input.ExpiresIn > 0 {
		ttl = input.ExpiresIn
	}

	now := s.now()
	claims := &Claims{
		UserID:        input.UserID,
		InscriptionID: input.InscriptionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   input.UserID,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a signed JWT, returning the application claims.
// Signature, expiry, issuer and audience failures all surface as errors.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token: token string is empty")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token: parse: %w", err)
	}

	if s.issuer != "" && claims.Issuer != s.issuer {
		return nil, errors.New("token: invalid issuer")
	}

	if s.audience != "" && !containsAudience(claims.Audience, s.audience) {
		return nil, errors.New("token: invalid audience")
	}

	if claims.UserID == "" {
		return nil, errors.New("token: missing user id claim")
	}

	return &claims, nil
}

// Decode performs a structural decode without verifying the signature.
// Returns nil when the token cannot be parsed at all.
func (s *TokenService) Decode(tokenString string) *Claims {
	if tokenString == "" {
		return nil
	}

	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return nil
	}
	return &claims
}

// IsExpired reports whether the token's embedded expiry has passed. It never
// errors: a malformed token or one carrying no expiry claim counts as expired.
func (s *TokenService) IsExpired(tokenString string) bool {
	claims := s.Decode(tokenString)
	if claims == nil || claims.ExpiresAt == nil {
		return true
	}
	return !claims.ExpiresAt.Time.After(s.now())
}

func containsAudience(audience jwt.ClaimStrings, expected string) bool {
	for _, aud := range audience {
		if aud == expected {
			return true
		}
	}
	return false
}
