package app

import "github.com/monambengouta/we-settle/internal/auth"

// TokenServiceConfig converts AuthConfig into the parameters expected by the token service.
func (c AuthConfig) TokenServiceConfig() auth.TokenConfig {
	ttl := c.JWT.TokenTTL
	if ttl <= 0 {
		ttl = auth.DefaultTokenTTL
	}

	return auth.TokenConfig{
		Secret:   c.JWT.Secret,
		Issuer:   c.JWT.Issuer,
		Audience: c.JWT.Audience,
		TokenTTL: ttl,
	}
}
