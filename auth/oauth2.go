package auth

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/kbukum/savvy/logger"
	"github.com/kbukum/savvy/validation"
)

// ClientCredentialsConfig configures the OAuth2 client credentials grant.
type ClientCredentialsConfig struct {
	ClientID     string   `yaml:"client_id" mapstructure:"client_id" validate:"required"`
	ClientSecret string   `yaml:"client_secret" mapstructure:"client_secret" validate:"required"`
	TokenURL     string   `yaml:"token_url" mapstructure:"token_url" validate:"required,url"`
	Scopes       []string `yaml:"scopes" mapstructure:"scopes"`
}

// TokenSource returns a caching token source for the grant. ctx carries the
// HTTP client used to reach the token endpoint (see oauth2.HTTPClient).
func (c *ClientCredentialsConfig) TokenSource(ctx context.Context) oauth2.TokenSource {
	cc := &clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.TokenURL,
		Scopes:       c.Scopes,
	}
	return cc.TokenSource(ctx)
}

// OAuth2Value adapts ts to a ValueFunc yielding "<type> <access token>".
// ts is wrapped in oauth2.ReuseTokenSource so a token is fetched again only
// once it expires. Fetch failures are logged to log and yield "".
func OAuth2Value(ts oauth2.TokenSource, log logger.Sink) ValueFunc {
	log = logger.OrDefault(log, "auth")
	ts = oauth2.ReuseTokenSource(nil, ts)
	return func() string {
		tok, err := ts.Token()
		if err == nil && !tok.Valid() {
			err = errors.New("token source returned an invalid token")
		}
		if err != nil {
			log.Error("Could not obtain OAuth2 token", logger.ErrorFields("oauth2.token", err))
			return ""
		}
		return tok.Type() + " " + tok.AccessToken
	}
}

// Validate checks that the grant is fully configured.
func (c *ClientCredentialsConfig) Validate() error {
	return validation.Validate(c)
}
