package config

import (
	"regexp"
	"strings"
	"time"
)

type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetRedirectURI() string
	GetScopes() []string
	GetAuthorizeURL() string
	GetTokenURL() string
	GetStateTimeout() time.Duration
}

type OAuth struct {
	ClientID     string        `yaml:"client_id" env:"CLIENT_ID" env-required:"true"`
	ClientSecret string        `yaml:"client_secret" env:"CLIENT_SECRET" env-required:"true"`
	RedirectURI  string        `yaml:"redirect_uri" env:"REDIRECT_URI" env-default:"http://localhost:3000/oauth-callback"`
	Scope        string        `yaml:"scope" env:"SCOPE" env-default:"contacts"`
	AuthorizeURL string        `yaml:"authorize_url" env:"AUTHORIZE_URL" env-default:"https://app.hubspot.com/oauth/authorize"`
	TokenURL     string        `yaml:"token_url" env:"TOKEN_URL" env-default:"https://api.hubapi.com/oauth/v1/token"`
	StateTimeout time.Duration `yaml:"state_timeout" env:"OAUTH_STATE_TIMEOUT" env-default:"15m"`
}

var _ OAuthConfig = OAuth{}

// Scopes may be separated by spaces, commas (optionally followed by a space) or %20
var scopeSeparator = regexp.MustCompile(` |, ?|%20`)

func (o OAuth) GetClientID() string {
	return o.ClientID
}

func (o OAuth) GetClientSecret() string {
	return o.ClientSecret
}

func (o OAuth) GetRedirectURI() string {
	return o.RedirectURI
}

func (o OAuth) GetScopes() []string {
	var scopes []string
	for _, s := range scopeSeparator.Split(strings.TrimSpace(o.Scope), -1) {
		if s != "" {
			scopes = append(scopes, s)
		}
	}
	if len(scopes) == 0 {
		return []string{"contacts"}
	}
	return scopes
}

func (o OAuth) GetAuthorizeURL() string {
	return o.AuthorizeURL
}

func (o OAuth) GetTokenURL() string {
	return o.TokenURL
}

func (o OAuth) GetStateTimeout() time.Duration {
	if o.StateTimeout <= 0 {
		return 15 * time.Minute
	}
	return o.StateTimeout
}
