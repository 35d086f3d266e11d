// Package exchange performs the OAuth 2.0 authorization code token exchange
// against the Microsoft identity platform token endpoint.
package exchange

import (
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

const (
	// DefaultTenant is the multi-tenant authority segment.
	DefaultTenant = "common"
	// DefaultScope is the scope requested on every exchange unless overridden.
	DefaultScope = "files.readwrite"
	// GrantTypeAuthorizationCode is the grant_type sent with every exchange.
	GrantTypeAuthorizationCode = "authorization_code"
)

// DefaultTokenURL is the token endpoint for the common tenant.
var DefaultTokenURL = microsoft.AzureADEndpoint(DefaultTenant).TokenURL

// Config holds the values submitted with the exchange.
// None of them are validated; empty strings are sent as-is.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	// Scope defaults to DefaultScope.
	Scope string
	// Tenant selects the authority when TokenURL or AuthURL are empty.
	Tenant   string
	TokenURL string
	AuthURL  string
	// Timeout bounds the whole request. Zero means no timeout.
	Timeout time.Duration
	// Strict delegates to oauth2.Config.Exchange, which rejects non-2xx
	// responses and responses without an access_token.
	Strict bool
}

func (c Config) tenant() string {
	if c.Tenant == "" {
		return DefaultTenant
	}
	return c.Tenant
}

func (c Config) scope() string {
	if c.Scope == "" {
		return DefaultScope
	}
	return c.Scope
}

func (c Config) endpoint() oauth2.Endpoint {
	ep := microsoft.AzureADEndpoint(c.tenant())
	if c.TokenURL != "" {
		ep.TokenURL = c.TokenURL
	}
	if c.AuthURL != "" {
		ep.AuthURL = c.AuthURL
	}
	ep.AuthStyle = oauth2.AuthStyleInParams
	return ep
}

// oauth2Config adapts Config to the x/oauth2 client configuration.
func (c Config) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURI,
		Scopes:       []string{c.scope()},
		Endpoint:     c.endpoint(),
	}
}
