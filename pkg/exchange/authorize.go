package exchange

import "golang.org/x/oauth2"

type authorizeOptions struct {
	codeVerifier string
	redirectURI  string
}

// AuthorizeOption adjusts a generated authorization URL.
type AuthorizeOption func(*authorizeOptions)

// WithPKCE adds an S256 code_challenge derived from verifier.
func WithPKCE(verifier string) AuthorizeOption {
	return func(o *authorizeOptions) {
		o.codeVerifier = verifier
	}
}

// WithAuthorizeRedirectURI overrides the redirect URI placed in the URL.
func WithAuthorizeRedirectURI(uri string) AuthorizeOption {
	return func(o *authorizeOptions) {
		o.redirectURI = uri
	}
}

// GenerateVerifier returns a fresh PKCE code verifier.
func GenerateVerifier() string {
	return oauth2.GenerateVerifier()
}

// AuthorizeURL returns the provider URL the user visits to obtain a code.
// The code is returned on the query string (response_mode=query).
func (e *Exchanger) AuthorizeURL(state string, opts ...AuthorizeOption) string {
	var o authorizeOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := *e.oauth
	if o.redirectURI != "" {
		cfg.RedirectURL = o.redirectURI
	}

	params := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("response_mode", "query"),
	}
	if o.codeVerifier != "" {
		params = append(params, oauth2.S256ChallengeOption(o.codeVerifier))
	}
	return cfg.AuthCodeURL(state, params...)
}
