package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-training/token-exchange/pkg/core"

	"golang.org/x/oauth2"
)

// Exchanger trades authorization codes for access tokens.
// It keeps no state between calls: every Exchange issues exactly one request.
type Exchanger struct {
	cfg        Config
	oauth      *oauth2.Config
	httpClient *http.Client
}

// Option configures an Exchanger.
type Option func(*Exchanger)

// WithHTTPClient replaces the HTTP client used for the token request.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Exchanger) {
		e.httpClient = c
	}
}

// New creates an Exchanger for the given configuration.
func New(cfg Config, opts ...Option) *Exchanger {
	e := &Exchanger{
		cfg:        cfg,
		oauth:      cfg.oauth2Config(),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TokenURL returns the endpoint the exchange is posted to.
func (e *Exchanger) TokenURL() string {
	return e.oauth.Endpoint.TokenURL
}

// RedirectURI returns the configured redirect URI.
func (e *Exchanger) RedirectURI() string {
	return e.cfg.RedirectURI
}

type exchangeOptions struct {
	redirectURI  string
	codeVerifier string
}

// ExchangeOption adjusts a single exchange.
type ExchangeOption func(*exchangeOptions)

// WithRedirectURI overrides the configured redirect URI for one exchange.
func WithRedirectURI(uri string) ExchangeOption {
	return func(o *exchangeOptions) {
		o.redirectURI = uri
	}
}

// WithCodeVerifier adds the PKCE code_verifier field to the request body.
func WithCodeVerifier(verifier string) ExchangeOption {
	return func(o *exchangeOptions) {
		o.codeVerifier = verifier
	}
}

func (e *Exchanger) options(opts []ExchangeOption) exchangeOptions {
	o := exchangeOptions{redirectURI: e.cfg.RedirectURI}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Form builds the form-encoded body for exchanging code.
func (e *Exchanger) Form(code string, opts ...ExchangeOption) url.Values {
	o := e.options(opts)

	values := url.Values{}
	values.Set("client_id", e.cfg.ClientID)
	values.Set("scope", e.cfg.scope())
	values.Set("code", code)
	values.Set("redirect_uri", o.redirectURI)
	values.Set("grant_type", GrantTypeAuthorizationCode)
	values.Set("client_secret", e.cfg.ClientSecret)
	if o.codeVerifier != "" {
		values.Set("code_verifier", o.codeVerifier)
	}
	return values
}

// Exchange posts code to the token endpoint and decodes the JSON reply.
//
// The HTTP status is not inspected: an error body simply yields a Response
// without an access token. Only transport failures return an error.
func (e *Exchanger) Exchange(ctx context.Context, code string, opts ...ExchangeOption) (*Response, error) {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	logger := core.LoggerFromCtx(ctx)
	logger.Debug("Exchanging authorization code",
		"token_url", e.TokenURL(),
		"client_id", e.cfg.ClientID,
		"code", core.MaskSecret(code),
		"strict", e.cfg.Strict,
	)

	if e.cfg.Strict {
		return e.exchangeStrict(ctx, code, e.options(opts))
	}

	form := e.Form(code, opts...)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.TokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response body: %w", err)
	}

	result := &Response{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, &result.Body); err != nil {
		logger.Warn("Token response is not a JSON object",
			"status", resp.StatusCode,
			"error", err,
		)
		result.Body = nil
		return result, nil
	}

	if oauthErr := result.OAuthError(); oauthErr != "" {
		logger.Warn("Token endpoint reported an error",
			"status", resp.StatusCode,
			"error", oauthErr,
			"error_description", result.ErrorDescription(),
		)
	}

	token, ok := result.AccessToken()
	logger.Debug("Token endpoint responded",
		"status", resp.StatusCode,
		"has_access_token", ok,
		"access_token", core.MaskSecret(token),
	)
	return result, nil
}
