package exchange

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-training/token-exchange/pkg/core"

	"golang.org/x/oauth2"
)

// ErrTokenRejected wraps provider errors surfaced in strict mode.
var ErrTokenRejected = errors.New("token endpoint rejected the exchange")

// exchangeStrict runs the exchange through oauth2.Config.Exchange. The same
// six fields are sent; scope travels as an extra parameter since x/oauth2
// omits it from token requests.
func (e *Exchanger) exchangeStrict(ctx context.Context, code string, o exchangeOptions) (*Response, error) {
	cfg := *e.oauth
	cfg.RedirectURL = o.redirectURI

	params := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("scope", e.cfg.scope()),
	}
	if o.codeVerifier != "" {
		params = append(params, oauth2.VerifierOption(o.codeVerifier))
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)
	token, err := cfg.Exchange(ctx, code, params...)
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			core.LoggerFromCtx(ctx).Warn("Token endpoint reported an error",
				"status", rErr.Response.StatusCode,
				"error", rErr.ErrorCode,
				"error_description", rErr.ErrorDescription,
			)
			return nil, fmt.Errorf("%w: %s", ErrTokenRejected, rErr.Error())
		}
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	body := map[string]any{
		"access_token": token.AccessToken,
		"token_type":   token.TokenType,
	}
	if token.RefreshToken != "" {
		body["refresh_token"] = token.RefreshToken
	}
	for _, key := range []string{"scope", "expires_in", "id_token"} {
		if v := token.Extra(key); v != nil {
			body[key] = v
		}
	}
	return &Response{StatusCode: http.StatusOK, Body: body}, nil
}
