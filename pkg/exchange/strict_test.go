package exchange

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeStrict_Success(t *testing.T) {
	ts := newTokenServer(t, http.StatusOK,
		`{"access_token":"abc123","token_type":"Bearer","expires_in":3599,"scope":"files.readwrite"}`)
	cfg := testConfig(ts.URL)
	cfg.Strict = true
	e := New(cfg)

	resp, err := e.Exchange(context.Background(), "auth-code", WithCodeVerifier("verifier"))
	require.NoError(t, err)

	assert.Equal(t, "Access Token: abc123", FormatAccessToken(resp))
	assert.Equal(t, "Bearer", resp.TokenType())
	assert.Equal(t, "files.readwrite", resp.Scope())

	assert.Equal(t, "application/x-www-form-urlencoded", ts.lastCT)
	assert.Equal(t, "client-123", ts.lastForm.Get("client_id"))
	assert.Equal(t, "s3cr3t&value", ts.lastForm.Get("client_secret"))
	assert.Equal(t, "auth-code", ts.lastForm.Get("code"))
	assert.Equal(t, "authorization_code", ts.lastForm.Get("grant_type"))
	assert.Equal(t, "files.readwrite", ts.lastForm.Get("scope"))
	assert.Equal(t, "http://localhost:8085/callback?x=1", ts.lastForm.Get("redirect_uri"))
	assert.Equal(t, "verifier", ts.lastForm.Get("code_verifier"))
	assert.Equal(t, int32(1), ts.hits.Load())
}

func TestExchangeStrict_ProviderError(t *testing.T) {
	ts := newTokenServer(t, http.StatusBadRequest,
		`{"error":"invalid_grant","error_description":"expired"}`)
	cfg := testConfig(ts.URL)
	cfg.Strict = true
	e := New(cfg)

	resp, err := e.Exchange(context.Background(), "code")
	assert.ErrorIs(t, err, ErrTokenRejected)
	assert.Nil(t, resp)
	assert.Equal(t, int32(1), ts.hits.Load())
}

func TestExchangeStrict_MissingToken(t *testing.T) {
	ts := newTokenServer(t, http.StatusOK, `{}`)
	cfg := testConfig(ts.URL)
	cfg.Strict = true
	e := New(cfg)

	_, err := e.Exchange(context.Background(), "code")
	assert.Error(t, err)
}
