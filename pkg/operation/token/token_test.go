package token

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-training/token-exchange/pkg/exchange"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	txt, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "unexpected content type %T", res.Content[0])
	return txt.Text
}

func TestHandleExchangeAuthorizationCode(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(raw))
		_, _ = io.WriteString(w, `{"access_token":"abc123"}`)
	}))
	defer srv.Close()

	ex := exchange.New(exchange.Config{ClientID: "client", RedirectURI: "http://localhost/cb", TokenURL: srv.URL})
	handler := HandleExchangeAuthorizationCode(ex)

	res, err := handler(context.Background(), callRequest("exchange_authorization_code", map[string]any{
		"code":          "auth-code",
		"redirect_uri":  "https://app.example.com/cb",
		"code_verifier": "verifier",
	}))
	require.NoError(t, err)

	assert.Equal(t, "Access Token: abc123", resultText(t, res))
	assert.Equal(t, "auth-code", form.Get("code"))
	assert.Equal(t, "https://app.example.com/cb", form.Get("redirect_uri"))
	assert.Equal(t, "verifier", form.Get("code_verifier"))
}

func TestHandleExchangeAuthorizationCode_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"invalid_grant"}`)
	}))
	defer srv.Close()

	handler := HandleExchangeAuthorizationCode(exchange.New(exchange.Config{TokenURL: srv.URL}))

	res, err := handler(context.Background(), callRequest("exchange_authorization_code", map[string]any{"code": "old"}))
	require.NoError(t, err)
	assert.Equal(t, "Access Token: None", resultText(t, res))
}

func TestHandleExchangeAuthorizationCode_MissingArgument(t *testing.T) {
	handler := HandleExchangeAuthorizationCode(exchange.New(exchange.Config{}))

	res, err := handler(context.Background(), callRequest("exchange_authorization_code", map[string]any{}))
	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestHandleExchangeAuthorizationCode_TransportFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	handler := HandleExchangeAuthorizationCode(exchange.New(exchange.Config{TokenURL: "http://" + addr}))

	res, err := handler(context.Background(), callRequest("exchange_authorization_code", map[string]any{"code": "abc"}))
	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestHandleAuthorizationURL(t *testing.T) {
	handler := HandleAuthorizationURL(exchange.New(exchange.Config{ClientID: "client"}))

	res, err := handler(context.Background(), callRequest("authorization_url", map[string]any{"state": "s-1"}))
	require.NoError(t, err)

	u, err := url.Parse(resultText(t, res))
	require.NoError(t, err)
	assert.Equal(t, "s-1", u.Query().Get("state"))
	assert.Equal(t, "client", u.Query().Get("client_id"))

	res, err = handler(context.Background(), callRequest("authorization_url", nil))
	require.NoError(t, err)
	u, err = url.Parse(resultText(t, res))
	require.NoError(t, err)
	assert.NotEmpty(t, u.Query().Get("state"))
}
