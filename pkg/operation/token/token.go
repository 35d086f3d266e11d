// Package token provides MCP tools for exchanging authorization codes and
// building authorization URLs.
package token

import (
	"context"
	"fmt"

	"github.com/go-training/token-exchange/pkg/core"
	"github.com/go-training/token-exchange/pkg/exchange"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ExchangeAuthorizationCodeTool defines the MCP tool for trading a code for an access token.
var ExchangeAuthorizationCodeTool = mcp.NewTool("exchange_authorization_code",
	mcp.WithDescription("Exchange an OAuth 2.0 authorization code for an access token"),
	mcp.WithString("code",
		mcp.Description("The authorization code returned to the redirect URI"),
		mcp.Required(),
	),
	mcp.WithString("redirect_uri",
		mcp.Description("Redirect URI used when the code was issued; defaults to the configured one"),
	),
	mcp.WithString("code_verifier",
		mcp.Description("PKCE code verifier, when the authorization request used a code challenge"),
	),
)

// AuthorizationURLTool defines the MCP tool for building the provider login URL.
var AuthorizationURLTool = mcp.NewTool("authorization_url",
	mcp.WithDescription("Build the URL a user visits to obtain an authorization code"),
	mcp.WithString("state",
		mcp.Description("Opaque state echoed back on the redirect; generated when omitted"),
	),
)

func stringArg(request mcp.CallToolRequest, name string) string {
	v, _ := request.GetArguments()[name].(string)
	return v
}

// HandleExchangeAuthorizationCode returns a handler that performs one exchange
// and replies with the "Access Token: ..." line.
func HandleExchangeAuthorizationCode(ex *exchange.Exchanger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := core.LoggerFromCtx(ctx)
		logger.Info("Handling exchange_authorization_code tool")

		code, ok := request.GetArguments()["code"].(string)
		if !ok {
			logger.Error("Missing code argument")
			return nil, fmt.Errorf("missing code")
		}

		var opts []exchange.ExchangeOption
		if uri := stringArg(request, "redirect_uri"); uri != "" {
			opts = append(opts, exchange.WithRedirectURI(uri))
		}
		if verifier := stringArg(request, "code_verifier"); verifier != "" {
			opts = append(opts, exchange.WithCodeVerifier(verifier))
		}

		resp, err := ex.Exchange(ctx, code, opts...)
		if err != nil {
			logger.Error("Token exchange failed", "error", err)
			return nil, err
		}

		logger.Info("Token exchange completed", "status", resp.StatusCode)
		return mcp.NewToolResultText(exchange.FormatAccessToken(resp)), nil
	}
}

// HandleAuthorizationURL returns a handler that builds an authorization URL.
func HandleAuthorizationURL(ex *exchange.Exchanger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		state := stringArg(request, "state")
		if state == "" {
			state = uuid.New().String()
		}
		return mcp.NewToolResultText(ex.AuthorizeURL(state)), nil
	}
}
