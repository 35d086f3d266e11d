package operation

import (
	"github.com/go-training/token-exchange/pkg/exchange"
	"github.com/go-training/token-exchange/pkg/operation/token"

	"github.com/mark3labs/mcp-go/server"
)

/*
RegisterTokenTool registers the token exchange tools to the specified MCPServer instance.

Parameters:
  - s: Pointer to the MCPServer instance where the tools will be registered.
  - ex: The exchanger every tool call goes through.
*/
func RegisterTokenTool(s *server.MCPServer, ex *exchange.Exchanger) {
	tool := &Tool{}

	tool.RegisterWrite(server.ServerTool{
		Tool:    token.ExchangeAuthorizationCodeTool,
		Handler: token.HandleExchangeAuthorizationCode(ex),
	})
	tool.RegisterRead(server.ServerTool{
		Tool:    token.AuthorizationURLTool,
		Handler: token.HandleAuthorizationURL(ex),
	})

	s.AddTools(tool.Tools()...)
}

/*
Tool manages collections of tools to be registered with an MCPServer.

Fields:
  - write: ServerTools with side effects on the provider (code redemption).
  - read: ServerTools that only compute values.
*/
type Tool struct {
	write []server.ServerTool
	read  []server.ServerTool
}

// RegisterWrite registers a ServerTool as a write operation.
func (t *Tool) RegisterWrite(s server.ServerTool) {
	t.write = append(t.write, s)
}

// RegisterRead registers a ServerTool as a read operation.
func (t *Tool) RegisterRead(s server.ServerTool) {
	t.read = append(t.read, s)
}

// Tools returns all registered ServerTools, write tools first.
func (t *Tool) Tools() []server.ServerTool {
	tools := make([]server.ServerTool, 0, len(t.write)+len(t.read))
	tools = append(tools, t.write...)
	tools = append(tools, t.read...)
	return tools
}
