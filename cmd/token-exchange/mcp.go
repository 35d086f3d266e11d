package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-training/token-exchange/pkg/core"
	"github.com/go-training/token-exchange/pkg/operation"

	sloggin "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

const serverVersion = "1.0.0"

func newMCPServer(a *app) *server.MCPServer {
	s := server.NewMCPServer(
		"Token Exchange MCP Server",
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(operation.ToolHandlerMiddleware()),
	)
	operation.RegisterTokenTool(s, a.exchanger())
	return s
}

func newMCPCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Expose the exchange as MCP tools over stdio or streamable HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := newMCPServer(a)

			switch a.cfg.MCP.Transport {
			case "stdio":
				return server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
					return core.WithRequestID(ctx)
				}))
			case "http":
				httpSrv := &http.Server{
					Addr:         a.cfg.MCP.Addr,
					Handler:      mcpRouter(s),
					ReadTimeout:  10 * time.Second,
					WriteTimeout: 30 * time.Second,
					IdleTimeout:  60 * time.Second,
				}
				slog.Info("MCP HTTP server listening", "addr", a.cfg.MCP.Addr)
				return serveGracefully(httpSrv)
			default:
				return fmt.Errorf("invalid transport type %q: want stdio or http", a.cfg.MCP.Transport)
			}
		},
	}

	flags := cmd.Flags()
	flags.String("addr", ":8080", "address to listen on")
	flags.StringP("transport", "t", "stdio", "transport type (stdio or http)")

	a.bind(flags, "mcp.addr", "addr")
	a.bind(flags, "mcp.transport", "transport")
	return cmd
}

func mcpRouter(s *server.MCPServer) *gin.Engine {
	handler := server.NewStreamableHTTPServer(s,
		server.WithHeartbeatInterval(30*time.Second),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			if id := r.Header.Get("X-Request-ID"); id != "" {
				return core.WithRequestIDValue(ctx, id)
			}
			return core.WithRequestID(ctx)
		}),
	)

	router := gin.New()
	router.Use(sloggin.SetLogger(), gin.Recovery())
	for _, method := range []string{http.MethodPost, http.MethodGet, http.MethodDelete} {
		router.Handle(method, "/mcp", gin.WrapH(handler))
	}
	return router
}
