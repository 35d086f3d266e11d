// Package callback serves the browser side of the authorization code flow:
// it redirects to the provider, receives the code on the callback URL and
// exchanges it once.
package callback

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-training/token-exchange/pkg/core"
	"github.com/go-training/token-exchange/pkg/exchange"
	"github.com/go-training/token-exchange/pkg/store"

	sloggin "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DefaultStateTTL bounds how long a user has to complete the provider login.
const DefaultStateTTL = 10 * time.Minute

const successPage = `<html>
	<body>
		<h1>Authorization Successful</h1>
		<p>You can now close this window and return to the application.</p>
	</body>
</html>`

// Server wires the exchanger and state store to HTTP routes.
type Server struct {
	exchanger *exchange.Exchanger
	states    core.StateStore
	stateTTL  time.Duration
	now       func() time.Time

	mu  sync.Mutex
	out io.Writer
}

// Option configures a Server.
type Option func(*Server)

// WithStateTTL sets how long a pending state stays valid.
func WithStateTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.stateTTL = ttl
		}
	}
}

// New creates a callback server. Every exchange result line is written to out.
func New(ex *exchange.Exchanger, states core.StateStore, out io.Writer, opts ...Option) *Server {
	s := &Server{
		exchanger: ex,
		states:    states,
		stateTTL:  DefaultStateTTL,
		now:       time.Now,
		out:       out,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the gin engine serving /authorize, /callback and /healthz.
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(requestIDMiddleware(), sloggin.SetLogger(), gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/authorize", s.handleAuthorize)
	router.GET("/callback", s.handleCallback)

	return router
}

func (s *Server) handleAuthorize(c *gin.Context) {
	ctx := c.Request.Context()
	logger := core.LoggerFromCtx(ctx)

	now := s.now()
	state := &core.AuthorizationState{
		State:        uuid.New().String(),
		CodeVerifier: exchange.GenerateVerifier(),
		RedirectURI:  s.exchanger.RedirectURI(),
		CreatedAt:    now.Unix(),
		ExpiresAt:    now.Add(s.stateTTL).Unix(),
	}
	if err := s.states.SaveState(ctx, state); err != nil {
		logger.Error("Failed to save authorization state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save authorization state"})
		return
	}

	authURL := s.exchanger.AuthorizeURL(state.State, exchange.WithPKCE(state.CodeVerifier))
	logger.Debug("Redirecting to provider", "state", state.State)
	c.Redirect(http.StatusFound, authURL)
}

func (s *Server) handleCallback(c *gin.Context) {
	ctx := c.Request.Context()
	logger := core.LoggerFromCtx(ctx)

	if providerErr := c.Query("error"); providerErr != "" {
		logger.Warn("Provider returned an authorization error",
			"error", providerErr,
			"error_description", c.Query("error_description"),
		)
		if stateValue := c.Query("state"); stateValue != "" {
			if err := s.states.DeleteState(ctx, stateValue); err != nil && !errors.Is(err, store.ErrStateNotFound) {
				logger.Warn("Failed to discard authorization state", "error", err)
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             providerErr,
			"error_description": c.Query("error_description"),
		})
		return
	}

	stateValue := c.Query("state")
	code := c.Query("code")
	if stateValue == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code and state are required"})
		return
	}

	state, err := s.states.ConsumeState(ctx, stateValue)
	if err != nil {
		if errors.Is(err, store.ErrStateNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired state"})
			return
		}
		logger.Error("Failed to load authorization state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load authorization state"})
		return
	}

	resp, err := s.exchanger.Exchange(ctx, code,
		exchange.WithRedirectURI(state.RedirectURI),
		exchange.WithCodeVerifier(state.CodeVerifier),
	)
	if err != nil {
		logger.Error("Token exchange failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "token exchange failed", "details": err.Error()})
		return
	}

	s.mu.Lock()
	_, err = fmt.Fprintln(s.out, exchange.FormatAccessToken(resp))
	s.mu.Unlock()
	if err != nil {
		logger.Error("Failed to write access token", "error", err)
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(successPage))
}
