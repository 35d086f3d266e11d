package main

import (
	"fmt"
	"io"

	"github.com/go-training/token-exchange/pkg/config"
	"github.com/go-training/token-exchange/pkg/core"
	"github.com/go-training/token-exchange/pkg/exchange"
	"github.com/go-training/token-exchange/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app carries the state shared by every command of a single invocation.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
}

func (a *app) bind(flags *pflag.FlagSet, key, name string) {
	if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", name, err))
	}
}

func (a *app) exchanger() *exchange.Exchanger {
	return exchange.New(a.cfg.Exchange())
}

// NewRootCommand builds the command tree. The exchange result line is written
// to out; diagnostics go to the command's stderr.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{v: config.New()}

	cmd := &cobra.Command{
		Use:   "token-exchange",
		Short: "Exchange an OAuth 2.0 authorization code for an access token",
		Long: `Exchange an OAuth 2.0 authorization code for an access token at the
Microsoft identity platform token endpoint and print it.

Every setting has an embedded default. Flags, TOKEN_EXCHANGE_* environment
variables and an optional config file override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.v, a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := core.WithRequestID(cmd.Context())
			resp, err := a.exchanger().Exchange(ctx, a.cfg.OAuth.AuthorizationCode)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, exchange.FormatAccessToken(resp))
			return err
		},
	}
	cmd.SetOut(out)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (yaml, json or toml)")
	flags.String("client-id", config.DefaultClientID, "application (client) id")
	flags.String("client-secret", config.DefaultClientSecret, "client secret")
	flags.String("redirect-uri", config.DefaultRedirectURI, "redirect URI registered for the application")
	flags.String("code", config.DefaultAuthorizationCode, "authorization code to redeem")
	flags.String("tenant", exchange.DefaultTenant, "directory tenant used to derive the endpoints")
	flags.String("scope", exchange.DefaultScope, "requested scope")
	flags.String("token-url", "", "token endpoint override")
	flags.String("auth-url", "", "authorization endpoint override")
	flags.Duration("timeout", 0, "request timeout (0 waits indefinitely)")
	flags.Bool("strict", false, "fail on provider errors and missing tokens")
	flags.String("log-level", "", "log level: debug, info, warn or error")

	a.bind(flags, "oauth.client_id", "client-id")
	a.bind(flags, "oauth.client_secret", "client-secret")
	a.bind(flags, "oauth.redirect_uri", "redirect-uri")
	a.bind(flags, "oauth.authorization_code", "code")
	a.bind(flags, "oauth.tenant", "tenant")
	a.bind(flags, "oauth.scope", "scope")
	a.bind(flags, "oauth.token_url", "token-url")
	a.bind(flags, "oauth.auth_url", "auth-url")
	a.bind(flags, "oauth.timeout", "timeout")
	a.bind(flags, "oauth.strict", "strict")
	a.bind(flags, "log.level", "log-level")

	cmd.AddCommand(
		newAuthorizeURLCommand(a),
		newCallbackCommand(a),
		newMCPCommand(a),
	)
	return cmd
}
