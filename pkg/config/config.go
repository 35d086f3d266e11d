// Package config loads runtime settings with viper. Every credential has an
// embedded placeholder default so the exchange runs without any input;
// flags, TOKEN_EXCHANGE_* environment variables and an optional config file
// override them.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-training/token-exchange/pkg/exchange"
	"github.com/go-training/token-exchange/pkg/store"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// TOKEN_EXCHANGE_OAUTH_CLIENT_ID.
const EnvPrefix = "TOKEN_EXCHANGE"

// Embedded defaults, replaced per deployment.
const (
	DefaultClientID          = "your_client_id"
	DefaultClientSecret      = "your_client_secret"
	DefaultRedirectURI       = "your_redirect_uri"
	DefaultAuthorizationCode = "your_authorization_code"
)

// Config is the complete runtime configuration.
type Config struct {
	OAuth    OAuth    `mapstructure:"oauth"`
	Log      Log      `mapstructure:"log"`
	Store    Store    `mapstructure:"store"`
	Callback Callback `mapstructure:"callback"`
	MCP      MCP      `mapstructure:"mcp"`
}

// OAuth holds the exchange inputs.
type OAuth struct {
	ClientID          string        `mapstructure:"client_id"`
	ClientSecret      string        `mapstructure:"client_secret"`
	RedirectURI       string        `mapstructure:"redirect_uri"`
	AuthorizationCode string        `mapstructure:"authorization_code"`
	Tenant            string        `mapstructure:"tenant"`
	Scope             string        `mapstructure:"scope"`
	TokenURL          string        `mapstructure:"token_url"`
	AuthURL           string        `mapstructure:"auth_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	Strict            bool          `mapstructure:"strict"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

type Store struct {
	Type  string `mapstructure:"type"`
	Redis Redis  `mapstructure:"redis"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Callback struct {
	Addr     string        `mapstructure:"addr"`
	StateTTL time.Duration `mapstructure:"state_ttl"`
}

type MCP struct {
	Addr      string `mapstructure:"addr"`
	Transport string `mapstructure:"transport"`
}

// SetDefaults registers every key so environment overrides are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("oauth.client_id", DefaultClientID)
	v.SetDefault("oauth.client_secret", DefaultClientSecret)
	v.SetDefault("oauth.redirect_uri", DefaultRedirectURI)
	v.SetDefault("oauth.authorization_code", DefaultAuthorizationCode)
	v.SetDefault("oauth.tenant", exchange.DefaultTenant)
	v.SetDefault("oauth.scope", exchange.DefaultScope)
	v.SetDefault("oauth.token_url", "")
	v.SetDefault("oauth.auth_url", "")
	v.SetDefault("oauth.timeout", time.Duration(0))
	v.SetDefault("oauth.strict", false)

	v.SetDefault("log.level", "")

	v.SetDefault("store.type", string(store.StoreTypeMemory))
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)

	v.SetDefault("callback.addr", ":8085")
	v.SetDefault("callback.state_ttl", 10*time.Minute)

	v.SetDefault("mcp.addr", ":8080")
	v.SetDefault("mcp.transport", "stdio")
}

// New returns a viper instance with defaults and environment binding applied.
// An environment variable set to the empty string overrides its default.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and decodes the result.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Exchange converts the OAuth section into exchanger settings.
func (c *Config) Exchange() exchange.Config {
	return exchange.Config{
		ClientID:     c.OAuth.ClientID,
		ClientSecret: c.OAuth.ClientSecret,
		RedirectURI:  c.OAuth.RedirectURI,
		Scope:        c.OAuth.Scope,
		Tenant:       c.OAuth.Tenant,
		TokenURL:     c.OAuth.TokenURL,
		AuthURL:      c.OAuth.AuthURL,
		Timeout:      c.OAuth.Timeout,
		Strict:       c.OAuth.Strict,
	}
}

// StoreConfig converts the store section into a store factory configuration.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Type: store.ParseStoreType(c.Store.Type),
		Redis: store.RedisOptions{
			Addr:     c.Store.Redis.Addr,
			Password: c.Store.Redis.Password,
			DB:       c.Store.Redis.DB,
		},
	}
}
