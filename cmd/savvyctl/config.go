package main

import (
	"context"
	"fmt"

	"github.com/kbukum/savvy/auth"
	"github.com/kbukum/savvy/config"
	"github.com/kbukum/savvy/httpclient"
	"github.com/kbukum/savvy/logger"
	"github.com/kbukum/savvy/observability"
	"github.com/kbukum/savvy/process"
	"github.com/kbukum/savvy/util"
	"github.com/kbukum/savvy/version"
)

// CLIConfig is the savvyctl configuration file layout.
type CLIConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Client  httpclient.Config `yaml:"client" mapstructure:"client"`
	Auth    AuthConfig        `yaml:"auth" mapstructure:"auth"`
	Process process.Config    `yaml:"process" mapstructure:"process"`
	Tracing TracingConfig     `yaml:"tracing" mapstructure:"tracing"`
}

// AuthConfig selects how the client's auth header value is produced. The
// first configured source wins: OAuth2, then JWT, then the static token.
type AuthConfig struct {
	Header string                        `yaml:"header" mapstructure:"header"`
	Token  string                        `yaml:"token" mapstructure:"token"`
	JWT    *auth.JWTConfig               `yaml:"jwt,omitempty" mapstructure:"jwt"`
	OAuth2 *auth.ClientCredentialsConfig `yaml:"oauth2,omitempty" mapstructure:"oauth2"`
}

// TracingConfig enables OTLP export of spans and metrics.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *CLIConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "savvyctl"
	}
	if c.Version == "" {
		c.Version = version.Get().Short()
	}
	c.ServiceConfig.ApplyDefaults()
	c.Process.ApplyDefaults()

	if c.Auth.Header == "" && c.Auth.hasSource() {
		c.Auth.Header = httpclient.AuthorizationHeader
	}
	if c.Auth.JWT != nil {
		c.Auth.JWT.ApplyDefaults()
	}

	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = "localhost:4318"
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1.0
	}
}

// Validate checks the sections every command needs. The client section is
// validated when a client is built.
func (c *CLIConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Process.Validate(); err != nil {
		return fmt.Errorf("config.process: %w", err)
	}
	if c.Auth.JWT != nil {
		if err := c.Auth.JWT.Validate(); err != nil {
			return fmt.Errorf("config.auth.jwt: %w", err)
		}
	}
	if c.Auth.OAuth2 != nil {
		if err := c.Auth.OAuth2.Validate(); err != nil {
			return fmt.Errorf("config.auth.oauth2: %w", err)
		}
	}
	return nil
}

func (a *AuthConfig) hasSource() bool {
	return a.Token != "" || a.JWT != nil || a.OAuth2 != nil
}

// clientConfig returns the REST client configuration with auth and logging wired in.
func (c *CLIConfig) clientConfig(ctx context.Context, log logger.Sink) (httpclient.Config, error) {
	cc := c.Client
	cc.Logger = log
	cc.AuthHeaderName = util.Coalesce(cc.AuthHeaderName, c.Auth.Header)

	switch {
	case c.Auth.OAuth2 != nil:
		cc.AuthValueFunc = auth.OAuth2Value(c.Auth.OAuth2.TokenSource(ctx), log)
	case c.Auth.JWT != nil:
		src, err := auth.NewJWTSource(*c.Auth.JWT, log)
		if err != nil {
			return cc, err
		}
		cc.AuthValueFunc = src.Value
	case c.Auth.Token != "":
		cc.AuthValueFunc = auth.Static(c.Auth.Token)
	}
	return cc, nil
}

func (c *CLIConfig) tracerConfig(log logger.Sink) *observability.TracerConfig {
	return &observability.TracerConfig{
		ServiceName:    c.Name,
		ServiceVersion: c.Version,
		Environment:    c.Environment,
		Endpoint:       c.Tracing.Endpoint,
		Insecure:       c.Tracing.Insecure,
		SampleRate:     c.Tracing.SampleRate,
		Logger:         log,
	}
}

func (c *CLIConfig) meterConfig(log logger.Sink) *observability.MeterConfig {
	mc := observability.DefaultMeterConfig(c.Name)
	mc.ServiceVersion = c.Version
	mc.Environment = c.Environment
	mc.Endpoint = c.Tracing.Endpoint
	mc.Insecure = c.Tracing.Insecure
	mc.Logger = log
	return &mc
}

// masked returns a copy safe for display: credentials keep a short prefix.
func (c CLIConfig) masked() CLIConfig {
	c.Client.AuthHeaderValue = util.MaskSecret(c.Client.AuthHeaderValue, 4)
	c.Auth.Token = util.MaskSecret(c.Auth.Token, 4)
	if c.Auth.JWT != nil {
		jwt := *c.Auth.JWT
		jwt.Secret = util.MaskSecret(jwt.Secret, 0)
		c.Auth.JWT = &jwt
	}
	if c.Auth.OAuth2 != nil {
		o := *c.Auth.OAuth2
		o.ClientSecret = util.MaskSecret(o.ClientSecret, 0)
		c.Auth.OAuth2 = &o
	}
	return c
}
