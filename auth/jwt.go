package auth

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kbukum/savvy/logger"
)

// SigningMethod defines supported JWT signing algorithms.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
	RS256 SigningMethod = "RS256"
	RS384 SigningMethod = "RS384"
	RS512 SigningMethod = "RS512"
	ES256 SigningMethod = "ES256"
	ES384 SigningMethod = "ES384"
	ES512 SigningMethod = "ES512"
)

// JWTConfig configures a JWTSource.
type JWTConfig struct {
	// Secret is the HMAC signing key (required for HS* methods).
	Secret string `yaml:"secret" mapstructure:"secret"`

	// PrivateKey is the RSA or ECDSA private key (required for RS*/ES* methods).
	PrivateKey interface{} `yaml:"-" mapstructure:"-"`

	// Method is the signing algorithm (default: HS256).
	Method SigningMethod `yaml:"method" mapstructure:"method"`

	// Issuer is the "iss" claim (optional).
	Issuer string `yaml:"issuer" mapstructure:"issuer"`

	// Subject is the "sub" claim (optional).
	Subject string `yaml:"subject" mapstructure:"subject"`

	// Audience is the "aud" claim (optional).
	Audience []string `yaml:"audience" mapstructure:"audience"`

	// TTL is the lifetime of each token (default: 5m).
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`

	// Claims are extra private claims added to every token.
	Claims map[string]any `yaml:"claims" mapstructure:"claims"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *JWTConfig) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TTL <= 0 {
		c.TTL = 5 * time.Minute
	}
}

// Validate checks required fields based on the signing method.
func (c *JWTConfig) Validate() error {
	switch c.Method {
	case HS256, HS384, HS512:
		if c.Secret == "" {
			return errors.New("jwt: secret is required for HMAC signing methods")
		}
	case RS256, RS384, RS512:
		if _, ok := c.PrivateKey.(*rsa.PrivateKey); !ok {
			return errors.New("jwt: private key must be *rsa.PrivateKey for RSA signing methods")
		}
	case ES256, ES384, ES512:
		if _, ok := c.PrivateKey.(*ecdsa.PrivateKey); !ok {
			return errors.New("jwt: private key must be *ecdsa.PrivateKey for ECDSA signing methods")
		}
	default:
		return errors.New("jwt: unsupported signing method: " + string(c.Method))
	}
	return nil
}

// signingMethod returns the golang-jwt SigningMethod instance.
func (c *JWTConfig) signingMethod() gojwt.SigningMethod {
	if m := gojwt.GetSigningMethod(string(c.Method)); m != nil {
		return m
	}
	return gojwt.SigningMethodHS256
}

// signKey returns the key used for signing tokens.
func (c *JWTConfig) signKey() interface{} {
	switch c.Method {
	case HS256, HS384, HS512:
		return []byte(c.Secret)
	default:
		return c.PrivateKey
	}
}

// JWTSource signs a fresh token for every request.
type JWTSource struct {
	cfg JWTConfig
	log logger.Sink
	now func() time.Time
}

// NewJWTSource creates a JWTSource. log receives signing failures; nil
// builds a local console logger.
func NewJWTSource(cfg JWTConfig, log logger.Sink) (*JWTSource, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &JWTSource{cfg: cfg, log: logger.OrDefault(log, "auth"), now: time.Now}, nil
}

// Token signs a new token valid for the configured TTL.
func (s *JWTSource) Token() (string, error) {
	now := s.now()
	claims := gojwt.MapClaims{}
	for k, v := range s.cfg.Claims {
		claims[k] = v
	}
	claims["iat"] = now.Unix()
	claims["nbf"] = now.Unix()
	claims["exp"] = now.Add(s.cfg.TTL).Unix()
	claims["jti"] = uuid.NewString()
	if s.cfg.Issuer != "" {
		claims["iss"] = s.cfg.Issuer
	}
	if s.cfg.Subject != "" {
		claims["sub"] = s.cfg.Subject
	}
	switch len(s.cfg.Audience) {
	case 0:
	case 1:
		claims["aud"] = s.cfg.Audience[0]
	default:
		claims["aud"] = s.cfg.Audience
	}

	signed, err := gojwt.NewWithClaims(s.cfg.signingMethod(), claims).SignedString(s.cfg.signKey())
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Value returns the auth value for one request: "Bearer <token>", or "" when
// signing fails.
func (s *JWTSource) Value() string {
	token, err := s.Token()
	if err != nil {
		s.log.Error("Could not sign auth token", logger.ErrorFields("jwt.sign", err))
		return ""
	}
	return "Bearer " + token
}
