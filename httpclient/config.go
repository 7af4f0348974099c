package httpclient

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/kbukum/savvy/logger"
	"github.com/kbukum/savvy/termination"
	"github.com/kbukum/savvy/util"
	"github.com/kbukum/savvy/validation"
)

const (
	defaultTimeout = 30 * time.Second

	// headerNamePattern accepts RFC 7230 token characters.
	headerNamePattern = "^[!#$%&'*+.^_`|~0-9A-Za-z-]+$"
)

// Config configures a Client. It is copied by New and never mutated afterwards.
type Config struct {
	// BaseURL is prefixed verbatim to every route. Trailing slashes are stripped.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// Headers are sent with every request. Request headers override them.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// AuthHeaderName enables the auth header when set.
	AuthHeaderName string `yaml:"auth_header_name" mapstructure:"auth_header_name"`

	// AuthHeaderValue is the static auth value, used only when AuthValueFunc is nil.
	AuthHeaderValue string `yaml:"auth_header_value" mapstructure:"auth_header_value"`

	// AuthValueFunc produces the auth value for every request. When set it
	// always wins over AuthHeaderValue, even if it returns "".
	AuthValueFunc func() string `yaml:"-" mapstructure:"-"`

	// LogOnError logs failed requests. Defaults to true.
	LogOnError *bool `yaml:"log_on_error" mapstructure:"log_on_error"`

	// FailFast asks the host to terminate on failed requests.
	FailFast bool `yaml:"fail_fast" mapstructure:"fail_fast"`

	// Timeout bounds non-streaming requests. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// Logger receives error and stream logs. Nil builds a local console logger.
	Logger logger.Sink `yaml:"-" mapstructure:"-"`

	// Terminate is called with the exit code of a termination request.
	Terminate termination.Handler `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.LogOnError == nil {
		c.LogOnError = util.Ptr(true)
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	v := validation.New().
		Pattern("auth_header_name", c.AuthHeaderName, headerNamePattern)
	seen := make(map[string]string, len(c.Headers))
	for _, k := range slices.Sorted(maps.Keys(c.Headers)) {
		key := http.CanonicalHeaderKey(k)
		if prev, ok := seen[key]; ok {
			v.AddError("headers", fmt.Sprintf("%q and %q name the same header", prev, k))
		}
		seen[key] = k
	}
	return v.Err()
}

func (c *Config) logOnError() bool {
	return util.DerefOr(c.LogOnError, true)
}

// canonicalHeaders copies h with canonical MIME header keys.
func canonicalHeaders(h map[string]string) map[string]string {
	return mergeHeaders(make(map[string]string, len(h)), h)
}

// mergeHeaders copies src into dst under canonical keys. Keys are visited in
// sorted order, so among names differing only by case the last one wins.
func mergeHeaders(dst, src map[string]string) map[string]string {
	for _, k := range slices.Sorted(maps.Keys(src)) {
		dst[http.CanonicalHeaderKey(k)] = src[k]
	}
	return dst
}
