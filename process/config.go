package process

import (
	"io"
	"syscall"
	"time"

	"github.com/kbukum/savvy/logger"
	"github.com/kbukum/savvy/termination"
	"github.com/kbukum/savvy/util"
	"github.com/kbukum/savvy/validation"
)

const (
	// DefaultBufferSize leaves capture buffers to grow on demand.
	DefaultBufferSize = -1

	defaultGracePeriod = 5 * time.Second
)

// Config holds the runner defaults. Every field can be overridden per call
// with an ExecOption.
type Config struct {
	// BufferSize is the initial capacity of each capture buffer.
	// -1 (the default) lets the buffers grow on demand.
	BufferSize int `yaml:"buffer_size" mapstructure:"buffer_size" validate:"gte=-1"`

	// Stdout receives the child's standard output instead of capturing it.
	Stdout io.Writer `yaml:"-" mapstructure:"-"`

	// Stderr receives the child's standard error instead of capturing it.
	Stderr io.Writer `yaml:"-" mapstructure:"-"`

	// Stdin feeds the child. Nil connects it to the null device.
	Stdin io.Reader `yaml:"-" mapstructure:"-"`

	// SysProcAttr holds platform creation flags. Nil starts the child in its
	// own process group where the platform supports it.
	SysProcAttr *syscall.SysProcAttr `yaml:"-" mapstructure:"-"`

	// Dir is the working directory. Empty uses the current directory.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// Env is appended to the inherited environment (key=value).
	Env []string `yaml:"env" mapstructure:"env"`

	// GracePeriod is the delay between SIGTERM and SIGKILL once the context
	// is done. Defaults to 5s.
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period" validate:"gte=0"`

	// LogOnError logs rejected commands and spawn failures. Defaults to true.
	LogOnError *bool `yaml:"log_on_error" mapstructure:"log_on_error"`

	// Logger receives error logs. Nil builds a local console logger.
	Logger logger.Sink `yaml:"-" mapstructure:"-"`

	// Terminate is called with exit code 0 when a run is interrupted.
	Terminate termination.Handler `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.BufferSize == 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.GracePeriod <= 0 {
		c.GracePeriod = defaultGracePeriod
	}
	if c.LogOnError == nil {
		c.LogOnError = util.Ptr(true)
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
