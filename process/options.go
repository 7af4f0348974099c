package process

import (
	"io"
	"syscall"
)

// ExecOption overrides a runner default for a single call.
type ExecOption func(*Config)

// WithBufferSize sets the initial capture buffer capacity.
func WithBufferSize(n int) ExecOption {
	return func(c *Config) { c.BufferSize = n }
}

// WithStdout streams standard output to w instead of capturing it.
func WithStdout(w io.Writer) ExecOption {
	return func(c *Config) { c.Stdout = w }
}

// WithStderr streams standard error to w instead of capturing it.
func WithStderr(w io.Writer) ExecOption {
	return func(c *Config) { c.Stderr = w }
}

// WithStdin feeds r to the child's standard input.
func WithStdin(r io.Reader) ExecOption {
	return func(c *Config) { c.Stdin = r }
}

// WithSysProcAttr sets platform creation flags.
func WithSysProcAttr(attr *syscall.SysProcAttr) ExecOption {
	return func(c *Config) { c.SysProcAttr = attr }
}

// WithDir sets the working directory.
func WithDir(dir string) ExecOption {
	return func(c *Config) { c.Dir = dir }
}

// WithEnv appends key=value pairs to the inherited environment.
func WithEnv(env ...string) ExecOption {
	return func(c *Config) { c.Env = append(append([]string(nil), c.Env...), env...) }
}

// WithLogOnError overrides error logging for one call.
func WithLogOnError(enabled bool) ExecOption {
	return func(c *Config) {
		c.LogOnError = &enabled
	}
}

func (c Config) with(opts []ExecOption) Config {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
