package process

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"
)

// outcome is the raw result of one spawned process.
type outcome struct {
	stdout   []byte
	stderr   []byte
	status   int
	duration time.Duration
}

// startError marks a failure to create the process, as opposed to a failure
// while talking to it.
type startError struct {
	err error
}

func (e *startError) Error() string { return e.err.Error() }
func (e *startError) Unwrap() error { return e.err }

// run spawns cmd and blocks until it exits, draining both output pipes
// concurrently. When the context is done the child's process group receives
// SIGTERM, then SIGKILL after the grace period.
func run(ctx context.Context, cmd Command, cfg Config) (outcome, error) {
	c := exec.CommandContext(ctx, cmd[0], cmd[1:]...) //nolint:gosec // arguments are validated by the runner
	c.Dir = cfg.Dir
	c.Env = mergeEnv(cfg.Env)
	c.Stdin = cfg.Stdin
	c.WaitDelay = cfg.GracePeriod
	configure(c, cfg.SysProcAttr)

	var pipes []io.ReadCloser
	defer func() {
		for _, p := range pipes {
			_ = p.Close()
		}
	}()

	var g errgroup.Group
	stdout, err := capture(&g, &pipes, &c.Stdout, cfg.Stdout, c.StdoutPipe, cfg.BufferSize)
	if err != nil {
		return outcome{status: DefaultErrorStatus}, &startError{err: err}
	}
	stderr, err := capture(&g, &pipes, &c.Stderr, cfg.Stderr, c.StderrPipe, cfg.BufferSize)
	if err != nil {
		return outcome{status: DefaultErrorStatus}, &startError{err: err}
	}

	start := time.Now()
	if err := c.Start(); err != nil {
		return outcome{status: DefaultErrorStatus}, &startError{err: err}
	}

	// Both pipes must be drained before Wait closes them.
	drainErr := g.Wait()
	waitErr := c.Wait()

	out := outcome{
		stdout:   stdout.Bytes(),
		stderr:   stderr.Bytes(),
		status:   DefaultErrorStatus,
		duration: time.Since(start),
	}
	if c.ProcessState != nil {
		out.status = c.ProcessState.ExitCode()
	}

	if drainErr != nil {
		return out, drainErr
	}
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return out, waitErr
	}
	return out, nil
}

// capture connects one output stream. A non-nil target receives the stream
// directly and nothing is captured; otherwise the stream is piped and drained
// into the returned buffer by a goroutine in g.
func capture(
	g *errgroup.Group,
	pipes *[]io.ReadCloser,
	dst *io.Writer,
	target io.Writer,
	pipe func() (io.ReadCloser, error),
	size int,
) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if target != nil {
		*dst = target
		return buf, nil
	}

	r, err := pipe()
	if err != nil {
		return nil, err
	}
	*pipes = append(*pipes, r)
	if size > 0 {
		buf.Grow(size)
	}
	g.Go(func() error {
		_, err := buf.ReadFrom(r)
		return err
	})
	return buf, nil
}

// mergeEnv merges additional env vars with the current environment.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	env := os.Environ()
	return append(env, extra...)
}
