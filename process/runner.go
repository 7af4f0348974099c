package process

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/encoding/unicode"

	"github.com/kbukum/savvy/errors"
	"github.com/kbukum/savvy/logger"
	"github.com/kbukum/savvy/observability"
	"github.com/kbukum/savvy/termination"
	"github.com/kbukum/savvy/util"
)

// Runner validates and executes commands, absorbing every failure into a
// Result. It is safe for concurrent use.
type Runner struct {
	config  Config
	log     logger.Sink
	metrics *observability.Metrics
}

// New creates a Runner with the given defaults.
func New(cfg Config) (*Runner, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		config:  cfg,
		log:     logger.OrDefault(cfg.Logger, "process"),
		metrics: observability.DefaultMetrics(),
	}, nil
}

// Exec validates cmd, runs it to completion and returns its status with the
// decoded, trimmed output.
//
// A rejected command yields DefaultErrorStatus with the validation message as
// Stderr. A command that cannot be started yields DefaultErrorStatus with
// empty output. Exec never returns an error.
func (r *Runner) Exec(ctx context.Context, cmd Command, opts ...ExecOption) Result {
	cfg := r.config.with(opts)
	execID := uuid.NewString()

	ctx, op := observability.StartOperation(ctx, observability.SpanProcessExec,
		attribute.String(observability.AttrProgram, cmd.Program()),
		attribute.String(observability.AttrRequestID, execID),
	)

	res, err := r.exec(ctx, cmd, cfg, execID)

	op.SetAttributes(
		attribute.Int(observability.AttrExitStatus, res.Status),
		attribute.Bool(observability.AttrInterrupted, res.Interrupted),
	)
	r.metrics.RecordExec(ctx, cmd.Program(), res.Status, op.Duration())
	op.End(ctx, err)

	return res
}

func (r *Runner) exec(ctx context.Context, cmd Command, cfg Config, execID string) (Result, error) {
	logOnError := util.DerefOr(cfg.LogOnError, true)
	fields := logger.Fields(logger.FieldCommand, cmd.String(), logger.FieldRequestID, execID)

	if err := cmd.Validate(); err != nil {
		msg := err.Error()
		if appErr, ok := errors.AsAppError(err); ok {
			msg = appErr.Message
		}
		if logOnError {
			r.log.Error(msg, fields)
		}
		return Result{Status: DefaultErrorStatus, Stderr: msg}, err
	}

	out, err := run(ctx, cmd, cfg)

	if termination.IsInterrupted(ctx) {
		termination.Request(cfg.Terminate, 0, termination.ErrInterrupted)
		res := finalize(out)
		res.Interrupted = true
		return res, termination.ErrInterrupted
	}

	if se, ok := err.(*startError); ok {
		appErr := errors.SpawnFailed(cmd, se.err)
		if logOnError {
			r.log.Error(appErr.Message, fields)
		}
		return Result{Status: DefaultErrorStatus}, appErr
	}

	res := finalize(out)
	if err != nil {
		if logOnError {
			r.log.Warn(fmt.Sprintf("Error while communicating with command \"%s\": %v", cmd, err), fields)
		}
		return res, err
	}
	if res.Status != 0 {
		return res, fmt.Errorf("exit status %d", res.Status)
	}
	return res, nil
}

// BoolExec runs cmd and reports whether it exited with status 0. Non-zero
// statuses and unexpected failures are logged; nothing is propagated.
func (r *Runner) BoolExec(ctx context.Context, cmd Command, opts ...ExecOption) (ok bool) {
	defer func() {
		if v := recover(); v != nil {
			r.log.Error(fmt.Sprintf("Command \"%s\" failed with unknown error: %v.", cmd, v))
			ok = false
		}
	}()

	res := r.Exec(ctx, cmd, opts...)
	switch {
	case res.Interrupted:
		r.log.Error(fmt.Sprintf("Command \"%s\" failed with unknown error: %v.", cmd, termination.ErrInterrupted))
		return false
	case res.Status != 0:
		r.log.Error(fmt.Sprintf("Command \"%s\" returned non-zero status(%d) with error: %s.", cmd, res.Status, res.Stderr))
		return false
	}
	return true
}

// finalize decodes and trims the captured output.
func finalize(out outcome) Result {
	return Result{
		Status:   out.status,
		Stdout:   decode(out.stdout),
		Stderr:   decode(out.stderr),
		Duration: out.duration,
	}
}

// decode trims surrounding whitespace and converts b to text, replacing
// invalid UTF-8 sequences with U+FFFD.
func decode(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ""
	}
	text, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, []byte("\uFFFD")))
	}
	return string(text)
}
