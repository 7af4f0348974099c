// Package termination carries fail-fast and interrupt requests from library
// code to the hosting application.
//
// Library code never exits the process. It returns a *Signal (and calls the
// configured Handler, if any); the host decides whether that means os.Exit,
// task cancellation or escalation.
package termination

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// ErrInterrupted is the context cancellation cause used for user interrupts.
var ErrInterrupted = errors.New("interrupted by user")

// Handler is invoked with the exit code a terminating condition asks for.
type Handler func(code int)

// Exit is a Handler that ends the process with os.Exit. Hosts opt into it
// explicitly; no library component uses it by default.
func Exit(code int) {
	os.Exit(code)
}

// Signal is returned by library calls that ask the host to terminate.
// Code 0 means a deliberate user interrupt, anything else a fail-fast policy.
type Signal struct {
	Code  int
	Cause error
}

// Error implements the error interface.
func (s *Signal) Error() string {
	if s.Cause != nil {
		return fmt.Sprintf("termination requested (code %d): %v", s.Code, s.Cause)
	}
	return fmt.Sprintf("termination requested (code %d)", s.Code)
}

// Unwrap returns the condition that triggered termination.
func (s *Signal) Unwrap() error { return s.Cause }

// Interrupted reports whether the signal stems from a user interrupt.
func (s *Signal) Interrupted() bool { return s.Code == 0 }

// Request builds a Signal and calls h with its code when h is set.
func Request(h Handler, code int, cause error) *Signal {
	if h != nil {
		h(code)
	}
	return &Signal{Code: code, Cause: cause}
}

// AsSignal extracts a *Signal from err.
func AsSignal(err error) (*Signal, bool) {
	var s *Signal
	if errors.As(err, &s) {
		return s, true
	}
	return nil, false
}

// IsSignal reports whether err carries a termination request.
func IsSignal(err error) bool {
	_, ok := AsSignal(err)
	return ok
}

// IsInterrupted reports whether ctx was cancelled by a user interrupt.
func IsInterrupted(ctx context.Context) bool {
	return ctx.Err() != nil && errors.Is(context.Cause(ctx), ErrInterrupted)
}

// NotifyContext returns a context cancelled with cause ErrInterrupted when the
// process receives SIGINT or SIGTERM. Call stop to release the signal handler.
func NotifyContext(parent context.Context) (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancelCause(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			cancel(ErrInterrupted)
		case <-ctx.Done():
		case <-done:
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		close(done)
		cancel(context.Canceled)
	}
}

// Interrupt cancels ctx-derived work the same way a received signal would.
// It is the programmatic counterpart of NotifyContext.
func Interrupt(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)
	return ctx, func() { cancel(ErrInterrupted) }
}
