package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad input")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidInput, err.Code)
	}
	if err.Message != "bad input" {
		t.Errorf("expected message 'bad input', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("INVALID_INPUT should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	if !New(ErrCodeTimeout, "timed out").Retryable {
		t.Error("TIMEOUT should be retryable")
	}
	if !New(ErrCodeConnectionFailed, "refused").Retryable {
		t.Error("CONNECTION_FAILED should be retryable")
	}
	if New(ErrCodeSpawnFailed, "missing").Retryable {
		t.Error("SPAWN_FAILED should not be retryable")
	}
}

func TestAppError_Error(t *testing.T) {
	err := New(ErrCodeInternal, "oops")
	if got := err.Error(); got != "INTERNAL_ERROR: oops" {
		t.Errorf("unexpected message %q", got)
	}

	err.WithCause(fmt.Errorf("disk"))
	if got := err.Error(); got != "INTERNAL_ERROR: oops (cause: disk)" {
		t.Errorf("unexpected message with cause %q", got)
	}
}

func TestEmptyArgument(t *testing.T) {
	err := EmptyArgument([]string{"ls", "", "-la"})
	if err.Code != ErrCodeInvalidCommand {
		t.Errorf("expected INVALID_COMMAND, got %s", err.Code)
	}
	if err.Message != `Empty item found in command "ls  -la".` {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestSubcommand(t *testing.T) {
	err := Subcommand("$(rm -rf /)", []string{"ls", "$(rm -rf /)"})
	want := `Invalid command -- attempted subcommand "$(rm -rf /)" within full command "ls $(rm -rf /)".`
	if err.Message != want {
		t.Errorf("expected %q, got %q", want, err.Message)
	}
	if err.Details["argument"] != "$(rm -rf /)" {
		t.Errorf("expected argument detail, got %v", err.Details["argument"])
	}
}

func TestSpawnFailed(t *testing.T) {
	cause := fmt.Errorf("executable file not found in $PATH")
	err := SpawnFailed([]string{"nope", "-v"}, cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected SpawnFailed to unwrap to its cause")
	}
	if !strings.HasPrefix(err.Message, `OS Error occurred during command call "nope -v": `) {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Validation("nope"))

	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected to find AppError through wrapping")
	}
	if appErr.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if !IsAppError(wrapped) {
		t.Error("IsAppError should be true for wrapped AppError")
	}
	if IsAppError(fmt.Errorf("plain")) {
		t.Error("IsAppError should be false for plain errors")
	}
}

func TestHasCode(t *testing.T) {
	err := Subcommand("$(x)", []string{"$(x)"})
	if !HasCode(err, ErrCodeInvalidCommand) {
		t.Error("expected INVALID_COMMAND code")
	}
	if HasCode(err, ErrCodeSpawnFailed) {
		t.Error("did not expect SPAWN_FAILED code")
	}
}

func TestWithDetail_NilMap(t *testing.T) {
	err := &AppError{Code: ErrCodeInternal}
	err.WithDetail("k", "v")
	if err.Details["k"] != "v" {
		t.Errorf("expected detail to be set, got %v", err.Details)
	}
}

func TestInternal(t *testing.T) {
	cause := fmt.Errorf("panic: nil map")
	err := Internal(cause)
	if err.Code != ErrCodeInternal || err.Cause != cause {
		t.Errorf("unexpected internal error %+v", err)
	}
}
