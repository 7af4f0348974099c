package process

import "time"

// DefaultErrorStatus is reported when no process exit code is available:
// the command was rejected or could not be started.
const DefaultErrorStatus = 1

// Result holds the normalized outcome of a command run.
type Result struct {
	// Status is the exit code. -1 if the process was killed by a signal.
	Status int
	// Stdout is the decoded and trimmed standard output. Empty when the
	// output went to a caller-provided writer.
	Stdout string
	// Stderr is the decoded and trimmed standard error, or the validation
	// message of a rejected command.
	Stderr string
	// Duration is how long the process ran.
	Duration time.Duration
	// Interrupted is set when the run ended because of a user interrupt.
	Interrupted bool
}

// Success reports whether the command exited with status 0.
func (r Result) Success() bool {
	return r.Status == 0
}
