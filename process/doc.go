// Package process runs external commands with injection checks and
// normalized results.
//
// A Runner validates every argument before anything is spawned: empty
// arguments and arguments opening with a $(...) subcommand marker are
// rejected. Accepted commands run without a shell, both output streams are
// drained concurrently and the captured bytes are decoded as UTF-8 with
// invalid sequences replaced, then trimmed.
//
// Failures never propagate. Rejected commands and spawn failures are logged
// and reported as DefaultErrorStatus in the Result:
//
//	r, _ := process.New(process.Config{})
//	res := r.Exec(ctx, process.Command{"git", "rev-parse", "HEAD"})
//	if res.Status != 0 {
//		// res.Stderr explains why
//	}
//
//	if r.BoolExec(ctx, process.Command{"mkdir", "-p", "out"}) {
//		// created
//	}
//
// Cancelling the context sends SIGTERM to the child's process group and
// SIGKILL after Config.GracePeriod. A context cancelled with
// termination.ErrInterrupted marks the Result as interrupted and calls
// Config.Terminate with exit code 0.
package process
