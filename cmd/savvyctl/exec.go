package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/savvy/process"
	"github.com/kbukum/savvy/termination"
)

type execOptions struct {
	dir      string
	env      []string
	boolMode bool
	stream   bool
	quiet    bool
}

func newExecCmd(a *app) *cobra.Command {
	var o execOptions

	cmd := &cobra.Command{
		Use:   "exec [flags] -- COMMAND [ARG...]",
		Short: "Run a command without a shell",
		Long: `Run COMMAND with its arguments directly, without a shell.

Arguments that start with $( are rejected. The captured stdout and stderr
are printed once the command finishes, and its exit status becomes the exit
status of savvyctl. With --bool only success or failure is reported.`,
		Example: `  savvyctl exec -- ls -la
  savvyctl exec --dir /tmp --env LANG=C -- sort data.txt
  savvyctl exec --bool -- test -f /etc/hosts`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.exec(cmd.Context(), process.Command(args), o)
		},
	}

	fs := cmd.Flags()
	fs.SetInterspersed(false)
	fs.StringVar(&o.dir, "dir", "", "working directory of the command")
	fs.StringArrayVar(&o.env, "env", nil, "extra environment entry KEY=VALUE, repeatable")
	fs.BoolVar(&o.boolMode, "bool", false, "report only success or failure")
	fs.BoolVar(&o.stream, "stream", false, "pass output through instead of capturing it")
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "do not log rejected or failed commands")

	return cmd
}

func (a *app) exec(ctx context.Context, cmd process.Command, o execOptions) error {
	cfg := a.cfg.Process
	cfg.Logger = a.log.WithComponent("process")
	runner, err := process.New(cfg)
	if err != nil {
		return err
	}

	opts := []process.ExecOption{process.WithEnv(o.env...)}
	if o.dir != "" {
		opts = append(opts, process.WithDir(o.dir))
	}
	if o.stream {
		opts = append(opts, process.WithStdout(a.out), process.WithStderr(a.errOut))
	}
	if o.quiet {
		opts = append(opts, process.WithLogOnError(false))
	}

	if o.boolMode {
		ok := runner.BoolExec(ctx, cmd, opts...)
		if termination.IsInterrupted(ctx) {
			return termination.Request(nil, 0, termination.ErrInterrupted)
		}
		if !ok {
			return &exitError{code: 1}
		}
		return nil
	}

	res := runner.Exec(ctx, cmd, opts...)
	if res.Interrupted {
		return termination.Request(nil, 0, termination.ErrInterrupted)
	}
	if res.Stdout != "" {
		_, _ = fmt.Fprintln(a.out, res.Stdout)
	}
	if res.Stderr != "" {
		_, _ = fmt.Fprintln(a.errOut, res.Stderr)
	}
	if res.Status != 0 {
		return &exitError{code: exitStatus(res.Status)}
	}
	return nil
}

// exitStatus maps a child status to a shell exit code. A process killed by a
// signal reports -1.
func exitStatus(status int) int {
	if status < 0 || status > 255 {
		return process.DefaultErrorStatus
	}
	return status
}
