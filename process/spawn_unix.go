//go:build unix

package process

import (
	"os/exec"
	"syscall"
)

// configure applies creation flags. Without explicit flags the child gets its
// own process group so cancellation reaches the whole tree.
func configure(c *exec.Cmd, attr *syscall.SysProcAttr) {
	if attr == nil {
		attr = &syscall.SysProcAttr{Setpgid: true}
	}
	c.SysProcAttr = attr

	// Don't let exec.CommandContext kill with SIGKILL immediately
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		if attr.Setpgid {
			return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
		}
		return c.Process.Signal(syscall.SIGTERM)
	}
}
