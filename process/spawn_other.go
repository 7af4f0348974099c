//go:build !unix

package process

import (
	"os/exec"
	"syscall"
)

// configure applies creation flags. Cancellation falls back to the default
// os/exec behavior of killing the process.
func configure(c *exec.Cmd, attr *syscall.SysProcAttr) {
	c.SysProcAttr = attr
}
