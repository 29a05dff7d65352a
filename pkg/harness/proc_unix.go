//go:build !windows

package harness

import (
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessTree kills the process group led by p, which includes every
// forked descendant that did not create a group of its own.
func killProcessTree(p *os.Process) error {
	if p == nil {
		return nil
	}
	if err := unix.Kill(-p.Pid, unix.SIGKILL); err != nil && err != unix.ESRCH {
		return p.Kill()
	}
	return nil
}

// waitProcessTree polls until no process of the group led by p remains or
// the timeout elapses.
func waitProcessTree(p *os.Process, timeout time.Duration) {
	if p == nil {
		return
	}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if err := unix.Kill(-p.Pid, 0); err == unix.ESRCH {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}
