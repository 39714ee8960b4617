//go:build unix

package replace

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

func execve(path string, argv []string, env []string) error {
	return unix.Exec(path, argv, env)
}

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
