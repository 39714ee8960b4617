//go:build windows

package replace

import (
	"errors"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

var errExecUnsupported = errors.New("process replacement is not supported on windows")

func execve(string, []string, []string) error {
	return errExecUnsupported
}

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.DETACHED_PROCESS,
	}
}
