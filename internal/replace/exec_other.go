//go:build !unix && !windows

package replace

import (
	"errors"
	"os/exec"
)

func execve(string, []string, []string) error {
	return errors.New("process replacement is not supported on this platform")
}

func detach(*exec.Cmd) {}
