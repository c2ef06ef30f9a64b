//go:build freebsd

package sandbox

import (
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/freebsdkit/capkit/ferr"
)

func sysCapEnter() error {
	if err := unix.CapEnter(); err != nil {
		return ferr.FromErrno("cap_enter", "", err.(syscall.Errno))
	}
	return nil
}

func sysCapGetMode() (bool, error) {
	mode, err := unix.CapGetMode()
	if err != nil {
		return false, ferr.FromErrno("cap_getmode", "", err.(syscall.Errno))
	}
	return mode != 0, nil
}
