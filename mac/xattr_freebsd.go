//go:build freebsd

package mac

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/freebsdkit/capkit/ferr"
)

func ptrOf(b *byte) unsafe.Pointer { return unsafe.Pointer(b) }

// fdOwner is the minimal surface capkit's own descriptor types
// satisfy: File and Dir both expose Fd() without transferring
// ownership, which is what descriptor-based get/set needs for TOCTOU
// hardening.
type fdOwner interface {
	Fd() int
}

const extattrNamespaceSystem = unix.EXTATTR_NAMESPACE_SYSTEM

func getxattrPath(path, name string, buf []byte) (int, error) {
	var dataPtr uintptr
	if len(buf) > 0 {
		dataPtr = uintptr(ptrOf(&buf[0]))
	}
	n, err := unix.ExtattrGetFile(path, extattrNamespaceSystem, name, dataPtr, len(buf))
	if err != nil {
		return 0, ferr.FromErrno("extattr_get_file", path, errnoOf(err))
	}
	return n, nil
}

func setxattrPath(path, name string, value []byte) error {
	var dataPtr uintptr
	if len(value) > 0 {
		dataPtr = uintptr(ptrOf(&value[0]))
	}
	_, err := unix.ExtattrSetFile(path, extattrNamespaceSystem, name, dataPtr, len(value))
	if err != nil {
		return ferr.FromErrno("extattr_set_file", path, errnoOf(err))
	}
	return nil
}

func removexattrPath(path, name string) error {
	err := unix.ExtattrDeleteFile(path, extattrNamespaceSystem, name)
	if err != nil {
		if errnoOf(err) == unix.ENOATTR {
			return nil
		}
		return ferr.FromErrno("extattr_delete_file", path, errnoOf(err))
	}
	return nil
}

func getxattrFd(d fdOwner, name string, buf []byte) (int, error) {
	var dataPtr uintptr
	if len(buf) > 0 {
		dataPtr = uintptr(ptrOf(&buf[0]))
	}
	n, err := unix.ExtattrGetFd(d.Fd(), extattrNamespaceSystem, name, dataPtr, len(buf))
	if err != nil {
		return 0, ferr.FromErrno("extattr_get_fd", "", errnoOf(err))
	}
	return n, nil
}

func setxattrFd(d fdOwner, name string, value []byte) error {
	var dataPtr uintptr
	if len(value) > 0 {
		dataPtr = uintptr(ptrOf(&value[0]))
	}
	_, err := unix.ExtattrSetFd(d.Fd(), extattrNamespaceSystem, name, dataPtr, len(value))
	if err != nil {
		return ferr.FromErrno("extattr_set_fd", "", errnoOf(err))
	}
	return nil
}

func removexattrFd(d fdOwner, name string) error {
	err := unix.ExtattrDeleteFd(d.Fd(), extattrNamespaceSystem, name)
	if err != nil {
		if errnoOf(err) == unix.ENOATTR {
			return nil
		}
		return ferr.FromErrno("extattr_delete_fd", "", errnoOf(err))
	}
	return nil
}

func errnoOf(err error) unix.Errno {
	if errno, ok := err.(unix.Errno); ok {
		return errno
	}
	return unix.EIO
}
