//go:build freebsd

package descriptor

import "golang.org/x/sys/unix"

// rightToCapConst maps capkit/rights.Right (by ordinal) to the FreeBSD
// CAP_* capability right constants consumed by cap_rights_set(3). The
// order here must track the Right iota block in rights/rights.go
// exactly.
var rightToCapConst = [...]uint64{
	unix.CAP_READ,
	unix.CAP_WRITE,
	unix.CAP_SEEK,
	unix.CAP_PREAD,
	unix.CAP_PWRITE,
	unix.CAP_MMAP_R,
	unix.CAP_MMAP_W,
	unix.CAP_MMAP_X,
	unix.CAP_FSTAT,
	unix.CAP_FCHMOD,
	unix.CAP_FCHOWN,
	unix.CAP_FTRUNCATE,
	unix.CAP_FSYNC,
	unix.CAP_LOOKUP,
	unix.CAP_CREATE,
	unix.CAP_UNLINKAT,
	unix.CAP_MKDIRAT,
	unix.CAP_RENAMEAT_SOURCE,
	unix.CAP_RENAMEAT_TARGET,
	unix.CAP_ACCEPT,
	unix.CAP_BIND,
	unix.CAP_CONNECT,
	unix.CAP_LISTEN,
	unix.CAP_GETPEERNAME,
	unix.CAP_GETSOCKNAME,
	unix.CAP_SEND,
	unix.CAP_RECV,
	unix.CAP_IOCTL,
	unix.CAP_FCNTL,
}
