//go:build !freebsd

package ferr

import "syscall"

// classifyPlatform handles the portable subset of errno values on
// non-FreeBSD hosts. capkit's kernel-facing packages stub out their
// FreeBSD-only operations (capability mode, jails, ACLs, MAC labels) on
// these hosts with NotSupported directly, so CapabilityMode and
// RightRevoked are never produced here — there is no capsicum to report
// them from.
func classifyPlatform(errno syscall.Errno) Kind {
	switch errno {
	case syscall.EPERM:
		return Permission
	case syscall.ENOENT:
		return NotFound
	case syscall.EEXIST:
		return AlreadyExists
	case syscall.EINVAL:
		return InvalidArgument
	case syscall.EOPNOTSUPP:
		return NotSupported
	case syscall.EBUSY, syscall.EAGAIN:
		return Busy
	case syscall.EINTR:
		return Interrupted
	case syscall.ERANGE:
		return Range
	default:
		return IO
	}
}
