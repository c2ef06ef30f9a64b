//go:build freebsd

package ferr

import "syscall"

// classifyPlatform maps FreeBSD errno values onto Kind. ENOTCAPABLE and
// ECAPMODE are capsicum-specific and stay distinct from each other and
// from the generic Permission kind: ENOTCAPABLE (RightRevoked) is a
// rights-mask violation on a specific descriptor, ECAPMODE
// (CapabilityMode) is "this operation cannot be performed at all while
// in capability mode".
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
	case syscall.ECAPMODE:
		return CapabilityMode
	case syscall.ENOTCAPABLE:
		return RightRevoked
	case syscall.EOPNOTSUPP, syscall.EAFNOSUPPORT: // ENOTSUP has the same value as EOPNOTSUPP
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
