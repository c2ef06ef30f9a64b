//go:build !freebsd

package descriptor

import (
	"github.com/freebsdkit/capkit/ferr"
	"github.com/freebsdkit/capkit/rights"
)

// This file backs every kernel-facing operation on non-FreeBSD hosts
// with ferr.NotSupported, so the pure-Go parts of capkit (rights
// algebra, ACL text/validity logic, MAC wire codec, jail parameter
// builder) still build and test on a Linux development machine.

func notSupported(op string) error { return ferr.New(ferr.NotSupported, op, "") }

func closeFd(fd int) error { return nil }

func capRightsLimit(fd int, set rights.Set) error { return notSupported("cap_rights_limit") }

func capRightsGet(fd int) (rights.Set, bool, error) {
	return rights.Set{}, false, notSupported("cap_rights_get")
}

func capIoctlsLimit(fd int, cmds []uint) error { return notSupported("cap_ioctls_limit") }

func capIoctlsGet(fd int) ([]uint, bool, error) {
	return nil, false, notSupported("cap_ioctls_get")
}

func capFcntlsLimit(fd int, set FcntlSet) error { return notSupported("cap_fcntls_limit") }

func sysOpen(path string, flags int, mode uint32) (int, error) { return -1, notSupported("open") }

func sysOpenat(dirfd int, rel string, flags int, mode uint32) (int, error) {
	return -1, notSupported("openat")
}

func sysRead(fd int, max int) ([]byte, error) { return nil, notSupported("read") }

func sysWrite(fd int, p []byte) (int, error) { return 0, notSupported("write") }

func sysPread(fd int, off int64, max int) ([]byte, error) { return nil, notSupported("pread") }

func sysPwrite(fd int, off int64, p []byte) (int, error) { return 0, notSupported("pwrite") }

func sysSeek(fd int, whence int, offset int64) (int64, error) { return 0, notSupported("lseek") }

func sysFsync(fd int) error { return notSupported("fsync") }

func sysFtruncate(fd int, length int64) error { return notSupported("ftruncate") }

func sysFstat(fd int) (Stat, error) { return Stat{}, notSupported("fstat") }

func sysFstatat(dirfd int, rel string, follow bool) (Stat, error) {
	return Stat{}, notSupported("fstatat")
}

func sysFchmod(fd int, mode uint32) error { return notSupported("fchmod") }

func sysFchown(fd int, uid, gid int) error { return notSupported("fchown") }

func sysFchflags(fd int, flags int) error { return notSupported("fchflags") }

func sysFutimens(fd int, atime, mtime int64) error { return notSupported("futimens") }

func sysMkdirat(dirfd int, rel string, mode uint32) error { return notSupported("mkdirat") }

func sysUnlinkat(dirfd int, rel string, removeDir bool) error { return notSupported("unlinkat") }

func sysRenameat(oldDirfd int, oldRel string, newDirfd int, newRel string) error {
	return notSupported("renameat")
}

func sysLinkat(oldDirfd int, oldRel string, newDirfd int, newRel string, follow bool) error {
	return notSupported("linkat")
}

func sysSymlinkat(target string, dirfd int, rel string) error { return notSupported("symlinkat") }

func sysReadlinkat(dirfd int, rel string) (string, error) { return "", notSupported("readlinkat") }

func sysFaccessat(dirfd int, rel string, mode uint32, flags int) error {
	return notSupported("faccessat")
}

func sysMkfifoat(dirfd int, rel string, mode uint32) error { return notSupported("mkfifoat") }

func sysGetdirentries(fd int, buf []byte, basep *uintptr) (int, error) {
	return 0, notSupported("getdirentries")
}

func sysBindat(dirfd int, fd int, rel string) error { return notSupported("bindat") }

func sysConnectat(dirfd int, fd int, rel string) error { return notSupported("connectat") }

func sysPdFork(flags int) (pid int, pfd int, err error) {
	return 0, -1, notSupported("pdfork")
}

func sysPdKill(pfd int, signal int) error { return notSupported("pdkill") }

func sysPdWait4(pfd int) (status int, err error) { return 0, notSupported("pdwait4") }

func sysPdGetpid(pfd int) (int, error) { return 0, notSupported("pdgetpid") }

func sysCapEnter() error { return notSupported("cap_enter") }

func sysCapGetMode() (bool, error) { return false, nil }
