//go:build freebsd

package descriptor

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/freebsdkit/capkit/ferr"
	"github.com/freebsdkit/capkit/rights"
)

func closeFd(fd int) error {
	if err := unix.Close(fd); err != nil {
		return ferr.FromErrno("close", fdPath(fd), err.(syscall.Errno))
	}
	return nil
}

// rightsToCapRights converts our portable rights.Set into the kernel's
// cap_rights_t wire word set.
func rightsToCapRights(s rights.Set) unix.CapRights {
	var cr unix.CapRights
	data, _ := s.MarshalBinary()
	word := unix.LittleEndian.Uint64(data)
	unix.CapRightsSet(&cr, rightsBitsToRaw(word)...)
	return cr
}

// rightsBitsToRaw expands the bitset into the discrete capability right
// constants cap_rights_t.Set expects. The mapping from capkit's Right
// enum to FreeBSD's CAP_* constants is 1:1 and defined in
// rights_map_freebsd.go.
func rightsBitsToRaw(bits uint64) []uint64 {
	var out []uint64
	for i, raw := range rightToCapConst {
		if bits&(1<<uint(i)) != 0 {
			out = append(out, raw)
		}
	}
	return out
}

func capRightsLimit(fd int, set rights.Set) error {
	cr := rightsToCapRights(set)
	if err := unix.CapRightsLimit(fd, &cr); err != nil {
		return ferr.FromErrno("cap_rights_limit", fdPath(fd), err.(syscall.Errno))
	}
	return nil
}

func capRightsGet(fd int) (rights.Set, bool, error) {
	cr, err := unix.CapRightsGet(unix.CAP_RIGHTS_VERSION, fd)
	if err != nil {
		return rights.Set{}, false, ferr.FromErrno("cap_rights_get", fdPath(fd), err.(syscall.Errno))
	}
	var bits uint64
	for i, raw := range rightToCapConst {
		if unix.CapRightsIsSet(cr, raw) {
			bits |= 1 << uint(i)
		}
	}
	var data [8]byte
	unix.LittleEndian.PutUint64(data[:], bits)
	var s rights.Set
	_ = s.UnmarshalBinary(data[:])
	return s, true, nil
}

func capIoctlsLimit(fd int, cmds []uint) error {
	raw := make([]uint64, len(cmds))
	for i, c := range cmds {
		raw[i] = uint64(c)
	}
	if err := unix.CapIoctlsLimit(fd, raw); err != nil {
		return ferr.FromErrno("cap_ioctls_limit", fdPath(fd), err.(syscall.Errno))
	}
	return nil
}

func capIoctlsGet(fd int) ([]uint, bool, error) {
	raw, err := unix.CapIoctlsGet(fd)
	if err != nil {
		return nil, false, ferr.FromErrno("cap_ioctls_get", fdPath(fd), err.(syscall.Errno))
	}
	if raw == nil {
		return nil, true, nil
	}
	out := make([]uint, len(raw))
	for i, c := range raw {
		out[i] = uint(c)
	}
	return out, false, nil
}

func capFcntlsLimit(fd int, set FcntlSet) error {
	var raw uint32
	if set&FcntlGetFL != 0 {
		raw |= unix.CAP_FCNTL_GETFL
	}
	if set&FcntlSetFL != 0 {
		raw |= unix.CAP_FCNTL_SETFL
	}
	if set&FcntlGetOwn != 0 {
		raw |= unix.CAP_FCNTL_GETOWN
	}
	if set&FcntlSetOwn != 0 {
		raw |= unix.CAP_FCNTL_SETOWN
	}
	if err := unix.CapFcntlsLimit(fd, raw); err != nil {
		return ferr.FromErrno("cap_fcntls_limit", fdPath(fd), err.(syscall.Errno))
	}
	return nil
}

func sysOpen(path string, flags int, mode uint32) (int, error) {
	fd, err := unix.Open(path, flags, mode)
	if err != nil {
		return -1, ferr.FromErrno("open", path, err.(syscall.Errno))
	}
	return fd, nil
}

func sysOpenat(dirfd int, rel string, flags int, mode uint32) (int, error) {
	fd, err := unix.Openat(dirfd, rel, flags, mode)
	if err != nil {
		return -1, ferr.FromErrno("openat", rel, err.(syscall.Errno))
	}
	return fd, nil
}

func sysRead(fd int, max int) ([]byte, error) {
	buf := make([]byte, max)
	n, err := unix.Read(fd, buf)
	if err != nil {
		return nil, ferr.FromErrno("read", fdPath(fd), err.(syscall.Errno))
	}
	return buf[:n], nil
}

func sysWrite(fd int, p []byte) (int, error) {
	n, err := unix.Write(fd, p)
	if err != nil {
		return 0, ferr.FromErrno("write", fdPath(fd), err.(syscall.Errno))
	}
	return n, nil
}

func sysPread(fd int, off int64, max int) ([]byte, error) {
	buf := make([]byte, max)
	n, err := unix.Pread(fd, buf, off)
	if err != nil {
		return nil, ferr.FromErrno("pread", fdPath(fd), err.(syscall.Errno))
	}
	return buf[:n], nil
}

func sysPwrite(fd int, off int64, p []byte) (int, error) {
	n, err := unix.Pwrite(fd, p, off)
	if err != nil {
		return 0, ferr.FromErrno("pwrite", fdPath(fd), err.(syscall.Errno))
	}
	return n, nil
}

func sysSeek(fd int, whence int, offset int64) (int64, error) {
	n, err := unix.Seek(fd, offset, whence)
	if err != nil {
		return 0, ferr.FromErrno("lseek", fdPath(fd), err.(syscall.Errno))
	}
	return n, nil
}

func sysFsync(fd int) error {
	if err := unix.Fsync(fd); err != nil {
		return ferr.FromErrno("fsync", fdPath(fd), err.(syscall.Errno))
	}
	return nil
}

func sysFtruncate(fd int, length int64) error {
	if err := unix.Ftruncate(fd, length); err != nil {
		return ferr.FromErrno("ftruncate", fdPath(fd), err.(syscall.Errno))
	}
	return nil
}

func toStat(st *unix.Stat_t) Stat {
	return Stat{
		Dev:     uint64(st.Dev),
		Ino:     uint64(st.Ino),
		Mode:    uint32(st.Mode),
		Nlink:   uint64(st.Nlink),
		Uid:     st.Uid,
		Gid:     st.Gid,
		Rdev:    uint64(st.Rdev),
		Size:    st.Size,
		Atime:   st.Atim.Nano(),
		Mtime:   st.Mtim.Nano(),
		Ctime:   st.Ctim.Nano(),
		Blksize: int64(st.Blksize),
		Blocks:  st.Blocks,
	}
}

func sysFstat(fd int) (Stat, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return Stat{}, ferr.FromErrno("fstat", fdPath(fd), err.(syscall.Errno))
	}
	return toStat(&st), nil
}

func sysFstatat(dirfd int, rel string, follow bool) (Stat, error) {
	var st unix.Stat_t
	flags := 0
	if !follow {
		flags = unix.AT_SYMLINK_NOFOLLOW
	}
	if err := unix.Fstatat(dirfd, rel, &st, flags); err != nil {
		return Stat{}, ferr.FromErrno("fstatat", rel, err.(syscall.Errno))
	}
	return toStat(&st), nil
}

func sysFchmod(fd int, mode uint32) error {
	if err := unix.Fchmod(fd, mode); err != nil {
		return ferr.FromErrno("fchmod", fdPath(fd), err.(syscall.Errno))
	}
	return nil
}

func sysFchown(fd int, uid, gid int) error {
	if err := unix.Fchown(fd, uid, gid); err != nil {
		return ferr.FromErrno("fchown", fdPath(fd), err.(syscall.Errno))
	}
	return nil
}

func sysFchflags(fd int, flags int) error {
	if err := unix.Fchflags(fd, flags); err != nil {
		return ferr.FromErrno("fchflags", fdPath(fd), err.(syscall.Errno))
	}
	return nil
}

func sysFutimens(fd int, atime, mtime int64) error {
	ts := []unix.Timespec{
		unix.NsecToTimespec(atime),
		unix.NsecToTimespec(mtime),
	}
	if err := unix.UtimesNanoAt(fd, "", ts, 0); err != nil {
		return ferr.FromErrno("futimens", fdPath(fd), err.(syscall.Errno))
	}
	return nil
}

func sysMkdirat(dirfd int, rel string, mode uint32) error {
	if err := unix.Mkdirat(dirfd, rel, mode); err != nil {
		return ferr.FromErrno("mkdirat", rel, err.(syscall.Errno))
	}
	return nil
}

func sysUnlinkat(dirfd int, rel string, removeDir bool) error {
	flags := 0
	if removeDir {
		flags = unix.AT_REMOVEDIR
	}
	if err := unix.Unlinkat(dirfd, rel, flags); err != nil {
		return ferr.FromErrno("unlinkat", rel, err.(syscall.Errno))
	}
	return nil
}

func sysRenameat(oldDirfd int, oldRel string, newDirfd int, newRel string) error {
	if err := unix.Renameat(oldDirfd, oldRel, newDirfd, newRel); err != nil {
		return ferr.FromErrno("renameat", oldRel, err.(syscall.Errno))
	}
	return nil
}

func sysLinkat(oldDirfd int, oldRel string, newDirfd int, newRel string, follow bool) error {
	flags := 0
	if follow {
		flags = unix.AT_SYMLINK_FOLLOW
	}
	if err := unix.Linkat(oldDirfd, oldRel, newDirfd, newRel, flags); err != nil {
		return ferr.FromErrno("linkat", oldRel, err.(syscall.Errno))
	}
	return nil
}

func sysSymlinkat(target string, dirfd int, rel string) error {
	if err := unix.Symlinkat(target, dirfd, rel); err != nil {
		return ferr.FromErrno("symlinkat", rel, err.(syscall.Errno))
	}
	return nil
}

func sysReadlinkat(dirfd int, rel string) (string, error) {
	buf := make([]byte, 4096)
	n, err := unix.Readlinkat(dirfd, rel, buf)
	if err != nil {
		return "", ferr.FromErrno("readlinkat", rel, err.(syscall.Errno))
	}
	return string(buf[:n]), nil
}

func sysFaccessat(dirfd int, rel string, mode uint32, flags int) error {
	if err := unix.Faccessat(dirfd, rel, mode, flags); err != nil {
		return ferr.FromErrno("faccessat", rel, err.(syscall.Errno))
	}
	return nil
}

func sysMkfifoat(dirfd int, rel string, mode uint32) error {
	if err := unix.Mkfifoat(dirfd, rel, mode); err != nil {
		return ferr.FromErrno("mkfifoat", rel, err.(syscall.Errno))
	}
	return nil
}

// sysGetdirentries fills buf with the kernel's packed directory-record
// stream starting at *basep, advancing *basep for the next call.
func sysGetdirentries(fd int, buf []byte, basep *uintptr) (int, error) {
	n, err := unix.Getdirentries(fd, buf, basep)
	if err != nil {
		return 0, ferr.FromErrno("getdirentries", fdPath(fd), err.(syscall.Errno))
	}
	return n, nil
}

// sysBindat binds a socket to an address resolved relative to dirfd, so
// the bind remains usable once ambient authority is gone. FreeBSD
// exposes bindat(2)/connectat(2) taking a directory descriptor and a
// unix-domain path relative to it; these two have no Linux equivalent,
// unlike the rest of the socket layer (see syscalls_socket_posix.go).
func sysBindat(dirfd int, fd int, rel string) error {
	if err := unix.Bindat(dirfd, fd, &unix.SockaddrUnix{Name: rel}); err != nil {
		return ferr.FromErrno("bindat", rel, err.(syscall.Errno))
	}
	return nil
}

func sysConnectat(dirfd int, fd int, rel string) error {
	if err := unix.Connectat(dirfd, fd, &unix.SockaddrUnix{Name: rel}); err != nil {
		return ferr.FromErrno("connectat", rel, err.(syscall.Errno))
	}
	return nil
}

// Process-descriptor support (pdfork(2)/pdwait4(2)/pdkill(2)). These
// syscalls have no golang.org/x/sys/unix high-level wrapper; they are
// invoked directly through syscall.Syscall with the numbers below.
const (
	sysPdfork  = 459
	sysPdkill  = 460
	sysPdwait4 = 532
)

func sysPdFork(flags int) (pid int, pfd int, err error) {
	var pfdOut int32
	r1, _, errno := syscall.Syscall(sysPdfork, uintptr(unsafe.Pointer(&pfdOut)), uintptr(flags), 0)
	if errno != 0 {
		return 0, -1, ferr.FromErrno("pdfork", "", errno)
	}
	return int(r1), int(pfdOut), nil
}

func sysPdKill(pfd int, signal int) error {
	_, _, errno := syscall.Syscall(sysPdkill, uintptr(pfd), uintptr(signal), 0)
	if errno != 0 {
		return ferr.FromErrno("pdkill", fdPath(pfd), errno)
	}
	return nil
}

func sysPdWait4(pfd int) (status int, err error) {
	var wstatus int32
	_, _, errno := syscall.Syscall6(sysPdwait4, uintptr(pfd), uintptr(unsafe.Pointer(&wstatus)), 0, 0, 0, 0)
	if errno != 0 {
		return 0, ferr.FromErrno("pdwait4", fdPath(pfd), errno)
	}
	return int(wstatus), nil
}

func sysPdGetpid(pfd int) (int, error) {
	pid, err := unix.PdGetpid(pfd)
	if err != nil {
		return 0, ferr.FromErrno("pdgetpid", fdPath(pfd), err.(syscall.Errno))
	}
	return pid, nil
}

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
