//go:build !windows

package descriptor

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/freebsdkit/capkit/ferr"
)

// The seqpacket/SCM_RIGHTS socket layer is identical on every unix
// capkit targets (FreeBSD, Linux dev machines). It carries no
// capability-mode semantics of its own, unlike bindat(2)/connectat(2)
// in syscalls_freebsd.go, so it lives behind a portable build tag
// instead of the freebsd-only file.

func fdPath(fd int) string { return "fd:" + itoa(fd) }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func sysSocket(domain, typ, proto int) (int, error) {
	fd, err := unix.Socket(domain, typ, proto)
	if err != nil {
		return -1, ferr.FromErrno("socket", "", err.(syscall.Errno))
	}
	return fd, nil
}

func toUnixSockaddr(sa Sockaddr) (unix.Sockaddr, error) {
	switch a := sa.(type) {
	case UnixAddr:
		return &unix.SockaddrUnix{Name: a.Path}, nil
	case InetAddr:
		ip := net.ParseIP(a.IP)
		if ip == nil {
			return nil, ferr.New(ferr.InvalidArgument, "sockaddr", a.IP)
		}
		if ip4 := ip.To4(); ip4 != nil {
			var out unix.SockaddrInet4
			out.Port = a.Port
			copy(out.Addr[:], ip4)
			return &out, nil
		}
		var out unix.SockaddrInet6
		out.Port = a.Port
		copy(out.Addr[:], ip.To16())
		return &out, nil
	default:
		return nil, ferr.New(ferr.InvalidArgument, "sockaddr", "unknown address type")
	}
}

func sysBind(fd int, sa Sockaddr) error {
	raw, err := toUnixSockaddr(sa)
	if err != nil {
		return err
	}
	if err := unix.Bind(fd, raw); err != nil {
		return ferr.FromErrno("bind", fdPath(fd), err.(syscall.Errno))
	}
	return nil
}

func sysListen(fd int, backlog int) error {
	if err := unix.Listen(fd, backlog); err != nil {
		return ferr.FromErrno("listen", fdPath(fd), err.(syscall.Errno))
	}
	return nil
}

func sysAccept(fd int) (int, error) {
	nfd, _, err := unix.Accept(fd)
	if err != nil {
		return -1, ferr.FromErrno("accept", fdPath(fd), err.(syscall.Errno))
	}
	return nfd, nil
}

func sysConnect(fd int, sa Sockaddr) error {
	raw, err := toUnixSockaddr(sa)
	if err != nil {
		return err
	}
	if err := unix.Connect(fd, raw); err != nil {
		return ferr.FromErrno("connect", fdPath(fd), err.(syscall.Errno))
	}
	return nil
}

func sysShutdown(fd int, how int) error {
	if err := unix.Shutdown(fd, how); err != nil {
		return ferr.FromErrno("shutdown", fdPath(fd), err.(syscall.Errno))
	}
	return nil
}

func sysRecv(fd int, max int, flags int) (data []byte, eof bool, err error) {
	buf := make([]byte, max)
	n, _, recvErr := unix.Recvfrom(fd, buf, flags)
	if recvErr != nil {
		return nil, false, ferr.FromErrno("recv", fdPath(fd), recvErr.(syscall.Errno))
	}
	if n == 0 {
		return nil, true, nil
	}
	return buf[:n], false, nil
}

func sysSend(fd int, p []byte, flags int) error {
	if err := unix.Sendto(fd, p, flags, nil); err != nil {
		return ferr.FromErrno("send", fdPath(fd), err.(syscall.Errno))
	}
	return nil
}

// sysSendmsgRights sends payload plus an ancillary SCM_RIGHTS block
// carrying fds. On success every fd in fds is consumed by the kernel;
// capkit enforces this by having callers pass already-TakeRaw'd
// integers.
func sysSendmsgRights(fd int, payload []byte, fds []int) error {
	var oob []byte
	if len(fds) > 0 {
		oob = unix.UnixRights(fds...)
	}
	if err := unix.Sendmsg(fd, payload, oob, nil, 0); err != nil {
		return ferr.FromErrno("sendmsg", fdPath(fd), err.(syscall.Errno))
	}
	return nil
}

// sysRecvmsgRights receives payload plus up to maxFds ancillary
// descriptors. truncated reports whether the sender included more fds
// than maxFds allowed for (MSG_CTRUNC) or a payload larger than
// maxPayload (MSG_TRUNC).
func sysRecvmsgRights(fd int, maxPayload, maxFds int) (payload []byte, fds []int, truncated bool, err error) {
	buf := make([]byte, maxPayload)
	oobSize := unix.CmsgSpace(maxFds * 4)
	oob := make([]byte, oobSize)

	n, oobn, flags, _, recvErr := unix.Recvmsg(fd, buf, oob, 0)
	if recvErr != nil {
		return nil, nil, false, ferr.FromErrno("recvmsg", fdPath(fd), recvErr.(syscall.Errno))
	}

	if flags&unix.MSG_CTRUNC != 0 || flags&unix.MSG_TRUNC != 0 {
		truncated = true
	}

	scms, parseErr := unix.ParseSocketControlMessage(oob[:oobn])
	if parseErr != nil {
		return nil, nil, false, ferr.FromErrno("recvmsg", fdPath(fd), syscall.EINVAL)
	}
	for _, scm := range scms {
		got, rightsErr := unix.ParseUnixRights(&scm)
		if rightsErr != nil {
			continue
		}
		fds = append(fds, got...)
	}

	for _, rfd := range fds {
		unix.CloseOnExec(rfd)
	}

	return buf[:n], fds, truncated, nil
}

func sysDup(fd int) (int, error) {
	nfd, err := unix.Dup(fd)
	if err != nil {
		return -1, ferr.FromErrno("dup", fdPath(fd), err.(syscall.Errno))
	}
	return nfd, nil
}

func sysSocketpair(typ int) (int, int, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, typ, 0)
	if err != nil {
		return -1, -1, ferr.FromErrno("socketpair", "", err.(syscall.Errno))
	}
	return fds[0], fds[1], nil
}
