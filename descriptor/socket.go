package descriptor

import "github.com/freebsdkit/capkit/ferr"

// Socket is an owning handle to a unix-domain socket in either
// SOCK_STREAM or SOCK_SEQPACKET mode. It implements Readable,
// Writable, Listening and Connected.
type Socket struct {
	base
	seqpacket bool
}

// Domain/type constants for NewSocket, matching <sys/socket.h>.
const (
	AfUnix        = 1
	SockStream    = 1
	SockSeqpacket = 5
	SockDgram     = 2
)

// NewSocket creates an unbound unix-domain socket of the given type
// (SockStream or SockSeqpacket).
func NewSocket(sockType int) (*Socket, error) {
	fd, err := sysSocket(AfUnix, sockType, 0)
	if err != nil {
		return nil, err
	}
	return &Socket{base: newBase(fd), seqpacket: sockType == SockSeqpacket}, nil
}

// SocketPair returns a connected pair of sockets sharing an anonymous
// address, used to bootstrap IPC endpoints without touching the
// filesystem namespace.
func SocketPair(sockType int) (a, b *Socket, err error) {
	fda, fdb, err := sysSocketpair(sockType)
	if err != nil {
		return nil, nil, err
	}
	sp := sockType == SockSeqpacket
	return &Socket{base: newBase(fda), seqpacket: sp}, &Socket{base: newBase(fdb), seqpacket: sp}, nil
}

func (s *Socket) Bind(addr UnixAddr) error {
	if err := s.checkOpen("bind"); err != nil {
		return err
	}
	return sysBind(int(s.fd), addr)
}

// BindAt binds relative to dir, remaining legal post-sandbox transition
// provided dir was opened before it.
func (s *Socket) BindAt(dir PathRelative, relpath string) error {
	if err := s.checkOpen("bindat"); err != nil {
		return err
	}
	return sysBindat(dir.Fd(), int(s.fd), relpath)
}

func (s *Socket) Listen(backlog int) error {
	if err := s.checkOpen("listen"); err != nil {
		return err
	}
	return sysListen(int(s.fd), backlog)
}

func (s *Socket) Accept() (*Socket, error) {
	if err := s.checkOpen("accept"); err != nil {
		return nil, err
	}
	fd, err := sysAccept(int(s.fd))
	if err != nil {
		return nil, err
	}
	return &Socket{base: newBase(fd), seqpacket: s.seqpacket}, nil
}

func (s *Socket) Connect(addr UnixAddr) error {
	if err := s.checkOpen("connect"); err != nil {
		return err
	}
	return sysConnect(int(s.fd), addr)
}

func (s *Socket) ConnectAt(dir PathRelative, relpath string) error {
	if err := s.checkOpen("connectat"); err != nil {
		return err
	}
	return sysConnectat(dir.Fd(), int(s.fd), relpath)
}

func (s *Socket) Shutdown(how int) error {
	if err := s.checkOpen("shutdown"); err != nil {
		return err
	}
	return sysShutdown(int(s.fd), how)
}

func (s *Socket) Read(max int) ([]byte, error) {
	if err := s.checkOpen("recv"); err != nil {
		return nil, err
	}
	p, _, err := sysRecv(int(s.fd), max, 0)
	return p, err
}

func (s *Socket) Write(p []byte) (int, error) {
	if err := s.checkOpen("send"); err != nil {
		return 0, err
	}
	if err := sysSend(int(s.fd), p, 0); err != nil {
		return 0, err
	}
	return len(p), nil
}

// RecvMessage reads one message of at most max bytes. eof is true when
// the read returned zero bytes (the peer has shut down, or sent an
// empty datagram). On a SOCK_SEQPACKET socket a datagram longer than
// max is cut to max bytes, and the cut is not reported.
func (s *Socket) RecvMessage(max int) (payload []byte, eof bool, err error) {
	if err := s.checkOpen("recv"); err != nil {
		return nil, false, err
	}
	return sysRecv(int(s.fd), max, 0)
}

// SendWithDescriptors sends payload along with an ancillary array of
// descriptor rights transferred to the peer. Each fd in fds is consumed
// (moved) by a successful call; capkit callers must pass the result of
// TakeRaw, never a still-owned descriptor's Fd().
func (s *Socket) SendWithDescriptors(payload []byte, fds []int) error {
	if err := s.checkOpen("sendmsg"); err != nil {
		return err
	}
	return sysSendmsgRights(int(s.fd), payload, fds)
}

// RecvWithDescriptors reads a message plus any ancillary descriptors.
// truncated covers both the payload (MSG_TRUNC) and the descriptor
// array (MSG_CTRUNC): callers must treat either as
// ferr.DescriptorTruncated and close any fds that did arrive.
func (s *Socket) RecvWithDescriptors(maxPayload, maxFds int) (payload []byte, fds []int, err error) {
	if err := s.checkOpen("recvmsg"); err != nil {
		return nil, nil, err
	}
	payload, fds, truncated, err := sysRecvmsgRights(int(s.fd), maxPayload, maxFds)
	if err != nil {
		return nil, nil, err
	}
	if truncated {
		return payload, fds, ferr.New(ferr.DescriptorTruncated, "recvmsg", "")
	}
	return payload, fds, nil
}

// AdoptSocket wraps a raw socket fd received over IPC into an owning Socket. The caller is
// asserting, with no kernel-verified type check, that fd really is a
// unix-domain socket of the given type.
func AdoptSocket(fd int, sockType int) *Socket {
	return &Socket{base: newBase(fd), seqpacket: sockType == SockSeqpacket}
}

// Dup creates a new descriptor referring to the same open file
// description, used to hand a Casper service channel to more than one
// consumer without sharing the original value.
func (s *Socket) Dup() (*Socket, error) {
	if err := s.checkOpen("dup"); err != nil {
		return nil, err
	}
	fd, err := sysDup(int(s.fd))
	if err != nil {
		return nil, err
	}
	return &Socket{base: newBase(fd), seqpacket: s.seqpacket}, nil
}
