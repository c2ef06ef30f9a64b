package ipc

import "github.com/freebsdkit/capkit/descriptor"

// Listener binds an address and accepts incoming connections, each of
// which becomes an Endpoint (or StreamEndpoint, depending on sockType).
type Listener struct {
	sock     *descriptor.Socket
	sockType int
}

// Listen binds addr and starts listening with the given backlog.
func Listen(addr descriptor.UnixAddr, sockType int, backlog int) (*Listener, error) {
	sock, err := descriptor.NewSocket(sockType)
	if err != nil {
		return nil, err
	}
	if err := sock.Bind(addr); err != nil {
		sock.Close()
		return nil, err
	}
	if err := sock.Listen(backlog); err != nil {
		sock.Close()
		return nil, err
	}
	return &Listener{sock: sock, sockType: sockType}, nil
}

// ListenAt binds relative to dir, remaining usable after the sandbox
// transition provided dir was opened before it.
func ListenAt(dir descriptor.PathRelative, relpath string, sockType int, backlog int) (*Listener, error) {
	sock, err := descriptor.NewSocket(sockType)
	if err != nil {
		return nil, err
	}
	if err := sock.BindAt(dir, relpath); err != nil {
		sock.Close()
		return nil, err
	}
	if err := sock.Listen(backlog); err != nil {
		sock.Close()
		return nil, err
	}
	return &Listener{sock: sock, sockType: sockType}, nil
}

func (l *Listener) Close() error { return l.sock.Close() }

// Accept blocks until a connection arrives and returns it wrapped as
// an Endpoint, whatever the listener's socket type; for a SOCK_STREAM
// listener, AcceptStream wraps it as a StreamEndpoint instead.
func (l *Listener) Accept() (*Endpoint, error) {
	conn, err := l.sock.Accept()
	if err != nil {
		return nil, err
	}
	return AdoptEndpoint(conn), nil
}

// AcceptStream is Accept for a listener created with SockStream.
func (l *Listener) AcceptStream() (*StreamEndpoint, error) {
	conn, err := l.sock.Accept()
	if err != nil {
		return nil, err
	}
	return AdoptStreamEndpoint(conn), nil
}

// Connect dials addr, returning an Endpoint suitable for a
// SOCK_SEQPACKET peer.
func Connect(addr descriptor.UnixAddr, sockType int) (*Endpoint, error) {
	sock, err := descriptor.NewSocket(sockType)
	if err != nil {
		return nil, err
	}
	if err := sock.Connect(addr); err != nil {
		sock.Close()
		return nil, err
	}
	return AdoptEndpoint(sock), nil
}

// ConnectAt dials relative to dir.
func ConnectAt(dir descriptor.PathRelative, relpath string, sockType int) (*Endpoint, error) {
	sock, err := descriptor.NewSocket(sockType)
	if err != nil {
		return nil, err
	}
	if err := sock.ConnectAt(dir, relpath); err != nil {
		sock.Close()
		return nil, err
	}
	return AdoptEndpoint(sock), nil
}

// ConnectStream is Connect for a SOCK_STREAM peer.
func ConnectStream(addr descriptor.UnixAddr) (*StreamEndpoint, error) {
	sock, err := descriptor.NewSocket(descriptor.SockStream)
	if err != nil {
		return nil, err
	}
	if err := sock.Connect(addr); err != nil {
		sock.Close()
		return nil, err
	}
	return AdoptStreamEndpoint(sock), nil
}
