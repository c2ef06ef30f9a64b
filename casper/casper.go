// Package casper implements the helper-service channel: a parent
// channel opened before the sandbox transition, from which named
// service sub-channels (resolver, sysctl, passwd/group, log, file-arg,
// network) are derived. Each service channel carries its own monotonic
// narrowing policy, independent of the others.
package casper

import (
	"github.com/freebsdkit/capkit/descriptor"
	"github.com/freebsdkit/capkit/ferr"
)

// Channel is the parent helper-service channel. Per lifecycle
// rule, a service sub-channel obtained before sandbox.Enter remains
// usable after it, but no new sub-channel may be opened afterward —
// capkit does not enforce that ordering itself (it has no way to
// observe when the caller intends to sandbox).
type Channel struct {
	sock *descriptor.Socket
}

// Dial connects the parent channel to the Casper helper process
// listening on addr.
func Dial(addr descriptor.UnixAddr) (*Channel, error) {
	sock, err := descriptor.NewSocket(descriptor.SockSeqpacket)
	if err != nil {
		return nil, err
	}
	if err := sock.Connect(addr); err != nil {
		sock.Close()
		return nil, err
	}
	return &Channel{sock: sock}, nil
}

// Clone dups the underlying socket. The clone shares the helper's
// back-end state but narrows its own policy independently of the
// original.
func (c *Channel) Clone() (*Channel, error) {
	dup, err := c.sock.Dup()
	if err != nil {
		return nil, err
	}
	return &Channel{sock: dup}, nil
}

func (c *Channel) Close() error { return c.sock.Close() }

// openService asks the helper to fork off a sub-channel bound to the
// named service, returning the descriptor it sends back. This mirrors
// the real Casper wire protocol (a request over the parent seqpacket
// channel followed by a one-descriptor response) at the level of
// detail this core commits to: the exact request encoding is a
// helper-daemon concern.
func (c *Channel) openService(name string) (*descriptor.Socket, error) {
	req := append([]byte("CASPER_OPEN:"), name...)
	if err := descriptor.WriteAll(c.sock, req); err != nil {
		return nil, err
	}
	_, fds, err := c.sock.RecvWithDescriptors(64, 1)
	if err != nil {
		return nil, err
	}
	if len(fds) != 1 {
		return nil, ferr.New(ferr.IO, "casper.openService", name)
	}
	return descriptor.AdoptSocket(fds[0], descriptor.SockSeqpacket), nil
}

func request(sock *descriptor.Socket, payload []byte) ([]byte, error) {
	if err := descriptor.WriteAll(sock, payload); err != nil {
		return nil, err
	}
	return sock.Read(4096)
}
