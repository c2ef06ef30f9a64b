// Package ipc implements the message channel: a
// datagram-preserving (SOCK_SEQPACKET) endpoint for request/response
// and descriptor-passing exchanges, a streaming (SOCK_STREAM) variant
// with caller-supplied framing, and a listener/connector pair for
// accepting and dialing connections.
package ipc

import (
	"encoding/binary"

	"github.com/freebsdkit/capkit/descriptor"
	"github.com/freebsdkit/capkit/ferr"
)

// Endpoint wraps a SOCK_SEQPACKET socket. Every SendOnce call emits
// exactly one kernel datagram; every Recv returns at most one; message
// boundaries are never merged or split by the kernel, and this type
// does not second-guess that.
type Endpoint struct {
	sock *descriptor.Socket
}

// NewEndpointPair returns a connected pair of seqpacket endpoints,
// typically one kept by the parent and one handed to a forked child
// before it calls sandbox.Enter.
func NewEndpointPair() (a, b *Endpoint, err error) {
	sa, sb, err := descriptor.SocketPair(descriptor.SockSeqpacket)
	if err != nil {
		return nil, nil, err
	}
	return &Endpoint{sock: sa}, &Endpoint{sock: sb}, nil
}

// AdoptEndpoint wraps an already-open seqpacket socket (e.g. one
// received from a Listener.Accept) as an Endpoint.
func AdoptEndpoint(sock *descriptor.Socket) *Endpoint { return &Endpoint{sock: sock} }

func (e *Endpoint) Close() error { return e.sock.Close() }

// SendOnce emits payload as a single datagram.
func (e *Endpoint) SendOnce(payload []byte) error {
	_, err := e.sock.Write(payload)
	return err
}

// Recv returns at most one message, up to maxSize bytes.
func (e *Endpoint) Recv(maxSize int) ([]byte, error) {
	return e.sock.Read(maxSize)
}

// SendWithDescriptors transfers ownership of fds to the kernel along
// with payload. Every element of fds must be the result of a prior
// TakeRaw call on a descriptor whose ownership the caller is giving
// up; on failure the caller still owns them (the kernel never touched
// them), but capkit cannot un-TakeRaw a value, so callers that need to
// retry on failure must not TakeRaw until SendWithDescriptors is about
// to be attempted.
func (e *Endpoint) SendWithDescriptors(payload []byte, fds []int) error {
	return e.sock.SendWithDescriptors(payload, fds)
}

// RecvResult is the outcome of RecvWithDescriptors: Descriptors are raw
// fds the receiver must cast into a typed descriptor.File/.Socket/.Proc
// via the matching Adopt* constructor — capkit cannot tell which type
// was sent.
type RecvResult struct {
	Payload     []byte
	Descriptors []int
}

// RecvWithDescriptors receives a message plus up to maxDescriptors
// ancillary descriptors. If the sender included more than maxDescriptors,
// the excess are dropped by the kernel and ferr.DescriptorTruncated is
// returned alongside whatever did arrive.
func (e *Endpoint) RecvWithDescriptors(maxPayload, maxDescriptors int) (RecvResult, error) {
	payload, fds, err := e.sock.RecvWithDescriptors(maxPayload, maxDescriptors)
	if err != nil {
		if ferrIsDescriptorTruncated(err) {
			return RecvResult{Payload: payload, Descriptors: fds}, err
		}
		return RecvResult{}, err
	}
	return RecvResult{Payload: payload, Descriptors: fds}, nil
}

func ferrIsDescriptorTruncated(err error) bool {
	fe, ok := err.(*ferr.Error)
	return ok && fe.Kind == ferr.DescriptorTruncated
}

// StreamEndpoint wraps a SOCK_STREAM socket where message boundaries
// are delimited by a caller-chosen framing; this package supplies one
// concrete framing (a 4-byte big-endian length prefix) rather than
// inventing a new one for every caller, without claiming it is the
// only legal framing.
type StreamEndpoint struct {
	sock *descriptor.Socket
}

func AdoptStreamEndpoint(sock *descriptor.Socket) *StreamEndpoint {
	return &StreamEndpoint{sock: sock}
}

const frameLengthPrefixSize = 4

// SendFramed writes a 4-byte big-endian length prefix followed by
// payload.
func (s *StreamEndpoint) SendFramed(payload []byte) error {
	var hdr [frameLengthPrefixSize]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(payload)))
	if err := descriptor.WriteAll(s.sock, hdr[:]); err != nil {
		return err
	}
	return descriptor.WriteAll(s.sock, payload)
}

// RecvFramed reads one length-prefixed message, rejecting with
// ferr.InvalidArgument a declared length larger than maxSize to bound
// the allocation a hostile or buggy peer can force.
func (s *StreamEndpoint) RecvFramed(maxSize int) ([]byte, error) {
	var hdr [frameLengthPrefixSize]byte
	if err := descriptor.ReadExact(s.sock, hdr[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if int(n) > maxSize {
		return nil, ferr.New(ferr.InvalidArgument, "stream.recv_framed", "frame too large")
	}
	buf := make([]byte, n)
	if err := descriptor.ReadExact(s.sock, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
