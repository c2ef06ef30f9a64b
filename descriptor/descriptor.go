// Package descriptor implements the move-only, owning descriptor core:
// File, Dir, Socket and Proc wrap a kernel resource identifier
// and enforce single ownership, capability-trait polymorphism, and
// rights/ioctl/fcntl narrowing.
//
// Descriptors are never copied. Every constructor returns a pointer;
// callers move ownership by passing that pointer along, and release it
// by calling Close (idempotent). No finalizer is registered: a
// descriptor value that is dropped without Close leaves its kernel
// resource open.
package descriptor

import (
	"sync/atomic"

	"github.com/freebsdkit/capkit/ferr"
	"github.com/freebsdkit/capkit/rights"
)

// base is embedded by every descriptor variant. It owns the raw kernel
// fd and the narrowing state; all variants share the same close-once
// and rights-query behavior.
type base struct {
	fd     int32
	closed atomic.Bool
}

func newBase(fd int) base {
	b := base{fd: int32(fd)}
	return b
}

// Fd returns the raw kernel descriptor number. It does not transfer
// ownership; the returned value is only valid as long as the owning
// descriptor value is not closed.
func (b *base) Fd() int { return int(b.fd) }

func (b *base) checkOpen(op string) error {
	if b.closed.Load() {
		return ferr.New(ferr.InvalidArgument, op, "fd:closed")
	}
	return nil
}

// Close releases the underlying kernel resource. It is idempotent:
// calling it twice returns nil the second time. A failure on the
// kernel's close(2) is surfaced to the caller exactly once.
func (b *base) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	return closeFd(int(b.fd))
}

// TakeRaw surrenders ownership of the underlying fd to the caller. The
// descriptor value must not be used again after this call (its Fd
// becomes invalid from capkit's point of view, though the kernel
// resource itself remains open under the returned number). This exists
// solely to support descriptor passing: the ipc package calls it
// to hand the raw fd to sendmsg's ancillary data.
func (b *base) TakeRaw() int {
	b.closed.Store(true)
	return int(b.fd)
}

// LimitRights narrows the kernel's view of the descriptor's rights to
// the intersection of its current rights and set. After a successful
// call, any operation requiring a right outside set fails with
// ferr.RightRevoked.
func (b *base) LimitRights(set rights.Set) error {
	if err := b.checkOpen("cap_rights_limit"); err != nil {
		return err
	}
	return capRightsLimit(int(b.fd), set)
}

// CurrentRights returns the descriptor's current rights set. restricted
// is true whenever the kernel reported a rights mask, including for a
// descriptor that cap_rights_limit never narrowed, so it does not tell
// an unnarrowed descriptor from a narrowed one; it is false only
// together with an error.
func (b *base) CurrentRights() (set rights.Set, restricted bool, err error) {
	if err := b.checkOpen("cap_rights_get"); err != nil {
		return rights.Set{}, false, err
	}
	return capRightsGet(int(b.fd))
}

// LimitIoctls narrows the set of ioctl command numbers permitted on
// this descriptor.
func (b *base) LimitIoctls(cmds []uint) error {
	if err := b.checkOpen("cap_ioctls_limit"); err != nil {
		return err
	}
	return capIoctlsLimit(int(b.fd), cmds)
}

// CurrentIoctls returns the allowed ioctl command list, or unrestricted
// = true if no limit has been set (distinguishing "all commands
// allowed" from "empty list").
func (b *base) CurrentIoctls() (cmds []uint, unrestricted bool, err error) {
	if err := b.checkOpen("cap_ioctls_get"); err != nil {
		return nil, false, err
	}
	return capIoctlsGet(int(b.fd))
}

// LimitFcntls narrows the set of allowed fcntl sub-commands.
func (b *base) LimitFcntls(set FcntlSet) error {
	if err := b.checkOpen("cap_fcntls_limit"); err != nil {
		return err
	}
	return capFcntlsLimit(int(b.fd), set)
}

// FcntlSet is the closed set of narrowable fcntl sub-commands.
type FcntlSet uint32

const (
	FcntlGetFL FcntlSet = 1 << iota
	FcntlSetFL
	FcntlGetOwn
	FcntlSetOwn
)

// Capability traits. Operations are polymorphic over these, not over
// the descriptor's variant tag.
type (
	Readable interface {
		Read(max int) ([]byte, error)
	}
	Writable interface {
		Write(p []byte) (int, error)
	}
	Seekable interface {
		Seek(whence int, offset int64) (int64, error)
	}
	PathRelative interface {
		Fd() int
	}
	Listening interface {
		Accept() (*Socket, error)
	}
	Connected interface {
		Shutdown(how int) error
	}
)

// ReadExact loops over r.Read until exactly len(buf) bytes have been
// read or an error/EOF occurs, unlike Read itself which may return a
// short count.
func ReadExact(r Readable, buf []byte) error {
	got := 0
	for got < len(buf) {
		chunk, err := r.Read(len(buf) - got)
		if err != nil {
			return err
		}
		if len(chunk) == 0 {
			return ferr.New(ferr.IO, "read_exact", "eof")
		}
		copy(buf[got:], chunk)
		got += len(chunk)
	}
	return nil
}

// WriteAll loops over w.Write until all of p has been written or an
// error occurs.
func WriteAll(w Writable, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return ferr.New(ferr.IO, "write_all", "no progress")
		}
		p = p[n:]
	}
	return nil
}
