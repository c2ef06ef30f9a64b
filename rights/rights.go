// Package rights implements the per-descriptor capability rights
// algebra: a closed set of Right values, an opaque Set bitset over
// them with narrowing-only semantics, and the wire encoding understood
// by cap_rights_limit(2)/cap_rights_get(2).
package rights

import (
	"encoding/binary"

	"github.com/freebsdkit/capkit/ferr"
)

// Right is a member of the closed set of per-descriptor capabilities.
type Right uint

const (
	Read Right = iota
	Write
	Seek
	Pread
	Pwrite
	MmapR
	MmapW
	MmapX
	Fstat
	Fchmod
	Fchown
	Ftruncate
	Fsync
	Lookup
	Create
	UnlinkAt
	MkdirAt
	RenameSource
	RenameTarget
	Accept
	Bind
	Connect
	Listen
	GetPeerName
	GetSockName
	Send
	Recv
	Ioctl
	Fcntl

	numRights
)

var names = [numRights]string{
	Read:         "read",
	Write:        "write",
	Seek:         "seek",
	Pread:        "pread",
	Pwrite:       "pwrite",
	MmapR:        "mmap_r",
	MmapW:        "mmap_w",
	MmapX:        "mmap_x",
	Fstat:        "fstat",
	Fchmod:       "fchmod",
	Fchown:       "fchown",
	Ftruncate:    "ftruncate",
	Fsync:        "fsync",
	Lookup:       "lookup",
	Create:       "create",
	UnlinkAt:     "unlinkat",
	MkdirAt:      "mkdirat",
	RenameSource: "rename_source",
	RenameTarget: "rename_target",
	Accept:       "accept",
	Bind:         "bind",
	Connect:      "connect",
	Listen:       "listen",
	GetPeerName:  "getpeername",
	GetSockName:  "getsockname",
	Send:         "send",
	Recv:         "recv",
	Ioctl:        "ioctl",
	Fcntl:        "fcntl",
}

func (r Right) String() string {
	if r < numRights {
		return names[r]
	}
	return "unknown"
}

// Set is an opaque bag of Rights. The zero Set is empty. Sets are
// compared structurally (Set is a plain uint64 under the hood, two Sets
// with the same bits are equal).
type Set struct {
	bits uint64
}

func bit(r Right) uint64 { return 1 << uint(r) }

// Empty returns the empty Set.
func Empty() Set { return Set{} }

// Of returns a Set containing exactly the given rights.
func Of(rs ...Right) Set {
	var s Set
	for _, r := range rs {
		s.bits |= bit(r)
	}
	return s
}

// OfMany is Of over a slice, for callers building a Set from a
// dynamically sized collection (e.g. a policy loaded from config).
func OfMany(rs []Right) Set { return Of(rs...) }

// Contains reports whether r is a member of s.
func (s Set) Contains(r Right) bool { return s.bits&bit(r) != 0 }

// IsSupersetOf reports whether every right in other is also in s.
func (s Set) IsSupersetOf(other Set) bool { return s.bits&other.bits == other.bits }

// UnionWith returns the union of s and other. Union is the one widening
// operation in this package; it is legal because it operates on two
// values the caller already holds, not on a live descriptor's mask —
// narrowing a live descriptor is the only place widening is forbidden
// (see NarrowTo and descriptor.LimitRights).
func (s Set) UnionWith(other Set) Set { return Set{bits: s.bits | other.bits} }

// NarrowTo computes the intersection of s and other. It fails with
// ferr.PermissionNarrowed if other is not a subset of s, i.e. if
// applying it would have widened the rights available to the caller.
func (s Set) NarrowTo(other Set) (Set, error) {
	if other.bits&^s.bits != 0 {
		return Set{}, ferr.New(ferr.PermissionNarrowed, "rights.NarrowTo", "")
	}
	return intersect(s, other), nil
}

func intersect(a, b Set) Set { return Set{bits: a.bits & b.bits} }

// Equal reports structural equality.
func (s Set) Equal(other Set) bool { return s.bits == other.bits }

// Rights returns the member Rights of s in ascending numeric order.
func (s Set) Rights() []Right {
	out := make([]Right, 0, numRights)
	for r := Right(0); r < numRights; r++ {
		if s.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}

// MarshalBinary encodes s as an 8-byte little-endian word with one bit
// per Right at the Right's ordinal position. This is capkit's own
// layout, not the cap_rights_t word: package descriptor translates each
// Right to its FreeBSD CAP_* constant when it calls the kernel.
func (s Set) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, s.bits)
	return buf, nil
}

// UnmarshalBinary decodes a Set from the wire form produced by
// MarshalBinary.
func (s *Set) UnmarshalBinary(data []byte) error {
	if len(data) != 8 {
		return ferr.New(ferr.InvalidArgument, "rights.UnmarshalBinary", "")
	}
	s.bits = binary.LittleEndian.Uint64(data)
	return nil
}
