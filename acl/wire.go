package acl

import (
	"encoding/binary"

	"github.com/freebsdkit/capkit/ferr"
)

// wireEntrySize is the on-wire size of one serialized entry: brand
// discriminant is carried once at the header, so each entry is tag(4)
// + qualifier(4) + perm(2) + nfs4Perm(2) + entryType(4) + inherit(1),
// padded to a stable 24-byte stride so ToWire/FromWire round-trip
// without depending on struct layout.
const wireEntrySize = 24

const wireHeaderSize = 8 // brand(4) + count(4)

// ToWire serializes the ACL to capkit's own flat binary encoding, used
// to move an ACL across an ipc.Endpoint without re-deriving it from a
// path on the far side.
func (a *ACL) ToWire() []byte {
	buf := make([]byte, wireHeaderSize+len(a.entries)*wireEntrySize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(a.brand))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(a.entries)))
	for i, e := range a.entries {
		off := wireHeaderSize + i*wireEntrySize
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(e.tag))
		binary.LittleEndian.PutUint32(buf[off+4:off+8], e.qualifier)
		binary.LittleEndian.PutUint16(buf[off+8:off+10], uint16(e.perm))
		binary.LittleEndian.PutUint16(buf[off+10:off+12], uint16(e.nfs4Perm))
		binary.LittleEndian.PutUint32(buf[off+12:off+16], uint32(e.entryType))
		buf[off+16] = byte(e.inherit)
	}
	return buf
}

// FromWire parses capkit's flat binary ACL encoding.
func FromWire(data []byte) (*ACL, error) {
	if len(data) < wireHeaderSize {
		return nil, ferr.New(ferr.MalformedLabel, "acl.from_wire", "buffer shorter than header")
	}
	brand := Brand(binary.LittleEndian.Uint32(data[0:4]))
	count := binary.LittleEndian.Uint32(data[4:8])
	want := wireHeaderSize + int(count)*wireEntrySize
	if len(data) != want {
		return nil, ferr.New(ferr.MalformedLabel, "acl.from_wire", "buffer length does not match entry count")
	}
	a := Empty(brand, int(count))
	for i := 0; i < int(count); i++ {
		off := wireHeaderSize + i*wireEntrySize
		a.entries = append(a.entries, entryData{
			tag:       Tag(binary.LittleEndian.Uint32(data[off : off+4])),
			qualifier: binary.LittleEndian.Uint32(data[off+4 : off+8]),
			perm:      Perm(binary.LittleEndian.Uint16(data[off+8 : off+10])),
			nfs4Perm:  NFSv4Perm(binary.LittleEndian.Uint16(data[off+10 : off+12])),
			entryType: EntryType(binary.LittleEndian.Uint32(data[off+12 : off+16])),
			inherit:   InheritFlags(data[off+16]),
		})
	}
	return a, nil
}
