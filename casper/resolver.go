package casper

import (
	"github.com/freebsdkit/capkit/descriptor"
	"github.com/freebsdkit/capkit/ferr"
)

// AddressFamily and RecordType are the two narrowing dimensions of the
// name-resolver service.
type AddressFamily uint8
type RecordType uint8

const (
	FamilyInet AddressFamily = 1 << iota
	FamilyInet6
)

const (
	RecordForward RecordType = 1 << iota
	RecordReverse
)

// Resolver is the name-resolver service channel. limit_families and
// limit_types are monotonic: each call may only narrow, never widen,
// the same rights-narrowing discipline applied to a policy mask
// instead of a cap_rights_t.
type Resolver struct {
	sock     *descriptor.Socket
	families AddressFamily
	types    RecordType
}

// OpenResolver derives a name-resolver sub-channel from the parent
// channel, starting with every family and record type permitted.
func (c *Channel) OpenResolver() (*Resolver, error) {
	sock, err := c.openService("name-resolver")
	if err != nil {
		return nil, err
	}
	return &Resolver{sock: sock, families: FamilyInet | FamilyInet6, types: RecordForward | RecordReverse}, nil
}

func (r *Resolver) LimitFamilies(families AddressFamily) error {
	if families&^r.families != 0 {
		return ferr.New(ferr.PermissionNarrowed, "resolver.limit_families", "")
	}
	r.families = families
	return nil
}

func (r *Resolver) LimitTypes(types RecordType) error {
	if types&^r.types != 0 {
		return ferr.New(ferr.PermissionNarrowed, "resolver.limit_types", "")
	}
	r.types = types
	return nil
}

// Resolve performs a forward lookup of host, refused with
// ferr.Permission if RecordForward was narrowed away.
func (r *Resolver) Resolve(host string) ([]string, error) {
	if r.types&RecordForward == 0 {
		return nil, ferr.New(ferr.Permission, "resolver.resolve", host)
	}
	resp, err := request(r.sock, append([]byte("RESOLVE:"), host...))
	if err != nil {
		return nil, err
	}
	return []string{string(resp)}, nil
}

// ReverseResolve performs a reverse (address-to-name) lookup.
func (r *Resolver) ReverseResolve(addr string) (string, error) {
	if r.types&RecordReverse == 0 {
		return "", ferr.New(ferr.Permission, "resolver.reverse_resolve", addr)
	}
	resp, err := request(r.sock, append([]byte("RREVERSE:"), addr...))
	if err != nil {
		return "", err
	}
	return string(resp), nil
}

// Close releases the resolver service's socket.
func (r *Resolver) Close() error { return r.sock.Close() }
