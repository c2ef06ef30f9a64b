package casper

import (
	"github.com/freebsdkit/capkit/descriptor"
	"github.com/freebsdkit/capkit/ferr"
)

// SysctlAccess is the access mode granted for one named kernel
// parameter.
type SysctlAccess uint8

const (
	SysctlRead SysctlAccess = iota
	SysctlWrite
	SysctlReadWrite
	SysctlRecursive
)

// Sysctl is the kernel-parameter service channel. Policy is a set of
// (name, access) pairs; only names present in the policy are reachable
// at all, and Get/Set further check the requested access against the
// recorded one.
type Sysctl struct {
	sock   *descriptor.Socket
	policy map[string]SysctlAccess
}

func (c *Channel) OpenSysctl(policy map[string]SysctlAccess) (*Sysctl, error) {
	sock, err := c.openService("kernel-parameter")
	if err != nil {
		return nil, err
	}
	cp := make(map[string]SysctlAccess, len(policy))
	for k, v := range policy {
		cp[k] = v
	}
	return &Sysctl{sock: sock, policy: cp}, nil
}

// Narrow removes parameters or downgrades access; it can never add a
// name or upgrade an existing entry's access. Read, write and recursive
// read count as separate grants, and the new access may only keep
// grants the current one already has.
func (s *Sysctl) Narrow(policy map[string]SysctlAccess) error {
	grants := map[SysctlAccess]uint8{SysctlRead: 1, SysctlWrite: 2, SysctlReadWrite: 1 | 2, SysctlRecursive: 1 | 4}
	for name, access := range policy {
		cur, ok := s.policy[name]
		if !ok || grants[access]&^grants[cur] != 0 {
			return ferr.New(ferr.PermissionNarrowed, "sysctl.narrow", name)
		}
	}
	s.policy = policy
	return nil
}

func (s *Sysctl) Get(name string) (string, error) {
	access, ok := s.policy[name]
	if !ok || (access != SysctlRead && access != SysctlReadWrite && access != SysctlRecursive) {
		return "", ferr.New(ferr.Permission, "sysctl.get", name)
	}
	resp, err := request(s.sock, append([]byte("SYSCTL_GET:"), name...))
	if err != nil {
		return "", err
	}
	return string(resp), nil
}

func (s *Sysctl) Set(name, value string) error {
	access, ok := s.policy[name]
	if !ok || (access != SysctlWrite && access != SysctlReadWrite) {
		return ferr.New(ferr.Permission, "sysctl.set", name)
	}
	_, err := request(s.sock, append([]byte("SYSCTL_SET:"+name+"="), value...))
	return err
}

// Close releases the sysctl service's socket.
func (s *Sysctl) Close() error { return s.sock.Close() }
