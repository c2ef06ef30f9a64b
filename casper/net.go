package casper

import (
	"github.com/freebsdkit/capkit/descriptor"
	"github.com/freebsdkit/capkit/ferr"
)

// NetMode is the per-operation-class bitmask for the network service.
type NetMode uint8

const (
	NetAddrToName NetMode = 1 << iota
	NetNameToAddr
	NetBind
	NetConnect
	NetConnectDNS
)

// Net is the network service channel: bind, connect, and name
// resolution under a mode bitmask plus per-family and per-address
// limits.
type Net struct {
	sock      *descriptor.Socket
	mode      NetMode
	families  AddressFamily
	addresses map[string]bool // nil means "no address restriction"
}

func (c *Channel) OpenNet() (*Net, error) {
	sock, err := c.openService("network")
	if err != nil {
		return nil, err
	}
	return &Net{
		sock:     sock,
		mode:     NetAddrToName | NetNameToAddr | NetBind | NetConnect | NetConnectDNS,
		families: FamilyInet | FamilyInet6,
	}, nil
}

func (n *Net) LimitMode(mode NetMode) error {
	if mode&^n.mode != 0 {
		return ferr.New(ferr.PermissionNarrowed, "network.limit_mode", "")
	}
	n.mode = mode
	return nil
}

func (n *Net) LimitFamilies(families AddressFamily) error {
	if families&^n.families != 0 {
		return ferr.New(ferr.PermissionNarrowed, "network.limit_families", "")
	}
	n.families = families
	return nil
}

// LimitAddresses restricts bind/connect to the given address set; once
// narrowed (non-nil) it can only shrink.
func (n *Net) LimitAddresses(addrs []string) error {
	if n.addresses != nil {
		for _, a := range addrs {
			if !n.addresses[a] {
				return ferr.New(ferr.PermissionNarrowed, "network.limit_addresses", a)
			}
		}
	}
	next := make(map[string]bool, len(addrs))
	for _, a := range addrs {
		next[a] = true
	}
	n.addresses = next
	return nil
}

func (n *Net) allowedAddress(addr string) bool {
	return n.addresses == nil || n.addresses[addr]
}

func (n *Net) Bind(addr string) error {
	if n.mode&NetBind == 0 || !n.allowedAddress(addr) {
		return ferr.New(ferr.Permission, "network.bind", addr)
	}
	_, err := request(n.sock, append([]byte("NET_BIND:"), addr...))
	return err
}

func (n *Net) Connect(addr string) error {
	if n.mode&NetConnect == 0 || !n.allowedAddress(addr) {
		return ferr.New(ferr.Permission, "network.connect", addr)
	}
	_, err := request(n.sock, append([]byte("NET_CONNECT:"), addr...))
	return err
}

func (n *Net) ConnectDNS(host string) error {
	if n.mode&NetConnectDNS == 0 {
		return ferr.New(ferr.Permission, "network.connect_dns", host)
	}
	_, err := request(n.sock, append([]byte("NET_CONNECTDNS:"), host...))
	return err
}

// Close releases the network service's socket.
func (n *Net) Close() error { return n.sock.Close() }
