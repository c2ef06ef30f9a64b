package casper

import (
	"github.com/freebsdkit/capkit/descriptor"
	"github.com/freebsdkit/capkit/ferr"
)

// Priority mirrors syslog(3) priority levels, used as a bitmask for
// the log service's narrowing policy.
type Priority uint8

const (
	PriEmerg Priority = 1 << iota
	PriAlert
	PriCrit
	PriErr
	PriWarning
	PriNotice
	PriInfo
	PriDebug
)

// Log is the priority-tagged log submission service channel.
type Log struct {
	sock *descriptor.Socket
	mask Priority
}

func (c *Channel) OpenLog() (*Log, error) {
	sock, err := c.openService("log")
	if err != nil {
		return nil, err
	}
	return &Log{sock: sock, mask: PriEmerg | PriAlert | PriCrit | PriErr | PriWarning | PriNotice | PriInfo | PriDebug}, nil
}

func (l *Log) LimitPriorities(mask Priority) error {
	if mask&^l.mask != 0 {
		return ferr.New(ferr.PermissionNarrowed, "log.limit_priorities", "")
	}
	l.mask = mask
	return nil
}

func (l *Log) Submit(pri Priority, message string) error {
	if l.mask&pri == 0 {
		return ferr.New(ferr.Permission, "log.submit", message)
	}
	_, err := request(l.sock, append([]byte("LOG:"), message...))
	return err
}

// Close releases the log service's socket.
func (l *Log) Close() error { return l.sock.Close() }
