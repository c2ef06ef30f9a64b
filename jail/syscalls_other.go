//go:build !freebsd

package jail

import "github.com/freebsdkit/capkit/ferr"

const (
	flagCreate = 0x01
	flagUpdate = 0x02
	flagAttach = 0x04
	flagDying  = 0x08
)

func notSupported(op string) error { return ferr.New(ferr.NotSupported, op, "") }

func jailSet(b *ParamBuilder, flags int, _ bool) (int32, error) {
	return 0, notSupported("jail_set")
}

func jailGet(b *ParamBuilder) (Info, bool, error) {
	return Info{}, false, notSupported("jail_get")
}

func jailGetNext(b *ParamBuilder) (Info, bool, error) {
	return Info{}, false, notSupported("jail_get")
}

func jailRemove(jid int32) error { return notSupported("jail_remove") }

func jailAttach(jid int32) error { return notSupported("jail_attach") }
