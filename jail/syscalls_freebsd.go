//go:build freebsd

package jail

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/freebsdkit/capkit/ferr"
)

const (
	flagCreate = 0x01 // JAIL_CREATE
	flagUpdate = 0x02 // JAIL_UPDATE
	flagAttach = 0x04 // JAIL_ATTACH
	flagDying  = 0x08 // JAIL_DYING
)

// buildIovecs renders pairs (with each value NUL-terminated, matching
// jail_set(2)'s C-string convention) into the iovec vector the kernel
// call expects, and the owned byte buffers backing it. The slice of
// iovecs is only valid as long as bufs is kept alive, which is the
// caller's job for the duration of the syscall.
func buildIovecs(pairs []Param, forGet bool) (iovs []unix.Iovec, bufs [][]byte) {
	iovs = make([]unix.Iovec, 0, len(pairs)*2)
	bufs = make([][]byte, 0, len(pairs)*2)
	for _, p := range pairs {
		nameBuf := append([]byte(p.Name), 0)
		bufs = append(bufs, nameBuf)
		iovs = append(iovs, unix.Iovec{Base: &nameBuf[0], Len: uint64(len(nameBuf))})

		var valBuf []byte
		if forGet || p.IsNull {
			// jail_get(2) queries: give the kernel a writable scratch
			// buffer it fills in, sized generously for any parameter
			// value this core expects to read back.
			valBuf = make([]byte, 256)
		} else {
			valBuf = append([]byte(p.Value), 0)
		}
		bufs = append(bufs, valBuf)
		iovs = append(iovs, unix.Iovec{Base: &valBuf[0], Len: uint64(len(valBuf))})
	}
	return iovs, bufs
}

func jailSet(b *ParamBuilder, flags int, _ bool) (jid int32, err error) {
	var result int32
	err = b.WithVector(func(pairs []Param) error {
		iovs, _ := buildIovecs(pairs, false)
		r1, _, errno := syscall.Syscall(unix.SYS_JAIL_SET,
			uintptr(unsafe.Pointer(&iovs[0])), uintptr(len(iovs)), uintptr(flags))
		if errno != 0 {
			return ferr.FromErrno("jail_set", b.names[0], errno)
		}
		result = int32(r1)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

func jailGet(b *ParamBuilder) (Info, bool, error) {
	have := make(map[string]bool, b.Len())
	for _, n := range b.names {
		have[n] = true
	}
	for _, n := range []string{"name", "path", "host.hostname"} {
		if !have[n] {
			b.Query(n)
		}
	}
	var info Info
	var found bool
	err := b.WithVector(func(pairs []Param) error {
		iovs, bufs := buildIovecs(pairs, false)
		r1, _, errno := syscall.Syscall(unix.SYS_JAIL_GET,
			uintptr(unsafe.Pointer(&iovs[0])), uintptr(len(iovs)), uintptr(flagDying))
		if errno == unix.ENOENT {
			return nil
		}
		if errno != 0 {
			return ferr.FromErrno("jail_get", "", errno)
		}
		info = decodeJailGetResult(int32(r1), pairs, bufs)
		found = true
		return nil
	})
	if err != nil {
		return Info{}, false, err
	}
	return info, found, nil
}

// jailGetNext is List's per-iteration step: same call, but a jid of -1
// (ENOENT) specifically means "no more jails", distinct from any other
// lookup failure.
func jailGetNext(b *ParamBuilder) (Info, bool, error) {
	return jailGet(b)
}

func decodeJailGetResult(jid int32, pairs []Param, bufs [][]byte) Info {
	info := Info{JID: jid}
	for i, p := range pairs {
		valBuf := bufs[i*2+1]
		value := cString(valBuf)
		switch p.Name {
		case "name":
			info.Name = value
		case "path":
			info.Path = value
		case "host.hostname":
			info.Hostname = value
		}
	}
	return info
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func jailRemove(jid int32) error {
	if err := unix.JailRemove(int(jid)); err != nil {
		return ferr.FromErrno("jail_remove", itoa(int(jid)), err.(syscall.Errno))
	}
	return nil
}

func jailAttach(jid int32) error {
	if err := unix.JailAttach(int(jid)); err != nil {
		return ferr.FromErrno("jail_attach", itoa(int(jid)), err.(syscall.Errno))
	}
	return nil
}
