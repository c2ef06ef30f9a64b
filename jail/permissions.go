package jail

// Permissions is the set of boolean jail capabilities plus the
// filesystem-type set enumerating permitted mounts. Every boolean
// field is a pointer so that "unset" (use the kernel default) is
// distinguishable from "explicitly false"; AllowedMounts is a bitmask
// in which only the set bits are emitted. Only set fields reach the
// parameter vector, whether or not they match the kernel default.
type Permissions struct {
	SetHostname      *bool
	Sysvipc          *bool
	RawSockets       *bool
	Chflags          *bool
	Quotas           *bool
	SocketAF         *bool
	Mlock            *bool
	ReservedPorts    *bool
	ReadMsgBuf       *bool
	ProcessDebug     *bool
	ParentTampering  *bool
	Suser            *bool
	Nfsd             *bool
	Extattr          *bool
	Adjtime          *bool
	Settime          *bool
	Routing          *bool
	AuditControl     *bool
	AllowedMounts    FilesystemTypeSet
}

// FilesystemTypeSet is a bitmask over the mountable filesystem types a
// jail may use.
type FilesystemTypeSet uint16

const (
	FsDevfs FilesystemTypeSet = 1 << iota
	FsProcfs
	FsTmpfs
	FsFdescfs
	FsZfs
	FsLinprocfs
	FsLinsysfs
	FsLindebugfs
)

var permissionParamNames = map[string]func(*Permissions) **bool{
	"allow.set_hostname":      func(p *Permissions) **bool { return &p.SetHostname },
	"allow.sysvipc":           func(p *Permissions) **bool { return &p.Sysvipc },
	"allow.raw_sockets":       func(p *Permissions) **bool { return &p.RawSockets },
	"allow.chflags":           func(p *Permissions) **bool { return &p.Chflags },
	"allow.quotas":            func(p *Permissions) **bool { return &p.Quotas },
	"allow.socket_af":         func(p *Permissions) **bool { return &p.SocketAF },
	"allow.mlock":             func(p *Permissions) **bool { return &p.Mlock },
	"allow.reserved_ports":    func(p *Permissions) **bool { return &p.ReservedPorts },
	"allow.read_msgbuf":       func(p *Permissions) **bool { return &p.ReadMsgBuf },
	"allow.process_debug":     func(p *Permissions) **bool { return &p.ProcessDebug },
	"allow.noparent_tampering": func(p *Permissions) **bool { return &p.ParentTampering },
	"allow.suser":             func(p *Permissions) **bool { return &p.Suser },
	"allow.nfsd":              func(p *Permissions) **bool { return &p.Nfsd },
	"allow.extattr":           func(p *Permissions) **bool { return &p.Extattr },
	"allow.adjtime":           func(p *Permissions) **bool { return &p.Adjtime },
	"allow.settime":           func(p *Permissions) **bool { return &p.Settime },
	"allow.routing":           func(p *Permissions) **bool { return &p.Routing },
	"allow.audit_control":     func(p *Permissions) **bool { return &p.AuditControl },
}

var fsMountParamNames = [...]struct {
	bit  FilesystemTypeSet
	name string
}{
	{FsDevfs, "allow.mount.devfs"},
	{FsProcfs, "allow.mount.procfs"},
	{FsTmpfs, "allow.mount.tmpfs"},
	{FsFdescfs, "allow.mount.fdescfs"},
	{FsZfs, "allow.mount.zfs"},
	{FsLinprocfs, "allow.mount.linprocfs"},
	{FsLinsysfs, "allow.mount.linsysfs"},
	{FsLindebugfs, "allow.mount.lindebugfs"},
}

// appendTo adds every explicitly-set permission to b. Unset fields (nil
// pointers, and filesystem-type bits not present in AllowedMounts) are
// left untouched so the kernel default applies.
func (p Permissions) appendTo(b *ParamBuilder) {
	for name, accessor := range permissionParamNames {
		v := *accessor(&p)
		if v != nil {
			b.Set(name, boolParam(*v))
		}
	}
	for _, m := range fsMountParamNames {
		if p.AllowedMounts&m.bit != 0 {
			b.Set(m.name, "1")
		}
	}
}
