package descriptor

// Sockaddr is capkit's portable socket address type, kept independent
// of golang.org/x/sys/unix's platform-specific Sockaddr implementations
// so that package-level function signatures compile identically on
// every GOOS; only the freebsd build tag file converts a Sockaddr into
// the kernel's native address representation.
type Sockaddr interface {
	sockaddrMarker()
}

// UnixAddr names a Unix-domain socket path (absolute, or relative to a
// directory descriptor when used with BindAt/ConnectAt).
type UnixAddr struct {
	Path string
}

func (UnixAddr) sockaddrMarker() {}

// InetAddr names an IPv4/IPv6 endpoint.
type InetAddr struct {
	IP   string
	Port int
}

func (InetAddr) sockaddrMarker() {}

// Stat is capkit's portable subset of struct stat, independent of the
// per-platform layout golang.org/x/sys/unix.Stat_t uses.
type Stat struct {
	Dev     uint64
	Ino     uint64
	Mode    uint32
	Nlink   uint64
	Uid     uint32
	Gid     uint32
	Rdev    uint64
	Size    int64
	Atime   int64 // nanoseconds since epoch
	Mtime   int64
	Ctime   int64
	Blksize int64
	Blocks  int64
}
