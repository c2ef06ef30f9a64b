package descriptor

// Open flags. Values match FreeBSD's <fcntl.h> numeric assignments so
// that OpenFile/OpenFileAt can pass them straight through to open(2)/
// openat(2) on the freebsd build without a translation table; on other
// GOOS they are inert (every syscall on that build returns
// ferr.NotSupported before the value is ever used by a real open()).
type OpenFlag int

const (
	ORdonly    OpenFlag = 0x0000
	OWronly    OpenFlag = 0x0001
	ORdwr      OpenFlag = 0x0002
	ONonblock  OpenFlag = 0x0004
	OAppend    OpenFlag = 0x0008
	OCreat     OpenFlag = 0x0200
	OTrunc     OpenFlag = 0x0400
	OExcl      OpenFlag = 0x0800
	ODirect    OpenFlag = 0x00010000
	ODirectory OpenFlag = 0x00020000
	OCloexec   OpenFlag = 0x00100000
)

// Whence values for Seek, matching <unistd.h>.
const (
	SeekSet = 0
	SeekCur = 1
	SeekEnd = 2
)

// Shutdown directions, matching <sys/socket.h> SHUT_*.
const (
	ShutRd   = 0
	ShutWr   = 1
	ShutRdwr = 2
)
