package descriptor

// File is an owning handle to a regular (or otherwise seekable) kernel
// file. It implements Readable, Writable, Seekable and PathRelative.
type File struct {
	base
}

// OpenFile opens path with ambient authority. It must only be called
// before the sandbox transition — once capability mode is
// active the kernel itself rejects it with ECAPMODE, which FromErrno
// maps to ferr.CapabilityMode.
func OpenFile(path string, flags OpenFlag, mode uint32) (*File, error) {
	fd, err := sysOpen(path, int(flags), mode)
	if err != nil {
		return nil, err
	}
	return &File{base: newBase(fd)}, nil
}

// OpenFileAt opens a path relative to dir. Unlike OpenFile this remains
// legal after the sandbox transition provided dir was opened before it.
func OpenFileAt(dir PathRelative, relpath string, flags OpenFlag, mode uint32) (*File, error) {
	fd, err := sysOpenat(dir.Fd(), relpath, int(flags), mode)
	if err != nil {
		return nil, err
	}
	return &File{base: newBase(fd)}, nil
}

// AdoptFile wraps a raw file fd received over IPC into an owning File.
func AdoptFile(fd int) *File {
	return &File{base: newBase(fd)}
}

func (f *File) Read(max int) ([]byte, error) {
	if err := f.checkOpen("read"); err != nil {
		return nil, err
	}
	return sysRead(int(f.fd), max)
}

func (f *File) Write(p []byte) (int, error) {
	if err := f.checkOpen("write"); err != nil {
		return 0, err
	}
	return sysWrite(int(f.fd), p)
}

func (f *File) Pread(off int64, max int) ([]byte, error) {
	if err := f.checkOpen("pread"); err != nil {
		return nil, err
	}
	return sysPread(int(f.fd), off, max)
}

func (f *File) Pwrite(off int64, p []byte) (int, error) {
	if err := f.checkOpen("pwrite"); err != nil {
		return 0, err
	}
	return sysPwrite(int(f.fd), off, p)
}

func (f *File) Seek(whence int, offset int64) (int64, error) {
	if err := f.checkOpen("lseek"); err != nil {
		return 0, err
	}
	return sysSeek(int(f.fd), whence, offset)
}

func (f *File) Fsync() error {
	if err := f.checkOpen("fsync"); err != nil {
		return err
	}
	return sysFsync(int(f.fd))
}

func (f *File) Ftruncate(length int64) error {
	if err := f.checkOpen("ftruncate"); err != nil {
		return err
	}
	return sysFtruncate(int(f.fd), length)
}

func (f *File) Stat() (Stat, error) {
	if err := f.checkOpen("fstat"); err != nil {
		return Stat{}, err
	}
	return sysFstat(int(f.fd))
}

func (f *File) Fchmod(mode uint32) error {
	if err := f.checkOpen("fchmod"); err != nil {
		return err
	}
	return sysFchmod(int(f.fd), mode)
}

func (f *File) Fchown(uid, gid int) error {
	if err := f.checkOpen("fchown"); err != nil {
		return err
	}
	return sysFchown(int(f.fd), uid, gid)
}

func (f *File) Fchflags(flags int) error {
	if err := f.checkOpen("fchflags"); err != nil {
		return err
	}
	return sysFchflags(int(f.fd), flags)
}

func (f *File) Futimens(atime, mtime int64) error {
	if err := f.checkOpen("futimens"); err != nil {
		return err
	}
	return sysFutimens(int(f.fd), atime, mtime)
}

// Touch sets both atime and mtime to now. "Now" is supplied by the
// caller (nowNanos) rather than read from time.Now() inside the
// descriptor package, keeping this package free of wall-clock reads so
// it stays trivially deterministic to test.
func (f *File) Touch(nowNanos int64) error {
	return f.Futimens(nowNanos, nowNanos)
}
