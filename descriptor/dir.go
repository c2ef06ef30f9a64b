package descriptor

import "github.com/freebsdkit/capkit/ferr"

// EntryType is a directory entry's file type, mirroring struct dirent's
// d_type field.
type EntryType uint8

const (
	EntryUnknown EntryType = iota
	EntryFIFO
	EntryCharDev
	EntryDir
	EntryBlockDev
	EntryRegular
	EntrySymlink
	EntrySocket
	EntryWhiteout
)

// DirEntry is one (inode, type, name) record.
type DirEntry struct {
	Inode uint64
	Type  EntryType
	Name  string
}

// Dir is an owning handle to a directory, used both for direct
// directory operations and as the PathRelative anchor for *At calls
// that must remain legal after the sandbox transition.
type Dir struct {
	base

	// leftover holds bytes from a partial dirent record split across
	// two ReadEntriesRaw calls.
	leftover []byte
	basep    uintptr
}

// OpenDir opens a directory with ambient authority (pre-sandbox only).
func OpenDir(path string, flags OpenFlag) (*Dir, error) {
	fd, err := sysOpen(path, int(flags|ODirectory), 0)
	if err != nil {
		return nil, err
	}
	return &Dir{base: newBase(fd)}, nil
}

// OpenDirAt opens a directory relative to another directory handle.
func OpenDirAt(dir PathRelative, relpath string, flags OpenFlag) (*Dir, error) {
	fd, err := sysOpenat(dir.Fd(), relpath, int(flags|ODirectory), 0)
	if err != nil {
		return nil, err
	}
	return &Dir{base: newBase(fd)}, nil
}

func (d *Dir) MkdirAt(relpath string, mode uint32) error {
	if err := d.checkOpen("mkdirat"); err != nil {
		return err
	}
	return sysMkdirat(int(d.fd), relpath, mode)
}

// UnlinkAt removes relpath. removeDir selects rmdir(2) semantics
// instead of unlink(2).
func (d *Dir) UnlinkAt(relpath string, removeDir bool) error {
	if err := d.checkOpen("unlinkat"); err != nil {
		return err
	}
	return sysUnlinkat(int(d.fd), relpath, removeDir)
}

func (d *Dir) RenameAt(oldRel string, newDir *Dir, newRel string) error {
	if err := d.checkOpen("renameat"); err != nil {
		return err
	}
	return sysRenameat(int(d.fd), oldRel, int(newDir.fd), newRel)
}

func (d *Dir) LinkAt(oldRel string, newDir *Dir, newRel string, followSymlink bool) error {
	if err := d.checkOpen("linkat"); err != nil {
		return err
	}
	return sysLinkat(int(d.fd), oldRel, int(newDir.fd), newRel, followSymlink)
}

func (d *Dir) SymlinkAt(target, relpath string) error {
	if err := d.checkOpen("symlinkat"); err != nil {
		return err
	}
	return sysSymlinkat(target, int(d.fd), relpath)
}

func (d *Dir) ReadlinkAt(relpath string) (string, error) {
	if err := d.checkOpen("readlinkat"); err != nil {
		return "", err
	}
	return sysReadlinkat(int(d.fd), relpath)
}

// AccessMode mirrors F_OK/R_OK/W_OK/X_OK for AccessAt.
type AccessMode uint32

const (
	FOk AccessMode = 0
	XOk AccessMode = 1
	WOk AccessMode = 2
	ROk AccessMode = 4
)

func (d *Dir) AccessAt(relpath string, mode AccessMode) error {
	if err := d.checkOpen("faccessat"); err != nil {
		return err
	}
	return sysFaccessat(int(d.fd), relpath, uint32(mode), 0)
}

func (d *Dir) MkfifoAt(relpath string, mode uint32) error {
	if err := d.checkOpen("mkfifoat"); err != nil {
		return err
	}
	return sysMkfifoat(int(d.fd), relpath, mode)
}

func (d *Dir) StatAt(relpath string, follow bool) (Stat, error) {
	if err := d.checkOpen("fstatat"); err != nil {
		return Stat{}, err
	}
	return sysFstatat(int(d.fd), relpath, follow)
}

func (d *Dir) Stat() (Stat, error) {
	if err := d.checkOpen("fstat"); err != nil {
		return Stat{}, err
	}
	return sysFstat(int(d.fd))
}

func (d *Dir) Fchmod(mode uint32) error {
	if err := d.checkOpen("fchmod"); err != nil {
		return err
	}
	return sysFchmod(int(d.fd), mode)
}

func (d *Dir) Fchown(uid, gid int) error {
	if err := d.checkOpen("fchown"); err != nil {
		return err
	}
	return sysFchown(int(d.fd), uid, gid)
}

const direntBufSize = 8192

// ReadEntries materializes the directory's entry list in kernel order,
// reading from the descriptor's current directory offset to the end.
// It resets any in-progress ReadEntriesRaw stream state.
func (d *Dir) ReadEntries() ([]DirEntry, error) {
	if err := d.checkOpen("getdirentries"); err != nil {
		return nil, err
	}
	d.leftover = nil
	d.basep = 0

	var basep uintptr
	var entries []DirEntry
	buf := make([]byte, direntBufSize)
	var leftover []byte

	for {
		n, err := sysGetdirentries(int(d.fd), buf, &basep)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			if len(leftover) > 0 {
				return nil, ferr.New(ferr.IO, "getdirentries", "truncated final record")
			}
			return entries, nil
		}

		chunk := append(leftover, buf[:n]...)
		parsed, rest := parseDirents(chunk)
		entries = append(entries, parsed...)
		leftover = rest
	}
}

// ReadEntriesRaw fills buf with the kernel's packed directory-record
// stream, returning parsed entries and advancing the streaming cursor.
// Records that span two calls are retained internally and prefixed
// onto the next call's data.
func (d *Dir) ReadEntriesRaw(buf []byte) ([]DirEntry, error) {
	if err := d.checkOpen("getdirentries"); err != nil {
		return nil, err
	}

	n, err := sysGetdirentries(int(d.fd), buf, &d.basep)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if len(d.leftover) > 0 {
			entries, _ := parseDirents(d.leftover)
			d.leftover = nil
			return entries, nil
		}
		return nil, nil
	}

	chunk := append(d.leftover, buf[:n]...)
	entries, rest := parseDirents(chunk)
	d.leftover = rest
	return entries, nil
}

// dirent layout mirrors FreeBSD's struct dirent: d_fileno(uint64),
// d_off(uint64), d_reclen(uint16), d_type(uint8), d_pad0(uint8),
// d_namlen(uint16), d_pad1(uint16), d_name[...].
const direntHeaderSize = 8 + 8 + 2 + 1 + 1 + 2 + 2

func parseDirents(buf []byte) (entries []DirEntry, leftover []byte) {
	off := 0
	for off+direntHeaderSize <= len(buf) {
		reclen := int(le16(buf[off+16:]))
		if reclen == 0 || off+reclen > len(buf) {
			break
		}

		fileno := le64(buf[off:])
		typ := buf[off+18]
		namlen := int(le16(buf[off+20:]))

		nameStart := off + direntHeaderSize
		if nameStart+namlen > len(buf) {
			break
		}
		name := string(buf[nameStart : nameStart+namlen])

		entries = append(entries, DirEntry{
			Inode: fileno,
			Type:  toEntryType(typ),
			Name:  name,
		})

		off += reclen
	}
	return entries, append([]byte(nil), buf[off:]...)
}

func le16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func le64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

func toEntryType(t byte) EntryType {
	switch t {
	case 1:
		return EntryFIFO
	case 2:
		return EntryCharDev
	case 4:
		return EntryDir
	case 6:
		return EntryBlockDev
	case 8:
		return EntryRegular
	case 10:
		return EntrySymlink
	case 12:
		return EntrySocket
	case 14:
		return EntryWhiteout
	default:
		return EntryUnknown
	}
}
