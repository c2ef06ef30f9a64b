//go:build freebsd

package acl

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/freebsdkit/capkit/ferr"
)

// x/sys/unix does not export high-level wrappers for the
// __acl_get/set/delete_{file,link,fd} family the way it does for
// simpler single-purpose calls like CapEnter; the package only carries
// the raw SYS___ACL_* numbers. This mirrors the precedent set for
// jail_set/jail_get in the jail package: call syscall.Syscall directly
// against the numeric constant rather than inventing a fake wrapper.

// freebsdAclType maps our portable Type to the kernel's acl_type_t.
// ACL_TYPE_ACCESS_OLD=0x00000000, ACL_TYPE_DEFAULT_OLD=0x00000001,
// ACL_TYPE_ACCESS=0x00000003, ACL_TYPE_DEFAULT=0x00000004,
// ACL_TYPE_NFS4=0x00000006 per sys/acl.h; capkit always uses the
// modern (non-"OLD") numbering.
func freebsdAclType(t Type) uint32 {
	switch t {
	case TypeAccess:
		return 0x00000003
	case TypeDefault:
		return 0x00000004
	case TypeNFS4:
		return 0x00000006
	}
	return 0x00000003
}

// kernelACLMaxEntries mirrors ACL_MAX_ENTRIES from sys/acl.h.
const kernelACLMaxEntries = 254

// kernelEntrySize is sizeof(struct acl_entry): ae_tag(4) + ae_id(4) +
// ae_perm(4) + ae_entry_type(4) + ae_flags(4), matching the kernel's
// int-sized fields.
const kernelEntrySize = 20

// kernelHeaderSize is sizeof(acl_maxcnt, acl_cnt, acl_spare[4]): six
// ints ahead of the entry array in struct acl.
const kernelHeaderSize = 6 * 4

const kernelACLSize = kernelHeaderSize + kernelACLMaxEntries*kernelEntrySize

// Kernel ae_tag_t values (sys/acl.h).
const (
	kTagUserObj  = 0x00000001
	kTagUser     = 0x00000002
	kTagGroupObj = 0x00000004
	kTagGroup    = 0x00000008
	kTagMask     = 0x00000010
	kTagOther    = 0x00000020
	kTagEveryone = 0x00000040
)

func tagToKernel(t Tag) uint32 {
	switch t {
	case TagUserObj:
		return kTagUserObj
	case TagUser:
		return kTagUser
	case TagGroupObj:
		return kTagGroupObj
	case TagGroup:
		return kTagGroup
	case TagMask:
		return kTagMask
	case TagOther:
		return kTagOther
	case TagEveryone:
		return kTagEveryone
	}
	return 0
}

func tagFromKernel(v uint32) Tag {
	switch v {
	case kTagUserObj:
		return TagUserObj
	case kTagUser:
		return TagUser
	case kTagGroupObj:
		return TagGroupObj
	case kTagGroup:
		return TagGroup
	case kTagMask:
		return TagMask
	case kTagOther:
		return TagOther
	case kTagEveryone:
		return TagEveryone
	}
	return TagUserObj
}

// encodeKernelACL renders a into the kernel's flat struct acl layout.
func encodeKernelACL(a *ACL) []byte {
	buf := make([]byte, kernelACLSize)
	le := func(off int, v uint32) { putLE32(buf, off, v) }
	le(0, kernelACLMaxEntries)
	le(4, uint32(len(a.entries)))
	for i, e := range a.entries {
		base := kernelHeaderSize + i*kernelEntrySize
		le(base, tagToKernel(e.tag))
		le(base+4, e.qualifier)
		if a.brand == BrandPosix1e {
			le(base+8, uint32(e.perm))
		} else {
			le(base+8, uint32(e.nfs4Perm))
		}
		le(base+12, uint32(e.entryType))
		le(base+16, uint32(e.inherit))
	}
	return buf
}

func decodeKernelACL(buf []byte, brand Brand) *ACL {
	count := getLE32(buf, 4)
	a := Empty(brand, int(count))
	for i := 0; i < int(count); i++ {
		base := kernelHeaderSize + i*kernelEntrySize
		e := entryData{
			tag:       tagFromKernel(getLE32(buf, base)),
			qualifier: getLE32(buf, base+4),
			entryType: EntryType(getLE32(buf, base+12)),
			inherit:   InheritFlags(getLE32(buf, base+16)),
		}
		if brand == BrandPosix1e {
			e.perm = Perm(getLE32(buf, base+8))
		} else {
			e.nfs4Perm = NFSv4Perm(getLE32(buf, base+8))
		}
		a.entries = append(a.entries, e)
	}
	return a
}

func putLE32(buf []byte, off int, v uint32) {
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
	buf[off+2] = byte(v >> 16)
	buf[off+3] = byte(v >> 24)
}

func getLE32(buf []byte, off int) uint32 {
	return uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
}

func sysAclGetFile(path string, typ Type) (*ACL, error) {
	p, err := syscall.BytePtrFromString(path)
	if err != nil {
		return nil, ferr.New(ferr.InvalidArgument, "__acl_get_file", path)
	}
	buf := make([]byte, kernelACLSize)
	_, _, errno := syscall.Syscall(unix.SYS___ACL_GET_FILE,
		uintptr(unsafe.Pointer(p)), uintptr(freebsdAclType(typ)), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return nil, ferr.FromErrno("__acl_get_file", path, errno)
	}
	brand := BrandPosix1e
	if typ == TypeNFS4 {
		brand = BrandNFSv4
	}
	return decodeKernelACL(buf, brand), nil
}

func sysAclSetFile(path string, typ Type, a *ACL) error {
	p, err := syscall.BytePtrFromString(path)
	if err != nil {
		return ferr.New(ferr.InvalidArgument, "__acl_set_file", path)
	}
	buf := encodeKernelACL(a)
	_, _, errno := syscall.Syscall(unix.SYS___ACL_SET_FILE,
		uintptr(unsafe.Pointer(p)), uintptr(freebsdAclType(typ)), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return ferr.FromErrno("__acl_set_file", path, errno)
	}
	return nil
}

func sysAclDeleteFile(path string, typ Type) error {
	p, err := syscall.BytePtrFromString(path)
	if err != nil {
		return ferr.New(ferr.InvalidArgument, "__acl_delete_file", path)
	}
	_, _, errno := syscall.Syscall(unix.SYS___ACL_DELETE_FILE, uintptr(unsafe.Pointer(p)), uintptr(freebsdAclType(typ)), 0)
	if errno != 0 {
		return ferr.FromErrno("__acl_delete_file", path, errno)
	}
	return nil
}

func sysAclGetLink(path string, typ Type) (*ACL, error) {
	p, err := syscall.BytePtrFromString(path)
	if err != nil {
		return nil, ferr.New(ferr.InvalidArgument, "__acl_get_link", path)
	}
	buf := make([]byte, kernelACLSize)
	_, _, errno := syscall.Syscall(unix.SYS___ACL_GET_LINK,
		uintptr(unsafe.Pointer(p)), uintptr(freebsdAclType(typ)), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return nil, ferr.FromErrno("__acl_get_link", path, errno)
	}
	brand := BrandPosix1e
	if typ == TypeNFS4 {
		brand = BrandNFSv4
	}
	return decodeKernelACL(buf, brand), nil
}

func sysAclSetLink(path string, typ Type, a *ACL) error {
	p, err := syscall.BytePtrFromString(path)
	if err != nil {
		return ferr.New(ferr.InvalidArgument, "__acl_set_link", path)
	}
	buf := encodeKernelACL(a)
	_, _, errno := syscall.Syscall(unix.SYS___ACL_SET_LINK,
		uintptr(unsafe.Pointer(p)), uintptr(freebsdAclType(typ)), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return ferr.FromErrno("__acl_set_link", path, errno)
	}
	return nil
}

func sysAclDeleteLink(path string, typ Type) error {
	p, err := syscall.BytePtrFromString(path)
	if err != nil {
		return ferr.New(ferr.InvalidArgument, "__acl_delete_link", path)
	}
	_, _, errno := syscall.Syscall(unix.SYS___ACL_DELETE_LINK, uintptr(unsafe.Pointer(p)), uintptr(freebsdAclType(typ)), 0)
	if errno != 0 {
		return ferr.FromErrno("__acl_delete_link", path, errno)
	}
	return nil
}

func sysAclGetFd(fd int, typ Type) (*ACL, error) {
	buf := make([]byte, kernelACLSize)
	_, _, errno := syscall.Syscall(unix.SYS___ACL_GET_FD, uintptr(fd), uintptr(freebsdAclType(typ)), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return nil, ferr.FromErrno("__acl_get_fd", "", errno)
	}
	brand := BrandPosix1e
	if typ == TypeNFS4 {
		brand = BrandNFSv4
	}
	return decodeKernelACL(buf, brand), nil
}

func sysAclSetFd(fd int, typ Type, a *ACL) error {
	buf := encodeKernelACL(a)
	_, _, errno := syscall.Syscall(unix.SYS___ACL_SET_FD, uintptr(fd), uintptr(freebsdAclType(typ)), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return ferr.FromErrno("__acl_set_fd", "", errno)
	}
	return nil
}

func sysAclDeleteFd(fd int, typ Type) error {
	_, _, errno := syscall.Syscall(unix.SYS___ACL_DELETE_FD, uintptr(fd), uintptr(freebsdAclType(typ)), 0)
	if errno != 0 {
		return ferr.FromErrno("__acl_delete_fd", "", errno)
	}
	return nil
}
