package acl

// fdOwner is the minimal surface capkit's own descriptor types
// satisfy: every descriptor.base embedder (File, Dir, Socket, Proc)
// exposes Fd() without handing out ownership, which is exactly what
// the apply/remove-by-descriptor operations need.
type fdOwner interface {
	Fd() int
}

// FromFile reads the ACL of typ currently applied to path, following
// symlinks.
func FromFile(path string, typ Type) (*ACL, error) {
	return sysAclGetFile(path, typ)
}

// FromLink reads the ACL of typ applied to path without following a
// trailing symlink.
func FromLink(path string, typ Type) (*ACL, error) {
	return sysAclGetLink(path, typ)
}

// FromFd reads the ACL of typ applied to the object behind an already
// open descriptor, avoiding a second path lookup and its TOCTOU
// exposure.
func FromFd(d fdOwner, typ Type) (*ACL, error) {
	return sysAclGetFd(d.Fd(), typ)
}

// ApplyToFile replaces the ACL of typ on path, following symlinks. The
// receiver must satisfy IsValid for typ's brand or the kernel rejects
// it.
func (a *ACL) ApplyToFile(path string, typ Type) error {
	return sysAclSetFile(path, typ, a)
}

// ApplyToLink replaces the ACL of typ on path without following a
// trailing symlink.
func (a *ACL) ApplyToLink(path string, typ Type) error {
	return sysAclSetLink(path, typ, a)
}

// ApplyToFd replaces the ACL of typ on the object behind an already
// open descriptor.
func (a *ACL) ApplyToFd(d fdOwner, typ Type) error {
	return sysAclSetFd(d.Fd(), typ, a)
}

// RemoveFromFile deletes the ACL of typ from path (for POSIX.1e this
// resets the object to its traditional mode bits; it is meaningless
// for TypeAccess, which every object always has one of).
func RemoveFromFile(path string, typ Type) error {
	return sysAclDeleteFile(path, typ)
}

// RemoveFromLink deletes the ACL of typ from path without following a
// trailing symlink.
func RemoveFromLink(path string, typ Type) error {
	return sysAclDeleteLink(path, typ)
}

// RemoveFromFd deletes the ACL of typ from the object behind an
// already open descriptor.
func RemoveFromFd(d fdOwner, typ Type) error {
	return sysAclDeleteFd(d.Fd(), typ)
}

// RemoveDefaultFromDirectory deletes path's POSIX.1e default ACL,
// after which newly created children stop inheriting it. It is a thin
// name for RemoveFromFile(path, TypeDefault) matching the vocabulary
// spec.md's removal operations use.
func RemoveDefaultFromDirectory(path string) error {
	return sysAclDeleteFile(path, TypeDefault)
}
