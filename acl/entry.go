package acl

import "github.com/freebsdkit/capkit/ferr"

// Entry is a view onto one ACL entry, identified by index rather than
// by holding the entry's storage directly. It is valid only as long as
// its generation matches the owning ACL's current generation; any
// mutation on the ACL (AddEntry, InsertEntry, RemoveEntry,
// RecomputeMask) bumps the generation and stales every outstanding
// Entry, including ones at untouched indices, since a removal or
// insertion can silently renumber them.
type Entry struct {
	acl        *ACL
	index      int
	generation uint64
}

func (e Entry) live() (*entryData, error) {
	if e.acl == nil || e.generation != e.acl.generation {
		return nil, ferr.New(ferr.InvalidArgument, "acl.entry", "stale entry")
	}
	if e.index < 0 || e.index >= len(e.acl.entries) {
		return nil, ferr.New(ferr.InvalidArgument, "acl.entry", "index out of range")
	}
	return &e.acl.entries[e.index], nil
}

// Index reports this view's position in the owning ACL.
func (e Entry) Index() int { return e.index }

// Tag returns the entry's principal class.
func (e Entry) Tag() (Tag, error) {
	d, err := e.live()
	if err != nil {
		return 0, err
	}
	return d.tag, nil
}

// SetTag sets the entry's principal class.
func (e Entry) SetTag(tag Tag) error {
	d, err := e.live()
	if err != nil {
		return err
	}
	d.tag = tag
	return nil
}

// Qualifier returns the entry's uid/gid. It is only meaningful for
// TagUser and TagGroup entries.
func (e Entry) Qualifier() (uint32, error) {
	d, err := e.live()
	if err != nil {
		return 0, err
	}
	if d.tag != TagUser && d.tag != TagGroup {
		return 0, ferr.New(ferr.InvalidArgument, "acl.entry.qualifier", "tag carries no qualifier")
	}
	return d.qualifier, nil
}

// SetQualifier sets the entry's uid/gid. Only valid for TagUser and
// TagGroup entries.
func (e Entry) SetQualifier(qualifier uint32) error {
	d, err := e.live()
	if err != nil {
		return err
	}
	if d.tag != TagUser && d.tag != TagGroup {
		return ferr.New(ferr.InvalidArgument, "acl.entry.set_qualifier", "tag carries no qualifier")
	}
	d.qualifier = qualifier
	return nil
}

// Perm returns the entry's POSIX.1e permission set.
func (e Entry) Perm() (Perm, error) {
	d, err := e.live()
	if err != nil {
		return 0, err
	}
	return d.perm, nil
}

// SetPerm sets the entry's POSIX.1e permission set. Callers must call
// ACL.RecomputeMask afterward if this entry is a user or group entry.
func (e Entry) SetPerm(perm Perm) error {
	d, err := e.live()
	if err != nil {
		return err
	}
	d.perm = perm
	return nil
}

// NFSv4Perm returns the entry's fine-grained NFSv4 permission set.
func (e Entry) NFSv4Perm() (NFSv4Perm, error) {
	d, err := e.live()
	if err != nil {
		return 0, err
	}
	return d.nfs4Perm, nil
}

// SetNFSv4Perm sets the entry's fine-grained NFSv4 permission set.
func (e Entry) SetNFSv4Perm(perm NFSv4Perm) error {
	d, err := e.live()
	if err != nil {
		return err
	}
	d.nfs4Perm = perm
	return nil
}

// EntryType returns the entry's NFSv4 evaluation class.
func (e Entry) EntryType() (EntryType, error) {
	d, err := e.live()
	if err != nil {
		return 0, err
	}
	return d.entryType, nil
}

// SetEntryType sets the entry's NFSv4 evaluation class.
func (e Entry) SetEntryType(t EntryType) error {
	d, err := e.live()
	if err != nil {
		return err
	}
	d.entryType = t
	return nil
}

// InheritFlags returns the entry's NFSv4 inheritance bits.
func (e Entry) InheritFlags() (InheritFlags, error) {
	d, err := e.live()
	if err != nil {
		return 0, err
	}
	return d.inherit, nil
}

// SetInheritFlags sets the entry's NFSv4 inheritance bits.
func (e Entry) SetInheritFlags(f InheritFlags) error {
	d, err := e.live()
	if err != nil {
		return err
	}
	d.inherit = f
	return nil
}

// CopyFrom overwrites this entry's fields with other's. Both entries
// must belong to live generations; they may belong to different ACLs.
func (e Entry) CopyFrom(other Entry) error {
	dst, err := e.live()
	if err != nil {
		return err
	}
	src, err := other.live()
	if err != nil {
		return err
	}
	*dst = *src
	return nil
}
