package acl

import "github.com/freebsdkit/capkit/ferr"

// entryData is the mutable storage for one entry, held inside the
// owning ACL. Entry (the public view type) never holds one of these
// directly — only an index plus the generation the ACL had when the
// Entry was produced.
type entryData struct {
	tag       Tag
	qualifier uint32 // uid/gid; meaningful for TagUser/TagGroup
	perm      Perm
	nfs4Perm  NFSv4Perm
	entryType EntryType
	inherit   InheritFlags
}

// ACL is owned storage for an access control list. Entry views
// produced by EntryAt are invalidated by any mutating method (AddEntry,
// InsertEntry, RemoveEntry, RecomputeMask) because each bumps
// generation; a stale Entry's methods fail closed with
// ferr.InvalidArgument instead of touching freed or reshuffled storage.
type ACL struct {
	brand      Brand
	entries    []entryData
	generation uint64
}

// Empty returns a new ACL of the given brand with capacity pre-reserved
// (capacity is an allocation hint only, not a limit).
func Empty(brand Brand, capacity int) *ACL {
	return &ACL{brand: brand, entries: make([]entryData, 0, capacity)}
}

// Brand reports the ACL's dialect.
func (a *ACL) Brand() Brand { return a.brand }

// Len reports the number of entries.
func (a *ACL) Len() int { return len(a.entries) }

func (a *ACL) bump() { a.generation++ }

// AddEntry appends a new, zero-valued entry and returns a view onto it.
// Any existing Entry views become stale the instant this is called,
// even though their own backing slot did not move.
func (a *ACL) AddEntry() Entry {
	a.entries = append(a.entries, entryData{})
	a.bump()
	return Entry{acl: a, index: len(a.entries) - 1, generation: a.generation}
}

// InsertEntry inserts a new zero-valued entry at index, shifting
// subsequent entries up by one.
func (a *ACL) InsertEntry(index int) (Entry, error) {
	if index < 0 || index > len(a.entries) {
		return Entry{}, ferr.New(ferr.InvalidArgument, "acl.insert_entry", "")
	}
	a.entries = append(a.entries, entryData{})
	copy(a.entries[index+1:], a.entries[index:])
	a.entries[index] = entryData{}
	a.bump()
	return Entry{acl: a, index: index, generation: a.generation}, nil
}

// RemoveEntry deletes the entry at index. It invalidates every Entry
// view, including ones referring to entries after index (their index
// would otherwise silently shift).
func (a *ACL) RemoveEntry(index int) error {
	if index < 0 || index >= len(a.entries) {
		return ferr.New(ferr.InvalidArgument, "acl.remove_entry", "")
	}
	a.entries = append(a.entries[:index], a.entries[index+1:]...)
	a.bump()
	return nil
}

// EntryAt returns a view onto the entry at index, tied to the ACL's
// current generation.
func (a *ACL) EntryAt(index int) (Entry, error) {
	if index < 0 || index >= len(a.entries) {
		return Entry{}, ferr.New(ferr.InvalidArgument, "acl.entry_at", "")
	}
	return Entry{acl: a, index: index, generation: a.generation}, nil
}

// Entries returns a snapshot slice of every current Entry view, all
// sharing the ACL's current generation.
func (a *ACL) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	for i := range a.entries {
		out[i] = Entry{acl: a, index: i, generation: a.generation}
	}
	return out
}

// IsTrivial reports whether the ACL encodes nothing beyond what the
// traditional owner/group/other mode bits already express: for
// POSIX.1e, exactly user_obj/group_obj/other with no mask and no
// extended user/group entries.
func (a *ACL) IsTrivial() bool {
	if a.brand != BrandPosix1e {
		return false
	}
	for _, e := range a.entries {
		if e.tag == TagUser || e.tag == TagGroup || e.tag == TagMask {
			return false
		}
	}
	return true
}

// IsValid checks the brand-appropriate validity rules.
func (a *ACL) IsValid() bool {
	if a.brand == BrandPosix1e {
		return a.validatePosix1e() == nil
	}
	return a.validateNFSv4() == nil
}

func (a *ACL) validatePosix1e() error {
	var userObjs, groupObjs, others, masks int
	seenUser := map[uint32]bool{}
	seenGroup := map[uint32]bool{}
	hasExtended := false

	for _, e := range a.entries {
		switch e.tag {
		case TagUserObj:
			userObjs++
		case TagGroupObj:
			groupObjs++
		case TagOther:
			others++
		case TagMask:
			masks++
		case TagUser:
			hasExtended = true
			if seenUser[e.qualifier] {
				return ferr.New(ferr.InvalidArgument, "acl.is_valid", "duplicate user qualifier")
			}
			seenUser[e.qualifier] = true
		case TagGroup:
			hasExtended = true
			if seenGroup[e.qualifier] {
				return ferr.New(ferr.InvalidArgument, "acl.is_valid", "duplicate group qualifier")
			}
			seenGroup[e.qualifier] = true
		}
	}

	if userObjs != 1 || groupObjs != 1 || others != 1 {
		return ferr.New(ferr.InvalidArgument, "acl.is_valid", "must have exactly one each of user_obj/group_obj/other")
	}
	if hasExtended && masks != 1 {
		return ferr.New(ferr.InvalidArgument, "acl.is_valid", "mask required when extended entries exist")
	}
	if !hasExtended && masks > 1 {
		return ferr.New(ferr.InvalidArgument, "acl.is_valid", "at most one mask entry")
	}

	if masks == 1 {
		var mask Perm
		for _, e := range a.entries {
			if e.tag == TagMask {
				mask = e.perm
			}
		}
		for _, e := range a.entries {
			if (e.tag == TagUser || e.tag == TagGroup) && e.perm&^mask != 0 {
				return ferr.New(ferr.InvalidArgument, "acl.is_valid", "mask must be superset of extended entry perms")
			}
		}
	}
	return nil
}

// validateNFSv4 only checks structural consistency: NFSv4 has no
// cardinality requirement like POSIX.1e's exactly-one rule, so
// validity here is about internal consistency
// (tag must be one the brand recognizes) rather than set shape; order
// is preserved by construction, not re-checked here.
func (a *ACL) validateNFSv4() error {
	for _, e := range a.entries {
		if e.tag == TagMask || e.tag == TagOther {
			return ferr.New(ferr.InvalidArgument, "acl.is_valid", "mask and other tags are POSIX.1e-only")
		}
	}
	return nil
}

// RecomputeMask derives the POSIX.1e mask entry from the union of
// every extended (user/group) entry's permissions, creating a mask
// entry if one does not already exist. It must be called after any
// mutation to user/group entries for the ACL to remain valid.
// It invalidates all outstanding Entry views, since it may reorder or
// resize entries.
func (a *ACL) RecomputeMask() error {
	if a.brand != BrandPosix1e {
		return ferr.New(ferr.InvalidArgument, "acl.recompute_mask", "mask recomputation is POSIX.1e-only")
	}
	var union Perm
	hasExtended := false
	maskIdx := -1
	for i, e := range a.entries {
		if e.tag == TagUser || e.tag == TagGroup {
			union |= e.perm
			hasExtended = true
		}
		if e.tag == TagMask {
			maskIdx = i
		}
	}
	if !hasExtended {
		a.bump()
		return nil
	}
	if maskIdx >= 0 {
		a.entries[maskIdx].perm = union
	} else {
		a.entries = append(a.entries, entryData{tag: TagMask, perm: union})
	}
	a.bump()
	return nil
}

// EquivalentMode returns the traditional rwxrwxrwx mode bits this ACL
// is equivalent to, or ok=false if it carries anything a mode cannot
// express (any NFSv4 ACL, or a POSIX.1e ACL with extended entries).
func (a *ACL) EquivalentMode() (mode uint32, ok bool) {
	if a.brand != BrandPosix1e || !a.IsTrivial() {
		return 0, false
	}
	var userObj, groupObj, other Perm
	for _, e := range a.entries {
		switch e.tag {
		case TagUserObj:
			userObj = e.perm
		case TagGroupObj:
			groupObj = e.perm
		case TagOther:
			other = e.perm
		}
	}
	mode = uint32(permToModeBits(userObj))<<6 | uint32(permToModeBits(groupObj))<<3 | uint32(permToModeBits(other))
	return mode, true
}

func permToModeBits(p Perm) uint32 {
	var m uint32
	if p&PermRead != 0 {
		m |= 4
	}
	if p&PermWrite != 0 {
		m |= 2
	}
	if p&PermExecute != 0 {
		m |= 1
	}
	return m
}

// FromMode builds a trivial POSIX.1e ACL from a traditional unix mode.
// It always returns ok=true. Only the nine rwx permission bits are
// used: setuid, setgid and sticky bits (0o7000) are ignored, so
// EquivalentMode on the result never reports them.
func FromMode(mode uint32) (*ACL, bool) {
	a := Empty(BrandPosix1e, 3)
	a.entries = append(a.entries,
		entryData{tag: TagUserObj, perm: modeBitsToPerm((mode >> 6) & 7)},
		entryData{tag: TagGroupObj, perm: modeBitsToPerm((mode >> 3) & 7)},
		entryData{tag: TagOther, perm: modeBitsToPerm(mode & 7)},
	)
	return a, true
}

func modeBitsToPerm(bits uint32) Perm {
	var p Perm
	if bits&4 != 0 {
		p |= PermRead
	}
	if bits&2 != 0 {
		p |= PermWrite
	}
	if bits&1 != 0 {
		p |= PermExecute
	}
	return p
}

// StripExtended returns a new ACL containing only the base entries
// (user_obj/group_obj/other for POSIX.1e), optionally recomputing the
// mask of the receiver first (recomputeMask has no effect on the
// returned ACL itself, which never carries a mask once stripped).
func (a *ACL) StripExtended(recomputeMask bool) (*ACL, error) {
	if recomputeMask {
		if err := a.RecomputeMask(); err != nil {
			return nil, err
		}
	}
	out := Empty(a.brand, 3)
	for _, e := range a.entries {
		if e.tag == TagUserObj || e.tag == TagGroupObj || e.tag == TagOther {
			out.entries = append(out.entries, e)
		}
	}
	return out, nil
}
