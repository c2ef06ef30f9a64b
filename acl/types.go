// Package acl implements the ACL engine: POSIX.1e and NFSv4
// access control lists, their validity rules, mask recomputation, text
// and wire serialization, and application to files/symlinks/
// descriptors.
package acl

// Brand distinguishes the two ACL dialects a single ACL value can
// hold. A brand is fixed at construction (from_mode/from_text pick it
// implicitly; from_wire/from_file read it off the source) and never
// changes across the ACL's lifetime.
type Brand int

const (
	BrandPosix1e Brand = iota
	BrandNFSv4
)

// Type selects which of a filesystem object's ACL slots an operation
// targets: POSIX.1e objects have an "access" ACL and, for directories,
// a separately inheritable "default" ACL; NFSv4 objects have a single
// ACL that is itself inheritance-aware via per-entry flags.
type Type int

const (
	TypeAccess Type = iota
	TypeDefault
	TypeNFS4
)

// Tag names the principal class an entry applies to.
type Tag int

const (
	TagUserObj Tag = iota
	TagUser
	TagGroupObj
	TagGroup
	TagMask
	TagOther
	TagEveryone // NFSv4 only
)

func (t Tag) String() string {
	switch t {
	case TagUserObj:
		return "user_obj"
	case TagUser:
		return "user"
	case TagGroupObj:
		return "group_obj"
	case TagGroup:
		return "group"
	case TagMask:
		return "mask"
	case TagOther:
		return "other"
	case TagEveryone:
		return "everyone"
	}
	return "unknown"
}

// Perm is the POSIX.1e permission alphabet: read, write, execute.
type Perm uint8

const (
	PermRead Perm = 1 << iota
	PermWrite
	PermExecute
)

// NFSv4Perm is the 14-bit NFSv4 fine-grained permission alphabet.
type NFSv4Perm uint16

const (
	NFSv4ReadData NFSv4Perm = 1 << iota
	NFSv4WriteData
	NFSv4AppendData
	NFSv4ReadNamedAttrs
	NFSv4WriteNamedAttrs
	NFSv4Execute
	NFSv4DeleteChild
	NFSv4ReadAttributes
	NFSv4WriteAttributes
	NFSv4Delete
	NFSv4ReadACL
	NFSv4WriteACL
	NFSv4WriteOwner
	NFSv4Synchronize
)

// EntryType is an NFSv4 entry's evaluation class.
type EntryType int

const (
	NFSv4Allow EntryType = iota
	NFSv4Deny
	NFSv4Audit
	NFSv4Alarm
)

// InheritFlags are NFSv4 inheritance bits.
type InheritFlags uint8

const (
	InheritFile InheritFlags = 1 << iota
	InheritDirectory
	InheritNoPropagate
	InheritOnly
	Inherited
)
