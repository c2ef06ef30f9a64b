package acl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/freebsdkit/capkit/ferr"
)

// TextOptions controls ToText rendering.
type TextOptions struct {
	// NumericIDs renders user/group qualifiers as bare numbers even when
	// Resolve is set (capkit never resolves names itself, so without a
	// Resolve hook qualifiers are always printed as numbers).
	NumericIDs bool
	// AppendID appends the numeric qualifier in parentheses even when a
	// resolved name is used, e.g. "user:alice (1001):rw-".
	AppendID bool
	// Resolve, if set, maps a qualifier to a display name for
	// TagUser/TagGroup entries. Ignored when NumericIDs is true.
	Resolve func(tag Tag, qualifier uint32) (string, bool)
}

func permString(p Perm) string {
	r := "-"
	w := "-"
	x := "-"
	if p&PermRead != 0 {
		r = "r"
	}
	if p&PermWrite != 0 {
		w = "w"
	}
	if p&PermExecute != 0 {
		x = "x"
	}
	return r + w + x
}

func parsePermString(s string) (Perm, error) {
	if len(s) != 3 {
		return 0, ferr.New(ferr.MalformedLabel, "acl.from_text", "permission field must be 3 characters")
	}
	var p Perm
	switch s[0] {
	case 'r':
		p |= PermRead
	case '-':
	default:
		return 0, ferr.New(ferr.MalformedLabel, "acl.from_text", "invalid read bit")
	}
	switch s[1] {
	case 'w':
		p |= PermWrite
	case '-':
	default:
		return 0, ferr.New(ferr.MalformedLabel, "acl.from_text", "invalid write bit")
	}
	switch s[2] {
	case 'x':
		p |= PermExecute
	case '-':
	default:
		return 0, ferr.New(ferr.MalformedLabel, "acl.from_text", "invalid execute bit")
	}
	return p, nil
}

// ToText renders the ACL in getfacl-style text form: one
// "tag:qualifier:perm" line per entry for POSIX.1e; NFSv4 entries
// render as "type:flags:tag:qualifier:perm". Both dialects keep the
// ACL's stored entry order, so FromText(ToText(a)) yields the entries
// in the same order.
func (a *ACL) ToText(opts TextOptions) (string, error) {
	var sb strings.Builder
	if a.brand == BrandPosix1e {
		for _, e := range a.entries {
			sb.WriteString(e.tag.String())
			sb.WriteByte(':')
			if e.tag == TagUser || e.tag == TagGroup {
				sb.WriteString(a.renderQualifier(e.tag, e.qualifier, opts))
			}
			sb.WriteByte(':')
			sb.WriteString(permString(e.perm))
			sb.WriteByte('\n')
		}
		return sb.String(), nil
	}

	for _, e := range a.entries {
		sb.WriteString(nfs4EntryTypeLetter(e.entryType))
		sb.WriteByte(':')
		sb.WriteString(nfs4FlagsString(e.inherit))
		sb.WriteByte(':')
		sb.WriteString(e.tag.String())
		if e.tag == TagUser || e.tag == TagGroup {
			sb.WriteByte(':')
			sb.WriteString(a.renderQualifier(e.tag, e.qualifier, opts))
		}
		sb.WriteByte(':')
		sb.WriteString(nfs4PermString(e.nfs4Perm))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func (a *ACL) renderQualifier(tag Tag, qualifier uint32, opts TextOptions) string {
	if !opts.NumericIDs && opts.Resolve != nil {
		if name, ok := opts.Resolve(tag, qualifier); ok {
			if opts.AppendID {
				return fmt.Sprintf("%s (%d)", name, qualifier)
			}
			return name
		}
	}
	return strconv.FormatUint(uint64(qualifier), 10)
}

func nfs4EntryTypeLetter(t EntryType) string {
	switch t {
	case NFSv4Allow:
		return "A"
	case NFSv4Deny:
		return "D"
	case NFSv4Audit:
		return "U"
	case NFSv4Alarm:
		return "L"
	}
	return "A"
}

func nfs4FlagsString(f InheritFlags) string {
	var sb strings.Builder
	if f&InheritFile != 0 {
		sb.WriteByte('f')
	}
	if f&InheritDirectory != 0 {
		sb.WriteByte('d')
	}
	if f&InheritNoPropagate != 0 {
		sb.WriteByte('n')
	}
	if f&InheritOnly != 0 {
		sb.WriteByte('i')
	}
	if f&Inherited != 0 {
		sb.WriteByte('I')
	}
	return sb.String()
}

var nfs4PermLetters = []struct {
	bit    NFSv4Perm
	letter byte
}{
	{NFSv4ReadData, 'r'},
	{NFSv4WriteData, 'w'},
	{NFSv4AppendData, 'a'},
	{NFSv4ReadNamedAttrs, 'n'},
	{NFSv4WriteNamedAttrs, 'N'},
	{NFSv4Execute, 'x'},
	{NFSv4DeleteChild, 'D'},
	{NFSv4ReadAttributes, 't'},
	{NFSv4WriteAttributes, 'T'},
	{NFSv4Delete, 'd'},
	{NFSv4ReadACL, 'c'},
	{NFSv4WriteACL, 'C'},
	{NFSv4WriteOwner, 'o'},
	{NFSv4Synchronize, 's'},
}

func nfs4PermString(p NFSv4Perm) string {
	var sb strings.Builder
	for _, e := range nfs4PermLetters {
		if p&e.bit != 0 {
			sb.WriteByte(e.letter)
		}
	}
	return sb.String()
}

func parseNFSv4PermString(s string) (NFSv4Perm, error) {
	var p NFSv4Perm
	for _, c := range s {
		found := false
		for _, e := range nfs4PermLetters {
			if byte(c) == e.letter {
				p |= e.bit
				found = true
				break
			}
		}
		if !found {
			return 0, ferr.New(ferr.MalformedLabel, "acl.from_text", fmt.Sprintf("unknown NFSv4 permission letter %q", c))
		}
	}
	return p, nil
}

func parseNFSv4Flags(s string) InheritFlags {
	var f InheritFlags
	for _, c := range s {
		switch c {
		case 'f':
			f |= InheritFile
		case 'd':
			f |= InheritDirectory
		case 'n':
			f |= InheritNoPropagate
		case 'i':
			f |= InheritOnly
		case 'I':
			f |= Inherited
		}
	}
	return f
}

func tagFromString(s string) (Tag, bool) {
	switch s {
	case "user_obj":
		return TagUserObj, true
	case "user":
		return TagUser, true
	case "group_obj":
		return TagGroupObj, true
	case "group":
		return TagGroup, true
	case "mask":
		return TagMask, true
	case "other":
		return TagOther, true
	case "everyone":
		return TagEveryone, true
	}
	return 0, false
}

// FromText parses the text format produced by ToText. Each line's
// dialect is decided by its number of colon-separated fields (3 for
// POSIX.1e, 4 or 5 for NFSv4); the first entry line fixes the brand,
// and a mixed-dialect document is rejected as malformed.
func FromText(text string) (*ACL, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	var brand Brand
	brandSet := false
	a := Empty(BrandPosix1e, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ":")

		var lineBrand Brand
		switch len(fields) {
		case 3:
			lineBrand = BrandPosix1e
		case 4, 5:
			lineBrand = BrandNFSv4
		default:
			return nil, ferr.New(ferr.MalformedLabel, "acl.from_text", "unrecognized entry line: "+line)
		}

		if !brandSet {
			brand = lineBrand
			a.brand = brand
			brandSet = true
		} else if brand != lineBrand {
			return nil, ferr.New(ferr.MalformedLabel, "acl.from_text", "mixed POSIX.1e/NFSv4 lines in one document")
		}

		if lineBrand == BrandPosix1e {
			tag, ok := tagFromString(fields[0])
			if !ok {
				return nil, ferr.New(ferr.MalformedLabel, "acl.from_text", "unknown tag: "+fields[0])
			}
			perm, err := parsePermString(fields[2])
			if err != nil {
				return nil, err
			}
			var qualifier uint64
			if fields[1] != "" {
				qualifier, err = strconv.ParseUint(fields[1], 10, 32)
				if err != nil {
					return nil, ferr.New(ferr.MalformedLabel, "acl.from_text", "invalid qualifier: "+fields[1])
				}
			}
			a.entries = append(a.entries, entryData{tag: tag, qualifier: uint32(qualifier), perm: perm})
			continue
		}

		entryType := nfs4TypeFromLetter(fields[0])
		flags := parseNFSv4Flags(fields[1])
		tag, ok := tagFromString(fields[2])
		if !ok {
			return nil, ferr.New(ferr.MalformedLabel, "acl.from_text", "unknown tag: "+fields[2])
		}
		var qualifier uint64
		permField := 3
		if tag == TagUser || tag == TagGroup {
			if len(fields) != 5 {
				return nil, ferr.New(ferr.MalformedLabel, "acl.from_text", "missing qualifier for "+fields[2])
			}
			var err error
			qualifier, err = strconv.ParseUint(fields[3], 10, 32)
			if err != nil {
				return nil, ferr.New(ferr.MalformedLabel, "acl.from_text", "invalid qualifier: "+fields[3])
			}
			permField = 4
		} else if len(fields) != 4 {
			return nil, ferr.New(ferr.MalformedLabel, "acl.from_text", "unexpected qualifier field for "+fields[2])
		}
		perm, err := parseNFSv4PermString(fields[permField])
		if err != nil {
			return nil, err
		}
		a.entries = append(a.entries, entryData{
			tag: tag, qualifier: uint32(qualifier), nfs4Perm: perm,
			entryType: entryType, inherit: flags,
		})
	}

	if !brandSet {
		return nil, ferr.New(ferr.MalformedLabel, "acl.from_text", "empty ACL text")
	}
	return a, nil
}

func nfs4TypeFromLetter(s string) EntryType {
	switch s {
	case "D":
		return NFSv4Deny
	case "U":
		return NFSv4Audit
	case "L":
		return NFSv4Alarm
	default:
		return NFSv4Allow
	}
}
