package descriptor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildDirent encodes one FreeBSD-shaped dirent record for table tests
// of parseDirents, independent of any real getdirentries(2) call.
func buildDirent(ino uint64, typ byte, name string) []byte {
	reclen := direntHeaderSize + len(name)
	// pad to 8-byte alignment the way the kernel does, so leftover
	// detection has realistic boundaries to split across.
	for reclen%8 != 0 {
		reclen++
	}
	buf := make([]byte, reclen)
	for i := 0; i < 8; i++ {
		buf[i] = byte(ino >> (8 * i))
	}
	// d_off (unused by the decoder) left zero.
	buf[16] = byte(reclen)
	buf[17] = byte(reclen >> 8)
	buf[18] = typ
	buf[20] = byte(len(name))
	buf[21] = byte(len(name) >> 8)
	copy(buf[direntHeaderSize:], name)
	return buf
}

func TestParseDirentsSingleBuffer(t *testing.T) {
	buf := append(buildDirent(1, 4, "."), buildDirent(2, 4, "..")...)
	buf = append(buf, buildDirent(42, 8, "file.txt")...)

	entries, leftover := parseDirents(buf)
	require.Empty(t, leftover)
	require.Len(t, entries, 3)
	require.Equal(t, DirEntry{Inode: 1, Type: EntryDir, Name: "."}, entries[0])
	require.Equal(t, DirEntry{Inode: 2, Type: EntryDir, Name: ".."}, entries[1])
	require.Equal(t, DirEntry{Inode: 42, Type: EntryRegular, Name: "file.txt"}, entries[2])
}

// TestParseDirentsSplitRecord exercises the "Directory entry
// streaming" requirement: a record split mid-way across two reads must
// be recovered once the remainder arrives, not dropped or corrupted.
func TestParseDirentsSplitRecord(t *testing.T) {
	full := buildDirent(7, 8, "split-me.txt")
	split := len(full) / 2

	entries1, leftover1 := parseDirents(full[:split])
	require.Empty(t, entries1)
	require.Equal(t, full[:split], leftover1)

	d := &Dir{leftover: leftover1}
	chunk := append(append([]byte(nil), d.leftover...), full[split:]...)
	entries2, leftover2 := parseDirents(chunk)
	require.Empty(t, leftover2)
	require.Len(t, entries2, 1)
	require.Equal(t, DirEntry{Inode: 7, Type: EntryRegular, Name: "split-me.txt"}, entries2[0])
}

func TestToEntryTypeUnknownDefault(t *testing.T) {
	require.Equal(t, EntryUnknown, toEntryType(255))
}
