package acl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freebsdkit/capkit/ferr"
)

func TestRecomputeMaskUnionsExtendedPerms(t *testing.T) {
	a := Empty(BrandPosix1e, 5)
	owner := a.AddEntry()
	require.NoError(t, owner.SetTag(TagUserObj))
	require.NoError(t, owner.SetPerm(PermRead|PermWrite|PermExecute))

	group := a.AddEntry()
	require.NoError(t, group.SetTag(TagGroupObj))
	require.NoError(t, group.SetPerm(PermRead|PermExecute))

	other := a.AddEntry()
	require.NoError(t, other.SetTag(TagOther))
	require.NoError(t, other.SetPerm(PermRead))

	extended := a.AddEntry()
	require.NoError(t, extended.SetTag(TagUser))
	require.NoError(t, extended.SetQualifier(1001))
	require.NoError(t, extended.SetPerm(PermRead|PermWrite))

	mask := a.AddEntry()
	require.NoError(t, mask.SetTag(TagMask))
	require.NoError(t, mask.SetPerm(PermRead|PermWrite|PermExecute))

	require.NoError(t, a.RecomputeMask())

	for _, e := range a.Entries() {
		tag, err := e.Tag()
		require.NoError(t, err)
		if tag == TagMask {
			perm, err := e.Perm()
			require.NoError(t, err)
			require.Equal(t, PermRead|PermWrite, perm)
		}
	}

	require.True(t, a.IsValid())
	_, ok := a.EquivalentMode()
	require.False(t, ok)
	require.False(t, a.IsTrivial())

	text, err := a.ToText(TextOptions{NumericIDs: true})
	require.NoError(t, err)
	roundTripped, err := FromText(text)
	require.NoError(t, err)
	require.Equal(t, a.entries, roundTripped.entries)
}

func TestFromModeRoundTripsEveryRepresentableMode(t *testing.T) {
	for m := uint32(0); m <= 0o777; m++ {
		a, ok := FromMode(m)
		require.True(t, ok)
		require.True(t, a.IsTrivial())
		got, ok := a.EquivalentMode()
		require.True(t, ok)
		require.Equal(t, m, got)
	}
}

func TestFromTextRejectsMixedBrands(t *testing.T) {
	_, err := FromText("user_obj::rwx\nA::user:1001:rwx\n")
	require.Error(t, err)
	var fe *ferr.Error
	require.True(t, errors.As(err, &fe))
	require.Equal(t, ferr.MalformedLabel, fe.Kind)
}

func TestWireRoundTrip(t *testing.T) {
	a := Empty(BrandNFSv4, 2)
	e := a.AddEntry()
	require.NoError(t, e.SetTag(TagUser))
	require.NoError(t, e.SetQualifier(42))
	require.NoError(t, e.SetNFSv4Perm(NFSv4ReadData|NFSv4WriteData))
	require.NoError(t, e.SetEntryType(NFSv4Allow))
	require.NoError(t, e.SetInheritFlags(InheritFile|InheritDirectory))

	wire := a.ToWire()
	back, err := FromWire(wire)
	require.NoError(t, err)
	require.Equal(t, a.entries, back.entries)
	require.Equal(t, wire, back.ToWire())
}

func TestStaleEntryFailsClosedAfterMutation(t *testing.T) {
	a := Empty(BrandPosix1e, 2)
	first := a.AddEntry()
	a.AddEntry() // bumps generation, stales `first`

	_, err := first.Tag()
	require.Error(t, err)
	var fe *ferr.Error
	require.True(t, errors.As(err, &fe))
	require.Equal(t, ferr.InvalidArgument, fe.Kind)
}

func TestIsValidRejectsDuplicateUserQualifier(t *testing.T) {
	a := Empty(BrandPosix1e, 5)
	uo := a.AddEntry()
	require.NoError(t, uo.SetTag(TagUserObj))
	go_ := a.AddEntry()
	require.NoError(t, go_.SetTag(TagGroupObj))
	ot := a.AddEntry()
	require.NoError(t, ot.SetTag(TagOther))

	u1 := a.AddEntry()
	require.NoError(t, u1.SetTag(TagUser))
	require.NoError(t, u1.SetQualifier(1001))

	u2 := a.AddEntry()
	require.NoError(t, u2.SetTag(TagUser))
	require.NoError(t, u2.SetQualifier(1001))

	mask := a.AddEntry()
	require.NoError(t, mask.SetTag(TagMask))

	require.False(t, a.IsValid())
}

func TestInsertEntryPreservesNFSv4Order(t *testing.T) {
	a := Empty(BrandNFSv4, 3)
	first := a.AddEntry()
	require.NoError(t, first.SetTag(TagEveryone))
	second, err := a.InsertEntry(0)
	require.NoError(t, err)
	require.NoError(t, second.SetTag(TagUser))

	entries := a.Entries()
	require.Len(t, entries, 2)
	tag0, _ := entries[0].Tag()
	tag1, _ := entries[1].Tag()
	require.Equal(t, TagUser, tag0)
	require.Equal(t, TagEveryone, tag1)
}
