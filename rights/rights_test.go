package rights_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freebsdkit/capkit/ferr"
	"github.com/freebsdkit/capkit/rights"
)

func TestNarrowToIntersects(t *testing.T) {
	s := rights.Of(rights.Read, rights.Write, rights.Seek)
	narrowed, err := s.NarrowTo(rights.Of(rights.Read, rights.Seek))
	require.NoError(t, err)
	require.True(t, narrowed.Contains(rights.Read))
	require.True(t, narrowed.Contains(rights.Seek))
	require.False(t, narrowed.Contains(rights.Write))
}

// TestNarrowToRejectsWidening asserts that no narrowing operation
// can produce rights(d') ⊋ rights(d).
func TestNarrowToRejectsWidening(t *testing.T) {
	s := rights.Of(rights.Read)
	_, err := s.NarrowTo(rights.Of(rights.Read, rights.Write))
	require.Error(t, err)
	require.True(t, errors.Is(err, ferr.Sentinel(ferr.PermissionNarrowed)))
}

func TestUnionThenNarrowRoundTrips(t *testing.T) {
	a := rights.Of(rights.Read)
	b := rights.Of(rights.Write)
	u := a.UnionWith(b)
	require.True(t, u.Contains(rights.Read))
	require.True(t, u.Contains(rights.Write))

	back, err := u.NarrowTo(a)
	require.NoError(t, err)
	require.True(t, back.Equal(a))
}

func TestWireRoundTrip(t *testing.T) {
	s := rights.Of(rights.Read, rights.Fstat, rights.Ioctl)
	data, err := s.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, 8)

	var got rights.Set
	require.NoError(t, got.UnmarshalBinary(data))
	require.True(t, got.Equal(s))
}

func TestIsSupersetOf(t *testing.T) {
	full := rights.Of(rights.Read, rights.Write, rights.Seek)
	require.True(t, full.IsSupersetOf(rights.Of(rights.Read)))
	require.False(t, rights.Of(rights.Read).IsSupersetOf(full))
}
