package descriptor

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freebsdkit/capkit/ferr"
	"github.com/freebsdkit/capkit/rights"
)

func TestCloseIsIdempotent(t *testing.T) {
	b := newBase(-1)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
}

func TestTakeRawMarksClosedAndReturnsFd(t *testing.T) {
	b := newBase(5)
	require.Equal(t, 5, b.TakeRaw())
	require.Error(t, b.checkOpen("read"))
}

func TestCheckOpenRejectsClosedDescriptor(t *testing.T) {
	b := newBase(3)
	require.NoError(t, b.Close())
	err := b.checkOpen("read")
	require.Error(t, err)
	require.True(t, errors.Is(err, ferr.Sentinel(ferr.InvalidArgument)))
}

// TestRightsNarrowingIsOffline verifies that rights.Set.NarrowTo refuses
// a widening with PermissionNarrowed in pure Go; LimitRights itself
// passes its set straight to the kernel, but the narrowing algebra is
// host-agnostic and testable without one.
func TestRightsNarrowingIsOffline(t *testing.T) {
	wide := rights.Of(rights.Read, rights.Write, rights.Seek)
	narrow := rights.Of(rights.Read, rights.Fstat)
	_, err := wide.NarrowTo(narrow)
	require.NoError(t, err)

	_, err = narrow.NarrowTo(wide)
	require.Error(t, err)
	require.True(t, errors.Is(err, ferr.Sentinel(ferr.PermissionNarrowed)))
}

func TestSyscallsAreNotSupportedOffFreeBSD(t *testing.T) {
	if runtime.GOOS == "freebsd" {
		t.Skip("only the stub build is exercised here")
	}
	_, err := sysOpen("/tmp/does-not-matter", 0, 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, ferr.Sentinel(ferr.NotSupported)))
}
