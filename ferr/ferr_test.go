package ferr_test

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freebsdkit/capkit/ferr"
)

func TestNewHasNoErrno(t *testing.T) {
	err := ferr.New(ferr.PermissionNarrowed, "cap_rights_limit", "fd:3")
	require.True(t, errors.Is(err, ferr.Sentinel(ferr.PermissionNarrowed)))
	require.False(t, errors.Is(err, ferr.Sentinel(ferr.NotFound)))

	var fe *ferr.Error
	require.True(t, errors.As(err, &fe))
	require.Equal(t, syscall.Errno(0), fe.Errno)
}

func TestFromErrnoWrapsErrno(t *testing.T) {
	err := ferr.FromErrno("open", "/etc/passwd", syscall.ENOENT)
	require.True(t, errors.Is(err, ferr.Sentinel(ferr.NotFound)))
	require.True(t, errors.Is(err, syscall.ENOENT))
	require.Contains(t, err.Error(), "/etc/passwd")
}

func TestFromErrnoZeroIsNil(t *testing.T) {
	require.NoError(t, ferr.FromErrno("open", "/tmp", 0))
}

func TestKindStringIsStable(t *testing.T) {
	require.Equal(t, "capability_mode", ferr.CapabilityMode.String())
	require.Equal(t, "right_revoked", ferr.RightRevoked.String())
}
