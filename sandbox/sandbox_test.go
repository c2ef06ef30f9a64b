package sandbox_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freebsdkit/capkit/sandbox"
)

func TestIsActiveNeverErrorsOffFreeBSD(t *testing.T) {
	if runtime.GOOS == "freebsd" {
		t.Skip("exercised on a real FreeBSD host only")
	}
	active, err := sandbox.IsActive()
	require.NoError(t, err)
	require.False(t, active)
}

func TestEnterNotSupportedOffFreeBSD(t *testing.T) {
	if runtime.GOOS == "freebsd" {
		t.Skip("would actually sandbox the test binary")
	}
	err := sandbox.Enter()
	require.Error(t, err)
}
