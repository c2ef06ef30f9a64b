package casper

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freebsdkit/capkit/ferr"
)

func TestResolverNarrowingIsMonotonic(t *testing.T) {
	r := &Resolver{families: FamilyInet | FamilyInet6, types: RecordForward | RecordReverse}
	require.NoError(t, r.LimitFamilies(FamilyInet))
	require.NoError(t, r.LimitTypes(RecordForward))

	err := r.LimitFamilies(FamilyInet | FamilyInet6)
	require.Error(t, err)
	var ferrErr *ferr.Error
	require.ErrorAs(t, err, &ferrErr)
	require.Equal(t, ferr.PermissionNarrowed, ferrErr.Kind)
}

func TestSysctlNarrowRejectsUpgrade(t *testing.T) {
	s := &Sysctl{policy: map[string]SysctlAccess{"kern.hostname": SysctlRead}}
	err := s.Narrow(map[string]SysctlAccess{"kern.hostname": SysctlReadWrite})
	require.Error(t, err)
}

func TestSysctlNarrowAllowsDowngrade(t *testing.T) {
	s := &Sysctl{policy: map[string]SysctlAccess{"kern.hostname": SysctlReadWrite}}
	require.NoError(t, s.Narrow(map[string]SysctlAccess{"kern.hostname": SysctlRead}))
}

func TestIdentityLimitPrincipalsMonotonic(t *testing.T) {
	id := &Identity{service: "password-db", commands: CmdGetByName, principals: map[string]bool{"alice": true, "bob": true}}
	require.NoError(t, id.LimitPrincipals([]string{"alice"}))
	require.Error(t, id.LimitPrincipals([]string{"alice", "bob"}))
}

func TestFileArgsRejectsUndeclaredPath(t *testing.T) {
	fa := &FileArgs{allowed: map[string]bool{"/etc/passwd": true}}
	_, err := fa.check("/etc/shadow")
	require.Error(t, err)
	_, err = fa.check("/etc/passwd")
	require.NoError(t, err)
}

func TestNetLimitAddressesMonotonic(t *testing.T) {
	n := &Net{mode: NetConnect, addresses: map[string]bool{"10.0.0.1:443": true, "10.0.0.2:443": true}}
	require.NoError(t, n.LimitAddresses([]string{"10.0.0.1:443"}))
	require.Error(t, n.LimitAddresses([]string{"10.0.0.1:443", "10.0.0.2:443"}))
}
