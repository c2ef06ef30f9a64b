package jail

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParamBuilderEvenLength(t *testing.T) {
	b := NewParamBuilder().Set("name", "j").Set("path", "/j")
	require.Equal(t, 2, b.Len())
	err := b.WithVector(func(pairs []Param) error {
		require.Len(t, pairs, 2)
		require.Equal(t, "name", pairs[0].Name)
		require.Equal(t, "j", pairs[0].Value)
		return nil
	})
	require.NoError(t, err)
}

func TestConfigToParamsOmitsUnsetFields(t *testing.T) {
	c := Config{Name: "j", Path: "/j"}
	b := c.ToParams()
	err := b.WithVector(func(pairs []Param) error {
		names := make(map[string]bool, len(pairs))
		for _, p := range pairs {
			names[p.Name] = true
		}
		require.True(t, names["name"])
		require.True(t, names["path"])
		require.False(t, names["host.hostname"])
		return nil
	})
	require.NoError(t, err)
}

func TestConfigToParamsIncludesSetOptionalFields(t *testing.T) {
	hostname := "myjail.local"
	c := Config{Name: "j", Path: "/j", Hostname: &hostname}
	b := c.ToParams()
	err := b.WithVector(func(pairs []Param) error {
		for _, p := range pairs {
			if p.Name == "host.hostname" {
				require.Equal(t, hostname, p.Value)
				return nil
			}
		}
		t.Fatal("host.hostname not found in params")
		return nil
	})
	require.NoError(t, err)
}

func TestPermissionsAppendToOnlySetFields(t *testing.T) {
	v := true
	p := Permissions{Sysvipc: &v, AllowedMounts: FsDevfs | FsTmpfs}
	b := NewParamBuilder()
	p.appendTo(b)

	var sawSysvipc, sawDevfs, sawTmpfs, sawProcfs bool
	_ = b.WithVector(func(pairs []Param) error {
		for _, pr := range pairs {
			switch pr.Name {
			case "allow.sysvipc":
				sawSysvipc = true
			case "allow.mount.devfs":
				sawDevfs = true
			case "allow.mount.tmpfs":
				sawTmpfs = true
			case "allow.mount.procfs":
				sawProcfs = true
			}
		}
		return nil
	})
	require.True(t, sawSysvipc)
	require.True(t, sawDevfs)
	require.True(t, sawTmpfs)
	require.False(t, sawProcfs)
}

func TestJailHandleRemoveRequiresOwning(t *testing.T) {
	h := &JailHandle{JID: 1, Name: "j", Owning: false}
	err := h.Remove()
	require.Error(t, err)
}
