package profile

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func withMemFs(t *testing.T, files map[string]string) func() {
	t.Helper()
	mem := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(mem, path, []byte(content), 0o644))
	}
	prev := appFs
	appFs = mem
	return func() { appFs = prev }
}

func TestLoadYAML(t *testing.T) {
	defer withMemFs(t, map[string]string{
		"/jails/web.yaml": "name: web\npath: /jails/web\nhostname: web.local\nip4_addrs:\n  - 10.0.0.5\n",
	})()

	cfg, err := Load("/jails/web.yaml")
	require.NoError(t, err)
	require.Equal(t, "web", cfg.Name)
	require.Equal(t, "/jails/web", cfg.Path)
	require.NotNil(t, cfg.Hostname)
	require.Equal(t, "web.local", *cfg.Hostname)
	require.Equal(t, []string{"10.0.0.5"}, cfg.IP4Addrs)
}

func TestLoadTOML(t *testing.T) {
	defer withMemFs(t, map[string]string{
		"/jails/db.toml": "name = \"db\"\npath = \"/jails/db\"\n",
	})()

	cfg, err := Load("/jails/db.toml")
	require.NoError(t, err)
	require.Equal(t, "db", cfg.Name)
	require.Equal(t, "/jails/db", cfg.Path)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	defer withMemFs(t, map[string]string{
		"/jails/x.json": "{}",
	})()
	_, err := Load("/jails/x.json")
	require.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	defer withMemFs(t, map[string]string{})()
	_, err := Load("/jails/missing.yaml")
	require.Error(t, err)
}

func TestToPermissionsMapsAllowedMounts(t *testing.T) {
	d := Document{AllowedMounts: []string{"devfs", "tmpfs"}}
	p := d.toPermissions()
	require.NotZero(t, p.AllowedMounts)
}
