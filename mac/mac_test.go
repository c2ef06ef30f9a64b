package mac

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/freebsdkit/capkit/ferr"
)

func withMemFs(t *testing.T, files map[string]string, dirs []string) func() {
	t.Helper()
	mem := afero.NewMemMapFs()
	for _, d := range dirs {
		require.NoError(t, mem.MkdirAll(d, 0o755))
	}
	for path, content := range files {
		require.NoError(t, afero.WriteFile(mem, path, []byte(content), 0o644))
	}
	prev := appFs
	appFs = mem
	return func() { appFs = prev }
}

func TestValidateAllRejectsMissingPathBeforeApplying(t *testing.T) {
	defer withMemFs(t, map[string]string{
		"/a": "x",
		"/b": "x",
		"/d": "x",
	}, nil)()

	cfg := Config{
		AttributeName: "capkit.label",
		Labels: []Label{
			{Path: "/a", Attributes: map[string]string{"k": "v"}},
			{Path: "/b", Attributes: map[string]string{"k": "v"}},
			{Path: "/missing", Attributes: map[string]string{"k": "v"}},
			{Path: "/d", Attributes: map[string]string{"k": "v"}},
		},
	}

	err := ValidateAll(cfg)
	require.Error(t, err)
	var fe *ferr.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, ferr.NotFound, fe.Kind)

	results, err := Apply(cfg, true)
	require.Error(t, err)
	require.Nil(t, results)
}

func TestValidateAllRejectsMalformedAttributeKey(t *testing.T) {
	defer withMemFs(t, map[string]string{"/a": "x"}, nil)()

	cfg := Config{
		AttributeName: "capkit.label",
		Labels: []Label{
			{Path: "/a", Attributes: map[string]string{"bad=key": "v"}},
		},
	}
	require.Error(t, ValidateAll(cfg))
}

func TestExpandRecursivePatternDedupsLastWins(t *testing.T) {
	defer withMemFs(t, map[string]string{
		"/srv/www/a.txt": "x",
		"/srv/www/b.txt": "x",
	}, []string{"/srv/www"})()

	cfg := Config{
		AttributeName: "capkit.label",
		Labels: []Label{
			{Path: "/srv/www/*", Attributes: map[string]string{"tier": "first"}},
			{Path: "/srv/www/a.txt", Attributes: map[string]string{"tier": "second"}},
		},
	}
	expanded, err := expand(cfg)
	require.NoError(t, err)
	require.Len(t, expanded, 2)
	for _, l := range expanded {
		if l.path == "/srv/www/a.txt" {
			require.Equal(t, "second", l.attrs["tier"])
		}
	}
}

func TestEncodeValidatesBeforeApply(t *testing.T) {
	defer withMemFs(t, map[string]string{"/a": "x"}, nil)()
	cfg := Config{
		AttributeName: "capkit.label",
		Labels: []Label{
			{Path: "/a", Attributes: map[string]string{"k": "line1\nline2"}},
		},
	}
	require.Error(t, ValidateAll(cfg))
}
