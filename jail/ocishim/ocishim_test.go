package ocishim

import (
	"testing"

	specs "github.com/opencontainers/runtime-spec/specs-go"
	"github.com/stretchr/testify/require"

	"github.com/freebsdkit/capkit/jail"
)

func TestApplyResourceHintsNilSpec(t *testing.T) {
	cfg := ApplyResourceHints(jail.Config{Name: "j"}, nil)
	require.Equal(t, "j", cfg.Name)
	require.Nil(t, cfg.CpusetID)
}

func TestApplyResourceHintsCpusetFromCpuList(t *testing.T) {
	spec := &specs.Spec{
		Linux: &specs.Linux{
			Resources: &specs.LinuxResources{
				CPU: &specs.LinuxCPU{Cpus: "2-3"},
			},
		},
	}
	cfg := ApplyResourceHints(jail.Config{Name: "j"}, spec)
	require.NotNil(t, cfg.CpusetID)
	require.Equal(t, 2, *cfg.CpusetID)
}

func TestApplyResourceHintsSecurelevelAnnotation(t *testing.T) {
	spec := &specs.Spec{
		Linux: &specs.Linux{},
		Annotations: map[string]string{
			"freebsd.jail/securelevel": "2",
		},
	}
	cfg := ApplyResourceHints(jail.Config{Name: "j"}, spec)
	require.NotNil(t, cfg.Securelevel)
	require.Equal(t, 2, *cfg.Securelevel)
}

func TestApplyResourceHintsIgnoresMissingAnnotation(t *testing.T) {
	spec := &specs.Spec{Linux: &specs.Linux{}}
	cfg := ApplyResourceHints(jail.Config{Name: "j"}, spec)
	require.Nil(t, cfg.Securelevel)
}
