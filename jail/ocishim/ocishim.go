// Package ocishim maps a narrow, documented subset of an OCI
// runtime-spec resource hint into jail.Config fields, for migration
// tooling bridging Linux-container and jail worlds.
// It is explicitly partial: a shim, not an OCI runtime implementation
// — it does not attempt namespaces, cgroups, or any Linux-specific
// mechanism OCI assumes, only the handful of fields that have a
// reasonably direct jail-parameter analogue.
package ocishim

import (
	specs "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/freebsdkit/capkit/jail"
)

// ApplyResourceHints copies the subset of spec that has a jail
// analogue onto cfg, returning the updated value. Every other field of
// spec (namespaces, mounts, Linux capabilities, seccomp, and so on) is
// silently ignored: those are Linux-container concepts with no jail
// equivalent capkit models, consistent with the package doc's
// "explicitly partial" scope.
func ApplyResourceHints(cfg jail.Config, spec *specs.Spec) jail.Config {
	if spec == nil || spec.Linux == nil {
		return cfg
	}

	if cpu := spec.Linux.Resources; cpu != nil && cpu.CPU != nil && cpu.CPU.Cpus != "" {
		if id, ok := parseCpusetID(cpu.CPU.Cpus); ok {
			cfg.CpusetID = &id
		}
	}

	if level, ok := securelevelHint(spec); ok {
		cfg.Securelevel = &level
	}

	return cfg
}

// parseCpusetID reduces an OCI cpuset string (e.g. "0-3,5") to a single
// jail cpuset id by taking its first listed CPU; jails bind to one
// cpuset, not an arbitrary OCI cpu list, so this is a deliberately
// lossy translation documented as such.
func parseCpusetID(cpus string) (int, bool) {
	n := 0
	saw := false
	for _, c := range cpus {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
		saw = true
	}
	return n, saw
}

// securelevelHint reads a best-effort securelevel-like signal from the
// spec's annotations, since upstream OCI runtime-spec has no native
// securelevel field; migration tooling is expected to set
// "freebsd.jail/securelevel" explicitly when it wants one applied.
func securelevelHint(spec *specs.Spec) (int, bool) {
	if spec.Annotations == nil {
		return 0, false
	}
	raw, ok := spec.Annotations["freebsd.jail/securelevel"]
	if !ok || raw == "" {
		return 0, false
	}
	n := 0
	neg := false
	for i, c := range raw {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}
