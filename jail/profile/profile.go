// Package profile loads a jail.Config from a declarative YAML or TOML
// file, so an operator can describe a jail once instead of writing Go.
// It performs no kernel calls of its own; the resulting Config feeds
// jail.Create/jail.Update exactly as a hand-built one would.
package profile

import (
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/freebsdkit/capkit/ferr"
	"github.com/freebsdkit/capkit/jail"
)

// Document is the on-disk shape of a jail profile. It covers a subset
// of jail.Config's fields: bool and int options are pointers, so a key
// absent from the file stays nil, while Hostname and Domainname are
// plain strings in which empty means unset. Document.ToConfig converts
// it into jail.Config's pointer-optional shape.
type Document struct {
	Name       string `yaml:"name" toml:"name"`
	Path       string `yaml:"path" toml:"path"`
	Hostname   string `yaml:"hostname" toml:"hostname"`
	Domainname string `yaml:"domainname" toml:"domainname"`

	Persist       *bool `yaml:"persist" toml:"persist"`
	MaxChildren   *int  `yaml:"max_children" toml:"max_children"`
	Securelevel   *int  `yaml:"securelevel" toml:"securelevel"`
	DevfsRuleset  *int  `yaml:"devfs_ruleset" toml:"devfs_ruleset"`
	EnforceStatfs *int  `yaml:"enforce_statfs" toml:"enforce_statfs"`

	IP4Addrs []string `yaml:"ip4_addrs" toml:"ip4_addrs"`
	IP6Addrs []string `yaml:"ip6_addrs" toml:"ip6_addrs"`
	VNet     *bool    `yaml:"vnet" toml:"vnet"`

	LinuxEnabled *bool `yaml:"linux" toml:"linux"`
	CpusetID     *int  `yaml:"cpuset_id" toml:"cpuset_id"`

	AllowedMounts []string        `yaml:"allowed_mounts" toml:"allowed_mounts"`
	Permissions   map[string]bool `yaml:"permissions" toml:"permissions"`
}

// Load reads a jail profile from path, dispatching on its extension:
// ".yaml"/".yml" is parsed with gopkg.in/yaml.v3, ".toml" with
// github.com/BurntSushi/toml. Any other extension is rejected with
// ferr.InvalidArgument rather than guessed at.
func Load(path string) (jail.Config, error) {
	data, err := readFile(path)
	if err != nil {
		return jail.Config{}, ferr.New(ferr.NotFound, "profile.load", path)
	}

	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return jail.Config{}, ferr.New(ferr.MalformedLabel, "profile.load", path)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return jail.Config{}, ferr.New(ferr.MalformedLabel, "profile.load", path)
		}
	default:
		return jail.Config{}, ferr.New(ferr.InvalidArgument, "profile.load", path)
	}

	return doc.ToConfig(), nil
}

// ToConfig reconciles Document's plain-value shape into jail.Config's
// pointer-optional shape.
func (d Document) ToConfig() jail.Config {
	cfg := jail.Config{
		Name:          d.Name,
		Path:          d.Path,
		Persist:       d.Persist,
		MaxChildren:   d.MaxChildren,
		Securelevel:   d.Securelevel,
		DevfsRuleset:  d.DevfsRuleset,
		EnforceStatfs: d.EnforceStatfs,
		IP4Addrs:      d.IP4Addrs,
		IP6Addrs:      d.IP6Addrs,
		VNet:          d.VNet,
		LinuxEnabled:  d.LinuxEnabled,
		CpusetID:      d.CpusetID,
	}
	if d.Hostname != "" {
		cfg.Hostname = &d.Hostname
	}
	if d.Domainname != "" {
		cfg.Domainname = &d.Domainname
	}
	cfg.Permissions = d.toPermissions()
	return cfg
}

func (d Document) toPermissions() jail.Permissions {
	var p jail.Permissions
	get := func(key string) *bool {
		v, ok := d.Permissions[key]
		if !ok {
			return nil
		}
		vv := v
		return &vv
	}
	p.SetHostname = get("set_hostname")
	p.Sysvipc = get("sysvipc")
	p.RawSockets = get("raw_sockets")
	p.Chflags = get("chflags")
	p.Quotas = get("quotas")
	p.SocketAF = get("socket_af")
	p.Mlock = get("mlock")
	p.ReservedPorts = get("reserved_ports")
	p.ReadMsgBuf = get("read_msgbuf")
	p.ProcessDebug = get("process_debug")
	p.ParentTampering = get("parent_tampering")
	p.Suser = get("suser")
	p.Nfsd = get("nfsd")
	p.Extattr = get("extattr")
	p.Adjtime = get("adjtime")
	p.Settime = get("settime")
	p.Routing = get("routing")
	p.AuditControl = get("audit_control")

	for _, name := range d.AllowedMounts {
		switch name {
		case "devfs":
			p.AllowedMounts |= jail.FsDevfs
		case "procfs":
			p.AllowedMounts |= jail.FsProcfs
		case "tmpfs":
			p.AllowedMounts |= jail.FsTmpfs
		case "fdescfs":
			p.AllowedMounts |= jail.FsFdescfs
		case "zfs":
			p.AllowedMounts |= jail.FsZfs
		case "linprocfs":
			p.AllowedMounts |= jail.FsLinprocfs
		case "linsysfs":
			p.AllowedMounts |= jail.FsLinsysfs
		case "lindebugfs":
			p.AllowedMounts |= jail.FsLindebugfs
		}
	}
	return p
}
