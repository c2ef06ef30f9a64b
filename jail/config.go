package jail

// Config mirrors every recognized jail parameter this core commits to
// supporting. Zero-value fields other than Name are omitted from the vector
// Config.ToParams builds, so an Update carrying a sparse Config only
// touches the fields the caller actually set — capkit distinguishes
// "leave alone" from "set to zero" via the pointer fields below.
type Config struct {
	// Identity. Name and Path are immutable after create(): update()
	// may not change them.
	Name       string
	Path       string
	Hostname   *string
	Domainname *string
	HostID     *string
	HostUUID   *string

	// Limits.
	Persist       *bool
	MaxChildren   *int
	Securelevel   *int
	DevfsRuleset  *int
	EnforceStatfs *int

	// OS emulation.
	OsreleaseDate *string
	Osrelease     *string

	// Network.
	IP4Addrs            []string
	IP6Addrs            []string
	VNet                *bool
	IP4SourceAddrSelect *bool
	IP6SourceAddrSelect *bool

	// Linux emulation.
	LinuxEnabled *bool

	// cpuset.
	CpusetID *int

	Permissions Permissions
}

// ToParams renders Name (always, even when empty) and the
// non-nil/non-empty other fields of c into a ParamBuilder. This is the only place Config touches the raw
// parameter vector.
func (c Config) ToParams() *ParamBuilder {
	b := NewParamBuilder()
	b.Set("name", c.Name)
	if c.Path != "" {
		b.Set("path", c.Path)
	}
	setIfString(b, "host.hostname", c.Hostname)
	setIfString(b, "host.domainname", c.Domainname)
	setIfString(b, "host.hostid", c.HostID)
	setIfString(b, "host.hostuuid", c.HostUUID)

	setIfBool(b, "persist", c.Persist)
	setIfInt(b, "children.max", c.MaxChildren)
	setIfInt(b, "securelevel", c.Securelevel)
	setIfInt(b, "devfs_ruleset", c.DevfsRuleset)
	setIfInt(b, "enforce_statfs", c.EnforceStatfs)

	setIfString(b, "osrelease", c.Osrelease)
	setIfString(b, "osreldate", c.OsreleaseDate)

	for _, a := range c.IP4Addrs {
		b.Set("ip4.addr", a)
	}
	for _, a := range c.IP6Addrs {
		b.Set("ip6.addr", a)
	}
	setIfBool(b, "vnet", c.VNet)
	setIfBool(b, "ip4.saddrsel", c.IP4SourceAddrSelect)
	setIfBool(b, "ip6.saddrsel", c.IP6SourceAddrSelect)
	setIfBool(b, "linux", c.LinuxEnabled)
	setIfInt(b, "cpuset.id", c.CpusetID)

	c.Permissions.appendTo(b)
	return b
}

func setIfString(b *ParamBuilder, name string, v *string) {
	if v != nil {
		b.Set(name, *v)
	}
}

func setIfBool(b *ParamBuilder, name string, v *bool) {
	if v != nil {
		b.Set(name, boolParam(*v))
	}
}

func setIfInt(b *ParamBuilder, name string, v *int) {
	if v != nil {
		b.Set(name, itoa(*v))
	}
}

func boolParam(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
