package guard

import (
	"fmt"
	"net/netip"
)

// HostnamePlaceholder stands for the machine's own hostname in the table
const HostnamePlaceholder = "%HOSTNAME%"

// Protected is an address/hostname pair that must not be altered
type Protected struct {
	ID       string
	Addr     netip.Addr
	Hostname string
}

func (p Protected) String() string {
	return fmt.Sprintf("%s %s", p.Addr, p.Hostname)
}

// Table is a list of protected mappings
type Table []Protected

var defaultTable = Table{
	{ID: "localhost-v4", Addr: netip.MustParseAddr("127.0.0.1"), Hostname: "localhost"},
	{ID: "hostname-v4", Addr: netip.MustParseAddr("127.0.1.1"), Hostname: HostnamePlaceholder},
	{ID: "localhost-v6", Addr: netip.MustParseAddr("::1"), Hostname: "localhost"},
	{ID: "ip6-localhost", Addr: netip.MustParseAddr("::1"), Hostname: "ip6-localhost"},
	{ID: "ip6-loopback", Addr: netip.MustParseAddr("::1"), Hostname: "ip6-loopback"},
	{ID: "ip6-allnodes", Addr: netip.MustParseAddr("ff02::1"), Hostname: "ip6-allnodes"},
	{ID: "ip6-allrouters", Addr: netip.MustParseAddr("ff02::2"), Hostname: "ip6-allrouters"},
}

// Resolve returns a copy of the built-in table with the placeholder
// replaced by hostname
func Resolve(hostname string) Table {
	return defaultTable.Resolve(hostname)
}

// Resolve returns a copy of t with the placeholder replaced by hostname
func (t Table) Resolve(hostname string) Table {
	out := make(Table, len(t))
	for i, p := range t {
		if p.Hostname == HostnamePlaceholder {
			p.Hostname = hostname
		}
		out[i] = p
	}
	return out
}

// Hostnames lists the protected hostnames in table order, without repeats
func (t Table) Hostnames() []string {
	seen := make(map[string]bool, len(t))
	var names []string
	for _, p := range t {
		if !seen[p.Hostname] {
			seen[p.Hostname] = true
			names = append(names, p.Hostname)
		}
	}
	return names
}
