package edit

import "sort"

// Whitelist is the set of hostnames actions may touch
type Whitelist map[string]struct{}

// NewWhitelist creates a whitelist holding hosts
func NewWhitelist(hosts ...string) Whitelist {
	w := make(Whitelist, len(hosts))
	for _, h := range hosts {
		w[h] = struct{}{}
	}
	return w
}

// Contains reports whether host may be modified
func (w Whitelist) Contains(host string) bool {
	_, ok := w[host]
	return ok
}

// Sorted returns the hostnames in lexical order
func (w Whitelist) Sorted() []string {
	hosts := make([]string, 0, len(w))
	for h := range w {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}
