package edit

import (
	"fmt"
	"net/netip"

	"hostsmod/pkg/models"
)

// Engine applies actions to a hosts file under a whitelist
type Engine struct {
	whitelist Whitelist
}

// NewEngine creates an engine allowing changes to the hostnames in wl
func NewEngine(wl Whitelist) *Engine {
	return &Engine{whitelist: wl}
}

// Apply runs actions in order against a copy of parts. On failure the
// sequence as it stood before the failing action is returned with the error.
func (e *Engine) Apply(parts []models.Part, actions []models.Action) ([]models.Part, error) {
	out := models.CloneParts(parts)
	for _, action := range actions {
		next, err := e.ApplyAction(out, action)
		if err != nil {
			return out, fmt.Errorf("action %s: %w", action, err)
		}
		out = next
	}
	return out, nil
}

// ApplyAction applies a single action. parts is not modified.
func (e *Engine) ApplyAction(parts []models.Part, action models.Action) ([]models.Part, error) {
	if !e.whitelist.Contains(action.Hostname) {
		return parts, fmt.Errorf("%w: %q", ErrNotWhitelisted, action.Hostname)
	}

	switch action.Kind {
	case models.ActionRemove:
		return removeHost(parts, action.Hostname), nil
	case models.ActionDefine:
		return define(parts, action.Addr, action.Hostname)
	case models.ActionDefineExclusive:
		return defineExclusive(parts, action.Addr, action.Hostname), nil
	}
	return parts, fmt.Errorf("%w: unknown kind %s", ErrInvalidAction, action.Kind)
}

// removeHost drops host from active entries. Disabled entries are kept.
func removeHost(parts []models.Part, host string) []models.Part {
	out := make([]models.Part, 0, len(parts))
	for _, part := range parts {
		if part.Kind != models.KindEntry || !part.MatchesHostname(host) {
			out = append(out, part)
			continue
		}

		remaining := make([]string, 0, len(part.Hostnames)-1)
		for _, h := range part.Hostnames {
			if h != host {
				remaining = append(remaining, h)
			}
		}
		if len(remaining) == 0 {
			continue
		}
		out = append(out, part.WithHostnames(remaining))
	}
	return out
}

// define adds addr for host after the last entry mentioning either of them
func define(parts []models.Part, addr netip.Addr, host string) ([]models.Part, error) {
	for _, part := range parts {
		if part.MatchesAddr(addr) && part.MatchesHostname(host) {
			return parts, nil
		}
	}

	family := models.FamilyOf(addr)
	insert := len(parts)
	for i, part := range parts {
		matchesHost := part.MatchesHostname(host)
		if matchesHost && part.Family() == family {
			return parts, fmt.Errorf("%w: %q already maps to %s (%s)", ErrDuplicateFamily, host, part.Addr, family)
		}
		if matchesHost || part.MatchesAddr(addr) {
			insert = i + 1
		}
	}
	return insertAt(parts, insert, models.NewEntry(addr, host)), nil
}

// defineExclusive replaces every entry mentioning host by a single mapping
// placed where the first of them was. If that first entry already is the
// mapping, it is kept as written.
func defineExclusive(parts []models.Part, addr netip.Addr, host string) []models.Part {
	out := make([]models.Part, 0, len(parts)+1)
	insert := -1
	mapping := models.NewEntry(addr, host)
	for _, part := range parts {
		if part.MatchesHostname(host) {
			if insert < 0 {
				insert = len(out)
				if isSoleMapping(part, addr, host) {
					mapping = part
				}
			}
			continue
		}
		out = append(out, part)
	}
	if insert < 0 {
		insert = len(out)
	}
	return insertAt(out, insert, mapping)
}

// isSoleMapping reports whether part is an active entry mapping only host
// to addr, without a comment
func isSoleMapping(part models.Part, addr netip.Addr, host string) bool {
	return part.Kind == models.KindEntry && part.Addr == addr && !part.HasComment &&
		len(part.Hostnames) == 1 && part.Hostnames[0] == host
}

func insertAt(parts []models.Part, i int, part models.Part) []models.Part {
	out := make([]models.Part, 0, len(parts)+1)
	out = append(out, parts[:i]...)
	out = append(out, part)
	return append(out, parts[i:]...)
}
