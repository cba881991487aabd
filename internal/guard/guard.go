// Package guard keeps protected hosts mappings intact across an edit.
//
// A Snapshot records which protected mappings a file contains before it is
// edited. Check then rejects the edited file if
//
//   - an entry names a protected hostname with an address that no protected
//     mapping explains, or
//   - any protected mapping appeared or disappeared.
//
// The second rule is strict: it also fires when a whitelisted action merely
// happens to remove or create a protected mapping.
package guard

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"hostsmod/pkg/models"
)

var (
	// ErrUntouchableChanged indicates a protected hostname maps to an
	// address no protected mapping allows.
	ErrUntouchableChanged = errors.New("guard: untouchable entry was changed")

	// ErrMembershipChanged indicates a protected mapping appeared or
	// disappeared.
	ErrMembershipChanged = errors.New("guard: protected-mapping membership changed")
)

// Presence records which protected mappings, by ID, a file contains
type Presence map[string]bool

// ViolationKind tells which rule a ViolationError broke
type ViolationKind int

const (
	ViolationChanged ViolationKind = iota
	ViolationMembership
)

// ViolationError describes a rejected edit
type ViolationError struct {
	Kind ViolationKind
	// Mapping is the protected mapping concerned by a ViolationChanged
	Mapping Protected
	// Part is the offending entry of a ViolationChanged
	Part models.Part
	// Differences lists the mappings whose presence changed
	Differences []Protected
}

func (e *ViolationError) Error() string {
	if e.Kind == ViolationChanged {
		return fmt.Sprintf("%v: %s: %s", ErrUntouchableChanged, e.Mapping, e.Part)
	}
	diffs := make([]string, len(e.Differences))
	for i, p := range e.Differences {
		diffs[i] = p.ID + " (" + p.String() + ")"
	}
	return fmt.Sprintf("%v: %s", ErrMembershipChanged, strings.Join(diffs, ", "))
}

func (e *ViolationError) Unwrap() error {
	if e.Kind == ViolationChanged {
		return ErrUntouchableChanged
	}
	return ErrMembershipChanged
}

// Guard checks edits against a resolved table
type Guard struct {
	table     Table
	dangerous bool
}

// New creates a guard. With dangerous set every check passes.
func New(table Table, dangerous bool) *Guard {
	return &Guard{table: table, dangerous: dangerous}
}

// Table returns the protected mappings the guard enforces
func (g *Guard) Table() Table {
	return g.table
}

// Disabled reports whether dangerous operations are allowed
func (g *Guard) Disabled() bool {
	return g.dangerous
}

// Snapshot records which protected mappings parts contain
func (g *Guard) Snapshot(parts []models.Part) Presence {
	if g.dangerous {
		return nil
	}
	return Snapshot(parts, g.table)
}

// Check verifies parts against a snapshot taken before the edit
func (g *Guard) Check(before Presence, parts []models.Part) error {
	if g.dangerous {
		return nil
	}
	return Check(before, parts, g.table)
}

// Snapshot records, for every mapping of table, whether some part maps its
// address to its hostname
func Snapshot(parts []models.Part, table Table) Presence {
	found := make(Presence, len(table))
	for _, p := range table {
		found[p.ID] = false
		for _, part := range parts {
			if part.MatchesHostname(p.Hostname) && part.MatchesAddr(p.Addr) {
				found[p.ID] = true
				break
			}
		}
	}
	return found
}

// Check verifies the edited parts. A protected hostname on another address
// fails at once unless that pair is itself protected; otherwise the
// presence of every mapping is compared with before.
func Check(before Presence, parts []models.Part, table Table) error {
	for _, p := range table {
		for _, part := range parts {
			if !part.MatchesHostname(p.Hostname) || part.MatchesAddr(p.Addr) {
				continue
			}
			if !table.allows(part.Addr, p.Hostname) {
				return &ViolationError{Kind: ViolationChanged, Mapping: p, Part: part}
			}
		}
	}

	after := Snapshot(parts, table)
	var diffs []Protected
	for _, p := range table {
		if before[p.ID] != after[p.ID] {
			diffs = append(diffs, p)
		}
	}
	if len(diffs) > 0 {
		return &ViolationError{Kind: ViolationMembership, Differences: diffs}
	}
	return nil
}

// allows reports whether some protected mapping pairs host with addr
func (t Table) allows(addr netip.Addr, host string) bool {
	for _, p := range t {
		if p.Hostname == host && p.Addr == addr {
			return true
		}
	}
	return false
}
