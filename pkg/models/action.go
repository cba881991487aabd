package models

import (
	"fmt"
	"net/netip"
)

// ActionKind selects what an Action does to the hosts file
type ActionKind int

const (
	// ActionRemove drops a hostname from every active entry
	ActionRemove ActionKind = iota
	// ActionDefine adds a mapping unless one of the same family exists
	ActionDefine
	// ActionDefineExclusive replaces every mapping of a hostname
	ActionDefineExclusive
)

func (k ActionKind) String() string {
	switch k {
	case ActionRemove:
		return "remove"
	case ActionDefine:
		return "define"
	case ActionDefineExclusive:
		return "define-exclusive"
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// Action is one requested modification. Addr is unset for ActionRemove.
type Action struct {
	Kind     ActionKind
	Addr     netip.Addr
	Hostname string
}

// Remove returns an action removing host
func Remove(host string) Action {
	return Action{Kind: ActionRemove, Hostname: host}
}

// Define returns an action adding addr for host
func Define(addr netip.Addr, host string) Action {
	return Action{Kind: ActionDefine, Addr: addr, Hostname: host}
}

// DefineExclusive returns an action making addr the only mapping of host
func DefineExclusive(addr netip.Addr, host string) Action {
	return Action{Kind: ActionDefineExclusive, Addr: addr, Hostname: host}
}

// String formats the action in command line syntax
func (a Action) String() string {
	switch a.Kind {
	case ActionRemove:
		return "-" + a.Hostname
	case ActionDefine:
		return a.Addr.String() + "+=" + a.Hostname
	case ActionDefineExclusive:
		return a.Addr.String() + "=" + a.Hostname
	}
	return fmt.Sprintf("%s(%s, %s)", a.Kind, a.Addr, a.Hostname)
}
