// Package edit applies requested changes to a parsed hosts file.
//
// # Actions
//
// Three actions exist, written on the command line as:
//
//	-host        remove host from every active entry; entries left without
//	             hostnames are deleted
//	addr=host    make addr the only mapping of host, replacing every entry
//	             (active or disabled) that mentions host
//	addr+=host   add addr for host unless host already has an address of the
//	             same family; defining an existing mapping again is a no-op
//
// Actions of a batch are applied in order, each to the result of the
// previous one. The first failing action stops the batch.
//
// # Whitelist
//
// Every action names a hostname that must be in the Whitelist given to the
// Engine. Nothing else is checked here; protection of system mappings is
// the job of package guard.
//
// # Layout
//
// Entries created by an action are rendered in the canonical column layout.
// An entry that loses one of several hostnames keeps its address column and
// trailing comment as they were written.
package edit
