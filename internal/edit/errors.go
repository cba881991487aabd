package edit

import "errors"

var (
	// ErrNotWhitelisted indicates an action targets a hostname the
	// configuration does not allow to be modified.
	ErrNotWhitelisted = errors.New("edit: host not whitelisted")

	// ErrDuplicateFamily indicates a Define would give a hostname a second
	// address of the same family.
	ErrDuplicateFamily = errors.New("edit: duplicate entry for host in this address family")

	// ErrInvalidAction indicates a malformed action argument.
	ErrInvalidAction = errors.New("edit: invalid action")
)
