package edit

import (
	"fmt"
	"strings"

	"hostsmod/pkg/models"
	"hostsmod/pkg/utils"
)

// ParseAction parses one action argument: "-host", "addr=host" or
// "addr+=host". The whole argument must match.
func ParseAction(arg string) (models.Action, error) {
	if host, ok := strings.CutPrefix(arg, "-"); ok {
		if !utils.IsHostname(host) {
			return models.Action{}, fmt.Errorf("%w %q: bad hostname", ErrInvalidAction, arg)
		}
		return models.Remove(host), nil
	}

	token, rest := utils.SplitAddrToken(arg)
	addr, ok := utils.ParseAddrToken(token)
	if !ok {
		return models.Action{}, fmt.Errorf("%w %q: bad address %q", ErrInvalidAction, arg, token)
	}

	var action models.Action
	var host string
	switch {
	case strings.HasPrefix(rest, "+="):
		host = rest[2:]
		action = models.Define(addr, host)
	case strings.HasPrefix(rest, "="):
		host = rest[1:]
		action = models.DefineExclusive(addr, host)
	default:
		return models.Action{}, fmt.Errorf("%w %q: expected \"=\" or \"+=\" after address", ErrInvalidAction, arg)
	}
	if !utils.IsHostname(host) {
		return models.Action{}, fmt.Errorf("%w %q: bad hostname", ErrInvalidAction, arg)
	}
	return action, nil
}

// ParseActions parses every argument, stopping at the first bad one
func ParseActions(args []string) ([]models.Action, error) {
	actions := make([]models.Action, 0, len(args))
	for _, arg := range args {
		action, err := ParseAction(arg)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}
