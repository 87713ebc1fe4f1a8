package session

import (
	"strings"

	"daybook/internal/command"
)

// mapFunction resolves a model-emitted function name to a (domain, action)
// pair. Two shapes are accepted:
//
//	manage_<domain>s   action carried in the arguments ("action" key)
//	<verb>_<domain>[_<suffix>]   e.g. create_event, update_goal_progress
//
// A suffix folds into the action, so update_goal_progress dispatches
// (goal, update_progress).
func mapFunction(name string, args command.Params) (command.Domain, string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))

	if rest, ok := strings.CutPrefix(name, "manage_"); ok {
		domain, ok := command.ParseDomain(rest)
		if !ok {
			return "", "", false
		}
		action, ok := args.String("action")
		if !ok {
			return "", "", false
		}
		return domain, action, true
	}

	verb, rest, ok := strings.Cut(name, "_")
	if !ok {
		return "", "", false
	}
	if domain, ok := command.ParseDomain(rest); ok {
		return domain, verb, true
	}
	domainPart, suffix, ok := strings.Cut(rest, "_")
	if !ok {
		return "", "", false
	}
	domain, ok := command.ParseDomain(domainPart)
	if !ok {
		return "", "", false
	}
	return domain, verb + "_" + suffix, true
}
