// Package command interprets decoded function calls: it normalizes actions,
// validates parameters, branches bulk vs. single execution, and dispatches
// to one handler per entity domain. Every outcome is a CommandResult; no
// error escapes this package as a panic or raised error.
package command

import (
	"context"
	"fmt"
	"strings"

	"daybook/internal/logging"
	"daybook/internal/store"
)

// handler is the shared contract of the per-domain command handlers.
type handler interface {
	Create(p Params) CommandResult
	Update(id string, p Params) CommandResult
	Delete(id string) CommandResult
	List(p Params) CommandResult
	Search(query string, p Params) CommandResult

	// Resolve returns the ids of entities matching a filter map. A nil or
	// empty filter matches the whole collection.
	Resolve(filter Params) []string

	// Custom executes a domain-specific verb (habit log, goal milestones).
	Custom(action string, p Params) CommandResult

	// Noun is the singular entity name used in user-facing messages.
	Noun() string
}

// Router maps (domain, action) pairs to domain handlers.
type Router struct {
	handlers map[Domain]handler
}

// NewRouter creates a router over the given store.
func NewRouter(st store.Store) *Router {
	return &Router{
		handlers: map[Domain]handler{
			DomainEvent:    &eventHandler{st: st},
			DomainTask:     &taskHandler{st: st},
			DomainHabit:    &habitHandler{st: st},
			DomainGoal:     &goalHandler{st: st},
			DomainCategory: &categoryHandler{st: st},
		},
	}
}

// Route executes one command and returns its uniform result. The context
// bounds bulk execution: items already started run to completion, remaining
// items are skipped and reported.
func (r *Router) Route(ctx context.Context, domain Domain, action string, params Params) CommandResult {
	h, ok := r.handlers[domain]
	if !ok {
		return Failuref("unknown domain %q", string(domain))
	}
	if params == nil {
		params = Params{}
	}

	verb, canonical := canonicalVerb(action)
	if !canonical {
		logging.Router("custom action %q for %s", action, h.Noun())
		return h.Custom(strings.ToLower(strings.TrimSpace(action)), params)
	}
	logging.RouterDebug("%s %s: %d params", verb, h.Noun(), len(params))

	if result, ok := r.validate(verb, params); !ok {
		return result
	}

	switch verb {
	case VerbCreate:
		if items, ok := params.Items(); ok {
			return r.bulkCreate(ctx, h, items)
		}
		return h.Create(params)

	case VerbUpdate:
		if items, ok := params.Items(); ok {
			return r.bulkApply(ctx, h, "Updated", items, func(item Params) (string, bool) {
				id, ok := item.String("id")
				return id, ok
			}, func(id string, item Params) CommandResult {
				return h.Update(id, item)
			})
		}
		if ids, ok := r.bulkTargets(h, params, "updateAll"); ok {
			return r.bulkIDs(ctx, h, "Updated", ids, func(id string) CommandResult {
				return h.Update(id, params)
			})
		}
		return h.Update(r.singleID(params), params)

	case VerbDelete:
		if items, ok := params.Items(); ok {
			return r.bulkApply(ctx, h, "Deleted", items, func(item Params) (string, bool) {
				id, ok := item.String("id")
				return id, ok
			}, func(id string, _ Params) CommandResult {
				return h.Delete(id)
			})
		}
		if ids, ok := r.bulkTargets(h, params, "deleteAll"); ok {
			return r.bulkIDs(ctx, h, "Deleted", ids, h.Delete)
		}
		return h.Delete(r.singleID(params))

	case VerbList:
		return h.List(params)

	case VerbSearch:
		query, _ := params.String("query")
		return h.Search(query, params)

	default:
		return Failuref("unknown action %q for %s", action, h.Noun())
	}
}

// validate applies the minimal pre-dispatch checks. A failed check
// short-circuits without invoking the handler.
func (r *Router) validate(verb Verb, params Params) (CommandResult, bool) {
	switch verb {
	case VerbUpdate, VerbDelete:
		if !params.Has("id") && !params.Has("ids") && !params.Has("filter") &&
			!params.Has("items") && !params.Has("updateAll") && !params.Has("deleteAll") {
			return Failuref("invalid or missing ID"), false
		}
		if filter, ok := params.Map("filter"); ok {
			if err := validateFilter(filter); err != nil {
				return Failuref("%v", err), false
			}
		}
	case VerbSearch:
		if _, ok := params.String("query"); !ok {
			return Failuref("search requires a query"), false
		}
	}
	return CommandResult{}, true
}

// singleID extracts the id for the single-item path.
func (r *Router) singleID(params Params) string {
	id, _ := params.String("id")
	return id
}

// bulkTargets resolves the target ids of a bulk mutation, in the defined
// precedence order: explicit all-flag, then filter map (empty means all),
// then ids array. The items array is checked by the caller beforehand.
func (r *Router) bulkTargets(h handler, params Params, allKey string) ([]string, bool) {
	if all, ok := params.Bool(allKey); ok && all {
		return h.Resolve(nil), true
	}
	if filter, ok := params.Map("filter"); ok {
		return h.Resolve(filter), true
	}
	if ids, ok := params.Strings("ids"); ok {
		return ids, true
	}
	return nil, false
}

// bulkCreate creates one entity per item, accounting failures per item.
func (r *Router) bulkCreate(ctx context.Context, h handler, items []Params) CommandResult {
	return r.fanOut(ctx, h, "Created", len(items), func(i int) CommandResult {
		return h.Create(items[i])
	}, func(i int) string {
		return fmt.Sprintf("item %d", i+1)
	})
}

// bulkApply runs a per-item mutation keyed by each item's own id.
func (r *Router) bulkApply(ctx context.Context, h handler, verbed string, items []Params,
	pickID func(Params) (string, bool), apply func(string, Params) CommandResult) CommandResult {
	return r.fanOut(ctx, h, verbed, len(items), func(i int) CommandResult {
		id, ok := pickID(items[i])
		if !ok {
			return Failuref("invalid or missing ID")
		}
		return apply(id, items[i])
	}, func(i int) string {
		if id, ok := pickID(items[i]); ok {
			return id
		}
		return fmt.Sprintf("item %d", i+1)
	})
}

// bulkIDs runs a mutation over a list of resolved ids.
func (r *Router) bulkIDs(ctx context.Context, h handler, verbed string, ids []string,
	apply func(string) CommandResult) CommandResult {
	return r.fanOut(ctx, h, verbed, len(ids), func(i int) CommandResult {
		return apply(ids[i])
	}, func(i int) string {
		return ids[i]
	})
}

// fanOut executes n independent steps, never aborting on the first failure.
// Cancellation skips the not-yet-started remainder; started steps always run
// to completion.
func (r *Router) fanOut(ctx context.Context, h handler, verbed string, n int,
	step func(int) CommandResult, label func(int) string) CommandResult {
	succeeded := 0
	var failures []string

	for i := 0; i < n; i++ {
		if ctx != nil && ctx.Err() != nil {
			for j := i; j < n; j++ {
				failures = append(failures, fmt.Sprintf("%s: skipped (cancelled)", label(j)))
			}
			break
		}
		result := step(i)
		if result.Success {
			succeeded++
		} else {
			failures = append(failures, fmt.Sprintf("%s: %s", label(i), result.Message))
		}
	}

	message := fmt.Sprintf("%s %d %s", verbed, succeeded, plural(h.Noun(), succeeded))
	if len(failures) > 0 {
		message = fmt.Sprintf("%s. Failed: %s", message, strings.Join(failures, "; "))
	}
	if len(failures) > 0 {
		logging.CommandsWarn("bulk %s on %s: %d ok, %d failed", verbed, h.Noun(), succeeded, len(failures))
	} else {
		logging.Commands("bulk %s on %s: %d ok", verbed, h.Noun(), succeeded)
	}

	return CommandResult{
		Success:  succeeded > 0,
		Message:  message,
		Failures: failures,
	}
}
