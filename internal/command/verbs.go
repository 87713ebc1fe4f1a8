package command

import "strings"

// Verb is a canonical command verb. Synonymous actions normalize to one of
// these before dispatch; domain-specific verbs (habit log, goal milestones)
// bypass the table and go to the handler's Custom path.
type Verb string

const (
	VerbCreate Verb = "create"
	VerbUpdate Verb = "update"
	VerbDelete Verb = "delete"
	VerbList   Verb = "list"
	VerbSearch Verb = "search"
)

// synonyms maps every accepted action spelling to its canonical verb. Built
// once at package init, never re-evaluated per call.
var synonyms = buildSynonymTable()

func buildSynonymTable() map[string]Verb {
	table := make(map[string]Verb)
	for verb, names := range map[Verb][]string{
		VerbCreate: {"create", "add", "new"},
		VerbUpdate: {"update", "edit", "modify"},
		VerbDelete: {"delete", "remove"},
		VerbList:   {"list", "get", "fetch"},
		VerbSearch: {"search", "find"},
	} {
		for _, name := range names {
			table[name] = verb
		}
	}
	return table
}

// canonicalVerb normalizes an action name. ok is false for domain-specific
// actions not covered by the synonym table.
func canonicalVerb(action string) (Verb, bool) {
	verb, ok := synonyms[strings.ToLower(strings.TrimSpace(action))]
	return verb, ok
}
