package command

import "strings"

// Domain identifies one of the five managed entity kinds.
type Domain string

const (
	DomainEvent    Domain = "event"
	DomainTask     Domain = "task"
	DomainHabit    Domain = "habit"
	DomainGoal     Domain = "goal"
	DomainCategory Domain = "category"
)

// ParseDomain resolves a domain name, tolerating case and plural forms.
func ParseDomain(name string) (Domain, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "event", "events":
		return DomainEvent, true
	case "task", "tasks":
		return DomainTask, true
	case "habit", "habits":
		return DomainHabit, true
	case "goal", "goals":
		return DomainGoal, true
	case "category", "categories":
		return DomainCategory, true
	default:
		return "", false
	}
}

// plural returns the user-facing plural of a domain noun for a count.
func plural(noun string, n int) string {
	if n == 1 {
		return noun
	}
	if strings.HasSuffix(noun, "y") {
		return noun[:len(noun)-1] + "ies"
	}
	return noun + "s"
}
