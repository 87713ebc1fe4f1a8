// Package store holds the entity store consumed by the command handlers:
// in-memory collections of the five domains with synchronous, single-writer
// save semantics.
package store

import "daybook/internal/types"

// Store is the persistence boundary the command handlers mutate through.
// Accessors return the live in-memory collections; entities are mutated in
// place and committed with Save. All access happens on the single executor
// goroutine, so implementations do not need internal locking for the
// collection accessors.
type Store interface {
	Events() []*types.Event
	Tasks() []*types.Task
	Habits() []*types.Habit
	Goals() []*types.Goal
	Categories() []*types.Category

	AddEvent(*types.Event)
	AddTask(*types.Task)
	AddHabit(*types.Habit)
	AddGoal(*types.Goal)
	AddCategory(*types.Category)

	RemoveEvent(id string) bool
	RemoveTask(id string) bool
	RemoveHabit(id string) bool
	RemoveGoal(id string) bool
	RemoveCategory(id string) bool

	// Save commits the current in-memory state. Mutations are not durable
	// until Save returns nil.
	Save() error
}
