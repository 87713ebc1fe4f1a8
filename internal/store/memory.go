package store

import "daybook/internal/types"

// MemoryStore is a Store with no persistence. It backs tests and the
// ephemeral mode of the CLI.
type MemoryStore struct {
	events     []*types.Event
	tasks      []*types.Task
	habits     []*types.Habit
	goals      []*types.Goal
	categories []*types.Category

	// SaveErr, when set, is returned by every Save call. Tests use it to
	// exercise the save-failure paths of the handlers.
	SaveErr error

	// SaveCount counts committed saves.
	SaveCount int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Events returns the live event collection.
func (m *MemoryStore) Events() []*types.Event { return m.events }

// Tasks returns the live task collection.
func (m *MemoryStore) Tasks() []*types.Task { return m.tasks }

// Habits returns the live habit collection.
func (m *MemoryStore) Habits() []*types.Habit { return m.habits }

// Goals returns the live goal collection.
func (m *MemoryStore) Goals() []*types.Goal { return m.goals }

// Categories returns the live category collection.
func (m *MemoryStore) Categories() []*types.Category { return m.categories }

// AddEvent appends an event.
func (m *MemoryStore) AddEvent(e *types.Event) { m.events = append(m.events, e) }

// AddTask appends a task.
func (m *MemoryStore) AddTask(t *types.Task) { m.tasks = append(m.tasks, t) }

// AddHabit appends a habit.
func (m *MemoryStore) AddHabit(h *types.Habit) { m.habits = append(m.habits, h) }

// AddGoal appends a goal.
func (m *MemoryStore) AddGoal(g *types.Goal) { m.goals = append(m.goals, g) }

// AddCategory appends a category.
func (m *MemoryStore) AddCategory(c *types.Category) { m.categories = append(m.categories, c) }

// RemoveEvent deletes the event with the given id.
func (m *MemoryStore) RemoveEvent(id string) bool {
	for i, e := range m.events {
		if e.ID == id {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveTask deletes the task with the given id.
func (m *MemoryStore) RemoveTask(id string) bool {
	for i, t := range m.tasks {
		if t.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveHabit deletes the habit with the given id.
func (m *MemoryStore) RemoveHabit(id string) bool {
	for i, h := range m.habits {
		if h.ID == id {
			m.habits = append(m.habits[:i], m.habits[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveGoal deletes the goal with the given id.
func (m *MemoryStore) RemoveGoal(id string) bool {
	for i, g := range m.goals {
		if g.ID == id {
			m.goals = append(m.goals[:i], m.goals[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveCategory deletes the category with the given id.
func (m *MemoryStore) RemoveCategory(id string) bool {
	for i, c := range m.categories {
		if c.ID == id {
			m.categories = append(m.categories[:i], m.categories[i+1:]...)
			return true
		}
	}
	return false
}

// Save commits (a no-op in memory) unless SaveErr is set.
func (m *MemoryStore) Save() error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.SaveCount++
	return nil
}
