package command

import (
	"strings"

	"daybook/internal/store"
	"daybook/internal/types"

	"github.com/google/uuid"
)

// habitHandler executes commands against the habit collection.
type habitHandler struct {
	st store.Store
}

func (h *habitHandler) Noun() string { return "habit" }

func (h *habitHandler) find(id string) *types.Habit {
	for _, hb := range h.st.Habits() {
		if hb.ID == id {
			return hb
		}
	}
	return nil
}

func (h *habitHandler) Create(p Params) CommandResult {
	name, ok := p.FirstString("name", "title")
	if !ok {
		return Failuref("habit name is required")
	}

	now := touch()
	habit := &types.Habit{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	habit.Notes, _ = p.String("notes")
	habit.Schedule, _ = p.String("schedule")
	if target, ok := p.Int64("targetPerWeek"); ok {
		habit.TargetPerWeek = target
	} else if target, ok := p.Int64("target_per_week"); ok {
		habit.TargetPerWeek = target
	}
	applyCategoryParam(h.st, p, func(id string) { habit.CategoryID = id })

	h.st.AddHabit(habit)
	if err := h.st.Save(); err != nil {
		return Failuref("failed to save habit: %v", err)
	}
	return CommandResult{Success: true, Message: "Created habit: " + name, ItemID: habit.ID}
}

func (h *habitHandler) Update(id string, p Params) CommandResult {
	if id == "" {
		return Failuref("invalid or missing ID")
	}
	habit := h.find(id)
	if habit == nil {
		return Failuref("habit not found")
	}

	if name, ok := p.FirstString("name", "title"); ok {
		habit.Name = name
	}
	if notes, ok := p.String("notes"); ok {
		habit.Notes = notes
	}
	if schedule, ok := p.String("schedule"); ok {
		habit.Schedule = schedule
	}
	if target, ok := p.Int64("targetPerWeek"); ok {
		habit.TargetPerWeek = target
	} else if target, ok := p.Int64("target_per_week"); ok {
		habit.TargetPerWeek = target
	}
	applyCategoryParam(h.st, p, func(id string) { habit.CategoryID = id })
	habit.UpdatedAt = touch()

	if err := h.st.Save(); err != nil {
		return Failuref("failed to save habit: %v", err)
	}
	return CommandResult{Success: true, Message: "Updated habit: " + habit.Name, ItemID: habit.ID}
}

func (h *habitHandler) Delete(id string) CommandResult {
	if id == "" {
		return Failuref("invalid or missing ID")
	}
	habit := h.find(id)
	if habit == nil {
		return Failuref("habit not found")
	}
	h.st.RemoveHabit(id)
	if err := h.st.Save(); err != nil {
		return Failuref("failed to save after delete: %v", err)
	}
	return CommandResult{Success: true, Message: "Deleted habit: " + habit.Name, ItemID: id}
}

// List returns all habits. Habits are not time-bound, so there is no
// default day window.
func (h *habitHandler) List(_ Params) CommandResult {
	habits := h.st.Habits()
	return CommandResult{
		Success: true,
		Message: countMessage("Found", len(habits), "habit"),
		Data:    habits,
	}
}

func (h *habitHandler) Search(query string, _ Params) CommandResult {
	var matched []*types.Habit
	for _, hb := range h.st.Habits() {
		if containsFold(hb.Name, query) || containsFold(hb.Notes, query) {
			matched = append(matched, hb)
		}
	}
	return CommandResult{
		Success: true,
		Message: countMessage("Found", len(matched), "habit") + " matching " + quote(query),
		Data:    matched,
	}
}

func (h *habitHandler) Resolve(_ Params) []string {
	var ids []string
	for _, hb := range h.st.Habits() {
		ids = append(ids, hb.ID)
	}
	return ids
}

// Custom handles the habit-specific log and complete verbs. Both append a
// log entry; complete is the shorthand for a count-1 log against today.
func (h *habitHandler) Custom(action string, p Params) CommandResult {
	switch action {
	case "log", "complete":
		return h.log(p)
	default:
		return Failuref("unknown action %q for habit", action)
	}
}

func (h *habitHandler) log(p Params) CommandResult {
	habit := h.resolveTarget(p)
	if habit == nil {
		return Failuref("habit not found")
	}

	entry := types.HabitLogEntry{Date: nowFunc(), Count: 1}
	if date, ok := p.Time("date"); ok {
		entry.Date = date
	}
	if count, ok := p.Int64("count"); ok && count > 0 {
		entry.Count = count
	}
	entry.Note, _ = p.String("note")

	habit.Log = append(habit.Log, entry)
	habit.UpdatedAt = touch()
	if err := h.st.Save(); err != nil {
		return Failuref("failed to save habit: %v", err)
	}
	return CommandResult{Success: true, Message: "Logged habit: " + habit.Name, ItemID: habit.ID}
}

// resolveTarget finds the habit by id, falling back to a case-insensitive
// name match so spoken commands ("log meditation") work without an id or
// with a stale one.
func (h *habitHandler) resolveTarget(p Params) *types.Habit {
	if id, ok := p.String("id"); ok {
		if hb := h.find(id); hb != nil {
			return hb
		}
	}
	if name, ok := p.FirstString("name", "title"); ok {
		for _, hb := range h.st.Habits() {
			if strings.EqualFold(hb.Name, name) {
				return hb
			}
		}
	}
	return nil
}
