package command

import (
	"fmt"
	"strings"
	"time"

	"daybook/internal/store"
	"daybook/internal/types"

	"github.com/google/uuid"
)

// eventHandler executes commands against the event collection.
type eventHandler struct {
	st store.Store
}

func (h *eventHandler) Noun() string { return "event" }

func (h *eventHandler) find(id string) *types.Event {
	for _, e := range h.st.Events() {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (h *eventHandler) Create(p Params) CommandResult {
	title, ok := p.String("title")
	if !ok {
		return Failuref("event title is required")
	}

	start, ok := p.Time("start")
	if !ok {
		if start, ok = p.Time("date"); !ok {
			return Failuref("event start time is required")
		}
	}
	end, ok := p.Time("end")
	if !ok || end.Before(start) {
		end = start.Add(time.Hour)
	}

	now := touch()
	event := &types.Event{
		ID:        uuid.NewString(),
		Title:     title,
		StartAt:   start,
		EndAt:     end,
		CreatedAt: now,
		UpdatedAt: now,
	}
	event.Notes, _ = p.String("notes")
	event.Location, _ = p.String("location")
	event.AllDay, _ = p.Bool("allDay")
	applyCategoryParam(h.st, p, func(id string) { event.CategoryID = id })

	h.st.AddEvent(event)
	if err := h.st.Save(); err != nil {
		return Failuref("failed to save event: %v", err)
	}
	return CommandResult{Success: true, Message: "Created event: " + title, ItemID: event.ID}
}

func (h *eventHandler) Update(id string, p Params) CommandResult {
	if id == "" {
		return Failuref("invalid or missing ID")
	}
	event := h.find(id)
	if event == nil {
		return Failuref("event not found")
	}

	if title, ok := p.String("title"); ok {
		event.Title = title
	}
	if notes, ok := p.String("notes"); ok {
		event.Notes = notes
	}
	if location, ok := p.String("location"); ok {
		event.Location = location
	}
	if start, ok := p.Time("start"); ok {
		duration := event.EndAt.Sub(event.StartAt)
		event.StartAt = start
		if !p.Has("end") {
			event.EndAt = start.Add(duration)
		}
	}
	if end, ok := p.Time("end"); ok {
		event.EndAt = end
	}
	if allDay, ok := p.Bool("allDay"); ok {
		event.AllDay = allDay
	}
	applyCategoryParam(h.st, p, func(id string) { event.CategoryID = id })
	event.UpdatedAt = touch()

	if err := h.st.Save(); err != nil {
		return Failuref("failed to save event: %v", err)
	}
	return CommandResult{Success: true, Message: "Updated event: " + event.Title, ItemID: event.ID}
}

func (h *eventHandler) Delete(id string) CommandResult {
	if id == "" {
		return Failuref("invalid or missing ID")
	}
	event := h.find(id)
	if event == nil {
		return Failuref("event not found")
	}
	h.st.RemoveEvent(id)
	if err := h.st.Save(); err != nil {
		return Failuref("failed to save after delete: %v", err)
	}
	return CommandResult{Success: true, Message: "Deleted event: " + event.Title, ItemID: id}
}

// List selects events whose start falls within the requested day window.
// Events are a time-bound domain, so no filter defaults to today.
func (h *eventHandler) List(p Params) CommandResult {
	start, end, ok := h.window(p)
	if !ok {
		start, end = dayWindow(nowFunc())
	}

	var matched []*types.Event
	for _, e := range h.st.Events() {
		if inWindow(e.StartAt, start, end) {
			matched = append(matched, e)
		}
	}
	return CommandResult{
		Success: true,
		Message: countMessage("Found", len(matched), "event"),
		Data:    matched,
	}
}

func (h *eventHandler) Search(query string, _ Params) CommandResult {
	var matched []*types.Event
	for _, e := range h.st.Events() {
		if containsFold(e.Title, query) || containsFold(e.Notes, query) || containsFold(e.Location, query) {
			matched = append(matched, e)
		}
	}
	return CommandResult{
		Success: true,
		Message: countMessage("Found", len(matched), "event") + " matching " + quote(query),
		Data:    matched,
	}
}

func (h *eventHandler) Resolve(filter Params) []string {
	start, end, constrained := filterWindow(filter)
	var ids []string
	for _, e := range h.st.Events() {
		if !constrained || inWindow(e.StartAt, start, end) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func (h *eventHandler) Custom(action string, _ Params) CommandResult {
	return Failuref("unknown action %q for event", action)
}

// window reads a date constraint from either top-level params or a nested
// filter map.
func (h *eventHandler) window(p Params) (time.Time, time.Time, bool) {
	if filter, ok := p.Map("filter"); ok {
		if start, end, ok := filterWindow(filter); ok {
			return start, end, true
		}
	}
	if value, ok := p.FirstString("date", "day", "range"); ok {
		return namedWindow(value)
	}
	return time.Time{}, time.Time{}, false
}

// Shared message helpers.

func countMessage(verbed string, n int, noun string) string {
	return fmt.Sprintf("%s %d %s", verbed, n, plural(noun, n))
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func quote(s string) string {
	return `"` + s + `"`
}
