package command

import (
	"strings"
	"time"

	"daybook/internal/store"
	"daybook/internal/types"

	"github.com/google/uuid"
)

// taskHandler executes commands against the task collection.
type taskHandler struct {
	st store.Store
}

func (h *taskHandler) Noun() string { return "task" }

func (h *taskHandler) find(id string) *types.Task {
	for _, t := range h.st.Tasks() {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// findParent resolves a parent reference by id first, then by
// case-insensitive title. Mid-batch linking relies on earlier items of the
// same batch already being visible here.
func (h *taskHandler) findParent(ref string) *types.Task {
	if looksLikeID(ref) {
		if t := h.find(ref); t != nil {
			return t
		}
	}
	for _, t := range h.st.Tasks() {
		if strings.EqualFold(t.Title, ref) {
			return t
		}
	}
	return nil
}

func (h *taskHandler) Create(p Params) CommandResult {
	title, ok := p.String("title")
	if !ok {
		return Failuref("task title is required")
	}

	now := touch()
	task := &types.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    types.TaskOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	task.Notes, _ = p.String("notes")
	if priority, ok := p.Int64("priority"); ok {
		task.Priority = priority
	}
	if due, ok := p.Time("due"); ok {
		task.DueAt = &due
	} else if due, ok := p.Time("dueDate"); ok {
		task.DueAt = &due
	}
	if parentRef, ok := p.FirstString("parent", "parentId", "parent_id"); ok {
		if parent := h.findParent(parentRef); parent != nil {
			task.ParentID = parent.ID
		}
	}
	applyCategoryParam(h.st, p, func(id string) { task.CategoryID = id })

	h.st.AddTask(task)
	if err := h.st.Save(); err != nil {
		return Failuref("failed to save task: %v", err)
	}
	return CommandResult{Success: true, Message: "Created task: " + title, ItemID: task.ID}
}

func (h *taskHandler) Update(id string, p Params) CommandResult {
	if id == "" {
		return Failuref("invalid or missing ID")
	}
	task := h.find(id)
	if task == nil {
		return Failuref("task not found")
	}

	if title, ok := p.String("title"); ok {
		task.Title = title
	}
	if notes, ok := p.String("notes"); ok {
		task.Notes = notes
	}
	if priority, ok := p.Int64("priority"); ok {
		task.Priority = priority
	}
	if due, ok := p.Time("due"); ok {
		task.DueAt = &due
	} else if due, ok := p.Time("dueDate"); ok {
		task.DueAt = &due
	}
	if completed, ok := p.Bool("completed"); ok {
		h.setCompleted(task, completed)
	}
	if parentRef, ok := p.FirstString("parent", "parentId", "parent_id"); ok {
		if parent := h.findParent(parentRef); parent != nil {
			task.ParentID = parent.ID
		}
	}
	applyCategoryParam(h.st, p, func(id string) { task.CategoryID = id })
	task.UpdatedAt = touch()

	if err := h.st.Save(); err != nil {
		return Failuref("failed to save task: %v", err)
	}
	return CommandResult{Success: true, Message: "Updated task: " + task.Title, ItemID: task.ID}
}

func (h *taskHandler) setCompleted(task *types.Task, completed bool) {
	if completed {
		now := touch()
		task.Status = types.TaskCompleted
		task.CompletedAt = &now
	} else {
		task.Status = types.TaskOpen
		task.CompletedAt = nil
	}
}

func (h *taskHandler) Delete(id string) CommandResult {
	if id == "" {
		return Failuref("invalid or missing ID")
	}
	task := h.find(id)
	if task == nil {
		return Failuref("task not found")
	}
	h.st.RemoveTask(id)
	if err := h.st.Save(); err != nil {
		return Failuref("failed to save after delete: %v", err)
	}
	return CommandResult{Success: true, Message: "Deleted task: " + task.Title, ItemID: id}
}

// List selects tasks due within the requested day window. No filter
// defaults to today; undated open tasks are always included so they cannot
// silently disappear from every view.
func (h *taskHandler) List(p Params) CommandResult {
	start, end, constrained := taskWindow(p)

	var matched []*types.Task
	for _, t := range h.st.Tasks() {
		switch {
		case t.DueAt == nil:
			if t.Status == types.TaskOpen {
				matched = append(matched, t)
			}
		case !constrained:
			matched = append(matched, t)
		case inWindow(*t.DueAt, start, end):
			matched = append(matched, t)
		}
	}
	return CommandResult{
		Success: true,
		Message: countMessage("Found", len(matched), "task"),
		Data:    matched,
	}
}

// taskWindow reads the date constraint; tasks accept "all" to disable the
// default today window.
func taskWindow(p Params) (time.Time, time.Time, bool) {
	if filter, ok := p.Map("filter"); ok {
		if start, end, ok := filterWindow(filter); ok {
			return start, end, true
		}
		return time.Time{}, time.Time{}, false
	}
	if value, ok := p.FirstString("date", "day", "range"); ok {
		if strings.EqualFold(value, "all") {
			return time.Time{}, time.Time{}, false
		}
		if start, end, ok := namedWindow(value); ok {
			return start, end, true
		}
	}
	start, end := dayWindow(nowFunc())
	return start, end, true
}

func (h *taskHandler) Search(query string, _ Params) CommandResult {
	var matched []*types.Task
	for _, t := range h.st.Tasks() {
		if containsFold(t.Title, query) || containsFold(t.Notes, query) {
			matched = append(matched, t)
		}
	}
	return CommandResult{
		Success: true,
		Message: countMessage("Found", len(matched), "task") + " matching " + quote(query),
		Data:    matched,
	}
}

func (h *taskHandler) Resolve(filter Params) []string {
	start, end, constrained := filterWindow(filter)
	var ids []string
	for _, t := range h.st.Tasks() {
		if !constrained || (t.DueAt != nil && inWindow(*t.DueAt, start, end)) {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// Custom handles the task-specific complete verb.
func (h *taskHandler) Custom(action string, p Params) CommandResult {
	switch action {
	case "complete":
		id, ok := p.String("id")
		if !ok {
			return Failuref("invalid or missing ID")
		}
		task := h.find(id)
		if task == nil {
			return Failuref("task not found")
		}
		h.setCompleted(task, true)
		task.UpdatedAt = touch()
		if err := h.st.Save(); err != nil {
			return Failuref("failed to save task: %v", err)
		}
		return CommandResult{Success: true, Message: "Completed task: " + task.Title, ItemID: task.ID}
	default:
		return Failuref("unknown action %q for task", action)
	}
}
