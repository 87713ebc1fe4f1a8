package command

import (
	"daybook/internal/store"
	"daybook/internal/types"
)

// categoryHandler executes commands against the category collection.
type categoryHandler struct {
	st store.Store
}

func (h *categoryHandler) Noun() string { return "category" }

func (h *categoryHandler) find(id string) *types.Category {
	for _, c := range h.st.Categories() {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Create is idempotent on the category name: creating an existing name
// returns the existing category unchanged.
func (h *categoryHandler) Create(p Params) CommandResult {
	name, ok := p.FirstString("name", "title")
	if !ok {
		return Failuref("category name is required")
	}

	if existing := findCategoryByName(h.st, name); existing != nil {
		return CommandResult{Success: true, Message: "Category already exists: " + existing.Name, ItemID: existing.ID}
	}

	created := resolveCategory(h.st, p.withName(name))
	if created == nil {
		return Failuref("category name is required")
	}
	if err := h.st.Save(); err != nil {
		return Failuref("failed to save category: %v", err)
	}
	return CommandResult{Success: true, Message: "Created category: " + created.Name, ItemID: created.ID}
}

// withName copies the params with the name key normalized, so title-keyed
// creates flow through resolveCategory unchanged.
func (p Params) withName(name string) Params {
	out := Params{"name": name}
	if color, ok := p.String("color"); ok {
		out["color"] = color
	}
	if icon, ok := p.String("icon"); ok {
		out["icon"] = icon
	}
	return out
}

func (h *categoryHandler) Update(id string, p Params) CommandResult {
	if id == "" {
		return Failuref("invalid or missing ID")
	}
	category := h.find(id)
	if category == nil {
		return Failuref("category not found")
	}

	if name, ok := p.FirstString("name", "title"); ok {
		category.Name = name
	}
	if color, ok := p.String("color"); ok {
		category.Color = color
	}
	if icon, ok := p.String("icon"); ok {
		category.Icon = icon
	}

	if err := h.st.Save(); err != nil {
		return Failuref("failed to save category: %v", err)
	}
	return CommandResult{Success: true, Message: "Updated category: " + category.Name, ItemID: category.ID}
}

// Delete removes the category and detaches it from every entity that
// referenced it, so no dangling category ids survive.
func (h *categoryHandler) Delete(id string) CommandResult {
	if id == "" {
		return Failuref("invalid or missing ID")
	}
	category := h.find(id)
	if category == nil {
		return Failuref("category not found")
	}
	h.st.RemoveCategory(id)

	for _, e := range h.st.Events() {
		if e.CategoryID == id {
			e.CategoryID = ""
		}
	}
	for _, t := range h.st.Tasks() {
		if t.CategoryID == id {
			t.CategoryID = ""
		}
	}
	for _, hb := range h.st.Habits() {
		if hb.CategoryID == id {
			hb.CategoryID = ""
		}
	}
	for _, g := range h.st.Goals() {
		if g.CategoryID == id {
			g.CategoryID = ""
		}
	}

	if err := h.st.Save(); err != nil {
		return Failuref("failed to save after delete: %v", err)
	}
	return CommandResult{Success: true, Message: "Deleted category: " + category.Name, ItemID: id}
}

// List returns all categories; there is no time dimension to filter on.
func (h *categoryHandler) List(_ Params) CommandResult {
	categories := h.st.Categories()
	return CommandResult{
		Success: true,
		Message: countMessage("Found", len(categories), "category"),
		Data:    categories,
	}
}

func (h *categoryHandler) Search(query string, _ Params) CommandResult {
	var matched []*types.Category
	for _, c := range h.st.Categories() {
		if containsFold(c.Name, query) {
			matched = append(matched, c)
		}
	}
	return CommandResult{
		Success: true,
		Message: countMessage("Found", len(matched), "category") + " matching " + quote(query),
		Data:    matched,
	}
}

func (h *categoryHandler) Resolve(_ Params) []string {
	var ids []string
	for _, c := range h.st.Categories() {
		ids = append(ids, c.ID)
	}
	return ids
}

func (h *categoryHandler) Custom(action string, _ Params) CommandResult {
	return Failuref("unknown action %q for category", action)
}
