package command

import (
	"strings"
	"time"

	"daybook/internal/store"
	"daybook/internal/types"

	"github.com/google/uuid"
)

// Default appearance for categories created on the fly.
const (
	defaultCategoryColor = "#8E8E93"
	defaultCategoryIcon  = "tag"
)

// looksLikeID reports whether s is a UUID-shaped entity reference.
func looksLikeID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// findCategoryByName returns the category with a case-insensitive name
// match, or nil.
func findCategoryByName(st store.Store, name string) *types.Category {
	for _, c := range st.Categories() {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// resolveCategory resolves a category parameter: a UUID string, a plain
// name, or a map with name/color/icon. Unknown names create a new category
// (create-on-miss is specific to categories). Resolution is idempotent: the
// created category joins the live collection, so a second resolve of the
// same name returns the same entity.
//
// The caller commits the store; resolveCategory itself never saves.
func resolveCategory(st store.Store, value interface{}) *types.Category {
	var name, color, icon string

	switch v := value.(type) {
	case string:
		if looksLikeID(v) {
			for _, c := range st.Categories() {
				if c.ID == v {
					return c
				}
			}
			return nil
		}
		name = v
	case map[string]interface{}:
		p := Params(v)
		name, _ = p.String("name")
		color, _ = p.String("color")
		icon, _ = p.String("icon")
	case Params:
		name, _ = v.String("name")
		color, _ = v.String("color")
		icon, _ = v.String("icon")
	default:
		return nil
	}

	if strings.TrimSpace(name) == "" {
		return nil
	}
	if existing := findCategoryByName(st, name); existing != nil {
		return existing
	}

	if color == "" {
		color = defaultCategoryColor
	}
	if icon == "" {
		icon = defaultCategoryIcon
	}
	created := &types.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		Icon:      icon,
		CreatedAt: nowFunc(),
	}
	st.AddCategory(created)
	return created
}

// applyCategoryParam resolves a "category" parameter, if present, and
// assigns the resulting id through set.
func applyCategoryParam(st store.Store, p Params, set func(id string)) {
	value, ok := p["category"]
	if !ok {
		return
	}
	if c := resolveCategory(st, value); c != nil {
		set(c.ID)
	}
}

// touch returns the current time for created/updated stamps.
func touch() time.Time {
	return nowFunc()
}
