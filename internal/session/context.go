package session

import (
	"time"

	"daybook/internal/store"
	"daybook/internal/types"
)

// UserContext is the grounding blob attached to every request. The model
// resolves references like "my 3pm meeting" or "the report task" against
// these snapshots, so ids it echoes back are real ids.
type UserContext struct {
	Now        string            `json:"now"`
	Events     []*types.Event    `json:"events"`
	Tasks      []*types.Task     `json:"tasks"`
	Habits     []*types.Habit    `json:"habits"`
	Goals      []*types.Goal     `json:"goals"`
	Categories []*types.Category `json:"categories"`
}

// nowFunc is swapped in tests to pin the clock.
var nowFunc = time.Now

// BuildUserContext snapshots the store for one request. The slices alias the
// live collections; the snapshot is serialized before the next command runs,
// so no mutation can race it.
func BuildUserContext(st store.Store) *UserContext {
	return &UserContext{
		Now:        nowFunc().Format(time.RFC3339),
		Events:     st.Events(),
		Tasks:      st.Tasks(),
		Habits:     st.Habits(),
		Goals:      st.Goals(),
		Categories: st.Categories(),
	}
}
