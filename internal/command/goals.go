package command

import (
	"strings"

	"daybook/internal/store"
	"daybook/internal/types"

	"github.com/google/uuid"
)

// goalHandler executes commands against the goal collection.
type goalHandler struct {
	st store.Store
}

func (h *goalHandler) Noun() string { return "goal" }

func (h *goalHandler) find(id string) *types.Goal {
	for _, g := range h.st.Goals() {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// resolveTarget finds a goal by id, then by case-insensitive title. Goals
// predating the id migration may carry a blank id; matching by title heals
// them by minting one on the spot.
func (h *goalHandler) resolveTarget(p Params) *types.Goal {
	if id, ok := p.String("id"); ok {
		if g := h.find(id); g != nil {
			return g
		}
	}
	title, ok := p.FirstString("title", "name", "goal")
	if !ok {
		return nil
	}
	for _, g := range h.st.Goals() {
		if strings.EqualFold(g.Title, title) {
			if g.ID == "" {
				g.ID = uuid.NewString()
			}
			return g
		}
	}
	return nil
}

func (h *goalHandler) Create(p Params) CommandResult {
	title, ok := p.String("title")
	if !ok {
		return Failuref("goal title is required")
	}

	now := touch()
	goal := &types.Goal{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	goal.Notes, _ = p.String("notes")
	if progress, ok := p.Float64("progress"); ok {
		goal.Progress = clampProgress(progress)
	}
	if target, ok := p.Time("targetDate"); ok {
		goal.TargetDate = &target
	} else if target, ok := p.Time("target_date"); ok {
		goal.TargetDate = &target
	}
	applyCategoryParam(h.st, p, func(id string) { goal.CategoryID = id })

	h.st.AddGoal(goal)
	if err := h.st.Save(); err != nil {
		return Failuref("failed to save goal: %v", err)
	}
	return CommandResult{Success: true, Message: "Created goal: " + title, ItemID: goal.ID}
}

func (h *goalHandler) Update(id string, p Params) CommandResult {
	goal := h.find(id)
	if goal == nil {
		goal = h.resolveTarget(p)
	}
	if goal == nil {
		return Failuref("goal not found")
	}
	return h.apply(goal, p)
}

func (h *goalHandler) apply(goal *types.Goal, p Params) CommandResult {
	if title, ok := p.String("title"); ok {
		goal.Title = title
	}
	if notes, ok := p.String("notes"); ok {
		goal.Notes = notes
	}
	if progress, ok := p.Float64("progress"); ok {
		goal.Progress = clampProgress(progress)
	}
	if target, ok := p.Time("targetDate"); ok {
		goal.TargetDate = &target
	} else if target, ok := p.Time("target_date"); ok {
		goal.TargetDate = &target
	}
	applyCategoryParam(h.st, p, func(id string) { goal.CategoryID = id })
	goal.UpdatedAt = touch()

	if err := h.st.Save(); err != nil {
		return Failuref("failed to save goal: %v", err)
	}
	return CommandResult{Success: true, Message: "Updated goal: " + goal.Title, ItemID: goal.ID}
}

func (h *goalHandler) Delete(id string) CommandResult {
	if id == "" {
		return Failuref("invalid or missing ID")
	}
	goal := h.find(id)
	if goal == nil {
		return Failuref("goal not found")
	}
	h.st.RemoveGoal(id)
	if err := h.st.Save(); err != nil {
		return Failuref("failed to save after delete: %v", err)
	}
	return CommandResult{Success: true, Message: "Deleted goal: " + goal.Title, ItemID: id}
}

// List returns all goals; goals have no default time window.
func (h *goalHandler) List(_ Params) CommandResult {
	goals := h.st.Goals()
	return CommandResult{
		Success: true,
		Message: countMessage("Found", len(goals), "goal"),
		Data:    goals,
	}
}

func (h *goalHandler) Search(query string, _ Params) CommandResult {
	var matched []*types.Goal
	for _, g := range h.st.Goals() {
		if containsFold(g.Title, query) || containsFold(g.Notes, query) {
			matched = append(matched, g)
			continue
		}
		for _, m := range g.Milestones {
			if containsFold(m.Title, query) {
				matched = append(matched, g)
				break
			}
		}
	}
	return CommandResult{
		Success: true,
		Message: countMessage("Found", len(matched), "goal") + " matching " + quote(query),
		Data:    matched,
	}
}

func (h *goalHandler) Resolve(_ Params) []string {
	var ids []string
	for _, g := range h.st.Goals() {
		ids = append(ids, g.ID)
	}
	return ids
}

// Custom handles milestone management and direct progress updates.
func (h *goalHandler) Custom(action string, p Params) CommandResult {
	switch action {
	case "update_progress", "progress":
		return h.updateProgress(p)
	case "create_milestone", "add_milestone":
		return h.createMilestone(p)
	case "update_milestone":
		return h.updateMilestone(p)
	case "delete_milestone", "remove_milestone":
		return h.deleteMilestone(p)
	default:
		return Failuref("unknown action %q for goal", action)
	}
}

func (h *goalHandler) updateProgress(p Params) CommandResult {
	goal := h.resolveTarget(p)
	if goal == nil {
		return Failuref("goal not found")
	}
	progress, ok := p.Float64("progress")
	if !ok {
		return Failuref("progress value is required")
	}
	goal.Progress = clampProgress(progress)
	goal.UpdatedAt = touch()
	if err := h.st.Save(); err != nil {
		return Failuref("failed to save goal: %v", err)
	}
	return CommandResult{Success: true, Message: "Updated goal: " + goal.Title, ItemID: goal.ID}
}

func (h *goalHandler) createMilestone(p Params) CommandResult {
	goal := h.resolveTarget(goalRef(p))
	if goal == nil {
		return Failuref("goal not found")
	}
	title, ok := p.FirstString("milestone", "milestoneTitle")
	if !ok {
		return Failuref("milestone title is required")
	}

	milestone := types.Milestone{
		ID:    uuid.NewString(),
		Title: title,
	}
	if due, ok := p.Time("due"); ok {
		milestone.DueAt = &due
	}
	goal.Milestones = append(goal.Milestones, milestone)
	goal.UpdatedAt = touch()

	if err := h.st.Save(); err != nil {
		return Failuref("failed to save goal: %v", err)
	}
	return CommandResult{Success: true, Message: "Added milestone to goal: " + goal.Title, ItemID: milestone.ID}
}

func (h *goalHandler) updateMilestone(p Params) CommandResult {
	goal, milestone := h.findMilestone(p)
	if milestone == nil {
		return Failuref("milestone not found")
	}

	if title, ok := p.FirstString("milestoneTitle", "newTitle"); ok {
		milestone.Title = title
	}
	if done, ok := p.Bool("done"); ok {
		milestone.Done = done
	} else if done, ok := p.Bool("completed"); ok {
		milestone.Done = done
	}
	if due, ok := p.Time("due"); ok {
		milestone.DueAt = &due
	}
	goal.UpdatedAt = touch()

	if err := h.st.Save(); err != nil {
		return Failuref("failed to save goal: %v", err)
	}
	return CommandResult{Success: true, Message: "Updated milestone in goal: " + goal.Title, ItemID: milestone.ID}
}

func (h *goalHandler) deleteMilestone(p Params) CommandResult {
	goal, milestone := h.findMilestone(p)
	if milestone == nil {
		return Failuref("milestone not found")
	}

	kept := goal.Milestones[:0]
	for _, m := range goal.Milestones {
		if m.ID != milestone.ID {
			kept = append(kept, m)
		}
	}
	goal.Milestones = kept
	goal.UpdatedAt = touch()

	if err := h.st.Save(); err != nil {
		return Failuref("failed to save goal: %v", err)
	}
	return CommandResult{Success: true, Message: "Removed milestone from goal: " + goal.Title, ItemID: milestone.ID}
}

// findMilestone locates a milestone by id or by title within the referenced
// goal. When no goal is referenced, the milestone id is searched across all
// goals.
func (h *goalHandler) findMilestone(p Params) (*types.Goal, *types.Milestone) {
	milestoneID, _ := p.FirstString("milestoneId", "milestone_id")
	milestoneTitle, _ := p.FirstString("milestone", "milestoneTitle")

	match := func(g *types.Goal) *types.Milestone {
		for i := range g.Milestones {
			m := &g.Milestones[i]
			if milestoneID != "" && m.ID == milestoneID {
				return m
			}
			if milestoneID == "" && milestoneTitle != "" && strings.EqualFold(m.Title, milestoneTitle) {
				return m
			}
		}
		return nil
	}

	if goal := h.resolveTarget(goalRef(p)); goal != nil {
		return goal, match(goal)
	}
	if milestoneID != "" {
		for _, g := range h.st.Goals() {
			if m := match(g); m != nil {
				return g, m
			}
		}
	}
	return nil, nil
}

// goalRef isolates the goal reference keys so milestone titles are never
// mistaken for goal titles.
func goalRef(p Params) Params {
	ref := Params{}
	if id, ok := p.String("id"); ok {
		ref["id"] = id
	}
	if id, ok := p.FirstString("goalId", "goal_id"); ok {
		ref["id"] = id
	}
	if title, ok := p.FirstString("goal", "goalTitle", "title"); ok {
		ref["title"] = title
	}
	return ref
}

func clampProgress(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
