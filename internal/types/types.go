// Package types defines the entity model shared by the store, the command
// handlers, and the session layer.
package types

import "time"

// Category groups events, tasks, habits, and goals under a user-chosen label.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is a calendar entry with a concrete time window.
type Event struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Notes      string    `json:"notes,omitempty"`
	Location   string    `json:"location,omitempty"`
	StartAt    time.Time `json:"start_at"`
	EndAt      time.Time `json:"end_at"`
	AllDay     bool      `json:"all_day,omitempty"`
	CategoryID string    `json:"category_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

const (
	TaskOpen      TaskStatus = "open"
	TaskCompleted TaskStatus = "completed"
)

// Task is a to-do item, optionally dated and optionally nested under a
// parent task.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Notes       string     `json:"notes,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    int64      `json:"priority,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ParentID    string     `json:"parent_id,omitempty"`
	CategoryID  string     `json:"category_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HabitLogEntry records one completion (or partial completion) of a habit.
type HabitLogEntry struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
	Note  string    `json:"note,omitempty"`
}

// Habit is a recurring practice tracked by a per-day log.
type Habit struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Notes         string          `json:"notes,omitempty"`
	Schedule      string          `json:"schedule,omitempty"` // daily, weekdays, weekly, ...
	TargetPerWeek int64           `json:"target_per_week,omitempty"`
	CategoryID    string          `json:"category_id,omitempty"`
	Log           []HabitLogEntry `json:"log,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Milestone is a named checkpoint inside a goal.
type Milestone struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Done  bool       `json:"done"`
	DueAt *time.Time `json:"due_at,omitempty"`
}

// Goal is a long-running objective with explicit progress and milestones.
// Progress is a percentage in [0, 100].
type Goal struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Notes      string      `json:"notes,omitempty"`
	Progress   float64     `json:"progress"`
	TargetDate *time.Time  `json:"target_date,omitempty"`
	Milestones []Milestone `json:"milestones,omitempty"`
	CategoryID string      `json:"category_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
