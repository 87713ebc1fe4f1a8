package store

import (
	"path/filepath"
	"testing"
	"time"

	"daybook/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daybook.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)

	due := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	s.AddCategory(&types.Category{ID: "cat-1", Name: "Health", Color: "#34C759", Icon: "heart"})
	s.AddEvent(&types.Event{ID: "ev-1", Title: "Dentist", StartAt: due, EndAt: due.Add(time.Hour)})
	s.AddTask(&types.Task{ID: "t-1", Title: "Buy milk", Status: types.TaskOpen, DueAt: &due})
	s.AddHabit(&types.Habit{ID: "h-1", Name: "Stretch", Schedule: "daily",
		Log: []types.HabitLogEntry{{Date: due, Count: 1}}})
	s.AddGoal(&types.Goal{ID: "g-1", Title: "Run 10k", Progress: 40,
		Milestones: []types.Milestone{{ID: "m-1", Title: "Run 5k", Done: true}}})

	require.NoError(t, s.Save())
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	require.Len(t, reopened.Events(), 1)
	require.Len(t, reopened.Tasks(), 1)
	require.Len(t, reopened.Habits(), 1)
	require.Len(t, reopened.Goals(), 1)
	require.Len(t, reopened.Categories(), 1)

	task := reopened.Tasks()[0]
	assert.Equal(t, "Buy milk", task.Title)
	require.NotNil(t, task.DueAt)
	assert.True(t, task.DueAt.Equal(due))

	goal := reopened.Goals()[0]
	assert.Equal(t, 40.0, goal.Progress)
	require.Len(t, goal.Milestones, 1)
	assert.True(t, goal.Milestones[0].Done)

	habit := reopened.Habits()[0]
	require.Len(t, habit.Log, 1)
	assert.Equal(t, int64(1), habit.Log[0].Count)
}

func TestSQLiteStore_SaveReflectsRemovals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daybook.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)

	s.AddTask(&types.Task{ID: "t-1", Title: "a", Status: types.TaskOpen})
	s.AddTask(&types.Task{ID: "t-2", Title: "b", Status: types.TaskOpen})
	require.NoError(t, s.Save())

	assert.True(t, s.RemoveTask("t-1"))
	assert.False(t, s.RemoveTask("missing"))
	require.NoError(t, s.Save())
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	require.Len(t, reopened.Tasks(), 1)
	assert.Equal(t, "t-2", reopened.Tasks()[0].ID)
}

func TestSQLiteStore_InPlaceMutationPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daybook.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)

	s.AddGoal(&types.Goal{ID: "g-1", Title: "Read 12 books", Progress: 0})
	require.NoError(t, s.Save())

	// Handlers mutate entities in place and then commit.
	s.Goals()[0].Progress = 25
	require.NoError(t, s.Save())
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 25.0, reopened.Goals()[0].Progress)
}
