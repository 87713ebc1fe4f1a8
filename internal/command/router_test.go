package command

import (
	"context"
	"fmt"
	"testing"
	"time"

	"daybook/internal/store"
	"daybook/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pinClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return at }
	t.Cleanup(func() { nowFunc = prev })
}

func newTestRouter(t *testing.T) (*Router, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewRouter(st), st
}

func seedTasks(st *store.MemoryStore, titles ...string) []string {
	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		id := uuid.NewString()
		st.AddTask(&types.Task{ID: id, Title: title, Status: types.TaskOpen})
		ids = append(ids, id)
	}
	return ids
}

func TestRouteSynonymsAreEquivalent(t *testing.T) {
	for _, action := range []string{"create", "add", "new"} {
		t.Run(action, func(t *testing.T) {
			r, st := newTestRouter(t)
			result := r.Route(context.Background(), DomainTask, action, Params{"title": "Buy milk"})
			require.True(t, result.Success, result.Message)
			assert.Equal(t, "Created task: Buy milk", result.Message)
			require.Len(t, st.Tasks(), 1)
		})
	}

	for _, action := range []string{"delete", "remove"} {
		t.Run(action, func(t *testing.T) {
			r, st := newTestRouter(t)
			ids := seedTasks(st, "Buy milk")
			result := r.Route(context.Background(), DomainTask, action, Params{"id": ids[0]})
			require.True(t, result.Success, result.Message)
			assert.Empty(t, st.Tasks())
		})
	}
}

func TestRouteActionCaseInsensitive(t *testing.T) {
	r, _ := newTestRouter(t)
	result := r.Route(context.Background(), DomainTask, "  CREATE ", Params{"title": "Buy milk"})
	require.True(t, result.Success, result.Message)
}

func TestRouteUnknownDomain(t *testing.T) {
	r, _ := newTestRouter(t)
	result := r.Route(context.Background(), Domain("reminder"), "create", Params{"title": "x"})
	require.False(t, result.Success)
	assert.Contains(t, result.Message, "unknown domain")
}

func TestRouteUnknownAction(t *testing.T) {
	r, _ := newTestRouter(t)
	result := r.Route(context.Background(), DomainEvent, "reschedule", Params{})
	require.False(t, result.Success)
	assert.Contains(t, result.Message, "unknown action")
}

func TestValidateUpdateNeedsTarget(t *testing.T) {
	r, _ := newTestRouter(t)
	result := r.Route(context.Background(), DomainTask, "update", Params{"title": "New title"})
	require.False(t, result.Success)
	assert.Equal(t, "invalid or missing ID", result.Message)
}

func TestValidateSearchNeedsQuery(t *testing.T) {
	r, _ := newTestRouter(t)
	result := r.Route(context.Background(), DomainTask, "search", Params{})
	require.False(t, result.Success)
	assert.Equal(t, "search requires a query", result.Message)

	result = r.Route(context.Background(), DomainTask, "search", Params{"query": "   "})
	require.False(t, result.Success)
}

func TestBulkCreatePartialFailure(t *testing.T) {
	r, st := newTestRouter(t)
	result := r.Route(context.Background(), DomainTask, "create", Params{
		"items": []interface{}{
			map[string]interface{}{"title": "One"},
			map[string]interface{}{"notes": "no title here"},
			map[string]interface{}{"title": "Three"},
		},
	})

	require.True(t, result.Success, "partial success still counts as success")
	assert.Equal(t, "Created 2 tasks. Failed: item 2: task title is required", result.Message)
	require.Len(t, result.Failures, 1)
	assert.Len(t, st.Tasks(), 2)
}

func TestBulkCreateAllFail(t *testing.T) {
	r, _ := newTestRouter(t)
	result := r.Route(context.Background(), DomainTask, "create", Params{
		"items": []interface{}{
			map[string]interface{}{},
			map[string]interface{}{},
		},
	})
	require.False(t, result.Success)
	assert.Len(t, result.Failures, 2)
}

func TestBulkUpdateByIDs(t *testing.T) {
	r, st := newTestRouter(t)
	ids := seedTasks(st, "One", "Two", "Three")

	missing := uuid.NewString()
	result := r.Route(context.Background(), DomainTask, "update", Params{
		"ids":      []interface{}{ids[0], ids[2], missing},
		"priority": float64(2),
	})

	require.True(t, result.Success)
	assert.Equal(t, fmt.Sprintf("Updated 2 tasks. Failed: %s: task not found", missing), result.Message)
	assert.Equal(t, int64(2), st.Tasks()[0].Priority)
	assert.Equal(t, int64(0), st.Tasks()[1].Priority)
	assert.Equal(t, int64(2), st.Tasks()[2].Priority)
}

func TestBulkItemsTakePrecedenceOverIDs(t *testing.T) {
	r, st := newTestRouter(t)
	ids := seedTasks(st, "One", "Two")

	result := r.Route(context.Background(), DomainTask, "update", Params{
		"items": []interface{}{
			map[string]interface{}{"id": ids[0], "title": "Renamed"},
		},
		"ids": []interface{}{ids[0], ids[1]},
	})

	require.True(t, result.Success)
	assert.Equal(t, "Renamed", st.Tasks()[0].Title)
	assert.Equal(t, "Two", st.Tasks()[1].Title, "ids list must be ignored when items is present")
}

func TestDeleteAllFlag(t *testing.T) {
	r, st := newTestRouter(t)
	seedTasks(st, "One", "Two", "Three")

	result := r.Route(context.Background(), DomainTask, "delete", Params{"deleteAll": true})
	require.True(t, result.Success)
	assert.Equal(t, "Deleted 3 tasks", result.Message)
	assert.Empty(t, st.Tasks())
}

func TestDeleteEmptyFilterMeansAll(t *testing.T) {
	pinClock(t, time.Date(2026, 8, 23, 9, 0, 0, 0, time.Local))
	r, st := newTestRouter(t)
	st.AddEvent(&types.Event{ID: uuid.NewString(), Title: "A", StartAt: nowFunc()})
	st.AddEvent(&types.Event{ID: uuid.NewString(), Title: "B", StartAt: nowFunc().Add(48 * time.Hour)})

	result := r.Route(context.Background(), DomainEvent, "delete", Params{
		"filter": map[string]interface{}{},
	})
	require.True(t, result.Success)
	assert.Equal(t, "Deleted 2 events", result.Message)
	assert.Empty(t, st.Events())
}

func TestDeleteFilteredByDate(t *testing.T) {
	pinClock(t, time.Date(2026, 8, 23, 9, 0, 0, 0, time.Local))
	r, st := newTestRouter(t)
	st.AddEvent(&types.Event{ID: uuid.NewString(), Title: "Today", StartAt: nowFunc()})
	st.AddEvent(&types.Event{ID: uuid.NewString(), Title: "Later", StartAt: nowFunc().Add(48 * time.Hour)})

	result := r.Route(context.Background(), DomainEvent, "delete", Params{
		"filter": map[string]interface{}{"date": "today"},
	})
	require.True(t, result.Success)
	assert.Equal(t, "Deleted 1 event", result.Message)
	require.Len(t, st.Events(), 1)
	assert.Equal(t, "Later", st.Events()[0].Title)
}

func TestDeleteRejectsUnparseableFilterDate(t *testing.T) {
	pinClock(t, time.Date(2026, 8, 23, 9, 0, 0, 0, time.Local))
	r, st := newTestRouter(t)
	st.AddEvent(&types.Event{ID: uuid.NewString(), Title: "Today", StartAt: nowFunc()})
	st.AddEvent(&types.Event{ID: uuid.NewString(), Title: "Later", StartAt: nowFunc().Add(48 * time.Hour)})

	result := r.Route(context.Background(), DomainEvent, "delete", Params{
		"filter": map[string]interface{}{"date": "someday maybe"},
	})
	require.False(t, result.Success, "a garbled date must not widen to delete-all")
	assert.Contains(t, result.Message, "someday maybe")
	assert.Len(t, st.Events(), 2)

	result = r.Route(context.Background(), DomainTask, "update", Params{
		"filter":   map[string]interface{}{"date": float64(7)},
		"priority": float64(1),
	})
	require.False(t, result.Success)
	assert.Contains(t, result.Message, "invalid date value")
}

func TestBulkCancellationSkipsRemaining(t *testing.T) {
	r, st := newTestRouter(t)
	ids := seedTasks(st, "One", "Two", "Three")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := r.Route(ctx, DomainTask, "delete", Params{
		"ids": []interface{}{ids[0], ids[1], ids[2]},
	})
	require.False(t, result.Success)
	require.Len(t, result.Failures, 3)
	for _, f := range result.Failures {
		assert.Contains(t, f, "skipped (cancelled)")
	}
	assert.Len(t, st.Tasks(), 3, "no item may run after cancellation")
}

func TestBulkFailureCountProperty(t *testing.T) {
	r, st := newTestRouter(t)
	ids := seedTasks(st, "One", "Two", "Three", "Four")

	targets := []interface{}{ids[0], uuid.NewString(), ids[2], uuid.NewString()}
	result := r.Route(context.Background(), DomainTask, "delete", Params{"ids": targets})

	require.True(t, result.Success)
	assert.Len(t, result.Failures, 2)
	assert.Len(t, st.Tasks(), 2)
}
