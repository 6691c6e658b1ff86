package localstore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoran/taskmate/internal/localstore"
)

func TestStore_SeededOnCreation(t *testing.T) {
	store := localstore.New()

	tasks := store.List("")
	require.NotEmpty(t, tasks)
	for _, task := range tasks {
		assert.NotEmpty(t, task.Title)
		assert.NotEmpty(t, task.Label)
		assert.False(t, task.UpdatedAt.Before(task.CreatedAt))
	}
}

func TestStore_CreateGetRoundTrip(t *testing.T) {
	store := localstore.New()

	created := store.Create("Buy milk tomorrow")
	got, err := store.Get(created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Buy milk tomorrow", got.Description)
	assert.Equal(t, "shopping", got.Label)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, got.CreatedAt.AddDate(0, 0, 1).Truncate(24*time.Hour),
		got.DueDate.Truncate(24*time.Hour))
}

func TestStore_CreatedTaskListedFirst(t *testing.T) {
	store := localstore.New()

	created := store.Create("Buy milk tomorrow")
	tasks := store.List("")
	require.NotEmpty(t, tasks)
	assert.Equal(t, created.ID, tasks[0].ID)
}

func TestStore_IDsStrictlyIncreasing(t *testing.T) {
	store := localstore.New()

	first := store.Create("one")
	store.Delete(first.ID)
	second := store.Create("two")

	assert.Greater(t, second.ID, first.ID, "deleted ids must not be reused")
}

func TestStore_ListFilterByLabel(t *testing.T) {
	store := localstore.New()
	store.Create("Buy socks")
	store.Create("Water the plants")

	for _, task := range store.List("shopping") {
		assert.Equal(t, "shopping", task.Label)
	}

	assert.Equal(t, len(store.List("")), len(store.List("all")))
}

func TestStore_UpdatePreservesIdentityAndCreatedAt(t *testing.T) {
	store := localstore.New()
	created := store.Create("Write the weekly report")

	updated, err := store.Update(created.ID, "Buy a new keyboard")
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Buy a new keyboard", updated.Description)
	assert.Equal(t, "shopping", updated.Label)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestStore_UpdateMissingTask(t *testing.T) {
	store := localstore.New()
	_, err := store.Update(999999, "whatever")
	assert.ErrorIs(t, err, localstore.ErrTaskNotFound)
}

func TestStore_GetMissingTask(t *testing.T) {
	store := localstore.New()
	_, err := store.Get(999999)
	assert.ErrorIs(t, err, localstore.ErrTaskNotFound)
}

func TestStore_Delete(t *testing.T) {
	store := localstore.New()
	created := store.Create("throwaway")

	assert.True(t, store.Delete(created.ID))
	assert.False(t, store.Delete(created.ID))

	_, err := store.Get(created.ID)
	assert.ErrorIs(t, err, localstore.ErrTaskNotFound)
}

func TestStore_LabelsSortedDistinct(t *testing.T) {
	store := localstore.New()
	store.Create("Buy bread")
	store.Create("Buy butter")

	labels := store.Labels()
	require.NotEmpty(t, labels)

	seen := make(map[string]bool)
	for i, label := range labels {
		assert.False(t, seen[label], "labels must be distinct")
		seen[label] = true
		if i > 0 {
			assert.LessOrEqual(t, labels[i-1], label, "labels must be sorted")
		}
	}
}

func TestStore_SummarizeCountsByLabel(t *testing.T) {
	store := localstore.New()
	store.Create("Buy milk")
	store.Create("Buy eggs")

	start := time.Now().Add(-30 * 24 * time.Hour)
	end := time.Now().Add(time.Hour)

	summary := store.Summarize(start, end)
	assert.Equal(t, len(store.List("")), summary.TaskCount)
	assert.Contains(t, summary.Summary, "shopping: ")
	assert.Equal(t, start, summary.StartDate)
	assert.Equal(t, end, summary.EndDate)
}

func TestStore_SummarizeEmptyRange(t *testing.T) {
	store := localstore.New()

	// A range far in the past contains no tasks.
	start := time.Now().AddDate(-2, 0, 0)
	end := start.AddDate(0, 0, 1)

	summary := store.Summarize(start, end)
	assert.Equal(t, 0, summary.TaskCount)
	assert.Contains(t, summary.Summary, "0 task(s)")
	assert.NotContains(t, summary.Summary, "By category")
}
