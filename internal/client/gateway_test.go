package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoran/taskmate/internal/client"
	"github.com/avoran/taskmate/internal/fallback"
	"github.com/avoran/taskmate/internal/models"
)

func testTimeouts() client.Timeouts {
	return client.Timeouts{
		Read:    200 * time.Millisecond,
		Write:   200 * time.Millisecond,
		Summary: 200 * time.Millisecond,
		Health:  200 * time.Millisecond,
	}
}

func newTestGateway(t *testing.T, handler http.Handler) *client.Gateway {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return client.NewGateway(
		client.NewAPI(server.URL),
		client.WithTimeouts(testTimeouts()),
		client.WithLocalDelay(0),
	)
}

// downGateway points at a closed server so every call fails at dial.
func downGateway(t *testing.T) *client.Gateway {
	t.Helper()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	return client.NewGateway(
		client.NewAPI(url),
		client.WithTimeouts(testTimeouts()),
		client.WithLocalDelay(0),
	)
}

func TestGateway_ListLiveSuccess(t *testing.T) {
	now := time.Now()
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tasks/", r.URL.Path)
		json.NewEncoder(w).Encode(models.TaskList{
			Tasks: []models.Task{{
				ID:          7,
				Description: "Review the client contract",
				Title:       "Review the client contract",
				Label:       "work",
				CreatedAt:   now,
				UpdatedAt:   now,
			}},
			Total: 1,
			Limit: 50,
		})
	}))

	tasks, err := gw.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(7), tasks[0].ID)
	assert.False(t, gw.DemoActive())
	assert.Empty(t, gw.DemoReason())
}

func TestGateway_ListTimeoutFallsBackToSeeds(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))

	tasks, err := gw.List(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, tasks, "seeded local tasks expected")

	assert.True(t, gw.DemoActive())
	assert.Equal(t, fallback.ReasonConnectionFailed, gw.DemoReason())
}

func TestGateway_ServerErrorReason(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := gw.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, fallback.ReasonServerError, gw.DemoReason())
}

func TestGateway_Create422ThenLocalExtraction(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "AI processing failed", http.StatusUnprocessableEntity)
	}))

	task, err := gw.Create(context.Background(), "Buy milk tomorrow")
	require.NoError(t, err)

	assert.True(t, gw.DemoActive())
	assert.Equal(t, fallback.ReasonAIUnavailable, gw.DemoReason())

	assert.Equal(t, "shopping", task.Label)
	require.NotNil(t, task.DueDate)
	expected := task.CreatedAt.AddDate(0, 0, 1)
	assert.Equal(t, expected.Format("2006-01-02"), task.DueDate.Format("2006-01-02"))

	// The new task sorts first in the demo list.
	tasks, err := gw.List(context.Background(), "")
	require.NoError(t, err)
	require.NotEmpty(t, tasks)
	assert.Equal(t, task.ID, tasks[0].ID)
}

func TestGateway_GetUnknownIDSurfacesNotFound(t *testing.T) {
	gw := downGateway(t)

	_, err := gw.Get(context.Background(), 424242)
	assert.ErrorIs(t, err, client.ErrTaskNotFound)
	assert.True(t, gw.DemoActive())
}

func TestGateway_UpdateUnknownIDSurfacesNotFound(t *testing.T) {
	gw := downGateway(t)

	_, err := gw.Update(context.Background(), 424242, "new description")
	assert.ErrorIs(t, err, client.ErrTaskNotFound)
}

func TestGateway_UpdateFallsBackToLocalTask(t *testing.T) {
	gw := downGateway(t)

	created, err := gw.Create(context.Background(), "Draft the project plan")
	require.NoError(t, err)

	updated, err := gw.Update(context.Background(), created.ID, "Buy a whiteboard")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "shopping", updated.Label)
}

func TestGateway_DeleteAbsorbsFailure(t *testing.T) {
	gw := downGateway(t)

	created, err := gw.Create(context.Background(), "throwaway")
	require.NoError(t, err)

	require.NoError(t, gw.Delete(context.Background(), created.ID))
	_, err = gw.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, client.ErrTaskNotFound)
}

func TestGateway_LabelsFallBack(t *testing.T) {
	gw := downGateway(t)

	labels, err := gw.Labels(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, labels)
	assert.True(t, gw.DemoActive())
}

func TestGateway_SummarizeFallsBackToTemplate(t *testing.T) {
	gw := downGateway(t)

	start := time.Now().AddDate(0, -1, 0)
	end := time.Now().Add(time.Hour)

	summary, err := gw.Summarize(context.Background(), start, end)
	require.NoError(t, err)
	assert.Contains(t, summary.Summary, "[Demo Mode]")
	assert.Equal(t, len(seedList(t, gw)), summary.TaskCount)
}

func seedList(t *testing.T, gw *client.Gateway) []models.Task {
	t.Helper()
	tasks, err := gw.List(context.Background(), "")
	require.NoError(t, err)
	return tasks
}

func TestGateway_SummarizeEmptyRange(t *testing.T) {
	gw := downGateway(t)

	start := time.Now().AddDate(-3, 0, 0)
	end := start.AddDate(0, 0, 1)

	summary, err := gw.Summarize(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TaskCount)
}

func TestGateway_HealthySummaryPassesThrough(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tasks/summary", r.URL.Path)
		json.NewEncoder(w).Encode(models.Summary{
			Summary:   "A productive stretch focused on client work.",
			TaskCount: 12,
		})
	}))

	summary, err := gw.Summarize(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 12, summary.TaskCount)
	assert.False(t, gw.DemoActive())
}

func TestGateway_CheckHealthClearsDemoMode(t *testing.T) {
	healthy := false
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" && healthy {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))

	_, err := gw.List(context.Background(), "")
	require.NoError(t, err)
	require.True(t, gw.DemoActive())

	assert.False(t, gw.CheckHealth(context.Background()))
	assert.True(t, gw.DemoActive(), "failed probe must not clear demo mode")

	healthy = true
	assert.True(t, gw.CheckHealth(context.Background()))
	assert.False(t, gw.DemoActive())
	assert.Empty(t, gw.DemoReason())
}

func TestGateway_ExitDemoModeManually(t *testing.T) {
	gw := downGateway(t)

	_, err := gw.List(context.Background(), "")
	require.NoError(t, err)
	require.True(t, gw.DemoActive())

	gw.ExitDemoMode()
	assert.False(t, gw.DemoActive())
	assert.Empty(t, gw.DemoReason())
}

func TestGateway_DemoModeSkipsRemote(t *testing.T) {
	calls := 0
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := gw.List(context.Background(), "")
	require.NoError(t, err)
	require.True(t, gw.DemoActive())
	require.Equal(t, 1, calls)

	_, err = gw.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "demo mode must not attempt the backend")
}
