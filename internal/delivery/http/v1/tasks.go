package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avoran/taskmate/internal/services"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

type taskRequest struct {
	Description string `json:"description" binding:"required,max=2000"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req taskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newUnprocessableError("description is required"))
		return
	}

	task, err := h.tasks.CreateTask(c, req.Description)
	if err != nil {
		h.abortTaskError(c, err, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	skip, err := parseUintQuery(c, "skip", 0)
	if err != nil {
		abort(c, newBadRequestError("invalid skip parameter"))
		return
	}
	limit, err := parseUintQuery(c, "limit", defaultListLimit)
	if err != nil || limit == 0 || limit > maxListLimit {
		abort(c, newBadRequestError("invalid limit parameter"))
		return
	}

	list, err := h.tasks.ListTasks(c, services.ListTasksParams{
		Label: c.Query("label"),
		Skip:  skip,
		Limit: limit,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abort(c, newInternalError("failed to list tasks"))
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c, id)
	if err != nil {
		h.abortTaskError(c, err, "failed to get task")
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req taskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newUnprocessableError("description is required"))
		return
	}

	task, err := h.tasks.UpdateTask(c, id, req.Description)
	if err != nil {
		h.abortTaskError(c, err, "failed to update task")
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, id)
	if err != nil {
		h.abortTaskError(c, err, "failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleListLabels(c *gin.Context) {
	labels, err := h.tasks.ListLabels(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list labels")
		abort(c, newInternalError("failed to list labels"))
		return
	}

	c.JSON(http.StatusOK, labels)
}

type summaryRequest struct {
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

func (h *handlerImpl) HandleSummarizeTasks(c *gin.Context) {
	var req summaryRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newUnprocessableError("start_date and end_date are required"))
		return
	}
	if !req.EndDate.After(req.StartDate) {
		abort(c, newUnprocessableError("end date must be after start date"))
		return
	}

	summary, err := h.tasks.SummarizeTasks(c, req.StartDate, req.EndDate)
	if err != nil {
		h.abortTaskError(c, err, "failed to summarize tasks")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// abortTaskError maps service errors to the API's status codes:
// 404 unknown id, 422 AI or validation failures, 500 otherwise.
func (h *handlerImpl) abortTaskError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError("Task not found"))
	case errors.Is(err, services.ErrAIProcessing):
		h.logger.Error().
			Err(err).
			Msg(message)
		abort(c, newUnprocessableError("AI processing failed"))
	case errors.Is(err, services.ErrEmptyDescription):
		abort(c, newUnprocessableError("description cannot be empty"))
	default:
		h.logger.Error().
			Err(err).
			Msg(message)
		abort(c, newInternalError(message))
	}
}

func taskIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abort(c, newBadRequestError("invalid task id"))
		return 0, false
	}
	return id, true
}

func parseUintQuery(c *gin.Context, name string, fallback uint32) (uint32, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(value), nil
}
