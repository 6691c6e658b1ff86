package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/avoran/taskmate/internal/models"
)

const emptyRangeSummary = "No tasks found in the specified date range."

type taskServiceImpl struct {
	logger     zerolog.Logger
	pgPool     *pgxpool.Pool
	extractor  Extractor
	summarizer Summarizer
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	extractor Extractor,
	summarizer Summarizer,
) TaskService {
	return &taskServiceImpl{
		logger:     logger,
		pgPool:     pgPool,
		extractor:  extractor,
		summarizer: summarizer,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, description string) (*models.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	extraction, err := s.extractor.Extract(ctx, description)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to extract task metadata")
		return nil, ErrAIProcessing
	}

	now := time.Now()
	task := &models.Task{
		Description: description,
		Title:       extraction.Title,
		Label:       extraction.Label,
		DueDate:     extraction.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	const insertTaskQuery = `
INSERT INTO tasks (description,
                   title,
                   label,
                   due_date,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`
	err = s.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		task.Description,
		task.Title,
		task.Label,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("label", task.Label).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	const selectTaskQuery = `
SELECT id,
       description,
       title,
       label,
       due_date,
       created_at,
       updated_at
FROM tasks
WHERE id = $1
`
	task := &models.Task{}
	err := s.pgPool.QueryRow(ctx, selectTaskQuery, id).Scan(
		&task.ID,
		&task.Description,
		&task.Title,
		&task.Label,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Int64("task_id", id).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to select task")
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, params ListTasksParams) (*models.TaskList, error) {
	if params.Limit == 0 {
		params.Limit = 50
	}

	label := params.Label
	if label == "all" {
		label = ""
	}

	const countTasksQuery = `
SELECT count(*)
FROM tasks
WHERE $1 = '' OR label = $1
`
	var total int
	err := s.pgPool.QueryRow(ctx, countTasksQuery, label).Scan(&total)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count tasks")
		return nil, err
	}

	const selectTasksQuery = `
SELECT id,
       description,
       title,
       label,
       due_date,
       created_at,
       updated_at
FROM tasks
WHERE $1 = '' OR label = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`
	rows, err := s.pgPool.Query(
		ctx,
		selectTasksQuery,
		label,
		params.Limit,
		params.Skip,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0, params.Limit)
	for rows.Next() {
		var task models.Task
		err = rows.Scan(
			&task.ID,
			&task.Description,
			&task.Title,
			&task.Label,
			&task.DueDate,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Int("total", total).
		Str("label", label).
		Msg("selected tasks")
	return &models.TaskList{
		Tasks: tasks,
		Total: total,
		Skip:  int(params.Skip),
		Limit: int(params.Limit),
	}, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, id int64, description string) (*models.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	// An unchanged description needs no AI reprocessing.
	if task.Description == description {
		return task, nil
	}

	extraction, err := s.extractor.Extract(ctx, description)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to re-extract task metadata")
		return nil, ErrAIProcessing
	}

	task.Description = description
	task.Title = extraction.Title
	task.Label = extraction.Label
	task.DueDate = extraction.DueDate
	task.UpdatedAt = time.Now()

	const updateTaskQuery = `
UPDATE tasks
SET description = $1,
    title = $2,
    label = $3,
    due_date = $4,
    updated_at = $5
WHERE id = $6
`
	_, err = s.pgPool.Exec(
		ctx,
		updateTaskQuery,
		task.Description,
		task.Title,
		task.Label,
		task.DueDate,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("label", task.Label).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := s.pgPool.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Int64("task_id", id).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Int64("task_id", id).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) ListLabels(ctx context.Context) ([]string, error) {
	const selectLabelsQuery = `
SELECT DISTINCT label
FROM tasks
WHERE label <> ''
ORDER BY label
`
	rows, err := s.pgPool.Query(ctx, selectLabelsQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select labels")
		return nil, err
	}
	defer rows.Close()

	labels := make([]string, 0)
	for rows.Next() {
		var label string
		if err = rows.Scan(&label); err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan label")
			return nil, err
		}
		labels = append(labels, label)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return labels, nil
}

func (s *taskServiceImpl) SummarizeTasks(ctx context.Context, start, end time.Time) (*models.Summary, error) {
	const selectRangeQuery = `
SELECT id,
       description,
       title,
       label,
       due_date,
       created_at,
       updated_at
FROM tasks
WHERE created_at >= $1
  AND created_at <= $2
ORDER BY created_at DESC
`
	rows, err := s.pgPool.Query(ctx, selectRangeQuery, start, end)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks for summary")
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		err = rows.Scan(
			&task.ID,
			&task.Description,
			&task.Title,
			&task.Label,
			&task.DueDate,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	if len(tasks) == 0 {
		return &models.Summary{
			Summary:   emptyRangeSummary,
			StartDate: start,
			EndDate:   end,
			TaskCount: 0,
		}, nil
	}

	text, err := s.summarizer.Summarize(ctx, tasks, start, end)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("task_count", len(tasks)).
			Msg("failed to generate summary")
		return nil, ErrAIProcessing
	}

	s.logger.Info().
		Int("task_count", len(tasks)).
		Msg("generated task summary")
	return &models.Summary{
		Summary:   text,
		StartDate: start,
		EndDate:   end,
		TaskCount: len(tasks),
	}, nil
}
