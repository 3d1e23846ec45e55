package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/pkosenkov/taskboard/internal/models"
)

const maxTitleLen = 255

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleEmpty
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", ErrTitleTooLong
	}
	return title, nil
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const selectTaskByOwnerQuery = `
SELECT id,
       user_id,
       title,
       description,
       is_complete,
       created_at,
       updated_at
FROM tasks
WHERE id = $1 AND
      user_id = $2
`

// fetchTask is the single owner+id lookup behind every id-scoped
// operation. A task under a different owner and a missing task both
// come back as ErrTaskNotFound; nothing downstream can tell them
// apart.
func (s *taskServiceImpl) fetchTask(ctx context.Context, q rowQuerier, owner string, id int64, forUpdate bool) (*models.Task, error) {
	query := selectTaskByOwnerQuery
	if forUpdate {
		query += "FOR UPDATE\n"
	}

	var task models.Task
	err := q.QueryRow(
		ctx,
		query,
		id,
		owner,
	).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.IsComplete,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
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
	return &task, nil
}

func (s *taskServiceImpl) Create(ctx context.Context, owner string, params CreateTaskParams) (*models.Task, error) {
	title, err := validateTitle(params.Title)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task := models.Task{
		UserID:    owner,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if params.Description != nil {
		task.Description = *params.Description
	}

	const insertTaskQuery = `
INSERT INTO tasks (user_id,
                   title,
                   description,
                   is_complete,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`
	err = s.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		task.UserID,
		task.Title,
		task.Description,
		task.IsComplete,
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
		Str("user_id", task.UserID).
		Msg("created task")
	return &task, nil
}

func (s *taskServiceImpl) List(ctx context.Context, owner string) ([]models.Task, error) {
	const selectTasksByOwnerQuery = `
SELECT id,
       title,
       description,
       is_complete,
       created_at,
       updated_at
FROM tasks
WHERE user_id = $1
ORDER BY id
`
	rows, err := s.pgPool.Query(
		ctx,
		selectTasksByOwnerQuery,
		owner,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		task := models.Task{UserID: owner}
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.IsComplete,
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
		Str("user_id", owner).
		Int("count", len(tasks)).
		Msg("selected tasks")
	return tasks, nil
}

func (s *taskServiceImpl) Get(ctx context.Context, owner string, id int64) (*models.Task, error) {
	return s.fetchTask(ctx, s.pgPool, owner, id, false)
}

func (s *taskServiceImpl) Update(ctx context.Context, owner string, id int64, params UpdateTaskParams) (*models.Task, error) {
	var title string
	if params.Title != nil {
		validated, err := validateTitle(*params.Title)
		if err != nil {
			return nil, err
		}
		title = validated
	}

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	task, err := s.fetchTask(ctx, tx, owner, id, true)
	if err != nil {
		return nil, err
	}

	if params.Title == nil && params.Description == nil {
		return task, nil
	}

	if params.Title != nil {
		task.Title = title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	task.UpdatedAt = time.Now()

	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    updated_at = $3
WHERE id = $4 AND
      user_id = $5
`
	_, err = tx.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) Delete(ctx context.Context, owner string, id int64) (bool, error) {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	task, err := s.fetchTask(ctx, tx, owner, id, true)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return false, nil
		}
		return false, err
	}

	const deleteTaskQuery = `
DELETE FROM tasks
       WHERE id = $1 AND
             user_id = $2
`
	_, err = tx.Exec(
		ctx,
		deleteTaskQuery,
		task.ID,
		task.UserID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to delete task")
		return false, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return false, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Msg("deleted task")
	return true, nil
}

func (s *taskServiceImpl) ToggleComplete(ctx context.Context, owner string, id int64) (*models.Task, error) {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	task, err := s.fetchTask(ctx, tx, owner, id, true)
	if err != nil {
		return nil, err
	}

	task.IsComplete = !task.IsComplete
	task.UpdatedAt = time.Now()

	const updateTaskCompleteQuery = `
UPDATE tasks
SET is_complete = $1,
    updated_at = $2
WHERE id = $3 AND
      user_id = $4
`
	_, err = tx.Exec(
		ctx,
		updateTaskCompleteQuery,
		task.IsComplete,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task completion")
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Bool("is_complete", task.IsComplete).
		Msg("toggled task completion")
	return task, nil
}
