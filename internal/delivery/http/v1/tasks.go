package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pkosenkov/taskboard/internal/models"
	"github.com/pkosenkov/taskboard/internal/services"
)

type taskResponse struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsComplete  bool      `json:"is_complete"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		IsComplete:  task.IsComplete,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

type taskListResponse struct {
	Tasks []taskResponse `json:"tasks"`
	Count int            `json:"count"`
}

// taskIDFromPath parses the :id segment. A non-numeric id cannot
// name an existing task, so it gets the same 404 as a missing one.
func (h *handlerImpl) taskIDFromPath(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.logger.Warn().
			Str("id", c.Param("id")).
			Msg("non-numeric task id in path")
		abort(c, newNotFoundError(msgTaskNotFound))
		return 0, false
	}
	return id, true
}

func (h *handlerImpl) abortTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError(msgTaskNotFound))
	case errors.Is(err, services.ErrTitleEmpty), errors.Is(err, services.ErrTitleTooLong):
		abort(c, newBadRequestError(err.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind create task request")
		abort(c, newBadRequestError(msgInvalidRequestBody))
		return
	}

	task, err := h.tasks.Create(c, owner, services.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to create task")
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.List(c, owner)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		h.abortTaskError(c, err)
		return
	}

	response := taskListResponse{
		Tasks: make([]taskResponse, len(tasks)),
		Count: len(tasks),
	}
	for i := range tasks {
		response.Tasks[i] = newTaskResponse(&tasks[i])
	}

	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}
	id, ok := h.taskIDFromPath(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(c, owner, id)
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

type updateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}
	id, ok := h.taskIDFromPath(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind update task request")
		abort(c, newBadRequestError(msgInvalidRequestBody))
		return
	}

	task, err := h.tasks.Update(c, owner, id, services.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}
	id, ok := h.taskIDFromPath(c)
	if !ok {
		return
	}

	deleted, err := h.tasks.Delete(c, owner, id)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to delete task")
		h.abortTaskError(c, err)
		return
	}
	if !deleted {
		abort(c, newNotFoundError(msgTaskNotFound))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleToggleComplete(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}
	id, ok := h.taskIDFromPath(c)
	if !ok {
		return
	}

	task, err := h.tasks.ToggleComplete(c, owner, id)
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}
