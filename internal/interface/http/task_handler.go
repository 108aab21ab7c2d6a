package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vicdevmanx/gurutasks/internal/application"
	"github.com/vicdevmanx/gurutasks/internal/domain/repository"
	"github.com/vicdevmanx/gurutasks/pkg/response"
	"github.com/vicdevmanx/gurutasks/pkg/validation"
)

// TaskHandler serves task CRUD and the status shortcut.
type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type createTaskRequest struct {
	ProjectID   int64      `json:"project_id" binding:"required"`
	Name        string     `json:"name" binding:"required"`
	Status      string     `json:"status" binding:"required"`
	Description *string    `json:"description"`
	AssigneeID  *int64     `json:"assignee_id"`
	Tags        []string   `json:"tags"`
	DueDate     *time.Time `json:"due_date"`
}

// Create POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	task, err := h.Svc.Create(c.Request.Context(), application.CreateTaskInput{
		ProjectID:   req.ProjectID,
		Name:        req.Name,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Status:      req.Status,
		Tags:        req.Tags,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.Logger.WithError(err).Error("create task failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to create task", nil)
		return
	}
	response.Success(c, http.StatusCreated, task, "task created successfully", nil)
}

// List GET /api/tasks?project_id=
func (h *TaskHandler) List(c *gin.Context) {
	var projectID *int64
	if raw := c.Query("project_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid project_id", nil)
			return
		}
		projectID = &id
	}
	tasks, err := h.Svc.List(c.Request.Context(), projectID)
	if err != nil {
		h.Logger.WithError(err).Error("list tasks failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch tasks", nil)
		return
	}
	response.Success(c, http.StatusOK, tasks, "tasks", nil)
}

type updateTaskRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	StatusID    *int64     `json:"status_id"`
	Tags        []string   `json:"tags"`
	AssigneeID  *int64     `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
}

// Update PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid task id", nil)
		return
	}
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	task, err := h.Svc.Update(c.Request.Context(), id, repository.TaskUpdate{
		Name:        req.Name,
		Description: req.Description,
		StatusID:    req.StatusID,
		Tags:        req.Tags,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
	})
	if err != nil {
		if errors.Is(err, application.ErrTaskNotFound) {
			response.Error[any](c, http.StatusNotFound, "task not found", nil)
			return
		}
		h.Logger.WithError(err).Error("update task failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update task", nil)
		return
	}
	response.Success(c, http.StatusOK, task, "task updated successfully", nil)
}

type updateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus PATCH /api/tasks/:id
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid task id", nil)
		return
	}
	var req updateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "'status' is required", nil)
		return
	}
	if err := h.Svc.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		if errors.Is(err, application.ErrTaskNotFound) {
			response.Error[any](c, http.StatusNotFound, "task not found", nil)
			return
		}
		h.Logger.WithError(err).Error("update task status failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update task status", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "task status updated successfully", nil)
}

// Delete DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid task id", nil)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, application.ErrTaskNotFound) {
			response.Error[any](c, http.StatusNotFound, "task not found", nil)
			return
		}
		h.Logger.WithError(err).Error("delete task failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to delete task", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "task deleted successfully", nil)
}
