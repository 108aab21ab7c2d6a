package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vicdevmanx/gurutasks/internal/application"
	"github.com/vicdevmanx/gurutasks/internal/interface/middleware"
	"github.com/vicdevmanx/gurutasks/pkg/response"
	"github.com/vicdevmanx/gurutasks/pkg/validation"
)

// ProjectHandler serves project CRUD and member assignment.
type ProjectHandler struct {
	Svc    *application.ProjectService
	Logger *logrus.Logger
}

func NewProjectHandler(svc *application.ProjectService, logger *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{Svc: svc, Logger: logger}
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// parseMemberIDs accepts either a JSON array string ("[1,2]") or a
// comma-separated list ("1,2"), the two shapes multipart clients send.
func parseMemberIDs(raw string) ([]int64, error) {
	ids := []int64{}
	if err := json.Unmarshal([]byte(raw), &ids); err == nil {
		return ids, nil
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type createProjectRequest struct {
	Name          string  `form:"name" json:"name" binding:"required"`
	Description   string  `form:"description" json:"description"`
	Notifications *string `form:"notifications" json:"notifications"`
	MemberIDs     *string `form:"member_ids" json:"member_ids"`
}

// Create POST /api/projects (multipart with optional image)
func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Notifications != nil && *req.Notifications != "" {
		if !json.Valid([]byte(*req.Notifications)) {
			response.Error[any](c, http.StatusBadRequest, "'notifications' must be valid JSON", nil)
			return
		}
		in.Notifications = json.RawMessage(*req.Notifications)
	}
	if req.MemberIDs != nil && *req.MemberIDs != "" {
		ids, err := parseMemberIDs(*req.MemberIDs)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "'member_ids' must be a list of user ids", nil)
			return
		}
		in.MemberIDs = ids
	}

	img, file, err := formImage(c, "image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid image upload", nil)
		return
	}
	if file != nil {
		defer func() { _ = file.Close() }()
	}

	project, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), in, img)
	if err != nil {
		h.Logger.WithError(err).Error("create project failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to create project", nil)
		return
	}
	response.Success(c, http.StatusCreated, project, "project created successfully", nil)
}

// List GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list projects failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch projects", nil)
		return
	}
	response.Success(c, http.StatusOK, projects, "projects", nil)
}

// Get GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid project id", nil)
		return
	}
	project, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrProjectNotFound) {
			response.Error[any](c, http.StatusNotFound, "project not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get project failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch project", nil)
		return
	}
	response.Success(c, http.StatusOK, project, "project", nil)
}

type updateProjectRequest struct {
	Name          *string `form:"name" json:"name"`
	Description   *string `form:"description" json:"description"`
	Notifications *string `form:"notifications" json:"notifications"`
	StatusID      *int64  `form:"status_id" json:"status_id"`
	Priority      *string `form:"priority" json:"priority"`
	MemberIDs     *string `form:"member_ids" json:"member_ids"`
}

// Update PUT /api/projects/:id (multipart with optional image)
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid project id", nil)
		return
	}
	var req updateProjectRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StatusID:    req.StatusID,
		Priority:    req.Priority,
	}
	if req.Notifications != nil && *req.Notifications != "" {
		if !json.Valid([]byte(*req.Notifications)) {
			response.Error[any](c, http.StatusBadRequest, "'notifications' must be valid JSON", nil)
			return
		}
		in.Notifications = json.RawMessage(*req.Notifications)
	}
	if req.MemberIDs != nil {
		ids, err := parseMemberIDs(*req.MemberIDs)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "'member_ids' must be a list of user ids", nil)
			return
		}
		in.MemberIDs = ids
	}

	img, file, err := formImage(c, "image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid image upload", nil)
		return
	}
	if file != nil {
		defer func() { _ = file.Close() }()
	}

	project, err := h.Svc.Update(c.Request.Context(), id, in, img)
	if err != nil {
		if errors.Is(err, application.ErrProjectNotFound) {
			response.Error[any](c, http.StatusNotFound, "project not found", nil)
			return
		}
		h.Logger.WithError(err).Error("update project failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update project", nil)
		return
	}
	response.Success(c, http.StatusOK, project, "project updated successfully", nil)
}

// Delete DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid project id", nil)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, application.ErrProjectNotFound) {
			response.Error[any](c, http.StatusNotFound, "project not found", nil)
			return
		}
		h.Logger.WithError(err).Error("delete project failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to delete project", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "project deleted successfully", nil)
}

type assignMemberRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	RoleID *int64 `json:"role_id"`
}

// AssignMember PATCH /api/projects/:id/assign
func (h *ProjectHandler) AssignMember(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid project id", nil)
		return
	}
	var req assignMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.AssignMember(c.Request.Context(), id, req.UserID, req.RoleID); err != nil {
		h.Logger.WithError(err).Error("assign member failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to assign member", nil)
		return
	}
	project, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Success[any](c, http.StatusOK, nil, "member assigned successfully", nil)
		return
	}
	response.Success(c, http.StatusOK, project, "member assigned successfully", nil)
}
