package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vicdevmanx/gurutasks/internal/application"
	"github.com/vicdevmanx/gurutasks/internal/interface/middleware"
	"github.com/vicdevmanx/gurutasks/pkg/response"
	"github.com/vicdevmanx/gurutasks/pkg/validation"
)

// UserHandler serves user listing, profile updates, suspension, and search.
type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// userIDParam parses the :id path segment, resolving the "me" alias to the
// authenticated user.
func userIDParam(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	if raw == "me" {
		return middleware.UserID(c), true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// List GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list users failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch users", nil)
		return
	}
	response.Success(c, http.StatusOK, users, "users", nil)
}

// Get GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	user, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get user failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch user", nil)
		return
	}
	response.Success(c, http.StatusOK, user, "user", nil)
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("user search failed")
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

type updateUserRequest struct {
	Name  *string `form:"name" json:"name"`
	Email *string `form:"email" json:"email" binding:"omitempty,email"`
	Role  *string `form:"role" json:"role"`
}

// Update PUT /api/users/:id (multipart with optional profile_pic)
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	var req updateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	img, file, err := formImage(c, "profile_pic")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid profile_pic upload", nil)
		return
	}
	if file != nil {
		defer func() { _ = file.Close() }()
	}

	user, err := h.Svc.Update(c.Request.Context(), id, application.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}, img)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, application.ErrEmailTaken):
			response.Error[any](c, http.StatusBadRequest, "email already in use", nil)
		default:
			h.Logger.WithError(err).Error("update user failed")
			response.Error[any](c, http.StatusInternalServerError, "update failed", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, user, "user updated successfully", nil)
}

type suspendRequest struct {
	Suspended *bool `json:"suspended" binding:"required"`
}

// Suspend PATCH /api/users/:id/suspend (admin)
func (h *UserHandler) Suspend(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	var req suspendRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Suspended == nil {
		response.Error[any](c, http.StatusBadRequest, "'suspended' must be true or false", nil)
		return
	}
	user, err := h.Svc.Suspend(c.Request.Context(), id, *req.Suspended)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("suspend user failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update suspension status", nil)
		return
	}
	action := "reinstated"
	if *req.Suspended {
		action = "suspended"
	}
	response.Success(c, http.StatusOK, user, "user "+action+" successfully", nil)
}

// Delete DELETE /api/users/:id (admin)
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("delete user failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to delete user", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "user deleted successfully", nil)
}
