package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/response"
)

// TaskHandler serves task and comment endpoints.
type TaskHandler struct {
	tasks *services.TaskService
}

// NewTaskHandler constructs a TaskHandler.
func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	input, err := bindAndValidate[services.TaskCreateInput](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), input, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, task)
}

// Get handles GET /tasks/:taskID.
func (h *TaskHandler) Get(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), c.Param("taskID"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, task)
}

// Update handles PATCH /tasks/:taskID.
func (h *TaskHandler) Update(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	input, err := bindAndValidate[services.TaskUpdateInput](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), c.Param("taskID"), input, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, task)
}

// Delete handles DELETE /tasks/:taskID.
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), c.Param("taskID"), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListComments handles GET /tasks/:taskID/comments.
func (h *TaskHandler) ListComments(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	comments, err := h.tasks.ListComments(c.Request.Context(), c.Param("taskID"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, comments)
}

// AddComment handles POST /tasks/:taskID/comments.
func (h *TaskHandler) AddComment(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	input, err := bindAndValidate[services.CommentCreateInput](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	comment, err := h.tasks.AddComment(c.Request.Context(), c.Param("taskID"), input, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, comment)
}
