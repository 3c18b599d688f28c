package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/response"
)

// WorkspaceHandler serves workspace CRUD.
type WorkspaceHandler struct {
	workspaces *services.WorkspaceService
}

// NewWorkspaceHandler constructs a WorkspaceHandler.
func NewWorkspaceHandler(workspaces *services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

// Create handles POST /workspaces.
func (h *WorkspaceHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	input, err := bindAndValidate[services.WorkspaceCreateInput](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	workspace, err := h.workspaces.Create(c.Request.Context(), input, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, workspace)
}

// List handles GET /workspaces.
func (h *WorkspaceHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	workspaces, err := h.workspaces.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, workspaces)
}

// Get handles GET /workspaces/:workspaceID.
func (h *WorkspaceHandler) Get(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	workspace, err := h.workspaces.Get(c.Request.Context(), c.Param("workspaceID"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, workspace)
}

// Update handles PATCH /workspaces/:workspaceID.
func (h *WorkspaceHandler) Update(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	input, err := bindAndValidate[services.WorkspaceUpdateInput](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	workspace, err := h.workspaces.Update(c.Request.Context(), c.Param("workspaceID"), input, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, workspace)
}

// Delete handles DELETE /workspaces/:workspaceID.
func (h *WorkspaceHandler) Delete(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.workspaces.Delete(c.Request.Context(), c.Param("workspaceID"), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
