package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/response"
)

// ProjectHandler serves project CRUD and the accessible-projects listing.
type ProjectHandler struct {
	projects *services.ProjectService
}

// NewProjectHandler constructs a ProjectHandler.
func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// Create handles POST /projects.
func (h *ProjectHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	input, err := bindAndValidate[services.ProjectCreateInput](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	project, err := h.projects.Create(c.Request.Context(), input, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, project)
}

// List handles GET /workspaces/:workspaceID/projects.
func (h *ProjectHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	projects, err := h.projects.List(c.Request.Context(), c.Param("workspaceID"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, projects)
}

// Get handles GET /projects/:projectID.
func (h *ProjectHandler) Get(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	project, err := h.projects.Get(c.Request.Context(), c.Param("projectID"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, project)
}

// Update handles PATCH /projects/:projectID.
func (h *ProjectHandler) Update(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	input, err := bindAndValidate[services.ProjectUpdateInput](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	project, err := h.projects.Update(c.Request.Context(), c.Param("projectID"), input, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, project)
}

// Delete handles DELETE /projects/:projectID.
func (h *ProjectHandler) Delete(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.projects.Delete(c.Request.Context(), c.Param("projectID"), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
