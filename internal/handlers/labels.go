package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/response"
)

// LabelHandler serves workspace label pools and task label assignment.
type LabelHandler struct {
	labels *services.LabelService
}

// NewLabelHandler constructs a LabelHandler.
func NewLabelHandler(labels *services.LabelService) *LabelHandler {
	return &LabelHandler{labels: labels}
}

// Create handles POST /workspaces/:workspaceID/labels.
func (h *LabelHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	input, err := bindAndValidate[services.LabelCreateInput](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	label, err := h.labels.Create(c.Request.Context(), c.Param("workspaceID"), input, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, label)
}

// List handles GET /workspaces/:workspaceID/labels.
func (h *LabelHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	labels, err := h.labels.List(c.Request.Context(), c.Param("workspaceID"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, labels)
}

// Delete handles DELETE /labels/:labelID.
func (h *LabelHandler) Delete(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.labels.Delete(c.Request.Context(), c.Param("labelID"), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type setTaskLabelsRequest struct {
	LabelIDs []string `json:"label_ids"`
}

// SetTaskLabels handles PUT /tasks/:taskID/labels.
func (h *LabelHandler) SetTaskLabels(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	input, err := bindAndValidate[setTaskLabelsRequest](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	labels, err := h.labels.SetTaskLabels(c.Request.Context(), c.Param("taskID"), input.LabelIDs, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, labels)
}
