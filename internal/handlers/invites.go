package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/response"
)

// InviteHandler serves the invite lifecycle endpoints.
type InviteHandler struct {
	invites *services.InviteService
}

// NewInviteHandler constructs an InviteHandler.
func NewInviteHandler(invites *services.InviteService) *InviteHandler {
	return &InviteHandler{invites: invites}
}

// Create handles POST /workspaces/:workspaceID/invites.
func (h *InviteHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	invite, err := h.invites.Create(c.Request.Context(), c.Param("workspaceID"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"invite": invite,
		"link":   h.invites.InviteLink(invite.Token),
	})
}

// Active handles GET /workspaces/:workspaceID/invites/active.
func (h *InviteHandler) Active(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	invite, err := h.invites.ActiveForWorkspace(c.Request.Context(), c.Param("workspaceID"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"invite": invite,
		"link":   h.invites.InviteLink(invite.Token),
	})
}

// Preview handles GET /invites/:token. It shows the workspace an invite leads
// to without joining.
func (h *InviteHandler) Preview(c *gin.Context) {
	invite, err := h.invites.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, invite)
}

// Accept handles POST /invites/:token/accept.
func (h *InviteHandler) Accept(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.invites.Accept(c.Request.Context(), c.Param("token"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Deactivate handles DELETE /invites/:token.
func (h *InviteHandler) Deactivate(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.invites.Deactivate(c.Request.Context(), c.Param("token"), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deactivated": true})
}

type directAddRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// DirectAdd handles POST /workspaces/:workspaceID/members.
func (h *InviteHandler) DirectAdd(c *gin.Context) {
	actorID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	input, err := bindAndValidate[directAddRequest](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.invites.DirectAdd(c.Request.Context(), c.Param("workspaceID"), input.UserID, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}
