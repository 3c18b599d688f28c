package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/services"
	apperrors "github.com/taskhive/taskhive/pkg/errors"
	"github.com/taskhive/taskhive/pkg/response"
)

// MemberHandler serves workspace roster administration.
type MemberHandler struct {
	memberships *services.MembershipService
}

// NewMemberHandler constructs a MemberHandler.
func NewMemberHandler(memberships *services.MembershipService) *MemberHandler {
	return &MemberHandler{memberships: memberships}
}

// List handles GET /workspaces/:workspaceID/members.
func (h *MemberHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	members, err := h.memberships.ListMembers(c.Request.Context(), userID, c.Param("workspaceID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, members)
}

// memberUpdateRequest is a tagged union: exactly one of role, the override
// flags or project_ids must be present.
type memberUpdateRequest struct {
	Role              *string  `json:"role" validate:"omitempty,assignable_role"`
	CanCreateProjects *bool    `json:"can_create_projects"`
	CanInviteUsers    *bool    `json:"can_invite_users"`
	ProjectIDs        []string `json:"project_ids"`
}

// Update handles PATCH /workspaces/:workspaceID/members/:userID.
func (h *MemberHandler) Update(c *gin.Context) {
	actorID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	input, err := bindAndValidate[memberUpdateRequest](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	workspaceID := c.Param("workspaceID")
	targetID := c.Param("userID")

	switch {
	case input.Role != nil:
		role := models.ParseRole(*input.Role)
		membership, err := h.memberships.UpdateMemberRole(ctx, workspaceID, targetID, role, actorID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, membership)

	case input.CanCreateProjects != nil || input.CanInviteUsers != nil:
		membership, err := h.memberships.UpdateMemberFlags(ctx, workspaceID, targetID, services.MemberFlagsUpdate{
			CanCreateProjects: input.CanCreateProjects,
			CanInviteUsers:    input.CanInviteUsers,
		}, actorID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, membership)

	case input.ProjectIDs != nil:
		if err := h.memberships.ReplaceProjectAccesses(ctx, workspaceID, targetID, input.ProjectIDs, actorID); err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"updated": true})

	default:
		response.Error(c, apperrors.NewBadRequest("no member changes provided"))
	}
}

// Remove handles DELETE /workspaces/:workspaceID/members/:userID.
func (h *MemberHandler) Remove(c *gin.Context) {
	actorID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.memberships.RemoveMember(c.Request.Context(), c.Param("workspaceID"), c.Param("userID"), actorID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}
