package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/pkg/metrics"
)

// PermissionService combines membership, the project-access overlay and the
// resource hierarchy into per-action boolean decisions.
//
// Every check fails closed: missing workspaces, projects or memberships yield
// false, never an error. Role capability is action-specific: the allow-lists
// below are unions, not a hierarchy. A participant without a
// view grant sees nothing; a commenter can comment but never edit.
type PermissionService struct {
	db          *gorm.DB
	hierarchy   *HierarchyService
	memberships *MembershipService
}

// NewPermissionService constructs a PermissionService.
func NewPermissionService(db *gorm.DB, hierarchy *HierarchyService, memberships *MembershipService) (*PermissionService, error) {
	if db == nil {
		return nil, errors.New("permission service: db is required")
	}
	if hierarchy == nil {
		return nil, errors.New("permission service: hierarchy service is required")
	}
	if memberships == nil {
		return nil, errors.New("permission service: membership service is required")
	}
	return &PermissionService{db: db, hierarchy: hierarchy, memberships: memberships}, nil
}

// CanViewProject allows the workspace owner unconditionally; everyone else
// needs a can_view grant in the overlay.
func (s *PermissionService) CanViewProject(ctx context.Context, userID, projectID string) (bool, error) {
	allowed, err := s.canViewProject(ensureContext(ctx), userID, projectID)
	recordPermissionCheck("project.view", allowed, err)
	return allowed, err
}

func (s *PermissionService) canViewProject(ctx context.Context, userID, projectID string) (bool, error) {
	role, ok, err := s.workspaceRole(ctx, userID, projectID)
	if err != nil || !ok {
		return false, err
	}
	if role == models.RoleOwner {
		return true, nil
	}

	var grants int64
	err = s.db.WithContext(ctx).
		Model(&models.ProjectAccess{}).
		Where("user_id = ? AND project_id = ? AND can_view = ?", userID, projectID, true).
		Count(&grants).Error
	if err != nil {
		return false, fmt.Errorf("permission service: load project access: %w", err)
	}
	return grants > 0, nil
}

// CanEditProject is owner-only; no overlay flag widens it.
func (s *PermissionService) CanEditProject(ctx context.Context, userID, projectID string) (bool, error) {
	ctx = ensureContext(ctx)
	role, ok, err := s.workspaceRole(ctx, userID, projectID)
	allowed := err == nil && ok && role == models.RoleOwner
	recordPermissionCheck("project.edit", allowed, err)
	return allowed, err
}

// CanCreateTask requires view access to the column's project plus a
// participant or owner role.
func (s *PermissionService) CanCreateTask(ctx context.Context, userID, columnID string) (bool, error) {
	allowed, err := s.taskAction(ensureContext(ctx), userID, KindColumn, columnID, taskEditorRoles)
	recordPermissionCheck("task.create", allowed, err)
	return allowed, err
}

// CanEditTask requires view access to the task's project plus a participant
// or owner role.
func (s *PermissionService) CanEditTask(ctx context.Context, userID, taskID string) (bool, error) {
	allowed, err := s.taskAction(ensureContext(ctx), userID, KindTask, taskID, taskEditorRoles)
	recordPermissionCheck("task.edit", allowed, err)
	return allowed, err
}

// CanDeleteTask mirrors CanEditTask.
func (s *PermissionService) CanDeleteTask(ctx context.Context, userID, taskID string) (bool, error) {
	allowed, err := s.taskAction(ensureContext(ctx), userID, KindTask, taskID, taskEditorRoles)
	recordPermissionCheck("task.delete", allowed, err)
	return allowed, err
}

// CanCommentTask requires view access plus any of commenter, participant or
// owner. The list enumerates all three on purpose; comment rights are not
// inherited from edit rights.
func (s *PermissionService) CanCommentTask(ctx context.Context, userID, taskID string) (bool, error) {
	allowed, err := s.taskAction(ensureContext(ctx), userID, KindTask, taskID, commenterRoles)
	recordPermissionCheck("task.comment", allowed, err)
	return allowed, err
}

// CanCreateBoard requires both view and edit on the project, which currently
// means the workspace owner.
func (s *PermissionService) CanCreateBoard(ctx context.Context, userID, projectID string) (bool, error) {
	ctx = ensureContext(ctx)

	view, err := s.canViewProject(ctx, userID, projectID)
	if err != nil || !view {
		recordPermissionCheck("board.create", false, err)
		return false, err
	}

	edit, err := s.CanEditProject(ctx, userID, projectID)
	recordPermissionCheck("board.create", edit, err)
	return edit, err
}

// CanManageMembers resolves the user's membership and applies the manager rule.
func (s *PermissionService) CanManageMembers(ctx context.Context, userID, workspaceID string) (bool, error) {
	ctx = ensureContext(ctx)

	membership, err := s.memberships.GetMembership(ctx, userID, workspaceID)
	if err != nil {
		recordPermissionCheck("members.manage", false, err)
		return false, err
	}

	allowed, err := s.memberships.CanManageMembers(ctx, membership)
	recordPermissionCheck("members.manage", allowed, err)
	return allowed, err
}

var (
	taskEditorRoles = []models.Role{models.RoleParticipant, models.RoleOwner}
	commenterRoles  = []models.Role{models.RoleCommenter, models.RoleParticipant, models.RoleOwner}
)

// taskAction resolves the resource to its project, checks view access and
// finally matches the workspace role against the action's allow-list.
func (s *PermissionService) taskAction(ctx context.Context, userID string, kind ResourceKind, resourceID string, allowed []models.Role) (bool, error) {
	ref, err := s.hierarchy.ResolveProject(ctx, kind, resourceID)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return false, nil
		}
		return false, err
	}

	view, err := s.canViewProject(ctx, userID, ref.ProjectID)
	if err != nil || !view {
		return false, err
	}

	membership, err := s.memberships.GetMembership(ctx, userID, ref.WorkspaceID)
	if err != nil {
		return false, err
	}
	if membership == nil {
		return false, nil
	}

	for _, role := range allowed {
		if membership.Role == role {
			return true, nil
		}
	}
	return false, nil
}

// workspaceRole loads the user's role in the project's workspace. The second
// return reports whether both project and membership exist.
func (s *PermissionService) workspaceRole(ctx context.Context, userID, projectID string) (models.Role, bool, error) {
	ref, err := s.hierarchy.ResolveProject(ctx, KindProject, projectID)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	membership, err := s.memberships.GetMembership(ctx, userID, ref.WorkspaceID)
	if err != nil {
		return "", false, err
	}
	if membership == nil {
		return "", false, nil
	}
	return membership.Role, true, nil
}

func recordPermissionCheck(action string, allowed bool, err error) {
	result := "deny"
	if allowed && err == nil {
		result = "allow"
	}
	metrics.PermissionChecks.WithLabelValues(action, result).Inc()
}
