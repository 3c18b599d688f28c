package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/models"
	apperrors "github.com/taskhive/taskhive/pkg/errors"
)

var (
	// ErrWorkspaceAccessDenied indicates the user holds no membership in the target workspace.
	ErrWorkspaceAccessDenied = apperrors.New("WORKSPACE_ACCESS_DENIED", "Workspace is not accessible", http.StatusForbidden)
	// ErrMemberNotFound indicates the target user is not a member of the workspace.
	ErrMemberNotFound = apperrors.New("MEMBER_NOT_FOUND", "User is not a member of this workspace", http.StatusNotFound)
	// ErrOwnerImmutable rejects role changes or removal aimed at the workspace owner.
	ErrOwnerImmutable = apperrors.New("OWNER_IMMUTABLE", "The workspace owner cannot be modified or removed", http.StatusConflict)
	// ErrSelfRemoval rejects a member removing their own membership.
	ErrSelfRemoval = apperrors.New("SELF_REMOVAL", "You cannot remove yourself from a workspace", http.StatusConflict)
)

// MembershipService is the authoritative source of workspace standing: role
// lookups, manager checks and member administration.
type MembershipService struct {
	db *gorm.DB
}

// NewMembershipService constructs a MembershipService.
func NewMembershipService(db *gorm.DB) (*MembershipService, error) {
	if db == nil {
		return nil, errors.New("membership service: db is required")
	}
	return &MembershipService{db: db}, nil
}

// GetMembership returns the membership for the exact (user, workspace) pair,
// or nil when none exists.
func (s *MembershipService) GetMembership(ctx context.Context, userID, workspaceID string) (*models.Membership, error) {
	ctx = ensureContext(ctx)

	var membership models.Membership
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND workspace_id = ?", userID, workspaceID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("membership service: load membership: %w", err)
	}
	return &membership, nil
}

// ResolveMembership loads the user's membership in the given workspace. When
// workspaceID is empty the earliest-created membership wins, which keeps the
// single-workspace case unambiguous. Fails with ErrWorkspaceAccessDenied when
// the user has no matching membership at all.
func (s *MembershipService) ResolveMembership(ctx context.Context, userID, workspaceID string) (*models.Membership, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if workspaceID != "" {
		query = query.Where("workspace_id = ?", workspaceID)
	}

	var membership models.Membership
	err := query.Order("created_at ASC, id ASC").First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWorkspaceAccessDenied
	}
	if err != nil {
		return nil, fmt.Errorf("membership service: resolve membership: %w", err)
	}
	return &membership, nil
}

// CanManageMembers reports whether the membership grants member-management
// rights: a manager role, the invite override flag, or the bootstrap case of a
// workspace whose only member is the caller.
func (s *MembershipService) CanManageMembers(ctx context.Context, membership *models.Membership) (bool, error) {
	if membership == nil {
		return false, nil
	}
	if membership.Role.IsManager() || membership.CanInviteUsers {
		return true, nil
	}

	ctx = ensureContext(ctx)
	var members int64
	err := s.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("workspace_id = ?", membership.WorkspaceID).
		Count(&members).Error
	if err != nil {
		return false, fmt.Errorf("membership service: count members: %w", err)
	}
	return members <= 1, nil
}

// ListMembers returns the workspace roster ordered by join time. The actor
// must be a member of the workspace.
func (s *MembershipService) ListMembers(ctx context.Context, actorID, workspaceID string) ([]models.Membership, error) {
	ctx = ensureContext(ctx)

	membership, err := s.ResolveMembership(ctx, actorID, workspaceID)
	if err != nil {
		return nil, err
	}

	var members []models.Membership
	err = s.db.WithContext(ctx).
		Preload("User").
		Where("workspace_id = ?", membership.WorkspaceID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("membership service: list members: %w", err)
	}
	return members, nil
}

// UpdateMemberRole changes a member's role. Owner rows are immutable and the
// replacement role must come from the assignable set.
func (s *MembershipService) UpdateMemberRole(ctx context.Context, workspaceID, targetUserID string, newRole models.Role, actorID string) (*models.Membership, error) {
	ctx = ensureContext(ctx)

	if newRole == models.RoleOwner {
		// Each workspace has exactly one owner; promotion is not a role update.
		return nil, ErrOwnerImmutable
	}
	if !newRole.IsAssignable() {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("role %q cannot be assigned", newRole))
	}

	actor, err := s.ResolveMembership(ctx, actorID, workspaceID)
	if err != nil {
		return nil, err
	}

	target, err := s.GetMembership(ctx, targetUserID, actor.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrMemberNotFound
	}
	if target.Role == models.RoleOwner {
		return nil, ErrOwnerImmutable
	}

	if ok, err := s.CanManageMembers(ctx, actor); err != nil {
		return nil, err
	} else if !ok {
		return nil, apperrors.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Model(target).Update("role", newRole).Error; err != nil {
		return nil, fmt.Errorf("membership service: update role: %w", err)
	}

	target.Role = newRole
	return target, nil
}

// MemberFlagsUpdate carries optional override-flag changes.
type MemberFlagsUpdate struct {
	CanCreateProjects *bool
	CanInviteUsers    *bool
}

// UpdateMemberFlags adjusts a member's override flags.
func (s *MembershipService) UpdateMemberFlags(ctx context.Context, workspaceID, targetUserID string, input MemberFlagsUpdate, actorID string) (*models.Membership, error) {
	ctx = ensureContext(ctx)

	actor, err := s.ResolveMembership(ctx, actorID, workspaceID)
	if err != nil {
		return nil, err
	}

	target, err := s.GetMembership(ctx, targetUserID, actor.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrMemberNotFound
	}
	if target.Role == models.RoleOwner {
		return nil, ErrOwnerImmutable
	}

	if ok, err := s.CanManageMembers(ctx, actor); err != nil {
		return nil, err
	} else if !ok {
		return nil, apperrors.ErrForbidden
	}

	updates := map[string]any{}
	if input.CanCreateProjects != nil {
		updates["can_create_projects"] = *input.CanCreateProjects
	}
	if input.CanInviteUsers != nil {
		updates["can_invite_users"] = *input.CanInviteUsers
	}
	if len(updates) == 0 {
		return target, nil
	}

	if err := s.db.WithContext(ctx).Model(target).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("membership service: update flags: %w", err)
	}

	if input.CanCreateProjects != nil {
		target.CanCreateProjects = *input.CanCreateProjects
	}
	if input.CanInviteUsers != nil {
		target.CanInviteUsers = *input.CanInviteUsers
	}
	return target, nil
}

// RemoveMember deletes a membership. Owners are never removable and members
// cannot remove themselves through this operation.
func (s *MembershipService) RemoveMember(ctx context.Context, workspaceID, targetUserID, actorID string) error {
	ctx = ensureContext(ctx)

	actor, err := s.ResolveMembership(ctx, actorID, workspaceID)
	if err != nil {
		return err
	}

	if actor.UserID == targetUserID {
		return ErrSelfRemoval
	}

	target, err := s.GetMembership(ctx, targetUserID, actor.WorkspaceID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrMemberNotFound
	}
	if target.Role == models.RoleOwner {
		return ErrOwnerImmutable
	}

	if ok, err := s.CanManageMembers(ctx, actor); err != nil {
		return err
	} else if !ok {
		return apperrors.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Delete(target).Error; err != nil {
		return fmt.Errorf("membership service: remove member: %w", err)
	}
	return nil
}

// ReplaceProjectAccesses replaces the set of projects visible to a non-owner
// member within one workspace. Missing grants are created with view access,
// grants outside the new set are deleted, grants already present keep their
// edit flag.
func (s *MembershipService) ReplaceProjectAccesses(ctx context.Context, workspaceID, targetUserID string, projectIDs []string, actorID string) error {
	ctx = ensureContext(ctx)

	actor, err := s.ResolveMembership(ctx, actorID, workspaceID)
	if err != nil {
		return err
	}

	target, err := s.GetMembership(ctx, targetUserID, actor.WorkspaceID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrMemberNotFound
	}
	if target.Role == models.RoleOwner {
		// Owners bypass the overlay; a grant set for them is meaningless.
		return ErrOwnerImmutable
	}

	if ok, err := s.CanManageMembers(ctx, actor); err != nil {
		return err
	} else if !ok {
		return apperrors.ErrForbidden
	}

	requested := normaliseIDs(projectIDs)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var workspaceProjects []string
		if err := tx.Model(&models.Project{}).
			Where("workspace_id = ?", actor.WorkspaceID).
			Pluck("id", &workspaceProjects).Error; err != nil {
			return fmt.Errorf("membership service: load workspace projects: %w", err)
		}

		inWorkspace := make(map[string]struct{}, len(workspaceProjects))
		for _, id := range workspaceProjects {
			inWorkspace[id] = struct{}{}
		}

		wanted := make(map[string]struct{}, len(requested))
		for _, id := range requested {
			if _, ok := inWorkspace[id]; !ok {
				return apperrors.NewBadRequest("project does not belong to this workspace")
			}
			wanted[id] = struct{}{}
		}

		var existing []models.ProjectAccess
		if err := tx.Where("user_id = ? AND project_id IN ?", targetUserID, workspaceProjects).
			Find(&existing).Error; err != nil {
			return fmt.Errorf("membership service: load accesses: %w", err)
		}

		held := make(map[string]struct{}, len(existing))
		for _, access := range existing {
			held[access.ProjectID] = struct{}{}
			if _, keep := wanted[access.ProjectID]; !keep {
				if err := tx.Delete(&models.ProjectAccess{}, "id = ?", access.ID).Error; err != nil {
					return fmt.Errorf("membership service: revoke access: %w", err)
				}
			}
		}

		for id := range wanted {
			if _, ok := held[id]; ok {
				continue
			}
			grant := models.ProjectAccess{
				UserID:    targetUserID,
				ProjectID: id,
				CanView:   true,
			}
			if err := tx.Create(&grant).Error; err != nil {
				return fmt.Errorf("membership service: grant access: %w", err)
			}
		}

		return nil
	})
}

// AccessibleProjects lists the projects the user may view in a workspace: all
// of them for the owner, overlay-granted ones for everyone else.
func (s *MembershipService) AccessibleProjects(ctx context.Context, userID, workspaceID string) ([]models.Project, error) {
	ctx = ensureContext(ctx)

	membership, err := s.ResolveMembership(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("projects.workspace_id = ?", membership.WorkspaceID).
		Order("projects.created_at ASC")

	if membership.Role != models.RoleOwner {
		query = query.
			Joins("JOIN project_accesses ON project_accesses.project_id = projects.id").
			Where("project_accesses.user_id = ? AND project_accesses.can_view = ?", userID, true)
	}

	var projects []models.Project
	if err := query.Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("membership service: list accessible projects: %w", err)
	}
	return projects, nil
}
