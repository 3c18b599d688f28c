package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taskhive/taskhive/internal/models"
	apperrors "github.com/taskhive/taskhive/pkg/errors"
)

// WorkspaceCreateInput carries the fields accepted when creating a workspace.
type WorkspaceCreateInput struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// WorkspaceUpdateInput carries optional workspace field updates.
type WorkspaceUpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// WorkspaceService manages workspace lifecycle and the owner membership that
// every workspace starts with.
type WorkspaceService struct {
	db          *gorm.DB
	memberships *MembershipService
}

// NewWorkspaceService constructs a WorkspaceService.
func NewWorkspaceService(db *gorm.DB, memberships *MembershipService) (*WorkspaceService, error) {
	if db == nil {
		return nil, errors.New("workspace service: db is required")
	}
	if memberships == nil {
		return nil, errors.New("workspace service: membership service is required")
	}
	return &WorkspaceService{db: db, memberships: memberships}, nil
}

// Create persists a workspace and its creator's owner membership atomically.
func (s *WorkspaceService) Create(ctx context.Context, input WorkspaceCreateInput, creatorID string) (*models.Workspace, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("workspace name is required")
	}

	workspace := models.Workspace{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&workspace).Error; err != nil {
			return fmt.Errorf("workspace service: create workspace: %w", err)
		}

		membership := models.Membership{
			UserID:      creatorID,
			WorkspaceID: workspace.ID,
			Role:        models.RoleOwner,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return fmt.Errorf("workspace service: create owner membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &workspace, nil
}

// List returns the workspaces the user belongs to, ordered by join time.
func (s *WorkspaceService) List(ctx context.Context, userID string) ([]models.Workspace, error) {
	ctx = ensureContext(ctx)

	var workspaces []models.Workspace
	err := s.db.WithContext(ctx).
		Joins("JOIN memberships ON memberships.workspace_id = workspaces.id").
		Where("memberships.user_id = ?", userID).
		Order("memberships.created_at ASC").
		Find(&workspaces).Error
	if err != nil {
		return nil, fmt.Errorf("workspace service: list workspaces: %w", err)
	}
	return workspaces, nil
}

// Get loads one workspace the user is a member of.
func (s *WorkspaceService) Get(ctx context.Context, workspaceID, userID string) (*models.Workspace, error) {
	ctx = ensureContext(ctx)

	if _, err := s.memberships.ResolveMembership(ctx, userID, workspaceID); err != nil {
		return nil, err
	}

	var workspace models.Workspace
	err := s.db.WithContext(ctx).First(&workspace, "id = ?", workspaceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("workspace service: load workspace: %w", err)
	}
	return &workspace, nil
}

// Update changes workspace metadata. Owner only.
func (s *WorkspaceService) Update(ctx context.Context, workspaceID string, input WorkspaceUpdateInput, actorID string) (*models.Workspace, error) {
	ctx = ensureContext(ctx)

	workspace, err := s.requireOwner(ctx, workspaceID, actorID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewBadRequest("workspace name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if len(updates) == 0 {
		return workspace, nil
	}

	if err := s.db.WithContext(ctx).Model(workspace).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("workspace service: update workspace: %w", err)
	}

	if name, ok := updates["name"].(string); ok {
		workspace.Name = name
	}
	if description, ok := updates["description"].(string); ok {
		workspace.Description = description
	}
	return workspace, nil
}

// Delete removes a workspace and, via cascades, everything inside it. Owner only.
func (s *WorkspaceService) Delete(ctx context.Context, workspaceID, actorID string) error {
	ctx = ensureContext(ctx)

	workspace, err := s.requireOwner(ctx, workspaceID, actorID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Select(clause.Associations).Delete(workspace).Error; err != nil {
		return fmt.Errorf("workspace service: delete workspace: %w", err)
	}
	return nil
}

func (s *WorkspaceService) requireOwner(ctx context.Context, workspaceID, actorID string) (*models.Workspace, error) {
	membership, err := s.memberships.ResolveMembership(ctx, actorID, workspaceID)
	if err != nil {
		return nil, err
	}
	if membership.Role != models.RoleOwner {
		return nil, apperrors.ErrForbidden
	}

	var workspace models.Workspace
	err = s.db.WithContext(ctx).First(&workspace, "id = ?", membership.WorkspaceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("workspace service: load workspace: %w", err)
	}
	return &workspace, nil
}
