package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/models"
	apperrors "github.com/taskhive/taskhive/pkg/errors"
)

// ProjectCreateInput carries project creation fields.
type ProjectCreateInput struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	WorkspaceID string `json:"workspace_id" validate:"required,uuid"`
}

// ProjectUpdateInput carries optional project updates.
type ProjectUpdateInput struct {
	Title *string `json:"title" validate:"omitempty,min=1,max=200"`
}

// ProjectService handles project CRUD behind the permission evaluator.
type ProjectService struct {
	db          *gorm.DB
	memberships *MembershipService
	permissions *PermissionService
}

// NewProjectService constructs a ProjectService.
func NewProjectService(db *gorm.DB, memberships *MembershipService, permissions *PermissionService) (*ProjectService, error) {
	if db == nil {
		return nil, errors.New("project service: db is required")
	}
	if memberships == nil {
		return nil, errors.New("project service: membership service is required")
	}
	if permissions == nil {
		return nil, errors.New("project service: permission service is required")
	}
	return &ProjectService{db: db, memberships: memberships, permissions: permissions}, nil
}

// Create adds a project to a workspace. Owners always may; other members need
// the can_create_projects override.
func (s *ProjectService) Create(ctx context.Context, input ProjectCreateInput, creatorID string) (*models.Project, error) {
	ctx = ensureContext(ctx)

	membership, err := s.memberships.ResolveMembership(ctx, creatorID, input.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if membership.Role != models.RoleOwner && !membership.CanCreateProjects {
		return nil, apperrors.ErrForbidden
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewBadRequest("project title is required")
	}

	project := models.Project{
		Title:       title,
		WorkspaceID: membership.WorkspaceID,
	}
	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, fmt.Errorf("project service: create project: %w", err)
	}
	return &project, nil
}

// Get loads a project the user may view, with its boards and columns.
func (s *ProjectService) Get(ctx context.Context, projectID, userID string) (*models.Project, error) {
	ctx = ensureContext(ctx)

	ok, err := s.permissions.CanViewProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrResourceNotFound
	}

	var project models.Project
	err = s.db.WithContext(ctx).
		Preload("Boards", func(db *gorm.DB) *gorm.DB { return db.Order("boards.created_at ASC") }).
		Preload("Boards.Columns", func(db *gorm.DB) *gorm.DB { return db.Order("columns.position ASC") }).
		First(&project, "id = ?", projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("project service: load project: %w", err)
	}
	return &project, nil
}

// List returns the projects the user may view in a workspace.
func (s *ProjectService) List(ctx context.Context, workspaceID, userID string) ([]models.Project, error) {
	return s.memberships.AccessibleProjects(ensureContext(ctx), userID, workspaceID)
}

// Update renames a project. Requires edit rights, which only the workspace
// owner holds.
func (s *ProjectService) Update(ctx context.Context, projectID string, input ProjectUpdateInput, actorID string) (*models.Project, error) {
	ctx = ensureContext(ctx)

	project, err := s.requireEditable(ctx, projectID, actorID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewBadRequest("project title cannot be empty")
		}
		if err := s.db.WithContext(ctx).Model(project).Update("title", title).Error; err != nil {
			return nil, fmt.Errorf("project service: update project: %w", err)
		}
		project.Title = title
	}
	return project, nil
}

// Delete removes a project and its boards. Owner only.
func (s *ProjectService) Delete(ctx context.Context, projectID, actorID string) error {
	ctx = ensureContext(ctx)

	project, err := s.requireEditable(ctx, projectID, actorID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(project).Error; err != nil {
		return fmt.Errorf("project service: delete project: %w", err)
	}
	return nil
}

func (s *ProjectService) requireEditable(ctx context.Context, projectID, actorID string) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).First(&project, "id = ?", projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("project service: load project: %w", err)
	}

	ok, err := s.permissions.CanEditProject(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrForbidden
	}
	return &project, nil
}
