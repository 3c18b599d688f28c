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

// LabelCreateInput carries label creation fields.
type LabelCreateInput struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// LabelService manages workspace label pools and their assignment to tasks.
type LabelService struct {
	db          *gorm.DB
	hierarchy   *HierarchyService
	memberships *MembershipService
	permissions *PermissionService
}

// NewLabelService constructs a LabelService.
func NewLabelService(db *gorm.DB, hierarchy *HierarchyService, memberships *MembershipService, permissions *PermissionService) (*LabelService, error) {
	if db == nil {
		return nil, errors.New("label service: db is required")
	}
	if hierarchy == nil {
		return nil, errors.New("label service: hierarchy service is required")
	}
	if memberships == nil {
		return nil, errors.New("label service: membership service is required")
	}
	if permissions == nil {
		return nil, errors.New("label service: permission service is required")
	}
	return &LabelService{db: db, hierarchy: hierarchy, memberships: memberships, permissions: permissions}, nil
}

// Create adds a label to the workspace pool. Owners and participants only.
func (s *LabelService) Create(ctx context.Context, workspaceID string, input LabelCreateInput, actorID string) (*models.Label, error) {
	ctx = ensureContext(ctx)

	membership, err := s.memberships.ResolveMembership(ctx, actorID, workspaceID)
	if err != nil {
		return nil, err
	}
	if membership.Role != models.RoleOwner && membership.Role != models.RoleParticipant {
		return nil, apperrors.ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("label name is required")
	}

	label := models.Label{
		Name:        name,
		Color:       input.Color,
		WorkspaceID: membership.WorkspaceID,
	}
	if err := s.db.WithContext(ctx).Create(&label).Error; err != nil {
		return nil, fmt.Errorf("label service: create label: %w", err)
	}
	return &label, nil
}

// List returns the workspace label pool; any member may read it.
func (s *LabelService) List(ctx context.Context, workspaceID, userID string) ([]models.Label, error) {
	ctx = ensureContext(ctx)

	membership, err := s.memberships.ResolveMembership(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}

	var labels []models.Label
	err = s.db.WithContext(ctx).
		Where("workspace_id = ?", membership.WorkspaceID).
		Order("name ASC").
		Find(&labels).Error
	if err != nil {
		return nil, fmt.Errorf("label service: list labels: %w", err)
	}
	return labels, nil
}

// Delete removes a label from the pool and detaches it everywhere. Owner only.
func (s *LabelService) Delete(ctx context.Context, labelID, actorID string) error {
	ctx = ensureContext(ctx)

	var label models.Label
	err := s.db.WithContext(ctx).First(&label, "id = ?", labelID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrResourceNotFound
	}
	if err != nil {
		return fmt.Errorf("label service: load label: %w", err)
	}

	membership, err := s.memberships.GetMembership(ctx, actorID, label.WorkspaceID)
	if err != nil {
		return err
	}
	if membership == nil || membership.Role != models.RoleOwner {
		return apperrors.ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&label).Association("Tasks").Clear(); err != nil {
			return fmt.Errorf("label service: detach label: %w", err)
		}
		if err := tx.Delete(&label).Error; err != nil {
			return fmt.Errorf("label service: delete label: %w", err)
		}
		return nil
	})
}

// SetTaskLabels replaces a task's label set. Requires task edit rights, and
// every label must come from the task's own workspace.
func (s *LabelService) SetTaskLabels(ctx context.Context, taskID string, labelIDs []string, actorID string) ([]models.Label, error) {
	ctx = ensureContext(ctx)

	ok, err := s.permissions.CanEditTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrForbidden
	}

	ref, err := s.hierarchy.ResolveProject(ctx, KindTask, taskID)
	if err != nil {
		return nil, err
	}

	wanted := normaliseIDs(labelIDs)

	var labels []models.Label
	if len(wanted) > 0 {
		err = s.db.WithContext(ctx).
			Where("id IN ? AND workspace_id = ?", wanted, ref.WorkspaceID).
			Find(&labels).Error
		if err != nil {
			return nil, fmt.Errorf("label service: load labels: %w", err)
		}
		if len(labels) != len(wanted) {
			return nil, apperrors.NewBadRequest("label does not belong to this workspace")
		}
	}

	task := models.Task{BaseModel: models.BaseModel{ID: taskID}}
	association := s.db.WithContext(ctx).Model(&task).Association("Labels")
	if len(labels) == 0 {
		if err := association.Clear(); err != nil {
			return nil, fmt.Errorf("label service: clear task labels: %w", err)
		}
		return nil, nil
	}
	if err := association.Replace(labels); err != nil {
		return nil, fmt.Errorf("label service: set task labels: %w", err)
	}
	return labels, nil
}
