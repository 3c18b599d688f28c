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

// ErrResourceNotFound indicates the resource or one of its ancestors is missing.
// Callers must surface this as "does not exist", never as an authorization failure.
var ErrResourceNotFound = apperrors.New("RESOURCE_NOT_FOUND", "Resource not found", http.StatusNotFound)

// ResourceKind names a level of the containment hierarchy.
type ResourceKind string

const (
	KindProject ResourceKind = "project"
	KindBoard   ResourceKind = "board"
	KindColumn  ResourceKind = "column"
	KindTask    ResourceKind = "task"
)

// ProjectRef identifies the project and workspace owning a resource.
type ProjectRef struct {
	ProjectID   string
	WorkspaceID string
}

// HierarchyService walks resource ancestry to locate the owning project and
// workspace. Read-only; it never mutates state.
type HierarchyService struct {
	db *gorm.DB
}

// NewHierarchyService constructs a HierarchyService.
func NewHierarchyService(db *gorm.DB) (*HierarchyService, error) {
	if db == nil {
		return nil, errors.New("hierarchy service: db is required")
	}
	return &HierarchyService{db: db}, nil
}

// ResolveProject resolves a resource of the given kind to its owning project
// and workspace, traversing task -> column -> board -> project as needed.
func (s *HierarchyService) ResolveProject(ctx context.Context, kind ResourceKind, resourceID string) (ProjectRef, error) {
	ctx = ensureContext(ctx)

	switch kind {
	case KindTask:
		var task models.Task
		if err := s.first(ctx, &task, resourceID); err != nil {
			return ProjectRef{}, err
		}
		return s.ResolveProject(ctx, KindColumn, task.ColumnID)
	case KindColumn:
		var column models.Column
		if err := s.first(ctx, &column, resourceID); err != nil {
			return ProjectRef{}, err
		}
		return s.ResolveProject(ctx, KindBoard, column.BoardID)
	case KindBoard:
		var board models.Board
		if err := s.first(ctx, &board, resourceID); err != nil {
			return ProjectRef{}, err
		}
		return s.ResolveProject(ctx, KindProject, board.ProjectID)
	case KindProject:
		var project models.Project
		if err := s.first(ctx, &project, resourceID); err != nil {
			return ProjectRef{}, err
		}
		return ProjectRef{ProjectID: project.ID, WorkspaceID: project.WorkspaceID}, nil
	default:
		return ProjectRef{}, fmt.Errorf("hierarchy service: unknown resource kind %q", kind)
	}
}

func (s *HierarchyService) first(ctx context.Context, dest any, id string) error {
	err := s.db.WithContext(ctx).First(dest, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrResourceNotFound
	}
	if err != nil {
		return fmt.Errorf("hierarchy service: load resource: %w", err)
	}
	return nil
}
