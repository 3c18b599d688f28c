package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/models"
	apperrors "github.com/taskhive/taskhive/pkg/errors"
)

// TaskCreateInput carries task creation fields.
type TaskCreateInput struct {
	Title       string     `json:"title" validate:"required,min=1,max=300"`
	Description string     `json:"description" validate:"max=10000"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"due_date"`
	ColumnID    string     `json:"column_id" validate:"required,uuid"`
	AssignedTo  *string    `json:"assigned_to" validate:"omitempty,uuid"`
}

// TaskUpdateInput carries optional task updates. ColumnID moves the task to
// another column within the same project.
type TaskUpdateInput struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=300"`
	Description *string    `json:"description" validate:"omitempty,max=10000"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"due_date"`
	ColumnID    *string    `json:"column_id" validate:"omitempty,uuid"`
	AssignedTo  *string    `json:"assigned_to" validate:"omitempty,uuid"`
}

// CommentCreateInput carries the comment body.
type CommentCreateInput struct {
	Content string `json:"content" validate:"required,min=1,max=10000"`
}

// TaskService handles tasks and their comments behind the permission
// evaluator.
type TaskService struct {
	db          *gorm.DB
	hierarchy   *HierarchyService
	permissions *PermissionService
}

// NewTaskService constructs a TaskService.
func NewTaskService(db *gorm.DB, hierarchy *HierarchyService, permissions *PermissionService) (*TaskService, error) {
	if db == nil {
		return nil, errors.New("task service: db is required")
	}
	if hierarchy == nil {
		return nil, errors.New("task service: hierarchy service is required")
	}
	if permissions == nil {
		return nil, errors.New("task service: permission service is required")
	}
	return &TaskService{db: db, hierarchy: hierarchy, permissions: permissions}, nil
}

// Create adds a task to a column.
func (s *TaskService) Create(ctx context.Context, input TaskCreateInput, creatorID string) (*models.Task, error) {
	ctx = ensureContext(ctx)

	ok, err := s.permissions.CanCreateTask(ctx, creatorID, input.ColumnID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrForbidden
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewBadRequest("task title is required")
	}

	task := models.Task{
		Title:       title,
		Description: input.Description,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		ColumnID:    input.ColumnID,
		AssignedTo:  input.AssignedTo,
		CreatedByID: creatorID,
	}
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, fmt.Errorf("task service: create task: %w", err)
	}
	return &task, nil
}

// Get loads a task with comments and labels; the caller must hold view access.
func (s *TaskService) Get(ctx context.Context, taskID, userID string) (*models.Task, error) {
	ctx = ensureContext(ctx)

	ref, err := s.hierarchy.ResolveProject(ctx, KindTask, taskID)
	if err != nil {
		return nil, err
	}

	ok, err := s.permissions.CanViewProject(ctx, userID, ref.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrResourceNotFound
	}

	var task models.Task
	err = s.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("comments.created_at ASC") }).
		Preload("Comments.User").
		Preload("Labels").
		Preload("Assignee").
		First(&task, "id = ?", taskID).Error
	if err != nil {
		return nil, fmt.Errorf("task service: load task: %w", err)
	}
	return &task, nil
}

// Update edits a task's fields. Moving the task to a column in a different
// project is rejected.
func (s *TaskService) Update(ctx context.Context, taskID string, input TaskUpdateInput, actorID string) (*models.Task, error) {
	ctx = ensureContext(ctx)

	ok, err := s.permissions.CanEditTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrForbidden
	}

	var task models.Task
	if err := s.db.WithContext(ctx).First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("task service: load task: %w", err)
	}

	updates := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewBadRequest("task title cannot be empty")
		}
		updates["title"] = title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Priority != nil {
		updates["priority"] = *input.Priority
	}
	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}
	if input.AssignedTo != nil {
		updates["assigned_to"] = *input.AssignedTo
	}
	if input.ColumnID != nil && *input.ColumnID != task.ColumnID {
		current, err := s.hierarchy.ResolveProject(ctx, KindColumn, task.ColumnID)
		if err != nil {
			return nil, err
		}
		destination, err := s.hierarchy.ResolveProject(ctx, KindColumn, *input.ColumnID)
		if err != nil {
			return nil, err
		}
		if current.ProjectID != destination.ProjectID {
			return nil, apperrors.NewBadRequest("tasks cannot move between projects")
		}
		updates["column_id"] = *input.ColumnID
	}
	if len(updates) == 0 {
		return &task, nil
	}

	if err := s.db.WithContext(ctx).Model(&task).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("task service: update task: %w", err)
	}

	if err := s.db.WithContext(ctx).First(&task, "id = ?", taskID).Error; err != nil {
		return nil, fmt.Errorf("task service: reload task: %w", err)
	}
	return &task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, taskID, actorID string) error {
	ctx = ensureContext(ctx)

	ok, err := s.permissions.CanDeleteTask(ctx, actorID, taskID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", taskID).Error; err != nil {
		return fmt.Errorf("task service: delete task: %w", err)
	}
	return nil
}

// AddComment appends a comment to a task.
func (s *TaskService) AddComment(ctx context.Context, taskID string, input CommentCreateInput, authorID string) (*models.Comment, error) {
	ctx = ensureContext(ctx)

	ok, err := s.permissions.CanCommentTask(ctx, authorID, taskID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrForbidden
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, apperrors.NewBadRequest("comment content is required")
	}

	comment := models.Comment{
		TaskID:  taskID,
		UserID:  authorID,
		Content: content,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("task service: create comment: %w", err)
	}
	return &comment, nil
}

// ListComments returns a task's comments oldest first; viewing requires the
// same access as viewing the task.
func (s *TaskService) ListComments(ctx context.Context, taskID, userID string) ([]models.Comment, error) {
	ctx = ensureContext(ctx)

	ref, err := s.hierarchy.ResolveProject(ctx, KindTask, taskID)
	if err != nil {
		return nil, err
	}

	ok, err := s.permissions.CanViewProject(ctx, userID, ref.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrResourceNotFound
	}

	var comments []models.Comment
	err = s.db.WithContext(ctx).
		Preload("User").
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("task service: list comments: %w", err)
	}
	return comments, nil
}
