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

// BoardCreateInput carries board creation fields.
type BoardCreateInput struct {
	Title     string `json:"title" validate:"required,min=1,max=200"`
	ProjectID string `json:"project_id" validate:"required,uuid"`
}

// ColumnCreateInput carries column creation fields.
type ColumnCreateInput struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	BoardID string `json:"board_id" validate:"required,uuid"`
}

// ColumnUpdateInput carries optional column updates.
type ColumnUpdateInput struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=200"`
	Position *int    `json:"position" validate:"omitempty,min=0"`
}

// BoardService handles boards and their columns.
type BoardService struct {
	db          *gorm.DB
	hierarchy   *HierarchyService
	permissions *PermissionService
}

// NewBoardService constructs a BoardService.
func NewBoardService(db *gorm.DB, hierarchy *HierarchyService, permissions *PermissionService) (*BoardService, error) {
	if db == nil {
		return nil, errors.New("board service: db is required")
	}
	if hierarchy == nil {
		return nil, errors.New("board service: hierarchy service is required")
	}
	if permissions == nil {
		return nil, errors.New("board service: permission service is required")
	}
	return &BoardService{db: db, hierarchy: hierarchy, permissions: permissions}, nil
}

// Create adds a board to a project.
func (s *BoardService) Create(ctx context.Context, input BoardCreateInput, actorID string) (*models.Board, error) {
	ctx = ensureContext(ctx)

	ok, err := s.permissions.CanCreateBoard(ctx, actorID, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrForbidden
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewBadRequest("board title is required")
	}

	board := models.Board{Title: title, ProjectID: input.ProjectID}
	if err := s.db.WithContext(ctx).Create(&board).Error; err != nil {
		return nil, fmt.Errorf("board service: create board: %w", err)
	}
	return &board, nil
}

// Get loads a board with ordered columns and their tasks; the caller must be
// able to view the owning project.
func (s *BoardService) Get(ctx context.Context, boardID, userID string) (*models.Board, error) {
	ctx = ensureContext(ctx)

	ref, err := s.hierarchy.ResolveProject(ctx, KindBoard, boardID)
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

	var board models.Board
	err = s.db.WithContext(ctx).
		Preload("Columns", func(db *gorm.DB) *gorm.DB { return db.Order("columns.position ASC") }).
		Preload("Columns.Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.created_at ASC") }).
		First(&board, "id = ?", boardID).Error
	if err != nil {
		return nil, fmt.Errorf("board service: load board: %w", err)
	}
	return &board, nil
}

// Delete removes a board and its columns. Requires project edit rights.
func (s *BoardService) Delete(ctx context.Context, boardID, actorID string) error {
	ctx = ensureContext(ctx)

	ref, err := s.hierarchy.ResolveProject(ctx, KindBoard, boardID)
	if err != nil {
		return err
	}

	ok, err := s.permissions.CanEditProject(ctx, actorID, ref.ProjectID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Delete(&models.Board{}, "id = ?", boardID).Error; err != nil {
		return fmt.Errorf("board service: delete board: %w", err)
	}
	return nil
}

// CreateColumn appends a column to the end of a board. Uses the board-create
// capability since columns shape board structure.
func (s *BoardService) CreateColumn(ctx context.Context, input ColumnCreateInput, actorID string) (*models.Column, error) {
	ctx = ensureContext(ctx)

	ref, err := s.hierarchy.ResolveProject(ctx, KindBoard, input.BoardID)
	if err != nil {
		return nil, err
	}

	ok, err := s.permissions.CanCreateBoard(ctx, actorID, ref.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrForbidden
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewBadRequest("column title is required")
	}

	var column *models.Column
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var position int64
		if err := tx.Model(&models.Column{}).
			Where("board_id = ?", input.BoardID).
			Count(&position).Error; err != nil {
			return fmt.Errorf("board service: count columns: %w", err)
		}

		created := models.Column{
			Title:    title,
			Position: int(position),
			BoardID:  input.BoardID,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("board service: create column: %w", err)
		}
		column = &created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return column, nil
}

// UpdateColumn renames or repositions a column.
func (s *BoardService) UpdateColumn(ctx context.Context, columnID string, input ColumnUpdateInput, actorID string) (*models.Column, error) {
	ctx = ensureContext(ctx)

	ref, err := s.hierarchy.ResolveProject(ctx, KindColumn, columnID)
	if err != nil {
		return nil, err
	}

	ok, err := s.permissions.CanCreateBoard(ctx, actorID, ref.ProjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrForbidden
	}

	var column models.Column
	if err := s.db.WithContext(ctx).First(&column, "id = ?", columnID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("board service: load column: %w", err)
	}

	updates := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewBadRequest("column title cannot be empty")
		}
		updates["title"] = title
	}
	if input.Position != nil {
		updates["position"] = *input.Position
	}
	if len(updates) == 0 {
		return &column, nil
	}

	if err := s.db.WithContext(ctx).Model(&column).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("board service: update column: %w", err)
	}

	if title, ok := updates["title"].(string); ok {
		column.Title = title
	}
	if input.Position != nil {
		column.Position = *input.Position
	}
	return &column, nil
}

// DeleteColumn removes a column and its tasks.
func (s *BoardService) DeleteColumn(ctx context.Context, columnID, actorID string) error {
	ctx = ensureContext(ctx)

	ref, err := s.hierarchy.ResolveProject(ctx, KindColumn, columnID)
	if err != nil {
		return err
	}

	ok, err := s.permissions.CanCreateBoard(ctx, actorID, ref.ProjectID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Delete(&models.Column{}, "id = ?", columnID).Error; err != nil {
		return fmt.Errorf("board service: delete column: %w", err)
	}
	return nil
}
