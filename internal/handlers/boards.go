package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/response"
)

// BoardHandler serves board and column endpoints.
type BoardHandler struct {
	boards *services.BoardService
}

// NewBoardHandler constructs a BoardHandler.
func NewBoardHandler(boards *services.BoardService) *BoardHandler {
	return &BoardHandler{boards: boards}
}

// Create handles POST /boards.
func (h *BoardHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	input, err := bindAndValidate[services.BoardCreateInput](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	board, err := h.boards.Create(c.Request.Context(), input, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, board)
}

// Get handles GET /boards/:boardID.
func (h *BoardHandler) Get(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	board, err := h.boards.Get(c.Request.Context(), c.Param("boardID"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, board)
}

// Delete handles DELETE /boards/:boardID.
func (h *BoardHandler) Delete(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.boards.Delete(c.Request.Context(), c.Param("boardID"), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// CreateColumn handles POST /columns.
func (h *BoardHandler) CreateColumn(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	input, err := bindAndValidate[services.ColumnCreateInput](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	column, err := h.boards.CreateColumn(c.Request.Context(), input, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, column)
}

// UpdateColumn handles PATCH /columns/:columnID.
func (h *BoardHandler) UpdateColumn(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	input, err := bindAndValidate[services.ColumnUpdateInput](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	column, err := h.boards.UpdateColumn(c.Request.Context(), c.Param("columnID"), input, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, column)
}

// DeleteColumn handles DELETE /columns/:columnID.
func (h *BoardHandler) DeleteColumn(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.boards.DeleteColumn(c.Request.Context(), c.Param("columnID"), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
