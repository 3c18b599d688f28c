package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/models"
	apperrors "github.com/taskhive/taskhive/pkg/errors"
)

func newBoardService(t *testing.T, db *gorm.DB) *BoardService {
	t.Helper()

	_, hierarchy, permissions := newServices(t, db)
	boards, err := NewBoardService(db, hierarchy, permissions)
	require.NoError(t, err)
	return boards
}

func TestBoardCreateOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	boards := newBoardService(t, db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	ws := createWorkspace(t, db, "Acme", owner)
	project := createProject(t, db, ws, "Delivery")

	board, err := boards.Create(ctx, BoardCreateInput{Title: "Sprint", ProjectID: project.ID}, owner.ID)
	require.NoError(t, err)
	require.Equal(t, project.ID, board.ProjectID)

	member := createUser(t, db, "member")
	addMember(t, db, ws, member, models.RoleParticipant)
	grantView(t, db, member, project)

	_, err = boards.Create(ctx, BoardCreateInput{Title: "Rogue", ProjectID: project.ID}, member.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestColumnsKeepInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	boards := newBoardService(t, db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	ws := createWorkspace(t, db, "Acme", owner)
	project := createProject(t, db, ws, "Delivery")

	board, err := boards.Create(ctx, BoardCreateInput{Title: "Sprint", ProjectID: project.ID}, owner.ID)
	require.NoError(t, err)

	todo, err := boards.CreateColumn(ctx, ColumnCreateInput{Title: "Todo", BoardID: board.ID}, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 0, todo.Position)

	doing, err := boards.CreateColumn(ctx, ColumnCreateInput{Title: "Doing", BoardID: board.ID}, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 1, doing.Position)

	loaded, err := boards.Get(ctx, board.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Columns, 2)
	require.Equal(t, "Todo", loaded.Columns[0].Title)
	require.Equal(t, "Doing", loaded.Columns[1].Title)

	// Reposition flips the order.
	position := 5
	_, err = boards.UpdateColumn(ctx, todo.ID, ColumnUpdateInput{Position: &position}, owner.ID)
	require.NoError(t, err)

	loaded, err = boards.Get(ctx, board.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, "Doing", loaded.Columns[0].Title)
}

func TestBoardVisibilityFollowsProject(t *testing.T) {
	db := newTestDB(t)
	boards := newBoardService(t, db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	ws := createWorkspace(t, db, "Acme", owner)
	project, board, _, _ := createTaskTree(t, db, ws)

	member := createUser(t, db, "member")
	addMember(t, db, ws, member, models.RoleParticipant)

	_, err := boards.Get(ctx, board.ID, member.ID)
	require.ErrorIs(t, err, ErrResourceNotFound)

	grantView(t, db, member, project)

	loaded, err := boards.Get(ctx, board.ID, member.ID)
	require.NoError(t, err)
	require.Equal(t, board.ID, loaded.ID)

	// View access does not allow structural changes.
	require.ErrorIs(t, boards.Delete(ctx, board.ID, member.ID), apperrors.ErrForbidden)
	require.NoError(t, boards.Delete(ctx, board.ID, owner.ID))
}
