package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/models"
	apperrors "github.com/taskhive/taskhive/pkg/errors"
)

func newWorkspaceService(t *testing.T, db *gorm.DB) *WorkspaceService {
	t.Helper()

	memberships, _, _ := newServices(t, db)
	workspaces, err := NewWorkspaceService(db, memberships)
	require.NoError(t, err)
	return workspaces
}

func TestCreateWorkspaceSetsOwner(t *testing.T) {
	db := newTestDB(t)
	workspaces := newWorkspaceService(t, db)
	ctx := context.Background()

	user := createUser(t, db, "founder")

	ws, err := workspaces.Create(ctx, WorkspaceCreateInput{Name: "  Acme  "}, user.ID)
	require.NoError(t, err)
	require.Equal(t, "Acme", ws.Name)

	var membership models.Membership
	require.NoError(t, db.Where("user_id = ? AND workspace_id = ?", user.ID, ws.ID).First(&membership).Error)
	require.Equal(t, models.RoleOwner, membership.Role)

	_, err = workspaces.Create(ctx, WorkspaceCreateInput{Name: "   "}, user.ID)
	require.Error(t, err)
}

func TestListWorkspaces(t *testing.T) {
	db := newTestDB(t)
	workspaces := newWorkspaceService(t, db)
	ctx := context.Background()

	user := createUser(t, db, "founder")
	createWorkspace(t, db, "First", user)
	createWorkspace(t, db, "Second", user)

	createWorkspace(t, db, "Foreign", createUser(t, db, "stranger"))

	got, err := workspaces.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "First", got[0].Name)
}

func TestWorkspaceUpdateAndDeleteOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	workspaces := newWorkspaceService(t, db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	ws := createWorkspace(t, db, "Acme", owner)
	member := createUser(t, db, "member")
	addMember(t, db, ws, member, models.RoleParticipant)

	name := "Renamed"
	updated, err := workspaces.Update(ctx, ws.ID, WorkspaceUpdateInput{Name: &name}, owner.ID)
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)

	_, err = workspaces.Update(ctx, ws.ID, WorkspaceUpdateInput{Name: &name}, member.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	require.ErrorIs(t, workspaces.Delete(ctx, ws.ID, member.ID), apperrors.ErrForbidden)
	require.NoError(t, workspaces.Delete(ctx, ws.ID, owner.ID))

	_, err = workspaces.Get(ctx, ws.ID, owner.ID)
	require.Error(t, err)
}
