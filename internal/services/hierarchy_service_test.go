package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveProjectWalksAncestry(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	ws := createWorkspace(t, db, "Acme", owner)
	project, board, column, task := createTaskTree(t, db, ws)

	hierarchy, err := NewHierarchyService(db)
	require.NoError(t, err)

	for _, tc := range []struct {
		kind ResourceKind
		id   string
	}{
		{KindProject, project.ID},
		{KindBoard, board.ID},
		{KindColumn, column.ID},
		{KindTask, task.ID},
	} {
		ref, err := hierarchy.ResolveProject(context.Background(), tc.kind, tc.id)
		require.NoError(t, err, "kind %s", tc.kind)
		require.Equal(t, project.ID, ref.ProjectID)
		require.Equal(t, ws.ID, ref.WorkspaceID)
	}
}

func TestResolveProjectMissingResource(t *testing.T) {
	db := newTestDB(t)

	hierarchy, err := NewHierarchyService(db)
	require.NoError(t, err)

	_, err = hierarchy.ResolveProject(context.Background(), KindTask, "does-not-exist")
	require.ErrorIs(t, err, ErrResourceNotFound)
}

func TestResolveProjectUnknownKind(t *testing.T) {
	db := newTestDB(t)

	hierarchy, err := NewHierarchyService(db)
	require.NoError(t, err)

	_, err = hierarchy.ResolveProject(context.Background(), ResourceKind("widget"), "id")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrResourceNotFound)
}
