package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/models"
	apperrors "github.com/taskhive/taskhive/pkg/errors"
)

func newLabelService(t *testing.T, db *gorm.DB) *LabelService {
	t.Helper()

	memberships, hierarchy, permissions := newServices(t, db)
	labels, err := NewLabelService(db, hierarchy, memberships, permissions)
	require.NoError(t, err)
	return labels
}

func TestLabelPool(t *testing.T) {
	db := newTestDB(t)
	labels := newLabelService(t, db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	ws := createWorkspace(t, db, "Acme", owner)

	bug, err := labels.Create(ctx, ws.ID, LabelCreateInput{Name: "bug", Color: "#ff0000"}, owner.ID)
	require.NoError(t, err)
	require.Equal(t, ws.ID, bug.WorkspaceID)

	reader := createUser(t, db, "reader")
	addMember(t, db, ws, reader, models.RoleReader)

	_, err = labels.Create(ctx, ws.ID, LabelCreateInput{Name: "nope"}, reader.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	// Any member may list the pool.
	pool, err := labels.List(ctx, ws.ID, reader.ID)
	require.NoError(t, err)
	require.Len(t, pool, 1)

	require.ErrorIs(t, labels.Delete(ctx, bug.ID, reader.ID), apperrors.ErrForbidden)
	require.NoError(t, labels.Delete(ctx, bug.ID, owner.ID))

	pool, err = labels.List(ctx, ws.ID, owner.ID)
	require.NoError(t, err)
	require.Empty(t, pool)
}

func TestSetTaskLabels(t *testing.T) {
	db := newTestDB(t)
	labels := newLabelService(t, db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	ws := createWorkspace(t, db, "Acme", owner)
	_, _, _, task := createTaskTree(t, db, ws)

	bug, err := labels.Create(ctx, ws.ID, LabelCreateInput{Name: "bug"}, owner.ID)
	require.NoError(t, err)
	urgent, err := labels.Create(ctx, ws.ID, LabelCreateInput{Name: "urgent"}, owner.ID)
	require.NoError(t, err)

	attached, err := labels.SetTaskLabels(ctx, task.ID, []string{bug.ID, urgent.ID}, owner.ID)
	require.NoError(t, err)
	require.Len(t, attached, 2)

	// Replace shrinks the set.
	attached, err = labels.SetTaskLabels(ctx, task.ID, []string{urgent.ID}, owner.ID)
	require.NoError(t, err)
	require.Len(t, attached, 1)

	var reloaded models.Task
	require.NoError(t, db.Preload("Labels").First(&reloaded, "id = ?", task.ID).Error)
	require.Len(t, reloaded.Labels, 1)
	require.Equal(t, "urgent", reloaded.Labels[0].Name)

	// Labels from another workspace are rejected.
	other := createWorkspace(t, db, "Other", createUser(t, db, "stranger"))
	foreignLabel := models.Label{Name: "foreign", WorkspaceID: other.ID}
	require.NoError(t, db.Create(&foreignLabel).Error)

	_, err = labels.SetTaskLabels(ctx, task.ID, []string{foreignLabel.ID}, owner.ID)
	require.Error(t, err)

	// Clearing detaches everything.
	attached, err = labels.SetTaskLabels(ctx, task.ID, nil, owner.ID)
	require.NoError(t, err)
	require.Empty(t, attached)

	require.NoError(t, db.Preload("Labels").First(&reloaded, "id = ?", task.ID).Error)
	require.Empty(t, reloaded.Labels)
}
