package services

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/database"
	"github.com/taskhive/taskhive/internal/models"
)

var testDBCounter atomic.Int64

// newTestDB opens a fresh named in-memory database per test so state never
// leaks between tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("svc_%s_%d", sanitise(t.Name()), testDBCounter.Add(1))
	db, err := database.Open(database.Config{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// newFileTestDB opens a file-backed database for tests that run real
// concurrent transactions. Shared-cache in-memory databases answer a second
// writer with SQLITE_LOCKED, which the busy timeout never retries; on a file
// database writers queue. _txlock=immediate takes the write lock at BEGIN so
// transactions cannot deadlock on a lock upgrade.
func newFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Driver:  "sqlite",
		Path:    filepath.Join(t.TempDir(), "svc.db"),
		Options: map[string]string{"_txlock": "immediate"},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func sanitise(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createWorkspace(t *testing.T, db *gorm.DB, name string, owner *models.User) *models.Workspace {
	t.Helper()

	ws := models.Workspace{Name: name}
	require.NoError(t, db.Create(&ws).Error)

	membership := models.Membership{
		UserID:      owner.ID,
		WorkspaceID: ws.ID,
		Role:        models.RoleOwner,
	}
	require.NoError(t, db.Create(&membership).Error)
	return &ws
}

func addMember(t *testing.T, db *gorm.DB, ws *models.Workspace, user *models.User, role models.Role) *models.Membership {
	t.Helper()

	membership := models.Membership{
		UserID:      user.ID,
		WorkspaceID: ws.ID,
		Role:        role,
	}
	require.NoError(t, db.Create(&membership).Error)
	return &membership
}

func createProject(t *testing.T, db *gorm.DB, ws *models.Workspace, title string) *models.Project {
	t.Helper()

	project := models.Project{Title: title, WorkspaceID: ws.ID}
	require.NoError(t, db.Create(&project).Error)
	return &project
}

func grantView(t *testing.T, db *gorm.DB, user *models.User, project *models.Project) {
	t.Helper()

	access := models.ProjectAccess{
		UserID:    user.ID,
		ProjectID: project.ID,
		CanView:   true,
	}
	require.NoError(t, db.Create(&access).Error)
}

// createTaskTree builds project -> board -> column -> task and returns all four.
func createTaskTree(t *testing.T, db *gorm.DB, ws *models.Workspace) (*models.Project, *models.Board, *models.Column, *models.Task) {
	t.Helper()

	project := createProject(t, db, ws, "Delivery")

	board := models.Board{Title: "Sprint", ProjectID: project.ID}
	require.NoError(t, db.Create(&board).Error)

	column := models.Column{Title: "Todo", BoardID: board.ID}
	require.NoError(t, db.Create(&column).Error)

	task := models.Task{Title: "Ship it", ColumnID: column.ID}
	require.NoError(t, db.Create(&task).Error)

	return project, &board, &column, &task
}

func newServices(t *testing.T, db *gorm.DB) (*MembershipService, *HierarchyService, *PermissionService) {
	t.Helper()

	memberships, err := NewMembershipService(db)
	require.NoError(t, err)
	hierarchy, err := NewHierarchyService(db)
	require.NoError(t, err)
	permissions, err := NewPermissionService(db, hierarchy, memberships)
	require.NoError(t, err)
	return memberships, hierarchy, permissions
}
