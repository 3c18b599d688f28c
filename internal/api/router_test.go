package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/database"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := database.Open(database.Config{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:router_%s?mode=memory&cache=shared&_foreign_keys=1", strings.ReplaceAll(t.Name(), "/", "_")),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))

	jwtService, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "taskhive"})
	require.NoError(t, err)

	router, err := NewRouter(Options{
		DB:            db,
		JWT:           jwtService,
		InviteBaseURL: "http://hive.test",
	})
	require.NoError(t, err)
	return router
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Details []string `json:"details"`
	} `json:"error"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec.Code, env
}

func registerAndLogin(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()

	body := fmt.Sprintf(`{"username":%q,"email":"%s@example.com","password":"password123"}`, username, username)
	code, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, code)

	var data struct {
		Token struct {
			AccessToken string `json:"access_token"`
		} `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token.AccessToken)
	return data.Token.AccessToken
}

func TestHealthAndAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	code, env := doJSON(t, router, http.MethodGet, "/api/v1/workspaces", "", "")
	require.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, env.Error)
	require.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestRegisterLoginAndWorkspaceFlow(t *testing.T) {
	router := newTestRouter(t)

	token := registerAndLogin(t, router, "founder")

	// Registration provisioned a personal workspace.
	code, env := doJSON(t, router, http.MethodGet, "/api/v1/workspaces", token, "")
	require.Equal(t, http.StatusOK, code)

	var workspaces []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &workspaces))
	require.Len(t, workspaces, 1)
	require.Equal(t, "founder's workspace", workspaces[0].Name)

	code, env = doJSON(t, router, http.MethodPost, "/api/v1/workspaces", token, `{"name":"Acme"}`)
	require.Equal(t, http.StatusCreated, code)
	require.True(t, env.Success)
}

func TestMemberRoleValidationAtTheEdge(t *testing.T) {
	router := newTestRouter(t)

	token := registerAndLogin(t, router, "owner")

	_, env := doJSON(t, router, http.MethodGet, "/api/v1/workspaces", token, "")
	var workspaces []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &workspaces))
	workspaceID := workspaces[0].ID

	_, env = doJSON(t, router, http.MethodGet, "/api/v1/workspaces/"+workspaceID+"/members", token, "")
	var members []struct {
		UserID string `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &members))
	require.Len(t, members, 1)

	// admin is honoured when present but never assignable over the API, so
	// validation rejects it before any service logic runs.
	code, env := doJSON(t, router, http.MethodPatch,
		"/api/v1/workspaces/"+workspaceID+"/members/"+members[0].UserID,
		token, `{"role":"admin"}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	require.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	require.NotEmpty(t, env.Error.Details)
	require.Contains(t, env.Error.Details[0], "role")
}

func TestInviteFlowEndToEnd(t *testing.T) {
	router := newTestRouter(t)

	ownerToken := registerAndLogin(t, router, "owner")
	joinerToken := registerAndLogin(t, router, "joiner")

	_, env := doJSON(t, router, http.MethodGet, "/api/v1/workspaces", ownerToken, "")
	var workspaces []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &workspaces))
	workspaceID := workspaces[0].ID

	code, env := doJSON(t, router, http.MethodPost, "/api/v1/workspaces/"+workspaceID+"/invites", ownerToken, "")
	require.Equal(t, http.StatusCreated, code)

	var created struct {
		Invite struct {
			Token string `json:"token"`
		} `json:"invite"`
		Link string `json:"link"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Contains(t, created.Link, created.Invite.Token)

	code, env = doJSON(t, router, http.MethodPost, "/api/v1/invites/"+created.Invite.Token+"/accept", joinerToken, "")
	require.Equal(t, http.StatusOK, code)

	var accept struct {
		Status      string `json:"status"`
		WorkspaceID string `json:"workspace_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &accept))
	require.Equal(t, "joined", accept.Status)
	require.Equal(t, workspaceID, accept.WorkspaceID)

	// Accepting twice reports already_member.
	code, env = doJSON(t, router, http.MethodPost, "/api/v1/invites/"+created.Invite.Token+"/accept", joinerToken, "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &accept))
	require.Equal(t, "already_member", accept.Status)

	// The joiner is on the roster but cannot create invites.
	code, _ = doJSON(t, router, http.MethodGet, "/api/v1/workspaces/"+workspaceID+"/members", joinerToken, "")
	require.Equal(t, http.StatusOK, code)

	code, env = doJSON(t, router, http.MethodPost, "/api/v1/workspaces/"+workspaceID+"/invites", joinerToken, "")
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "FORBIDDEN", env.Error.Code)
}
