package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	apperrors "github.com/taskhive/taskhive/pkg/errors"
)

func newErrorContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/resource", nil)
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()

	var env Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestErrorRendersValidationDetails(t *testing.T) {
	c, w := newErrorContext(t)

	Error(c, apperrors.NewValidationError([]string{"role must satisfy assignable_role"}))

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.False(t, env.Success)
	require.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	require.Equal(t, []string{"role must satisfy assignable_role"}, env.Error.Details)
}

func TestErrorHidesInternalCause(t *testing.T) {
	c, w := newErrorContext(t)

	Error(c, errors.New("pq: connection reset"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	env := decodeEnvelope(t, w)
	require.Equal(t, "INTERNAL_SERVER_ERROR", env.Error.Code)
	require.NotContains(t, w.Body.String(), "connection reset")
}
