package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"doc-registry/pkg/contextkeys"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func callWithPermissions(t *testing.T, permissions map[string]bool) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/registrations/1", nil)
	if permissions != nil {
		ctx := context.WithValue(req.Context(), contextkeys.UserPermissionsKey, permissions)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequirePermission("registrations:delete", zap.NewNop())(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	require.NoError(t, handler(c))
	return rec
}

func TestRequirePermission_Allows(t *testing.T) {
	rec := callWithPermissions(t, map[string]bool{"registrations:delete": true})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequirePermission_Denies(t *testing.T) {
	rec := callWithPermissions(t, map[string]bool{"registrations:read": true})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePermission_NoPermissionsInContext(t *testing.T) {
	rec := callWithPermissions(t, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
