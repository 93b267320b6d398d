package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/rbac_api/internal/models"
	"github.com/Skotchmaster/rbac_api/internal/transport"
)

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", "", nil).Code)
}

func TestGateMatrix(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	admin := s.tokenAs(t, "admin")
	user := s.tokenAs(t, "user2")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
		msg    string
	}{
		{name: "users without token", method: http.MethodGet, path: "/users", status: http.StatusUnauthorized, msg: "no token provided"},
		{name: "users with garbage token", method: http.MethodGet, path: "/users", token: "not.a.jwt", status: http.StatusUnauthorized, msg: "invalid or expired token"},
		{name: "users as user", method: http.MethodGet, path: "/users", token: user, status: http.StatusForbidden, msg: "access denied"},
		{name: "users as admin", method: http.MethodGet, path: "/users", token: admin, status: http.StatusOK},
		{name: "roles as user", method: http.MethodGet, path: "/roles", token: user, status: http.StatusForbidden, msg: "access denied"},
		{name: "claims as admin", method: http.MethodGet, path: "/claims", token: admin, status: http.StatusOK},
		{name: "testobjects as user", method: http.MethodGet, path: "/testobjects", token: user, status: http.StatusOK},
		{name: "testobjects without token", method: http.MethodGet, path: "/testobjects", status: http.StatusUnauthorized, msg: "no token provided"},
		{name: "delete testobject as user", method: http.MethodDelete, path: "/testobjects/1", token: user, status: http.StatusForbidden, msg: "access denied"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.token, nil)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.msg != "" {
				assert.Equal(t, tt.msg, message(t, rec))
			}
		})
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "alice", "password": "s3cret", "email": "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decode[transport.RegisterResponse](t, rec)
	assert.Equal(t, "user registered successfully", reg.Message)
	require.NotNil(t, reg.User)
	assert.Equal(t, uint(3), reg.User.ID)
	assert.Equal(t, models.RoleUser, reg.User.Role)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "alice", "password": "other", "email": "alice2@example.com",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "bo", "password": "x", "email": "bo@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	wrong := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": "nope"})
	unknown := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": "mallory", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, wrong.Code)
	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())

	rec = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[transport.LoginResponse](t, rec)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, models.RoleUser, login.Role)
	assert.False(t, login.IsAdmin)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/testobjects", login.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/users", login.Token, nil).Code)

	metrics := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "test_auth_login_total")
	assert.Contains(t, metrics.Body.String(), "test_authz_decisions_total")
}

func TestLogin_MalformedBody(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	req := s.do(t, http.MethodPost, "/auth/login", "", "not an object")
	require.Equal(t, http.StatusBadRequest, req.Code)
	assert.Equal(t, "invalid body", message(t, req))
}

func TestUsersHTTP(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	admin := s.tokenAs(t, "admin")

	rec := s.do(t, http.MethodGet, "/users", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.User](t, rec), 2)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/users/abc", admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/users/99", admin, nil).Code)

	rec = s.do(t, http.MethodPut, "/users/2", admin, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.User](t, rec)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.Contains(t, updated.Permissions, "CreateUser")

	rec = s.do(t, http.MethodPut, "/users/2", admin, map[string]string{"role": "ghost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/users/2", admin, map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodDelete, "/users/2", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user 2 deleted", message(t, rec))
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/users/2", admin, nil).Code)

	// the token outlives the account it was issued for
	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/users/1", admin, nil).Code)
	rec = s.do(t, http.MethodGet, "/users", admin, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no users found", message(t, rec))
}

func TestRolesHTTP(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	admin := s.tokenAs(t, "admin")

	rec := s.do(t, http.MethodPost, "/roles", admin, map[string]any{"name": "auditor"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "permissions required", message(t, rec))

	rec = s.do(t, http.MethodPost, "/roles", admin, map[string]any{"name": "auditor", "permissions": []string{}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	role := decode[models.Role](t, rec)
	assert.Equal(t, "auditor", role.Name)
	assert.Empty(t, role.Permissions)

	rec = s.do(t, http.MethodPost, "/roles", admin, map[string]any{"name": "admin", "permissions": []string{}})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPut, "/roles/99", admin, map[string]any{"name": "x", "permissions": []string{"a"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClaimsHTTP(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	admin := s.tokenAs(t, "admin")

	rec := s.do(t, http.MethodGet, "/claims", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Claim](t, rec), 13)

	rec = s.do(t, http.MethodPost, "/claims", admin, map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name and description required", message(t, rec))

	rec = s.do(t, http.MethodPost, "/claims", admin, map[string]string{"name": "Audit", "description": "Read audit log"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.Claim](t, rec)

	rec = s.do(t, http.MethodGet, "/claims/"+itoa(created.ID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Read audit log", decode[models.Claim](t, rec).Description)
}

func TestTestObjectsHTTP(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	admin := s.tokenAs(t, "admin")
	user := s.tokenAs(t, "user2")

	rec := s.do(t, http.MethodGet, "/testobjects?page=1&size=1", user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[transport.Page[models.TestObject]](t, rec)
	assert.Len(t, page.Data, 1)
	assert.EqualValues(t, 2, page.Meta.Total)
	assert.EqualValues(t, 2, page.Meta.TotalPages)
	assert.True(t, page.Meta.HasNext)
	assert.False(t, page.Meta.HasPrev)

	rec = s.do(t, http.MethodPost, "/testobjects", user, map[string]string{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/testobjects", user, map[string]string{"name": "Widget", "description": "Blue"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	widget := decode[models.TestObject](t, rec)

	rec = s.do(t, http.MethodPost, "/testobjects", user, map[string]string{"name": "Widget"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/testobjects/"+itoa(widget.ID), user, map[string]string{"description": "Green"})
	require.Equal(t, http.StatusOK, rec.Code)
	patched := decode[models.TestObject](t, rec)
	assert.Equal(t, "Widget", patched.Name)
	assert.Equal(t, "Green", patched.Description)

	rec = s.do(t, http.MethodGet, "/testobjects/search?q=green", user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[transport.Page[models.TestObject]](t, rec)
	require.Len(t, found.Data, 1)
	assert.Equal(t, widget.ID, found.Data[0].ID)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/testobjects/search", user, nil).Code)

	rec = s.do(t, http.MethodDelete, "/testobjects/"+itoa(widget.ID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/testobjects/"+itoa(widget.ID), user, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "test object not found", message(t, rec))
}
