package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/rbac_api/internal/db"
	"github.com/Skotchmaster/rbac_api/internal/events"
	"github.com/Skotchmaster/rbac_api/internal/logging"
	"github.com/Skotchmaster/rbac_api/internal/metrics"
	loggingmw "github.com/Skotchmaster/rbac_api/internal/middleware/logging"
	"github.com/Skotchmaster/rbac_api/internal/repo"
	"github.com/Skotchmaster/rbac_api/internal/service"
	"github.com/Skotchmaster/rbac_api/internal/tokens"
)

type testServer struct {
	e      *echo.Echo
	repo   *repo.GormRepo
	tokens *tokens.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, db.Options{Driver: db.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	require.NoError(t, r.Migrate(ctx))
	require.NoError(t, service.SeedDefaults(ctx, r))

	ts, err := tokens.NewService([]byte("http-test-secret"), time.Hour)
	require.NoError(t, err)
	m := metrics.New("test")
	notify := service.Notifier{Publisher: events.Nop{}}

	e := echo.New()
	e.Use(loggingmw.RequestLogger(logging.NewWithWriter("error", io.Discard)))
	require.NoError(t, Register(e, &Deps{
		Auth:        &AuthHTTP{Svc: &service.AuthService{Users: r, Roles: r, Tokens: ts, Notify: notify, Metrics: m}},
		Users:       &UsersHTTP{Svc: &service.UserService{Users: r, Roles: r, Notify: notify}},
		Roles:       &RolesHTTP{Svc: &service.RoleService{Repo: r}},
		Claims:      &ClaimsHTTP{Svc: &service.ClaimService{Repo: r}},
		TestObjects: &TestObjectsHTTP{Svc: &service.TestObjectService{Repo: r}},
		Tokens:      ts,
		Metrics:     m,
	}))

	return &testServer{e: e, repo: r, tokens: ts}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// tokenAs issues a token for a seeded account without going through bcrypt.
func (s *testServer) tokenAs(t *testing.T, username string) string {
	t.Helper()
	u, err := s.repo.FindUserByUsername(context.Background(), username)
	require.NoError(t, err)
	tok, _, err := s.tokens.Issue(service.ClaimsFor(u))
	require.NoError(t, err)
	return tok
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, rec)["message"].(string)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
