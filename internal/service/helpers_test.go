package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/rbac_api/internal/db"
	"github.com/Skotchmaster/rbac_api/internal/events"
	"github.com/Skotchmaster/rbac_api/internal/metrics"
	"github.com/Skotchmaster/rbac_api/internal/models"
	"github.com/Skotchmaster/rbac_api/internal/repo"
	"github.com/Skotchmaster/rbac_api/internal/tokens"
)

var testSecret = []byte("test-jwt-secret")

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.UserEvent
	topics []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev, ok := event.(events.UserEvent); ok {
		p.events = append(p.events, ev)
		p.topics = append(p.topics, topic)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type testEnv struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Service
	Pub    *recordingPublisher
	Auth   *AuthService
	Users  *UserService
}

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	gdb, err := db.Open(context.Background(), db.Options{Driver: db.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	r := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, r.CreateRole(ctx, &models.Role{Name: models.RoleAdmin, Permissions: adminPermissions}))
	require.NoError(t, r.CreateRole(ctx, &models.Role{Name: models.RoleUser, Permissions: userPermissions}))

	ts, err := tokens.NewService(testSecret, time.Hour)
	require.NoError(t, err)

	pub := &recordingPublisher{}
	notify := Notifier{Publisher: pub, Topic: "user_events"}
	return &testEnv{
		Repo:   r,
		Tokens: ts,
		Pub:    pub,
		Auth: &AuthService{
			Users:   r,
			Roles:   r,
			Tokens:  ts,
			Notify:  notify,
			Metrics: metrics.NewMetricsWithRegisterer("test", prometheus.NewRegistry()),
		},
		Users: &UserService{Users: r, Roles: r, Notify: notify},
	}
}

func mustTokens(t *testing.T) *tokens.Service {
	t.Helper()
	ts, err := tokens.NewService(testSecret, time.Hour)
	require.NoError(t, err)
	return ts
}
