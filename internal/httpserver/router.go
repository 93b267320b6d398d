package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/rbac_api/internal/authz"
	"github.com/Skotchmaster/rbac_api/internal/logging"
	"github.com/Skotchmaster/rbac_api/internal/metrics"
	"github.com/Skotchmaster/rbac_api/internal/models"
	"github.com/Skotchmaster/rbac_api/internal/tokens"
)

type Deps struct {
	Auth        *AuthHTTP
	Users       *UsersHTTP
	Roles       *RolesHTTP
	Claims      *ClaimsHTTP
	TestObjects *TestObjectsHTTP

	Tokens  *tokens.Service
	Metrics *metrics.Metrics
	// Ready reports whether backing stores answer. Nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) error {
	if e.Validator == nil {
		e.Validator = NewRequestValidator()
	}

	adminOnly, err := authz.NewGate(d.Tokens, []string{models.RoleAdmin}, authz.WithRecorder(d.Metrics))
	if err != nil {
		return err
	}
	members, err := authz.NewGate(d.Tokens, []string{models.RoleAdmin, models.RoleUser}, authz.WithRecorder(d.Metrics))
	if err != nil {
		return err
	}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		if err := d.Ready(c.Request().Context()); err != nil {
			logging.FromContext(c.Request().Context()).Warn("not_ready", "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))

	auth := e.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)

	users := e.Group("/users", adminOnly.Middleware())
	users.GET("", d.Users.List)
	users.GET("/:id", d.Users.Get)
	users.PUT("/:id", d.Users.Update)
	users.DELETE("/:id", d.Users.Delete)

	roles := e.Group("/roles", adminOnly.Middleware())
	roles.GET("", d.Roles.List)
	roles.POST("", d.Roles.Create)
	roles.GET("/:id", d.Roles.Get)
	roles.PUT("/:id", d.Roles.Update)
	roles.DELETE("/:id", d.Roles.Delete)

	claims := e.Group("/claims", adminOnly.Middleware())
	claims.GET("", d.Claims.List)
	claims.POST("", d.Claims.Create)
	claims.GET("/:id", d.Claims.Get)
	claims.PUT("/:id", d.Claims.Update)
	claims.DELETE("/:id", d.Claims.Delete)

	objects := e.Group("/testobjects")
	objects.GET("", d.TestObjects.List, members.Middleware())
	objects.GET("/search", d.TestObjects.Search, members.Middleware())
	objects.POST("", d.TestObjects.Create, members.Middleware())
	objects.GET("/:id", d.TestObjects.Get, members.Middleware())
	objects.PUT("/:id", d.TestObjects.Update, members.Middleware())
	objects.DELETE("/:id", d.TestObjects.Delete, adminOnly.Middleware())

	return nil
}
