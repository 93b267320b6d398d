package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/rbac_api/internal/logging"
	"github.com/Skotchmaster/rbac_api/internal/service"
	"github.com/Skotchmaster/rbac_api/internal/transport"
)

type RolesHTTP struct {
	Svc *service.RoleService
}

func (h *RolesHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "roles.list")

	roles, err := h.Svc.List(ctx)
	if err != nil {
		return failure(l, "list_roles_error", err, "")
	}
	if len(roles) == 0 {
		return failure(l, "list_roles_error", service.ErrNotFound, "no roles found")
	}
	return c.JSON(http.StatusOK, roles)
}

func (h *RolesHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "roles.get")

	id, err := parseID(c, l, "get_role_error")
	if err != nil {
		return err
	}
	role, err := h.Svc.Get(ctx, id)
	if err != nil {
		return failure(l, "get_role_error", err, "role not found")
	}
	return c.JSON(http.StatusOK, role)
}

func (h *RolesHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "roles.create")

	var req transport.RoleRequest
	if err := bindBody(c, l, "create_role_error", &req); err != nil {
		return err
	}
	role, err := h.Svc.Create(ctx, service.RoleInput{Name: req.Name, Permissions: req.Permissions})
	if err != nil {
		return failure(l, "create_role_error", err, "")
	}
	l.Info("create_role_success", "role_id", role.ID)
	return c.JSON(http.StatusCreated, role)
}

func (h *RolesHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "roles.update")

	id, err := parseID(c, l, "update_role_error")
	if err != nil {
		return err
	}
	var req transport.RoleRequest
	if err := bindBody(c, l, "update_role_error", &req); err != nil {
		return err
	}
	role, err := h.Svc.Update(ctx, id, service.RoleInput{Name: req.Name, Permissions: req.Permissions})
	if err != nil {
		return failure(l, "update_role_error", err, "role not found")
	}
	return c.JSON(http.StatusOK, role)
}

func (h *RolesHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "roles.delete")

	id, err := parseID(c, l, "delete_role_error")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return failure(l, "delete_role_error", err, "role not found")
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: fmt.Sprintf("role %d deleted", id)})
}
