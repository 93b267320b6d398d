package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/rbac_api/internal/logging"
	"github.com/Skotchmaster/rbac_api/internal/service"
	"github.com/Skotchmaster/rbac_api/internal/transport"
)

type UsersHTTP struct {
	Svc *service.UserService
}

func (h *UsersHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.list")

	users, err := h.Svc.List(ctx)
	if err != nil {
		return failure(l, "list_users_error", err, "")
	}
	if len(users) == 0 {
		return failure(l, "list_users_error", service.ErrNotFound, "no users found")
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UsersHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.get")

	id, err := parseID(c, l, "get_user_error")
	if err != nil {
		return err
	}
	user, err := h.Svc.Get(ctx, id)
	if err != nil {
		return failure(l, "get_user_error", err, "user not found")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UsersHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.update")

	id, err := parseID(c, l, "update_user_error")
	if err != nil {
		return err
	}
	var req transport.UpdateUserRequest
	if err := bindBody(c, l, "update_user_error", &req); err != nil {
		return err
	}

	user, err := h.Svc.Update(ctx, id, service.UpdateUserInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		return failure(l, "update_user_error", err, "user not found")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UsersHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.delete")

	id, err := parseID(c, l, "delete_user_error")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return failure(l, "delete_user_error", err, "user not found")
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: fmt.Sprintf("user %d deleted", id)})
}
