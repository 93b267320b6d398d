package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/rbac_api/internal/logging"
	"github.com/Skotchmaster/rbac_api/internal/models"
	"github.com/Skotchmaster/rbac_api/internal/service"
	"github.com/Skotchmaster/rbac_api/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bindBody(c, l, "register_error", &req); err != nil {
		return err
	}

	user, err := h.Svc.Register(ctx, service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		return failure(l, "register_error", err, "")
	}

	return c.JSON(http.StatusCreated, transport.RegisterResponse{
		Message: "user registered successfully",
		User:    user,
	})
}

// Login answers every credential failure with the same 401 body.
func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bindBody(c, l, "login_error", &req); err != nil {
		return err
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return failure(l, "login_failed", err, "")
	}

	return c.JSON(http.StatusOK, transport.LoginResponse{
		Message:   "login successful",
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Role:      res.User.Role,
		IsAdmin:   res.User.Role == models.RoleAdmin,
	})
}
