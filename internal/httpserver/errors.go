package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/rbac_api/internal/hash"
	"github.com/Skotchmaster/rbac_api/internal/service"
	"github.com/Skotchmaster/rbac_api/internal/validation"
)

// failure maps a service error to the response and logs it under event.
// notFound is the message for a missing record.
func failure(l *slog.Logger, event string, err error, notFound string) error {
	var ve *validation.ValidationError
	switch {
	case errors.As(err, &ve):
		l.Warn(event, "status", 400, "reason", ve.Error())
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		l.Warn(event, "status", 401, "reason", err.Error())
		return echo.NewHTTPError(http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrDuplicateUser):
		l.Warn(event, "status", 409, "reason", "username already taken")
		return echo.NewHTTPError(http.StatusConflict, "username already taken")
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "reason", "name already exists")
		return echo.NewHTTPError(http.StatusConflict, "name already exists")
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", notFound)
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	case errors.Is(err, hash.ErrHashing):
		l.Error(event, "status", 500, "reason", "cannot hash the password", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

func parseID(c echo.Context, l *slog.Logger, event string) (uint, error) {
	id, err := validation.ParseID(c.Param("id"))
	if err != nil {
		l.Warn(event, "status", 400, "reason", "invalid id format", "id", c.Param("id"))
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id format")
	}
	return id, nil
}

func bindBody(c echo.Context, l *slog.Logger, event string, req any) error {
	if err := c.Bind(req); err != nil {
		l.Warn(event, "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	if err := c.Validate(req); err != nil {
		l.Warn(event, "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
