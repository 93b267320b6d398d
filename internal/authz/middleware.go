package authz

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/rbac_api/internal/logging"
	"github.com/Skotchmaster/rbac_api/internal/tokens"
)

const CtxClaims = "claims"

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get(echo.HeaderAuthorization)
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}

func (g *Gate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := g.Authorize(BearerToken(c.Request()))
			if err != nil {
				l := logging.FromContext(c.Request().Context()).With("mw", "authz")
				var rej *Rejection
				if !errors.As(err, &rej) {
					l.Error("authz_error", "status", 500, "error", err)
					return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
				}
				l.Warn("authz_denied", "status", rej.Status, "reason", rej.Reason)
				if rej.Status == http.StatusForbidden {
					return echo.NewHTTPError(http.StatusForbidden, "access denied")
				}
				if rej.Reason == ReasonMissingToken {
					return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, tokens.ErrTokenInvalid.Error())
			}

			c.Set(CtxClaims, claims)
			return next(c)
		}
	}
}

func ClaimsFromContext(c echo.Context) (*tokens.TokenClaims, bool) {
	claims, ok := c.Get(CtxClaims).(*tokens.TokenClaims)
	return claims, ok && claims != nil
}
