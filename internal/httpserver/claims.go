package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/rbac_api/internal/logging"
	"github.com/Skotchmaster/rbac_api/internal/service"
	"github.com/Skotchmaster/rbac_api/internal/transport"
)

type ClaimsHTTP struct {
	Svc *service.ClaimService
}

func (h *ClaimsHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "claims.list")

	claims, err := h.Svc.List(ctx)
	if err != nil {
		return failure(l, "list_claims_error", err, "")
	}
	if len(claims) == 0 {
		return failure(l, "list_claims_error", service.ErrNotFound, "no claims found")
	}
	return c.JSON(http.StatusOK, claims)
}

func (h *ClaimsHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "claims.get")

	id, err := parseID(c, l, "get_claim_error")
	if err != nil {
		return err
	}
	claim, err := h.Svc.Get(ctx, id)
	if err != nil {
		return failure(l, "get_claim_error", err, "claim not found")
	}
	return c.JSON(http.StatusOK, claim)
}

func (h *ClaimsHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "claims.create")

	var req transport.ClaimRequest
	if err := bindBody(c, l, "create_claim_error", &req); err != nil {
		return err
	}
	claim, err := h.Svc.Create(ctx, service.ClaimInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return failure(l, "create_claim_error", err, "")
	}
	l.Info("create_claim_success", "claim_id", claim.ID)
	return c.JSON(http.StatusCreated, claim)
}

func (h *ClaimsHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "claims.update")

	id, err := parseID(c, l, "update_claim_error")
	if err != nil {
		return err
	}
	var req transport.ClaimRequest
	if err := bindBody(c, l, "update_claim_error", &req); err != nil {
		return err
	}
	claim, err := h.Svc.Update(ctx, id, service.ClaimInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return failure(l, "update_claim_error", err, "claim not found")
	}
	return c.JSON(http.StatusOK, claim)
}

func (h *ClaimsHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "claims.delete")

	id, err := parseID(c, l, "delete_claim_error")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return failure(l, "delete_claim_error", err, "claim not found")
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: fmt.Sprintf("claim %d deleted", id)})
}
