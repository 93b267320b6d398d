package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/rbac_api/internal/logging"
	"github.com/Skotchmaster/rbac_api/internal/models"
	"github.com/Skotchmaster/rbac_api/internal/service"
	"github.com/Skotchmaster/rbac_api/internal/transport"
	"github.com/Skotchmaster/rbac_api/internal/util"
)

type TestObjectsHTTP struct {
	Svc *service.TestObjectService
}

func pageOf(items []models.TestObject, total int64, page, offset, limit int) transport.Page[models.TestObject] {
	return transport.Page[models.TestObject]{
		Data: items,
		Meta: transport.PageMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: util.TotalPages(total, limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	}
}

func pageParams(c echo.Context) (page, offset, limit int) {
	page = util.ParseIntDefault(c.QueryParam("page"), 1)
	if page < 1 {
		page = 1
	}
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit = util.Calculate(page, size)
	return page, offset, limit
}

func (h *TestObjectsHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "testobjects.list")

	page, offset, limit := pageParams(c)
	total, items, err := h.Svc.List(ctx, offset, limit)
	if err != nil {
		return failure(l, "list_testobjects_error", err, "")
	}
	return c.JSON(http.StatusOK, pageOf(items, total, page, offset, limit))
}

func (h *TestObjectsHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "testobjects.search")

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		l.Warn("search_testobjects_error", "status", 400, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	page, offset, limit := pageParams(c)
	total, items, err := h.Svc.Search(ctx, q, offset, limit)
	if err != nil {
		return failure(l, "search_testobjects_error", err, "")
	}
	return c.JSON(http.StatusOK, pageOf(items, total, page, offset, limit))
}

func (h *TestObjectsHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "testobjects.get")

	id, err := parseID(c, l, "get_testobject_error")
	if err != nil {
		return err
	}
	obj, err := h.Svc.Get(ctx, id)
	if err != nil {
		return failure(l, "get_testobject_error", err, "test object not found")
	}
	return c.JSON(http.StatusOK, obj)
}

func (h *TestObjectsHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "testobjects.create")

	var req transport.TestObjectRequest
	if err := bindBody(c, l, "create_testobject_error", &req); err != nil {
		return err
	}
	obj, err := h.Svc.Create(ctx, service.TestObjectInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return failure(l, "create_testobject_error", err, "")
	}
	l.Info("create_testobject_success", "id", obj.ID)
	return c.JSON(http.StatusCreated, obj)
}

func (h *TestObjectsHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "testobjects.update")

	id, err := parseID(c, l, "update_testobject_error")
	if err != nil {
		return err
	}
	var req transport.TestObjectRequest
	if err := bindBody(c, l, "update_testobject_error", &req); err != nil {
		return err
	}
	obj, err := h.Svc.Update(ctx, id, service.TestObjectInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return failure(l, "update_testobject_error", err, "test object not found")
	}
	return c.JSON(http.StatusOK, obj)
}

func (h *TestObjectsHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "testobjects.delete")

	id, err := parseID(c, l, "delete_testobject_error")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return failure(l, "delete_testobject_error", err, "test object not found")
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: fmt.Sprintf("test object %d deleted", id)})
}
