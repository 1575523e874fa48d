package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/exampleapp/example-api/internal/api/metrics"
	"github.com/exampleapp/example-api/internal/api/middleware"
	"github.com/exampleapp/example-api/internal/core/domain"
	"github.com/exampleapp/example-api/internal/core/ports"
)

// ItemHandler handles HTTP requests for item operations.
type ItemHandler struct {
	service ports.ItemService
}

func NewItemHandler(service ports.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// List handles GET /api/items.
//
// @Summary      List items
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int     false  "Zero-based page index"  default(0)
// @Param        size  query     int     false  "Page size (max 2000)"   default(20)
// @Param        sort  query     string  false  "field[,asc|desc]"       default(id,asc)
// @Success      200   {object}  itemPageResponse
// @Header       200   {integer} X-Total-Count  "Total number of items"
// @Header       200   {integer} X-Page-Number  "Returned page index"
// @Failure      401   {object}  api.ErrorResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c echo.Context) error {
	req := parsePageRequest(c.QueryParam("page"), c.QueryParam("size"), c.QueryParam("sort"))

	page, err := h.service.List(c.Request().Context(), req)
	if err != nil {
		observe("list", err)
		return err
	}
	observe("list", nil)
	metrics.ItemsPageSize.Observe(float64(len(page.Items)))

	c.Response().Header().Set(middleware.HeaderTotalCount, strconv.FormatInt(page.TotalElements, 10))
	c.Response().Header().Set(middleware.HeaderPageNumber, strconv.Itoa(page.Number))
	return c.JSON(http.StatusOK, toItemPageResponse(page))
}

// Get handles GET /api/items/:id.
//
// @Summary      Get an item by id
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Item id"
// @Success      200  {object}  domain.Item
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) Get(c echo.Context) error {
	id, ok := parseItemID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	item, err := h.service.Get(c.Request().Context(), id)
	observe("get", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Create handles POST /api/items.
//
// @Summary      Create an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      itemRequest  true  "Item"
// @Success      201   {object}  domain.Item
// @Failure      400   {object}  api.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c echo.Context) error {
	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		observe("create", err)
		return err
	}

	item, err := h.service.Create(c.Request().Context(), ports.ItemInput{
		Name:        req.Name,
		Description: req.Description,
	})
	observe("create", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// Update handles PUT /api/items/:id. Both fields are replaced; an omitted
// description is cleared.
//
// @Summary      Update an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Item id"
// @Param        body  body      itemRequest  true  "Item"
// @Success      200   {object}  domain.Item
// @Failure      400   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c echo.Context) error {
	id, ok := parseItemID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		observe("update", err)
		return err
	}

	item, err := h.service.Update(c.Request().Context(), id, ports.ItemInput{
		Name:        req.Name,
		Description: req.Description,
	})
	observe("update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /api/items/:id.
//
// @Summary      Delete an item
// @Tags         items
// @Security     BearerAuth
// @Param        id   path  int  true  "Item id"
// @Success      204
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	id, ok := parseItemID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	err := h.service.Delete(c.Request().Context(), id)
	observe("delete", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func observe(operation string, err error) {
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrItemNotFound):
		result = metrics.ResultNotFound
	case errors.Is(err, domain.ErrValidation):
		result = metrics.ResultInvalid
	default:
		result = metrics.ResultError
	}
	metrics.ItemsOperationsTotal.WithLabelValues(operation, result).Inc()
}
