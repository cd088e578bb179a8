package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"croplife/internal/service"
)

// PageHandler serves the data behind the public pages.
type PageHandler struct {
	pageService service.PageService
}

// NewPageHandler creates a new page handler.
func NewPageHandler(pageService service.PageService) *PageHandler {
	return &PageHandler{pageService: pageService}
}

// Home godoc
// @Summary Home page data
// @Tags pages
// @Produce json
// @Success 200 {object} service.HomePage
// @Failure 500 {object} errors.ErrorResponse
// @Router / [get]
func (h *PageHandler) Home(c echo.Context) error {
	page, err := h.pageService.Home(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Catalog godoc
// @Summary Product catalog page data
// @Tags pages
// @Produce json
// @Success 200 {object} service.CatalogPage
// @Failure 500 {object} errors.ErrorResponse
// @Router /products [get]
func (h *PageHandler) Catalog(c echo.Context) error {
	page, err := h.pageService.Catalog(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// ProductDetail godoc
// @Summary Product detail page data
// @Tags pages
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} service.ProductPage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *PageHandler) ProductDetail(c echo.Context) error {
	page, err := h.pageService.ProductDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}
