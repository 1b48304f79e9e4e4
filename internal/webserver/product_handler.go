package webserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/logger"
	"github.com/mdouchement/pricewatch/internal/database"
	"github.com/mdouchement/pricewatch/internal/model"
	"github.com/mdouchement/pricewatch/internal/selector"
	"github.com/mdouchement/pricewatch/internal/webserver/serializer"
	"github.com/mdouchement/pricewatch/internal/webserver/service"
	"github.com/mdouchement/pricewatch/internal/webserver/weberror"
)

type product struct {
	logger    logger.Logger
	db        database.Client
	checker   *service.Checker
	destroyer *service.Destroyer
}

type productParams struct {
	URL string `json:"url"`
}

func (h *product) List(c echo.Context) error {
	c.Set("handler_method", "product.List")

	products, err := h.db.ListProducts()
	if err != nil {
		return weberror.New(http.StatusInternalServerError, err.Error())
	}

	//

	if c.Request().Header.Get("Accept") == "text/plain" {
		return c.String(http.StatusOK, serializer.TextProducts(products))
	}
	// "application/json"
	return c.JSON(http.StatusOK, serializer.Products(products))
}

func (h *product) Create(c echo.Context) error {
	c.Set("handler_method", "product.Create")

	var params productParams
	if err := c.Bind(&params); err != nil {
		return weberror.New(http.StatusBadRequest, err.Error())
	}
	if params.URL == "" {
		return weberror.New(http.StatusBadRequest, "url is required")
	}

	//

	_, err := h.db.FindProductByURL(params.URL)
	if err == nil {
		return weberror.Newf(http.StatusConflict, "%s is already tracked", params.URL)
	}
	if !h.db.IsNotFound(err) {
		return weberror.New(http.StatusInternalServerError, err.Error())
	}

	product := &model.Product{
		URL:     params.URL,
		Domain:  selector.Domain(params.URL),
		InStock: true,
	}
	if err := h.db.Save(product); err != nil {
		return weberror.New(http.StatusInternalServerError, err.Error())
	}

	// Tracking starts even when the shop is unreachable right now,
	// the scheduler retries on its next tick.
	if _, err := h.checker.Check(c.Request().Context(), product); err != nil {
		h.logger.Errorf("product.Create: first check: %s", err)
	}

	return c.JSON(http.StatusCreated, serializer.Product(product))
}

func (h *product) Show(c echo.Context) error {
	c.Set("handler_method", "product.Show")

	product, err := h.db.FindProduct(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return weberror.New(http.StatusNotFound, "product not found")
		}

		return weberror.New(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, serializer.Product(product))
}

func (h *product) Delete(c echo.Context) error {
	c.Set("handler_method", "product.Delete")

	product, err := h.db.FindProduct(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return weberror.New(http.StatusNotFound, "product not found")
		}

		return weberror.New(http.StatusInternalServerError, err.Error())
	}

	//

	if err := h.destroyer.Destroy(product); err != nil {
		return weberror.New(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *product) Check(c echo.Context) error {
	c.Set("handler_method", "product.Check")

	product, err := h.db.FindProduct(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return weberror.New(http.StatusNotFound, "product not found")
		}

		return weberror.New(http.StatusInternalServerError, err.Error())
	}

	//

	result, err := h.checker.Check(c.Request().Context(), product)
	if err != nil {
		return weberror.Newf(http.StatusBadGateway, "could not check %s: %s", product.URL, err)
	}

	return c.JSON(http.StatusOK, serializer.Parse(result))
}

func (h *product) History(c echo.Context) error {
	c.Set("handler_method", "product.History")

	product, err := h.db.FindProduct(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return weberror.New(http.StatusNotFound, "product not found")
		}

		return weberror.New(http.StatusInternalServerError, err.Error())
	}

	points, err := h.db.FindPricePointsByProductID(product.ID)
	if err != nil && !h.db.IsNotFound(err) {
		return weberror.New(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, serializer.PricePoints(points))
}
