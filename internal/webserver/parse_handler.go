package webserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/logger"
	"github.com/mdouchement/pricewatch/internal/scraper"
	"github.com/mdouchement/pricewatch/internal/webserver/serializer"
	"github.com/mdouchement/pricewatch/internal/webserver/weberror"
)

type parse struct {
	logger  logger.Logger
	scraper scraper.Scraper
}

type parseParams struct {
	URL string `json:"url"`
}

// Parse scrapes the given product page and renders its listing data.
// A failed fetch still renders 200 with the placeholder payload, the
// mobile client treats it as an out of stock listing.
func (h *parse) Parse(c echo.Context) error {
	c.Set("handler_method", "parse.Parse")

	var params parseParams
	if err := c.Bind(&params); err != nil {
		return weberror.New(http.StatusBadRequest, err.Error())
	}
	if params.URL == "" {
		return weberror.New(http.StatusBadRequest, "url is required")
	}

	result, err := h.scraper.Scrape(c.Request().Context(), params.URL)
	if err != nil {
		h.logger.Errorf("parse: %s", err)
		return c.JSON(http.StatusOK, serializer.FailedParse())
	}

	return c.JSON(http.StatusOK, serializer.Parse(result))
}
