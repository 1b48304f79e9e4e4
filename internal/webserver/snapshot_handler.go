package webserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/logger"
	"github.com/mdouchement/pricewatch/internal/database"
	"github.com/mdouchement/pricewatch/internal/storage"
	"github.com/mdouchement/pricewatch/internal/webserver/weberror"
)

type snapshot struct {
	logger  logger.Logger
	db      database.Client
	storage storage.Backend
}

// Download streams the HTML archived during a past fetch.
func (h *snapshot) Download(c echo.Context) error {
	c.Set("handler_method", "snapshot.Download")

	snapshot, err := h.db.FindSnapshot(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return weberror.New(http.StatusNotFound, "snapshot not found")
		}

		return weberror.New(http.StatusInternalServerError, err.Error())
	}

	//

	rc, err := h.storage.Reader(snapshot.Domain, snapshot.Key)
	if err != nil {
		return weberror.New(http.StatusInternalServerError, err.Error())
	}
	defer rc.Close()

	c.Response().Header().Set("Content-Length", strconv.FormatInt(snapshot.Size, 10))
	c.Response().Header().Set("X-Fetcher", snapshot.Fetcher)
	return c.Stream(http.StatusOK, "text/html; charset=utf-8", rc)
}
