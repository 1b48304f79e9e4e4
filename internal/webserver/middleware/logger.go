package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/logger"
)

// Logger returns a middleware that logs the requests.
func Logger(log logger.Logger) echo.MiddlewareFunc {
	log = log.WithPrefix("[http]")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			req := c.Request()
			res := c.Response()

			l := log
			if handler, ok := c.Get("handler_method").(string); ok {
				l = log.WithPrefix("[" + handler + "]")
			}
			l.Infof("%s %s -> %d (%s)", req.Method, req.URL.Path, res.Status, time.Since(start))

			return err
		}
	}
}
