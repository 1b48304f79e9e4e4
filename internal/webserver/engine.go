package webserver

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/logger"
	"github.com/mdouchement/pricewatch/internal/database"
	"github.com/mdouchement/pricewatch/internal/scraper"
	"github.com/mdouchement/pricewatch/internal/storage"
	middlewarepkg "github.com/mdouchement/pricewatch/internal/webserver/middleware"
	"github.com/mdouchement/pricewatch/internal/webserver/service"
)

// A Controller is an Iversion Of Control pattern used to init the server package.
type Controller struct {
	Version  string
	Logger   logger.Logger
	Database database.Client
	Storage  storage.Backend
	Scraper  scraper.Scraper
	Checker  *service.Checker
}

// EchoEngine instantiates the wep server.
func EchoEngine(ctrl Controller) *echo.Echo {
	engine := echo.New()
	engine.Use(middleware.Gzip())
	// CORS is wide open, the mobile client runs from any origin.
	engine.Use(middleware.CORS())
	engine.Use(middlewarepkg.Logger(ctrl.Logger))

	engine.HTTPErrorHandler = middlewarepkg.NewHTTPErrorHandler(ctrl.Logger)

	engine.Pre(middleware.Rewrite(map[string]string{
		"/": "/version",
	}))

	//
	//
	//

	router := engine.Group("")

	// Generic handlers
	//
	router.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})
	router.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status": "ok",
		})
	})

	// Parse
	//
	parse := parse{
		logger:  ctrl.Logger,
		scraper: ctrl.Scraper,
	}
	router.POST("/parse", parse.Parse)

	// Product
	//
	product := product{
		logger:    ctrl.Logger,
		db:        ctrl.Database,
		checker:   ctrl.Checker,
		destroyer: service.NewDestroyer(ctrl.Database, ctrl.Storage),
	}
	router.GET("/products", product.List)
	router.POST("/products", product.Create)
	router.GET("/products/:id", product.Show)
	router.DELETE("/products/:id", product.Delete)
	router.POST("/products/:id/check", product.Check)
	router.GET("/products/:id/history", product.History)

	// Snapshot
	//
	snapshot := snapshot{
		logger:  ctrl.Logger,
		db:      ctrl.Database,
		storage: ctrl.Storage,
	}
	router.GET("/snapshots/:id", snapshot.Download)

	return engine
}

// PrintRoutes prints the Echo engin exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}
