package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"time"

	"github.com/mdouchement/logger"
	"github.com/mdouchement/pricewatch/internal/database"
	"github.com/mdouchement/pricewatch/internal/scheduler"
	"github.com/mdouchement/pricewatch/internal/scraper"
	"github.com/mdouchement/pricewatch/internal/selector"
	"github.com/mdouchement/pricewatch/internal/storage"
	"github.com/mdouchement/pricewatch/internal/webserver"
	"github.com/mdouchement/pricewatch/internal/webserver/service"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const dbname = "pricewatch.db"

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	binding string
	port    string
)

func main() {
	c := &cobra.Command{
		Use:     "pricewatch",
		Short:   "Product page scraping and price tracking server",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    cobra.ExactArgs(0),
	}
	c.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Version for pricewatch",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(c.Version)
		},
	})
	c.AddCommand(initCmd)
	c.AddCommand(reindexCmd)
	c.AddCommand(checkCmd)

	serverCmd.Flags().StringVarP(&binding, "binding", "b", "0.0.0.0", "Server's binding")
	serverCmd.Flags().StringVarP(&port, "port", "p", envORdefault("PORT", "8000"), "Server's port")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

var (
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Init the database",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return database.StormInit(nameWithEnv("DATABASE_PATH", dbname))
		},
	}

	//

	reindexCmd = &cobra.Command{
		Use:   "reindex",
		Short: "Reindex the database",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return database.StormReIndex(nameWithEnv("DATABASE_PATH", dbname))
		},
	}

	//

	serverCmd = &cobra.Command{
		Use:   "server",
		Short: "Start server",
		Args:  cobra.ExactArgs(0),
		RunE: func(c *cobra.Command, _ []string) error {
			log := newLogger()

			db, err := database.StormOpen(nameWithEnv("DATABASE_PATH", dbname))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			//

			store := storage.NewFileSystem(nameWithEnv("STORAGE_PATH", "snapshots"))

			//

			scrpr, browser, err := newScraper(log)
			if err != nil {
				return err
			}
			if browser != nil {
				defer browser.Close()
			}

			checker := service.NewChecker(log, db, store, scrpr, durationORdefault("SNAPSHOT_TTL", 72*time.Hour))

			//

			scheduler.Start(scheduler.Controller{
				Logger:             log,
				Database:           db,
				Storage:            store,
				Checker:            checker,
				CheckSpecification: envORdefault("CHECK_SCHEDULE", "@every 30m"),
				PurgeSpecification: "@every 30s",
			})

			//

			ctrl := webserver.Controller{
				Version:  c.Parent().Version,
				Logger:   log,
				Database: db,
				Storage:  store,
				Scraper:  scrpr,
				Checker:  checker,
			}

			engine := webserver.EchoEngine(ctrl)
			webserver.PrintRoutes(engine)

			listen := fmt.Sprintf("%s:%s", binding, port)
			log.Infof("Server listening on %s", listen)
			return errors.Wrap(
				engine.Start(listen),
				"could not run server",
			)
		},
	}

	//

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Check all the tracked products once",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			log := newLogger()

			db, err := database.StormOpen(nameWithEnv("DATABASE_PATH", dbname))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			store := storage.NewFileSystem(nameWithEnv("STORAGE_PATH", "snapshots"))

			scrpr, browser, err := newScraper(log)
			if err != nil {
				return err
			}
			if browser != nil {
				defer browser.Close()
			}

			checker := service.NewChecker(log, db, store, scrpr, durationORdefault("SNAPSHOT_TTL", 72*time.Hour))

			//

			products, err := db.ListProducts()
			if err != nil {
				return errors.Wrap(err, "could not list products")
			}

			for _, product := range products {
				result, err := checker.Check(context.Background(), product)
				if err != nil {
					fmt.Printf("⚠ Не вдалося отримати дані для %s: %s\n", product.URL, err)
					continue
				}

				fmt.Printf("✔ %s | Ціна: %s | Стара ціна: %s | В наявності: %t\n",
					product.Name, result.CurrentPrice, result.OldPrice, result.InStock)
			}
			return nil
		},
	}
)

func newLogger() logger.Logger {
	log := logrus.New()
	log.SetFormatter(&logger.LogrusTextFormatter{
		DisableColors:   false,
		ForceColors:     true,
		ForceFormatting: true,
		PrefixRE:        regexp.MustCompile(`^(\[.*?\])\s`),
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return logger.WrapLogrus(log)
}

// newScraper wires the selector config and the browser tier when enabled.
// A browser that fails to launch downgrades the scraper to static fetches.
func newScraper(log logger.Logger) (scraper.Scraper, *scraper.Browser, error) {
	selectors, err := selector.Load(envORdefault("SELECTORS_PATH", "site_selectors.json"))
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not load selectors")
	}

	var browser *scraper.Browser
	if boolORdefault("ENABLE_BROWSER", true) {
		browser, err = scraper.LaunchBrowser(intORdefault("BROWSER_MAX_PARALLEL", 1))
		if err != nil {
			log.Warnf("browser unavailable, static fetches only: %s", err)
			browser = nil
		}
	} else {
		log.Info("Browser disabled by ENV")
	}

	scrpr := scraper.NewRobust(scraper.RobustConfig{
		Logger:          log,
		Selectors:       selectors,
		Browser:         browser,
		BrowserAttempts: intORdefault("BROWSER_ATTEMPTS", 2),
	})
	return scrpr, browser, nil
}

func nameWithEnv(env, name string) string {
	p := os.Getenv(env)
	if len(p) == 0 {
		return name
	}
	return filepath.Join(p, name)
}

func envORdefault(name, fallback string) string {
	p := os.Getenv(name)
	if len(p) == 0 {
		return fallback
	}
	return p
}

func boolORdefault(name string, fallback bool) bool {
	p, err := strconv.ParseBool(os.Getenv(name))
	if err != nil {
		return fallback
	}
	return p
}

func intORdefault(name string, fallback int) int {
	p, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return fallback
	}
	return p
}

func durationORdefault(name string, fallback time.Duration) time.Duration {
	p, err := time.ParseDuration(os.Getenv(name))
	if err != nil {
		return fallback
	}
	return p
}
