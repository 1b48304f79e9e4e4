package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mdouchement/logger"
	"github.com/mdouchement/pricewatch/internal/selector"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestRobust(selectors selector.Config) *Robust {
	return NewRobust(RobustConfig{
		Logger:    logger.WrapLogrus(logrus.New()),
		Selectors: selectors,
	})
}

func TestScrapeStatic(t *testing.T) {
	page := strings.Repeat("<!-- padding -->", 20) + `
	<html><body>
		<h1 class="item-title">Кавоварка Philips EP2231</h1>
		<div class="item-price">8 999 ₴</div>
		<div class="item-price-old">10 499 ₴</div>
	</body></html>`

	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		w.Write([]byte(page))
	}))
	defer server.Close()

	selectors := selector.Config{
		"127.0.0.1": {
			Name:       []string{"h1.item-title"},
			Price:      []string{".item-price"},
			OldPrice:   []string{".item-price-old"},
			OutOfStock: []string{"немає в наявності"},
		},
	}

	s := newTestRobust(selectors)
	result, err := s.Scrape(context.Background(), server.URL+"/product/42")
	assert.NoError(t, err)

	assert.Equal(t, "Кавоварка Philips EP2231", result.Name)
	assert.Equal(t, "8999", result.CurrentPrice)
	assert.Equal(t, "10499", result.OldPrice)
	assert.True(t, result.InStock)
	assert.Equal(t, FetcherStatic, result.Fetcher)
	assert.Equal(t, page, result.HTML)
	assert.Equal(t, "Mozilla/5.0 (Windows NT 10.0; Win64; x64)", agent)
}

func TestScrapeStaticOutOfStock(t *testing.T) {
	page := strings.Repeat("<!-- padding -->", 20) + `
	<html><body>
		<h1 class="item-title">Кавоварка Philips EP2231</h1>
		<p>Цього товару немає в наявності</p>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	selectors := selector.Config{
		"127.0.0.1": {
			Name:       []string{"h1.item-title"},
			OutOfStock: []string{"немає в наявності"},
		},
	}

	s := newTestRobust(selectors)
	result, err := s.Scrape(context.Background(), server.URL)
	assert.NoError(t, err)
	assert.False(t, result.InStock)
}

func TestScrapeStaticRetriesThenFails(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "go away", http.StatusForbidden)
	}))
	defer server.Close()

	s := newTestRobust(selector.Config{})
	result, err := s.Scrape(context.Background(), server.URL)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 2, hits)
}

func TestScrapeStaticRejectsStubPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	s := newTestRobust(selector.Config{})
	_, err := s.Scrape(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestScrapeCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestRobust(selector.Config{})
	_, err := s.Scrape(ctx, server.URL)
	assert.Error(t, err)
}
