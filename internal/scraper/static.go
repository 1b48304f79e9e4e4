package scraper

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// Headers sent by both tiers. Some shops serve an empty shell to
// unknown user agents.
const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
	acceptLanguage = "uk-UA,uk;q=0.9,en-US;q=0.8,en;q=0.7"
)

// fetchHTML GETs url and returns the payload body.
func fetchHTML(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, "could not build request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)

	res, err := client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "could not fetch page")
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return "", errors.Errorf("fetch %s: %s", url, res.Status)
	}

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return "", errors.Wrap(err, "could not read page")
	}
	return string(payload), nil
}
