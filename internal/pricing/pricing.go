// Package pricing normalizes scraped price texts and filters the noisy
// candidates a shop page yields while it is still rendering.
package pricing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// placeholderKeywords disqualify texts captured while the page is still loading.
var placeholderKeywords = []string{
	"зачекайте", "трохи", "завантаж", "loading", "please wait",
	"очікуйте", "завантаження", "loading...", "завантажу", "шукаємо",
}

// currencyKeywords mark a text as price-like.
var currencyKeywords = []string{"₴", "грн", "uah", "$", "usd", "€", "eur", "руб", "₽"}

var (
	numberRE      = regexp.MustCompile(`[-+]?[0-9.,\s]{1,50}`)
	thousandsRE   = regexp.MustCompile(`,\d{3}(\D|$)`)
	notNumericRE  = regexp.MustCompile(`[^\d.+-]`)
	digitRE       = regexp.MustCompile(`\d`)
	punctuationRE = regexp.MustCompile(`^[.\-,\s]+$`)
	ellipsisRE    = regexp.MustCompile(`\.{3,}`)
	currencyRE    = regexp.MustCompile(`(^|\P{L})(грн|uah|usd|eur)(\P{L}|$)`)
	spacesRE      = regexp.MustCompile(`\s+`)
)

// ContainsCurrency reports whether text carries a currency marker.
func ContainsCurrency(text string) bool {
	if text == "" {
		return false
	}

	t := strings.ToLower(text)
	for _, currency := range currencyKeywords {
		if strings.Contains(t, currency) {
			return true
		}
	}
	return currencyRE.MatchString(t)
}

// Normalize extracts the numeric value from a scraped price text and
// renders it in a canonical decimal form. Trailing zeros and the
// separator ambiguity of "1.299,50" versus "1,299.50" are resolved.
func Normalize(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	s := strings.TrimSpace(strings.ReplaceAll(text, " ", " "))
	num := numberRE.FindString(s)
	if num == "" {
		return "", false
	}
	num = strings.ReplaceAll(strings.TrimSpace(num), " ", "")

	var normalized string
	switch {
	case strings.Contains(num, ",") && strings.Contains(num, "."):
		if strings.LastIndex(num, ",") > strings.LastIndex(num, ".") {
			// 1.299,50
			normalized = strings.ReplaceAll(num, ".", "")
			normalized = strings.ReplaceAll(normalized, ",", ".")
		} else {
			// 1,299.50
			normalized = strings.ReplaceAll(num, ",", "")
		}
	case strings.Contains(num, ","):
		if thousandsRE.MatchString(num) {
			normalized = strings.ReplaceAll(num, ",", "")
		} else {
			normalized = strings.ReplaceAll(num, ",", ".")
		}
	default:
		normalized = num
	}
	normalized = notNumericRE.ReplaceAllString(normalized, "")

	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil || value <= 0 {
		return "", false
	}

	if value == math.Trunc(value) {
		return strconv.FormatInt(int64(value), 10), true
	}

	price := strconv.FormatFloat(value, 'f', 2, 64)
	price = strings.TrimRight(price, "0")
	return strings.TrimRight(price, "."), true
}

// PriceCandidate reports whether text contains digits and is not a loading placeholder.
func PriceCandidate(text string) bool {
	if !digitRE.MatchString(text) {
		return false
	}

	t := strings.ToLower(text)
	for _, keyword := range placeholderKeywords {
		if strings.Contains(t, keyword) {
			return false
		}
	}
	return true
}

// ValidName reports whether text is usable as a product name.
func ValidName(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return false
	}

	for _, keyword := range placeholderKeywords {
		if strings.Contains(t, keyword) {
			return false
		}
	}
	if punctuationRE.MatchString(t) {
		return false
	}
	if ellipsisRE.MatchString(t) {
		return false
	}
	return len([]rune(spacesRE.ReplaceAllString(t, ""))) >= 3
}
