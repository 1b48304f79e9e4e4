package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/mdouchement/pricewatch/internal/selector"
	"github.com/stretchr/testify/assert"
)

const productPage = `<html>
<head>
	<title>Ноутбук Lenovo IdeaPad 3 - Крамниця</title>
	<meta property="product:price:amount" content="18999">
</head>
<body>
	<h1 class="title__font">Ноутбук Lenovo IdeaPad 3</h1>
	<p class="product-price__big">21 999 ₴</p>
	<p class="product-price__small">24 999 ₴</p>
</body>
</html>`

func document(t *testing.T, html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	assert.NoError(t, err)
	return doc
}

func TestFillFromDocumentConfiguredSelectors(t *testing.T) {
	doc := document(t, productPage)
	site := selector.Defaults()["rozetka.com.ua"]

	result := &Result{InStock: true}
	fillFromDocument(doc, site, result)

	assert.Equal(t, "Ноутбук Lenovo IdeaPad 3", result.Name)
	assert.Equal(t, "21999", result.CurrentPrice)
	assert.Equal(t, "24999", result.OldPrice)
}

func TestFillFromDocumentKeepsBrowserCapture(t *testing.T) {
	doc := document(t, productPage)
	site := selector.Defaults()["rozetka.com.ua"]

	result := &Result{Name: "Captured Name", CurrentPrice: "42", InStock: true}
	fillFromDocument(doc, site, result)

	assert.Equal(t, "Captured Name", result.Name)
	assert.Equal(t, "42", result.CurrentPrice)
	assert.Equal(t, "24999", result.OldPrice)
}

func TestFillFromDocumentUniversalFallbacks(t *testing.T) {
	html := `<html><head><title>Смартфон Pixel 8 - Shop</title></head>
	<body>
		<span itemprop="price" content="24 499">24 499 грн</span>
	</body></html>`
	doc := document(t, html)

	result := &Result{InStock: true}
	fillFromDocument(doc, nil, result)

	assert.Equal(t, "Смартфон Pixel 8 - Shop", result.Name)
	assert.Equal(t, "24499", result.CurrentPrice)
	assert.Empty(t, result.OldPrice)
}

func TestFillFromDocumentSkipsPriceLikeNames(t *testing.T) {
	html := `<html><body>
		<h1>1 299 грн</h1>
		<h2>Навушники Sony WH-1000XM5</h2>
	</body></html>`
	doc := document(t, html)

	result := &Result{InStock: true}
	fillFromDocument(doc, nil, result)

	assert.Equal(t, "Навушники Sony WH-1000XM5", result.Name)
}

func TestNodeText(t *testing.T) {
	html := `<html><body>
		<meta id="m" property="product:price:amount" content="18999">
		<div id="d" data-price="15999">зачекайте...</div>
		<p id="p">  21 999
		₴  </p>
	</body></html>`
	doc := document(t, html)

	assert.Equal(t, "18999", nodeText(doc.Find("#m")))
	assert.Equal(t, "15999", nodeText(doc.Find("#d")))
	assert.Equal(t, "21 999 ₴", nodeText(doc.Find("#p")))
	assert.Empty(t, nodeText(doc.Find("#missing")))
}

func TestOutOfStock(t *testing.T) {
	site := &selector.Site{OutOfStock: []string{"немає в наявності"}}

	doc := document(t, `<html><body><p>Товар закінчився. Немає в наявності.</p></body></html>`)
	assert.True(t, outOfStock(doc, site))

	doc = document(t, `<html><body><p>Є в наявності</p></body></html>`)
	assert.False(t, outOfStock(doc, site))
	assert.False(t, outOfStock(doc, nil))
}
